package handlers

import (
	"encoding/json"
	"errors"

	"tasker/internal/middleware"
	"tasker/internal/services"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles HTTP requests for accounts and sessions.
type UserHandler struct {
	authService *services.AuthService
	userService *services.UserService
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(authService *services.AuthService, userService *services.UserService) *UserHandler {
	return &UserHandler{
		authService: authService,
		userService: userService,
	}
}

// RegisterRoutes registers the user routes. Routes other than registration
// and login go through auth.
func (h *UserHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	users := router.Group("/users")
	users.Post("/", h.HandleRegister)
	users.Post("/login", h.HandleLogin)
	users.Post("/logout", auth, h.HandleLogout)
	users.Post("/logout/all", auth, h.HandleLogoutAll)
	users.Get("/me", auth, h.HandleGetMe)
	users.Patch("/", auth, h.HandleUpdateMe)
	users.Delete("/me", auth, h.HandleDeleteMe)
	users.Post("/me/avatar", auth, h.HandleUploadAvatar)
	users.Get("/:id/avatar", auth, h.HandleGetAvatar)
}

// HandleRegister creates an account and returns it with its first token.
func (h *UserHandler) HandleRegister(c *fiber.Ctx) error {
	var req services.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}

	user, token, err := h.authService.Register(req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":  user,
		"token": token,
	})
}

// HandleLogin authenticates by email and password and issues a new token.
func (h *UserHandler) HandleLogin(c *fiber.Ctx) error {
	var req services.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}

	user, token, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"user":  user,
		"token": token,
	})
}

// HandleLogout revokes the token the request was made with.
func (h *UserHandler) HandleLogout(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if err := h.authService.Logout(user.ID, middleware.CurrentToken(c)); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// HandleLogoutAll revokes every token of the current user.
func (h *UserHandler) HandleLogoutAll(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if err := h.authService.LogoutAll(user.ID); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

// HandleGetMe returns the current user.
func (h *UserHandler) HandleGetMe(c *fiber.Ctx) error {
	return c.JSON(middleware.CurrentUser(c))
}

// HandleUpdateMe applies a whitelisted profile update.
func (h *UserHandler) HandleUpdateMe(c *fiber.Ctx) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(c.Body(), &fields); err != nil {
		return invalidBody(c, err)
	}

	user, err := h.userService.UpdateProfile(middleware.CurrentUser(c), fields)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// HandleDeleteMe deletes the current user and every task they own.
func (h *UserHandler) HandleDeleteMe(c *fiber.Ctx) error {
	user := middleware.CurrentUser(c)
	if err := h.userService.DeleteAccount(user); err != nil {
		return respondError(c, err)
	}
	return c.JSON(user)
}

// HandleUploadAvatar stores the multipart "avatar" file of the current user.
func (h *UserHandler) HandleUploadAvatar(c *fiber.Ctx) error {
	file, err := c.FormFile("avatar")
	if err != nil {
		return message(c, fiber.StatusBadRequest, "Please provide an image")
	}

	if err := h.userService.SetAvatar(middleware.CurrentUser(c).ID, file); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).Send(nil)
}

// HandleGetAvatar streams a user's avatar. The content type is always image/png.
func (h *UserHandler) HandleGetAvatar(c *fiber.Ctx) error {
	avatar, err := h.userService.GetAvatar(c.Params("id"))
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return message(c, fiber.StatusBadRequest, "No user with the id provided")
		}
		return respondError(c, err)
	}

	c.Set(fiber.HeaderContentType, "image/png")
	return c.Status(fiber.StatusOK).Send(avatar)
}
