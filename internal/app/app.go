// Package app is the composition root: it wires repositories, services,
// handlers and middleware into a fiber application.
package app

import (
	"strings"
	"time"

	"tasker/internal/handlers"
	"tasker/internal/middleware"
	"tasker/internal/repositories"
	"tasker/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"gorm.io/gorm"
)

// bodyLimit caps buffered request bodies. Multipart uploads are streamed past
// it and sized by the avatar check instead.
const bodyLimit = 1 << 20

// Deps are the collaborators the application is built from.
type Deps struct {
	DB          *gorm.DB
	Auth        services.AuthConfig
	Publisher   services.EventPublisher // nil disables domain events
	Exchange    string
	CORSOrigins string
	RequestLog  bool
}

// New builds the fiber application.
func New(deps Deps) *fiber.App {
	userRepo := repositories.NewGORMUserRepository(deps.DB)
	taskRepo := repositories.NewGORMTaskRepository(deps.DB)

	var events services.Events
	if deps.Publisher != nil {
		events = services.NewEvents(deps.Publisher, deps.Exchange)
	}
	authService := services.NewAuthService(userRepo, deps.Auth, events)
	userService := services.NewUserService(userRepo, authService, events)
	taskService := services.NewTaskService(taskRepo, events)

	userHandler := handlers.NewUserHandler(authService, userService)
	taskHandler := handlers.NewTaskHandler(taskService)

	app := fiber.New(fiber.Config{
		BodyLimit:         bodyLimit,
		StreamRequestBody: true,
	})

	app.Use(recover.New())
	app.Use(limitBody)
	if deps.RequestLog {
		app.Use(logger.New())
	}
	if deps.CORSOrigins != "" {
		app.Use(cors.New(cors.Config{AllowOrigins: deps.CORSOrigins}))
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	auth := middleware.AuthRequired(authService)
	userHandler.RegisterRoutes(app, auth)
	taskHandler.RegisterRoutes(app, auth)

	return app
}

// limitBody rejects non-multipart bodies declared larger than bodyLimit. The
// unread remainder stays on the wire, so the connection is closed.
func limitBody(c *fiber.Ctx) error {
	if c.Request().Header.ContentLength() <= bodyLimit ||
		strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		return c.Next()
	}
	c.Context().SetConnectionClose()
	return c.Status(fiber.StatusRequestEntityTooLarge).JSON(fiber.Map{
		"message": "Request body too large",
	})
}
