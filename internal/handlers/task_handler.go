package handlers

import (
	"encoding/json"

	"tasker/internal/middleware"
	"tasker/internal/services"

	"github.com/gofiber/fiber/v2"
)

// TaskHandler handles HTTP requests for tasks of the current user.
type TaskHandler struct {
	service *services.TaskService
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(service *services.TaskService) *TaskHandler {
	return &TaskHandler{
		service: service,
	}
}

// RegisterRoutes registers the task routes, all behind auth.
func (h *TaskHandler) RegisterRoutes(router fiber.Router, auth fiber.Handler) {
	tasks := router.Group("/tasks", auth)
	tasks.Post("/", h.HandleCreateTask)
	tasks.Get("/", h.HandleGetTasks)
	tasks.Get("/:id", h.HandleGetTaskByID)
	tasks.Patch("/:id", h.HandleUpdateTask)
	tasks.Delete("/:id", h.HandleDeleteTask)
}

// HandleCreateTask creates a task owned by the current user.
func (h *TaskHandler) HandleCreateTask(c *fiber.Ctx) error {
	var req services.CreateTaskRequest
	if err := c.BodyParser(&req); err != nil {
		return invalidBody(c, err)
	}

	task, err := h.service.Create(middleware.CurrentUser(c).ID, req)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(task)
}

// HandleGetTasks lists the current user's tasks.
// Query: completed=true|false, sortBy=field_asc|field_desc, limit, skip.
func (h *TaskHandler) HandleGetTasks(c *fiber.Ctx) error {
	query := services.ParseTaskQuery(c.Query("completed"), c.Query("sortBy"), c.Query("limit"), c.Query("skip"))

	tasks, err := h.service.List(middleware.CurrentUser(c).ID, query)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(tasks)
}

// HandleGetTaskByID retrieves a single task of the current user.
func (h *TaskHandler) HandleGetTaskByID(c *fiber.Ctx) error {
	task, err := h.service.Get(c.Params("id"), middleware.CurrentUser(c).ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(task)
}

// HandleUpdateTask applies a whitelisted update to a task of the current user.
func (h *TaskHandler) HandleUpdateTask(c *fiber.Ctx) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(c.Body(), &fields); err != nil {
		return invalidBody(c, err)
	}

	task, err := h.service.Update(c.Params("id"), middleware.CurrentUser(c).ID, fields)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(task)
}

// HandleDeleteTask deletes a task of the current user and returns it.
func (h *TaskHandler) HandleDeleteTask(c *fiber.Ctx) error {
	task, err := h.service.Delete(c.Params("id"), middleware.CurrentUser(c).ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(task)
}
