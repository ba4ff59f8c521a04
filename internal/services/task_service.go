package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"tasker/internal/models"
	"tasker/internal/repositories"
	"tasker/internal/validation"
)

var (
	taskUpdateFields = []string{"title", "description", "completed"}

	// sortColumns maps accepted sortBy field names to task columns.
	sortColumns = map[string]string{
		"title":       "title",
		"description": "description",
		"completed":   "completed",
		"created_at":  "created_at",
		"createdAt":   "created_at",
		"updated_at":  "updated_at",
		"updatedAt":   "updated_at",
	}
)

// CreateTaskRequest is the payload of a new task. Any owner in the body is ignored.
type CreateTaskRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// TaskPatch carries the whitelisted fields of a task update.
type TaskPatch struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Completed   *bool   `json:"completed"`
}

// TaskService handles business logic related to tasks.
type TaskService struct {
	repo     repositories.TaskRepository
	validate *validation.Validator
	events   Events
}

// NewTaskService creates a new TaskService.
func NewTaskService(repo repositories.TaskRepository, events Events) *TaskService {
	return &TaskService{
		repo:     repo,
		validate: validation.New(),
		events:   events,
	}
}

// ParseTaskQuery turns the list query parameters into a TaskQuery.
// sortBy is "field_direction"; direction "asc" sorts ascending, anything else
// descending. Non-numeric limit or skip means none.
func ParseTaskQuery(completed, sortBy, limit, skip string) models.TaskQuery {
	var q models.TaskQuery
	if completed != "" {
		c := completed == "true"
		q.Completed = &c
	}

	if sortBy != "" {
		field, direction := sortBy, ""
		if _, ok := sortColumns[sortBy]; !ok {
			if i := strings.LastIndex(sortBy, "_"); i >= 0 {
				field, direction = sortBy[:i], sortBy[i+1:]
			}
		}
		if column, ok := sortColumns[field]; ok {
			q.SortField = column
			q.SortDesc = direction != "asc"
		}
	}

	if n, err := strconv.Atoi(limit); err == nil && n > 0 {
		q.Limit = n
	}
	if n, err := strconv.Atoi(skip); err == nil && n > 0 {
		q.Skip = n
	}
	return q
}

// Create stores a new task owned by ownerID.
func (s *TaskService) Create(ownerID string, req CreateTaskRequest) (*models.Task, error) {
	task := &models.Task{
		Title:       req.Title,
		Description: strings.TrimSpace(req.Description),
		Completed:   req.Completed,
		OwnerID:     ownerID,
	}
	if err := s.validate.Struct(task); err != nil {
		return nil, err
	}
	if err := s.repo.Create(task); err != nil {
		return nil, err
	}
	s.events.emit(EventTaskCreated, map[string]interface{}{"taskID": task.ID, "ownerID": ownerID})
	return task, nil
}

// List returns the tasks of ownerID matching query.
func (s *TaskService) List(ownerID string, query models.TaskQuery) ([]models.Task, error) {
	return s.repo.List(ownerID, query)
}

// Get returns a task owned by ownerID.
func (s *TaskService) Get(id, ownerID string) (*models.Task, error) {
	task, err := s.repo.GetByOwner(id, ownerID)
	if err != nil {
		return nil, notFound(err)
	}
	return task, nil
}

// Update applies fields to a task owned by ownerID. Any key outside title,
// description and completed rejects the whole update.
func (s *TaskService) Update(id, ownerID string, fields map[string]json.RawMessage) (*models.Task, error) {
	var patch TaskPatch
	if err := decodePatch(fields, taskUpdateFields, &patch); err != nil {
		return nil, err
	}

	task, err := s.repo.GetByOwner(id, ownerID)
	if err != nil {
		return nil, notFound(err)
	}
	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = strings.TrimSpace(*patch.Description)
	}
	if patch.Completed != nil {
		task.Completed = *patch.Completed
	}
	if err := s.validate.Struct(task); err != nil {
		return nil, err
	}

	if err := s.repo.Update(task); err != nil {
		return nil, notFound(err)
	}
	s.events.emit(EventTaskUpdated, map[string]interface{}{"taskID": task.ID, "ownerID": ownerID})
	return task, nil
}

// Delete removes a task owned by ownerID and returns it.
func (s *TaskService) Delete(id, ownerID string) (*models.Task, error) {
	task, err := s.repo.DeleteByOwner(id, ownerID)
	if err != nil {
		return nil, notFound(err)
	}
	s.events.emit(EventTaskDeleted, map[string]interface{}{"taskID": task.ID, "ownerID": ownerID})
	return task, nil
}

func notFound(err error) error {
	if errors.Is(err, repositories.ErrRecordNotFound) {
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	}
	return err
}
