package repositories

import (
	"tasker/internal/models"
)

// TaskRepository defines the interface for task data access.
// Every read and write is scoped to an owner.
type TaskRepository interface {
	Create(task *models.Task) error
	List(ownerID string, query models.TaskQuery) ([]models.Task, error)
	GetByOwner(id, ownerID string) (*models.Task, error)
	Update(task *models.Task) error
	DeleteByOwner(id, ownerID string) (*models.Task, error)
}
