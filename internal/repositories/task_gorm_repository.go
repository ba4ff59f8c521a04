package repositories

import (
	"errors"
	"fmt"

	"tasker/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMTaskRepository is a GORM implementation of TaskRepository.
type GORMTaskRepository struct {
	db *gorm.DB
}

// NewGORMTaskRepository creates a new instance of GORMTaskRepository.
func NewGORMTaskRepository(db *gorm.DB) *GORMTaskRepository {
	return &GORMTaskRepository{
		db: db,
	}
}

// Create inserts task and loads its owner.
func (r *GORMTaskRepository) Create(task *models.Task) error {
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	if err := r.db.Omit(clause.Associations).Create(task).Error; err != nil {
		return fmt.Errorf("failed to create task: %w", err)
	}
	var owner models.User
	if err := r.db.Omit("avatar").First(&owner, "id = ?", task.OwnerID).Error; err != nil {
		return fmt.Errorf("failed to load owner of task %s: %w", task.ID, err)
	}
	task.Owner = &owner
	return nil
}

// List returns the tasks of ownerID matching query.
func (r *GORMTaskRepository) List(ownerID string, query models.TaskQuery) ([]models.Task, error) {
	tx := r.db.Where("owner_id = ?", ownerID)
	if query.Completed != nil {
		tx = tx.Where("completed = ?", *query.Completed)
	}
	if query.SortField != "" {
		tx = tx.Order(clause.OrderByColumn{Column: clause.Column{Name: query.SortField}, Desc: query.SortDesc})
	}
	if query.Limit > 0 {
		tx = tx.Limit(query.Limit)
	}
	if query.Skip > 0 {
		tx = tx.Offset(query.Skip)
	}

	tasks := make([]models.Task, 0)
	if err := tx.Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// GetByOwner retrieves a task by ID only if ownerID owns it.
func (r *GORMTaskRepository) GetByOwner(id, ownerID string) (*models.Task, error) {
	var task models.Task
	if err := r.db.First(&task, "id = ? AND owner_id = ?", id, ownerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("task with ID %s: %w", id, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get task by ID %s: %w", id, err)
	}
	return &task, nil
}

// Update writes the mutable task columns.
func (r *GORMTaskRepository) Update(task *models.Task) error {
	res := r.db.Model(task).Select("title", "description", "completed").Updates(task)
	if res.Error != nil {
		return fmt.Errorf("failed to update task: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("task with ID %s: %w", task.ID, ErrRecordNotFound)
	}
	return nil
}

// DeleteByOwner removes a task owned by ownerID and returns it.
func (r *GORMTaskRepository) DeleteByOwner(id, ownerID string) (*models.Task, error) {
	var task models.Task
	err := r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&task, "id = ? AND owner_id = ?", id, ownerID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("task with ID %s: %w", id, ErrRecordNotFound)
			}
			return fmt.Errorf("failed to get task by ID %s: %w", id, err)
		}
		if err := tx.Delete(&models.Task{}, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to delete task: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &task, nil
}
