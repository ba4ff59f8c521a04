package repositories

import (
	"errors"

	"tasker/internal/models"
)

var (
	// ErrRecordNotFound is returned when a lookup matches nothing.
	ErrRecordNotFound = errors.New("record not found")
	// ErrDuplicateKey is returned when a write violates a unique index.
	ErrDuplicateKey = errors.New("duplicate key")
)

// UserRepository defines the interface for user data access.
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id string) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetAvatar(id string) ([]byte, error)
	Update(user *models.User) error
	UpdateAvatar(id string, avatar []byte) error
	Delete(id string) error

	AddToken(userID, token string) error
	RemoveToken(userID, token string) error
	ClearTokens(userID string) error
	HasToken(userID, token string) (bool, error)
}
