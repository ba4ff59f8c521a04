package repositories

import (
	"errors"
	"fmt"

	"tasker/internal/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// profileColumns are the user columns written by Update.
var profileColumns = []string{"name", "age", "email", "password"}

// GORMUserRepository is a GORM implementation of UserRepository.
type GORMUserRepository struct {
	db *gorm.DB
}

// NewGORMUserRepository creates a new instance of GORMUserRepository.
func NewGORMUserRepository(db *gorm.DB) *GORMUserRepository {
	return &GORMUserRepository{
		db: db,
	}
}

// Create creates a new user in the database.
func (r *GORMUserRepository) Create(user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if err := r.db.Omit("Tokens").Create(user).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("email %s: %w", user.Email, ErrDuplicateKey)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetByID retrieves a user by their ID. The avatar is not loaded.
func (r *GORMUserRepository) GetByID(id string) (*models.User, error) {
	var user models.User
	if err := r.db.Omit("avatar").First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with ID %s: %w", id, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get user by ID %s: %w", id, err)
	}
	return &user, nil
}

// GetByEmail retrieves a user by their email from the database.
func (r *GORMUserRepository) GetByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Omit("avatar").First(&user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with email %s: %w", email, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get user by email %s: %w", email, err)
	}
	return &user, nil
}

// GetAvatar returns the stored avatar bytes of a user, nil when none is set.
func (r *GORMUserRepository) GetAvatar(id string) ([]byte, error) {
	var user models.User
	if err := r.db.Select("id", "avatar").First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user with ID %s: %w", id, ErrRecordNotFound)
		}
		return nil, fmt.Errorf("failed to get avatar of user %s: %w", id, err)
	}
	return user.Avatar, nil
}

// Update writes the profile columns of user. Tokens and avatar are left alone.
func (r *GORMUserRepository) Update(user *models.User) error {
	res := r.db.Model(user).Select(profileColumns).Updates(user)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("email %s: %w", user.Email, ErrDuplicateKey)
		}
		return fmt.Errorf("failed to update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user with ID %s: %w", user.ID, ErrRecordNotFound)
	}
	return nil
}

// UpdateAvatar replaces the stored avatar bytes of a user.
func (r *GORMUserRepository) UpdateAvatar(id string, avatar []byte) error {
	res := r.db.Model(&models.User{}).Where("id = ?", id).Update("avatar", avatar)
	if res.Error != nil {
		return fmt.Errorf("failed to update avatar: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("user with ID %s: %w", id, ErrRecordNotFound)
	}
	return nil
}

// Delete removes a user together with their tasks and tokens.
func (r *GORMUserRepository) Delete(id string) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("owner_id = ?", id).Delete(&models.Task{}).Error; err != nil {
			return fmt.Errorf("failed to delete tasks of user %s: %w", id, err)
		}
		if err := tx.Where("user_id = ?", id).Delete(&models.UserToken{}).Error; err != nil {
			return fmt.Errorf("failed to delete tokens of user %s: %w", id, err)
		}
		res := tx.Delete(&models.User{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete user: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("user with ID %s: %w", id, ErrRecordNotFound)
		}
		return nil
	})
}

// AddToken appends token to the user's active token list.
func (r *GORMUserRepository) AddToken(userID, token string) error {
	if err := r.db.Create(&models.UserToken{UserID: userID, Token: token}).Error; err != nil {
		return fmt.Errorf("failed to store token: %w", err)
	}
	return nil
}

// RemoveToken revokes a single token.
func (r *GORMUserRepository) RemoveToken(userID, token string) error {
	if err := r.db.Where("user_id = ? AND token = ?", userID, token).Delete(&models.UserToken{}).Error; err != nil {
		return fmt.Errorf("failed to remove token: %w", err)
	}
	return nil
}

// ClearTokens revokes every token of the user.
func (r *GORMUserRepository) ClearTokens(userID string) error {
	if err := r.db.Where("user_id = ?", userID).Delete(&models.UserToken{}).Error; err != nil {
		return fmt.Errorf("failed to clear tokens: %w", err)
	}
	return nil
}

// HasToken reports whether token is still in the user's active list.
func (r *GORMUserRepository) HasToken(userID, token string) (bool, error) {
	var count int64
	err := r.db.Model(&models.UserToken{}).
		Where("user_id = ? AND token = ?", userID, token).
		Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to look up token: %w", err)
	}
	return count > 0, nil
}
