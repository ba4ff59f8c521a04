package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"regexp"
	"strings"

	"tasker/internal/models"
	"tasker/internal/repositories"
	"tasker/internal/validation"
)

// MaxAvatarSize is the largest accepted avatar upload in bytes.
const MaxAvatarSize = 5000000

var (
	userUpdateFields = []string{"name", "age", "email", "password"}
	avatarNameRe     = regexp.MustCompile(`\.(png|jpeg|jpg)$`)
)

// UserPatch carries the whitelisted profile fields of an update.
type UserPatch struct {
	Name     *string `json:"name"`
	Age      *int    `json:"age"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

// profileCheck is the shape validated after a patch is applied.
type profileCheck struct {
	Name     string  `json:"name" validate:"required"`
	Age      *int    `json:"age" validate:"omitempty,gte=0"`
	Email    string  `json:"email" validate:"required,email"`
	Password *string `json:"password" validate:"omitnil,min=7,excludes=password"`
}

// UserService handles profile, account and avatar operations.
type UserService struct {
	repo     repositories.UserRepository
	auth     *AuthService
	validate *validation.Validator
	events   Events
}

// NewUserService creates a new UserService.
func NewUserService(repo repositories.UserRepository, auth *AuthService, events Events) *UserService {
	return &UserService{
		repo:     repo,
		auth:     auth,
		validate: validation.New(),
		events:   events,
	}
}

// UpdateProfile applies fields to user. Any key outside name, age, email and
// password rejects the whole update. A changed password is rehashed.
func (s *UserService) UpdateProfile(user *models.User, fields map[string]json.RawMessage) (*models.User, error) {
	var patch UserPatch
	if err := decodePatch(fields, userUpdateFields, &patch); err != nil {
		return nil, err
	}

	updated := *user
	check := profileCheck{}
	if patch.Name != nil {
		updated.Name = *patch.Name
	}
	if patch.Age != nil {
		updated.Age = patch.Age
	}
	if patch.Email != nil {
		updated.Email = NormalizeEmail(*patch.Email)
	}
	if patch.Password != nil {
		raw := strings.TrimSpace(*patch.Password)
		check.Password = &raw
	}
	check.Name, check.Age, check.Email = updated.Name, updated.Age, updated.Email
	if err := s.validate.Struct(check); err != nil {
		return nil, err
	}

	if updated.Email != user.Email {
		existing, err := s.repo.GetByEmail(updated.Email)
		if err == nil && existing.ID != user.ID {
			return nil, fmt.Errorf("%w: %s", ErrEmailTaken, updated.Email)
		}
		if err != nil && !errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, fmt.Errorf("failed to check email: %w", err)
		}
	}
	if check.Password != nil {
		hashed, err := s.auth.HashPassword(*check.Password)
		if err != nil {
			return nil, err
		}
		updated.Password = hashed
	}

	if err := s.repo.Update(&updated); err != nil {
		if errors.Is(err, repositories.ErrDuplicateKey) {
			return nil, fmt.Errorf("%w: %s", ErrEmailTaken, updated.Email)
		}
		return nil, err
	}
	return &updated, nil
}

// DeleteAccount removes the user with all of their tasks and tokens.
func (s *UserService) DeleteAccount(user *models.User) error {
	if err := s.repo.Delete(user.ID); err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return fmt.Errorf("%w: %v", ErrNotFound, err)
		}
		return err
	}
	s.events.emit(EventUserDeleted, map[string]interface{}{"userID": user.ID})
	return nil
}

// CheckAvatar applies the file-name filter and the size cap to an upload.
func CheckAvatar(filename string, size int64) error {
	if !avatarNameRe.MatchString(filename) {
		return ErrInvalidImage
	}
	if size > MaxAvatarSize {
		return ErrFileTooLarge
	}
	return nil
}

// SetAvatar stores the uploaded file as the user's avatar.
func (s *UserService) SetAvatar(userID string, file *multipart.FileHeader) error {
	if err := CheckAvatar(file.Filename, file.Size); err != nil {
		return err
	}
	f, err := file.Open()
	if err != nil {
		return fmt.Errorf("failed to open avatar upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, MaxAvatarSize+1))
	if err != nil {
		return fmt.Errorf("failed to read avatar upload: %w", err)
	}
	if len(data) > MaxAvatarSize {
		return ErrFileTooLarge
	}
	return s.repo.UpdateAvatar(userID, data)
}

// GetAvatar returns the avatar bytes of a user, or ErrNotFound when the user
// does not exist or has none.
func (s *UserService) GetAvatar(userID string) ([]byte, error) {
	avatar, err := s.repo.GetAvatar(userID)
	if err != nil {
		if errors.Is(err, repositories.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if len(avatar) == 0 {
		return nil, ErrNotFound
	}
	return avatar, nil
}
