package services_test

import (
	"encoding/json"
	"testing"

	"tasker/internal/models"
	"tasker/internal/services"
	"tasker/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func fieldsOf(t *testing.T, body string) map[string]json.RawMessage {
	t.Helper()
	var fields map[string]json.RawMessage
	require.NoError(t, json.Unmarshal([]byte(body), &fields))
	return fields
}

func TestUserService_UpdateProfile(t *testing.T) {
	mockRepo := new(MockUserRepository)
	authService := newAuthService(mockRepo, services.Events{})
	userService := services.NewUserService(mockRepo, authService, services.Events{})
	user := &models.User{ID: "user-1", Name: "Ann", Email: "ann@x.com", Password: "old-hash"}

	mockRepo.On("GetByEmail", "ann@y.com").Return(nil, notFoundErr("ann@y.com")).Once()
	mockRepo.On("Update", mock.AnythingOfType("*models.User")).Return(nil).Once()

	updated, err := userService.UpdateProfile(user, fieldsOf(t, `{"name":"Annie","age":31,"email":" ANN@y.com","password":"newsecret"}`))
	require.NoError(t, err)
	assert.Equal(t, "Annie", updated.Name)
	require.NotNil(t, updated.Age)
	assert.Equal(t, 31, *updated.Age)
	assert.Equal(t, "ann@y.com", updated.Email)
	assert.NotEqual(t, "old-hash", updated.Password)
	assert.True(t, authService.VerifyPassword("newsecret", updated.Password))
	// The authenticated user is untouched until the write succeeds.
	assert.Equal(t, "Ann", user.Name)
	mockRepo.AssertExpectations(t)
}

func TestUserService_UpdateProfileKeepsPasswordHash(t *testing.T) {
	mockRepo := new(MockUserRepository)
	userService := services.NewUserService(mockRepo, newAuthService(mockRepo, services.Events{}), services.Events{})
	user := &models.User{ID: "user-1", Name: "Ann", Email: "ann@x.com", Password: "old-hash"}

	mockRepo.On("Update", mock.MatchedBy(func(u *models.User) bool {
		return u.Password == "old-hash" && u.Name == "Ann B."
	})).Return(nil).Once()

	_, err := userService.UpdateProfile(user, fieldsOf(t, `{"name":"Ann B."}`))
	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestUserService_UpdateProfileRejects(t *testing.T) {
	mockRepo := new(MockUserRepository)
	userService := services.NewUserService(mockRepo, newAuthService(mockRepo, services.Events{}), services.Events{})
	user := &models.User{ID: "user-1", Name: "Ann", Email: "ann@x.com", Password: "old-hash"}

	_, err := userService.UpdateProfile(user, fieldsOf(t, `{"name":"Eve","tokens":[]}`))
	assert.ErrorIs(t, err, services.ErrFieldsNotAllowed)

	_, err = userService.UpdateProfile(user, fieldsOf(t, `{"age":"old"}`))
	assert.ErrorIs(t, err, services.ErrInvalidInput)

	var verr *validation.Error
	_, err = userService.UpdateProfile(user, fieldsOf(t, `{"password":"password99"}`))
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("password", "excludes"))

	_, err = userService.UpdateProfile(user, fieldsOf(t, `{"name":"","age":-1}`))
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("name", "required"))
	assert.True(t, verr.Has("age", "gte"))

	mockRepo.On("GetByEmail", "bob@x.com").Return(&models.User{ID: "user-2"}, nil).Once()
	_, err = userService.UpdateProfile(user, fieldsOf(t, `{"email":"bob@x.com"}`))
	assert.ErrorIs(t, err, services.ErrEmailTaken)

	mockRepo.AssertNotCalled(t, "Update", mock.Anything)
}

func TestUserService_DeleteAccount(t *testing.T) {
	mockRepo := new(MockUserRepository)
	publisher := new(MockPublisher)
	events := services.NewEvents(publisher, "tasker.events")
	userService := services.NewUserService(mockRepo, newAuthService(mockRepo, events), events)

	mockRepo.On("Delete", "user-1").Return(nil).Once()
	publisher.On("Publish", "tasker.events", services.EventUserDeleted, mock.Anything).Return(nil).Once()
	require.NoError(t, userService.DeleteAccount(&models.User{ID: "user-1"}))

	mockRepo.On("Delete", "user-2").Return(notFoundErr("user-2")).Once()
	assert.ErrorIs(t, userService.DeleteAccount(&models.User{ID: "user-2"}), services.ErrNotFound)
	mockRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestCheckAvatar(t *testing.T) {
	tests := []struct {
		name     string
		filename string
		size     int64
		want     error
	}{
		{"png", "photo.png", 1024, nil},
		{"jpg", "photo.jpg", 1024, nil},
		{"jpeg at limit", "photo.jpeg", services.MaxAvatarSize, nil},
		{"gif", "photo.gif", 1024, services.ErrInvalidImage},
		{"no extension", "photo", 1024, services.ErrInvalidImage},
		{"too large", "photo.png", 6000000, services.ErrFileTooLarge},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := services.CheckAvatar(tt.filename, tt.size)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestUserService_GetAvatar(t *testing.T) {
	mockRepo := new(MockUserRepository)
	userService := services.NewUserService(mockRepo, newAuthService(mockRepo, services.Events{}), services.Events{})

	mockRepo.On("GetAvatar", "with").Return([]byte{0x89, 'P', 'N', 'G'}, nil).Once()
	mockRepo.On("GetAvatar", "without").Return(nil, nil).Once()
	mockRepo.On("GetAvatar", "ghost").Return(nil, notFoundErr("ghost")).Once()

	avatar, err := userService.GetAvatar("with")
	require.NoError(t, err)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, avatar)

	_, err = userService.GetAvatar("without")
	assert.ErrorIs(t, err, services.ErrNotFound)
	_, err = userService.GetAvatar("ghost")
	assert.ErrorIs(t, err, services.ErrNotFound)
	mockRepo.AssertExpectations(t)
}
