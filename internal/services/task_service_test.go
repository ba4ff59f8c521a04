package services_test

import (
	"testing"

	"tasker/internal/models"
	"tasker/internal/services"
	"tasker/internal/validation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func TestParseTaskQuery(t *testing.T) {
	tests := []struct {
		name                           string
		completed, sortBy, limit, skip string
		want                           models.TaskQuery
	}{
		{name: "empty", want: models.TaskQuery{}},
		{name: "completed true", completed: "true", want: models.TaskQuery{Completed: boolPtr(true)}},
		{name: "completed other", completed: "yes", want: models.TaskQuery{Completed: boolPtr(false)}},
		{name: "sort asc", sortBy: "title_asc", want: models.TaskQuery{SortField: "title"}},
		{name: "sort desc", sortBy: "createdAt_desc", want: models.TaskQuery{SortField: "created_at", SortDesc: true}},
		{name: "sort unknown direction", sortBy: "completed_up", want: models.TaskQuery{SortField: "completed", SortDesc: true}},
		{name: "snake field asc", sortBy: "updated_at_asc", want: models.TaskQuery{SortField: "updated_at"}},
		{name: "field only", sortBy: "created_at", want: models.TaskQuery{SortField: "created_at", SortDesc: true}},
		{name: "unknown field", sortBy: "owner_asc", want: models.TaskQuery{}},
		{name: "paging", limit: "10", skip: "20", want: models.TaskQuery{Limit: 10, Skip: 20}},
		{name: "non numeric paging", limit: "ten", skip: "x", want: models.TaskQuery{}},
		{name: "negative paging", limit: "-1", skip: "-5", want: models.TaskQuery{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, services.ParseTaskQuery(tt.completed, tt.sortBy, tt.limit, tt.skip))
		})
	}
}

func TestTaskService_Create(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	publisher := new(MockPublisher)
	taskService := services.NewTaskService(mockRepo, services.NewEvents(publisher, "tasker.events"))

	mockRepo.On("Create", mock.MatchedBy(func(task *models.Task) bool {
		return task.OwnerID == "user-1" && task.Description == "2%" && !task.Completed
	})).Return(nil).Once()
	publisher.On("Publish", "tasker.events", services.EventTaskCreated, mock.Anything).Return(nil).Once()

	task, err := taskService.Create("user-1", services.CreateTaskRequest{Title: "Buy milk", Description: "  2% "})
	require.NoError(t, err)
	assert.Equal(t, "Buy milk", task.Title)
	mockRepo.AssertExpectations(t)
	publisher.AssertExpectations(t)
}

func TestTaskService_CreateValidation(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	taskService := services.NewTaskService(mockRepo, services.Events{})

	_, err := taskService.Create("user-1", services.CreateTaskRequest{Description: "   "})
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.True(t, verr.Has("title", "required"))
	assert.True(t, verr.Has("description", "required"))
	mockRepo.AssertNotCalled(t, "Create", mock.Anything)
}

func TestTaskService_Update(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	taskService := services.NewTaskService(mockRepo, services.Events{})
	stored := &models.Task{ID: "task-1", Title: "Buy milk", Description: "2%", OwnerID: "user-1"}

	mockRepo.On("GetByOwner", "task-1", "user-1").Return(stored, nil).Once()
	mockRepo.On("Update", mock.MatchedBy(func(task *models.Task) bool {
		return task.Completed && task.Title == "Buy milk"
	})).Return(nil).Once()

	task, err := taskService.Update("task-1", "user-1", fieldsOf(t, `{"completed":true}`))
	require.NoError(t, err)
	assert.True(t, task.Completed)
	mockRepo.AssertExpectations(t)
}

func TestTaskService_UpdateRejectsOwnerField(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	taskService := services.NewTaskService(mockRepo, services.Events{})

	_, err := taskService.Update("task-1", "user-1", fieldsOf(t, `{"title":"ok","owner":"x"}`))
	assert.ErrorIs(t, err, services.ErrFieldsNotAllowed)
	mockRepo.AssertNotCalled(t, "GetByOwner", mock.Anything, mock.Anything)
	mockRepo.AssertNotCalled(t, "Update", mock.Anything)
}

func TestTaskService_NotOwned(t *testing.T) {
	mockRepo := new(MockTaskRepository)
	taskService := services.NewTaskService(mockRepo, services.Events{})

	mockRepo.On("GetByOwner", "task-1", "user-2").Return(nil, notFoundErr("task-1")).Twice()
	mockRepo.On("DeleteByOwner", "task-1", "user-2").Return(nil, notFoundErr("task-1")).Once()

	_, err := taskService.Get("task-1", "user-2")
	assert.ErrorIs(t, err, services.ErrNotFound)
	_, err = taskService.Update("task-1", "user-2", fieldsOf(t, `{"title":"mine now"}`))
	assert.ErrorIs(t, err, services.ErrNotFound)
	_, err = taskService.Delete("task-1", "user-2")
	assert.ErrorIs(t, err, services.ErrNotFound)
	mockRepo.AssertExpectations(t)
}
