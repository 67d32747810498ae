package routes

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/random0602/DailyGlow/database"
	"github.com/random0602/DailyGlow/models"
	"github.com/random0602/DailyGlow/services"
	"github.com/random0602/DailyGlow/testutils"
	"github.com/random0602/DailyGlow/utils/token"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func createTask(t *testing.T, s *testServer, accessToken string, body gin.H) models.Task {
	t.Helper()
	w := s.do(t, http.MethodPost, "/tasks", accessToken, body)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var task models.Task
	decode(t, w, &task)
	return task
}

func TestTaskLifecycle(t *testing.T) {
	s := newTestServer(t, Options{})
	accessToken, _ := s.signUpAndIn(t, "alice")

	task := createTask(t, s, accessToken, gin.H{"title": "Buy milk"})
	assert.Equal(t, "Buy milk", task.Title)
	assert.False(t, task.IsCompleted)
	assert.Nil(t, task.ScheduledDate)

	w := s.do(t, http.MethodGet, "/tasks", accessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var tasks []models.Task
	decode(t, w, &tasks)
	require.Len(t, tasks, 1)
	assert.Equal(t, task.ID, tasks[0].ID)

	for _, want := range []bool{true, false} {
		w := s.do(t, http.MethodPatch, "/tasks/"+task.ID.String(), accessToken, gin.H{"isCompleted": want})
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var updated models.Task
		decode(t, w, &updated)
		assert.Equal(t, want, updated.IsCompleted)
		assert.Equal(t, "Buy milk", updated.Title)
	}

	w = s.do(t, http.MethodGet, "/tasks/"+task.ID.String(), accessToken, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.do(t, http.MethodDelete, "/tasks/"+task.ID.String(), accessToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())

	w = s.do(t, http.MethodDelete, "/tasks/"+task.ID.String(), accessToken, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, http.MethodGet, "/tasks", accessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, "[]", w.Body.String())
}

func TestCreateTask_Validation(t *testing.T) {
	s := newTestServer(t, Options{})
	accessToken, _ := s.signUpAndIn(t, "alice")

	tests := []struct {
		name string
		body interface{}
	}{
		{"Empty title", gin.H{"title": ""}},
		{"Whitespace title", gin.H{"title": "   "}},
		{"Impossible date", gin.H{"title": "Plan", "scheduledDate": "2024-02-30"}},
		{"Wrong date format", gin.H{"title": "Plan", "scheduledDate": "15/03/2024"}},
		{"Malformed JSON", "{"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := s.do(t, http.MethodPost, "/tasks", accessToken, tc.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestUpdateTask_Patch(t *testing.T) {
	s := newTestServer(t, Options{})
	accessToken, _ := s.signUpAndIn(t, "alice")
	task := createTask(t, s, accessToken, gin.H{"title": "Dentist", "scheduledDate": "2024-03-15"})
	require.NotNil(t, task.ScheduledDate)
	path := "/tasks/" + task.ID.String()

	patch := func(body interface{}) models.Task {
		w := s.do(t, http.MethodPatch, path, accessToken, body)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var updated models.Task
		decode(t, w, &updated)
		return updated
	}

	updated := patch(gin.H{})
	assert.Equal(t, "2024-03-15", *updated.ScheduledDate)

	updated = patch(gin.H{"title": "Dentist at 9"})
	assert.Equal(t, "Dentist at 9", updated.Title)
	assert.Equal(t, "2024-03-15", *updated.ScheduledDate)

	updated = patch(gin.H{"scheduledDate": nil})
	assert.Nil(t, updated.ScheduledDate)

	updated = patch(gin.H{"scheduledDate": "2024-04-01"})
	require.NotNil(t, updated.ScheduledDate)
	assert.Equal(t, "2024-04-01", *updated.ScheduledDate)

	w := s.do(t, http.MethodPatch, path, accessToken, gin.H{"title": ""})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestTaskRoutes_Ownership(t *testing.T) {
	s := newTestServer(t, Options{})
	aliceToken, _ := s.signUpAndIn(t, "alice")
	bobToken, _ := s.signUpAndIn(t, "bob")

	task := createTask(t, s, aliceToken, gin.H{"title": "Alice only"})
	path := "/tasks/" + task.ID.String()

	w := s.do(t, http.MethodGet, "/tasks", bobToken, nil)
	assert.JSONEq(t, "[]", w.Body.String())

	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodGet, path, bobToken, nil).Code)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodPatch, path, bobToken, gin.H{"isCompleted": true}).Code)
	assert.Equal(t, http.StatusForbidden, s.do(t, http.MethodDelete, path, bobToken, nil).Code)

	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/tasks/not-a-uuid", bobToken, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.do(t, http.MethodGet, "/tasks/"+uuid.NewString(), bobToken, nil).Code)

	w = s.do(t, http.MethodGet, path, aliceToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var stored models.Task
	decode(t, w, &stored)
	assert.False(t, stored.IsCompleted)
}

func TestTaskRoutes_RequireToken(t *testing.T) {
	s := newTestServer(t, Options{})

	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/tasks", "", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodGet, "/tasks", "garbage", nil).Code)
	assert.Equal(t, http.StatusUnauthorized, s.do(t, http.MethodPost, "/tasks", "", gin.H{"title": "x"}).Code)
}

func TestGetTaskStats(t *testing.T) {
	s := newTestServer(t, Options{})
	accessToken, _ := s.signUpAndIn(t, "alice")

	first := createTask(t, s, accessToken, gin.H{"title": "one"})
	createTask(t, s, accessToken, gin.H{"title": "two"})
	createTask(t, s, accessToken, gin.H{"title": "three"})
	s.do(t, http.MethodPatch, "/tasks/"+first.ID.String(), accessToken, gin.H{"isCompleted": true})

	w := s.do(t, http.MethodGet, "/tasks/stats", accessToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"total":3,"completed":1,"pending":2}`, w.Body.String())
}

func TestGetTasks_ServiceFailure(t *testing.T) {
	gin.SetMode(gin.TestMode)
	userID := uuid.New()
	accessToken, err := token.GenerateToken(userID, "alice", []byte(testSecret), time.Hour)
	require.NoError(t, err)

	taskService := new(testutils.MockTaskService)
	taskService.On("GetTasks", mock.Anything, userID).Return([]models.Task(nil), errors.New("connection reset by peer"))
	taskService.On("CreateTask", mock.Anything, userID, services.CreateTaskInput{Title: "x"}).
		Return(models.Task{}, errors.New("disk full"))

	router := NewRouter(&database.Database{}, Services{
		Auth:  services.NewAuthService(testSecret, time.Hour),
		Tasks: taskService,
	}, Options{})

	w := serve(t, router, http.MethodGet, "/tasks", accessToken, nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, "internal server error", errorMessage(t, w))
	assert.NotContains(t, w.Body.String(), "connection reset")

	w = serve(t, router, http.MethodPost, "/tasks", accessToken, gin.H{"title": "x"})
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	taskService.AssertExpectations(t)
}
