package services_test

import (
	"testing"
	"time"

	"github.com/random0602/DailyGlow/database"
	"github.com/random0602/DailyGlow/models"
	"github.com/random0602/DailyGlow/services"
	"github.com/random0602/DailyGlow/testutils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func createUser(t *testing.T, db *database.Database, username string) models.User {
	t.Helper()
	user, err := newAuthService().SignUp(db, username, "pw")
	require.NoError(t, err)
	return user
}

func TestCreateTask_Success(t *testing.T) {
	db := testutils.SetupTestDB(t)
	owner := createUser(t, db, "alice")
	svc := services.NewTaskService(nil, 0)

	task, err := svc.CreateTask(db, owner.ID, services.CreateTaskInput{Title: "Buy milk"})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, task.ID)
	assert.Equal(t, "Buy milk", task.Title)
	assert.False(t, task.IsCompleted)
	assert.Nil(t, task.ScheduledDate)
	assert.Equal(t, owner.ID, task.UserID)
	assert.WithinDuration(t, time.Now(), task.CreatedAt, 5*time.Second)

	assert.Equal(t, []string{"user.created", "task.created"}, testutils.EventTypes(testutils.PendingEvents(t, db)))
}

func TestCreateTask_Validation(t *testing.T) {
	db := testutils.SetupTestDB(t)
	owner := createUser(t, db, "alice")
	svc := services.NewTaskService(nil, 0)

	_, err := svc.CreateTask(db, owner.ID, services.CreateTaskInput{Title: "   "})
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = svc.CreateTask(db, owner.ID, services.CreateTaskInput{Title: "x", ScheduledDate: strPtr("2024-02-30")})
	assert.ErrorIs(t, err, services.ErrValidation)

	tasks, err := svc.GetTasks(db, owner.ID)
	require.NoError(t, err)
	assert.Empty(t, tasks)
	assert.NotNil(t, tasks)
}

func TestCreateTask_DeletedOwner(t *testing.T) {
	db := testutils.SetupTestDB(t)
	owner := createUser(t, db, "alice")
	require.NoError(t, services.NewUserService(nil).DeleteUser(db, owner.ID.String()))

	_, err := services.NewTaskService(nil, 0).CreateTask(db, owner.ID, services.CreateTaskInput{Title: "Buy milk"})
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	_, err = services.NewMoodService(nil, 0).CreateMood(db, owner.ID, services.CreateMoodInput{Emoji: "🙂"})
	assert.ErrorIs(t, err, services.ErrInvalidToken)

	var tasks int64
	require.NoError(t, db.DB.Model(&models.Task{}).Count(&tasks).Error)
	assert.Zero(t, tasks)
}

func TestGetTasks_OwnedNewestFirst(t *testing.T) {
	db := testutils.SetupTestDB(t)
	alice := createUser(t, db, "alice")
	bob := createUser(t, db, "bob")
	svc := services.NewTaskService(nil, 0)

	base := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	for i, title := range []string{"first", "second", "third"} {
		task := models.Task{UserID: alice.ID, Title: title, CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		require.NoError(t, db.DB.Create(&task).Error)
	}
	_, err := svc.CreateTask(db, bob.ID, services.CreateTaskInput{Title: "bob's"})
	require.NoError(t, err)

	tasks, err := svc.GetTasks(db, alice.ID)
	require.NoError(t, err)
	require.Len(t, tasks, 3)
	assert.Equal(t, "third", tasks[0].Title)
	assert.Equal(t, "second", tasks[1].Title)
	assert.Equal(t, "first", tasks[2].Title)

	bobTasks, err := svc.GetTasks(db, bob.ID)
	require.NoError(t, err)
	require.Len(t, bobTasks, 1)
	assert.Equal(t, "bob's", bobTasks[0].Title)
}

func TestUpdateTask_Patch(t *testing.T) {
	db := testutils.SetupTestDB(t)
	owner := createUser(t, db, "alice")
	svc := services.NewTaskService(nil, 0)

	task, err := svc.CreateTask(db, owner.ID, services.CreateTaskInput{Title: "Buy milk", ScheduledDate: strPtr("2024-03-15")})
	require.NoError(t, err)

	updated, err := svc.UpdateTask(db, task.ID.String(), services.TaskPatch{IsCompleted: boolPtr(true)})
	require.NoError(t, err)
	assert.True(t, updated.IsCompleted)
	assert.Equal(t, "Buy milk", updated.Title)
	require.NotNil(t, updated.ScheduledDate)
	assert.Equal(t, "2024-03-15", *updated.ScheduledDate)

	updated, err = svc.UpdateTask(db, task.ID.String(), services.TaskPatch{Title: strPtr("Buy oat milk"), ScheduledDate: strPtr("")})
	require.NoError(t, err)
	assert.Equal(t, "Buy oat milk", updated.Title)
	assert.Nil(t, updated.ScheduledDate)
	assert.True(t, updated.IsCompleted)

	_, err = svc.UpdateTask(db, task.ID.String(), services.TaskPatch{Title: strPtr("")})
	assert.ErrorIs(t, err, services.ErrValidation)

	_, err = svc.UpdateTask(db, task.ID.String(), services.TaskPatch{ScheduledDate: strPtr("15/03/2024")})
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestUpdateTask_NotFound(t *testing.T) {
	db := testutils.SetupTestDB(t)
	svc := services.NewTaskService(nil, 0)

	_, err := svc.UpdateTask(db, uuid.NewString(), services.TaskPatch{IsCompleted: boolPtr(true)})
	assert.ErrorIs(t, err, services.ErrTaskNotFound)
}

func TestDeleteTask_Twice(t *testing.T) {
	db := testutils.SetupTestDB(t)
	owner := createUser(t, db, "alice")
	svc := services.NewTaskService(nil, 0)

	task, err := svc.CreateTask(db, owner.ID, services.CreateTaskInput{Title: "Buy milk"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteTask(db, task.ID.String()))
	assert.ErrorIs(t, svc.DeleteTask(db, task.ID.String()), services.ErrTaskNotFound)

	_, err = svc.GetTaskById(db, task.ID.String())
	assert.ErrorIs(t, err, services.ErrTaskNotFound)

	events := testutils.EventTypes(testutils.PendingEvents(t, db))
	assert.Equal(t, []string{"user.created", "task.created", "task.deleted"}, events)
}

func TestGetTasksForDate(t *testing.T) {
	db := testutils.SetupTestDB(t)
	owner := createUser(t, db, "alice")
	svc := services.NewTaskService(nil, 0)

	_, err := svc.CreateTask(db, owner.ID, services.CreateTaskInput{Title: "scheduled", ScheduledDate: strPtr("2024-03-15")})
	require.NoError(t, err)
	unscheduled := models.Task{UserID: owner.ID, Title: "created that day", CreatedAt: time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)}
	require.NoError(t, db.DB.Create(&unscheduled).Error)
	_, err = svc.CreateTask(db, owner.ID, services.CreateTaskInput{Title: "other day", ScheduledDate: strPtr("2024-03-16")})
	require.NoError(t, err)

	tasks, err := svc.GetTasksForDate(db, owner.ID, "2024-03-15")
	require.NoError(t, err)

	titles := []string{}
	for _, task := range tasks {
		titles = append(titles, task.Title)
	}
	assert.ElementsMatch(t, []string{"scheduled", "created that day"}, titles)

	_, err = svc.GetTasksForDate(db, owner.ID, "March 15")
	assert.ErrorIs(t, err, services.ErrValidation)
}

func TestGetTaskStats(t *testing.T) {
	db := testutils.SetupTestDB(t)
	owner := createUser(t, db, "alice")
	svc := services.NewTaskService(nil, 0)

	for _, title := range []string{"a", "b", "c"} {
		task, err := svc.CreateTask(db, owner.ID, services.CreateTaskInput{Title: title})
		require.NoError(t, err)
		if title == "a" {
			_, err = svc.UpdateTask(db, task.ID.String(), services.TaskPatch{IsCompleted: boolPtr(true)})
			require.NoError(t, err)
		}
	}

	stats, err := svc.GetTaskStats(db, owner.ID)
	require.NoError(t, err)
	assert.Equal(t, services.TaskStats{Total: 3, Completed: 1, Pending: 2}, stats)
}

func TestGetTasks_DatabaseFailure(t *testing.T) {
	db, mock, close := testutils.SetupMockDB()
	defer close()

	mock.ExpectQuery(`SELECT .* FROM "tasks"`).WillReturnError(assert.AnError)

	_, err := services.NewTaskService(nil, 0).GetTasks(db, uuid.New())
	assert.ErrorIs(t, err, assert.AnError)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGetTaskById_DatabaseFailure(t *testing.T) {
	db, mock, close := testutils.SetupMockDB()
	defer close()

	mock.ExpectQuery(`SELECT .* FROM "tasks"`).WillReturnError(assert.AnError)

	_, err := services.NewTaskService(nil, 0).GetTaskById(db, uuid.NewString())
	assert.ErrorIs(t, err, assert.AnError)
	assert.NotErrorIs(t, err, services.ErrTaskNotFound)
}
