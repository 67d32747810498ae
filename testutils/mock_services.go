package testutils

import (
	"github.com/random0602/DailyGlow/database"
	"github.com/random0602/DailyGlow/models"
	"github.com/random0602/DailyGlow/services"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockAuthService mocks services.AuthServiceInterface
type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) SignUp(db *database.Database, username, password string) (models.User, error) {
	args := m.Called(db, username, password)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockAuthService) SignIn(db *database.Database, username, password string) (string, error) {
	args := m.Called(db, username, password)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ValidateToken(tokenString string) (*services.JWTClaims, error) {
	args := m.Called(tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.JWTClaims), args.Error(1)
}

func (m *MockAuthService) HashPassword(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockAuthService) ComparePasswords(hashedPassword, password string) error {
	args := m.Called(hashedPassword, password)
	return args.Error(0)
}

// MockTaskService mocks services.TaskServiceInterface
type MockTaskService struct {
	mock.Mock
}

func (m *MockTaskService) CreateTask(db *database.Database, ownerID uuid.UUID, input services.CreateTaskInput) (models.Task, error) {
	args := m.Called(db, ownerID, input)
	return args.Get(0).(models.Task), args.Error(1)
}

func (m *MockTaskService) GetTasks(db *database.Database, ownerID uuid.UUID) ([]models.Task, error) {
	args := m.Called(db, ownerID)
	return args.Get(0).([]models.Task), args.Error(1)
}

func (m *MockTaskService) GetTaskById(db *database.Database, id string) (models.Task, error) {
	args := m.Called(db, id)
	return args.Get(0).(models.Task), args.Error(1)
}

func (m *MockTaskService) UpdateTask(db *database.Database, id string, patch services.TaskPatch) (models.Task, error) {
	args := m.Called(db, id, patch)
	return args.Get(0).(models.Task), args.Error(1)
}

func (m *MockTaskService) DeleteTask(db *database.Database, id string) error {
	args := m.Called(db, id)
	return args.Error(0)
}

func (m *MockTaskService) GetTasksForDate(db *database.Database, ownerID uuid.UUID, date string) ([]models.Task, error) {
	args := m.Called(db, ownerID, date)
	return args.Get(0).([]models.Task), args.Error(1)
}

func (m *MockTaskService) GetTaskStats(db *database.Database, ownerID uuid.UUID) (services.TaskStats, error) {
	args := m.Called(db, ownerID)
	return args.Get(0).(services.TaskStats), args.Error(1)
}

// MockMoodService mocks services.MoodServiceInterface
type MockMoodService struct {
	mock.Mock
}

func (m *MockMoodService) CreateMood(db *database.Database, ownerID uuid.UUID, input services.CreateMoodInput) (models.Mood, error) {
	args := m.Called(db, ownerID, input)
	return args.Get(0).(models.Mood), args.Error(1)
}

func (m *MockMoodService) GetMoods(db *database.Database, ownerID uuid.UUID) ([]models.Mood, error) {
	args := m.Called(db, ownerID)
	return args.Get(0).([]models.Mood), args.Error(1)
}

func (m *MockMoodService) GetMoodById(db *database.Database, id string) (models.Mood, error) {
	args := m.Called(db, id)
	return args.Get(0).(models.Mood), args.Error(1)
}

func (m *MockMoodService) UpdateMood(db *database.Database, id string, patch services.MoodPatch) (models.Mood, error) {
	args := m.Called(db, id, patch)
	return args.Get(0).(models.Mood), args.Error(1)
}

func (m *MockMoodService) DeleteMood(db *database.Database, id string) error {
	args := m.Called(db, id)
	return args.Error(0)
}

// MockUserService mocks services.UserServiceInterface
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) GetUserById(db *database.Database, id string) (models.User, error) {
	args := m.Called(db, id)
	return args.Get(0).(models.User), args.Error(1)
}

func (m *MockUserService) DeleteUser(db *database.Database, id string) error {
	args := m.Called(db, id)
	return args.Error(0)
}

// MockPublisher records published messages.
type MockPublisher struct {
	mock.Mock
}

func (m *MockPublisher) Publish(subject string, data []byte) error {
	args := m.Called(subject, data)
	return args.Error(0)
}

func (m *MockPublisher) Close() {
	m.Called()
}
