package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/random0602/DailyGlow/calendar"
	"github.com/random0602/DailyGlow/models"
	"github.com/random0602/DailyGlow/services"

	"github.com/google/uuid"
)

type User struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

// TaskPatch changes only the fields that are set. An empty ScheduledDate
// clears the date.
type TaskPatch struct {
	Title         *string `json:"title,omitempty"`
	IsCompleted   *bool   `json:"isCompleted,omitempty"`
	ScheduledDate *string `json:"scheduledDate,omitempty"`
}

type MoodInput struct {
	Emoji string     `json:"emoji"`
	Note  *string    `json:"note,omitempty"`
	Date  *time.Time `json:"date,omitempty"`
}

// MoodPatch changes only the fields that are set. An empty Note clears it.
type MoodPatch struct {
	Emoji *string    `json:"emoji,omitempty"`
	Note  *string    `json:"note,omitempty"`
	Date  *time.Time `json:"date,omitempty"`
}

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (c *Client) SignUp(ctx context.Context, username, password string) (User, error) {
	var user User
	err := c.do(ctx, http.MethodPost, "/auth/signup", credentials{username, password}, &user)
	return user, err
}

// SignIn exchanges credentials for a token and keeps it for later calls.
func (c *Client) SignIn(ctx context.Context, username, password string) (string, error) {
	var resp struct {
		AccessToken string `json:"accessToken"`
	}
	if err := c.do(ctx, http.MethodPost, "/auth/signin", credentials{username, password}, &resp); err != nil {
		return "", err
	}
	c.token = resp.AccessToken
	return resp.AccessToken, nil
}

func (c *Client) Me(ctx context.Context) (User, error) {
	var user User
	err := c.do(ctx, http.MethodGet, "/users/me", nil, &user)
	return user, err
}

func (c *Client) DeleteUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/users/"+url.PathEscape(id), nil, nil)
}

func (c *Client) ListTasks(ctx context.Context) ([]models.Task, error) {
	var tasks []models.Task
	err := c.do(ctx, http.MethodGet, "/tasks", nil, &tasks)
	return tasks, err
}

func (c *Client) CreateTask(ctx context.Context, title string, scheduledDate *string) (models.Task, error) {
	body := struct {
		Title         string  `json:"title"`
		ScheduledDate *string `json:"scheduledDate,omitempty"`
	}{title, scheduledDate}

	var task models.Task
	err := c.do(ctx, http.MethodPost, "/tasks", body, &task)
	return task, err
}

func (c *Client) GetTask(ctx context.Context, id string) (models.Task, error) {
	var task models.Task
	err := c.do(ctx, http.MethodGet, "/tasks/"+url.PathEscape(id), nil, &task)
	return task, err
}

func (c *Client) UpdateTask(ctx context.Context, id string, patch TaskPatch) (models.Task, error) {
	var task models.Task
	err := c.do(ctx, http.MethodPatch, "/tasks/"+url.PathEscape(id), patch, &task)
	return task, err
}

func (c *Client) DeleteTask(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/tasks/"+url.PathEscape(id), nil, nil)
}

func (c *Client) TaskStats(ctx context.Context) (services.TaskStats, error) {
	var stats services.TaskStats
	err := c.do(ctx, http.MethodGet, "/tasks/stats", nil, &stats)
	return stats, err
}

func (c *Client) ListMoods(ctx context.Context) ([]models.Mood, error) {
	var moods []models.Mood
	err := c.do(ctx, http.MethodGet, "/moods", nil, &moods)
	return moods, err
}

func (c *Client) CreateMood(ctx context.Context, input MoodInput) (models.Mood, error) {
	var mood models.Mood
	err := c.do(ctx, http.MethodPost, "/moods", input, &mood)
	return mood, err
}

func (c *Client) UpdateMood(ctx context.Context, id string, patch MoodPatch) (models.Mood, error) {
	var mood models.Mood
	err := c.do(ctx, http.MethodPatch, "/moods/"+url.PathEscape(id), patch, &mood)
	return mood, err
}

func (c *Client) DeleteMood(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/moods/"+url.PathEscape(id), nil, nil)
}

// Calendar fetches the server-rendered grid for the given month.
func (c *Client) Calendar(ctx context.Context, year int, month time.Month) (calendar.Month, error) {
	var grid calendar.Month
	path := fmt.Sprintf("/calendar?month=%04d-%02d", year, int(month))
	err := c.do(ctx, http.MethodGet, path, nil, &grid)
	return grid, err
}

func (c *Client) CalendarDay(ctx context.Context, date string) (calendar.Day, error) {
	var day calendar.Day
	err := c.do(ctx, http.MethodGet, "/calendar/"+url.PathEscape(date), nil, &day)
	return day, err
}
