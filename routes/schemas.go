package routes

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/random0602/DailyGlow/models"
	"github.com/random0602/DailyGlow/services"

	"github.com/google/uuid"
)

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type signUpResponse struct {
	ID       uuid.UUID `json:"id"`
	Username string    `json:"username"`
}

type signInResponse struct {
	AccessToken string `json:"accessToken"`
}

type userResponse struct {
	ID        uuid.UUID `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
}

func newUserResponse(user models.User) userResponse {
	return userResponse{ID: user.ID, Username: user.Username, CreatedAt: user.CreatedAt}
}

// nullableString tells an absent field apart from an explicit null.
type nullableString struct {
	Set   bool
	Value *string
}

func (n *nullableString) UnmarshalJSON(data []byte) error {
	n.Set = true
	if bytes.Equal(data, []byte("null")) {
		n.Value = nil
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	n.Value = &s
	return nil
}

// patchValue turns the field into the services patch convention: nil keeps
// the stored value, an empty string clears it.
func (n nullableString) patchValue() *string {
	if !n.Set {
		return nil
	}
	if n.Value == nil {
		empty := ""
		return &empty
	}
	return n.Value
}

// flexibleTime accepts RFC 3339 timestamps and plain YYYY-MM-DD days.
type flexibleTime struct {
	time.Time
}

func (f *flexibleTime) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	for _, layout := range []string{time.RFC3339Nano, models.DateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			f.Time = t
			return nil
		}
	}
	return fmt.Errorf("invalid date %q", s)
}

func (f *flexibleTime) timePtr() *time.Time {
	if f == nil {
		return nil
	}
	t := f.Time
	return &t
}

type createTaskRequest struct {
	Title         string  `json:"title"`
	ScheduledDate *string `json:"scheduledDate"`
}

func (r createTaskRequest) input() services.CreateTaskInput {
	return services.CreateTaskInput{Title: r.Title, ScheduledDate: r.ScheduledDate}
}

type updateTaskRequest struct {
	Title         *string        `json:"title"`
	IsCompleted   *bool          `json:"isCompleted"`
	ScheduledDate nullableString `json:"scheduledDate"`
}

func (r updateTaskRequest) patch() services.TaskPatch {
	return services.TaskPatch{
		Title:         r.Title,
		IsCompleted:   r.IsCompleted,
		ScheduledDate: r.ScheduledDate.patchValue(),
	}
}

type createMoodRequest struct {
	Emoji string        `json:"emoji"`
	Note  *string       `json:"note"`
	Date  *flexibleTime `json:"date"`
}

func (r createMoodRequest) input() services.CreateMoodInput {
	return services.CreateMoodInput{Emoji: r.Emoji, Note: r.Note, Date: r.Date.timePtr()}
}

type updateMoodRequest struct {
	Emoji *string        `json:"emoji"`
	Note  nullableString `json:"note"`
	Date  *flexibleTime  `json:"date"`
}

func (r updateMoodRequest) patch() services.MoodPatch {
	return services.MoodPatch{
		Emoji: r.Emoji,
		Note:  r.Note.patchValue(),
		Date:  r.Date.timePtr(),
	}
}
