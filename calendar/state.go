package calendar

import (
	"time"

	"github.com/random0602/DailyGlow/models"
)

// State is the calendar view's own state: the month on screen, the day the
// user picked and the tasks from the last fetch. It is never the source of
// truth; Refresh replaces Tasks after every server round trip.
type State struct {
	CurrentMonth time.Time
	SelectedDate string
	Tasks        []models.Task
}

func NewState(now time.Time) *State {
	return &State{CurrentMonth: firstOfMonth(now)}
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// ChangeMonth moves the view by delta months.
func (s *State) ChangeMonth(delta int) {
	s.CurrentMonth = firstOfMonth(s.CurrentMonth).AddDate(0, delta, 0)
}

// Select picks a day. The month view follows the selection.
func (s *State) Select(date string) error {
	t, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return err
	}
	s.SelectedDate = date
	s.CurrentMonth = firstOfMonth(t)
	return nil
}

func (s *State) ClearSelection() {
	s.SelectedDate = ""
}

func (s *State) Refresh(tasks []models.Task) {
	s.Tasks = tasks
}

func (s *State) Month(today time.Time) Month {
	return BuildMonth(s.CurrentMonth.Year(), s.CurrentMonth.Month(), s.Tasks, today)
}

// Selected returns the details of the selected day, if any.
func (s *State) Selected() (Day, bool) {
	if s.SelectedDate == "" {
		return Day{}, false
	}
	day, err := DayDetails(s.SelectedDate, s.Tasks)
	if err != nil {
		return Day{}, false
	}
	return day, true
}
