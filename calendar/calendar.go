// Package calendar derives the month view, day details and counters shown
// by the clients from a user's task list.
package calendar

import (
	"errors"
	"fmt"
	"time"

	"github.com/random0602/DailyGlow/models"
)

const (
	MonthLayout = "2006-01"

	CompletedColor = "#a2e8dd"
	PendingColor   = "#E75480"
)

var ErrInvalidMonth = errors.New("month must be YYYY-MM")

type Dot struct {
	TaskID    string `json:"taskId"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
	Color     string `json:"color"`
}

// Cell is one square of the month grid. Blank cells pad the first week.
type Cell struct {
	Blank bool   `json:"blank"`
	Day   int    `json:"day,omitempty"`
	Date  string `json:"date,omitempty"`
	Today bool   `json:"today,omitempty"`
	Dots  []Dot  `json:"dots,omitempty"`
}

type Month struct {
	Year  int    `json:"year"`
	Month int    `json:"month"`
	Label string `json:"label"`
	Cells []Cell `json:"cells"`
}

type Stats struct {
	Total     int `json:"total"`
	Completed int `json:"completed"`
	Pending   int `json:"pending"`
}

type Day struct {
	Date  string        `json:"date"`
	Label string        `json:"label"`
	Tasks []models.Task `json:"tasks"`
	Stats Stats         `json:"stats"`
}

// ParseMonth reads a YYYY-MM value.
func ParseMonth(s string) (int, time.Month, error) {
	t, err := time.Parse(MonthLayout, s)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: %q", ErrInvalidMonth, s)
	}
	return t.Year(), t.Month(), nil
}

func DateString(year int, month time.Month, day int) string {
	return fmt.Sprintf("%04d-%02d-%02d", year, int(month), day)
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// BuildMonth lays out the grid for month with weeks starting on Sunday.
// Each task contributes one dot to the day it lands on.
func BuildMonth(year int, month time.Month, tasks []models.Task, today time.Time) Month {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	byDay := groupByDay(tasks)
	todayStr := today.Format(models.DateLayout)

	leading := int(first.Weekday())
	days := daysIn(year, month)
	cells := make([]Cell, 0, leading+days)
	for i := 0; i < leading; i++ {
		cells = append(cells, Cell{Blank: true})
	}

	for day := 1; day <= days; day++ {
		date := DateString(year, month, day)
		cell := Cell{Day: day, Date: date, Today: date == todayStr}
		for _, task := range byDay[date] {
			cell.Dots = append(cell.Dots, dotFor(task))
		}
		cells = append(cells, cell)
	}

	return Month{
		Year:  year,
		Month: int(month),
		Label: first.Format("January 2006"),
		Cells: cells,
	}
}

func dotFor(task models.Task) Dot {
	color := PendingColor
	if task.IsCompleted {
		color = CompletedColor
	}
	return Dot{
		TaskID:    task.ID.String(),
		Title:     task.Title,
		Completed: task.IsCompleted,
		Color:     color,
	}
}

func groupByDay(tasks []models.Task) map[string][]models.Task {
	byDay := make(map[string][]models.Task)
	for _, task := range tasks {
		day := task.Day()
		byDay[day] = append(byDay[day], task)
	}
	return byDay
}

// TasksOn filters tasks down to those landing on date.
func TasksOn(date string, tasks []models.Task) []models.Task {
	result := []models.Task{}
	for _, task := range tasks {
		if task.Day() == date {
			result = append(result, task)
		}
	}
	return result
}

// DayDetails describes a single day. date must be YYYY-MM-DD.
func DayDetails(date string, tasks []models.Task) (Day, error) {
	t, err := time.Parse(models.DateLayout, date)
	if err != nil {
		return Day{}, fmt.Errorf("invalid date %q: %w", date, err)
	}
	onDay := TasksOn(date, tasks)
	return Day{
		Date:  date,
		Label: t.Format("Monday, January 2"),
		Tasks: onDay,
		Stats: ComputeStats(onDay),
	}, nil
}

func ComputeStats(tasks []models.Task) Stats {
	stats := Stats{Total: len(tasks)}
	for _, task := range tasks {
		if task.IsCompleted {
			stats.Completed++
		}
	}
	stats.Pending = stats.Total - stats.Completed
	return stats
}
