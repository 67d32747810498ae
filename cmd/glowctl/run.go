package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/random0602/DailyGlow/calendar"
	"github.com/random0602/DailyGlow/client"
	"github.com/random0602/DailyGlow/models"
)

const (
	exitSuccess           = 0
	exitFailure           = 1
	exitInvalidInvocation = 2
)

const usage = `usage: glowctl [-server URL] [-token-file PATH] <command> [args]

commands:
  signup <username> <password>
  signin <username> <password>
  tasks
  add [-date YYYY-MM-DD] <title...>
  done [-undo] <task-id>
  rm [-y] <task-id>
  moods
  mood [-date YYYY-MM-DD] <emoji> [note...]
  calendar [-month YYYY-MM] [-day YYYY-MM-DD]`

type invocationError struct {
	message string
}

func (e *invocationError) Error() string {
	return e.message
}

func invalidf(format string, args ...any) error {
	return &invocationError{message: fmt.Sprintf(format, args...)}
}

type app struct {
	client    *client.Client
	tokenFile string
	in        *bufio.Reader
	out       io.Writer
	now       func() time.Time
}

func defaultTokenFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ".glowctl-token"
	}
	return filepath.Join(dir, "dailyglow", "token")
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("glowctl", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	server := os.Getenv("DAILYGLOW_URL")
	if server == "" {
		server = "http://localhost:3000"
	}
	fs.StringVar(&server, "server", server, "DailyGlow server URL")
	tokenFile := fs.String("token-file", defaultTokenFile(), "where the access token is cached")

	if err := fs.Parse(args); err != nil || fs.NArg() == 0 {
		fmt.Fprintln(stderr, usage)
		return exitInvalidInvocation
	}

	a := &app{
		client:    client.New(server),
		tokenFile: *tokenFile,
		in:        bufio.NewReader(stdin),
		out:       stdout,
		now:       time.Now,
	}
	if token, err := os.ReadFile(a.tokenFile); err == nil {
		a.client.SetToken(strings.TrimSpace(string(token)))
	}

	if err := a.dispatch(ctx, fs.Arg(0), fs.Args()[1:]); err != nil {
		fmt.Fprintln(stderr, "glowctl:", err)
		var invErr *invocationError
		if errors.As(err, &invErr) {
			fmt.Fprintln(stderr, usage)
			return exitInvalidInvocation
		}
		return exitFailure
	}
	return exitSuccess
}

func (a *app) dispatch(ctx context.Context, command string, args []string) error {
	switch command {
	case "signup":
		return a.signUp(ctx, args)
	case "signin":
		return a.signIn(ctx, args)
	case "tasks":
		return a.listTasks(ctx)
	case "add":
		return a.addTask(ctx, args)
	case "done":
		return a.completeTask(ctx, args)
	case "rm":
		return a.removeTask(ctx, args)
	case "moods":
		return a.listMoods(ctx)
	case "mood":
		return a.addMood(ctx, args)
	case "calendar":
		return a.showCalendar(ctx, args)
	}
	return invalidf("unknown command %q", command)
}

func (a *app) saveToken(token string) error {
	if err := os.MkdirAll(filepath.Dir(a.tokenFile), 0o700); err != nil {
		return err
	}
	return os.WriteFile(a.tokenFile, []byte(token+"\n"), 0o600)
}

func (a *app) signUp(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return invalidf("signup needs <username> <password>")
	}
	user, err := a.client.SignUp(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Created %s (%s)\n", user.Username, user.ID)
	return nil
}

func (a *app) signIn(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return invalidf("signin needs <username> <password>")
	}
	token, err := a.client.SignIn(ctx, args[0], args[1])
	if err != nil {
		return err
	}
	if err := a.saveToken(token); err != nil {
		return fmt.Errorf("signed in but could not save token: %w", err)
	}
	fmt.Fprintf(a.out, "Signed in as %s\n", args[0])
	return nil
}

func (a *app) printTasks(tasks []models.Task) {
	if len(tasks) == 0 {
		fmt.Fprintln(a.out, "No plans yet.")
		return
	}
	for _, task := range tasks {
		mark := " "
		if task.IsCompleted {
			mark = "x"
		}
		fmt.Fprintf(a.out, "[%s] %s  %s  %s\n", mark, task.Day(), task.Title, task.ID)
	}
}

func (a *app) listTasks(ctx context.Context) error {
	tasks, err := a.client.ListTasks(ctx)
	if err != nil {
		return err
	}
	a.printTasks(tasks)
	return nil
}

func (a *app) addTask(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("add", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	date := fs.String("date", "", "schedule for YYYY-MM-DD")
	if err := fs.Parse(args); err != nil {
		return invalidf("%v", err)
	}
	title := strings.Join(fs.Args(), " ")
	if strings.TrimSpace(title) == "" {
		return invalidf("add needs a title")
	}

	var scheduled *string
	if *date != "" {
		scheduled = date
	}
	task, err := a.client.CreateTask(ctx, title, scheduled)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Added %q (%s)\n", task.Title, task.ID)
	return nil
}

func (a *app) completeTask(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("done", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	undo := fs.Bool("undo", false, "mark as not done")
	if err := fs.Parse(args); err != nil {
		return invalidf("%v", err)
	}
	if fs.NArg() != 1 {
		return invalidf("done needs <task-id>")
	}

	completed := !*undo
	task, err := a.client.UpdateTask(ctx, fs.Arg(0), client.TaskPatch{IsCompleted: &completed})
	if err != nil {
		return err
	}
	a.printTasks([]models.Task{task})
	return nil
}

// removeTask asks for confirmation before deleting unless -y is given.
func (a *app) removeTask(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("rm", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	yes := fs.Bool("y", false, "skip confirmation")
	if err := fs.Parse(args); err != nil {
		return invalidf("%v", err)
	}
	if fs.NArg() != 1 {
		return invalidf("rm needs <task-id>")
	}

	task, err := a.client.GetTask(ctx, fs.Arg(0))
	if err != nil {
		return err
	}

	var flow calendar.DeleteFlow
	flow.Request(task.ID.String())
	if !*yes {
		fmt.Fprintf(a.out, "Delete %q? [y/N] ", task.Title)
		answer, _ := a.in.ReadString('\n')
		if reply := strings.ToLower(strings.TrimSpace(answer)); reply != "y" && reply != "yes" {
			flow.Cancel()
		}
	}

	id, ok := flow.Confirm()
	if !ok {
		fmt.Fprintln(a.out, "Cancelled")
		return nil
	}
	if err := a.client.DeleteTask(ctx, id); err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Deleted %q\n", task.Title)
	return nil
}

func (a *app) listMoods(ctx context.Context) error {
	moods, err := a.client.ListMoods(ctx)
	if err != nil {
		return err
	}
	if len(moods) == 0 {
		fmt.Fprintln(a.out, "No moods logged yet.")
		return nil
	}
	for _, mood := range moods {
		note := ""
		if mood.Note != nil {
			note = *mood.Note
		}
		fmt.Fprintf(a.out, "%s %s  %s  %s\n", mood.Date.Format(models.DateLayout), mood.Emoji, note, mood.ID)
	}
	return nil
}

func (a *app) addMood(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("mood", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	date := fs.String("date", "", "log for YYYY-MM-DD")
	if err := fs.Parse(args); err != nil {
		return invalidf("%v", err)
	}
	if fs.NArg() == 0 {
		return invalidf("mood needs an <emoji>")
	}

	input := client.MoodInput{Emoji: fs.Arg(0)}
	if note := strings.Join(fs.Args()[1:], " "); note != "" {
		input.Note = &note
	}
	if *date != "" {
		when, err := time.Parse(models.DateLayout, *date)
		if err != nil {
			return invalidf("-date must be YYYY-MM-DD")
		}
		input.Date = &when
	}

	mood, err := a.client.CreateMood(ctx, input)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged %s (%s)\n", mood.Emoji, mood.ID)
	return nil
}

func (a *app) showCalendar(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("calendar", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	month := fs.String("month", "", "YYYY-MM, defaults to this month")
	day := fs.String("day", "", "show details for YYYY-MM-DD")
	if err := fs.Parse(args); err != nil {
		return invalidf("%v", err)
	}

	today := a.now()
	state := calendar.NewState(today)
	if *month != "" {
		year, m, err := calendar.ParseMonth(*month)
		if err != nil {
			return invalidf("%v", err)
		}
		state.CurrentMonth = time.Date(year, m, 1, 0, 0, 0, 0, time.UTC)
	}
	if *day != "" {
		if err := state.Select(*day); err != nil {
			return invalidf("-day must be YYYY-MM-DD")
		}
	}

	tasks, err := a.client.ListTasks(ctx)
	if err != nil {
		return err
	}
	state.Refresh(tasks)

	renderMonth(a.out, state.Month(today))
	if selected, ok := state.Selected(); ok {
		fmt.Fprintf(a.out, "\n%s  (%d done, %d pending)\n", selected.Label, selected.Stats.Completed, selected.Stats.Pending)
		a.printTasks(selected.Tasks)
	}
	return nil
}

// renderMonth prints a Sunday-first grid. Days with open tasks get a '*',
// days whose tasks are all done get a '+'.
func renderMonth(w io.Writer, month calendar.Month) {
	fmt.Fprintf(w, "%s\n", month.Label)
	fmt.Fprintln(w, " Su  Mo  Tu  We  Th  Fr  Sa")

	for i, cell := range month.Cells {
		if cell.Blank {
			fmt.Fprint(w, "    ")
		} else {
			fmt.Fprintf(w, " %2d%s", cell.Day, marker(cell))
		}
		if i%7 == 6 {
			fmt.Fprintln(w)
		}
	}
	if len(month.Cells)%7 != 0 {
		fmt.Fprintln(w)
	}
}

func marker(cell calendar.Cell) string {
	if len(cell.Dots) == 0 {
		if cell.Today {
			return "<"
		}
		return " "
	}
	for _, dot := range cell.Dots {
		if !dot.Completed {
			return "*"
		}
	}
	return "+"
}
