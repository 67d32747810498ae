package calendar

// DeleteState is the confirm-then-delete modal state.
type DeleteState int

const (
	Closed DeleteState = iota
	Confirming
)

func (s DeleteState) String() string {
	if s == Confirming {
		return "confirming"
	}
	return "closed"
}

// DeleteFlow guards destructive actions behind a confirmation step. It is
// either closed or confirming the deletion of exactly one target.
type DeleteFlow struct {
	state  DeleteState
	target string
}

// Request opens the confirmation for id, replacing any pending target.
func (f *DeleteFlow) Request(id string) {
	if id == "" {
		return
	}
	f.state = Confirming
	f.target = id
}

// Confirm closes the flow and returns the id to delete. ok is false when
// nothing was awaiting confirmation.
func (f *DeleteFlow) Confirm() (id string, ok bool) {
	if f.state != Confirming {
		return "", false
	}
	id = f.target
	f.Cancel()
	return id, true
}

func (f *DeleteFlow) Cancel() {
	f.state = Closed
	f.target = ""
}

func (f *DeleteFlow) State() DeleteState {
	return f.state
}

func (f *DeleteFlow) Target() string {
	return f.target
}
