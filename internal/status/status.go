// Package status implements the fixed four-state cycles used by checklists
// and security educations.
package status

import (
	"fmt"
	"time"
)

// Cycle is an ordered, closed sequence of states. Advancing from the last
// state wraps to the first.
type Cycle struct {
	states []string
	// terminal is the state that marks the record complete.
	terminal string
}

var (
	ChecklistCycle = NewCycle("done", "waiting", "in_progress", "done", "hold")
	EducationCycle = NewCycle("completed", "scheduled", "ongoing", "completed", "postponed")
)

func NewCycle(terminal string, states ...string) Cycle {
	return Cycle{states: states, terminal: terminal}
}

// UnknownStateError is returned when a record holds a state outside its cycle.
type UnknownStateError struct {
	State string
}

func (e *UnknownStateError) Error() string {
	return fmt.Sprintf("unknown status %q", e.State)
}

// Initial is the state a new record starts in.
func (c Cycle) Initial() string {
	return c.states[0]
}

// Terminal is the completion state of the cycle.
func (c Cycle) Terminal() string {
	return c.terminal
}

// Valid reports whether state belongs to the cycle.
func (c Cycle) Valid(state string) bool {
	return c.index(state) >= 0
}

func (c Cycle) index(state string) int {
	for i, s := range c.states {
		if s == state {
			return i
		}
	}
	return -1
}

// Next returns the state following current.
func (c Cycle) Next(current string) (string, error) {
	i := c.index(current)
	if i < 0 {
		return "", &UnknownStateError{State: current}
	}
	return c.states[(i+1)%len(c.states)], nil
}

// Transition is the outcome of one toggle.
type Transition struct {
	From        string
	To          string
	Progress    int
	CompletedAt *time.Time
}

// EnteredTerminal reports whether the toggle completed the record.
func (t Transition) EnteredTerminal(c Cycle) bool {
	return t.To == c.terminal && t.From != c.terminal
}

// Advance moves a record one step along the cycle. Entering the terminal
// state stamps completion at now and sets progress to 100. Leaving it clears
// the completion timestamp and keeps progress as is.
func (c Cycle) Advance(current string, progress int, completedAt *time.Time, now time.Time) (Transition, error) {
	next, err := c.Next(current)
	if err != nil {
		return Transition{}, err
	}

	t := Transition{From: current, To: next, Progress: progress, CompletedAt: completedAt}
	switch {
	case next == c.terminal:
		stamp := now.UTC()
		t.CompletedAt = &stamp
		t.Progress = 100
	case current == c.terminal:
		t.CompletedAt = nil
	}
	return t, nil
}
