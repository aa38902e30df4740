package hostui

import (
	"context"
	"fmt"

	"github.com/fatih/color"
)

// styleColors maps Style to a fatih/color attribute set.
var styleColors = map[Style]*color.Color{
	StyleInfo:    color.New(color.FgCyan),
	StyleSuccess: color.New(color.FgGreen),
	StyleWarn:    color.New(color.FgYellow),
	StyleError:   color.New(color.FgRed),
	StyleDim:     color.New(color.Faint),
}

// UI is the non-interactive HostUI the CLI uses for every command (its
// --yes flag sets DefaultConfirm) and that suits CI.
// It never blocks on input: Confirm and PresentConflict* resolve from a
// fixed policy instead of asking anyone.
type UI struct {
	// DefaultConfirm is returned by Confirm when no human can answer.
	DefaultConfirm bool
	// ConflictChoice is the resolution applied when a conflict is presented
	// and nobody is watching. Defaults to ChoiceAbort, which is always safe.
	ConflictChoice ResolutionChoice
}

// New creates a headless UI that aborts on any conflict and declines any
// destructive confirmation by default — the safe-mode posture.
func New() *UI {
	return &UI{DefaultConfirm: false, ConflictChoice: ChoiceAbort}
}

func (u *UI) Log(style Style, message string) {
	if c, ok := styleColors[style]; ok {
		c.Println(message)
		return
	}
	fmt.Println(message)
}

func (u *UI) Confirm(question string) (bool, error) {
	return u.DefaultConfirm, nil
}

func (u *UI) PresentConflict(ctx context.Context, conflict ConflictPresentation) (Resolution, error) {
	if u.ConflictChoice == ChoiceAbort {
		return Resolution{}, fmt.Errorf("headless host cannot resolve conflict in %s: no interactive resolver configured", conflict.FilePath)
	}
	return Resolution{Choice: u.ConflictChoice}, nil
}

func (u *UI) PresentConflicts(ctx context.Context, conflicts []ConflictPresentation) (Resolution, error) {
	if u.ConflictChoice == ChoiceAbort {
		return Resolution{}, fmt.Errorf("headless host cannot resolve %d conflicting files: no interactive resolver configured", len(conflicts))
	}
	return Resolution{Choice: u.ConflictChoice}, nil
}

func (u *UI) RunInBackground(fn func() error) <-chan error {
	ch := make(chan error, 1)
	go func() { ch <- fn() }()
	return ch
}

func (u *UI) Interactive() bool { return false }

var _ HostUI = (*UI)(nil)
