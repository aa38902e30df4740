// Package hostui defines the narrow interface gitline's core uses to talk
// to whatever is driving it — an interactive TUI, a plain CLI, or a CI
// runner with nobody watching. gitline's engine never assumes a human is
// present; it asks HostUI for capabilities and degrades when they're absent.
//
// This package intentionally stops at the interface and a headless
// implementation: a full interactive front-end is an external collaborator,
// not part of gitline's core.
package hostui

import "context"

// Style names a semantic log style; implementations map these to color or
// to plain text depending on the terminal.
type Style string

const (
	StyleInfo    Style = "cyan"
	StyleSuccess Style = "green"
	StyleWarn    Style = "yellow"
	StyleError   Style = "red"
	StyleDim     Style = "dim"
)

// ConflictRegion is one marked-up hunk inside a conflicted file.
type ConflictRegion struct {
	StartLine int
	EndLine   int
	OursText  string
	TheirsText string
	Context   string
}

// ConflictPresentation is everything a HostUI needs to show one conflicted
// file to whoever (or whatever) is resolving it.
type ConflictPresentation struct {
	FilePath      string
	OursBranch    string
	TheirsBranch  string
	BaseContent   string
	OursContent   string
	TheirsContent string
	Regions       []ConflictRegion
	AttemptNumber int
}

// ResolutionChoice is the decision a HostUI hands back for one presented
// conflict or divergence.
type ResolutionChoice int

const (
	ChoiceAcceptOurs ResolutionChoice = iota
	ChoiceAcceptTheirs
	ChoiceManual
	ChoiceAbort
)

// Resolution is the full answer to a PresentConflict(s) call.
type Resolution struct {
	Choice        ResolutionChoice
	MergedContent string // only set for ChoiceManual
}

// HostUI is the full capability surface gitline's engine can reach for.
// Every method degrades safely when implemented by a non-interactive host:
// see UI in headless.go.
type HostUI interface {
	// Log emits one styled line. Always available, including headless.
	Log(style Style, message string)

	// Confirm asks a yes/no question before a potentially destructive step.
	// A headless host must have a deterministic, documented default answer.
	Confirm(question string) (bool, error)

	// PresentConflict asks the host to resolve one conflicted file.
	PresentConflict(ctx context.Context, conflict ConflictPresentation) (Resolution, error)

	// PresentConflicts asks the host to resolve several conflicted files at once,
	// used when a single strategy decision should apply uniformly.
	PresentConflicts(ctx context.Context, conflicts []ConflictPresentation) (Resolution, error)

	// RunInBackground starts long-running work (e.g. waiting on CI) without
	// blocking the caller, returning a channel that yields exactly one result.
	RunInBackground(fn func() error) <-chan error

	// Interactive reports whether a human is actually available to answer
	// Confirm/PresentConflict — false for CI/headless hosts.
	Interactive() bool
}
