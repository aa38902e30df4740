// Package conflict implements the four conflict-resolution strategies
// named in the data model (interactive, auto-ours, auto-theirs, manual)
// over a three-way merge conflict, plus preview generation.
package conflict

import (
	"context"
	"fmt"

	"github.com/re-cinq/gitline/internal/gitexec"
	"github.com/re-cinq/gitline/internal/gitprobe"
	"github.com/re-cinq/gitline/internal/hostui"
)

// Strategy names one of the four conflict-resolution approaches.
type Strategy int

const (
	StrategyInteractive Strategy = iota
	StrategyAutoOurs
	StrategyAutoTheirs
	StrategyManual
)

func (s Strategy) String() string {
	switch s {
	case StrategyInteractive:
		return "interactive"
	case StrategyAutoOurs:
		return "auto-ours"
	case StrategyAutoTheirs:
		return "auto-theirs"
	case StrategyManual:
		return "manual"
	default:
		return "unknown"
	}
}

// ParseStrategy maps a config string (as found in settings) to a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch s {
	case "interactive":
		return StrategyInteractive, nil
	case "auto-ours":
		return StrategyAutoOurs, nil
	case "auto-theirs":
		return StrategyAutoTheirs, nil
	case "manual":
		return StrategyManual, nil
	default:
		return 0, fmt.Errorf("unknown conflict strategy %q", s)
	}
}

// Resolver drives conflict resolution for a repository using one of the
// four strategies. Interactive resolution delegates decisions to a HostUI.
type Resolver struct {
	runner gitexec.Runner
	probe  *gitprobe.Probe
	ui     hostui.HostUI
}

// New creates a Resolver over the given runner and host UI.
func New(runner gitexec.Runner, ui hostui.HostUI) *Resolver {
	return &Resolver{runner: runner, probe: gitprobe.New(runner), ui: ui}
}

// HasConflicts reports whether the repository currently has unmerged paths.
func (r *Resolver) HasConflicts() (bool, error) {
	files, err := r.probe.ConflictFiles()
	if err != nil {
		return false, err
	}
	return len(files) > 0, nil
}

// Resolve runs the configured strategy against every conflicted file.
// It returns an error (without resolving) when the strategy cannot proceed
// without a capability the HostUI doesn't have (e.g. interactive in a
// headless host that refuses the conflict).
func (r *Resolver) Resolve(ctx context.Context, strategy Strategy, oursBranch, theirsBranch string) error {
	files, err := r.probe.ConflictFiles()
	if err != nil {
		return fmt.Errorf("list conflicts: %w", err)
	}
	if len(files) == 0 {
		return nil
	}

	r.ui.Log(hostui.StyleWarn, fmt.Sprintf("%d file(s) have conflicts", len(files)))
	for _, f := range files {
		r.ui.Log(hostui.StyleWarn, "  "+f.Path)
	}

	switch strategy {
	case StrategyAutoOurs:
		return r.resolveAuto(files, true)
	case StrategyAutoTheirs:
		return r.resolveAuto(files, false)
	case StrategyInteractive:
		return r.resolveInteractive(ctx, files, oursBranch, theirsBranch)
	case StrategyManual:
		return r.resolveManual(files)
	default:
		return fmt.Errorf("unknown conflict strategy %d", strategy)
	}
}

// resolveAuto keeps either the "ours" or "theirs" side for every conflicted
// file, removing files the chosen side deleted.
func (r *Resolver) resolveAuto(files []gitprobe.ConflictFile, keepOurs bool) error {
	label := "accepted remote changes"
	if keepOurs {
		label = "kept local changes"
	}
	for _, f := range files {
		exists := f.TheirsExists
		if keepOurs {
			exists = f.OursExists
		}
		if !exists {
			if err := r.runner.RemoveFile(f.Path); err != nil {
				return fmt.Errorf("remove %s: %w", f.Path, err)
			}
			continue
		}
		var checkoutErr error
		if keepOurs {
			checkoutErr = r.runner.CheckoutOurs(f.Path)
		} else {
			checkoutErr = r.runner.CheckoutTheirs(f.Path)
		}
		if checkoutErr != nil {
			return fmt.Errorf("checkout %s: %w", f.Path, checkoutErr)
		}
		if err := r.runner.Add(f.Path); err != nil {
			return fmt.Errorf("stage %s: %w", f.Path, err)
		}
	}
	r.ui.Log(hostui.StyleSuccess, "conflicts resolved ("+label+")")
	return nil
}

// resolveManual leaves the conflict markers in place for the user to edit
// outside gitline, matching the distilled spec's "manual" strategy: it does
// not touch the working tree at all, it only reports what remains.
func (r *Resolver) resolveManual(files []gitprobe.ConflictFile) error {
	r.ui.Log(hostui.StyleInfo, "manual resolution requested: edit the files below, `git add` them, then continue the flow")
	for _, f := range files {
		r.ui.Log(hostui.StyleDim, "  "+f.Path)
	}
	return fmt.Errorf("manual resolution pending for %d file(s)", len(files))
}

// resolveInteractive presents each conflicted file's preview to the HostUI
// and applies whatever Resolution comes back.
func (r *Resolver) resolveInteractive(ctx context.Context, files []gitprobe.ConflictFile, oursBranch, theirsBranch string) error {
	presentations := make([]hostui.ConflictPresentation, 0, len(files))
	for _, f := range files {
		preview, err := r.Preview(f.Path)
		if err != nil {
			return fmt.Errorf("preview %s: %w", f.Path, err)
		}
		presentations = append(presentations, hostui.ConflictPresentation{
			FilePath:     f.Path,
			OursBranch:   oursBranch,
			TheirsBranch: theirsBranch,
			Regions:      preview.Regions,
		})
	}

	resolution, err := r.ui.PresentConflicts(ctx, presentations)
	if err != nil {
		return fmt.Errorf("interactive resolution declined: %w", err)
	}

	switch resolution.Choice {
	case hostui.ChoiceAcceptOurs:
		return r.resolveAuto(files, true)
	case hostui.ChoiceAcceptTheirs:
		return r.resolveAuto(files, false)
	case hostui.ChoiceManual:
		return r.resolveManual(files)
	default:
		return fmt.Errorf("conflict resolution aborted by host")
	}
}
