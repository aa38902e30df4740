// Package divergence resolves a local branch that has drifted from its
// remote counterpart, using one of three methods: rebase, merge, or a
// force-push (with lease) that overwrites the remote.
package divergence

import (
	"fmt"
	"strings"

	"github.com/re-cinq/gitline/internal/gitexec"
	"github.com/re-cinq/gitline/internal/gitprobe"
	"github.com/re-cinq/gitline/internal/hostui"
)

// Method names one of the three ways to reconcile a diverged branch.
type Method int

const (
	MethodRebase Method = iota
	MethodMerge
	MethodForcePush
)

func (m Method) String() string {
	switch m {
	case MethodRebase:
		return "rebase"
	case MethodMerge:
		return "merge"
	case MethodForcePush:
		return "force_push"
	default:
		return "unknown"
	}
}

// Resolver reconciles ahead/behind/diverged states against a remote.
type Resolver struct {
	runner gitexec.Runner
	probe  *gitprobe.Probe
	ui     hostui.HostUI
}

// New creates a Resolver over runner, reporting progress to ui.
func New(runner gitexec.Runner, ui hostui.HostUI) *Resolver {
	return &Resolver{runner: runner, probe: gitprobe.New(runner), ui: ui}
}

// Inspect reports how branch currently compares to remote/branch.
func (r *Resolver) Inspect(remote, branch string) (gitprobe.Divergence, error) {
	return r.probe.Divergence(remote, branch)
}

// Resolve reconciles branch against remote using method. Conflicts raised by
// a rebase or merge attempt are surfaced as an error describing the manual
// recovery steps, matching the original tool's guidance rather than
// discarding the in-progress operation.
func (r *Resolver) Resolve(remote, branch string, method Method) error {
	switch method {
	case MethodRebase:
		return r.resolveRebase(remote, branch)
	case MethodMerge:
		return r.resolveMerge(remote, branch)
	case MethodForcePush:
		return r.resolveForcePush(remote, branch)
	default:
		return fmt.Errorf("unknown divergence resolution method %d", method)
	}
}

func (r *Resolver) resolveRebase(remote, branch string) error {
	r.ui.Log(hostui.StyleInfo, "pulling with rebase...")
	if err := r.runner.PullRebase(remote, branch); err != nil {
		if looksLikeConflict(err) {
			return fmt.Errorf("rebase conflicts detected: resolve conflicts, `git add` the files, then `git rebase --continue` (or `git rebase --abort`): %w", err)
		}
		return fmt.Errorf("rebase failed: %w", err)
	}
	r.ui.Log(hostui.StyleSuccess, "rebase successful")
	return nil
}

func (r *Resolver) resolveMerge(remote, branch string) error {
	r.ui.Log(hostui.StyleInfo, "pulling with merge...")
	if err := r.runner.PullMerge(remote, branch); err != nil {
		if looksLikeConflict(err) {
			return fmt.Errorf("merge conflicts detected: resolve conflicts, `git add` the files, then `git commit` (or `git merge --abort`): %w", err)
		}
		return fmt.Errorf("merge failed: %w", err)
	}
	r.ui.Log(hostui.StyleSuccess, "merge successful")
	return nil
}

func (r *Resolver) resolveForcePush(remote, branch string) error {
	r.ui.Log(hostui.StyleWarn, "force-pushing with lease (this overwrites the remote branch if nobody else has pushed)...")
	if err := r.runner.PushForceWithLease(remote, branch); err != nil {
		return fmt.Errorf("force push failed: %w", err)
	}
	r.ui.Log(hostui.StyleSuccess, "force push successful")
	return nil
}

// looksLikeConflict inspects a wrapped git error for conflict markers in its
// combined output, the same heuristic the original tool used against
// stdout/stderr rather than relying on a specific exit code.
func looksLikeConflict(err error) bool {
	return strings.Contains(strings.ToLower(err.Error()), "conflict")
}

// RecommendMethod returns MethodRebase for every divergence shape
// (behind-only, ahead-only or truly diverged); it takes no policy into
// account.
func RecommendMethod(d gitprobe.Divergence) Method {
	if !d.Diverged {
		return MethodRebase
	}
	return MethodRebase
}
