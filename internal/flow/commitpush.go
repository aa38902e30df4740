package flow

import (
	"context"
	"fmt"
	"strings"

	"github.com/re-cinq/gitline/internal/conflict"
	"github.com/re-cinq/gitline/internal/divergence"
	"github.com/re-cinq/gitline/internal/flowerr"
	"github.com/re-cinq/gitline/internal/hostui"
)

// CommitTarget names where a Commit+Push flow should land its commit.
type CommitTarget int

const (
	TargetUserBranch CommitTarget = iota
	TargetMain
)

// CommitAndPush stages everything, commits with message, and pushes to
// target, reconciling divergence and conflicts along the way.
func (e *Engine) CommitAndPush(ctx context.Context, message string, target CommitTarget) error {
	targetBranch := e.UserBranch()
	if target == TargetMain {
		targetBranch = "main"
		if e.isProtected(targetBranch) && e.pol.ConfirmDestructive {
			ok, err := e.ui.Confirm("commit directly to the protected branch " + targetBranch + "?")
			if err != nil {
				return flowerr.Unexpected("confirm protected branch commit", err)
			}
			if !ok {
				return flowerr.UserCancel("user declined to commit to protected branch")
			}
		}
	}

	if hasConflicts, err := e.conflicts.HasConflicts(); err != nil {
		return flowerr.Unexpected("check conflicts before commit", err)
	} else if hasConflicts {
		strategy := conflict.StrategyInteractive
		if e.pol.AutoResolveConflicts {
			strategy = conflict.StrategyAutoOurs
		}
		if err := e.conflicts.Resolve(ctx, strategy, targetBranch, targetBranch); err != nil {
			return flowerr.ConflictPending("cannot commit with unresolved conflicts: " + err.Error())
		}
	}

	branches, err := e.probe.Branches()
	if err != nil {
		return flowerr.Unexpected("probe branches", err)
	}
	originalBranch := branches.Current
	switched := originalBranch != targetBranch

	if switched {
		p := e.newPlan("commit_and_push")
		remoteExists, err := e.runner.RemoteBranchExists(e.remote, targetBranch)
		if err != nil {
			return flowerr.Unexpected("check remote branch", err)
		}
		if err := e.queueBranchSwitch(p, targetBranch, remoteExists); err != nil {
			return flowerr.Unexpected("queue branch switch", err)
		}
		if err := p.ExecuteWithConfirmation(); err != nil {
			return flowerr.GitCommandFailed("switch to "+targetBranch+" failed", err)
		}
		if hasConflicts, _ := e.conflicts.HasConflicts(); hasConflicts {
			return flowerr.ConflictPending("stash pop collided with conflicts on " + targetBranch)
		}
	}

	if err := e.runner.Add("-A"); err != nil {
		return flowerr.GitCommandFailed("git add -A failed", err)
	}

	if hasConflicts, err := e.conflicts.HasConflicts(); err != nil {
		return flowerr.Unexpected("check conflicts before commit (I2)", err)
	} else if hasConflicts {
		return flowerr.ConflictPending("refusing to commit while conflict markers remain")
	}

	if err := e.runner.Commit(message); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "nothing to commit") {
			e.ui.Log(hostui.StyleInfo, "nothing to commit")
			return nil
		}
		return flowerr.GitCommandFailed("commit failed", err)
	}

	if err := e.syncAndPush(targetBranch); err != nil {
		return err
	}

	if switched {
		if err := e.returnAndMergeBack(originalBranch, targetBranch); err != nil {
			e.ui.Log(hostui.StyleWarn, fmt.Sprintf("returned to %s but could not merge %s in: %v", originalBranch, targetBranch, err))
		}
	}

	e.ui.Log(hostui.StyleSuccess, "commit and push complete")
	return nil
}

// syncAndPush reconciles divergence against the remote before pushing.
func (e *Engine) syncAndPush(targetBranch string) error {
	d, err := e.probe.Divergence(e.remote, targetBranch)
	if err != nil {
		return flowerr.Unexpected("probe divergence", err)
	}

	switch {
	case !d.HasRemote || (!d.Diverged && d.Behind == 0):
		if err := e.runner.PushSetUpstream(e.remote, targetBranch); err != nil {
			return flowerr.AnalyzePushError(err.Error(), err)
		}
	case d.Behind > 0 && !d.Diverged:
		if err := e.divergences.Resolve(e.remote, targetBranch, divergence.MethodRebase); err != nil {
			return flowerr.DivergencePending(err.Error())
		}
		if err := e.runner.Push(e.remote, targetBranch); err != nil {
			return flowerr.AnalyzePushError(err.Error(), err)
		}
	default: // diverged
		method, err := e.chooseDivergenceMethod()
		if err != nil {
			return err
		}
		if err := e.divergences.Resolve(e.remote, targetBranch, method); err != nil {
			return flowerr.DivergencePending(err.Error())
		}
		if method != divergence.MethodForcePush {
			if err := e.runner.Push(e.remote, targetBranch); err != nil {
				return flowerr.AnalyzePushError(err.Error(), err)
			}
		}
	}
	return nil
}

// chooseDivergenceMethod picks how to reconcile a diverged branch. Under a
// policy with AutoMerge it returns MethodRebase without asking; otherwise it
// asks the host to confirm a rebase. Merge and force-with-lease are not
// offered: declining returns a DivergencePending error and leaves the commit
// local.
func (e *Engine) chooseDivergenceMethod() (divergence.Method, error) {
	if e.pol.AutoMerge {
		return divergence.MethodRebase, nil
	}
	ok, err := e.ui.Confirm("branch has diverged from remote; rebase onto it now? (declining leaves your commit local)")
	if err != nil {
		return 0, flowerr.Unexpected("confirm divergence resolution", err)
	}
	if !ok {
		return 0, flowerr.DivergencePending("branch diverged from remote; run `gitline pull` to reconcile, or push --force-with-lease manually")
	}
	return divergence.MethodRebase, nil
}

// returnAndMergeBack switches back to originalBranch and merges target into
// it, a best-effort step whose failure is a warning, not an error (the
// commit and push already succeeded).
func (e *Engine) returnAndMergeBack(originalBranch, target string) error {
	if err := e.runner.CheckoutBranch(originalBranch); err != nil {
		return err
	}
	return e.runner.MergeNoFF(target)
}
