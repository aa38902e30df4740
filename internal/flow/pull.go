package flow

import (
	"context"
	"fmt"

	"github.com/re-cinq/gitline/internal/conflict"
	"github.com/re-cinq/gitline/internal/flowerr"
	"github.com/re-cinq/gitline/internal/hostui"
)

// PullLatest brings the current branch up to date: if the user isn't on
// their dev branch it switches there first (preserving uncommitted work),
// fetches, then pulls or merges in whatever is most recently active.
func (e *Engine) PullLatest(ctx context.Context) error {
	userBranch := e.UserBranch()

	branches, err := e.probe.Branches()
	if err != nil {
		return flowerr.Unexpected("probe branches", err)
	}

	p := e.newPlan("pull_latest")

	if branches.Current != userBranch {
		if !e.pol.AutoSwitchBranches {
			ok, err := e.ui.Confirm(fmt.Sprintf("switch from %s to %s before pulling?", branches.Current, userBranch))
			if err != nil {
				return flowerr.Unexpected("confirm branch switch", err)
			}
			if !ok {
				return flowerr.UserCancel("user declined branch switch")
			}
		}
		remoteExists, err := e.runner.RemoteBranchExists(e.remote, userBranch)
		if err != nil {
			return flowerr.Unexpected("check remote branch", err)
		}
		if err := e.queueBranchSwitch(p, userBranch, remoteExists); err != nil {
			return flowerr.Unexpected("queue branch switch", err)
		}
	}

	p.Add(cmdOperation("fetch all remotes", false, func() (string, error) {
		_, err := e.runner.Run("fetch", "--all", "--prune")
		return "", err
	}, []string{"git", "fetch", "--all", "--prune"}))

	if err := p.ExecuteWithConfirmation(); err != nil {
		return flowerr.GitCommandFailed("pull latest setup failed", err)
	}

	source := branches.MostRecent
	if source == "" {
		source = "main"
	}
	if source == userBranch {
		if err := e.runner.PullMerge(e.remote, userBranch); err != nil {
			return e.handlePullFailure(ctx, userBranch, userBranch, err)
		}
	} else {
		if err := e.runner.MergeNoFF(e.remote + "/" + source); err != nil {
			return e.handlePullFailure(ctx, userBranch, source, err)
		}
	}

	e.ui.Log(hostui.StyleSuccess, "pull latest complete")
	return nil
}

func (e *Engine) handlePullFailure(ctx context.Context, oursBranch, theirsBranch string, cause error) error {
	hasConflicts, err := e.conflicts.HasConflicts()
	if err != nil {
		return flowerr.Unexpected("check for conflicts after pull failure", err)
	}
	if !hasConflicts {
		return flowerr.GitCommandFailed("pull failed", cause)
	}
	strategy := conflict.StrategyInteractive
	if e.pol.AutoResolveConflicts {
		strategy = conflict.StrategyAutoOurs
	}
	if err := e.conflicts.Resolve(ctx, strategy, oursBranch, theirsBranch); err != nil {
		return flowerr.ConflictPending(err.Error())
	}
	e.ui.Log(hostui.StyleSuccess, "conflicts resolved, pull complete")
	return nil
}
