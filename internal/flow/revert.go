package flow

import (
	"fmt"

	"github.com/re-cinq/gitline/internal/flowerr"
	"github.com/re-cinq/gitline/internal/hostui"
)

// RevertMethod names one of the two ways to undo a commit.
type RevertMethod int

const (
	MethodRevert RevertMethod = iota
	MethodReset
)

// RevertCommit returns the current branch to the state of sha using method,
// restricted to the user's own branch or main (main only permits
// MethodRevert). MethodRevert checks out sha's file contents and records them
// as a new commit (files added after sha are not removed); MethodReset
// hard-resets to sha. Either method pushes (MethodReset with --force) only
// when sha is already on a remote branch.
func (e *Engine) RevertCommit(sha string, method RevertMethod) (err error) {
	branches, err := e.probe.Branches()
	if err != nil {
		return flowerr.Unexpected("probe branches", err)
	}
	current := branches.Current
	if current != e.UserBranch() && current != "main" {
		return flowerr.PreconditionFailed("revert is restricted to your dev branch or main, not " + current)
	}
	if current == "main" && method != MethodRevert {
		return flowerr.PreconditionFailed("only the non-destructive revert method is allowed on main")
	}

	defer func() {
		if err != nil {
			_, _ = e.runner.Run("revert", "--abort")
			_ = e.runner.Reset("HEAD")
		}
	}()

	summaries, logErr := e.runner.LogOneline(sha + "~1.." + sha)
	subject := sha
	if logErr == nil && len(summaries) > 0 {
		subject = summaries[0].Subject
	}

	onRemote, remoteErr := e.commitExistsOnRemote(sha)
	if remoteErr != nil {
		e.ui.Log(hostui.StyleWarn, "could not determine remote presence of commit: "+remoteErr.Error())
	}

	switch method {
	case MethodRevert:
		if _, err := e.runner.Run("checkout", sha, "--", "."); err != nil {
			return flowerr.GitCommandFailed("checkout commit contents failed", err)
		}
		if err := e.runner.Add("-A"); err != nil {
			return flowerr.GitCommandFailed("stage reverted contents failed", err)
		}
		message := fmt.Sprintf("Revert %q", subject)
		if err := e.runner.Commit(message); err != nil {
			return flowerr.GitCommandFailed("commit revert failed", err)
		}
		if onRemote {
			if err := e.runner.Push(e.remote, current); err != nil {
				return flowerr.AnalyzePushError(err.Error(), err)
			}
		}
	case MethodReset:
		if onRemote && e.pol.ConfirmDestructive {
			ok, confirmErr := e.ui.Confirm("this commit exists on the remote; force-push after reset?")
			if confirmErr != nil {
				return flowerr.Unexpected("confirm force push", confirmErr)
			}
			if !ok {
				return flowerr.UserCancel("user declined force push after reset")
			}
		}
		if _, err := e.runner.Run("reset", "--hard", sha); err != nil {
			return flowerr.GitCommandFailed("reset --hard failed", err)
		}
		if onRemote {
			if _, err := e.runner.Run("push", "--force", e.remote, current); err != nil {
				return flowerr.AnalyzePushError(err.Error(), err)
			}
		}
	default:
		return flowerr.PreconditionFailed("unknown revert method")
	}

	e.ui.Log(hostui.StyleSuccess, "revert complete")
	return nil
}

// commitExistsOnRemote reports whether sha is reachable from any remote
// tracking branch, i.e. it has already been pushed somewhere.
func (e *Engine) commitExistsOnRemote(sha string) (bool, error) {
	out, err := e.runner.Run("branch", "-r", "--contains", sha)
	if err != nil {
		return false, nil
	}
	return out != "", nil
}
