package flow

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"github.com/re-cinq/gitline/internal/flowerr"
	"github.com/re-cinq/gitline/internal/forge"
	"github.com/re-cinq/gitline/internal/hostui"
)

// RepoType names one of the four package build surfaces a dispatch can target.
type RepoType string

const (
	RepoTesting RepoType = "testing"
	RepoStable  RepoType = "stable"
	RepoExtra   RepoType = "extra"
	RepoAUR     RepoType = "aur"
)

var pkgnamePattern = regexp.MustCompile(`pkgname\s*=\s*['"]?([^'"\n]+)`)

// CommitAndGeneratePackage commits outstanding work (if any), lands it on
// the branch appropriate to repoType, and dispatches a build to the forge.
func (e *Engine) CommitAndGeneratePackage(ctx context.Context, repoPath string, repoType RepoType, commitMessage string, tmateEnabled bool) error {
	if repoType == RepoAUR {
		return fmt.Errorf("use AURBuild for repoType=aur")
	}

	if err := e.cleanupInterruptedOperation(); err != nil {
		return err
	}
	if err := e.ensureDevBranchExists(); err != nil {
		return flowerr.GitCommandFailed("ensure dev branch", err)
	}
	if err := e.runner.Fetch(e.remote, ""); err != nil {
		e.ui.Log(hostui.StyleWarn, "fetch failed, continuing with local state: "+err.Error())
	}

	workingBranch, usedMain, err := e.determineWorkingBranch(repoType)
	if err != nil {
		return err
	}

	if commitMessage != "" {
		target := TargetUserBranch
		if usedMain {
			target = TargetMain
		}
		if err := e.CommitAndPush(ctx, commitMessage, target); err != nil {
			return err
		}
	}

	pkgName, err := extractPackageName(repoPath)
	if err != nil {
		return flowerr.PreconditionFailed(err.Error())
	}

	e.bumpVersionIfEnabled(repoPath, commitMessage)

	workflowBranch, warning := e.computeWorkflowBranch(repoType, workingBranch, usedMain)
	if warning != "" {
		e.ui.Log(hostui.StyleWarn, warning)
	}

	client, err := e.resolveForgeClient()
	if err != nil {
		return flowerr.AuthError(err.Error())
	}

	payload := forge.DispatchPayload{
		PackageName: pkgName,
		Branch:      workflowBranch,
		BranchType:  string(repoType),
		BuildEnv:    "normal",
		RepoURL:     "https://github.com/" + e.repoSlug,
		Tmate:       tmateEnabled,
	}
	if repoType == RepoTesting && workingBranch != workflowBranch {
		payload.NewBranch = workingBranch
	}
	if err := client.TriggerWorkflow(ctx, e.repoSlug, "package-build", payload); err != nil {
		return flowerr.NetworkError("dispatch build workflow", err)
	}

	e.ui.Log(hostui.StyleSuccess, fmt.Sprintf("build dispatched for %s on %s", pkgName, workflowBranch))
	return nil
}

// cleanupInterruptedOperation recovers from a merge left in progress or
// stray conflict markers from a prior run, restoring a clean working tree.
func (e *Engine) cleanupInterruptedOperation() error {
	hasConflicts, err := e.conflicts.HasConflicts()
	if err != nil {
		return flowerr.Unexpected("check for interrupted merge", err)
	}
	if !hasConflicts {
		return nil
	}
	if e.pol.ConfirmDestructive {
		ok, err := e.ui.Confirm("a previous operation left conflicts in progress; abort and reset to a clean state?")
		if err != nil {
			return flowerr.Unexpected("confirm cleanup", err)
		}
		if !ok {
			return flowerr.UserCancel("user declined to clean up interrupted operation")
		}
	}

	_ = e.runner.MergeAbort()
	stashed, err := e.stashIfDirty()
	if err != nil {
		return flowerr.Unexpected("stash survivors before reset", err)
	}
	if err := e.runner.Reset("HEAD"); err != nil {
		return flowerr.GitCommandFailed("reset to HEAD failed", err)
	}
	if _, err := e.runner.Run("reset", "--hard", "HEAD"); err != nil {
		return flowerr.GitCommandFailed("hard reset failed", err)
	}
	if stashed {
		if err := e.runner.StashPop(); err != nil {
			return flowerr.GitCommandFailed("restore stash after cleanup failed", err)
		}
	}
	return nil
}

// ensureDevBranchExists bootstraps the shared "dev" branch from main when
// neither a local nor a remote copy exists yet.
func (e *Engine) ensureDevBranchExists() error {
	localExists, err := e.runner.BranchExists("dev")
	if err != nil {
		return err
	}
	if localExists {
		return nil
	}
	remoteExists, err := e.runner.RemoteBranchExists(e.remote, "dev")
	if err != nil {
		return err
	}
	if remoteExists {
		_, err := e.runner.Run("checkout", "-b", "dev", e.remote+"/dev")
		return err
	}

	current, err := e.runner.CurrentBranch()
	if err != nil {
		return err
	}
	if err := e.runner.CheckoutBranch("main"); err != nil {
		return err
	}
	if err := e.runner.CreateAndCheckoutBranch("dev"); err != nil {
		return err
	}
	if err := e.runner.PushSetUpstream(e.remote, "dev"); err != nil {
		return err
	}
	return e.runner.CheckoutBranch(current)
}

// determineWorkingBranch resolves which branch the package build commits
// land on, and whether that branch is main.
func (e *Engine) determineWorkingBranch(repoType RepoType) (branch string, usedMain bool, err error) {
	if repoType == RepoTesting {
		return e.UserBranch(), false, nil
	}

	branches, err := e.probe.Branches()
	if err != nil {
		return "", false, flowerr.Unexpected("probe branches", err)
	}
	source := branches.MostRecent

	if err := e.runner.CheckoutBranch("main"); err != nil {
		return "", false, flowerr.GitCommandFailed("checkout main", err)
	}

	mergeErr := e.runner.Merge(source)
	if mergeErr == nil {
		return "main", true, nil
	}
	_ = e.runner.MergeAbort()

	if _, err := e.runner.Run("merge", "-Xtheirs", source); err == nil {
		return "main", true, nil
	}
	_ = e.runner.MergeAbort()

	if e.pol.ConfirmDestructive {
		ok, confirmErr := e.ui.Confirm(fmt.Sprintf("merge strategies failed; reset main to match %s? (destructive, discards main-only commits)", source))
		if confirmErr != nil {
			return "", false, flowerr.Unexpected("confirm hard reset", confirmErr)
		}
		if !ok {
			return "", false, flowerr.UserCancel("user declined destructive reset of main")
		}
	}
	if _, err := e.runner.Run("reset", "--hard", source); err != nil {
		return "", false, flowerr.GitCommandFailed("reset main to source branch failed", err)
	}
	return "main", true, nil
}

// computeWorkflowBranch implements invariant I5.
func (e *Engine) computeWorkflowBranch(repoType RepoType, workingBranch string, usedMain bool) (string, string) {
	if repoType == RepoTesting {
		return workingBranch, ""
	}
	if usedMain {
		return "main", ""
	}
	return workingBranch, fmt.Sprintf("main does not contain the latest source commit; dispatching from %s instead", workingBranch)
}

// extractPackageName reads PKGBUILD under repoPath and extracts pkgname.
func extractPackageName(repoPath string) (string, error) {
	path := filepath.Join(repoPath, "PKGBUILD")
	content, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("locate PKGBUILD: %w", err)
	}
	m := pkgnamePattern.FindSubmatch(content)
	if m == nil {
		return "", fmt.Errorf("could not find pkgname in %s", path)
	}
	return string(m[1]), nil
}
