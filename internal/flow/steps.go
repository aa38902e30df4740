package flow

import (
	"fmt"

	"github.com/re-cinq/gitline/internal/plan"
)

// noopOperation builds a plan.Operation whose preview has no argv commands
// (it runs a callback), used for steps whose "command" is a forge call or a
// composite git operation spelled out in Go rather than a single argv line.
func noopOperation(description string, destructive bool, run plan.Step) *plan.Operation {
	return plan.NewOperation(description, destructive, run)
}

func cmdOperation(description string, destructive bool, run plan.Step, commands ...[]string) *plan.Operation {
	return plan.NewOperation(description, destructive, run, commands...)
}

// queueBranchSwitch appends stash -> checkout(target) -> sync with remote ->
// pop to p, in that exact order (invariant I3), stashing only when the tree
// is actually dirty and syncing only when target has a remote counterpart to
// sync against. remoteExists controls whether the checkout creates target
// from its remote counterpart or from the current HEAD.
func (e *Engine) queueBranchSwitch(p *plan.Plan, target string, remoteExists bool) error {
	tree, err := e.probe.WorkingTree()
	if err != nil {
		return fmt.Errorf("probe working tree before switch: %w", err)
	}
	needsStash := !tree.Clean
	stashed := false

	if needsStash {
		p.Add(cmdOperation("stash uncommitted work", false, func() (string, error) {
			created, err := e.runner.StashPush("gitline: preserving work before switching to " + target)
			stashed = created
			return "", err
		}, []string{"git", "stash", "push", "-m", "gitline"}))
	}

	exists, err := e.runner.BranchExists(target)
	if err != nil {
		return fmt.Errorf("check local branch %s: %w", target, err)
	}
	switch {
	case exists:
		p.Add(cmdOperation("checkout "+target, false, func() (string, error) {
			return "", e.runner.CheckoutBranch(target)
		}, []string{"git", "checkout", target}))
	case remoteExists:
		p.Add(cmdOperation("create "+target+" from "+e.remote+"/"+target, false, func() (string, error) {
			_, err := e.runner.Run("checkout", "-b", target, e.remote+"/"+target)
			return "", err
		}, []string{"git", "checkout", "-b", target, e.remote + "/" + target}))
	default:
		p.Add(cmdOperation("create "+target+" from current HEAD", false, func() (string, error) {
			return "", e.runner.CreateAndCheckoutBranch(target)
		}, []string{"git", "checkout", "-b", target}))
	}

	if remoteExists {
		p.Add(cmdOperation("pull --rebase for "+target, false, func() (string, error) {
			_, err := e.runner.Run("pull", "--rebase", e.remote, target)
			return "", err
		}, []string{"git", "pull", "--rebase", e.remote, target}))
	}

	if needsStash {
		p.Add(cmdOperation("restore stashed work", false, func() (string, error) {
			if !stashed {
				return "", nil
			}
			return "", e.runner.StashPop()
		}, []string{"git", "stash", "pop"}))
	}
	return nil
}
