// Package gitprobe assembles read-only domain views of a repository's
// state (working tree, branch inventory, divergence against a remote,
// conflict files) on top of a gitexec.Runner. It never mutates the repo.
package gitprobe

import (
	"fmt"

	"github.com/re-cinq/gitline/internal/gitexec"
)

// WorkingTreeState describes whether the tree is clean and what is staged
// versus unstaged, mirroring spec data model §3.
type WorkingTreeState struct {
	Clean         bool
	StagedFiles   []string
	UnstagedFiles []string
	UntrackedOnly bool
}

// BranchInventory lists the branches relevant to planning an operation.
type BranchInventory struct {
	Current           string
	MostRecent        string
	ProtectedBranches []string
}

// Divergence reports how a local branch relates to its upstream.
type Divergence struct {
	Ahead      int
	Behind     int
	Diverged   bool
	HasRemote  bool
	LocalLog   []gitexec.CommitSummary
	RemoteLog  []gitexec.CommitSummary
}

// ConflictFile describes one unmerged path during a merge or rebase.
type ConflictFile struct {
	Path          string
	OursExists    bool
	TheirsExists  bool
	ModifyDelete  bool
}

// Probe wraps a gitexec.Runner to answer read-only questions about repo state.
type Probe struct {
	runner gitexec.Runner
}

// New creates a Probe over the given runner.
func New(runner gitexec.Runner) *Probe {
	return &Probe{runner: runner}
}

// WorkingTree reports the current staged/unstaged file split from
// `git status --porcelain`'s two status columns.
func (p *Probe) WorkingTree() (WorkingTreeState, error) {
	out, err := p.runner.Status()
	if err != nil {
		return WorkingTreeState{}, fmt.Errorf("probe working tree: %w", err)
	}
	state := WorkingTreeState{Clean: out == ""}
	if out == "" {
		return state, nil
	}
	untrackedOnly := true
	for _, line := range splitLines(out) {
		if len(line) < 3 {
			continue
		}
		indexStatus, worktreeStatus, path := line[0], line[1], line[3:]
		if indexStatus != ' ' && indexStatus != '?' {
			state.StagedFiles = append(state.StagedFiles, path)
			untrackedOnly = false
		}
		if worktreeStatus != ' ' && worktreeStatus != '?' {
			state.UnstagedFiles = append(state.UnstagedFiles, path)
			untrackedOnly = false
		}
		if indexStatus == '?' && worktreeStatus == '?' {
			continue
		}
	}
	state.UntrackedOnly = untrackedOnly
	return state, nil
}

// Branches reports the current branch and the most recently active one.
func (p *Probe) Branches() (BranchInventory, error) {
	current, err := p.runner.CurrentBranch()
	if err != nil {
		return BranchInventory{}, fmt.Errorf("probe current branch: %w", err)
	}
	recent, err := p.runner.MostRecentBranch()
	if err != nil {
		return BranchInventory{}, fmt.Errorf("probe most recent branch: %w", err)
	}
	return BranchInventory{Current: current, MostRecent: recent}, nil
}

// Divergence reports how branch compares against remote/branch, fetching
// first so the comparison reflects the remote's latest state. Matches the
// semantics of the original check_branch_divergence: ahead-and-behind means
// diverged; a missing remote branch means "ahead by at least the tip commit".
func (p *Probe) Divergence(remote, branch string) (Divergence, error) {
	_ = p.runner.Fetch(remote, branch) // best-effort; absence of a remote is not fatal

	exists, err := p.runner.RemoteBranchExists(remote, branch)
	if err != nil {
		return Divergence{}, fmt.Errorf("probe divergence: %w", err)
	}
	if !exists {
		return Divergence{Ahead: 1, HasRemote: false}, nil
	}

	ahead, err := p.runner.RevListCount(remote + "/" + branch + "..HEAD")
	if err != nil {
		return Divergence{}, fmt.Errorf("probe ahead count: %w", err)
	}
	behind, err := p.runner.RevListCount("HEAD.." + remote + "/" + branch)
	if err != nil {
		return Divergence{}, fmt.Errorf("probe behind count: %w", err)
	}

	d := Divergence{Ahead: ahead, Behind: behind, HasRemote: true, Diverged: ahead > 0 && behind > 0}
	if d.Diverged {
		d.LocalLog, err = p.runner.LogOneline(remote + "/" + branch + "..HEAD")
		if err != nil {
			return Divergence{}, fmt.Errorf("probe local log: %w", err)
		}
		d.RemoteLog, err = p.runner.LogOneline("HEAD.." + remote + "/" + branch)
		if err != nil {
			return Divergence{}, fmt.Errorf("probe remote log: %w", err)
		}
	}
	return d, nil
}

// ConflictFiles lists every unmerged path along with stage-presence info
// needed to choose between content vs modify/delete resolution.
func (p *Probe) ConflictFiles() ([]ConflictFile, error) {
	paths, err := p.runner.ConflictedFiles()
	if err != nil {
		return nil, fmt.Errorf("probe conflict files: %w", err)
	}
	files := make([]ConflictFile, 0, len(paths))
	for _, path := range paths {
		stages, err := p.runner.UnmergedStages(path)
		if err != nil {
			return nil, fmt.Errorf("probe unmerged stages for %s: %w", path, err)
		}
		cf := ConflictFile{Path: path}
		for _, s := range stages {
			if s == 2 {
				cf.OursExists = true
			}
			if s == 3 {
				cf.TheirsExists = true
			}
		}
		cf.ModifyDelete = cf.OursExists != cf.TheirsExists
		files = append(files, cf)
	}
	return files, nil
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	if start < len(s) {
		lines = append(lines, s[start:])
	}
	return lines
}
