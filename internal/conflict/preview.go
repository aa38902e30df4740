package conflict

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/re-cinq/gitline/internal/hostui"
)

// parseState is the tiny state machine the design notes call for: a
// conflict-marked file is always in exactly one of three states while
// being scanned line by line.
type parseState int

const (
	stateOutside parseState = iota
	stateInOurs
	stateInTheirs
)

const contextLineBudget = 3

// Preview is a rendered view of one conflicted file's marker regions,
// ready to hand to a HostUI or print to a terminal.
type Preview struct {
	FilePath string
	Regions  []hostui.ConflictRegion
}

// Preview reads the working-tree copy of path and splits it into
// conflict regions by scanning for <<<<<<< / ======= / >>>>>>> markers.
func (r *Resolver) Preview(path string) (Preview, error) {
	abs := filepath.Join(repoRootOf(r), path)
	f, err := os.Open(abs)
	if err != nil {
		return Preview{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var (
		regions []hostui.ConflictRegion
		state   = stateOutside
		region  hostui.ConflictRegion
		ours    []string
		theirs  []string
		before  []string
		lineNum int
	)

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		switch {
		case strings.HasPrefix(line, "<<<<<<<"):
			state = stateInOurs
			region = hostui.ConflictRegion{StartLine: lineNum}
			start := len(before) - contextLineBudget
			if start < 0 {
				start = 0
			}
			region.Context = strings.Join(before[start:], "\n")
			ours, theirs = nil, nil

		case strings.HasPrefix(line, "=======") && state == stateInOurs:
			state = stateInTheirs

		case strings.HasPrefix(line, ">>>>>>>") && state == stateInTheirs:
			region.EndLine = lineNum
			region.OursText = strings.Join(ours, "\n")
			region.TheirsText = strings.Join(theirs, "\n")
			regions = append(regions, region)
			state = stateOutside
			before = nil

		case state == stateInOurs:
			ours = append(ours, line)

		case state == stateInTheirs:
			theirs = append(theirs, line)

		default: // stateOutside
			before = append(before, line)
			if len(before) > 10 {
				before = before[1:]
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return Preview{}, fmt.Errorf("scan %s: %w", path, err)
	}

	return Preview{FilePath: path, Regions: regions}, nil
}

// repoRootOf resolves the repository root for reading working-tree files by
// asking git (`git rev-parse --show-toplevel`) on each call rather than
// using Runner.RepoPath(), falling back to "." when that command fails.
func repoRootOf(r *Resolver) string {
	root, err := r.runner.Run("rev-parse", "--show-toplevel")
	if err != nil {
		return "."
	}
	return root
}
