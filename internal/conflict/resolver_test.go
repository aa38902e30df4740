package conflict

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/re-cinq/gitline/internal/gitexec"
	"github.com/re-cinq/gitline/internal/hostui"
)

func mustRun(t *testing.T, dir string, args ...string) {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	if out, err := cmd.CombinedOutput(); err != nil {
		t.Fatalf("git %v: %v: %s", args, err, out)
	}
}

// repoWithConflict builds a two-branch repo where both branches edit the
// same line of the same file, then attempts a merge so the working tree is
// left with real conflict markers.
func repoWithConflict(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	mustRun(t, dir, "init", "-q")
	mustRun(t, dir, "config", "user.email", "test@example.com")
	mustRun(t, dir, "config", "user.name", "Test")

	path := filepath.Join(dir, "file.txt")
	os.WriteFile(path, []byte("base\n"), 0o644)
	mustRun(t, dir, "add", "file.txt")
	mustRun(t, dir, "commit", "-q", "-m", "base")
	mustRun(t, dir, "branch", "theirs")

	os.WriteFile(path, []byte("ours change\n"), 0o644)
	mustRun(t, dir, "commit", "-q", "-am", "ours")

	mustRun(t, dir, "checkout", "-q", "theirs")
	os.WriteFile(path, []byte("theirs change\n"), 0o644)
	mustRun(t, dir, "commit", "-q", "-am", "theirs")

	mustRun(t, dir, "checkout", "-q", "master")
	_ = exec.Command("git", "-C", dir, "merge", "theirs").Run() // expected to conflict

	return dir
}

func TestResolver_AutoOurs(t *testing.T) {
	dir := repoWithConflict(t)
	runner := gitexec.NewRunner(dir)
	r := New(runner, hostui.New())

	has, err := r.HasConflicts()
	if err != nil || !has {
		t.Fatalf("expected conflict, has=%v err=%v", has, err)
	}

	if err := r.Resolve(context.Background(), StrategyAutoOurs, "master", "theirs"); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	content, _ := os.ReadFile(filepath.Join(dir, "file.txt"))
	if string(content) != "ours change\n" {
		t.Errorf("expected ours content kept, got %q", content)
	}
}

func TestResolver_AutoTheirs(t *testing.T) {
	dir := repoWithConflict(t)
	runner := gitexec.NewRunner(dir)
	r := New(runner, hostui.New())

	if err := r.Resolve(context.Background(), StrategyAutoTheirs, "master", "theirs"); err != nil {
		t.Fatalf("Resolve: %v", err)
	}

	content, _ := os.ReadFile(filepath.Join(dir, "file.txt"))
	if string(content) != "theirs change\n" {
		t.Errorf("expected theirs content kept, got %q", content)
	}
}

func TestResolver_Manual_LeavesMarkers(t *testing.T) {
	dir := repoWithConflict(t)
	runner := gitexec.NewRunner(dir)
	r := New(runner, hostui.New())

	if err := r.Resolve(context.Background(), StrategyManual, "master", "theirs"); err == nil {
		t.Fatal("expected manual resolution to report pending work")
	}

	content, _ := os.ReadFile(filepath.Join(dir, "file.txt"))
	if !contains(string(content), "<<<<<<<") {
		t.Errorf("expected conflict markers to remain, got %q", content)
	}
}

func TestPreview_ParsesRegions(t *testing.T) {
	dir := repoWithConflict(t)
	runner := gitexec.NewRunner(dir)
	r := New(runner, hostui.New())

	preview, err := r.Preview("file.txt")
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if len(preview.Regions) != 1 {
		t.Fatalf("expected 1 conflict region, got %d", len(preview.Regions))
	}
	region := preview.Regions[0]
	if !contains(region.OursText, "ours change") {
		t.Errorf("expected ours text to contain 'ours change', got %q", region.OursText)
	}
	if !contains(region.TheirsText, "theirs change") {
		t.Errorf("expected theirs text to contain 'theirs change', got %q", region.TheirsText)
	}
}

func contains(haystack, needle string) bool {
	return len(haystack) >= len(needle) && (needle == "" || indexOf(haystack, needle) >= 0)
}

func indexOf(haystack, needle string) int {
	for i := 0; i+len(needle) <= len(haystack); i++ {
		if haystack[i:i+len(needle)] == needle {
			return i
		}
	}
	return -1
}
