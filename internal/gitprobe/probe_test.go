package gitprobe

import (
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/re-cinq/gitline/internal/gitexec"
)

func initRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	run := func(args ...string) {
		cmd := exec.Command("git", args...)
		cmd.Dir = dir
		if out, err := cmd.CombinedOutput(); err != nil {
			t.Fatalf("git %v: %v: %s", args, err, out)
		}
	}
	run("init", "-q")
	run("config", "user.email", "test@example.com")
	run("config", "user.name", "Test")
	run("commit", "--allow-empty", "-q", "-m", "initial")
	return dir
}

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := exec.Command("sh", "-c", "printf '%s' \""+content+"\" > \""+path+"\"").Run(); err != nil {
		t.Fatalf("write file: %v", err)
	}
}

func TestWorkingTree_Clean(t *testing.T) {
	dir := initRepo(t)
	p := New(gitexec.NewRunner(dir))

	state, err := p.WorkingTree()
	if err != nil {
		t.Fatalf("WorkingTree: %v", err)
	}
	if !state.Clean {
		t.Errorf("expected clean tree, got dirty with staged=%v unstaged=%v", state.StagedFiles, state.UnstagedFiles)
	}
}

func TestWorkingTree_Dirty(t *testing.T) {
	dir := initRepo(t)
	writeFile(t, dir, "a.txt", "hello")
	p := New(gitexec.NewRunner(dir))

	state, err := p.WorkingTree()
	if err != nil {
		t.Fatalf("WorkingTree: %v", err)
	}
	if state.Clean {
		t.Fatal("expected dirty tree")
	}
}

func TestBranches_CurrentAndMostRecent(t *testing.T) {
	dir := initRepo(t)
	r := gitexec.NewRunner(dir)
	if err := r.CreateAndCheckoutBranch("feature-1"); err != nil {
		t.Fatalf("create branch: %v", err)
	}
	if err := r.CheckoutBranch("master"); err != nil {
		// default branch name may be "main" depending on git config
		if err2 := r.CheckoutBranch("main"); err2 != nil {
			t.Fatalf("checkout default branch: %v / %v", err, err2)
		}
	}

	p := New(r)
	inv, err := p.Branches()
	if err != nil {
		t.Fatalf("Branches: %v", err)
	}
	if inv.Current == "" {
		t.Error("expected non-empty current branch")
	}
	if inv.MostRecent != "feature-1" {
		t.Errorf("expected most recent branch feature-1, got %q", inv.MostRecent)
	}
}

func TestDivergence_NoRemote(t *testing.T) {
	dir := initRepo(t)
	p := New(gitexec.NewRunner(dir))

	div, err := p.Divergence("origin", "main")
	if err != nil {
		t.Fatalf("Divergence: %v", err)
	}
	if div.HasRemote {
		t.Error("expected HasRemote=false with no configured remote")
	}
	if div.Ahead != 1 {
		t.Errorf("expected Ahead=1 when remote branch absent, got %d", div.Ahead)
	}
}
