package semver

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExtractBumpLevel(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    BumpLevel
	}{
		{"feat is minor", "feat: add widget", LevelMinor},
		{"fix is patch", "fix: correct off-by-one", LevelPatch},
		{"chore is patch", "chore: bump deps", LevelPatch},
		{"breaking bang is major", "feat!: drop legacy API", LevelMajor},
		{"breaking change footer is major", "fix: patch\n\nBREAKING CHANGE: removes flag", LevelMajor},
		{"unscoped unknown type is none", "wip: still working", LevelNone},
		{"scoped feat is minor", "feat(api): add endpoint", LevelMinor},
		{"empty message is none", "", LevelNone},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExtractBumpLevel(tt.message, ""); got != tt.want {
				t.Errorf("ExtractBumpLevel(%q) = %v, want %v", tt.message, got, tt.want)
			}
		})
	}
}

func TestBump(t *testing.T) {
	tests := []struct {
		current string
		level   BumpLevel
		want    string
	}{
		{"1.2.3", LevelPatch, "1.2.4"},
		{"1.2.3", LevelMinor, "1.3.0"},
		{"1.2.3", LevelMajor, "2.0.0"},
		{"not-a-version", LevelPatch, "not-a-version"},
	}
	for _, tt := range tests {
		if got := Bump(tt.current, tt.level); got != tt.want {
			t.Errorf("Bump(%q, %v) = %q, want %q", tt.current, tt.level, got, tt.want)
		}
	}
}

func TestApplyBump_RewritesAssignment(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.py")
	if err := os.WriteFile(file, []byte("APP_VERSION = \"1.0.0\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	newVersion, err := ApplyBump(dir, "feat: add new thing", "")
	if err != nil {
		t.Fatalf("ApplyBump: %v", err)
	}
	if newVersion != "1.1.0" {
		t.Fatalf("expected bumped version 1.1.0, got %q", newVersion)
	}

	content, _ := os.ReadFile(file)
	if string(content) != "APP_VERSION = \"1.1.0\"\n" {
		t.Errorf("unexpected file content: %q", content)
	}
}

func TestApplyBump_SkipsCommentedAssignment(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.py")
	os.WriteFile(file, []byte("# APP_VERSION = \"1.0.0\"\n"), 0o644)

	newVersion, err := ApplyBump(dir, "feat: add new thing", "")
	if err != nil {
		t.Fatalf("ApplyBump: %v", err)
	}
	if newVersion != "" {
		t.Errorf("expected no bump for commented assignment, got %q", newVersion)
	}
}

func TestApplyBump_NoBumpForUnrecognizedType(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "config.py")
	os.WriteFile(file, []byte("APP_VERSION = \"1.0.0\"\n"), 0o644)

	newVersion, err := ApplyBump(dir, "wip: exploring", "")
	if err != nil {
		t.Fatalf("ApplyBump: %v", err)
	}
	if newVersion != "" {
		t.Errorf("expected no bump, got %q", newVersion)
	}
}
