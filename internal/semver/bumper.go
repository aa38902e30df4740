// Package semver implements gitline's VersionBumper: given a conventional
// commit message, it locates the package's version assignment in the
// source tree and rewrites it in place according to semantic-versioning
// rules (feat -> minor, fix/chore/... -> patch, breaking change -> major).
package semver

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	mastersemver "github.com/Masterminds/semver/v3"
	ignore "github.com/sabhiram/go-gitignore"
)

// BumpLevel is the semver component a conventional commit implies should be
// incremented, or LevelNone when the commit carries no version-affecting
// semantics.
type BumpLevel int

const (
	LevelNone BumpLevel = iota
	LevelPatch
	LevelMinor
	LevelMajor
)

var headerPattern = regexp.MustCompile(`^[^\w]*(?P<type>[a-zA-Z]+)(?:\([^)]*\))?(?P<breaking>!?):`)

var patchTypes = map[string]bool{
	"fix": true, "perf": true, "docs": true, "style": true,
	"refactor": true, "test": true, "build": true, "ci": true, "chore": true,
}

// ExtractBumpLevel parses a commit message for conventional-commit metadata
// and returns the semver bump it implies. explicitType overrides the parsed
// type when the caller already knows it (e.g. from a CLI flag).
func ExtractBumpLevel(commitMessage string, explicitType string) BumpLevel {
	commitType := strings.ToLower(explicitType)
	breaking := false

	message := strings.TrimSpace(commitMessage)
	if message != "" {
		firstLine := strings.SplitN(message, "\n", 2)[0]
		if m := headerPattern.FindStringSubmatch(strings.TrimSpace(firstLine)); m != nil {
			if commitType == "" || commitType == "custom" {
				commitType = strings.ToLower(m[headerPattern.SubexpIndex("type")])
			}
			if m[headerPattern.SubexpIndex("breaking")] == "!" {
				breaking = true
			}
		}
		if !breaking && strings.Contains(strings.ToUpper(message), "BREAKING CHANGE") {
			breaking = true
		}
	}

	if breaking {
		return LevelMajor
	}
	if commitType == "" {
		return LevelNone
	}
	if commitType == "feat" {
		return LevelMinor
	}
	if patchTypes[commitType] {
		return LevelPatch
	}
	return LevelNone
}

// Bump applies level to current, returning the new semantic version string.
// An unparseable current version is returned unchanged.
func Bump(current string, level BumpLevel) string {
	v, err := mastersemver.NewVersion(current)
	if err != nil {
		return current
	}
	switch level {
	case LevelMajor:
		bumped := v.IncMajor()
		return bumped.String()
	case LevelMinor:
		bumped := v.IncMinor()
		return bumped.String()
	case LevelPatch:
		bumped := v.IncPatch()
		return bumped.String()
	default:
		return current
	}
}

var assignmentPattern = regexp.MustCompile(`(APP_VERSION\s*=\s*)(["'])(\d+\.\d+\.\d+)(["'])`)

var defaultSkipDirs = []string{
	".git/", "node_modules/", "vendor/", ".venv/", "venv/", "env/",
	"build/", "dist/", ".idea/", ".vscode/", "__pycache__/",
}

var allowedExtensions = map[string]bool{
	"": true, ".go": true, ".py": true, ".cfg": true, ".conf": true,
	".ini": true, ".json": true, ".toml": true, ".yaml": true, ".yml": true,
	".txt": true, ".sh": true, ".bash": true, ".zsh": true,
}

const maxScannedFileSize = 1_000_000

// versionEntry locates a single APP_VERSION assignment occurrence.
type versionEntry struct {
	path    string
	content string
	match   []int // regexp.FindStringSubmatchIndex result
}

// LocateAppVersion walks repoPath looking for a bare "APP_VERSION = "x.y.z""
// assignment in a source or config file, skipping build artifacts and
// vendored trees via a compiled gitignore-style matcher (the same library
// and matching semantics used elsewhere in the retrieval pack for bulk
// path filtering). It ignores occurrences inside comments or string
// concatenations, matching the conservative heuristic of the distilled tool.
func LocateAppVersion(repoPath string) (string, string, []int, error) {
	skip := ignore.CompileIgnoreLines(defaultSkipDirs...)

	var found *versionEntry
	walkErr := filepath.Walk(repoPath, func(path string, info os.FileInfo, err error) error {
		if err != nil || found != nil {
			return nil
		}
		rel, relErr := filepath.Rel(repoPath, path)
		if relErr != nil {
			return nil
		}
		if info.IsDir() {
			if rel != "." && skip.MatchesPath(rel+"/") {
				return filepath.SkipDir
			}
			return nil
		}
		if skip.MatchesPath(rel) {
			return nil
		}
		if !allowedExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}
		if info.Size() > maxScannedFileSize {
			return nil
		}

		content, readErr := os.ReadFile(path)
		if readErr != nil {
			return nil
		}
		text := string(content)

		for _, loc := range assignmentPattern.FindAllStringSubmatchIndex(text, -1) {
			lineStart := strings.LastIndexByte(text[:loc[0]], '\n') + 1
			prefix := strings.TrimSpace(text[lineStart:loc[0]])
			if strings.HasPrefix(prefix, "#") || strings.HasPrefix(prefix, "//") ||
				strings.HasPrefix(prefix, ";") || strings.HasPrefix(prefix, "/*") {
				continue
			}
			trimmedPrefix := strings.TrimRight(text[lineStart:loc[0]], " \t")
			if trimmedPrefix != "" {
				last := trimmedPrefix[len(trimmedPrefix)-1]
				if last == '\'' || last == '"' {
					continue
				}
			}
			found = &versionEntry{path: path, content: text, match: loc}
			return filepath.SkipAll
		}
		return nil
	})
	if walkErr != nil && walkErr != filepath.SkipAll {
		return "", "", nil, fmt.Errorf("walk %s: %w", repoPath, walkErr)
	}
	if found == nil {
		return "", "", nil, nil
	}
	return found.path, found.content, found.match, nil
}

// ApplyBump locates the APP_VERSION assignment under repoPath and rewrites
// it according to the bump implied by commitMessage. It returns the new
// version string, or "" if no bump was warranted or no assignment was found.
func ApplyBump(repoPath, commitMessage, explicitType string) (string, error) {
	level := ExtractBumpLevel(commitMessage, explicitType)
	if level == LevelNone {
		return "", nil
	}

	path, content, match, err := LocateAppVersion(repoPath)
	if err != nil {
		return "", err
	}
	if path == "" {
		return "", nil
	}

	// match indices: [fullStart,fullEnd, g1s,g1e, g2s,g2e, g3s,g3e, g4s,g4e]
	assignPrefix := content[match[2]:match[3]]
	quoteOpen := content[match[4]:match[5]]
	currentVersion := content[match[6]:match[7]]
	quoteClose := content[match[8]:match[9]]

	newVersion := Bump(currentVersion, level)
	if newVersion == currentVersion {
		return "", nil
	}

	newAssignment := assignPrefix + quoteOpen + newVersion + quoteClose
	updated := content[:match[0]] + newAssignment + content[match[1]:]

	if err := os.WriteFile(path, []byte(updated), 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return newVersion, nil
}
