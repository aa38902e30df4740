// Package acceptance_test drives the gitline binary against real throwaway
// git repositories, exercising the CLI end to end the way a maintainer
// would from a shell.
package acceptance_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var binaryPath string

func TestAcceptance(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "gitline Acceptance Suite")
}

var _ = BeforeSuite(func() {
	_, thisFile, _, _ := runtime.Caller(0)
	projectRoot := filepath.Join(filepath.Dir(thisFile), "..", "..")
	binaryPath = filepath.Join(projectRoot, "bin", "gitline-test")

	cmd := exec.Command("go", "build", "-o", binaryPath, "./cmd/gitline")
	cmd.Dir = projectRoot
	output, err := cmd.CombinedOutput()
	Expect(err).NotTo(HaveOccurred(), "failed to build gitline: %s", string(output))
})

// setupRemoteAndClone creates a bare remote and a clone with one commit on
// main, pushed upstream, mirroring the fixture every scenario starts from.
func setupRemoteAndClone(prefix string) (remoteDir, cloneDir string) {
	tmpDir, err := os.MkdirTemp("", prefix)
	ExpectWithOffset(1, err).NotTo(HaveOccurred())

	remoteDir = filepath.Join(tmpDir, "remote.git")
	cloneDir = filepath.Join(tmpDir, "clone")

	runGit(tmpDir, "init", "-q", "--bare", remoteDir)
	runGit(tmpDir, "clone", "-q", remoteDir, cloneDir)
	runGit(cloneDir, "checkout", "-q", "-B", "main")
	writeFile(filepath.Join(cloneDir, "README.md"), "hello\n")
	runGit(cloneDir, "add", "README.md")
	runGit(cloneDir, "commit", "-q", "-m", "initial commit")
	runGit(cloneDir, "push", "-q", "-u", "origin", "main")
	return remoteDir, cloneDir
}

func runGit(dir string, args ...string) {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	cmd.Env = append(os.Environ(),
		"GIT_AUTHOR_NAME=Test", "GIT_AUTHOR_EMAIL=test@example.com",
		"GIT_COMMITTER_NAME=Test", "GIT_COMMITTER_EMAIL=test@example.com",
	)
	out, err := cmd.CombinedOutput()
	ExpectWithOffset(1, err).NotTo(HaveOccurred(), "git %v: %s", args, string(out))
}

func runGitOutput(dir string, args ...string) string {
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	ExpectWithOffset(1, err).NotTo(HaveOccurred(), "git %v: %s", args, string(out))
	return string(out)
}

func runGitline(repoDir string, args ...string) (string, error) {
	fullArgs := append([]string{"--repo", repoDir, "--yes"}, args...)
	cmd := exec.Command(binaryPath, fullArgs...)
	cmd.Env = append(os.Environ(), "XDG_CONFIG_HOME="+filepath.Join(repoDir, ".."))
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func writeFile(path, content string) {
	ExpectWithOffset(1, os.MkdirAll(filepath.Dir(path), 0o755)).To(Succeed())
	ExpectWithOffset(1, os.WriteFile(path, []byte(content), 0o644)).To(Succeed())
}
