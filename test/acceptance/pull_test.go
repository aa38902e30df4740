package acceptance_test

import (
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("gitline pull", func() {
	var remoteDir, cloneDir string

	BeforeEach(func() {
		remoteDir, cloneDir = setupRemoteAndClone("gitline-pull-*")
	})

	AfterEach(func() {
		os.RemoveAll(filepath.Dir(cloneDir))
	})

	It("fetches and switches onto the dev branch, creating it from main", func() {
		output, err := runGitline(cloneDir, "pull")
		Expect(err).NotTo(HaveOccurred(), "output: %s", output)

		current := strings.TrimSpace(runGitOutput(cloneDir, "rev-parse", "--abbrev-ref", "HEAD"))
		Expect(current).To(HavePrefix("dev-"))
	})

	It("merges new remote commits onto the existing dev branch", func() {
		_, _ = runGitline(cloneDir, "pull")

		secondClone := filepath.Join(filepath.Dir(cloneDir), "second-clone")
		runGit(filepath.Dir(cloneDir), "clone", "-q", remoteDir, secondClone)
		writeFile(filepath.Join(secondClone, "upstream.txt"), "new upstream work\n")
		runGit(secondClone, "add", "upstream.txt")
		runGit(secondClone, "commit", "-q", "-m", "chore: upstream change")
		runGit(secondClone, "push", "-q")

		output, err := runGitline(cloneDir, "pull")
		Expect(err).NotTo(HaveOccurred(), "output: %s", output)

		_, statErr := os.Stat(filepath.Join(cloneDir, "upstream.txt"))
		Expect(statErr).NotTo(HaveOccurred(), "expected upstream.txt to be merged in")
	})
})
