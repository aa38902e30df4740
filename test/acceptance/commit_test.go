package acceptance_test

import (
	"os"
	"path/filepath"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("gitline commit", func() {
	var cloneDir string

	BeforeEach(func() {
		_, cloneDir = setupRemoteAndClone("gitline-commit-*")
	})

	AfterEach(func() {
		os.RemoveAll(filepath.Dir(cloneDir))
	})

	It("commits and pushes a clean change to a new dev branch", func() {
		writeFile(filepath.Join(cloneDir, "feature.txt"), "new feature\n")

		output, err := runGitline(cloneDir, "commit", "feat: add feature.txt")
		Expect(err).NotTo(HaveOccurred(), "output: %s", output)

		current := strings.TrimSpace(runGitOutput(cloneDir, "rev-parse", "--abbrev-ref", "HEAD"))
		Expect(current).To(Or(Equal("main"), Equal("master")), "should return to the original branch")

		remoteBranches := runGitOutput(cloneDir, "branch", "-r")
		Expect(remoteBranches).To(ContainSubstring("dev-"))
	})

	It("is a no-op, not an error, when there is nothing to commit", func() {
		output, err := runGitline(cloneDir, "commit", "chore: noop")
		Expect(err).NotTo(HaveOccurred(), "output: %s", output)
	})

	It("commits directly to main when --main is given", func() {
		writeFile(filepath.Join(cloneDir, "hotfix.txt"), "urgent\n")

		output, err := runGitline(cloneDir, "commit", "--main", "fix: urgent hotfix")
		Expect(err).NotTo(HaveOccurred(), "output: %s", output)

		log := runGitOutput(cloneDir, "log", "-1", "--format=%s")
		Expect(log).To(ContainSubstring("urgent hotfix"))
	})
})
