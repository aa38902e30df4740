package main

import (
	"fmt"
	"os"

	"github.com/re-cinq/gitline/internal/flow"
	"github.com/spf13/cobra"
)

var revertUseReset bool

var revertCmd = &cobra.Command{
	Use:   "revert <sha>",
	Short: "Return your branch to a commit via a new commit or a hard reset",
	Long: `Returns your current branch to the state of sha. By default it checks out
sha's file contents and records them as a new commit (allowed on main and
your dev branch); files added after sha are kept. --reset performs a
destructive hard-reset to sha instead, force-pushing when sha is already on
the remote, and is only permitted on your own dev branch.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		e, err := newEngine()
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}

		method := flow.MethodRevert
		if revertUseReset {
			method = flow.MethodReset
		}

		if err := e.RevertCommit(args[0], method); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
	},
}

func init() {
	revertCmd.Flags().BoolVar(&revertUseReset, "reset", false, "hard-reset to sha (force-pushing when it is on the remote) instead of committing its contents")
}
