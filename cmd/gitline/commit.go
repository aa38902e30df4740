package main

import (
	"context"
	"fmt"
	"os"

	"github.com/re-cinq/gitline/internal/flow"
	"github.com/spf13/cobra"
)

var commitToMain bool

var commitCmd = &cobra.Command{
	Use:   "commit [message]",
	Short: "Commit and push outstanding changes",
	Long: `Stages every outstanding change, commits it with the given message, and
pushes it, switching to your dev branch first unless --main is given.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		e, err := newEngine()
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}

		target := flow.TargetUserBranch
		if commitToMain {
			target = flow.TargetMain
		}

		if err := e.CommitAndPush(context.Background(), args[0], target); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
	},
}

func init() {
	commitCmd.Flags().BoolVar(&commitToMain, "main", false, "commit directly to main instead of your dev branch")
}
