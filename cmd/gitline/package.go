package main

import (
	"context"
	"fmt"
	"os"

	"github.com/re-cinq/gitline/internal/flow"
	"github.com/spf13/cobra"
)

var (
	packageMessage string
	packageRepoType string
	packageTmate    bool
)

var packageCmd = &cobra.Command{
	Use:   "package [path]",
	Short: "Commit, version-bump, and dispatch a package build",
	Long: `Commits outstanding changes under path (if -m is given), lands them on
the branch appropriate to --type, and dispatches a build workflow to the
forge. --type accepts testing, stable, or extra.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		repoPath := "."
		if len(args) == 1 {
			repoPath = args[0]
		}

		repoType := flow.RepoType(packageRepoType)
		switch repoType {
		case flow.RepoTesting, flow.RepoStable, flow.RepoExtra:
		default:
			fmt.Fprintf(os.Stderr, "error: --type must be testing, stable, or extra (got %q)\n", packageRepoType)
			os.Exit(1)
		}

		e, err := newEngine()
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}

		if err := e.CommitAndGeneratePackage(context.Background(), repoPath, repoType, packageMessage, packageTmate); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
	},
}

func init() {
	packageCmd.Flags().StringVarP(&packageMessage, "message", "m", "", "commit message for outstanding changes (skip to dispatch without committing)")
	packageCmd.Flags().StringVar(&packageRepoType, "type", "testing", "build target: testing, stable, or extra")
	packageCmd.Flags().BoolVar(&packageTmate, "tmate", false, "enable an interactive debug session on CI failure")
}
