package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var aurTmate bool

var aurCmd = &cobra.Command{
	Use:   "aur [package]",
	Short: "Dispatch an AUR package build",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		e, err := newEngine()
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		if err := e.AURBuild(context.Background(), args[0], aurTmate); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
	},
}

func init() {
	aurCmd.Flags().BoolVar(&aurTmate, "tmate", false, "enable an interactive debug session on CI failure")
}
