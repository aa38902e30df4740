package main

import (
	"fmt"
	"os"

	"github.com/re-cinq/gitline/internal/tokenstore"
	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage forge authentication tokens",
}

var tokenListCmd = &cobra.Command{
	Use:   "list",
	Short: "List configured organizations and masked tokens",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		entries, err := tokenstore.New().ReadAll()
		if err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		if len(entries) == 0 {
			fmt.Println("no tokens configured")
			return
		}
		for _, e := range entries {
			fmt.Printf("%s: %s\n", e.Org, tokenstore.Mask(e.Token))
		}
	},
}

var tokenSetCmd = &cobra.Command{
	Use:   "set <organization> <token>",
	Short: "Set the token for an organization",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		if err := tokenstore.New().Upsert(args[0], args[1]); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		fmt.Printf("token set for %s\n", args[0])
	},
}

var tokenDeleteCmd = &cobra.Command{
	Use:   "delete <organization>",
	Short: "Remove the token for an organization",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := tokenstore.New().Delete(args[0]); err != nil {
			fmt.Fprintln(os.Stderr, "error:", err)
			os.Exit(1)
		}
		fmt.Printf("token removed for %s\n", args[0])
	},
}

func init() {
	tokenCmd.AddCommand(tokenListCmd, tokenSetCmd, tokenDeleteCmd)
}
