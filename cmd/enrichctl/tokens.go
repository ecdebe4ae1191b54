package main

import (
	"fmt"
	"os"

	"github.com/enrichhq/enrichctl/internal/credential"
	"github.com/enrichhq/enrichctl/internal/notice"
	"github.com/enrichhq/enrichctl/internal/render"

	"github.com/spf13/cobra"
)

var tokensCmd = &cobra.Command{
	Use:   "tokens",
	Short: "Manage API tokens",
	Long: `List, create and revoke API tokens. Tokens are cached locally so the list
stays available when the token service cannot be reached.`,
}

var tokensListCmd = &cobra.Command{
	Use:   "list",
	Short: "List API tokens",
	Run: func(cmd *cobra.Command, args []string) {
		a := newApp()
		defer a.close()

		var result credential.ListResult
		withSpinner("Loading tokens...", func() {
			result = a.store.List(cmd.Context())
		})

		fmt.Println(render.Tokens(result.Tokens))
		printNotices(result.Notices)
	},
}

var tokensCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new API token",
	Run: func(cmd *cobra.Command, args []string) {
		a := newApp()
		defer a.close()

		var (
			result credential.CreateResult
			err    error
		)
		withSpinner("Creating token...", func() {
			result, err = a.store.Create(cmd.Context())
		})
		if err != nil {
			a.fatal("Failed to create token: %v", err)
			return
		}

		fmt.Printf("ID:     %s\n", result.Token.ID)
		fmt.Printf("Secret: %s\n", result.Token.Secret)
		fmt.Println("Store the secret now; it is only shown in full once.")
		printNotices(result.Notices)
	},
}

var tokensRevokeCmd = &cobra.Command{
	Use:   "revoke TOKEN_ID",
	Short: "Revoke an API token",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		a := newApp()
		defer a.close()

		var result credential.RevokeResult
		withSpinner("Revoking token...", func() {
			result = a.store.Revoke(cmd.Context(), args[0])
		})

		if result.Removed {
			logger.Info("Removed token %s", args[0])
		} else {
			logger.Info("Token %s was not in the local list", args[0])
		}
		printNotices(result.Notices)
	},
}

func printNotices(notices []notice.Notice) {
	for _, n := range notices {
		fmt.Fprintln(os.Stderr, render.Notice(n))
	}
}

func initTokenCommands() {
	tokensCmd.AddCommand(tokensListCmd)
	tokensCmd.AddCommand(tokensCreateCmd)
	tokensCmd.AddCommand(tokensRevokeCmd)
}
