package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rl1809/production-records/internal/adapter/auth"
)

var tokenUser string

// tokenCmd mints an access token with the configured secret, for scripting against the API.
var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Print an access token for a user",
	Example: `  recordsd token --user operator1
  curl -H "Authorization: Bearer $(recordsd token -u operator1)" localhost:5000/get_records`,
	RunE: func(cmd *cobra.Command, args []string) error {
		issuer := auth.NewJWTIssuer(cfg.Auth.Secret, cfg.Auth.TokenTTL)

		token, expiresAt, err := issuer.Issue(tokenUser)
		if err != nil {
			return err
		}

		fmt.Fprintln(cmd.OutOrStdout(), token)
		fmt.Fprintf(cmd.ErrOrStderr(), "expires at %s\n", expiresAt.Format(time.RFC3339))
		return nil
	},
}

func init() {
	tokenCmd.Flags().StringVarP(&tokenUser, "user", "u", "", "identity to embed in the token")
	tokenCmd.MarkFlagRequired("user")
}
