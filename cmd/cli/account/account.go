package account

import (
	"context"
	"errors"
	"net/http"

	"github.com/crucial707/idle-clicker/cmd/cli/config"
	"github.com/crucial707/idle-clicker/cmd/cli/output"
	"github.com/crucial707/idle-clicker/internal/credential"
	"github.com/spf13/cobra"
)

// ==========================
// Init Account
// ==========================
func InitAccount(rootCmd *cobra.Command) {
	rootCmd.AddCommand(
		claimCmd(),
		collectCmd(),
		upgradeCmd(),
	)
}

type flags struct {
	username string
	password string
	json     bool
	retries  int
}

func (f *flags) register(cmd *cobra.Command, withRetries bool) {
	cmd.Flags().StringVarP(&f.username, "username", "u", "", "account username (default $IDLE_USERNAME)")
	cmd.Flags().StringVarP(&f.password, "password", "p", "", "account password (default $IDLE_PASSWORD)")
	cmd.Flags().BoolVar(&f.json, "json", false, "print the raw JSON response")
	if withRetries {
		cmd.Flags().IntVar(&f.retries, "retries", 3, "times to retry when the account was modified concurrently")
	}
}

func (f *flags) credential() (credential.Credential, error) {
	cred := credential.Credential{Username: f.username, Password: f.password}
	if cred.Username == "" {
		cred.Username = config.Username()
	}
	if cred.Password == "" {
		cred.Password = config.Password()
	}
	if cred.Username == "" {
		return cred, errors.New("username is required (--username or IDLE_USERNAME)")
	}
	return cred, nil
}

func (f *flags) run(cmd *cobra.Command, method, path string) error {
	cred, err := f.credential()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	client := NewClient(config.APIURL(), cred)
	view, err := client.CallWithRetry(ctx, method, path, f.retries)
	if err != nil {
		return err
	}

	if f.json {
		return output.RenderJSON(cmd.OutOrStdout(), view)
	}
	output.RenderAccount(cmd.OutOrStdout(), *view)
	return nil
}

// ==========================
// CLAIM
// ==========================
func claimCmd() *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:   "claim",
		Short: "Claim a new account",
		Long:  "Create an account with the given username and password, starting at level 0 with no currency.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return f.run(cmd, http.MethodPost, "/claim")
		},
	}
	f.register(cmd, false)
	return cmd
}

// ==========================
// COLLECT
// ==========================
func collectCmd() *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Collect currency produced since the last collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			return f.run(cmd, http.MethodPatch, "/collect")
		},
	}
	f.register(cmd, true)
	return cmd
}

// ==========================
// UPGRADE
// ==========================
func upgradeCmd() *cobra.Command {
	f := &flags{}
	cmd := &cobra.Command{
		Use:   "upgrade",
		Short: "Spend the balance on as many levels as it affords",
		Long:  "Buy the next level and keep buying while the balance covers the next one. Uncollected production is not added first.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return f.run(cmd, http.MethodPatch, "/upgrade")
		},
	}
	f.register(cmd, true)
	return cmd
}
