// Package commands implements the verse command line interface
package commands

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/celestiaorg/verse/internal/constants"
	"github.com/celestiaorg/verse/pkg/api/v1/client"
	"github.com/celestiaorg/verse/pkg/api/v1/routes"
)

// flag names
const (
	flagServerAddress = "server-address"
	flagToken         = "token"
)

var (
	// apiClient is the shared API client instance
	apiClient client.Client
	// newClient builds the client once flags are parsed
	newClient = client.NewClient
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = NewRootCmd()

// NewRootCmd builds the full command tree
func NewRootCmd() *cobra.Command {
	var serverAddress, token string

	cmd := &cobra.Command{
		Use:           "verse",
		Short:         "VERSE CLI - A command line interface for the VERSE API",
		Long:          `VERSE CLI registers models, raises validation requests against them and attaches proofs through the VERSE API.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Flag > Env Var > Default
			if !cmd.Flags().Changed(flagServerAddress) {
				if envAddr := os.Getenv(constants.EnvAPIURL); envAddr != "" {
					serverAddress = envAddr
				}
			}
			if !cmd.Flags().Changed(flagToken) {
				if envToken := os.Getenv(constants.EnvToken); envToken != "" {
					token = envToken
				}
			}

			if serverAddress == "" {
				return fmt.Errorf("server address cannot be empty")
			}

			opts := client.DefaultOptions()
			opts.BaseURL = serverAddress
			opts.Token = token

			var err error
			apiClient, err = newClient(opts)
			return err
		},
	}

	cmd.PersistentFlags().StringVarP(&serverAddress, flagServerAddress, "s", routes.DefaultBaseURL, "Address of the VERSE API server (env: VERSE_API_URL)")
	cmd.PersistentFlags().StringVarP(&token, flagToken, "t", "", "Bearer token used for authenticated calls (env: VERSE_TOKEN)")

	cmd.AddCommand(newModelsCmd())
	cmd.AddCommand(newRequestsCmd())
	cmd.AddCommand(newProofsCmd())
	return cmd
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return RootCmd.Execute()
}

// printJSON pretty prints v on the command output
func printJSON(cmd *cobra.Command, v interface{}) error {
	prettyJSON, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("error formatting response: %w", err)
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), string(prettyJSON))
	return err
}

// apiError turns a client error into a readable message
func apiError(action string, err error) error {
	return fmt.Errorf("error %s: %s", action, client.ErrorMessage(err))
}

func mustMarkRequired(cmd *cobra.Command, names ...string) {
	for _, name := range names {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(fmt.Errorf("failed to mark %s flag as required for %s command: %w", name, cmd.Name(), err))
		}
	}
}
