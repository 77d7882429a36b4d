package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/celestiaorg/verse/pkg/api/v1/client"
)

// Flag names
const (
	flagFile   = "file"
	flagOutput = "output"
)

func newProofsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "proofs",
		Short: "Attach and fetch proofs",
	}

	attachCmd := &cobra.Command{
		Use:   "attach",
		Short: "Attach a JSON proof to a pending validation request",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, _ := cmd.Flags().GetString(flagRequestID)
			path, _ := cmd.Flags().GetString(flagFile)

			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("error reading proof file: %w", err)
			}

			req, err := apiClient.AttachProof(cmd.Context(), client.AttachProofParams{
				ValidationRequestID: id,
				ProofFileName:       filepath.Base(path),
				Proof:               data,
			})
			if err != nil {
				return apiError("attaching proof", err)
			}
			return printJSON(cmd, req)
		},
	}
	attachCmd.Flags().String(flagRequestID, "", "Validation request ID")
	attachCmd.Flags().StringP(flagFile, "f", "", "Path to the JSON proof")
	mustMarkRequired(attachCmd, flagRequestID, flagFile)

	downloadCmd := &cobra.Command{
		Use:   "download",
		Short: "Download the proof of a proved validation request",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, _ := cmd.Flags().GetString(flagRequestID)
			output, _ := cmd.Flags().GetString(flagOutput)

			req, err := apiClient.GetValidationRequest(cmd.Context(), id)
			if err != nil {
				return apiError("getting validation request", err)
			}
			if !req.IsProved() || req.JSONURL == "" {
				return errors.New("validation request has no proof yet")
			}

			data, err := apiClient.Download(cmd.Context(), req.JSONURL)
			if err != nil {
				return apiError("downloading proof", err)
			}

			if output == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			if err := os.WriteFile(output, data, 0o600); err != nil {
				return fmt.Errorf("error writing proof: %w", err)
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "proof written to %s\n", output)
			return err
		},
	}
	downloadCmd.Flags().String(flagRequestID, "", "Validation request ID")
	downloadCmd.Flags().StringP(flagOutput, "o", "", "Write the proof to this file instead of stdout")
	mustMarkRequired(downloadCmd, flagRequestID)

	cmd.AddCommand(attachCmd, downloadCmd)
	return cmd
}
