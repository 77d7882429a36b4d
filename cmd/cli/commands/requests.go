package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/celestiaorg/verse/pkg/api/v1/client"
)

// Flag names
const (
	flagModelID   = "model-id"
	flagRequestID = "id"
	flagElf       = "elf"
	flagHash      = "hash"
)

func newRequestsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "requests",
		Short: "Manage validation requests",
	}

	createCmd := &cobra.Command{
		Use:   "create",
		Short: "Upload an ELF binary and request validation of a model",
		RunE: func(cmd *cobra.Command, _ []string) error {
			modelID, _ := cmd.Flags().GetString(flagModelID)
			elfPath, _ := cmd.Flags().GetString(flagElf)
			hash, _ := cmd.Flags().GetString(flagHash)

			data, err := os.ReadFile(elfPath)
			if err != nil {
				return fmt.Errorf("error reading elf file: %w", err)
			}

			req, err := apiClient.CreateValidationRequest(cmd.Context(), client.ValidationRequestParams{
				ModelID:     modelID,
				HashValue:   hash,
				ElfFileName: filepath.Base(elfPath),
				ElfFile:     data,
			})
			if err != nil {
				return apiError("creating validation request", err)
			}
			return printJSON(cmd, req)
		},
	}
	createCmd.Flags().StringP(flagModelID, "m", "", "Model ID")
	createCmd.Flags().StringP(flagElf, "e", "", "Path to the ELF binary")
	createCmd.Flags().String(flagHash, "", "Expected proof hash")
	mustMarkRequired(createCmd, flagModelID, flagElf, flagHash)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the validation requests you raised",
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := apiClient.ListVerifierValidationRequests(cmd.Context())
			if err != nil {
				return apiError("listing validation requests", err)
			}
			return printJSON(cmd, list)
		},
	}

	getCmd := &cobra.Command{
		Use:   "get",
		Short: "Get a validation request",
		RunE: func(cmd *cobra.Command, _ []string) error {
			id, _ := cmd.Flags().GetString(flagRequestID)
			req, err := apiClient.GetValidationRequest(cmd.Context(), id)
			if err != nil {
				return apiError("getting validation request", err)
			}
			return printJSON(cmd, req)
		},
	}
	getCmd.Flags().String(flagRequestID, "", "Validation request ID")
	mustMarkRequired(getCmd, flagRequestID)

	forModelCmd := &cobra.Command{
		Use:   "for-model",
		Short: "List the validation requests raised against one of your models",
		RunE: func(cmd *cobra.Command, _ []string) error {
			modelID, _ := cmd.Flags().GetString(flagModelID)
			list, err := apiClient.ListValidationRequestsForModel(cmd.Context(), modelID)
			if err != nil {
				return apiError("listing validation requests", err)
			}
			return printJSON(cmd, list)
		},
	}
	forModelCmd.Flags().StringP(flagModelID, "m", "", "Model ID")
	mustMarkRequired(forModelCmd, flagModelID)

	cmd.AddCommand(createCmd, listCmd, getCmd, forModelCmd)
	return cmd
}
