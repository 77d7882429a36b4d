package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/celestiaorg/verse/internal/db/models"
	"github.com/celestiaorg/verse/internal/types"
	"github.com/celestiaorg/verse/pkg/api/v1/handlers"
)

// Flag names
const (
	flagName         = "name"
	flagDescription  = "description"
	flagVectorFormat = "vector-format"
	flagPending      = "pending"
)

func newModelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "Manage models",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List your models",
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := apiClient.ListOwnModels(cmd.Context())
			if err != nil {
				return apiError("listing models", err)
			}
			return printJSON(cmd, list)
		},
	}

	allCmd := &cobra.Command{
		Use:   "all",
		Short: "List every registered model",
		RunE: func(cmd *cobra.Command, _ []string) error {
			list, err := apiClient.ListAllModels(cmd.Context())
			if err != nil {
				return apiError("listing models", err)
			}
			return printJSON(cmd, list)
		},
	}

	newCmd := &cobra.Command{
		Use:   "new",
		Short: "Register a new model",
		RunE: func(cmd *cobra.Command, _ []string) error {
			name, _ := cmd.Flags().GetString(flagName)
			description, _ := cmd.Flags().GetString(flagDescription)
			vectorFormat, _ := cmd.Flags().GetString(flagVectorFormat)

			params := handlers.ModelCreateParams{
				Name:         name,
				Description:  description,
				VectorFormat: vectorFormat,
			}
			if err := params.Validate(); err != nil {
				return err
			}

			model, err := apiClient.CreateModel(cmd.Context(), params)
			if err != nil {
				return apiError("creating model", err)
			}
			return printJSON(cmd, model)
		},
	}
	newCmd.Flags().StringP(flagName, "n", "", "Model name")
	newCmd.Flags().StringP(flagDescription, "d", "", "Model description")
	newCmd.Flags().StringP(flagVectorFormat, "f", "", "Input vector format")
	mustMarkRequired(newCmd, flagName, flagVectorFormat)

	requestsCmd := &cobra.Command{
		Use:   "requests",
		Short: "List your models together with their validation requests",
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := apiClient.ListModelsWithValidations(cmd.Context())
			if err != nil {
				return apiError("listing models", err)
			}

			pendingOnly, _ := cmd.Flags().GetBool(flagPending)
			if !pendingOnly {
				return printJSON(cmd, resp)
			}

			total := keepPending(&resp)
			if err := printJSON(cmd, resp); err != nil {
				return err
			}
			_, err = fmt.Fprintf(cmd.ErrOrStderr(), "pending validation requests: %d\n", total)
			return err
		},
	}
	requestsCmd.Flags().Bool(flagPending, false, "Only show pending requests and print their total")

	cmd.AddCommand(listCmd, allCmd, newCmd, requestsCmd)
	return cmd
}

// keepPending drops every proved request from resp and returns how many remain
func keepPending(resp *types.ModelsWithValidationsResponse) int {
	total := 0
	for i := range resp.Models {
		pending := []models.ValidationRequest{}
		for _, req := range resp.Models[i].ValidationRequests {
			if !req.IsProved() {
				pending = append(pending, req)
			}
		}
		resp.Models[i].ValidationRequests = pending
		total += len(pending)
	}
	return total
}
