package control

import (
	"encoding/json"
	"fmt"

	"voxscribe/internal/asr"

	"github.com/spf13/cobra"
)

// NewModelsCmd lists the registered models.
func NewModelsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "models",
		Short: "List available speech recognition models",
		RunE: func(cmd *cobra.Command, args []string) error {
			models := asr.Models()
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(models)
			}
			for _, m := range models {
				fmt.Fprintf(cmd.OutOrStdout(), "- %-18s %s: %s\n", m.ID, m.Name, m.Description)
			}
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "output JSON")
	return cmd
}
