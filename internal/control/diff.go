package control

import (
	"encoding/json"
	"fmt"

	"voxscribe/internal/textdiff"

	"github.com/spf13/cobra"
)

// NewDiffCmd compares a reference text against a transcript without running
// any inference.
func NewDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff <reference> <hypothesis>",
		Short: "Compare a reference text against a transcript",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			diff := textdiff.Diff(args[0], args[1])
			jsonOut, _ := cmd.Flags().GetBool("json")
			if jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]any{
					"diff":       diff,
					"similarity": textdiff.Similarity(diff),
				})
			}
			printDiff(cmd, diff)
			fmt.Fprintf(cmd.OutOrStdout(), "similarity: %d%%\n", textdiff.Similarity(diff))
			return nil
		},
	}
	cmd.Flags().Bool("json", false, "output JSON")
	return cmd
}
