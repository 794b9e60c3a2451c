//go:build !whisper

package control

import "github.com/spf13/cobra"

func NewRecordCmd(cfgPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "record",
		Short: "Record from the microphone (build with -tags whisper)",
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.Println("build with '-tags whisper' to use record")
			return nil
		},
	}
}
