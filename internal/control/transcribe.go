package control

import (
	"fmt"
	"strings"

	"voxscribe/internal/asr"
	"voxscribe/internal/audio"
	"voxscribe/internal/config"
	"voxscribe/internal/logging"
	"voxscribe/internal/textdiff"
	"voxscribe/internal/transcribe"

	"github.com/spf13/cobra"
)

// NewTranscribeCmd transcribes a WAV file and optionally compares it against
// a reference text.
func NewTranscribeCmd(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transcribe <wavfile>",
		Short: "Transcribe a WAV file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			logger, err := logging.Configure(cfg)
			if err != nil {
				return err
			}
			modelID, _ := cmd.Flags().GetString("model")
			if modelID == "" {
				modelID = cfg.ASR.DefaultModel
			}
			reference, _ := cmd.Flags().GetString("reference")

			wave, err := audio.DecodeWAVFile(args[0])
			if err != nil {
				return err
			}

			loader := asr.NewLoader(cfg, logger)
			defer func() { _ = loader.Close() }()
			svc := transcribe.NewService(loader, logger)

			res, err := svc.Transcribe(cmd.Context(), wave, modelID)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, res.Text)

			if strings.TrimSpace(reference) != "" {
				diff := textdiff.Diff(reference, res.Text)
				printDiff(cmd, diff)
				fmt.Fprintf(out, "similarity: %d%%\n", textdiff.Similarity(diff))
			}
			return nil
		},
	}
	cmd.Flags().String("model", "", "model id (see 'voxscribe models')")
	cmd.Flags().String("reference", "", "reference text to compare against")
	return cmd
}

func printDiff(cmd *cobra.Command, diff []textdiff.Segment) {
	out := cmd.OutOrStdout()
	for _, seg := range textdiff.Collapse(diff) {
		fmt.Fprintf(out, "%-8s %q\n", seg.Kind, seg.Text)
	}
}
