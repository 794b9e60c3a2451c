package main

import (
	"fmt"
	"os"

	"voxscribe/internal/control"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Optional .env next to the working directory; system env wins otherwise.
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "voxscribe",
		Short: "Voxscribe speech transcription and transcript comparison",
		Long: `Voxscribe transcribes audio with pluggable speech models (local whisper.cpp
or sidecar inference servers) and compares transcripts against reference
texts character by character.

Key commands:
  serve                     Run the HTTP API
  transcribe <wav>          Transcribe a WAV file
  diff <ref> <hyp>          Compare two texts, print segments + similarity
  models                    List available models
  record                    Capture from the mic and transcribe (whisper builds)
  doctor                    Check model file, endpoints, and state paths

Env overrides: VOXSCRIBE_ADDR, VOXSCRIBE_DEFAULT_MODEL, VOXSCRIBE_MODEL_PATH,
               VOXSCRIBE_METRICS_ADDR, VOXSCRIBE_LOG_LEVEL/FORMAT,
               VOXSCRIBE_HISTORY_ENABLED`,
		Example: `  voxscribe serve --addr :8080 --metrics-addr 127.0.0.1:9327
  voxscribe transcribe clip.wav --model whisper-taiwanese --reference "臺灣話"
  voxscribe diff "hello" "hallo"
  voxscribe models --json`,
		DisableFlagsInUseLine: true,
	}

	root.Version = version
	root.SetVersionTemplate("Voxscribe v{{.Version}}\n")

	cfgPath := root.PersistentFlags().StringP("config", "c", "", "Path to config file (TOML). Defaults to ~/.config/voxscribe/config.toml")
	root.CompletionOptions.DisableDefaultCmd = true

	root.AddCommand(control.NewServeCmd(cfgPath))
	root.AddCommand(control.NewTranscribeCmd(cfgPath))
	root.AddCommand(control.NewDiffCmd())
	root.AddCommand(control.NewModelsCmd())
	root.AddCommand(control.NewRecordCmd(cfgPath))
	root.AddCommand(control.NewDoctorCmd(cfgPath))

	return root.Execute()
}
