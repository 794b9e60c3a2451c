//go:build whisper

package control

import (
	"fmt"
	"strings"
	"time"

	"voxscribe/internal/asr"
	"voxscribe/internal/config"
	"voxscribe/internal/logging"
	"voxscribe/internal/transcribe"

	"github.com/gordonklaus/portaudio"
	"github.com/spf13/cobra"
)

// NewRecordCmd captures audio from the microphone and transcribes it.
func NewRecordCmd(cfgPath *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "record",
		Short: "Record from the microphone and transcribe",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*cfgPath)
			if err != nil {
				return err
			}
			logger, err := logging.Configure(cfg)
			if err != nil {
				return err
			}
			seconds, _ := cmd.Flags().GetInt("seconds")
			if seconds <= 0 {
				seconds = cfg.Audio.RecordSeconds
			}
			modelID, _ := cmd.Flags().GetString("model")
			if modelID == "" {
				modelID = cfg.ASR.DefaultModel
			}

			if err := portaudio.Initialize(); err != nil {
				return fmt.Errorf("portaudio init: %w", err)
			}
			defer portaudio.Terminate()

			dev, err := selectDevice(cfg.Audio.DeviceName)
			if err != nil {
				return err
			}

			frameSamples := asr.SampleRate / 10
			buf := make([]int16, frameSamples)
			stream, err := portaudio.OpenStream(portaudio.StreamParameters{
				Input: portaudio.StreamDeviceParameters{
					Device:   dev,
					Channels: 1,
					Latency:  dev.DefaultLowInputLatency,
				},
				SampleRate:      float64(asr.SampleRate),
				FramesPerBuffer: frameSamples,
			}, &buf)
			if err != nil {
				return fmt.Errorf("open stream: %w", err)
			}
			defer stream.Close()

			if err := stream.Start(); err != nil {
				return fmt.Errorf("start stream: %w", err)
			}
			defer stream.Stop()

			logger.Infof("recording %ds from %s", seconds, dev.Name)
			wave := make([]float32, 0, seconds*asr.SampleRate)
			deadline := time.Now().Add(time.Duration(seconds) * time.Second)
			for time.Now().Before(deadline) {
				if err := stream.Read(); err != nil {
					return fmt.Errorf("stream read: %w", err)
				}
				for _, s := range buf {
					wave = append(wave, float32(s)/32768.0)
				}
			}

			loader := asr.NewLoader(cfg, logger)
			defer func() { _ = loader.Close() }()
			svc := transcribe.NewService(loader, logger)
			res, err := svc.Transcribe(cmd.Context(), wave, modelID)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), res.Text)
			return nil
		},
	}
	cmd.Flags().Int("seconds", 0, "recording length in seconds")
	cmd.Flags().String("model", "", "model id (see 'voxscribe models')")
	return cmd
}

func selectDevice(preferred string) (*portaudio.DeviceInfo, error) {
	devs, err := portaudio.Devices()
	if err != nil {
		return nil, fmt.Errorf("list devices: %w", err)
	}
	if preferred != "" {
		for _, d := range devs {
			if d.MaxInputChannels > 0 && strings.Contains(strings.ToLower(d.Name), strings.ToLower(preferred)) {
				return d, nil
			}
		}
	}
	if def, err := portaudio.DefaultInputDevice(); err == nil && def != nil {
		return def, nil
	}
	for _, d := range devs {
		if d.MaxInputChannels > 0 {
			return d, nil
		}
	}
	return nil, fmt.Errorf("no input devices found")
}
