// Package transcribe drives a model backend over a decoded waveform and
// assembles the final transcript.
package transcribe

import (
	"context"
	"fmt"
	"strings"
	"time"

	"voxscribe/internal/asr"

	"github.com/sirupsen/logrus"
)

// Result is one finished transcription.
type Result struct {
	Text           string
	Model          string
	ElapsedSeconds float64
}

// Acquirer hands out the resident backend for a model id.
type Acquirer interface {
	Acquire(ctx context.Context, id string) (asr.Backend, asr.Chunking, func(), error)
}

// Service orchestrates chunking, per-chunk transcription, and post-processing.
type Service struct {
	loader Acquirer
	logger *logrus.Logger
	now    func() time.Time
}

func NewService(loader Acquirer, logger *logrus.Logger) *Service {
	return &Service{loader: loader, logger: logger, now: time.Now}
}

// Transcribe runs wave through the model identified by modelID. Any chunk
// failure aborts the whole call; partial transcripts are never returned.
func (s *Service) Transcribe(ctx context.Context, wave []float32, modelID string) (Result, error) {
	start := s.now()

	backend, chunking, release, err := s.loader.Acquire(ctx, modelID)
	if err != nil {
		return Result{}, err
	}
	defer release()

	if len(wave) == 0 {
		return Result{Model: modelID}, nil
	}

	var text string
	switch chunking {
	case asr.ChunkingNative:
		// The backend windows long input itself; never pre-chunk.
		text, err = backend.Transcribe(ctx, wave)
		if err != nil {
			return Result{}, fmt.Errorf("transcribe with %s: %w", modelID, err)
		}
	default:
		chunks, cerr := asr.Split(wave, asr.MaxWindowSamples)
		if cerr != nil {
			return Result{}, cerr
		}
		// Indexed by chunk position so the concatenation below is always
		// offset order, never completion order.
		parts := make([]string, len(chunks))
		for i, chunk := range chunks {
			out, terr := backend.Transcribe(ctx, chunk.Samples)
			if terr != nil {
				return Result{}, fmt.Errorf("transcribe chunk at sample %d with %s: %w", chunk.Offset, modelID, terr)
			}
			if chunking == asr.ChunkingManualTagged {
				out = asr.StripTags(out)
			}
			parts[i] = out
		}
		// Plain concatenation, no overlap-and-merge at chunk boundaries.
		text = strings.Join(parts, "")
		if chunking == asr.ChunkingManualTagged {
			text = asr.ToTraditional(text)
		}
	}

	elapsed := s.now().Sub(start).Seconds()
	s.logger.Infof("transcribed %.1fs of audio with %s in %.2fs",
		float64(len(wave))/asr.SampleRate, modelID, elapsed)
	return Result{Text: text, Model: modelID, ElapsedSeconds: elapsed}, nil
}
