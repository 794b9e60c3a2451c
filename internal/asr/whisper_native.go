//go:build whisper

package asr

import (
	"context"
	"fmt"
	"strings"

	"voxscribe/internal/config"

	"github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
	"github.com/sirupsen/logrus"
)

// whisperBackend runs whisper.cpp in-process. It handles long input itself
// (internal windowing plus context carry-over), so it is registered as
// ChunkingNative.
type whisperBackend struct {
	model    whisper.Model
	language string
	logger   *logrus.Logger
}

func openWhisper(cfg *config.Config, logger *logrus.Logger) (Backend, error) {
	model, err := whisper.New(cfg.ASR.ModelPath)
	if err != nil {
		return nil, fmt.Errorf("load whisper model %s: %w", cfg.ASR.ModelPath, err)
	}
	return &whisperBackend{model: model, language: cfg.ASR.Language, logger: logger}, nil
}

func (b *whisperBackend) Transcribe(ctx context.Context, samples []float32) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	wctx, err := b.model.NewContext()
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	if lang := strings.TrimSpace(b.language); lang != "" && lang != "auto" {
		if err := wctx.SetLanguage(lang); err != nil {
			b.logger.Warnf("set language: %v", err)
		}
	}
	if err := wctx.Process(samples, nil, nil, nil); err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	var sb strings.Builder
	for {
		seg, err := wctx.NextSegment()
		if err != nil {
			break
		}
		sb.WriteString(seg.Text)
		if !strings.HasSuffix(seg.Text, " ") {
			sb.WriteByte(' ')
		}
	}
	return strings.TrimSpace(sb.String()), nil
}

func (b *whisperBackend) Close() error { return b.model.Close() }
