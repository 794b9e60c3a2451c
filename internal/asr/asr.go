package asr

import (
	"context"
	"errors"
)

// SampleRate is the rate every waveform must arrive at. Decoding and
// resampling happen upstream in internal/audio.
const SampleRate = 16000

// MaxWindowSamples is the input ceiling for manual-chunking backends:
// 30 seconds at 16 kHz.
const MaxWindowSamples = 30 * SampleRate

// Chunking tells the orchestrator how a backend must be fed.
type Chunking int

const (
	// ChunkingNative backends consume arbitrarily long audio on their own.
	// Pre-chunking would fragment their internal context handling and hurt
	// accuracy, so callers pass the whole waveform in one call.
	ChunkingNative Chunking = iota
	// ChunkingManual backends enforce the 30-second window; callers must
	// chunk and invoke once per chunk.
	ChunkingManual
	// ChunkingManualTagged backends are manual-chunking and additionally
	// emit <...> language/event tags. Tags are stripped per chunk, and the
	// concatenated transcript gets one terminal simplified-to-traditional
	// pass. Converting per chunk can mangle characters split across a
	// chunk boundary.
	ChunkingManualTagged
)

var (
	// ErrUnknownModel is returned for a model id missing from the registry.
	ErrUnknownModel = errors.New("unknown model")
	// ErrUnavailable wraps transient inference failures. Retrying, if any,
	// belongs to the caller, not this layer.
	ErrUnavailable = errors.New("backend unavailable")
)

// Backend converts a 16 kHz mono waveform into text.
type Backend interface {
	Transcribe(ctx context.Context, samples []float32) (string, error)
	Close() error
}
