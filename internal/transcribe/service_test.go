package transcribe

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"voxscribe/internal/asr"
	"voxscribe/internal/logging"
)

type fakeBackend struct {
	calls    [][]float32
	response func(call int, samples []float32) (string, error)
}

func (b *fakeBackend) Transcribe(ctx context.Context, samples []float32) (string, error) {
	b.calls = append(b.calls, samples)
	return b.response(len(b.calls)-1, samples)
}

func (b *fakeBackend) Close() error { return nil }

type fakeAcquirer struct {
	backend  asr.Backend
	chunking asr.Chunking
	err      error
	released bool
}

func (a *fakeAcquirer) Acquire(ctx context.Context, id string) (asr.Backend, asr.Chunking, func(), error) {
	if a.err != nil {
		return nil, 0, nil, a.err
	}
	return a.backend, a.chunking, func() { a.released = true }, nil
}

func newTestService(a *fakeAcquirer) *Service {
	return NewService(a, logging.NewTestLogger())
}

func TestManualChunkingCallsPerChunk(t *testing.T) {
	backend := &fakeBackend{response: func(call int, _ []float32) (string, error) {
		return fmt.Sprintf("part%d ", call), nil
	}}
	acq := &fakeAcquirer{backend: backend, chunking: asr.ChunkingManual}
	svc := newTestService(acq)

	// 50 seconds at 16 kHz: one full 30 s window plus a 20 s remainder.
	wave := make([]float32, 50*asr.SampleRate)
	res, err := svc.Transcribe(context.Background(), wave, asr.ModelWhisperTaiwanese)
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if len(backend.calls) != 2 {
		t.Fatalf("expected 2 backend calls, got %d", len(backend.calls))
	}
	if len(backend.calls[0]) != asr.MaxWindowSamples {
		t.Fatalf("first chunk has %d samples", len(backend.calls[0]))
	}
	if len(backend.calls[1]) != 20*asr.SampleRate {
		t.Fatalf("second chunk has %d samples", len(backend.calls[1]))
	}
	// Concatenation in offset order, no separator added.
	if res.Text != "part0 part1 " {
		t.Fatalf("unexpected text %q", res.Text)
	}
	if !acq.released {
		t.Fatal("backend not released")
	}
	if res.Model != asr.ModelWhisperTaiwanese {
		t.Fatalf("unexpected model %q", res.Model)
	}
	if res.ElapsedSeconds < 0 {
		t.Fatalf("negative elapsed %f", res.ElapsedSeconds)
	}
}

func TestNativeChunkingPassesWholeWaveform(t *testing.T) {
	backend := &fakeBackend{response: func(int, []float32) (string, error) {
		return "whole", nil
	}}
	acq := &fakeAcquirer{backend: backend, chunking: asr.ChunkingNative}
	svc := newTestService(acq)

	// Well past the 30 s window; a native backend still gets one call.
	wave := make([]float32, 80*asr.SampleRate)
	res, err := svc.Transcribe(context.Background(), wave, asr.ModelFasterWhisper)
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if len(backend.calls) != 1 {
		t.Fatalf("expected 1 backend call, got %d", len(backend.calls))
	}
	if len(backend.calls[0]) != len(wave) {
		t.Fatalf("backend saw %d of %d samples", len(backend.calls[0]), len(wave))
	}
	if res.Text != "whole" {
		t.Fatalf("unexpected text %q", res.Text)
	}
}

func TestTaggedChunkingStripsAndConverts(t *testing.T) {
	outputs := []string{"<zh><MINNAN>语音", "<zh>识别"}
	backend := &fakeBackend{response: func(call int, _ []float32) (string, error) {
		return outputs[call], nil
	}}
	acq := &fakeAcquirer{backend: backend, chunking: asr.ChunkingManualTagged}
	svc := newTestService(acq)

	wave := make([]float32, 40*asr.SampleRate)
	res, err := svc.Transcribe(context.Background(), wave, asr.ModelDolphin)
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if len(backend.calls) != 2 {
		t.Fatalf("expected 2 backend calls, got %d", len(backend.calls))
	}
	// Tags stripped per chunk, simplified-to-traditional applied to the
	// concatenated whole.
	if res.Text != "語音識別" {
		t.Fatalf("unexpected text %q", res.Text)
	}
}

func TestChunkFailureAbortsWholeCall(t *testing.T) {
	backendErr := fmt.Errorf("%w: out of memory", asr.ErrUnavailable)
	backend := &fakeBackend{response: func(call int, _ []float32) (string, error) {
		if call == 1 {
			return "", backendErr
		}
		return "ok", nil
	}}
	acq := &fakeAcquirer{backend: backend, chunking: asr.ChunkingManual}
	svc := newTestService(acq)

	wave := make([]float32, 40*asr.SampleRate)
	_, err := svc.Transcribe(context.Background(), wave, asr.ModelFormospeech)
	if err == nil {
		t.Fatal("expected failure to propagate")
	}
	if !errors.Is(err, asr.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable, got %v", err)
	}
	if !strings.Contains(err.Error(), "sample 480000") {
		t.Fatalf("error should name the failing chunk offset: %v", err)
	}
	if !acq.released {
		t.Fatal("backend not released on failure")
	}
}

func TestUnknownModelPropagates(t *testing.T) {
	acq := &fakeAcquirer{err: fmt.Errorf("%w: %q", asr.ErrUnknownModel, "bogus")}
	svc := newTestService(acq)
	_, err := svc.Transcribe(context.Background(), nil, "bogus")
	if !errors.Is(err, asr.ErrUnknownModel) {
		t.Fatalf("expected ErrUnknownModel, got %v", err)
	}
}

func TestEmptyWaveformEmptyTranscript(t *testing.T) {
	backend := &fakeBackend{response: func(int, []float32) (string, error) {
		return "should not run", nil
	}}
	acq := &fakeAcquirer{backend: backend, chunking: asr.ChunkingManual}
	svc := newTestService(acq)

	res, err := svc.Transcribe(context.Background(), nil, asr.ModelFormospeech)
	if err != nil {
		t.Fatalf("empty waveform should not error: %v", err)
	}
	if res.Text != "" {
		t.Fatalf("expected empty transcript, got %q", res.Text)
	}
	if len(backend.calls) != 0 {
		t.Fatalf("backend should not be called for empty waveform, got %d calls", len(backend.calls))
	}
}
