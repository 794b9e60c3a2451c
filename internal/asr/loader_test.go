package asr

import (
	"context"
	"errors"
	"testing"

	"voxscribe/internal/config"
	"voxscribe/internal/logging"

	"github.com/sirupsen/logrus"
)

type countingBackend struct {
	id     string
	closed bool
}

func (b *countingBackend) Transcribe(ctx context.Context, samples []float32) (string, error) {
	return b.id, nil
}

func (b *countingBackend) Close() error {
	b.closed = true
	return nil
}

func testSpecs(loads map[string]int, backends map[string]*countingBackend) []modelSpec {
	spec := func(id string, chunking Chunking) modelSpec {
		return modelSpec{
			info:     ModelInfo{ID: id, Name: id},
			chunking: chunking,
			open: func(cfg *config.Config, logger *logrus.Logger) (Backend, error) {
				loads[id]++
				b := &countingBackend{id: id}
				backends[id] = b
				return b, nil
			},
		}
	}
	return []modelSpec{spec("alpha", ChunkingNative), spec("beta", ChunkingManual)}
}

func newTestLoader(t *testing.T, specs []modelSpec) *Loader {
	t.Helper()
	cfg, err := config.Default()
	if err != nil {
		t.Fatalf("default config: %v", err)
	}
	return newLoader(cfg, logging.NewTestLogger(), specs)
}

func TestAcquireLoadsOnce(t *testing.T) {
	loads := map[string]int{}
	backends := map[string]*countingBackend{}
	l := newTestLoader(t, testSpecs(loads, backends))

	b1, chunking, release1, err := l.Acquire(context.Background(), "alpha")
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	if chunking != ChunkingNative {
		t.Fatalf("wrong chunking: %v", chunking)
	}
	b2, _, release2, err := l.Acquire(context.Background(), "alpha")
	if err != nil {
		t.Fatalf("second acquire: %v", err)
	}
	if b1 != b2 {
		t.Fatal("resident backend should be shared")
	}
	if loads["alpha"] != 1 {
		t.Fatalf("expected one load, got %d", loads["alpha"])
	}
	release1()
	release2()
}

func TestAcquireEvictsPreviousModel(t *testing.T) {
	loads := map[string]int{}
	backends := map[string]*countingBackend{}
	l := newTestLoader(t, testSpecs(loads, backends))

	_, _, release, err := l.Acquire(context.Background(), "alpha")
	if err != nil {
		t.Fatalf("acquire alpha: %v", err)
	}
	release()

	_, _, release, err = l.Acquire(context.Background(), "beta")
	if err != nil {
		t.Fatalf("acquire beta: %v", err)
	}
	release()

	if !backends["alpha"].closed {
		t.Fatal("alpha should have been evicted")
	}
	if loads["beta"] != 1 {
		t.Fatalf("expected one beta load, got %d", loads["beta"])
	}

	// Re-acquiring alpha reloads it.
	_, _, release, err = l.Acquire(context.Background(), "alpha")
	if err != nil {
		t.Fatalf("reacquire alpha: %v", err)
	}
	release()
	if loads["alpha"] != 2 {
		t.Fatalf("expected alpha reload, got %d loads", loads["alpha"])
	}
}

func TestAcquireUnknownModel(t *testing.T) {
	l := newTestLoader(t, testSpecs(map[string]int{}, map[string]*countingBackend{}))
	_, _, _, err := l.Acquire(context.Background(), "nope")
	if err == nil {
		t.Fatal("expected error for unknown model")
	}
	if !errors.Is(err, ErrUnknownModel) {
		t.Fatalf("expected ErrUnknownModel, got %v", err)
	}
}

func TestReleaseIsIdempotent(t *testing.T) {
	loads := map[string]int{}
	backends := map[string]*countingBackend{}
	l := newTestLoader(t, testSpecs(loads, backends))

	_, _, release, err := l.Acquire(context.Background(), "alpha")
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	release()
	release() // second call must not drive refs negative

	if l.refs != 0 {
		t.Fatalf("refs should be 0, got %d", l.refs)
	}
}

func TestLoaderClose(t *testing.T) {
	loads := map[string]int{}
	backends := map[string]*countingBackend{}
	l := newTestLoader(t, testSpecs(loads, backends))

	_, _, release, err := l.Acquire(context.Background(), "alpha")
	if err != nil {
		t.Fatalf("acquire: %v", err)
	}
	release()
	if err := l.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !backends["alpha"].closed {
		t.Fatal("close should evict the resident backend")
	}
}
