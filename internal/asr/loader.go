package asr

import (
	"context"
	"fmt"
	"sync"

	"voxscribe/internal/config"

	"github.com/sirupsen/logrus"
)

// Loader keeps at most one backend resident at a time. Models are large;
// loading a second one while the first is live would exhaust memory, so a
// request for a different model waits until the resident one is idle, then
// evicts it. Requests for the resident model share it via refcount.
type Loader struct {
	cfg    *config.Config
	logger *logrus.Logger
	specs  []modelSpec

	mu      sync.Mutex
	cond    *sync.Cond
	current string
	backend Backend
	refs    int
}

// NewLoader builds a loader over the built-in model registry.
func NewLoader(cfg *config.Config, logger *logrus.Logger) *Loader {
	return newLoader(cfg, logger, registrySpecs())
}

func newLoader(cfg *config.Config, logger *logrus.Logger, specs []modelSpec) *Loader {
	l := &Loader{cfg: cfg, logger: logger, specs: specs}
	l.cond = sync.NewCond(&l.mu)
	return l
}

func (l *Loader) lookup(id string) (modelSpec, bool) {
	for _, s := range l.specs {
		if s.info.ID == id {
			return s, true
		}
	}
	return modelSpec{}, false
}

// Acquire returns the backend for id, its chunking category, and a release
// func that must be called exactly once when the caller is done. Loads on
// demand; blocks while a different model is in use.
func (l *Loader) Acquire(ctx context.Context, id string) (Backend, Chunking, func(), error) {
	spec, ok := l.lookup(id)
	if !ok {
		return nil, 0, nil, fmt.Errorf("%w: %q", ErrUnknownModel, id)
	}

	l.mu.Lock()
	for l.backend != nil && l.current != id && l.refs > 0 {
		if err := ctx.Err(); err != nil {
			l.mu.Unlock()
			return nil, 0, nil, err
		}
		l.cond.Wait()
	}
	if l.backend == nil || l.current != id {
		if l.backend != nil {
			l.logger.Infof("evicting model %s for %s", l.current, id)
			if err := l.backend.Close(); err != nil {
				l.logger.Warnf("close model %s: %v", l.current, err)
			}
			l.backend = nil
			l.current = ""
		}
		l.logger.Infof("loading model %s", id)
		b, err := spec.open(l.cfg, l.logger)
		if err != nil {
			l.cond.Broadcast()
			l.mu.Unlock()
			return nil, 0, nil, fmt.Errorf("load model %s: %w", id, err)
		}
		l.backend = b
		l.current = id
	}
	l.refs++
	b := l.backend
	l.mu.Unlock()

	var once sync.Once
	release := func() {
		once.Do(func() {
			l.mu.Lock()
			l.refs--
			if l.refs == 0 {
				l.cond.Broadcast()
			}
			l.mu.Unlock()
		})
	}
	return b, spec.chunking, release, nil
}

// Close evicts whichever backend is resident. Callers must have released
// all handles first.
func (l *Loader) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.backend == nil {
		return nil
	}
	err := l.backend.Close()
	l.backend = nil
	l.current = ""
	return err
}
