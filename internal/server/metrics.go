package server

import (
	"fmt"
	"net/http"
	"sync/atomic"
)

type metrics struct {
	transcribed atomic.Int64
	failed      atomic.Int64
	diffed      atomic.Int64
}

func (m *metrics) incTranscribed() { m.transcribed.Add(1) }
func (m *metrics) incFailed()      { m.failed.Add(1) }
func (m *metrics) incDiffed()      { m.diffed.Add(1) }

func (s *Server) metricsServe(ctxDone <-chan struct{}, addr string, logger interface {
	Infof(string, ...any)
	Warnf(string, ...any)
}) {
	mux := http.NewServeMux()
	mux.HandleFunc("/metrics", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, "voxscribe_transcriptions_total %d\n", s.metrics.transcribed.Load())
		fmt.Fprintf(w, "voxscribe_transcriptions_failed_total %d\n", s.metrics.failed.Load())
		fmt.Fprintf(w, "voxscribe_diffs_total %d\n", s.metrics.diffed.Load())
	})
	server := &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	go func() {
		<-ctxDone
		_ = server.Close()
	}()
	logger.Infof("metrics listening on http://%s/metrics", addr)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Warnf("metrics server: %v", err)
	}
}
