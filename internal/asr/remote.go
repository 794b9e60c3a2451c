package asr

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

// remoteBackend posts raw PCM to an out-of-process inference server and
// reads back {"text": ...}. The transformers-style and dolphin models run
// as sidecars; this keeps their Python runtimes out of this binary.
type remoteBackend struct {
	endpoint string
	params   url.Values
	client   *http.Client
	logger   *logrus.Logger
}

func newRemoteBackend(endpoint string, timeout time.Duration, params url.Values, logger *logrus.Logger) (Backend, error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return nil, fmt.Errorf("%w: no inference endpoint configured", ErrUnavailable)
	}
	if _, err := url.Parse(endpoint); err != nil {
		return nil, fmt.Errorf("inference endpoint %q: %w", endpoint, err)
	}
	return &remoteBackend{
		endpoint: endpoint,
		params:   params,
		client:   &http.Client{Timeout: timeout},
		logger:   logger,
	}, nil
}

func (b *remoteBackend) Transcribe(ctx context.Context, samples []float32) (string, error) {
	target := b.endpoint
	if len(b.params) > 0 {
		sep := "?"
		if strings.Contains(target, "?") {
			sep = "&"
		}
		target += sep + b.params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, target, bytes.NewReader(pcm16Bytes(samples)))
	if err != nil {
		return "", fmt.Errorf("build inference request: %w", err)
	}
	req.Header.Set("Content-Type", "audio/l16; rate=16000; channels=1")

	resp, err := b.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("%w: %s: %s", ErrUnavailable, resp.Status, strings.TrimSpace(string(snippet)))
	}

	var parsed struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("decode inference response: %w", err)
	}
	return parsed.Text, nil
}

func (b *remoteBackend) Close() error { return nil }

// pcm16Bytes converts [-1,1] float samples to 16-bit little-endian PCM.
func pcm16Bytes(samples []float32) []byte {
	out := make([]byte, len(samples)*2)
	for i, s := range samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		binary.LittleEndian.PutUint16(out[i*2:], uint16(int16(s*32767)))
	}
	return out
}
