//go:build !whisper

package asr

import (
	"fmt"

	"voxscribe/internal/config"

	"github.com/sirupsen/logrus"
)

func openWhisper(cfg *config.Config, logger *logrus.Logger) (Backend, error) {
	return nil, fmt.Errorf("%w: built without whisper support (rebuild with -tags whisper)", ErrUnavailable)
}
