package asr

import (
	"net/url"
	"time"

	"voxscribe/internal/config"

	"github.com/sirupsen/logrus"
)

// Model identifiers accepted by the loader.
const (
	ModelFasterWhisper    = "faster-whisper"
	ModelWhisperTaiwanese = "whisper-taiwanese"
	ModelFormospeech      = "formospeech"
	ModelDolphin          = "dolphin"
)

// ModelInfo is the API-facing description of a model.
type ModelInfo struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

type modelSpec struct {
	info     ModelInfo
	chunking Chunking
	open     func(cfg *config.Config, logger *logrus.Logger) (Backend, error)
}

func registrySpecs() []modelSpec {
	return []modelSpec{
		{
			info: ModelInfo{
				ID:          ModelFasterWhisper,
				Name:        "Faster Whisper",
				Description: "General multilingual speech recognition (Large V3)",
			},
			chunking: ChunkingNative,
			open:     openWhisper,
		},
		{
			info: ModelInfo{
				ID:          ModelWhisperTaiwanese,
				Name:        "Whisper Taiwanese",
				Description: "Optimized for Traditional Chinese (Taiwan)",
			},
			chunking: ChunkingManual,
			open: func(cfg *config.Config, logger *logrus.Logger) (Backend, error) {
				return newRemoteBackend(cfg.Remote.TaiwaneseURL, remoteTimeout(cfg), nil, logger)
			},
		},
		{
			info: ModelInfo{
				ID:          ModelFormospeech,
				Name:        "FormoSpeech Hakka",
				Description: "Specialized for Hakka language",
			},
			chunking: ChunkingManual,
			open: func(cfg *config.Config, logger *logrus.Logger) (Backend, error) {
				return newRemoteBackend(cfg.Remote.HakkaURL, remoteTimeout(cfg), nil, logger)
			},
		},
		{
			info: ModelInfo{
				ID:          ModelDolphin,
				Name:        "Dolphin Taiwanese",
				Description: "Dolphin ASR for Taiwanese Minnan, traditional-script output",
			},
			chunking: ChunkingManualTagged,
			open: func(cfg *config.Config, logger *logrus.Logger) (Backend, error) {
				params := url.Values{}
				params.Set("lang_sym", cfg.Remote.LangSym)
				params.Set("region_sym", cfg.Remote.RegionSym)
				return newRemoteBackend(cfg.Remote.DolphinURL, remoteTimeout(cfg), params, logger)
			},
		},
	}
}

func remoteTimeout(cfg *config.Config) time.Duration {
	sec := cfg.Remote.TimeoutSec
	if sec <= 0 {
		sec = 120
	}
	return time.Duration(sec * float64(time.Second))
}

// Models lists the registry in declaration order.
func Models() []ModelInfo {
	specs := registrySpecs()
	out := make([]ModelInfo, 0, len(specs))
	for _, s := range specs {
		out = append(out, s.info)
	}
	return out
}

// IsKnownModel reports whether id is registered.
func IsKnownModel(id string) bool {
	for _, s := range registrySpecs() {
		if s.info.ID == id {
			return true
		}
	}
	return false
}
