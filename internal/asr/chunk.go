package asr

import "fmt"

// Chunk is a contiguous window of a waveform.
type Chunk struct {
	Offset  int // start sample within the source waveform
	Samples []float32
}

// Split cuts wave into non-overlapping windows of at most maxSamples, in
// ascending offset order. The final window may be shorter; a zero-length
// waveform yields no chunks. Slicing is purely positional: no silence
// detection, no trimming, and a cut may land mid-word.
func Split(wave []float32, maxSamples int) ([]Chunk, error) {
	if maxSamples <= 0 {
		return nil, fmt.Errorf("max samples must be positive (got %d)", maxSamples)
	}
	var chunks []Chunk
	for start := 0; start < len(wave); start += maxSamples {
		end := start + maxSamples
		if end > len(wave) {
			end = len(wave)
		}
		chunks = append(chunks, Chunk{Offset: start, Samples: wave[start:end]})
	}
	return chunks, nil
}
