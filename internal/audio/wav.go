// Package audio decodes uploaded audio into the waveform the transcription
// core consumes: mono float32 at 16 kHz.
package audio

import (
	"bytes"
	"fmt"
	"io"
	"os"

	gaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// TargetRate is the sample rate every decoded waveform is brought to.
const TargetRate = 16000

// DecodeWAVFile reads a WAV file and returns mono float32 samples at 16 kHz.
func DecodeWAVFile(path string) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return DecodeWAV(f)
}

// DecodeWAVBytes decodes an in-memory WAV payload.
func DecodeWAVBytes(data []byte) ([]float32, error) {
	return DecodeWAV(bytes.NewReader(data))
}

// DecodeWAV decodes WAV from r, downmixing to mono and resampling to 16 kHz
// when the source differs.
func DecodeWAV(r io.ReadSeeker) ([]float32, error) {
	d := wav.NewDecoder(r)
	buf, err := d.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("decode wav: %w", err)
	}
	if buf == nil || buf.Format == nil {
		return nil, fmt.Errorf("decode wav: empty stream")
	}

	bitDepth := buf.SourceBitDepth
	if bitDepth == 0 {
		bitDepth = int(d.BitDepth)
	}
	samples := toFloat32(buf, bitDepth)
	if ch := buf.Format.NumChannels; ch > 1 {
		samples = downmix(samples, ch)
	}
	if sr := buf.Format.SampleRate; sr != TargetRate {
		samples = resampleLinear(samples, sr, TargetRate)
	}
	return samples, nil
}

func toFloat32(buf *gaudio.IntBuffer, bitDepth int) []float32 {
	if bitDepth <= 0 || bitDepth > 32 {
		bitDepth = 16
	}
	scale := float32(int64(1) << (bitDepth - 1))
	out := make([]float32, len(buf.Data))
	for i, v := range buf.Data {
		out[i] = float32(v) / scale
	}
	return out
}

// downmix averages interleaved channels into mono.
func downmix(in []float32, channels int) []float32 {
	out := make([]float32, 0, len(in)/channels)
	for i := 0; i+channels <= len(in); i += channels {
		var sum float32
		for c := 0; c < channels; c++ {
			sum += in[i+c]
		}
		out = append(out, sum/float32(channels))
	}
	return out
}

func resampleLinear(in []float32, srcSR, dstSR int) []float32 {
	if srcSR == dstSR || len(in) == 0 {
		out := make([]float32, len(in))
		copy(out, in)
		return out
	}
	ratio := float64(dstSR) / float64(srcSR)
	outLen := int(float64(len(in))*ratio + 0.9999)
	out := make([]float32, outLen)
	for i := 0; i < outLen; i++ {
		pos := float64(i) / ratio
		idx := int(pos)
		if idx >= len(in)-1 {
			out[i] = in[len(in)-1]
			continue
		}
		frac := float32(pos - float64(idx))
		out[i] = in[idx]*(1-frac) + in[idx+1]*frac
	}
	return out
}
