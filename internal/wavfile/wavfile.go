// Package wavfile decodes a WAV recording of a cassette tape into the
// per-channel sample streams the rest of the pipeline operates on.
package wavfile

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/wav"
)

// Stream is one decoded audio channel, normalised to [-1, 1].
type Stream struct {
	Samples      []float64
	SampleRate   float64
	PeakAmplitude float64
}

// File holds every channel decoded from a WAV file.
type File struct {
	Channels []Stream
	Path     string
}

// Open reads and fully decodes a WAV file. Only integer PCM encodings are
// supported, matching the tape-capture format produced by every cassette
// digitiser in common use.
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("wavfile: opening %s: %w", path, err)
	}
	defer f.Close()

	file, err := Decode(f, path)
	if err != nil {
		return nil, err
	}
	return file, nil
}

// Decode decodes WAV audio from an arbitrary reader. path is used only for
// error messages.
func Decode(r io.Reader, path string) (*File, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("wavfile: %s is not a valid WAV file", path)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("wavfile: decoding %s: %w", path, err)
	}
	if buf.Format == nil || buf.Format.NumChannels < 1 {
		return nil, fmt.Errorf("wavfile: %s has no usable channel format", path)
	}

	numChans := buf.Format.NumChannels
	sampleRate := float64(buf.Format.SampleRate)
	maxAmplitude := math.Pow(2, float64(dec.BitDepth))

	frames := len(buf.Data) / numChans
	channels := make([]Stream, numChans)
	for c := range channels {
		channels[c] = Stream{
			Samples:    make([]float64, frames),
			SampleRate: sampleRate,
		}
	}

	for i := 0; i < frames; i++ {
		for c := 0; c < numChans; c++ {
			raw := float64(buf.Data[i*numChans+c])
			norm := raw / (maxAmplitude / 2)
			channels[c].Samples[i] = norm
			if abs := math.Abs(norm); abs > channels[c].PeakAmplitude {
				channels[c].PeakAmplitude = abs
			}
		}
	}

	return &File{Channels: channels, Path: path}, nil
}
