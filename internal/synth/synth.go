// Package synth generates a synthetic WAV recording of a cassette signal
// from a list of pulse lengths in cycles of a caller-given clock (at
// 123156 Hz these are the units a TAP file stores). It renders test
// signals without a real cassette recording: each pulse is one cycle of a
// square wave, the same shape the KERNAL itself writes to tape. Only its
// own tests use it; no end-to-end pipeline test is built on it.
package synth

import (
	"bytes"
	"encoding/binary"
	"math"
)

const (
	riffChunkID   = "RIFF"
	waveFormatID  = "WAVE"
	fmtChunkID    = "fmt "
	dataChunkID   = "data"
	pcmFormatTag  = 1
	numChannels   = 1
	bitsPerSample = 16
	blockAlign    = numChannels * bitsPerSample / 8
	fmtChunkSize  = 16
	amplitude     = 28000
)

// PulseTrain renders a sequence of pulse lengths, given in CPU cycles at
// clockHz, as one continuous centered 16-bit square wave at sampleRate:
// each pulse is half a cycle high, half low, matching the signal shape a
// digitised cassette actually produces for one KERNAL pulse.
func PulseTrain(cycles []int, clockHz, sampleRate float64) []int16 {
	var pcm []int16
	for _, c := range cycles {
		n := cyclesToSamples(c, clockHz, sampleRate)
		pcm = append(pcm, wave(n)...)
	}
	return pcm
}

// WAV wraps a PulseTrain-rendered sample buffer in a minimal 16-bit mono
// PCM WAV container.
func WAV(samples []int16, sampleRate int) []byte {
	var buf bytes.Buffer
	dataSize := len(samples) * 2
	writeWAVHeader(&buf, sampleRate, dataSize)
	for _, s := range samples {
		binary.Write(&buf, binary.LittleEndian, s)
	}
	return buf.Bytes()
}

func writeWAVHeader(w *bytes.Buffer, sampleRate, dataSize int) {
	fileSize := 36 + dataSize

	w.WriteString(riffChunkID)
	binary.Write(w, binary.LittleEndian, uint32(fileSize))
	w.WriteString(waveFormatID)

	w.WriteString(fmtChunkID)
	binary.Write(w, binary.LittleEndian, uint32(fmtChunkSize))
	binary.Write(w, binary.LittleEndian, uint16(pcmFormatTag))
	binary.Write(w, binary.LittleEndian, uint16(numChannels))
	binary.Write(w, binary.LittleEndian, uint32(sampleRate))
	binary.Write(w, binary.LittleEndian, uint32(sampleRate*blockAlign))
	binary.Write(w, binary.LittleEndian, uint16(blockAlign))
	binary.Write(w, binary.LittleEndian, uint16(bitsPerSample))

	w.WriteString(dataChunkID)
	binary.Write(w, binary.LittleEndian, uint32(dataSize))
}

func cyclesToSamples(cycles int, clockHz, sampleRate float64) int {
	n := int(math.Floor(float64(cycles) * sampleRate / clockHz))
	if n < 2 {
		n = 2
	}
	return n
}

func wave(n int) []int16 {
	samples := make([]int16, n)
	half := n / 2
	for i := range samples {
		if i < half {
			samples[i] = amplitude
		} else {
			samples[i] = -amplitude
		}
	}
	return samples
}
