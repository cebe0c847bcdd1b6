// Package pulse turns a raw sample stream into a list of wave-cycle
// pulses by detecting downward (or, when inverted, upward) zero
// crossings with amplitude hysteresis.
package pulse

import "math"

// Pulse describes one wave cycle: the time its leading edge was seen, and
// its duration.
type Pulse struct {
	TimeSec   float64
	LengthSec float64
}

// DetectZeroCrossings returns the times, in seconds, of every downward
// zero crossing in samples. A crossing is only counted once the signal
// has risen above minAmpFrac of the stream's peak amplitude since the
// last crossing, so that noise in near-silent sections of the tape
// doesn't produce spurious crossings. When invert is true the signal is
// negated first, turning downward crossings into what were upward
// crossings in the original recording — this is how the reconciler
// explores both tape polarities without re-reading the file.
func DetectZeroCrossings(samples []float64, sampleRate, minAmpFrac float64, invert bool) []float64 {
	peak := peakAmplitude(samples)
	threshold := minAmpFrac * peak

	var crossings []float64
	seenAdequateAmplitude := false
	wasAboveZero := false

	for i, raw := range samples {
		v := raw
		if invert {
			v = -v
		}

		if v > threshold {
			seenAdequateAmplitude = true
		}

		if v < 0 && wasAboveZero && seenAdequateAmplitude {
			crossings = append(crossings, float64(i)/sampleRate)
			seenAdequateAmplitude = false
		}

		wasAboveZero = v >= 0
	}

	return crossings
}

func peakAmplitude(samples []float64) float64 {
	peak := 0.0
	for _, s := range samples {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	return peak
}

// ExtractPulses converts a list of zero-crossing times into pulses: the
// interval between two consecutive crossings is one wave cycle.
func ExtractPulses(crossingTimes []float64) []Pulse {
	if len(crossingTimes) < 2 {
		return nil
	}
	pulses := make([]Pulse, 0, len(crossingTimes)-1)
	for i := 1; i < len(crossingTimes); i++ {
		pulses = append(pulses, Pulse{
			TimeSec:   crossingTimes[i-1],
			LengthSec: crossingTimes[i] - crossingTimes[i-1],
		})
	}
	return pulses
}
