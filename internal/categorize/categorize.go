// Package categorize turns a raw pulse stream into a stream of
// classified pulses (too-short, short, medium, long, too-long), using
// the same two-stage approach as the original tape reader: detect header
// tones to find the boundaries of independently-clocked data blocks,
// then search the pulse-length histogram within each block for the best
// S/M/L break points before classifying every pulse in it.
package categorize

import (
	"math"

	"tapesalvage/internal/constants"
	"tapesalvage/internal/pulse"

	"gonum.org/v1/gonum/stat"
)

// Class is the category assigned to one pulse.
type Class int

const (
	TooShort Class = iota
	Short
	Medium
	Long
	TooLong
)

func (c Class) String() string {
	switch c {
	case TooShort:
		return "<"
	case Short:
		return "s"
	case Medium:
		return "m"
	case Long:
		return "l"
	case TooLong:
		return ">"
	default:
		return "?"
	}
}

// Pulse is a pulse.Pulse augmented with its length in tape-clock cycles,
// its assigned class, and the SM breakpoint in effect when it was
// classified (used later to estimate tape play speed).
type Pulse struct {
	pulse.Pulse
	Cycles       float64
	Class        Class
	HeaderBreak  bool
	SMBreakpoint float64
}

// Normalise converts every pulse's length from seconds to tape-clock
// cycles and flags the pulses that mark the start of a header tone: a
// long run of near-constant-length pulses, re-detected no more than once
// every HeaderToneHoldSec seconds so that a single long header tone
// doesn't fragment the tape into hundreds of tiny calibration windows.
func Normalise(pulses []pulse.Pulse) []Pulse {
	out := make([]Pulse, len(pulses))
	var lastHeaderTime float64
	haveLastHeaderTime := false

	for i, p := range pulses {
		out[i] = Pulse{Pulse: p, Cycles: p.LengthSec / constants.TapeClockPeriodSec}

		if i%constants.HeaderToneStride != 0 {
			continue
		}
		end := i + constants.HeaderToneWindow
		if end > len(pulses) {
			end = len(pulses)
		}
		if end-i < 2 {
			continue
		}
		window := make([]float64, end-i)
		for j := i; j < end; j++ {
			window[j-i] = pulses[j].LengthSec
		}
		mean, std := stat.MeanStdDev(window, nil)
		if mean == 0 || std >= mean*constants.HeaderToneStdFrac {
			continue
		}
		if haveLastHeaderTime && p.TimeSec-lastHeaderTime <= constants.HeaderToneHoldSec {
			continue
		}
		lastHeaderTime = p.TimeSec
		haveLastHeaderTime = true
		out[i].HeaderBreak = true
	}

	return out
}

// Categorise assigns a Class to every pulse, re-deriving the S/M/L
// breakpoints from the pulse-length histogram at the start of each
// header-tone-delimited segment.
func Categorise(pulses []Pulse, defaults constants.Breakpoints) []Pulse {
	if len(pulses) == 0 {
		return pulses
	}

	thresholds := analyseHistogram(pulses, 0, defaults)
	for i := range pulses {
		if pulses[i].HeaderBreak {
			thresholds = analyseHistogram(pulses, i, defaults)
		}
		pulses[i].Class = classify(pulses[i].Cycles, thresholds)
		pulses[i].SMBreakpoint = thresholds.SM
	}
	return pulses
}

func classify(cycles float64, t constants.Breakpoints) Class {
	switch {
	case cycles < t.SMin:
		return TooShort
	case cycles < t.SM:
		return Short
	case cycles < t.ML:
		return Medium
	case cycles < t.LMax:
		return Long
	default:
		return TooLong
	}
}

type zeroString struct {
	center   float64
	weight   float64
	smOffset float64
	mlOffset float64
}

// analyseHistogram finds the best S/M and M/L break points within the
// segment of pulses starting at startIndex and running until the next
// header break (or the end of the tape), by looking for gaps in the
// histogram of pulse lengths closest to where the default breakpoints
// expect them.
func analyseHistogram(pulses []Pulse, startIndex int, defaults constants.Breakpoints) constants.Breakpoints {
	result := defaults

	endIndex := startIndex + 1
	for endIndex < len(pulses) && !pulses[endIndex].HeaderBreak {
		endIndex++
	}
	sampleCount := endIndex - startIndex
	if sampleCount <= constants.HistogramMinPulses {
		return result
	}

	numBins := int(constants.HistogramMaxCycles * constants.HistogramBinsPerCycle)
	histogram := make([]float64, numBins)
	for i := startIndex; i < endIndex; i++ {
		bin := int(pulses[i].Cycles * constants.HistogramBinsPerCycle)
		if bin > 0 && bin < numBins {
			histogram[bin]++
		}
	}
	for i := range histogram {
		histogram[i] /= float64(sampleCount)
	}

	var zeroStrings []zeroString
	h := int(defaults.SMin)
	for h < numBins {
		if histogram[h] >= constants.HistogramEmptyWeight {
			h++
			continue
		}
		start := h
		for h < numBins && histogram[h] < constants.HistogramEmptyWeight {
			h++
		}
		end := h
		if end < numBins {
			length := float64(end - start)
			center := float64(start+end) / 2 / constants.HistogramBinsPerCycle
			zeroStrings = append(zeroStrings, zeroString{
				center:   center,
				weight:   length,
				smOffset: math.Abs(center-defaults.SM) / (2 + length),
				mlOffset: math.Abs(center-defaults.ML) / (2 + length),
			})
		}
		h++
	}

	if len(zeroStrings) > 3 {
		best := 0
		for i, z := range zeroStrings {
			if z.smOffset < zeroStrings[best].smOffset {
				best = i
			}
		}
		result.SM = zeroStrings[best].center
		remaining := append(zeroStrings[:best:best], zeroStrings[best+1:]...)

		best = 0
		for i, z := range remaining {
			if z.mlOffset < remaining[best].mlOffset {
				best = i
			}
		}
		result.ML = remaining[best].center
	}

	return result
}
