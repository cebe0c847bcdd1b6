// Package constants holds the fixed numbers that drive the recovery
// pipeline: the KERNAL tape clock, default machine breakpoints, and the
// TAP container layout.
package constants

const (
	// CPU clock frequencies of PAL and NTSC machines. Nothing in the
	// module uses them: the decode pipeline works in tape-clock cycles
	// rather than CPU cycles.
	ClockPAL  = 985248.0
	ClockNTSC = 1022727.0

	// TapeClockPeriodSec is the reference cycle length used to convert a
	// pulse's length in seconds into "cycles" for classification and for
	// the TAP byte stream.
	TapeClockPeriodSec = 1.0 / 123156.0

	// .tap file constants, unchanged from the original C64-TAPE-RAW layout.
	TapHeaderSize        = 20
	TapSignatureC64      = "C64-TAPE-RAW"
	TapMaxVersionSupport = 1

	// MinAmpFrac is the default hysteresis fraction of peak amplitude a
	// sample must exceed before a zero-crossing is emitted.
	MinAmpFrac = 0.15

	// Header tone recognition: every HeaderToneStride pulses, inspect the
	// next HeaderToneWindow pulses; a low coefficient of variation in
	// length marks a header tone. HeaderToneHoldSec debounces repeat
	// detections of the same tone.
	HeaderToneStride  = 100
	HeaderToneWindow  = 500
	HeaderToneStdFrac = 0.025
	HeaderToneHoldSec = 30.0

	// Histogram-based threshold search, run on the pulses between each
	// pair of header breaks.
	HistogramBinsPerCycle = 2.0
	HistogramMaxCycles    = 360
	HistogramMinPulses    = 1000
	HistogramEmptyWeight  = 0.004

	// PulsesInCBMByte is the number of pulses (2 per bit, 9 bits including
	// parity) that make up one framed byte.
	PulsesInCBMByte = 18

	// ChunkGapSec is the maximum gap, in seconds, between consecutive
	// bytes before the block assembler starts a new candidate chunk.
	ChunkGapSec = 0.1

	// MergeTimingMarginSec is the overlap tolerance used when the
	// multi-pass reconciler matches blocks found on different passes.
	MergeTimingMarginSec = 0.1

	// HeaderBlockLength is the fixed byte length of a KERNAL HEADER or
	// SEQ data block.
	HeaderBlockLength = 192
)

// MachineFamily selects the default S/M/L breakpoints before any
// tape-derived recalibration runs.
type MachineFamily string

const (
	MachineC64   MachineFamily = "c64"
	MachineC128  MachineFamily = "c128"
	MachineC16   MachineFamily = "c16"
	MachinePlus4 MachineFamily = "plus4"
)

// Breakpoints holds the S_min / SM / ML / L_max thresholds, in tape-clock
// cycles, used to classify a pulse as too-short, short, medium, long, or
// too-long.
type Breakpoints struct {
	SMin float64
	SM   float64
	ML   float64
	LMax float64
}

// DefaultBreakpoints returns the built-in breakpoints for a machine
// family. C16/Plus4 tape ROM clocks data more slowly than the C64/C128
// KERNAL, hence the wider range.
func DefaultBreakpoints(machine MachineFamily) Breakpoints {
	switch machine {
	case MachineC16, MachinePlus4:
		return Breakpoints{SMin: 0x10, SM: 100, ML: 180, LMax: 300}
	default:
		return Breakpoints{SMin: 0x10, SM: 0x37, ML: 0x4A, LMax: 0xF0}
	}
}
