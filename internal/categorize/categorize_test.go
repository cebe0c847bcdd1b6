package categorize

import (
	"testing"

	"tapesalvage/internal/constants"
	"tapesalvage/internal/pulse"

	"github.com/stretchr/testify/assert"
)

func TestClassifyUsesDefaultBreakpoints(t *testing.T) {
	defaults := constants.DefaultBreakpoints(constants.MachineC64)
	pulses := []pulse.Pulse{
		{TimeSec: 0, LengthSec: 5 * constants.TapeClockPeriodSec},
		{TimeSec: 1, LengthSec: 40 * constants.TapeClockPeriodSec},
		{TimeSec: 2, LengthSec: 60 * constants.TapeClockPeriodSec},
		{TimeSec: 3, LengthSec: 90 * constants.TapeClockPeriodSec},
		{TimeSec: 4, LengthSec: 300 * constants.TapeClockPeriodSec},
	}
	normalised := Normalise(pulses)
	categorised := Categorise(normalised, defaults)

	assert.Equal(t, TooShort, categorised[0].Class)
	assert.Equal(t, Short, categorised[1].Class)
	assert.Equal(t, Medium, categorised[2].Class)
	assert.Equal(t, Long, categorised[3].Class)
	assert.Equal(t, TooLong, categorised[4].Class)
}

func TestClassStringMatchesKernalNotation(t *testing.T) {
	assert.Equal(t, "<", TooShort.String())
	assert.Equal(t, "s", Short.String())
	assert.Equal(t, "m", Medium.String())
	assert.Equal(t, "l", Long.String())
	assert.Equal(t, ">", TooLong.String())
}

func TestNormaliseFlagsConsistentToneAsHeaderBreak(t *testing.T) {
	pulses := make([]pulse.Pulse, 600)
	for i := range pulses {
		pulses[i] = pulse.Pulse{TimeSec: float64(i) * 0.001, LengthSec: 0.001}
	}
	normalised := Normalise(pulses)
	assert.True(t, normalised[0].HeaderBreak, "a long run of near-identical pulse lengths should be flagged as a header tone")
}

func TestNormaliseDebouncesRepeatedHeaderBreaks(t *testing.T) {
	pulses := make([]pulse.Pulse, 1200)
	for i := range pulses {
		pulses[i] = pulse.Pulse{TimeSec: float64(i) * 0.001, LengthSec: 0.001}
	}
	normalised := Normalise(pulses)

	breaks := 0
	for _, p := range normalised {
		if p.HeaderBreak {
			breaks++
		}
	}
	assert.Equal(t, 1, breaks, "header breaks within HeaderToneHoldSec of each other should be suppressed")
}
