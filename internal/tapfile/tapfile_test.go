package tapfile

import (
	"bytes"
	"testing"

	"tapesalvage/internal/categorize"
	"tapesalvage/internal/constants"
	"tapesalvage/internal/pulse"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestWriteToProducesExactHeader(t *testing.T) {
	var buf bytes.Buffer
	err := WriteTo(&buf, nil, constants.TapeClockPeriodSec, 1.0)
	require.NoError(t, err)

	data := buf.Bytes()
	require.Len(t, data, constants.TapHeaderSize)
	assert.Equal(t, []byte(constants.TapSignatureC64), data[0:12])
	assert.Equal(t, byte(0), data[12])
	assert.Equal(t, []byte{0, 0, 0}, data[13:16])
	assert.Equal(t, []byte{0, 0, 0, 0}, data[16:20])
}

func TestWriteToEncodesFiveKnownPulses(t *testing.T) {
	pulses := make([]categorize.Pulse, 5)
	for i := range pulses {
		cycles := float64(10 * (i + 1))
		pulses[i] = categorize.Pulse{Pulse: pulse.Pulse{LengthSec: cycles * constants.TapeClockPeriodSec}}
	}

	var buf bytes.Buffer
	require.NoError(t, WriteTo(&buf, pulses, constants.TapeClockPeriodSec, 1.0))

	data := buf.Bytes()
	require.Len(t, data, constants.TapHeaderSize+5)
	for i := 0; i < 5; i++ {
		assert.Equal(t, byte(10*(i+1)), data[constants.TapHeaderSize+i])
	}
}

func TestWriteToClampsUnrepresentablePulsesToZero(t *testing.T) {
	pulses := []categorize.Pulse{
		{Pulse: pulse.Pulse{LengthSec: 0}},
		{Pulse: pulse.Pulse{LengthSec: 300 * constants.TapeClockPeriodSec}},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteTo(&buf, pulses, constants.TapeClockPeriodSec, 1.0))

	data := buf.Bytes()
	assert.Equal(t, byte(0), data[constants.TapHeaderSize])
	assert.Equal(t, byte(0), data[constants.TapHeaderSize+1])
}

// TestPulseLengthRoundTripStaysBounded is a property test: for any
// pulse-cycle count in the representable 1..254 range, writing then
// reading it back through PulseLengthsSec recovers a length within one
// clock period of the original.
func TestPulseLengthRoundTripStaysBounded(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		cycles := rapid.IntRange(1, 254).Draw(t, "cycles")
		pulses := []categorize.Pulse{{Pulse: pulse.Pulse{LengthSec: float64(cycles) * constants.TapeClockPeriodSec}}}

		var buf bytes.Buffer
		require.NoError(t, WriteTo(&buf, pulses, constants.TapeClockPeriodSec, 1.0))

		written := buf.Bytes()[constants.TapHeaderSize]
		assert.Equal(t, byte(cycles), written)

		f := &File{Pulses: []byte{written}}
		lengths := f.PulseLengthsSec(constants.TapeClockPeriodSec)
		assert.InDelta(t, float64(cycles)*constants.TapeClockPeriodSec, lengths[0], constants.TapeClockPeriodSec)
	})
}
