// Package tapfile reads and writes C64-TAPE-RAW (.tap) containers: the
// bit-exact pulse-stream format emulators load, produced here from the
// reconciled pulse list and, when reading an existing TAP, exposed back
// as a list of pulse lengths in seconds.
package tapfile

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"os"

	"tapesalvage/internal/categorize"
	"tapesalvage/internal/constants"
)

// File is a parsed TAP container: its declared version and the raw pulse
// length bytes that follow the 20-byte header.
type File struct {
	Version byte
	Pulses  []byte
}

// Read opens, validates and parses a .tap file (v0 or v1). It checks the
// file signature, version and the declared-vs-actual data size before
// returning the pulse bytes.
func Read(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("tapfile: opening %s: %w", path, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("tapfile: reading %s: %w", path, err)
	}

	if len(data) < constants.TapHeaderSize {
		return nil, fmt.Errorf("tapfile: %s too short (%d bytes, need at least %d)", path, len(data), constants.TapHeaderSize)
	}

	signature := data[0:12]
	if !bytes.Equal(signature, []byte(constants.TapSignatureC64)) {
		return nil, fmt.Errorf("tapfile: %s has bad signature (got %q)", path, signature)
	}

	version := data[12]
	if version > constants.TapMaxVersionSupport {
		return nil, fmt.Errorf("tapfile: %s uses unsupported version %d", path, version)
	}

	declaredLen := binary.LittleEndian.Uint32(data[16:20])
	actualLen := uint32(len(data) - constants.TapHeaderSize)
	if declaredLen != actualLen {
		return nil, fmt.Errorf("tapfile: %s declares %d pulse bytes but has %d", path, declaredLen, actualLen)
	}

	return &File{Version: version, Pulses: data[constants.TapHeaderSize:]}, nil
}

// PulseLengthsSec converts a TAP v0 pulse byte stream back into pulse
// lengths in seconds, at the given tape clock period. A zero byte in a
// v0 file means an overlong pulse that the format can't represent; it is
// returned as-is (zero), leaving interpretation to the caller.
func (f *File) PulseLengthsSec(clockPeriodSec float64) []float64 {
	out := make([]float64, len(f.Pulses))
	for i, b := range f.Pulses {
		out[i] = float64(b) * clockPeriodSec
	}
	return out
}

// Write emits a TAP v0 container for a list of pulses, at the given tape
// clock period and play-speed correction factor. Pulse lengths that
// don't fit in a single byte (0 or >= 255 cycles) are written as 0,
// matching the original tool's "unrepresentable pulse" convention.
func Write(path string, pulses []categorize.Pulse, clockPeriodSec, playSpeed float64) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("tapfile: creating %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteTo(f, pulses, clockPeriodSec, playSpeed); err != nil {
		return fmt.Errorf("tapfile: writing %s: %w", path, err)
	}
	return nil
}

// WriteTo writes a TAP v0 container to an arbitrary writer.
func WriteTo(w io.Writer, pulses []categorize.Pulse, clockPeriodSec, playSpeed float64) error {
	var buf bytes.Buffer
	buf.WriteString(constants.TapSignatureC64)
	buf.WriteByte(0) // version
	buf.Write([]byte{0, 0, 0})

	var lengthField [4]byte
	binary.LittleEndian.PutUint32(lengthField[:], uint32(len(pulses)))
	buf.Write(lengthField[:])

	timeUnit := clockPeriodSec
	if playSpeed != 0 {
		timeUnit = clockPeriodSec / playSpeed
	}

	for _, p := range pulses {
		// The small tolerance keeps a length of exactly n cycles from
		// truncating to n-1 through floating-point rounding.
		lengthInt := int(p.LengthSec/timeUnit + 1e-9)
		if lengthInt <= 0 || lengthInt >= 255 {
			lengthInt = 0
		}
		buf.WriteByte(byte(lengthInt))
	}

	_, err := w.Write(buf.Bytes())
	return err
}
