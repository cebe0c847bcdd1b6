// Package framer turns a stream of classified pulses into a stream of
// bytes, using the Commodore KERNAL's pulse-pair bit encoding: a long
// pulse followed by a medium pulse (or two long pulses) starts a new
// byte, short-then-medium encodes a 0 bit, medium-then-short encodes a
// 1 bit, and long-then-short ends the byte. Each byte carries eight data
// bits plus one odd-parity check bit.
package framer

import "tapesalvage/internal/categorize"

// Byte is one framed byte recovered from the pulse stream.
type Byte struct {
	TimeSec      float64
	Value        byte
	ParityOK     bool
	SMBreakpoint float64
	SyncLost     bool
}

// Frame consumes a stream of categorised pulses, two at a time, and
// emits the bytes it manages to frame. SyncLost is set on the first byte
// produced after an unrecognised pulse pair forced the framer to
// resynchronise.
func Frame(pulses []categorize.Pulse) []Byte {
	var bytes []Byte

	var bits []int
	haveBits := false
	byteStart := 0.0

	seenBreak := true
	syncLost := false

	pos := 0
	for pos < len(pulses)-1 {
		a, b := pulses[pos].Class, pulses[pos+1].Class
		t := pulses[pos].TimeSec
		sm := pulses[pos].SMBreakpoint

		switch {
		case (a == categorize.Long && b == categorize.Medium) || (a == categorize.Long && b == categorize.Long):
			byteStart = t
			bits = []int{}
			haveBits = true

		case a == categorize.Medium && b == categorize.Medium && !haveBits:
			byteStart = t
			bits = []int{}
			haveBits = true

		case a == categorize.Long && b == categorize.Short:
			bits = nil
			haveBits = false

		case a == categorize.Short && b == categorize.Medium:
			if haveBits {
				bits = append(bits, 0)
			}

		case a == categorize.Medium && b == categorize.Short:
			if haveBits {
				bits = append(bits, 1)
			}

		case (a == categorize.Short && b == categorize.Short || a == categorize.Medium && b == categorize.Medium) &&
			haveBits && len(bits) < 9:
			// A same-length pair is a corrupted SM/MS bit: infer its value from
			// which of the two pulses was longer. Only the shorter-pulse-first
			// case is recoverable here, matching the original recovery tool.
			if pulses[pos].LengthSec < pulses[pos+1].LengthSec {
				bits = append(bits, 0)
			}

		default:
			if !seenBreak {
				seenBreak = true
				bits = nil
				haveBits = false
			}
			pos++
			syncLost = true
			continue
		}

		if haveBits && len(bits) == 9 {
			value := byte(0)
			for i := 0; i < 8; i++ {
				if bits[i] != 0 {
					value |= 1 << uint(i)
				}
			}
			parityBit := 1 - bits[8]
			expected := 0
			for i := 0; i < 8; i++ {
				expected += bits[i]
			}
			expected %= 2

			bytes = append(bytes, Byte{
				TimeSec:      byteStart,
				Value:        value,
				ParityOK:     parityBit == expected,
				SMBreakpoint: sm,
				SyncLost:     syncLost,
			})
			syncLost = false
			bits = nil
			haveBits = false
		}

		seenBreak = false
		pos += 2
	}

	return bytes
}
