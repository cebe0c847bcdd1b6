// Package basiclisting renders a recovered DATA block that contains a
// tokenized Commodore BASIC program as a human-readable listing, the way a
// BASIC "LIST" command would print it. It is diagnostic only: nothing in
// the recovery pipeline depends on its output, and a payload that isn't
// actually BASIC just produces a garbled listing rather than an error.
package basiclisting

import (
	"fmt"
	"strings"

	"tapesalvage/internal/petscii"
)

// Listing is the result of detokenizing one BASIC program: the rendered
// text, how many lines were recognised, and whether an error truncated the
// listing before the whole payload was consumed.
type Listing struct {
	Text      string
	Lines     int
	Truncated bool
}

// FromBytes detokenizes a BASIC program stored as a PRG-less byte stream
// (no leading two-byte load address — that's assumed already stripped by
// whatever produced b, e.g. a PRG's first two bytes). The load address is
// approximated as 256*b[1]+1: the high byte of the first line's link
// pointer, with the low byte taken to be 0x01.
func FromBytes(b []byte) Listing {
	var out strings.Builder

	if len(b) < 5 {
		out.WriteString("?FILE TOO SHORT ERROR\n")
		return Listing{Text: out.String(), Truncated: true}
	}

	loadAddress := 256*int(b[1]) + 1
	pos := 0
	lines := 0

	for {
		remaining := len(b) - pos
		var nextLinePos int

		if remaining >= 2 {
			nextLineAddr := int(b[pos]) + 256*int(b[pos+1])
			if nextLineAddr == 0 {
				return Listing{Text: out.String(), Lines: lines}
			}
			nextLinePos = nextLineAddr - loadAddress
		}

		if remaining < 5 {
			out.WriteString("?FILE TRUNCATED ERROR\n")
			return Listing{Text: out.String(), Lines: lines, Truncated: true}
		}

		lineNumber := int(b[pos+2]) + 256*int(b[pos+3])
		fmt.Fprintf(&out, "%6d ", lineNumber)
		pos += 4

		inQuotes := false
		for pos < len(b) {
			c := b[pos]
			if c == 0 {
				break
			}
			switch {
			case c == 0x22:
				out.WriteByte('"')
				inQuotes = !inQuotes
			case !inQuotes && petscii.BasicTokens[c] != "":
				out.WriteString(petscii.BasicTokens[c])
			case petscii.ControlNames[c] != "":
				fmt.Fprintf(&out, "<%s>", petscii.ControlNames[c])
			default:
				out.WriteRune(petscii.Upper[c])
			}
			pos++
		}

		if nextLinePos <= pos {
			out.WriteString("\n?ILLEGAL NEXT LINE ADDRESS\n")
			return Listing{Text: out.String(), Lines: lines, Truncated: true}
		}

		pos = nextLinePos
		lines++
		out.WriteByte('\n')
	}
}

// LooksLikeBasic reports whether a DATA block's payload plausibly starts a
// tokenized BASIC program: its load address must be one of the standard
// BASIC start addresses used by the KERNAL's default memory map.
func LooksLikeBasic(b []byte) bool {
	if len(b) < 2 {
		return false
	}
	loadAddress := 256*int(b[1]) + 1
	switch loadAddress {
	case 0x0801, 0x1001, 0x1201, 0x1c01:
		return true
	default:
		return false
	}
}
