package basiclisting

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

// program builds a two-line tokenized BASIC payload (load address 0x0801,
// i.e. byte[1] == 8) followed by the zero-link sentinel that ends a
// listing: line 10 prints the PRINT token unquoted, line 20 contains the
// same token byte inside quotes, where it must render literally instead
// of being expanded.
func program() []byte {
	return []byte{
		0x07, 0x08, 10, 0, 0x99, 0x00, // line 10: PRINT token, next line @ 0x0807
		0x0F, 0x08, 20, 0, 0x22, 0x99, 0x22, 0x00, // line 20: "<0x99>", next line @ 0x080F
		0x00, 0x00, // end-of-program sentinel
	}
}

func TestFromBytesWalksLinkPointerChainAcrossLines(t *testing.T) {
	listing := FromBytes(program())
	assert.Equal(t, 2, listing.Lines)
	assert.False(t, listing.Truncated)
	assert.Contains(t, listing.Text, "10")
	assert.Contains(t, listing.Text, "20")
}

func TestFromBytesSuppressesTokenSubstitutionInsideQuotes(t *testing.T) {
	listing := FromBytes(program())
	assert.Equal(t, 1, strings.Count(listing.Text, "PRINT"), "the quoted 0x99 byte on line 20 must not expand to PRINT")
}

func TestFromBytesStopsOnIllegalNextLineAddress(t *testing.T) {
	// A line whose link pointer refers back to its own start never
	// advances pos, so the detokenizer must bail out instead of looping.
	b := []byte{0x01, 0x08, 10, 0, 0x80, 0x00}
	listing := FromBytes(b)
	assert.True(t, listing.Truncated)
	assert.Equal(t, 0, listing.Lines)
	assert.Contains(t, listing.Text, "ILLEGAL NEXT LINE ADDRESS")
}

func TestFromBytesReportsTruncatedOnShortInput(t *testing.T) {
	listing := FromBytes([]byte{1, 2})
	assert.True(t, listing.Truncated)
	assert.Contains(t, listing.Text, "TOO SHORT")
}

func TestLooksLikeBasicAcceptsStandardLoadAddresses(t *testing.T) {
	assert.True(t, LooksLikeBasic([]byte{0x00, 0x08})) // 0x0801
	assert.True(t, LooksLikeBasic([]byte{0x00, 0x10})) // 0x1001
	assert.False(t, LooksLikeBasic([]byte{0x00, 0x99}))
	assert.False(t, LooksLikeBasic([]byte{0x00}))
}
