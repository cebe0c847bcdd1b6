// Package block assembles the framed byte stream into blocks: runs of
// bytes that stayed synchronised, delimited by the KERNAL's four-byte
// countdown sequences, each closed by an XOR checksum over its payload.
package block

import (
	"tapesalvage/internal/constants"
	"tapesalvage/internal/framer"
)

// Kind classifies a finished block by its payload shape.
type Kind int

const (
	Corrupt Kind = iota
	Header
	Data
	Sequential
)

func (k Kind) String() string {
	switch k {
	case Header:
		return "HEAD"
	case Data:
		return "DATA"
	case Sequential:
		return "SEQ_"
	default:
		return "----"
	}
}

// Copy identifies which of the two duplicate recordings of a block this
// is: the KERNAL writes every block twice.
type Copy int

const (
	CopyFirst Copy = iota
	CopySecond
)

// Block is one candidate data block recovered from the byte stream.
type Block struct {
	Copy               Copy
	Bytes              []byte
	ErrorCount         int
	StartTimeSec       float64
	EndTimeSec         float64
	RecordedChecksum   byte
	CalculatedChecksum byte
	PassQC             bool
	Kind               Kind
	Hash               uint32
}

var (
	firstCopyCountdown  = [4]byte{0x84, 0x83, 0x82, 0x81}
	secondCopyCountdown = [4]byte{0x04, 0x03, 0x02, 0x01}
)

func newBlockHeader(copy Copy, t float64) Block {
	return Block{Copy: copy, StartTimeSec: t, EndTimeSec: t}
}

// Assemble groups a stream of framed bytes into blocks. A new candidate
// chunk starts whenever synchronisation was lost or more than
// ChunkGapSec elapsed since the last byte; a block proper only begins
// once one of the KERNAL's two four-byte countdown sequences is seen in
// the chunk, at which point bytes start being recorded into it until the
// chunk ends (a loss of sync or a gap). Countdowns are only looked for
// while not yet synchronised, so one inside a block's payload is recorded
// as payload.
func Assemble(bytes []framer.Byte) []Block {
	var output []Block
	var rawTail []byte
	currentEnd := 0.0
	synchronised := false
	var active *Block

	for _, b := range bytes {
		if b.SyncLost || b.TimeSec > currentEnd+constants.ChunkGapSec {
			synchronised = false
			active = nil
			rawTail = nil
		}

		rawTail = append(rawTail, b.Value)
		if len(rawTail) > 4 {
			rawTail = rawTail[len(rawTail)-4:]
		}
		currentEnd = b.TimeSec

		if active != nil {
			active.Bytes = append(active.Bytes, b.Value)
			active.EndTimeSec = b.TimeSec
			if !b.ParityOK {
				active.ErrorCount++
			}
		}

		if !synchronised && len(rawTail) == 4 {
			var tail [4]byte
			copy(tail[:], rawTail)
			switch tail {
			case firstCopyCountdown:
				output = append(output, newBlockHeader(CopyFirst, b.TimeSec))
				active = &output[len(output)-1]
				synchronised = true
				rawTail = nil
			case secondCopyCountdown:
				output = append(output, newBlockHeader(CopySecond, b.TimeSec))
				active = &output[len(output)-1]
				synchronised = true
				rawTail = nil
			}
		}
	}

	for i := range output {
		finalise(&output[i])
	}
	return output
}

// finalise pops the trailing checksum byte off a block's payload, XORs
// the rest to compute the expected checksum, and classifies the block
// by its final length, matching the KERNAL's own block-type convention.
func finalise(b *Block) {
	if len(b.Bytes) == 0 {
		b.Bytes = []byte{0, 0xff}
	}

	b.RecordedChecksum = b.Bytes[len(b.Bytes)-1]
	b.Bytes = b.Bytes[:len(b.Bytes)-1]

	calculated := byte(0)
	for _, v := range b.Bytes {
		calculated ^= v
	}
	b.CalculatedChecksum = calculated
	b.PassQC = b.ErrorCount == 0 && b.RecordedChecksum == b.CalculatedChecksum

	b.Hash = fnv32(b.Bytes)

	b.Kind = Corrupt
	if b.PassQC {
		if len(b.Bytes) == constants.HeaderBlockLength {
			if len(b.Bytes) > 0 && b.Bytes[0] == 2 {
				b.Kind = Sequential
			} else {
				b.Kind = Header
			}
		} else {
			b.Kind = Data
		}
	}
}

// fnv32 gives each block's payload a short, stable hash used only to
// recognise exact duplicates between a block's two recorded copies.
func fnv32(data []byte) uint32 {
	const (
		offset32 = 2166136261
		prime32  = 16777619
	)
	h := uint32(offset32)
	for _, b := range data {
		h ^= uint32(b)
		h *= prime32
	}
	return h & 0xffffff
}
