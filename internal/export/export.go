// Package export writes the files recovered from a tape's merged block
// list out to a directory, following the KERNAL's own framing: a HEAD
// block carries a filename and precedes either a DATA payload or a
// string of SEQ_ blocks, and every block is recorded twice so duplicate
// copies must be filtered before anything is written.
package export

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"tapesalvage/internal/block"
	"tapesalvage/internal/idx"
	"tapesalvage/internal/petscii"
	"tapesalvage/internal/reconcile"
)

// IdxTolerance is how many bytes a recovered block's cumulative stream
// position may differ from an .idx entry's recorded position and still be
// considered a match for that entry's name, matching the proximity
// tolerance the original tool allows when .tap header sizes are counted
// inconsistently between tools.
const IdxTolerance = 32

// Result describes one file written to the output directory.
type Result struct {
	Filename string
	Path     string
	Bytes    int
}

var illegalPathChar = regexp.MustCompile(`/`)

// Files writes every recoverable HEAD/DATA/SEQ_ block in merged to
// outputDir, skipping duplicate second-copy blocks and blocks with
// checksum errors, and returns a record of what was written.
//
// A HEAD block supplies a filename for whatever follows it: either a
// single DATA block (a PRG-style file) or a run of SEQ_ blocks, whose
// payloads are concatenated into one text file. A DATA block seen
// without a preceding filename is exported as "<untitled>", unless
// idxEntries supplies a name recorded near this point in the stream.
func Files(merged []reconcile.MergedBlock, outputDir string, idxEntries ...idx.IDXEntry) ([]Result, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("export: creating %s: %w", outputDir, err)
	}

	var results []Result
	index := 0
	latestFilename := "<untitled>"
	var lastCopyZeroHash uint32
	haveLastCopyZeroHash := false
	var seq string
	streamOffset := 0

	flushSeq := func() error {
		if len(seq) == 0 {
			return nil
		}
		r, err := writeFile(outputDir, latestFilename, []byte(seq), index)
		if err != nil {
			return err
		}
		results = append(results, r)
		index++
		seq = ""
		return nil
	}

	for _, m := range merged {
		if m.Copy == block.CopySecond && haveLastCopyZeroHash && m.Hash == lastCopyZeroHash {
			continue
		}
		if m.Copy == block.CopyFirst {
			lastCopyZeroHash = m.Hash
			haveLastCopyZeroHash = true
		}

		switch m.Kind {
		case block.Header:
			filename := petscii.DecodeDisplayText(m.Bytes[5:])
			if err := flushSeq(); err != nil {
				return results, err
			}
			latestFilename = filename

		case block.Sequential:
			seq += petscii.DecodeDisplayText(m.Bytes[5:])

		case block.Data:
			if len(seq) > 0 {
				if err := flushSeq(); err != nil {
					return results, err
				}
				latestFilename = "<untitled>"
			}
			if latestFilename == "<untitled>" {
				if name, ok := idx.Lookup(idxEntries, streamOffset, IdxTolerance); ok {
					latestFilename = name
				}
			}
			r, err := writeFile(outputDir, latestFilename, m.Bytes, index)
			if err != nil {
				return results, err
			}
			results = append(results, r)
			index++
			latestFilename += "_"
			seq = ""

		default:
			continue
		}

		streamOffset += len(m.Bytes)
	}

	if err := flushSeq(); err != nil {
		return results, err
	}

	return results, nil
}

func writeFile(outputDir, name string, data []byte, index int) (Result, error) {
	safeName := fmt.Sprintf("%02d_%s", index, illegalPathChar.ReplaceAllString(name, `\`))
	path := filepath.Join(outputDir, safeName)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return Result{}, fmt.Errorf("export: writing %s: %w", path, err)
	}
	return Result{Filename: safeName, Path: path, Bytes: len(data)}, nil
}
