// Package reconcile runs the pulse/categorize/framer/block pipeline
// independently across every (channel, polarity) combination a tape
// recording offers, then merges the resulting block lists into a single
// chronological index of the tape, preferring whichever pass recovered
// each block best.
package reconcile

import (
	"context"
	"runtime"
	"sort"

	"tapesalvage/internal/block"
	"tapesalvage/internal/categorize"
	"tapesalvage/internal/constants"
	"tapesalvage/internal/framer"
	"tapesalvage/internal/pulse"

	"golang.org/x/sync/errgroup"
)

// Pass is one (channel, polarity) configuration explored by the
// reconciler.
type Pass struct {
	Channel  int
	Inverted bool
}

// PassResult is everything one pass recovered: its blocks, the
// categorised pulse list (BestPulses picks the best-performing pass's list
// to drive TAP emission), and the estimated tape play speed implied by its
// byte stream.
type PassResult struct {
	Pass           Pass
	Blocks         []block.Block
	Pulses         []categorize.Pulse
	TapePlaySpeed  float64
	BytesRecovered int
}

// AllPasses enumerates every (channel, inversion) combination for a
// stream with numChannels channels.
func AllPasses(numChannels int) []Pass {
	passes := make([]Pass, 0, numChannels*2)
	for c := 0; c < numChannels; c++ {
		passes = append(passes, Pass{Channel: c}, Pass{Channel: c, Inverted: true})
	}
	return passes
}

// RunPass executes the full per-pass pipeline (edge detection through
// block assembly) on one channel's samples.
func RunPass(p Pass, samples []float64, sampleRate float64, minAmpFrac float64, breakpoints constants.Breakpoints) PassResult {
	crossings := pulse.DetectZeroCrossings(samples, sampleRate, minAmpFrac, p.Inverted)
	pulses := pulse.ExtractPulses(crossings)
	normalised := categorize.Normalise(pulses)
	categorised := categorize.Categorise(normalised, breakpoints)
	bytes := framer.Frame(categorised)
	blocks := block.Assemble(bytes)

	speed := 1.0
	if len(bytes) > 0 {
		total := 0.0
		for _, b := range bytes {
			total += b.SMBreakpoint
		}
		mean := total / float64(len(bytes))
		if mean != 0 {
			speed = breakpoints.SM / mean
		}
	}

	recovered := 0
	for _, b := range blocks {
		if b.PassQC {
			recovered += len(b.Bytes)
		}
	}

	return PassResult{Pass: p, Blocks: blocks, Pulses: categorised, TapePlaySpeed: speed, BytesRecovered: recovered}
}

// Channel is the subset of wavfile.Stream the reconciler needs, kept
// narrow so callers outside internal/wavfile can supply it directly.
type Channel struct {
	Samples    []float64
	SampleRate float64
}

// RunAllPasses runs RunPass for every (channel, polarity) combination
// concurrently, bounded by GOMAXPROCS via errgroup, and returns the
// results in pass order. The sample data is only ever read, never
// mutated, so passes require no locking between them.
func RunAllPasses(ctx context.Context, channels []Channel, minAmpFrac float64, breakpoints constants.Breakpoints) ([]PassResult, error) {
	passes := AllPasses(len(channels))
	results := make([]PassResult, len(passes))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, p := range passes {
		i, p := i, p
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			ch := channels[p.Channel]
			results[i] = RunPass(p, ch.Samples, ch.SampleRate, minAmpFrac, breakpoints)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// MergedBlock is a recovered block annotated with every pass that
// produced an equally-good copy of it.
type MergedBlock struct {
	block.Block
	PassIDs []int
}

// Merge combines the block lists from every pass into one chronological
// list, keeping the best-quality recovery of each block and recording
// every pass that agreed with the kept version:
//
//   - a block with no time-overlapping match yet in the merged list is
//     simply appended;
//   - if an existing match passed QC and the new one didn't, the new one
//     is dropped;
//   - if the new one passes QC and the existing one didn't, it replaces
//     the existing one;
//   - if both passed (or failed) QC equally, the new one replaces the
//     existing one when it has at least as many error-free bytes (ties
//     included), carrying forward the union of passes that found it;
//     otherwise the existing one is kept and this pass is added to its
//     provenance.
func Merge(results []PassResult) []MergedBlock {
	const timingMargin = constants.MergeTimingMarginSec

	ranked := make([]int, len(results))
	for i := range ranked {
		ranked[i] = i
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return results[ranked[i]].BytesRecovered > results[ranked[j]].BytesRecovered
	})

	var merged []MergedBlock
	for _, passIdx := range ranked {
		result := results[passIdx]
		for _, b := range result.Blocks {
			matchIdx := -1
			for i, existing := range merged {
				if b.EndTimeSec < existing.StartTimeSec-timingMargin {
					continue
				}
				if b.StartTimeSec > existing.EndTimeSec+timingMargin {
					continue
				}
				matchIdx = i
				break
			}

			switch {
			case matchIdx < 0:
				merged = append(merged, MergedBlock{Block: b, PassIDs: []int{passIdx}})

			case boolToInt(merged[matchIdx].PassQC) > boolToInt(b.PassQC):
				// existing copy is strictly better; drop the new one

			case boolToInt(b.PassQC) > boolToInt(merged[matchIdx].PassQC):
				merged[matchIdx] = MergedBlock{Block: b, PassIDs: []int{passIdx}}

			case len(b.Bytes)-b.ErrorCount >= len(merged[matchIdx].Bytes)-merged[matchIdx].ErrorCount:
				ids := append(append([]int{}, merged[matchIdx].PassIDs...), passIdx)
				merged[matchIdx] = MergedBlock{Block: b, PassIDs: ids}

			default:
				merged[matchIdx].PassIDs = append(merged[matchIdx].PassIDs, passIdx)
			}
		}
	}

	sort.Slice(merged, func(i, j int) bool { return merged[i].StartTimeSec < merged[j].StartTimeSec })
	return merged
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// BestPulses picks the raw categorised pulse list from whichever pass
// recovered the most error-free bytes — the pass the TAP writer should
// draw its pulse stream from.
func BestPulses(results []PassResult) []categorize.Pulse {
	if len(results) == 0 {
		return nil
	}
	best := 0
	for i, r := range results {
		if r.BytesRecovered > results[best].BytesRecovered {
			best = i
		}
	}
	return results[best].Pulses
}

// MeanTapePlaySpeed averages the per-pass tape-speed estimate across
// every pass, including passes that recovered zero bytes (which
// contribute their fallback value of 1.0) — matching the original tool's
// unconditional average over every (channel, polarity) configuration.
func MeanTapePlaySpeed(results []PassResult) float64 {
	if len(results) == 0 {
		return 1.0
	}
	total := 0.0
	for _, r := range results {
		total += r.TapePlaySpeed
	}
	return total / float64(len(results))
}
