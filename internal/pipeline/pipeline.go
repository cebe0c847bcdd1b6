// Package pipeline wires the decode, reconcile, export and TAP-write
// stages together into the single end-to-end operation the CLI drives:
// load a WAV recording, run every (channel, polarity) pass over it,
// reconcile the results into one block list, and write out whatever the
// caller asked for.
package pipeline

import (
	"context"
	"fmt"

	"tapesalvage/internal/constants"
	"tapesalvage/internal/export"
	"tapesalvage/internal/idx"
	"tapesalvage/internal/reconcile"
	"tapesalvage/internal/tapfile"
	"tapesalvage/internal/wavfile"
)

// Options configures one run of the pipeline.
type Options struct {
	InputPath    string
	OutputDir    string
	TapPath      string // empty skips TAP emission
	IdxPath      string // optional: known filenames for untitled DATA blocks
	Machine      constants.MachineFamily
	Breakpoints  constants.Breakpoints
	MinAmpFrac   float64
	FixPlaySpeed bool
}

// Result summarises what one run recovered.
type Result struct {
	Merged        []reconcile.MergedBlock
	Files         []export.Result
	TapePlaySpeed float64
	TapWritten    bool
}

// Run executes the whole recovery pipeline described by opts.
func Run(ctx context.Context, opts Options) (Result, error) {
	wav, err := wavfile.Open(opts.InputPath)
	if err != nil {
		return Result{}, fmt.Errorf("pipeline: opening %s: %w", opts.InputPath, err)
	}

	minAmp := opts.MinAmpFrac
	if minAmp == 0 {
		minAmp = constants.MinAmpFrac
	}

	channels := make([]reconcile.Channel, len(wav.Channels))
	for i, s := range wav.Channels {
		channels[i] = reconcile.Channel{Samples: s.Samples, SampleRate: s.SampleRate}
	}

	passResults, err := reconcile.RunAllPasses(ctx, channels, minAmp, opts.Breakpoints)
	if err != nil {
		return Result{}, fmt.Errorf("pipeline: reconciling %s: %w", opts.InputPath, err)
	}

	merged := reconcile.Merge(passResults)
	playSpeed := reconcile.MeanTapePlaySpeed(passResults)

	result := Result{Merged: merged, TapePlaySpeed: playSpeed}

	if opts.OutputDir != "" {
		var idxEntries []idx.IDXEntry
		if opts.IdxPath != "" {
			idxEntries, err = idx.ReadIDX(opts.IdxPath)
			if err != nil {
				return result, fmt.Errorf("pipeline: reading idx file: %w", err)
			}
		}

		files, err := export.Files(merged, opts.OutputDir, idxEntries...)
		if err != nil {
			return result, fmt.Errorf("pipeline: exporting files: %w", err)
		}
		result.Files = files
	}

	if opts.TapPath != "" {
		speed := 1.0
		if opts.FixPlaySpeed {
			speed = playSpeed
		}
		pulses := reconcile.BestPulses(passResults)
		if err := tapfile.Write(opts.TapPath, pulses, constants.TapeClockPeriodSec, speed); err != nil {
			return result, fmt.Errorf("pipeline: writing TAP: %w", err)
		}
		result.TapWritten = true
	}

	return result, nil
}
