// Command tapesalvage recovers files from a WAV recording of an 8-bit
// Commodore cassette tape: it decodes the audio, runs the multi-pass
// reconciler over every channel and polarity, writes whatever recoverable
// files it found to an output directory, and optionally emits an
// emulator-compatible TAP container.
package main

import (
	"fmt"
	"os"

	"tapesalvage/internal/basiclisting"
	"tapesalvage/internal/config"
	"tapesalvage/internal/constants"
	"tapesalvage/internal/pipeline"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	inputPath    string
	outputDir    string
	tapPath      string
	idxPath      string
	machineFlag  string
	configPath   string
	fixPlaySpeed bool
	debug        bool
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tapesalvage",
		Short: "Recover files from a WAV recording of a Commodore cassette tape",
		Long: `tapesalvage decodes a WAV recording of a C64/C128/C16/Plus4 cassette,
reconciles what every channel and polarity recovered, and writes the
recovered files (and optionally a TAP container) to disk.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}

	cmd.Flags().StringVar(&inputPath, "input", "", "input WAV file (required)")
	cmd.Flags().StringVar(&outputDir, "output", "", "output directory for recovered files")
	cmd.Flags().StringVar(&tapPath, "tap", "", "if set, write a TAP file to this path")
	cmd.Flags().StringVar(&idxPath, "idx", "", "optional .idx file of known filenames, by tape position, for untitled blocks")
	cmd.Flags().StringVar(&machineFlag, "machine", "c64", "target machine: c64, c128, c16, plus4")
	cmd.Flags().StringVar(&configPath, "config", "", "optional YAML file of machine breakpoint presets")
	cmd.Flags().BoolVar(&fixPlaySpeed, "fix-play-speed", false, "correct TAP output for estimated tape play speed")
	cmd.Flags().BoolVar(&debug, "debug", false, "verbose diagnostics, including BASIC listings of DATA blocks")
	_ = cmd.MarkFlagRequired("input")

	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true})
	if debug {
		logger.SetLevel(log.DebugLevel)
	}

	machine := constants.MachineFamily(machineFlag)
	switch machine {
	case constants.MachineC64, constants.MachineC128, constants.MachineC16, constants.MachinePlus4:
	default:
		return fmt.Errorf("unknown machine %q (want c64, c128, c16 or plus4)", machineFlag)
	}

	breakpoints, err := config.Load(configPath, machine)
	if err != nil {
		return err
	}
	logger.Debug("resolved breakpoints", "machine", machine, "breakpoints", breakpoints)

	result, err := pipeline.Run(cmd.Context(), pipeline.Options{
		InputPath:    inputPath,
		OutputDir:    outputDir,
		TapPath:      tapPath,
		IdxPath:      idxPath,
		Machine:      machine,
		Breakpoints:  breakpoints,
		FixPlaySpeed: fixPlaySpeed,
	})
	if err != nil {
		logger.Error("recovery failed", "err", err)
		return err
	}

	logger.Info("recovered blocks", "count", len(result.Merged), "tape_play_speed", result.TapePlaySpeed)
	for _, f := range result.Files {
		logger.Info("wrote file", "name", f.Filename, "bytes", f.Bytes)
	}
	if result.TapWritten {
		logger.Info("wrote TAP file", "path", tapPath)
	}

	if debug {
		for _, m := range result.Merged {
			if basiclisting.LooksLikeBasic(m.Bytes) {
				listing := basiclisting.FromBytes(m.Bytes)
				fmt.Fprintf(os.Stderr, "--- BASIC listing (%d lines) ---\n%s\n", listing.Lines, listing.Text)
			}
		}
	}

	return nil
}
