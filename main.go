package main

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/kapitanov/chip8core/internal/vm"
)

type host interface {
	vm.HAL
	Shutdown()
}

func main() {
	cmd := &cobra.Command{
		Use:           fmt.Sprintf("%s PATH_TO_ROM_FILE", filepath.Base(os.Args[0])),
		Short:         "Run a CHIP-8 program",
		Args:          cobra.ExactArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	display := displaySDL
	onUnknown := unknownPolicy(vm.PolicyHalt)

	flags := cmd.Flags()
	verbose := flags.BoolP("verbose", "v", false, "enable verbose logging")
	cpuHz := flags.Int("cpu-hz", vm.DefaultClockHz, "instructions executed per second")
	seed := flags.Uint64("seed", 0, "seed for the random number generator (0 seeds from the clock)")
	indexQuirk := flags.Bool("quirk-index-increment", false, "FX55/FX65 advance I past the last register")
	flags.Var(&display, "display", "display backend: sdl or term")
	flags.Var(&onUnknown, "on-unknown", "what to do on an unknown opcode: halt or continue")

	cmd.RunE = func(_ *cobra.Command, args []string) error {
		loggerOpts := &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}
		if *verbose {
			loggerOpts.Level = slog.LevelDebug
		}

		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, loggerOpts)))

		if *cpuHz <= 0 {
			return fmt.Errorf("--cpu-hz must be positive, got %d", *cpuHz)
		}

		path := args[0]
		bs, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("unable to load file %q: %w", path, err)
		}

		opts := vm.Options{
			Quirks: vm.Quirks{LoadStoreIncrementsIndex: *indexQuirk},
		}
		if *seed != 0 {
			opts.Rand = rand.New(rand.NewPCG(*seed, *seed))
		}
		machine := vm.New(opts)

		// Fail on a bad image before taking over the screen.
		if err := machine.LoadProgram(bs); err != nil {
			return fmt.Errorf("unable to load program %q: %w", path, err)
		}

		h, err := newHost(display)
		if err != nil {
			return fmt.Errorf("unable to initialize %s display: %w", display, err)
		}
		defer h.Shutdown()

		runOpts := vm.RunOptions{
			ClockHz:         *cpuHz,
			OnUnknownOpcode: vm.Policy(onUnknown),
		}

		for {
			machine.Reset()
			if err := machine.LoadProgram(bs); err != nil {
				return err
			}

			err = machine.Run(h, runOpts)

			if isAny(err, quitErrors) {
				return nil
			}

			if isAny(err, rebootErrors) {
				slog.Info("reboot")
				continue
			}

			return err
		}
	}

	cmd.SetArgs(os.Args[1:])
	if err := cmd.Execute(); err != nil {
		slog.Error("fatal error", "err", err)
		os.Exit(1)
	}
}

func isAny(err error, targets []error) bool {
	for _, target := range targets {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
