package vm

import (
	"errors"
	"fmt"
	"log/slog"
)

const (
	FrameRate = 60 // Timer and display rate, Hz

	DefaultClockHz = 700 // Instructions per second
)

// HAL is the host side of the machine. Tone is called once per frame with
// whether the buzzer sounds during that frame.
type HAL interface {
	ReadInput(keyDown func(Key), keyUp func(Key)) error
	Draw(frame []uint8) error
	Tone(on bool) error
	WaitForNextFrame() error
}

// Policy decides what the driver does when a cycle reports ErrUnknownOpcode.
type Policy int

const (
	PolicyHalt Policy = iota
	PolicyContinue
)

func (p Policy) String() string {
	switch p {
	case PolicyHalt:
		return "halt"
	case PolicyContinue:
		return "continue"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

type RunOptions struct {
	ClockHz         int // Instructions per second, DefaultClockHz when <= 0
	OnUnknownOpcode Policy
}

// Run drives the machine until the HAL or the program reports an error.
// Each frame it polls input, executes the frame's share of ClockHz
// instructions, ticks the timers once, presents the screen and waits for the
// next frame. The share is ClockHz/FrameRate with the remainder carried to
// later frames, so a second of frames runs exactly ClockHz instructions.
//
// A program that jumps to itself stops executing instructions; frames and
// timers keep going so the host can still quit or reboot.
func (vm *VM) Run(hal HAL, opts RunOptions) error {
	if opts.ClockHz <= 0 {
		opts.ClockHz = DefaultClockHz
	}

	d := driver{vm: vm, hal: hal, opts: opts}
	for {
		if err := d.frame(); err != nil {
			return err
		}
	}
}

type driver struct {
	vm   *VM
	hal  HAL
	opts RunOptions

	looped bool
	credit int // Clock ticks not yet spent on a whole instruction
}

func (d *driver) frame() error {
	if err := d.hal.ReadInput(d.vm.keyDown, d.vm.keyUp); err != nil {
		return err
	}

	if !d.looped {
		if err := d.runCycles(); err != nil {
			return err
		}
	}

	if err := d.hal.Tone(d.vm.TickTimers()); err != nil {
		return err
	}

	if d.vm.DrawFlag() {
		if err := d.hal.Draw(d.vm.Frame()); err != nil {
			return err
		}
		d.vm.ClearDrawFlag()
	}

	return d.hal.WaitForNextFrame()
}

func (d *driver) cyclesForFrame() int {
	d.credit += d.opts.ClockHz
	n := d.credit / FrameRate
	d.credit %= FrameRate
	return n
}

func (d *driver) runCycles() error {
	n := d.cyclesForFrame()
	for i := 0; i < n; i++ {
		pc, sp := d.vm.PC(), d.vm.SP()

		err := d.vm.Cycle()
		if err != nil {
			if errors.Is(err, ErrUnknownOpcode) && d.opts.OnUnknownOpcode == PolicyContinue {
				slog.Warn("skip instruction", "err", err)
				continue
			}
			return err
		}

		// A call to its own address also keeps PC but grows the stack
		// until it overflows.
		if d.vm.PC() == pc && d.vm.SP() == sp && !d.vm.WaitingForKey() {
			slog.Info("program looped", "pc", fmt.Sprintf("0x%04x", pc))
			d.looped = true
			return nil
		}

		if d.vm.WaitingForKey() {
			return nil
		}
	}

	return nil
}
