//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

// Package term runs the machine inside an ANSI terminal: the screen is drawn
// with half-block glyphs and the pad is read from raw stdin.
package term

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	tm "github.com/buger/goterm"
	"golang.org/x/sys/unix"

	"github.com/kapitanov/chip8core/internal/vm"
)

var (
	ErrReboot = errors.New("reboot")
	ErrQuit   = errors.New("quit")
)

// Terminals report no key releases, a key counts as held for this many frames
// after its last byte arrived.
const KeyHoldFrames = 8

type HAL struct {
	fd      int
	restore unix.Termios

	keys   keyLatch
	ticker *time.Ticker
	tone   bool
	buf    []byte
}

var _ vm.HAL = (*HAL)(nil)

func New() (*HAL, error) {
	fd := int(os.Stdin.Fd())

	restore, err := enterRawMode(fd)
	if err != nil {
		return nil, fmt.Errorf("failed to enter raw terminal mode: %w", err)
	}
	slog.Debug("term: raw mode")

	tm.Clear()
	tm.Output.WriteString("\033[?25l") // hide cursor
	tm.Output.Flush()

	return &HAL{
		fd:      fd,
		restore: restore,
		keys:    newKeyLatch(KeyHoldFrames),
		ticker:  time.NewTicker(time.Second / vm.FrameRate),
		buf:     make([]byte, 64),
	}, nil
}

func (h *HAL) Shutdown() {
	h.ticker.Stop()

	tm.Output.WriteString("\033[?25h" + tm.RESET + "\r\n")
	tm.Output.Flush()

	if err := exitRawMode(h.fd, h.restore); err != nil {
		slog.Error("failed to restore terminal", "err", err)
	}
}

func (h *HAL) ReadInput(keyDown func(vm.Key), keyUp func(vm.Key)) error {
	for {
		n, err := unix.Read(h.fd, h.buf)
		if err != nil {
			if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EINTR) {
				break
			}
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		if n == 0 {
			break
		}

		for _, b := range h.buf[:n] {
			switch b {
			case 0x03, 0x1b: // Ctrl-C, Esc
				slog.Debug("term: exit requested")
				return ErrQuit
			case 0x08, 0x7f: // Backspace
				return ErrReboot
			}

			if key, ok := keyMap(b); ok {
				h.keys.press(key, keyDown)
			}
		}
	}

	h.keys.advance(keyUp)
	return nil
}

func (h *HAL) Draw(frame []uint8) error {
	tm.MoveCursor(1, 1)
	if _, err := tm.Print(render(frame)); err != nil {
		return fmt.Errorf("failed to render frame: %w", err)
	}
	tm.Flush()
	return nil
}

// Tone rings the terminal bell when the buzzer starts.
func (h *HAL) Tone(on bool) error {
	if on && !h.tone {
		tm.Output.WriteString("\a")
		if err := tm.Output.Flush(); err != nil {
			return fmt.Errorf("failed to ring bell: %w", err)
		}
	}
	h.tone = on
	return nil
}

func (h *HAL) WaitForNextFrame() error {
	<-h.ticker.C
	return nil
}
