//go:build !(linux || darwin || dragonfly || freebsd || netbsd || openbsd)

package main

import (
	"errors"

	"github.com/kapitanov/chip8core/internal/hal"
)

var (
	quitErrors   = []error{hal.ErrQuit}
	rebootErrors = []error{hal.ErrReboot}
)

var errNoTerminal = errors.New("terminal display is not supported on this platform")

func newHost(d displayBackend) (host, error) {
	if d == displayTerm {
		return nil, errNoTerminal
	}
	return hal.New()
}
