//go:build linux || darwin || dragonfly || freebsd || netbsd || openbsd

package main

import (
	"github.com/kapitanov/chip8core/internal/hal"
	"github.com/kapitanov/chip8core/internal/term"
)

var (
	quitErrors   = []error{hal.ErrQuit, term.ErrQuit}
	rebootErrors = []error{hal.ErrReboot, term.ErrReboot}
)

func newHost(d displayBackend) (host, error) {
	switch d {
	case displayTerm:
		return term.New()
	default:
		return hal.New()
	}
}
