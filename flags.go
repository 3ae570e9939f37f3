package main

import (
	"fmt"

	"github.com/spf13/pflag"

	"github.com/kapitanov/chip8core/internal/vm"
)

type displayBackend string

const (
	displaySDL  displayBackend = "sdl"
	displayTerm displayBackend = "term"
)

var _ pflag.Value = (*displayBackend)(nil)

func (d *displayBackend) String() string { return string(*d) }

func (d *displayBackend) Set(s string) error {
	switch displayBackend(s) {
	case displaySDL, displayTerm:
		*d = displayBackend(s)
		return nil
	default:
		return fmt.Errorf("unknown display %q, want %q or %q", s, displaySDL, displayTerm)
	}
}

func (d *displayBackend) Type() string { return "display" }

type unknownPolicy vm.Policy

var _ pflag.Value = (*unknownPolicy)(nil)

func (p *unknownPolicy) String() string { return vm.Policy(*p).String() }

func (p *unknownPolicy) Set(s string) error {
	for _, policy := range []vm.Policy{vm.PolicyHalt, vm.PolicyContinue} {
		if s == policy.String() {
			*p = unknownPolicy(policy)
			return nil
		}
	}
	return fmt.Errorf("unknown policy %q, want %q or %q", s, vm.PolicyHalt, vm.PolicyContinue)
}

func (p *unknownPolicy) Type() string { return "policy" }
