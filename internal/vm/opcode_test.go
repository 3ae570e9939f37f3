package vm

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type opcodeTestCase struct {
	name    string
	program []uint16
	steps   int
	setup   func(vm *VM)
	check   func(t *testing.T, vm *VM)
}

func runOpcodeTests(t *testing.T, tests []opcodeTestCase) {
	t.Helper()

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			machine := newTestVM(t, tt.program...)
			if tt.setup != nil {
				tt.setup(machine)
			}

			steps := tt.steps
			if steps == 0 {
				steps = len(tt.program)
			}
			step(t, machine, steps)

			tt.check(t, machine)
		})
	}
}

func TestFlowControl(t *testing.T) {
	runOpcodeTests(t, []opcodeTestCase{
		{
			name:    "jp",
			program: []uint16{0x1ABC},
			check: func(t *testing.T, vm *VM) {
				assert.Equal(t, uint16(0xABC), vm.PC())
			},
		},
		{
			name:    "jp to self",
			program: []uint16{0x1200},
			check: func(t *testing.T, vm *VM) {
				assert.Equal(t, uint16(0x200), vm.PC())
			},
		},
		{
			name:    "jp v0",
			program: []uint16{0x6010, 0xB300},
			check: func(t *testing.T, vm *VM) {
				assert.Equal(t, uint16(0x310), vm.PC())
			},
		},
		{
			name: "call and ret",
			program: []uint16{
				0x2206, // 0x200 call 0x206
				0x6101, // 0x202 ld v1, 1
				0x1204, // 0x204 jp 0x204
				0x6002, // 0x206 ld v0, 2
				0x00EE, // 0x208 ret
			},
			steps: 4,
			check: func(t *testing.T, vm *VM) {
				assert.Equal(t, uint16(0x204), vm.PC())
				assert.Equal(t, uint16(0), vm.SP())
				assert.Equal(t, uint8(2), vm.Register(0))
				assert.Equal(t, uint8(1), vm.Register(1))
			},
		},
		{
			name:    "call pushes the following instruction",
			program: []uint16{0x2300},
			check: func(t *testing.T, vm *VM) {
				assert.Equal(t, uint16(0x300), vm.PC())
				assert.Equal(t, uint16(1), vm.SP())
				assert.Equal(t, uint16(0x202), vm.stack[0])
			},
		},
	})
}

func TestStackLimits(t *testing.T) {
	t.Run("sixteen nested calls fit, the seventeenth overflows", func(t *testing.T) {
		program := make([]uint16, StackSize+1)
		for i := range program {
			// Each instruction calls the next one.
			program[i] = 0x2000 | (ProgramStart + uint16(i+1)*InstructionSize)
		}
		machine := newTestVM(t, program...)

		step(t, machine, StackSize)
		assert.Equal(t, uint16(StackSize), machine.SP())

		pc := machine.PC()
		err := machine.Cycle()
		assert.ErrorIs(t, err, ErrStackOverflow)
		assert.Equal(t, uint16(StackSize), machine.SP())
		assert.Equal(t, pc+InstructionSize, machine.PC())
	})

	t.Run("ret on an empty stack underflows", func(t *testing.T) {
		machine := newTestVM(t, 0x00EE)

		err := machine.Cycle()
		assert.ErrorIs(t, err, ErrStackUnderflow)
		assert.Equal(t, uint16(0), machine.SP())
		assert.Equal(t, uint16(0x202), machine.PC())
	})
}

func TestSkips(t *testing.T) {
	tests := []struct {
		name    string
		opcode  uint16
		setup   func(vm *VM)
		skipped bool
	}{
		{"se imm equal", 0x3A42, func(vm *VM) { vm.registers[0xA] = 0x42 }, true},
		{"se imm not equal", 0x3A42, func(vm *VM) { vm.registers[0xA] = 0x41 }, false},
		{"sne imm equal", 0x4A42, func(vm *VM) { vm.registers[0xA] = 0x42 }, false},
		{"sne imm not equal", 0x4A42, func(vm *VM) { vm.registers[0xA] = 0x41 }, true},
		{"se reg equal", 0x5120, func(vm *VM) { vm.registers[1], vm.registers[2] = 7, 7 }, true},
		{"se reg not equal", 0x5120, func(vm *VM) { vm.registers[1], vm.registers[2] = 7, 8 }, false},
		{"sne reg equal", 0x9120, func(vm *VM) { vm.registers[1], vm.registers[2] = 7, 7 }, false},
		{"sne reg not equal", 0x9120, func(vm *VM) { vm.registers[1], vm.registers[2] = 7, 8 }, true},
		{"skp pressed", 0xE39E, func(vm *VM) { vm.registers[3] = 0xC; vm.SetKey(KeyC, true) }, true},
		{"skp released", 0xE39E, func(vm *VM) { vm.registers[3] = 0xC }, false},
		{"skp uses the low nibble", 0xE39E, func(vm *VM) { vm.registers[3] = 0x1C; vm.SetKey(KeyC, true) }, true},
		{"sknp pressed", 0xE3A1, func(vm *VM) { vm.registers[3] = 0xC; vm.SetKey(KeyC, true) }, false},
		{"sknp released", 0xE3A1, func(vm *VM) { vm.registers[3] = 0xC }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			machine := newTestVM(t, tt.opcode)
			tt.setup(machine)

			step(t, machine, 1)

			want := ProgramStart + InstructionSize
			if tt.skipped {
				want += InstructionSize
			}
			assert.Equal(t, want, machine.PC())
		})
	}
}

func TestLoadsAndLogic(t *testing.T) {
	runOpcodeTests(t, []opcodeTestCase{
		{
			name:    "ld imm",
			program: []uint16{0x6A5C},
			check: func(t *testing.T, vm *VM) {
				assert.Equal(t, uint8(0x5C), vm.Register(0xA))
				assert.Equal(t, uint16(0x202), vm.PC())
			},
		},
		{
			name:    "add imm wraps and leaves vf alone",
			program: []uint16{0x6FAA, 0x60FF, 0x7002},
			check: func(t *testing.T, vm *VM) {
				assert.Equal(t, uint8(0x01), vm.Register(0))
				assert.Equal(t, uint8(0xAA), vm.Register(0xF))
			},
		},
		{
			name:    "ld reg",
			program: []uint16{0x6133, 0x8010},
			check: func(t *testing.T, vm *VM) {
				assert.Equal(t, uint8(0x33), vm.Register(0))
				assert.Equal(t, uint8(0x33), vm.Register(1))
			},
		},
		{
			name:    "or",
			program: []uint16{0x60F0, 0x610F, 0x8011},
			check: func(t *testing.T, vm *VM) {
				assert.Equal(t, uint8(0xFF), vm.Register(0))
			},
		},
		{
			name:    "and",
			program: []uint16{0x60FC, 0x613F, 0x8012},
			check: func(t *testing.T, vm *VM) {
				assert.Equal(t, uint8(0x3C), vm.Register(0))
			},
		},
		{
			name:    "xor",
			program: []uint16{0x60FF, 0x610F, 0x8013},
			check: func(t *testing.T, vm *VM) {
				assert.Equal(t, uint8(0xF0), vm.Register(0))
			},
		},
		{
			name:    "add then check sequence",
			program: []uint16{0x6005, 0x6103, 0x8014},
			check: func(t *testing.T, vm *VM) {
				assert.Equal(t, uint8(8), vm.Register(0))
				assert.Equal(t, uint8(0), vm.Register(0xF))
			},
		},
		{
			name:    "ld i",
			program: []uint16{0xA123},
			check: func(t *testing.T, vm *VM) {
				assert.Equal(t, uint16(0x123), vm.Index())
			},
		},
		{
			name:    "font address for zero",
			program: []uint16{0xA202, 0xF029},
			check: func(t *testing.T, vm *VM) {
				assert.Equal(t, FontAddress, vm.Index())
			},
		},
		{
			name:    "font address for a digit",
			program: []uint16{0x6A0B, 0xFA29},
			check: func(t *testing.T, vm *VM) {
				assert.Equal(t, FontAddress+0xB*FontGlyphSize, vm.Index())
			},
		},
		{
			name:    "font address uses the low nibble",
			program: []uint16{0x6A3B, 0xFA29},
			check: func(t *testing.T, vm *VM) {
				assert.Equal(t, FontAddress+0xB*FontGlyphSize, vm.Index())
			},
		},
		{
			name:    "add i",
			program: []uint16{0xA100, 0x6020, 0xF01E},
			check: func(t *testing.T, vm *VM) {
				assert.Equal(t, uint16(0x120), vm.Index())
			},
		},
		{
			name:    "add i keeps 12 bits and leaves vf alone",
			program: []uint16{0xAFFF, 0x6002, 0x6F55, 0xF01E},
			check: func(t *testing.T, vm *VM) {
				assert.Equal(t, uint16(0x001), vm.Index())
				assert.Equal(t, uint8(0x55), vm.Register(0xF))
			},
		},
		{
			name:    "timers",
			program: []uint16{0x6009, 0xF015, 0x6104, 0xF118, 0xF207},
			check: func(t *testing.T, vm *VM) {
				assert.Equal(t, uint8(9), vm.DelayTimer())
				assert.Equal(t, uint8(4), vm.SoundTimer())
				assert.Equal(t, uint8(9), vm.Register(2))
			},
		},
		{
			name:    "bcd",
			program: []uint16{0x65FE, 0xA300, 0xF533},
			check: func(t *testing.T, vm *VM) {
				assert.Equal(t, []uint8{2, 5, 4}, vm.memory[0x300:0x303])
				assert.Equal(t, uint16(0x300), vm.Index())
			},
		},
		{
			name:    "bcd of a single digit",
			program: []uint16{0x6507, 0xA300, 0xF533},
			check: func(t *testing.T, vm *VM) {
				assert.Equal(t, []uint8{0, 0, 7}, vm.memory[0x300:0x303])
			},
		},
	})
}

func TestArithmeticFlags(t *testing.T) {
	tests := []struct {
		name   string
		opcode uint16
		want   func(x, y uint8) (result, vf uint8)
	}{
		{"add", 0x8124, func(x, y uint8) (uint8, uint8) {
			return uint8((int(x) + int(y)) % 256), flag(int(x)+int(y) > 255)
		}},
		{"sub", 0x8125, func(x, y uint8) (uint8, uint8) {
			return uint8((int(x) - int(y) + 256) % 256), flag(x >= y)
		}},
		{"subn", 0x8127, func(x, y uint8) (uint8, uint8) {
			return uint8((int(y) - int(x) + 256) % 256), flag(y >= x)
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			machine := New(Options{})

			for x := 0; x < 256; x++ {
				for y := 0; y < 256; y++ {
					machine.registers[1] = uint8(x)
					machine.registers[2] = uint8(y)

					require.NoError(t, machine.executeOpcode(tt.opcode))

					result, vf := tt.want(uint8(x), uint8(y))
					if machine.registers[1] != result || machine.registers[FlagRegister] != vf {
						t.Fatalf("x=%d y=%d: got v1=%d vf=%d, want v1=%d vf=%d",
							x, y, machine.registers[1], machine.registers[FlagRegister], result, vf)
					}
				}
			}
		})
	}
}

func TestShifts(t *testing.T) {
	machine := New(Options{})

	for x := 0; x < 256; x++ {
		machine.registers[3] = uint8(x)
		require.NoError(t, machine.executeOpcode(0x8306))
		assert.Equal(t, uint8(x>>1), machine.registers[3])
		assert.Equal(t, uint8(x&1), machine.registers[FlagRegister])

		machine.registers[3] = uint8(x)
		require.NoError(t, machine.executeOpcode(0x830E))
		assert.Equal(t, uint8(x<<1), machine.registers[3])
		assert.Equal(t, uint8(x>>7), machine.registers[FlagRegister])
	}
}

func TestFlagRegisterAsOperand(t *testing.T) {
	// VF takes the flag first, then the result.
	runOpcodeTests(t, []opcodeTestCase{
		{
			name:    "add into vf",
			program: []uint16{0x6FFF, 0x6E01, 0x8FE4},
			check: func(t *testing.T, vm *VM) {
				assert.Equal(t, uint8(0x00), vm.Register(0xF))
			},
		},
		{
			name:    "shr of vf",
			program: []uint16{0x6F03, 0x8F06},
			check: func(t *testing.T, vm *VM) {
				assert.Equal(t, uint8(0x01), vm.Register(0xF))
			},
		},
		{
			name:    "sub into vf",
			program: []uint16{0x6F10, 0x6E01, 0x8FE5},
			check: func(t *testing.T, vm *VM) {
				assert.Equal(t, uint8(0x0F), vm.Register(0xF))
			},
		},
	})
}

func TestRandom(t *testing.T) {
	t.Run("masked by nn", func(t *testing.T) {
		machine := newTestVM(t)
		for i := 0; i < 200; i++ {
			machine.pc = ProgramStart
			require.NoError(t, machine.executeOpcode(0xC40F))
			assert.Zero(t, machine.Register(4)&0xF0)
		}
	})

	t.Run("zero mask", func(t *testing.T) {
		machine := newTestVM(t)
		for i := 0; i < 50; i++ {
			require.NoError(t, machine.executeOpcode(0xC400))
			assert.Zero(t, machine.Register(4))
		}
	})

	t.Run("same seed, same sequence", func(t *testing.T) {
		a := New(Options{Rand: rand.New(rand.NewPCG(7, 7))})
		b := New(Options{Rand: rand.New(rand.NewPCG(7, 7))})

		for i := 0; i < 50; i++ {
			require.NoError(t, a.executeOpcode(0xC1FF))
			require.NoError(t, b.executeOpcode(0xC1FF))
			require.Equal(t, a.Register(1), b.Register(1))
		}
	})

	t.Run("advances pc", func(t *testing.T) {
		machine := newTestVM(t, 0xC1FF)
		step(t, machine, 1)
		assert.Equal(t, uint16(0x202), machine.PC())
	})
}

func TestDraw(t *testing.T) {
	runOpcodeTests(t, []opcodeTestCase{
		{
			name:    "glyph zero at the origin",
			program: []uint16{0xA000, 0xD015},
			check: func(t *testing.T, vm *VM) {
				// F0 90 90 90 F0
				for x := 0; x < 4; x++ {
					assert.True(t, vm.Pixel(x, 0), "top x=%d", x)
					assert.True(t, vm.Pixel(x, 4), "bottom x=%d", x)
				}
				for y := 1; y < 4; y++ {
					assert.True(t, vm.Pixel(0, y))
					assert.False(t, vm.Pixel(1, y))
					assert.False(t, vm.Pixel(2, y))
					assert.True(t, vm.Pixel(3, y))
				}
				assert.False(t, vm.Pixel(4, 0))
				assert.False(t, vm.Pixel(0, 5))
				assert.Equal(t, uint8(0), vm.Register(0xF))
				assert.True(t, vm.DrawFlag())
			},
		},
		{
			name:    "drawing twice erases and reports a collision",
			program: []uint16{0xA000, 0xD015, 0xD015},
			check: func(t *testing.T, vm *VM) {
				assert.Equal(t, make([]uint8, ScreenWidth*ScreenHeight), vm.Frame())
				assert.Equal(t, uint8(1), vm.Register(0xF))
			},
		},
		{
			name:    "sprite wraps at the right and bottom edges",
			program: []uint16{0xA300, 0x603E, 0x611F, 0xD012},
			setup: func(vm *VM) {
				vm.memory[0x300] = 0xFF
				vm.memory[0x301] = 0x80
			},
			check: func(t *testing.T, vm *VM) {
				for _, x := range []int{62, 63, 0, 1, 2, 3, 4, 5} {
					assert.True(t, vm.Pixel(x, 31), "x=%d", x)
				}
				assert.False(t, vm.Pixel(6, 31))
				assert.False(t, vm.Pixel(61, 31))

				assert.True(t, vm.Pixel(62, 0))
				assert.False(t, vm.Pixel(63, 0))
			},
		},
		{
			name:    "start coordinates wrap",
			program: []uint16{0xA300, 0x6043, 0x6122, 0xD011},
			setup: func(vm *VM) {
				vm.memory[0x300] = 0x80
			},
			check: func(t *testing.T, vm *VM) {
				assert.True(t, vm.Pixel(3, 2))
				assert.Equal(t, 1, countLit(vm.Frame()))
			},
		},
		{
			name:    "zero height draws nothing",
			program: []uint16{0x6F01, 0xA000, 0xD010},
			check: func(t *testing.T, vm *VM) {
				assert.Equal(t, 0, countLit(vm.Frame()))
				assert.Equal(t, uint8(0), vm.Register(0xF))
			},
		},
		{
			name:    "cls",
			program: []uint16{0xA000, 0xD015, 0x00E0},
			check: func(t *testing.T, vm *VM) {
				assert.Equal(t, 0, countLit(vm.Frame()))
				assert.True(t, vm.DrawFlag())
			},
		},
	})
}

func TestDrawLaws(t *testing.T) {
	sprite := []uint8{0x3C, 0x42, 0x81, 0xA5, 0x81, 0x5A, 0x24, 0x18}

	t.Run("clear draw clear is blank", func(t *testing.T) {
		machine := newTestVM(t, 0x00E0, 0xA300, 0x6010, 0x6108, 0xD018, 0x00E0)
		copy(machine.memory[0x300:], sprite)

		step(t, machine, 6)

		assert.Equal(t, make([]uint8, ScreenWidth*ScreenHeight), machine.Frame())
	})

	t.Run("xor against the previous frame", func(t *testing.T) {
		machine := newTestVM(t, 0xA300, 0x6010, 0x6108, 0xD018, 0xA308, 0x6014, 0x610A, 0xD018)
		copy(machine.memory[0x300:], sprite)
		copy(machine.memory[0x308:], sprite)

		step(t, machine, 4)
		before := machine.Frame()
		step(t, machine, 4)
		after := machine.Frame()

		// Redraw the second sprite alone on a blank screen.
		alone := newTestVM(t, 0xA300, 0x6014, 0x610A, 0xD018)
		copy(alone.memory[0x300:], sprite)
		step(t, alone, 4)
		mask := alone.Frame()

		collision := false
		for i := range after {
			assert.Equal(t, before[i]^mask[i], after[i], "pixel %d", i)
			if before[i] == 1 && mask[i] == 1 {
				collision = true
			}
		}
		assert.Equal(t, flag(collision), machine.Register(0xF))
		assert.True(t, collision)
	})
}

func TestLoadStore(t *testing.T) {
	tests := []struct {
		name      string
		quirks    Quirks
		wantIndex uint16
	}{
		{"i unchanged", Quirks{}, 0x300},
		{"i incremented", Quirks{LoadStoreIncrementsIndex: true}, 0x304},
	}

	for _, tt := range tests {
		t.Run(tt.name+"/store", func(t *testing.T) {
			machine := New(Options{Quirks: tt.quirks})
			machine.registers = [RegisterCount]uint8{1, 2, 3, 4, 5}
			machine.index = 0x300
			machine.memory[0x304] = 0xEE

			require.NoError(t, machine.executeOpcode(0xF355))

			assert.Equal(t, []uint8{1, 2, 3, 4, 0xEE}, machine.memory[0x300:0x305])
			assert.Equal(t, tt.wantIndex, machine.Index())
		})

		t.Run(tt.name+"/load", func(t *testing.T) {
			machine := New(Options{Quirks: tt.quirks})
			copy(machine.memory[0x300:], []uint8{9, 8, 7, 6, 5})
			machine.registers[4] = 0x44
			machine.index = 0x300

			require.NoError(t, machine.executeOpcode(0xF365))

			assert.Equal(t, []uint8{9, 8, 7, 6, 0x44}, machine.registers[:5])
			assert.Equal(t, tt.wantIndex, machine.Index())
		})
	}

	t.Run("round trip", func(t *testing.T) {
		machine := newTestVM(t, 0x6011, 0x6122, 0x6233, 0xA400, 0xF255, 0x6000, 0x6100, 0x6200, 0xF265)

		step(t, machine, 9)

		assert.Equal(t, uint8(0x11), machine.Register(0))
		assert.Equal(t, uint8(0x22), machine.Register(1))
		assert.Equal(t, uint8(0x33), machine.Register(2))
	})
}

func TestInvalidMemoryAccess(t *testing.T) {
	tests := []struct {
		name   string
		index  uint16
		opcode uint16
	}{
		{"draw past the end", 0xFFE, 0xD013},
		{"bcd past the end", 0xFFE, 0xF033},
		{"store past the end", 0xFFD, 0xF355},
		{"load past the end", 0xFFD, 0xF365},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			machine := newTestVM(t, tt.opcode)
			machine.index = tt.index
			machine.registers[0] = 0x99
			before := *machine

			err := machine.Cycle()
			assert.ErrorIs(t, err, ErrInvalidMemoryAccess)

			assert.Equal(t, before.pc+InstructionSize, machine.pc)
			machine.pc = before.pc
			assert.Equal(t, before, *machine)
		})
	}

	t.Run("bcd ending at the last byte", func(t *testing.T) {
		machine := newTestVM(t, 0xF033)
		machine.index = 0xFFD
		machine.registers[0] = 123

		step(t, machine, 1)
		assert.Equal(t, []uint8{1, 2, 3}, machine.memory[0xFFD:])
	})
}

func TestUnknownOpcodes(t *testing.T) {
	opcodes := []uint16{
		0x0000, 0x0123, 0x00E1, 0x00FF,
		0x5121, 0x912F,
		0x8008, 0x800D, 0x800F,
		0xE000, 0xE19F, 0xE1A2,
		0xF000, 0xF0FF, 0xF056, 0xF030,
	}

	for _, opcode := range opcodes {
		machine := newTestVM(t, opcode)
		machine.registers[1] = 0x12
		before := *machine

		err := machine.Cycle()
		require.Error(t, err, "0x%04X", opcode)
		assert.True(t, errors.Is(err, ErrUnknownOpcode), "0x%04X: %v", opcode, err)
		assert.Contains(t, err.Error(), "0x0200")

		assert.Equal(t, uint16(0x202), machine.PC())
		machine.pc = before.pc
		assert.Equal(t, before, *machine, "0x%04X", opcode)
	}
}

func TestWaitForKey(t *testing.T) {
	t.Run("blocks until a fresh press", func(t *testing.T) {
		machine := newTestVM(t, 0xF30A, 0x6101)
		machine.SetKey(Key5, true)

		step(t, machine, 1)
		assert.True(t, machine.WaitingForKey())
		assert.Equal(t, uint16(0x200), machine.PC())

		// A key held since before the wait does not count.
		step(t, machine, 3)
		assert.True(t, machine.WaitingForKey())
		assert.Equal(t, uint16(0x200), machine.PC())
		assert.Equal(t, uint8(0), machine.Register(1))

		machine.SetKey(Key5, false)
		machine.SetKey(Key7, true)
		step(t, machine, 1)

		assert.False(t, machine.WaitingForKey())
		assert.Equal(t, uint8(7), machine.Register(3))
		assert.Equal(t, uint16(0x202), machine.PC())

		step(t, machine, 1)
		assert.Equal(t, uint8(1), machine.Register(1))
	})

	t.Run("first press wins", func(t *testing.T) {
		machine := newTestVM(t, 0xFA0A)
		step(t, machine, 1)

		machine.SetKey(Key9, true)
		machine.SetKey(KeyE, true)
		step(t, machine, 1)

		assert.Equal(t, uint8(9), machine.Register(0xA))
	})

	t.Run("release and press again", func(t *testing.T) {
		machine := newTestVM(t, 0xF20A)
		machine.SetKey(Key5, true)
		step(t, machine, 1)

		machine.SetKey(Key5, false)
		machine.SetKey(Key5, true)
		step(t, machine, 1)

		assert.False(t, machine.WaitingForKey())
		assert.Equal(t, uint8(5), machine.Register(2))
	})

	t.Run("timers keep running", func(t *testing.T) {
		machine := newTestVM(t, 0xF00A)
		machine.delayTimer = 3
		step(t, machine, 1)

		machine.TickTimers()
		machine.TickTimers()
		assert.Equal(t, uint8(1), machine.DelayTimer())
		assert.True(t, machine.WaitingForKey())
	})
}

func TestInstructionNames(t *testing.T) {
	tests := []struct {
		opcode uint16
		want   string
	}{
		{0x00E0, "cls"},
		{0x00EE, "ret"},
		{0x1234, "jp 0x234"},
		{0x2345, "call 0x345"},
		{0x3A12, "se va, 0x12"},
		{0x8AB4, "add va, vb"},
		{0xB300, "jp v0, 0x300"},
		{0xD125, "drw v1, v2, 5"},
		{0xE19E, "skp v1"},
		{0xF10A, "ld v1, k"},
		{0xF155, "ld [i], v1"},
		{0xF165, "ld v1, [i]"},
		{0x0123, "unknown 0x0123"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, decode(tt.opcode).Name(tt.opcode))
		})
	}
}

func countLit(frame []uint8) int {
	n := 0
	for _, p := range frame {
		if p != 0 {
			n++
		}
	}
	return n
}
