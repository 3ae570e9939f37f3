package vm

import (
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"
)

const (
	MemorySize    = 4096
	StackSize     = 16
	RegisterCount = 16
	ScreenWidth   = 64
	ScreenHeight  = 32
	KeyCount      = 16

	FlagRegister = 0xF

	FontAddress     = uint16(0x000)
	FontGlyphSize   = 5
	ProgramStart    = uint16(0x200)
	MaxProgramSize  = MemorySize - int(ProgramStart)
	InstructionSize = 2
)

// Quirks selects between behaviours that differ across historical
// interpreters of the base instruction set.
type Quirks struct {
	// LoadStoreIncrementsIndex makes FX55 and FX65 leave I pointing past the
	// last register transferred, as the COSMAC VIP interpreter did.
	LoadStoreIncrementsIndex bool
}

type Options struct {
	Rand   *rand.Rand // Source for CXNN, clock seeded when nil
	Quirks Quirks
}

// VM holds the complete machine state. A VM is not safe for concurrent use;
// hosts that render on another goroutine should work on Frame() copies.
type VM struct {
	memory    [MemorySize]uint8    // Memory (4k)
	registers [RegisterCount]uint8 // V registers (V0-VF)

	stack [StackSize]uint16 // Stack
	sp    uint16            // Stack pointer

	pc    uint16 // Program counter
	index uint16 // Index register

	delayTimer uint8 // Delay timer
	soundTimer uint8 // Sound timer

	gfx      [ScreenWidth * ScreenHeight]uint8 // Graphics buffer
	keypad   [KeyCount]bool                    // Keypad
	drawFlag bool                              // Indicates a draw has occurred

	// FX0A sub-state
	waiting    bool
	waitReg    uint8
	keyEdge    Key
	hasKeyEdge bool

	rand   *rand.Rand
	quirks Quirks
}

func New(opts Options) *VM {
	r := opts.Rand
	if r == nil {
		seed := uint64(time.Now().UnixNano())
		r = rand.New(rand.NewPCG(seed, seed>>32|seed<<32))
	}

	vm := &VM{
		rand:   r,
		quirks: opts.Quirks,
	}
	vm.Reset()
	return vm
}

type Key uint8

const (
	Key0 = Key(iota)
	Key1
	Key2
	Key3
	Key4
	Key5
	Key6
	Key7
	Key8
	Key9
	KeyA
	KeyB
	KeyC
	KeyD
	KeyE
	KeyF
)

// Reset puts the machine in its power-on configuration: memory, registers,
// stack, timers, screen and keypad cleared, font loaded, PC at 0x200.
func (vm *VM) Reset() {
	vm.pc = ProgramStart
	vm.index = 0
	vm.sp = 0

	vm.gfx = [ScreenWidth * ScreenHeight]uint8{}
	vm.drawFlag = true

	vm.stack = [StackSize]uint16{}
	vm.keypad = [KeyCount]bool{}
	vm.registers = [RegisterCount]uint8{}
	vm.memory = [MemorySize]uint8{}

	slog.Debug("load font", "at", fmt.Sprintf("0x%04x", FontAddress), "n", len(chip8Font))
	copy(vm.memory[FontAddress:], chip8Font[:])

	vm.delayTimer = 0
	vm.soundTimer = 0

	vm.waiting = false
	vm.waitReg = 0
	vm.hasKeyEdge = false
}

// LoadProgram copies image into memory at ProgramStart. Nothing else is
// touched, so it is normally called right after Reset.
func (vm *VM) LoadProgram(image []byte) error {
	if len(image) > MaxProgramSize {
		return fmt.Errorf("%w: %d bytes, at most %d fit at 0x%04x",
			ErrImageTooLarge, len(image), MaxProgramSize, ProgramStart)
	}

	slog.Info("load program", "at", fmt.Sprintf("0x%04x", ProgramStart), "n", len(image))
	copy(vm.memory[ProgramStart:], image)
	return nil
}

// SetKey latches the state of one pad key. Keys above KeyF are ignored.
func (vm *VM) SetKey(key Key, pressed bool) {
	if int(key) >= KeyCount {
		return
	}

	if pressed && !vm.keypad[key] && vm.waiting && !vm.hasKeyEdge {
		vm.keyEdge = key
		vm.hasKeyEdge = true
	}
	vm.keypad[key] = pressed
}

func (vm *VM) keyDown(key Key) {
	vm.SetKey(key, true)
}

func (vm *VM) keyUp(key Key) {
	vm.SetKey(key, false)
}

// TickTimers decrements both timers toward zero and reports whether the tone
// should sound during this tick. It must be called at 60Hz.
func (vm *VM) TickTimers() (tone bool) {
	if vm.delayTimer > 0 {
		vm.delayTimer--
	}

	if vm.soundTimer > 0 {
		tone = true
		vm.soundTimer--
	}

	return tone
}

func (vm *VM) PC() uint16 { return vm.pc }
func (vm *VM) Index() uint16 { return vm.index }
func (vm *VM) SP() uint16 { return vm.sp }
func (vm *VM) DelayTimer() uint8 { return vm.delayTimer }
func (vm *VM) SoundTimer() uint8 { return vm.soundTimer }
func (vm *VM) SoundActive() bool { return vm.soundTimer > 0 }
func (vm *VM) WaitingForKey() bool { return vm.waiting }
func (vm *VM) DrawFlag() bool { return vm.drawFlag }
func (vm *VM) ClearDrawFlag() { vm.drawFlag = false }

// Register returns Vr; r is taken modulo 16.
func (vm *VM) Register(r int) uint8 {
	return vm.registers[r&0xF]
}

// Memory returns the byte at addr.
func (vm *VM) Memory(addr uint16) (uint8, error) {
	return vm.readMemory(addr)
}

// Pixel reports whether the pixel at (x, y) is lit. Coordinates wrap.
func (vm *VM) Pixel(x, y int) bool {
	return vm.gfx[getScreenAddr(uint16(x), uint16(y))] != 0
}

// Frame returns a copy of the frame buffer, one byte per pixel in row-major
// order, 0 for unlit and 1 for lit.
func (vm *VM) Frame() []uint8 {
	frame := make([]uint8, len(vm.gfx))
	copy(frame, vm.gfx[:])
	return frame
}

// Cycle executes exactly one instruction. A returned error identifies the
// failure class through errors.Is; the failed instruction has no effect
// other than advancing PC.
func (vm *VM) Cycle() error {
	if vm.waiting {
		vm.resolveKeyWait()
		return nil
	}

	opcode, err := vm.fetchOpcode()
	if err != nil {
		vm.pc += InstructionSize
		return err
	}

	return vm.executeOpcode(opcode)
}

func (vm *VM) resolveKeyWait() {
	if !vm.hasKeyEdge {
		return
	}

	vm.registers[vm.waitReg] = uint8(vm.keyEdge)
	vm.waiting = false
	vm.hasKeyEdge = false
	vm.pc += InstructionSize
}

func (vm *VM) fetchOpcode() (uint16, error) {
	if err := vm.checkRange(vm.pc, InstructionSize); err != nil {
		return 0, fmt.Errorf("fetch at 0x%04x: %w", vm.pc, err)
	}

	hi := vm.memory[vm.pc]
	lo := vm.memory[vm.pc+1]

	opcode := uint16(hi)<<8 | uint16(lo) // Op code is two bytes
	return opcode, nil
}

func (vm *VM) checkRange(addr uint16, n int) error {
	if int(addr)+n > MemorySize {
		return fmt.Errorf("%w: 0x%04x+%d", ErrInvalidMemoryAccess, addr, n)
	}
	return nil
}

func (vm *VM) readMemory(addr uint16) (uint8, error) {
	if err := vm.checkRange(addr, 1); err != nil {
		return 0, err
	}
	return vm.memory[addr], nil
}
