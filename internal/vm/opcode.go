package vm

import (
	"context"
	"fmt"
	"log/slog"
)

func (vm *VM) executeOpcode(opcode uint16) error {
	instr := decode(opcode)

	if slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		slog.Debug(
			"exec",
			"pc", fmt.Sprintf("0x%04x", vm.pc),
			"opcode", fmt.Sprintf("0x%04x", opcode),
			"instr", instr.Name(opcode),
		)
	}

	pc := vm.pc
	if err := instr.Execute(vm, opcode); err != nil {
		// Handlers validate before mutating, so a failed instruction only
		// advances past itself.
		vm.pc = pc + InstructionSize
		return fmt.Errorf("opcode 0x%04X at 0x%04x: %w", opcode, pc, err)
	}

	return nil
}

type instruction struct {
	Mnemonic string
	Name     func(opcode uint16) string
	Execute  func(vm *VM, opcode uint16) error
}

// decode maps an opcode to its instruction. Only the exact base set is
// accepted: a family whose low bits do not name a defined form decodes as
// unknown.
func decode(opcode uint16) instruction {
	switch opcode >> 12 {
	case 0x0:
		switch opcode {
		case 0x00E0:
			return clsInstruction
		case 0x00EE:
			return retInstruction
		}
	case 0x1:
		return jpInstruction
	case 0x2:
		return callInstruction
	case 0x3:
		return seImmInstruction
	case 0x4:
		return sneImmInstruction
	case 0x5:
		if opN(opcode) == 0 {
			return seRegInstruction
		}
	case 0x6:
		return ldImmInstruction
	case 0x7:
		return addImmInstruction
	case 0x8:
		if instr, ok := aluInstructions[opN(opcode)]; ok {
			return instr
		}
	case 0x9:
		if opN(opcode) == 0 {
			return sneRegInstruction
		}
	case 0xA:
		return ldIndexInstruction
	case 0xB:
		return jpOffsetInstruction
	case 0xC:
		return rndInstruction
	case 0xD:
		return drwInstruction
	case 0xE:
		switch opNN(opcode) {
		case 0x9E:
			return skpInstruction
		case 0xA1:
			return sknpInstruction
		}
	case 0xF:
		if instr, ok := miscInstructions[opNN(opcode)]; ok {
			return instr
		}
	}

	return unknownInstruction
}

func opX(opcode uint16) uint16   { return (opcode & 0x0F00) >> 8 }
func opY(opcode uint16) uint16   { return (opcode & 0x00F0) >> 4 }
func opN(opcode uint16) uint16   { return opcode & 0x000F }
func opNN(opcode uint16) uint8   { return uint8(opcode & 0x00FF) }
func opNNN(opcode uint16) uint16 { return opcode & 0x0FFF }

func (vm *VM) skipIf(cond bool) {
	if cond {
		vm.pc += 2 * InstructionSize
	} else {
		vm.pc += InstructionSize
	}
}

func flag(b bool) uint8 {
	if b {
		return 1
	}
	return 0
}

func nameX(mnemonic string) func(uint16) string {
	return func(opcode uint16) string {
		return fmt.Sprintf("%s v%x", mnemonic, opX(opcode))
	}
}

func nameXY(mnemonic string) func(uint16) string {
	return func(opcode uint16) string {
		return fmt.Sprintf("%s v%x, v%x", mnemonic, opX(opcode), opY(opcode))
	}
}

func nameXNN(mnemonic string) func(uint16) string {
	return func(opcode uint16) string {
		return fmt.Sprintf("%s v%x, 0x%02x", mnemonic, opX(opcode), opNN(opcode))
	}
}

// aluInstruction builds an 8XY_ instruction. op returns the new VX and the
// flag to store in VF, or ok=false when VF is left alone. VF is written
// before VX.
func aluInstruction(mnemonic string, op func(x, y uint8) (result, vf uint8, ok bool)) instruction {
	return instruction{
		Mnemonic: mnemonic,
		Name:     nameXY(mnemonic),
		Execute: func(vm *VM, opcode uint16) error {
			vX, vY := opX(opcode), opY(opcode)
			result, vf, ok := op(vm.registers[vX], vm.registers[vY])

			if ok {
				vm.registers[FlagRegister] = vf
			}
			vm.registers[vX] = result

			vm.pc += InstructionSize
			return nil
		},
	}
}

var (
	// 00E0	cls	Clear the screen
	clsInstruction = instruction{
		Mnemonic: "cls",
		Name: func(opcode uint16) string {
			return "cls"
		},
		Execute: func(vm *VM, opcode uint16) error {
			vm.gfx = [ScreenWidth * ScreenHeight]uint8{}
			vm.drawFlag = true
			vm.pc += InstructionSize
			return nil
		},
	}

	// 00EE	ret	return from subroutine call
	retInstruction = instruction{
		Mnemonic: "ret",
		Name: func(opcode uint16) string {
			return "ret"
		},
		Execute: func(vm *VM, opcode uint16) error {
			if vm.sp == 0 {
				return ErrStackUnderflow
			}
			vm.sp--
			vm.pc = vm.stack[vm.sp]
			return nil
		},
	}

	// 1nnn	jp nnn	jump to address nnn
	jpInstruction = instruction{
		Mnemonic: "jp",
		Name: func(opcode uint16) string {
			return fmt.Sprintf("jp 0x%03x", opNNN(opcode))
		},
		Execute: func(vm *VM, opcode uint16) error {
			vm.pc = opNNN(opcode)
			return nil
		},
	}

	// 2nnn	call nnn	push the return address, jump to nnn
	callInstruction = instruction{
		Mnemonic: "call",
		Name: func(opcode uint16) string {
			return fmt.Sprintf("call 0x%03x", opNNN(opcode))
		},
		Execute: func(vm *VM, opcode uint16) error {
			if int(vm.sp) >= StackSize {
				return ErrStackOverflow
			}
			vm.stack[vm.sp] = vm.pc + InstructionSize
			vm.sp++
			vm.pc = opNNN(opcode)
			return nil
		},
	}

	// 3xnn	se vx, nn	skip if vx = nn
	seImmInstruction = instruction{
		Mnemonic: "se",
		Name:     nameXNN("se"),
		Execute: func(vm *VM, opcode uint16) error {
			vm.skipIf(vm.registers[opX(opcode)] == opNN(opcode))
			return nil
		},
	}

	// 4xnn	sne vx, nn	skip if vx != nn
	sneImmInstruction = instruction{
		Mnemonic: "sne",
		Name:     nameXNN("sne"),
		Execute: func(vm *VM, opcode uint16) error {
			vm.skipIf(vm.registers[opX(opcode)] != opNN(opcode))
			return nil
		},
	}

	// 5xy0	se vx, vy	skip if vx = vy
	seRegInstruction = instruction{
		Mnemonic: "se",
		Name:     nameXY("se"),
		Execute: func(vm *VM, opcode uint16) error {
			vm.skipIf(vm.registers[opX(opcode)] == vm.registers[opY(opcode)])
			return nil
		},
	}

	// 6xnn	ld vx, nn
	ldImmInstruction = instruction{
		Mnemonic: "ld",
		Name:     nameXNN("ld"),
		Execute: func(vm *VM, opcode uint16) error {
			vm.registers[opX(opcode)] = opNN(opcode)
			vm.pc += InstructionSize
			return nil
		},
	}

	// 7xnn	add vx, nn	no carry generated
	addImmInstruction = instruction{
		Mnemonic: "add",
		Name:     nameXNN("add"),
		Execute: func(vm *VM, opcode uint16) error {
			vm.registers[opX(opcode)] += opNN(opcode)
			vm.pc += InstructionSize
			return nil
		},
	}

	ldRegInstruction = aluInstruction("ld", func(x, y uint8) (uint8, uint8, bool) {
		return y, 0, false
	})

	orInstruction = aluInstruction("or", func(x, y uint8) (uint8, uint8, bool) {
		return x | y, 0, false
	})

	andInstruction = aluInstruction("and", func(x, y uint8) (uint8, uint8, bool) {
		return x & y, 0, false
	})

	xorInstruction = aluInstruction("xor", func(x, y uint8) (uint8, uint8, bool) {
		return x ^ y, 0, false
	})

	// 8xy4	add vx, vy	carry in vf
	addRegInstruction = aluInstruction("add", func(x, y uint8) (uint8, uint8, bool) {
		return x + y, flag(uint16(x)+uint16(y) > 0xFF), true
	})

	// 8xy5	sub vx, vy	vf set to 1 if no borrow
	subInstruction = aluInstruction("sub", func(x, y uint8) (uint8, uint8, bool) {
		return x - y, flag(x >= y), true
	})

	// 8xy6	shr vx	bit 0 goes into vf
	shrInstruction = aluInstruction("shr", func(x, _ uint8) (uint8, uint8, bool) {
		return x >> 1, x & 0x1, true
	})

	// 8xy7	subn vx, vy	vx = vy - vx, vf set to 1 if no borrow
	subnInstruction = aluInstruction("subn", func(x, y uint8) (uint8, uint8, bool) {
		return y - x, flag(y >= x), true
	})

	// 8xye	shl vx	bit 7 goes into vf
	shlInstruction = aluInstruction("shl", func(x, _ uint8) (uint8, uint8, bool) {
		return x << 1, x >> 7, true
	})

	// 9xy0	sne vx, vy	skip if vx != vy
	sneRegInstruction = instruction{
		Mnemonic: "sne",
		Name:     nameXY("sne"),
		Execute: func(vm *VM, opcode uint16) error {
			vm.skipIf(vm.registers[opX(opcode)] != vm.registers[opY(opcode)])
			return nil
		},
	}

	// annn	ld i, nnn
	ldIndexInstruction = instruction{
		Mnemonic: "ld",
		Name: func(opcode uint16) string {
			return fmt.Sprintf("ld i, 0x%03x", opNNN(opcode))
		},
		Execute: func(vm *VM, opcode uint16) error {
			vm.index = opNNN(opcode)
			vm.pc += InstructionSize
			return nil
		},
	}

	// bnnn	jp v0, nnn	jump to nnn + v0
	jpOffsetInstruction = instruction{
		Mnemonic: "jp",
		Name: func(opcode uint16) string {
			return fmt.Sprintf("jp v0, 0x%03x", opNNN(opcode))
		},
		Execute: func(vm *VM, opcode uint16) error {
			vm.pc = opNNN(opcode) + uint16(vm.registers[0])
			return nil
		},
	}

	// cxnn	rnd vx, nn	vx = random byte & nn
	rndInstruction = instruction{
		Mnemonic: "rnd",
		Name:     nameXNN("rnd"),
		Execute: func(vm *VM, opcode uint16) error {
			x := uint8(vm.rand.IntN(256))
			vm.registers[opX(opcode)] = x & opNN(opcode)
			vm.pc += InstructionSize
			return nil
		},
	}

	// dxyn	drw vx, vy, n	Draw sprite at screen location vx,vy height n
	// Sprites stored in memory at location in index register, 8 bits wide.
	// Wraps around the screen.
	// If when drawn, clears a pixel, vf is set to 1 otherwise it is zero.
	// All drawing is xor drawing (e.g. it toggles the screen pixels)
	drwInstruction = instruction{
		Mnemonic: "drw",
		Name: func(opcode uint16) string {
			return fmt.Sprintf("drw v%x, v%x, %d", opX(opcode), opY(opcode), opN(opcode))
		},
		Execute: func(vm *VM, opcode uint16) error {
			height := opN(opcode)
			if err := vm.checkRange(vm.index, int(height)); err != nil {
				return err
			}

			xLocation := uint16(vm.registers[opX(opcode)]) % ScreenWidth
			yLocation := uint16(vm.registers[opY(opcode)]) % ScreenHeight

			hasCollision := false
			for y := uint16(0); y < height; y++ {
				row := vm.memory[vm.index+y]

				const width = uint16(8)
				for x := uint16(0); x < width; x++ {
					if row&(0x80>>x) == 0 {
						continue
					}

					screenAddr := getScreenAddr(x+xLocation, y+yLocation)
					if vm.gfx[screenAddr] != 0 {
						hasCollision = true
					}
					vm.gfx[screenAddr] ^= 1
				}
			}

			vm.registers[FlagRegister] = flag(hasCollision)
			vm.drawFlag = true
			vm.pc += InstructionSize
			return nil
		},
	}

	// ex9e	skp vx	skip if key vx pressed
	skpInstruction = instruction{
		Mnemonic: "skp",
		Name:     nameX("skp"),
		Execute: func(vm *VM, opcode uint16) error {
			key := vm.registers[opX(opcode)] & 0xF
			vm.skipIf(vm.keypad[key])
			return nil
		},
	}

	// exa1	sknp vx	skip if key vx not pressed
	sknpInstruction = instruction{
		Mnemonic: "sknp",
		Name:     nameX("sknp"),
		Execute: func(vm *VM, opcode uint16) error {
			key := vm.registers[opX(opcode)] & 0xF
			vm.skipIf(!vm.keypad[key])
			return nil
		},
	}

	// fx07	ld vx, dt
	ldDelayInstruction = instruction{
		Mnemonic: "ld",
		Name: func(opcode uint16) string {
			return fmt.Sprintf("ld v%x, dt", opX(opcode))
		},
		Execute: func(vm *VM, opcode uint16) error {
			vm.registers[opX(opcode)] = vm.delayTimer
			vm.pc += InstructionSize
			return nil
		},
	}

	// fx0a	ld vx, k	wait for a key press, put key in vx
	// PC stays on this instruction until Cycle sees a key-down edge.
	ldKeyInstruction = instruction{
		Mnemonic: "ld",
		Name: func(opcode uint16) string {
			return fmt.Sprintf("ld v%x, k", opX(opcode))
		},
		Execute: func(vm *VM, opcode uint16) error {
			vm.waiting = true
			vm.waitReg = uint8(opX(opcode))
			vm.hasKeyEdge = false
			return nil
		},
	}

	// fx15	ld dt, vx
	setDelayInstruction = instruction{
		Mnemonic: "ld",
		Name: func(opcode uint16) string {
			return fmt.Sprintf("ld dt, v%x", opX(opcode))
		},
		Execute: func(vm *VM, opcode uint16) error {
			vm.delayTimer = vm.registers[opX(opcode)]
			vm.pc += InstructionSize
			return nil
		},
	}

	// fx18	ld st, vx
	setSoundInstruction = instruction{
		Mnemonic: "ld",
		Name: func(opcode uint16) string {
			return fmt.Sprintf("ld st, v%x", opX(opcode))
		},
		Execute: func(vm *VM, opcode uint16) error {
			vm.soundTimer = vm.registers[opX(opcode)]
			vm.pc += InstructionSize
			return nil
		},
	}

	// fx1e	add i, vx	vf untouched, i keeps 12 bits
	addIndexInstruction = instruction{
		Mnemonic: "add",
		Name: func(opcode uint16) string {
			return fmt.Sprintf("add i, v%x", opX(opcode))
		},
		Execute: func(vm *VM, opcode uint16) error {
			vm.index = (vm.index + uint16(vm.registers[opX(opcode)])) & 0x0FFF
			vm.pc += InstructionSize
			return nil
		},
	}

	// fx29	ld f, vx	point I to the 5 byte glyph for the hex digit in vx
	fontInstruction = instruction{
		Mnemonic: "ld",
		Name: func(opcode uint16) string {
			return fmt.Sprintf("ld f, v%x", opX(opcode))
		},
		Execute: func(vm *VM, opcode uint16) error {
			digit := uint16(vm.registers[opX(opcode)] & 0xF)
			vm.index = FontAddress + digit*FontGlyphSize
			vm.pc += InstructionSize
			return nil
		},
	}

	// fx33	ld b, vx	store bcd of vx at I, I+1, I+2; I unchanged
	bcdInstruction = instruction{
		Mnemonic: "ld",
		Name: func(opcode uint16) string {
			return fmt.Sprintf("ld b, v%x", opX(opcode))
		},
		Execute: func(vm *VM, opcode uint16) error {
			if err := vm.checkRange(vm.index, 3); err != nil {
				return err
			}

			x := vm.registers[opX(opcode)]
			vm.memory[vm.index] = x / 100
			vm.memory[vm.index+1] = (x / 10) % 10
			vm.memory[vm.index+2] = x % 10
			vm.pc += InstructionSize
			return nil
		},
	}

	// fx55	ld [i], vx	store v0-vx at I onwards
	storeInstruction = instruction{
		Mnemonic: "ld",
		Name: func(opcode uint16) string {
			return fmt.Sprintf("ld [i], v%x", opX(opcode))
		},
		Execute: func(vm *VM, opcode uint16) error {
			n := opX(opcode)
			if err := vm.checkRange(vm.index, int(n)+1); err != nil {
				return err
			}

			copy(vm.memory[vm.index:vm.index+n+1], vm.registers[:n+1])

			if vm.quirks.LoadStoreIncrementsIndex {
				vm.index = (vm.index + n + 1) & 0x0FFF
			}

			vm.pc += InstructionSize
			return nil
		},
	}

	// fx65	ld vx, [i]	load v0-vx from I onwards
	loadInstruction = instruction{
		Mnemonic: "ld",
		Name: func(opcode uint16) string {
			return fmt.Sprintf("ld v%x, [i]", opX(opcode))
		},
		Execute: func(vm *VM, opcode uint16) error {
			n := opX(opcode)
			if err := vm.checkRange(vm.index, int(n)+1); err != nil {
				return err
			}

			copy(vm.registers[:n+1], vm.memory[vm.index:vm.index+n+1])

			if vm.quirks.LoadStoreIncrementsIndex {
				vm.index = (vm.index + n + 1) & 0x0FFF
			}

			vm.pc += InstructionSize
			return nil
		},
	}

	unknownInstruction = instruction{
		Name: func(opcode uint16) string {
			return fmt.Sprintf("unknown 0x%04X", opcode)
		},
		Execute: func(vm *VM, opcode uint16) error {
			return ErrUnknownOpcode
		},
	}
)

// 8XY_ forms by low nibble.
var aluInstructions = map[uint16]instruction{
	0x0: ldRegInstruction,
	0x1: orInstruction,
	0x2: andInstruction,
	0x3: xorInstruction,
	0x4: addRegInstruction,
	0x5: subInstruction,
	0x6: shrInstruction,
	0x7: subnInstruction,
	0xE: shlInstruction,
}

// FX__ forms by low byte.
var miscInstructions = map[uint8]instruction{
	0x07: ldDelayInstruction,
	0x0A: ldKeyInstruction,
	0x15: setDelayInstruction,
	0x18: setSoundInstruction,
	0x1E: addIndexInstruction,
	0x29: fontInstruction,
	0x33: bcdInstruction,
	0x55: storeInstruction,
	0x65: loadInstruction,
}

func getScreenAddr(x, y uint16) uint16 {
	x %= ScreenWidth
	y %= ScreenHeight

	screenAddr := ScreenWidth*(y) + x
	return screenAddr
}
