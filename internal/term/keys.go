package term

import "github.com/kapitanov/chip8core/internal/vm"

func keyMap(b byte) (vm.Key, bool) {
	// Same layout as the SDL host:
	// 1 2 3 4      1 2 3 C
	// q w e r  =>  4 5 6 D
	// a s d f      7 8 9 E
	// z x c v      A 0 B F
	if b >= 'A' && b <= 'Z' {
		b += 'a' - 'A'
	}

	switch b {
	case 'x':
		return vm.Key0, true
	case '1':
		return vm.Key1, true
	case '2':
		return vm.Key2, true
	case '3':
		return vm.Key3, true
	case 'q':
		return vm.Key4, true
	case 'w':
		return vm.Key5, true
	case 'e':
		return vm.Key6, true
	case 'a':
		return vm.Key7, true
	case 's':
		return vm.Key8, true
	case 'd':
		return vm.Key9, true
	case 'z':
		return vm.KeyA, true
	case 'c':
		return vm.KeyB, true
	case '4':
		return vm.KeyC, true
	case 'r':
		return vm.KeyD, true
	case 'f':
		return vm.KeyE, true
	case 'v':
		return vm.KeyF, true
	default:
		return 0, false
	}
}

// keyLatch turns a stream of key bytes into press/release pairs. Each press
// refreshes a countdown; the key is released when it runs out.
type keyLatch struct {
	hold   int
	frames [vm.KeyCount]int
}

func newKeyLatch(hold int) keyLatch {
	return keyLatch{hold: hold}
}

func (l *keyLatch) press(key vm.Key, keyDown func(vm.Key)) {
	if l.frames[key] == 0 {
		keyDown(key)
	}
	l.frames[key] = l.hold
}

func (l *keyLatch) advance(keyUp func(vm.Key)) {
	for i, n := range l.frames {
		if n == 0 {
			continue
		}

		l.frames[i]--
		if l.frames[i] == 0 {
			keyUp(vm.Key(i))
		}
	}
}
