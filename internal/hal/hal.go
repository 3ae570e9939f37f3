package hal

import (
	"errors"
	"fmt"
	"log/slog"
	"time"
	"unsafe"

	"github.com/kapitanov/chip8core/internal/vm"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	WindowWidth  = 1024
	WindowHeight = 512
)

type HAL struct {
	window          *sdl.Window
	renderer        *sdl.Renderer
	texture         *sdl.Texture
	backBuffer      []uint32
	backBufferPitch int

	audio *audio

	nextFrame time.Time
}

var _ vm.HAL = (*HAL)(nil)

var (
	ErrReboot = errors.New("reboot")
	ErrQuit   = errors.New("quit")
)

func New() (_ *HAL, err error) {
	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_AUDIO | sdl.INIT_EVENTS); err != nil {
		return nil, fmt.Errorf("failed to init sdl: %w", err)
	}

	hal := &HAL{
		backBuffer:      make([]uint32, vm.ScreenWidth*vm.ScreenHeight),
		backBufferPitch: int(vm.ScreenWidth) * int(unsafe.Sizeof(uint32(0))),
	}
	defer func() {
		if err != nil {
			hal.Shutdown()
		}
	}()

	hal.window, err = sdl.CreateWindow("CHIP-8", sdl.WINDOWPOS_UNDEFINED, sdl.WINDOWPOS_UNDEFINED, WindowWidth, WindowHeight, sdl.WINDOW_SHOWN|sdl.WINDOW_UTILITY)
	if err != nil {
		return nil, fmt.Errorf("failed to create sdl window: %w", err)
	}
	slog.Debug("hal: create window")
	hal.window.Show()

	hal.renderer, err = sdl.CreateRenderer(hal.window, -1, sdl.RENDERER_ACCELERATED)
	if err != nil {
		return nil, fmt.Errorf("failed to create sdl renderer: %w", err)
	}
	if err = hal.renderer.SetLogicalSize(WindowWidth, WindowHeight); err != nil {
		return nil, fmt.Errorf("failed to resize sdl renderer: %w", err)
	}
	slog.Debug("hal: create renderer")

	hal.texture, err = hal.renderer.CreateTexture(sdl.PIXELFORMAT_ARGB8888, sdl.TEXTUREACCESS_STREAMING, vm.ScreenWidth, vm.ScreenHeight)
	if err != nil {
		return nil, fmt.Errorf("failed to create sdl texture: %w", err)
	}
	slog.Debug("hal: create texture")

	// A missing audio device is not fatal, the machine just runs silent.
	if a, audioErr := openAudio(); audioErr != nil {
		slog.Warn("hal: audio disabled", "err", audioErr)
	} else {
		slog.Debug("hal: open audio", "freq", a.freq)
		hal.audio = a
	}

	return hal, nil
}

// Shutdown releases whatever New managed to create, so it also cleans up
// after a partially failed New.
func (hal *HAL) Shutdown() {
	if hal.audio != nil {
		hal.audio.close()
		hal.audio = nil
	}

	if hal.texture != nil {
		if err := hal.texture.Destroy(); err != nil {
			slog.Error("failed to destroy sdl texture", "err", err)
		}
		hal.texture = nil
	}

	if hal.renderer != nil {
		if err := hal.renderer.Destroy(); err != nil {
			slog.Error("failed to destroy sdl renderer", "err", err)
		}
		hal.renderer = nil
	}

	if hal.window != nil {
		if err := hal.window.Destroy(); err != nil {
			slog.Error("failed to destroy sdl window", "err", err)
		}
		hal.window = nil
	}

	sdl.Quit()
}

func (hal *HAL) ReadInput(keyDown func(vm.Key), keyUp func(vm.Key)) error {
	for e := sdl.PollEvent(); e != nil; e = sdl.PollEvent() {
		switch ev := e.(type) {
		case *sdl.QuitEvent:
			slog.Debug("hal: window closed")
			return ErrQuit

		case *sdl.KeyboardEvent:
			if err := hal.processKey(ev, keyDown, keyUp); err != nil {
				return err
			}
		}
	}

	return nil
}

func (hal *HAL) processKey(e *sdl.KeyboardEvent, keyDown, keyUp func(vm.Key)) error {
	pressed := e.Type == sdl.KEYDOWN

	if pressed {
		switch e.Keysym.Scancode {
		case sdl.SCANCODE_BACKSPACE:
			return ErrReboot
		case sdl.SCANCODE_ESCAPE:
			slog.Debug("hal: exit requested")
			return ErrQuit
		}
	}

	key, ok := keyMap(e.Keysym.Scancode)
	if !ok {
		return nil
	}

	if pressed {
		keyDown(key)
	} else {
		keyUp(key)
	}
	return nil
}

// padScancodes places the hex pad on the left of a QWERTY keyboard:
//
//	1 2 3 4      1 2 3 C
//	Q W E R  =>  4 5 6 D
//	A S D F      7 8 9 E
//	Z X C V      A 0 B F
var padScancodes = [vm.KeyCount]sdl.Scancode{
	vm.Key0: sdl.SCANCODE_X,
	vm.Key1: sdl.SCANCODE_1,
	vm.Key2: sdl.SCANCODE_2,
	vm.Key3: sdl.SCANCODE_3,
	vm.Key4: sdl.SCANCODE_Q,
	vm.Key5: sdl.SCANCODE_W,
	vm.Key6: sdl.SCANCODE_E,
	vm.Key7: sdl.SCANCODE_A,
	vm.Key8: sdl.SCANCODE_S,
	vm.Key9: sdl.SCANCODE_D,
	vm.KeyA: sdl.SCANCODE_Z,
	vm.KeyB: sdl.SCANCODE_C,
	vm.KeyC: sdl.SCANCODE_4,
	vm.KeyD: sdl.SCANCODE_R,
	vm.KeyE: sdl.SCANCODE_F,
	vm.KeyF: sdl.SCANCODE_V,
}

func keyMap(scancode sdl.Scancode) (vm.Key, bool) {
	for i, sc := range padScancodes {
		if sc == scancode {
			return vm.Key(i), true
		}
	}
	return 0, false
}

const (
	bgColor = uint32(0x000000)
	fgColor = uint32(0xbea700)
)

func fillBackBuffer(dst []uint32, frame []uint8) {
	for i, px := range frame {
		if px != 0 {
			dst[i] = fgColor
		} else {
			dst[i] = bgColor
		}
	}
}

func (hal *HAL) Draw(frame []uint8) error {
	fillBackBuffer(hal.backBuffer, frame)

	backBufferPtr := unsafe.Pointer(&hal.backBuffer[0])
	if err := hal.texture.Update(nil, backBufferPtr, hal.backBufferPitch); err != nil {
		return fmt.Errorf("failed to update sdl texture: %w", err)
	}

	if err := hal.renderer.Clear(); err != nil {
		return fmt.Errorf("failed to clear sdl renderer: %w", err)
	}

	if err := hal.renderer.Copy(hal.texture, nil, nil); err != nil {
		return fmt.Errorf("failed to copy sdl texture to renderer: %w", err)
	}

	hal.renderer.Present()
	return nil
}

func (hal *HAL) Tone(on bool) error {
	if hal.audio == nil {
		return nil
	}
	return hal.audio.tone(on)
}

func (hal *HAL) WaitForNextFrame() error {
	hal.nextFrame = nextDeadline(hal.nextFrame, time.Now())
	time.Sleep(time.Until(hal.nextFrame))
	return nil
}

const frameDuration = time.Second / vm.FrameRate

// nextDeadline advances prev by one frame. When the host fell more than a
// frame behind it resynchronises on now instead of bursting to catch up.
func nextDeadline(prev, now time.Time) time.Time {
	next := prev.Add(frameDuration)
	if next.Before(now) {
		return now.Add(frameDuration)
	}
	return next
}
