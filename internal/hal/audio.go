package hal

import (
	"fmt"

	"github.com/kapitanov/chip8core/internal/vm"
	"github.com/veandco/go-sdl2/sdl"
)

const (
	audioFreq     = 44100
	toneFreq      = 440
	toneAmplitude = 32
)

type audio struct {
	device sdl.AudioDeviceID
	freq   int
	frame  []byte // One frame of square wave
}

func openAudio() (*audio, error) {
	desired := sdl.AudioSpec{
		Freq:     audioFreq,
		Format:   sdl.AUDIO_U8,
		Channels: 1,
		Samples:  512,
	}
	var obtained sdl.AudioSpec

	device, err := sdl.OpenAudioDevice("", false, &desired, &obtained, 0)
	if err != nil {
		return nil, fmt.Errorf("failed to open sdl audio device: %w", err)
	}

	freq := int(obtained.Freq)
	sdl.PauseAudioDevice(device, false)

	return &audio{
		device: device,
		freq:   freq,
		frame:  squareWave(freq/vm.FrameRate, freq/toneFreq),
	}, nil
}

// squareWave returns n unsigned 8-bit samples of a square wave with the given
// period in samples, centered on 0x80.
func squareWave(n, period int) []byte {
	if period < 2 {
		period = 2
	}

	samples := make([]byte, n)
	for i := range samples {
		if i%period < period/2 {
			samples[i] = 0x80 + toneAmplitude
		} else {
			samples[i] = 0x80 - toneAmplitude
		}
	}
	return samples
}

// tone queues one more frame of sound while on, and drops whatever is still
// queued when switched off.
func (a *audio) tone(on bool) error {
	if !on {
		sdl.ClearQueuedAudio(a.device)
		return nil
	}

	if err := sdl.QueueAudio(a.device, a.frame); err != nil {
		return fmt.Errorf("failed to queue sdl audio: %w", err)
	}
	return nil
}

func (a *audio) close() {
	sdl.CloseAudioDevice(a.device)
}
