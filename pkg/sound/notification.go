package sound

import (
	"fmt"
	"os"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/generators"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
)

const sampleRate = beep.SampleRate(44100)

// SoundNotifier plays the attention chime.
type SoundNotifier struct {
	file string
}

// NewSoundNotifier initializes the speaker. With file set, that WAV is
// played instead of the built-in chime.
func NewSoundNotifier(file string) (*SoundNotifier, error) {
	if file != "" {
		if _, err := os.Stat(file); err != nil {
			return nil, fmt.Errorf("urgency sound: %w", err)
		}
	}

	if err := speaker.Init(sampleRate, sampleRate.N(100*time.Millisecond)); err != nil {
		return nil, fmt.Errorf("failed to initialize audio: %w", err)
	}

	return &SoundNotifier{file: file}, nil
}

// PlayAttention starts the chime and returns without waiting for it.
func (s *SoundNotifier) PlayAttention() error {
	if s.file != "" {
		return s.playFile()
	}

	streamer, err := chime(sampleRate)
	if err != nil {
		return err
	}
	speaker.Play(streamer)
	return nil
}

func (s *SoundNotifier) playFile() error {
	f, err := os.Open(s.file)
	if err != nil {
		return fmt.Errorf("failed to open sound file: %w", err)
	}

	streamer, format, err := wav.Decode(f)
	if err != nil {
		f.Close()
		return fmt.Errorf("failed to decode WAV: %w", err)
	}

	var out beep.Streamer = streamer
	if format.SampleRate != sampleRate {
		out = beep.Resample(4, format.SampleRate, sampleRate, streamer)
	}

	speaker.Play(beep.Seq(out, beep.Callback(func() {
		streamer.Close()
	})))
	return nil
}

// chime is two short sine tones, a fifth apart.
func chime(sr beep.SampleRate) (beep.Streamer, error) {
	low, err := generators.SineTone(sr, 660)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tone: %w", err)
	}
	high, err := generators.SineTone(sr, 990)
	if err != nil {
		return nil, fmt.Errorf("failed to generate tone: %w", err)
	}

	tones := beep.Seq(
		beep.Take(sr.N(120*time.Millisecond), low),
		generators.Silence(sr.N(40*time.Millisecond)),
		beep.Take(sr.N(180*time.Millisecond), high),
	)
	return &effects.Gain{Streamer: tones, Gain: -0.7}, nil
}
