// Package sfx synthesises the game's sound effects procedurally. Nothing here
// talks to an audio device; hosts pull samples through a beep.Streamer or
// write them out as WAV.
package sfx

import (
	"errors"
	"fmt"
	"io"

	"github.com/chewxy/math32"
	"github.com/faiface/beep"
	"github.com/faiface/beep/wav"

	"github.com/zeusync/ultrapong/internal/core/systems/physics"
)

const SampleRate beep.SampleRate = 44100

// Format is mono-duplicated 16-bit stereo at SampleRate.
var Format = beep.Format{SampleRate: SampleRate, NumChannels: 2, Precision: 2}

var ErrSeekOutOfRange = errors.New("sfx: seek out of range")

type Waveform uint8

const (
	Square Waveform = iota
	Sine
	DecayingSine
)

func (w Waveform) String() string {
	switch w {
	case Square:
		return "square"
	case Sine:
		return "sine"
	case DecayingSine:
		return "decaying_sine"
	default:
		return fmt.Sprintf("Waveform(%d)", uint8(w))
	}
}

// Tone is a fixed-length synthesised sound. Frequency is in Hz and Duration
// in seconds.
type Tone struct {
	Waveform  Waveform
	Frequency float32
	Duration  float32
}

// Len is the number of samples in the tone.
func (t Tone) Len() int {
	return int(t.Duration * float32(SampleRate))
}

// Sample returns the value of sample i in [-1, 1].
func (t Tone) Sample(i int) float32 {
	at := float32(i) / float32(SampleRate)
	switch t.Waveform {
	case Square:
		if math32.Mod(at*t.Frequency, 1) < 0.5 {
			return 0.5
		}
		return -0.5
	case Sine:
		return 0.5 * math32.Sin(2*math32.Pi*t.Frequency*at)
	case DecayingSine:
		if t.Duration <= 0 {
			return 0
		}
		return 0.7 * math32.Sin(2*math32.Pi*t.Frequency*at) * (1 - at/t.Duration)
	}
	return 0
}

// PCM16 renders the whole tone as signed 16-bit samples.
func (t Tone) PCM16() []int16 {
	out := make([]int16, t.Len())
	for i := range out {
		out[i] = int16(t.Sample(i) * 32767)
	}
	return out
}

// Streamer returns a fresh seekable stream over the tone.
func (t Tone) Streamer() beep.StreamSeeker {
	return &toneStreamer{tone: t, n: t.Len()}
}

type toneStreamer struct {
	tone Tone
	n    int
	pos  int
}

func (s *toneStreamer) Stream(samples [][2]float64) (n int, ok bool) {
	if s.pos >= s.n {
		return 0, false
	}
	for n < len(samples) && s.pos < s.n {
		v := float64(s.tone.Sample(s.pos))
		samples[n] = [2]float64{v, v}
		n++
		s.pos++
	}
	return n, true
}

func (s *toneStreamer) Err() error    { return nil }
func (s *toneStreamer) Len() int      { return s.n }
func (s *toneStreamer) Position() int { return s.pos }

func (s *toneStreamer) Seek(p int) error {
	if p < 0 || p > s.n {
		return fmt.Errorf("%w: %d not in [0, %d]", ErrSeekOutOfRange, p, s.n)
	}
	s.pos = p
	return nil
}

// WriteWAV encodes the tone as a 16-bit stereo WAV file.
func WriteWAV(w io.WriteSeeker, t Tone) error {
	if err := wav.Encode(w, t.Streamer(), Format); err != nil {
		return fmt.Errorf("sfx: encode %s tone: %w", t.Waveform, err)
	}
	return nil
}

var (
	PaddleTone = Tone{Waveform: Square, Frequency: 440, Duration: 0.1}
	WallTone   = Tone{Waveform: Sine, Frequency: 880, Duration: 0.15}
	ScoreTone  = Tone{Waveform: DecayingSine, Frequency: 220, Duration: 1}
)

// Bank maps physics events to the tone played for them.
type Bank struct {
	tones map[physics.EventKind]Tone
}

func DefaultBank() *Bank {
	return &Bank{tones: map[physics.EventKind]Tone{
		physics.EventPaddleHit: PaddleTone,
		physics.EventWallHit:   WallTone,
		physics.EventScored:    ScoreTone,
	}}
}

func (b *Bank) Set(kind physics.EventKind, t Tone) {
	b.tones[kind] = t
}

func (b *Bank) Tone(kind physics.EventKind) (Tone, bool) {
	t, ok := b.tones[kind]
	return t, ok
}

// Cue returns a new stream for the event, or false when the event is silent.
func (b *Bank) Cue(ev physics.Event) (beep.StreamSeeker, bool) {
	t, ok := b.tones[ev.Kind]
	if !ok {
		return nil, false
	}
	return t.Streamer(), true
}

// Named lists the bank's tones by file-friendly name.
func (b *Bank) Named() map[string]Tone {
	out := make(map[string]Tone, len(b.tones))
	for kind, t := range b.tones {
		out[cueName(kind)] = t
	}
	return out
}

func cueName(kind physics.EventKind) string {
	switch kind {
	case physics.EventPaddleHit:
		return "paddle"
	case physics.EventWallHit:
		return "wall"
	case physics.EventScored:
		return "score"
	default:
		return kind.String()
	}
}
