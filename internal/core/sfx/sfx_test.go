package sfx

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/faiface/beep/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/ultrapong/internal/core/systems/physics"
)

func TestSquare(t *testing.T) {
	tone := Tone{Waveform: Square, Frequency: 440, Duration: 0.1}
	assert.Equal(t, float32(0.5), tone.Sample(0))
	assert.Equal(t, float32(0.5), tone.Sample(50))
	assert.Equal(t, float32(-0.5), tone.Sample(51))
	assert.Equal(t, float32(-0.5), tone.Sample(100))
	assert.Equal(t, float32(0.5), tone.Sample(101))
}

func TestSine(t *testing.T) {
	tone := Tone{Waveform: Sine, Frequency: 880, Duration: 0.15}
	for _, i := range []int{0, 7, 13, 100, 5000} {
		at := float64(i) / 44100
		want := 0.5 * math.Sin(2*math.Pi*880*at)
		assert.InDelta(t, want, tone.Sample(i), 1e-3, "sample %d", i)
	}
}

func TestDecayingSine(t *testing.T) {
	tone := Tone{Waveform: DecayingSine, Frequency: 220, Duration: 1}
	for _, i := range []int{0, 50, 22050, 44000} {
		at := float64(i) / 44100
		want := 0.7 * math.Sin(2*math.Pi*220*at) * (1 - at)
		assert.InDelta(t, want, tone.Sample(i), 1e-3, "sample %d", i)
	}

	peak := float32(0)
	for i := 44000; i < tone.Len(); i++ {
		peak = max(peak, abs(tone.Sample(i)))
	}
	assert.Less(t, peak, float32(0.01), "the tail has decayed")

	assert.Zero(t, Tone{Waveform: DecayingSine, Frequency: 220}.Sample(10))
}

func TestPCM16(t *testing.T) {
	pcm := PaddleTone.PCM16()
	assert.InDelta(t, 4410, len(pcm), 1)
	assert.Equal(t, int16(16383), pcm[0])
	assert.Equal(t, int16(-16383), pcm[60])
}

func TestStreamer(t *testing.T) {
	s := WallTone.Streamer()
	require.Equal(t, WallTone.Len(), s.Len())

	buf := make([][2]float64, 512)
	total := 0
	for {
		n, ok := s.Stream(buf)
		if !ok {
			break
		}
		for i := 0; i < n; i++ {
			assert.Equal(t, buf[i][0], buf[i][1])
		}
		total += n
	}
	assert.Equal(t, s.Len(), total)
	assert.Equal(t, s.Len(), s.Position())
	require.NoError(t, s.Err())

	require.NoError(t, s.Seek(10))
	n, ok := s.Stream(buf[:1])
	require.True(t, ok)
	require.Equal(t, 1, n)
	assert.InDelta(t, WallTone.Sample(10), buf[0][0], 1e-9)

	require.ErrorIs(t, s.Seek(-1), ErrSeekOutOfRange)
	require.ErrorIs(t, s.Seek(s.Len()+1), ErrSeekOutOfRange)
}

func TestWriteWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paddle.wav")
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, WriteWAV(f, PaddleTone))
	require.NoError(t, f.Close())

	in, err := os.Open(path)
	require.NoError(t, err)
	defer in.Close()

	stream, format, err := wav.Decode(in)
	require.NoError(t, err)
	defer stream.Close()

	assert.Equal(t, SampleRate, format.SampleRate)
	assert.Equal(t, 2, format.NumChannels)
	assert.Equal(t, 2, format.Precision)
	assert.Equal(t, PaddleTone.Len(), stream.Len())

	buf := make([][2]float64, 1)
	_, ok := stream.Stream(buf)
	require.True(t, ok)
	assert.Positive(t, buf[0][0])

	// the decoder rescales 16-bit samples, so compare the raw PCM frames
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	const header = 44
	require.Len(t, raw, header+PaddleTone.Len()*4)

	pcm := PaddleTone.PCM16()
	for i := range 64 {
		frame := raw[header+i*4:]
		left := int16(binary.LittleEndian.Uint16(frame[0:2]))
		right := int16(binary.LittleEndian.Uint16(frame[2:4]))
		require.Equal(t, pcm[i], left, "sample %d", i)
		require.Equal(t, left, right, "sample %d", i)
	}
	assert.Equal(t, int16(16383), pcm[0])
}

func TestBank(t *testing.T) {
	b := DefaultBank()

	tone, ok := b.Tone(physics.EventPaddleHit)
	require.True(t, ok)
	assert.Equal(t, PaddleTone, tone)

	cue, ok := b.Cue(physics.Event{Kind: physics.EventScored})
	require.True(t, ok)
	assert.Equal(t, ScoreTone.Len(), cue.Len())

	_, ok = b.Cue(physics.Event{})
	assert.False(t, ok)

	b.Set(physics.EventWallHit, Tone{Waveform: Square, Frequency: 100, Duration: 0.5})
	named := b.Named()
	assert.Len(t, named, 3)
	assert.Equal(t, float32(100), named["wall"].Frequency)
	assert.Equal(t, ScoreTone, named["score"])
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
