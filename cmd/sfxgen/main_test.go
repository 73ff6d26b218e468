package main

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/faiface/beep/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/ultrapong/internal/core/observability/log"
	"github.com/zeusync/ultrapong/internal/core/sfx"
)

func TestGenerateWritesEveryCue(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "sfx")
	require.NoError(t, generate(context.Background(), dir, sfx.DefaultBank(), log.Nop()))

	for name, tone := range map[string]sfx.Tone{
		"paddle": sfx.PaddleTone,
		"wall":   sfx.WallTone,
		"score":  sfx.ScoreTone,
	} {
		f, err := os.Open(filepath.Join(dir, name+".wav"))
		require.NoError(t, err, name)

		stream, format, err := wav.Decode(f)
		require.NoError(t, err, name)
		assert.Equal(t, sfx.SampleRate, format.SampleRate)
		assert.Equal(t, tone.Len(), stream.Len(), name)
		require.NoError(t, stream.Close())
	}
}
