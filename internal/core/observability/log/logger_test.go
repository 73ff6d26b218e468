package log

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type side int

func (s side) String() string { return [...]string{"left", "right"}[s] }

func observed() (*Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return FromZap(zap.New(core)), logs
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   LevelDebug,
		"":        LevelInfo,
		"INFO":    LevelInfo,
		"warning": LevelWarn,
		"error":   LevelError,
		"fatal":   LevelFatal,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseLevel("loud")
	require.ErrorIs(t, err, ErrUnknownLevel)
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, DefaultConfig().Validate())
	require.Error(t, Config{Level: "info", Encoding: "xml"}.Validate())
	require.ErrorIs(t, Config{Level: "chatty"}.Validate(), ErrUnknownLevel)
}

func TestFieldsReachZap(t *testing.T) {
	logger, logs := observed()

	logger.Info("paddle hit",
		String("match", "m-1"),
		Int("tick", 42),
		Uint64("seed", 7),
		Float32("speed", 420),
		Duration("dt", 16*time.Millisecond),
		Stringer("side", side(1)),
		Error(errors.New("boom")),
		Field{Key: "scores", Value: [2]int{1, 0}},
	)

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "paddle hit", entry.Message)

	ctx := entry.ContextMap()
	assert.Equal(t, "m-1", ctx["match"])
	assert.Equal(t, int64(42), ctx["tick"])
	assert.Equal(t, uint64(7), ctx["seed"])
	assert.Equal(t, float32(420), ctx["speed"])
	assert.Equal(t, [2]int{1, 0}, ctx["scores"])
	assert.Equal(t, 16*time.Millisecond, ctx["dt"])
	assert.Equal(t, "right", ctx["side"])
	assert.Equal(t, "boom", ctx["error"])
}

func TestLevelFiltering(t *testing.T) {
	logger, logs := observed()
	logger.SetLevel(LevelWarn)
	assert.Equal(t, LevelWarn, logger.GetLevel())

	logger.Debug("dropped")
	logger.Info("dropped")
	logger.Warn("kept")
	logger.Log(LevelError, "kept")

	assert.Equal(t, 2, logs.Len())
}

func TestWithAndNamedShareLevel(t *testing.T) {
	logger, logs := observed()
	child := logger.With(String("component", "match")).Named("runner")

	logger.SetLevel(LevelError)
	child.Info("dropped")
	child.Error("kept")

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "runner", entry.LoggerName)
	assert.Equal(t, "match", entry.ContextMap()["component"])
}

func TestNopAndProvide(t *testing.T) {
	nop := Nop()
	nop.Error("nothing")
	require.NoError(t, nop.Sync())

	assert.NotNil(t, Provide())
	assert.Same(t, Provide(), Provide())
}

func TestNewWithConfigRejectsBadLevel(t *testing.T) {
	_, err := NewWithConfig(Config{Level: "nope"})
	require.ErrorIs(t, err, ErrUnknownLevel)

	logger, err := NewWithConfig(Config{Level: "debug", Encoding: "console"})
	require.NoError(t, err)
	assert.Equal(t, LevelDebug, logger.GetLevel())
}
