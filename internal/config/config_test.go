package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeusync/ultrapong/internal/core/observability/log"
	"github.com/zeusync/ultrapong/internal/core/systems/physics"
)

func TestDefaultIsValid(t *testing.T) {
	require.NoError(t, Default().Validate())
}

func TestLoadYAMLOverridesDefaults(t *testing.T) {
	c, err := LoadYAML(strings.NewReader(`
court:
  width: 800
  height: 600
match:
  tick_rate: 120
  max_score: 3
log:
  level: debug
`))
	require.NoError(t, err)

	assert.Equal(t, float32(800), c.Court.Width)
	assert.Equal(t, float32(600), c.Court.Height)
	assert.Equal(t, float32(400), c.Court.InitialBallSpeed, "untouched keys keep their defaults")
	assert.Equal(t, 120, c.Match.TickRate)
	assert.Equal(t, 3, c.Match.MaxScore)
	assert.Equal(t, "debug", c.Log.Level)
	assert.Len(t, c.Themes, 3)
}

func TestLoadYAMLEmptyDocument(t *testing.T) {
	c, err := LoadYAML(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, Default(), c)
}

func TestLoadYAMLRejectsUnknownKeys(t *testing.T) {
	_, err := LoadYAML(strings.NewReader("match:\n  tickrate: 5\n"))
	require.Error(t, err)
}

func TestLoadJSON(t *testing.T) {
	c, err := LoadJSON(strings.NewReader(`{"match": {"tick_rate": 30, "seed": 99}}`))
	require.NoError(t, err)
	assert.Equal(t, 30, c.Match.TickRate)
	assert.Equal(t, uint64(99), c.Match.Seed)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	yamlPath := filepath.Join(dir, "pong.yaml")
	require.NoError(t, os.WriteFile(yamlPath, []byte("server:\n  http_addr: \":9000\"\n"), 0o600))
	c, err := Load(yamlPath)
	require.NoError(t, err)
	assert.Equal(t, ":9000", c.Server.HTTPAddr)

	jsonPath := filepath.Join(dir, "pong.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`{"server": {"quic_addr": ":9443"}}`), 0o600))
	c, err = Load(jsonPath)
	require.NoError(t, err)
	assert.Equal(t, ":9443", c.Server.QUICAddr)

	_, err = Load(filepath.Join(dir, "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestShippedConfigLoads(t *testing.T) {
	c, err := Load(filepath.Join("..", "..", "configs", "ultrapong.yaml"))
	require.NoError(t, err)
	assert.Equal(t, physics.DefaultCourt(), c.Court)
	assert.Empty(t, c.Match.DisabledSystems)
}

func TestTickRateBounds(t *testing.T) {
	c := Default()
	c.Match.TickRate = MaxTickRate
	require.NoError(t, c.Validate())

	c.Match.TickRate = 2_000_000_000
	err := c.Validate()
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Contains(t, err.Error(), "match.tick_rate")
}

func TestValidate(t *testing.T) {
	cases := map[string]func(*Config){
		"tick rate":      func(c *Config) { c.Match.TickRate = 0 },
		"tick rate cap":  func(c *Config) { c.Match.TickRate = MaxTickRate + 1 },
		"max score":      func(c *Config) { c.Match.MaxScore = -1 },
		"bot reaction":   func(c *Config) { c.Match.Bots[0].Reaction = 0 },
		"buffer":         func(c *Config) { c.Server.SpectatorBuffer = 0 },
		"no themes":      func(c *Config) { c.Themes = nil },
		"court":          func(c *Config) { c.Court.BallAcceleration = 1 },
		"paddle too big": func(c *Config) { c.Court.PaddleHalfHeight = 400 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			c := Default()
			mutate(&c)
			require.Error(t, c.Validate())
		})
	}

	t.Run("errors are joined", func(t *testing.T) {
		c := Default()
		c.Match.TickRate = 0
		c.Court.Width = 0
		c.Log.Level = "shout"
		err := c.Validate()
		require.ErrorIs(t, err, ErrInvalidConfig)
		require.ErrorIs(t, err, physics.ErrInvalidCourt)
		require.ErrorIs(t, err, log.ErrUnknownLevel)
	})

	t.Run("disabled bot ignores reaction", func(t *testing.T) {
		c := Default()
		c.Match.Bots[1] = Bot{}
		require.NoError(t, c.Validate())
	})
}
