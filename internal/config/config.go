// Package config loads the server configuration from YAML or JSON.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/zeusync/ultrapong/internal/core/observability/log"
	"github.com/zeusync/ultrapong/internal/core/systems/physics"
	"github.com/zeusync/ultrapong/internal/core/theme"
)

var ErrInvalidConfig = errors.New("config: invalid")

type Config struct {
	Court  physics.Court `yaml:"court" json:"court"`
	Match  Match         `yaml:"match" json:"match"`
	Server Server        `yaml:"server" json:"server"`
	Log    log.Config    `yaml:"log" json:"log"`
	Themes []theme.Theme `yaml:"themes" json:"themes"`
}

// MaxTickRate bounds match.tick_rate.
const MaxTickRate = 1000

// Match controls the runner: tick rate, winning score and who plays.
type Match struct {
	TickRate   int    `yaml:"tick_rate" json:"tick_rate"`
	MaxScore   int    `yaml:"max_score" json:"max_score"`
	Seed       uint64 `yaml:"seed" json:"seed"`
	ThemeEvery int    `yaml:"theme_every" json:"theme_every"`
	Bots       [2]Bot `yaml:"bots" json:"bots"`
	// DisabledSystems names per-tick systems (particles, sfx, theme, events)
	// that are registered but never run.
	DisabledSystems []string `yaml:"disabled_systems" json:"disabled_systems"`
}

// Bot enables the computer player for one side. Reaction is in (0,1]. A side
// without a bot only moves through Runner.SetInput.
type Bot struct {
	Enabled  bool    `yaml:"enabled" json:"enabled"`
	Reaction float32 `yaml:"reaction" json:"reaction"`
}

type Server struct {
	HTTPAddr        string `yaml:"http_addr" json:"http_addr"`
	QUICAddr        string `yaml:"quic_addr" json:"quic_addr"`
	SpectatorBuffer int    `yaml:"spectator_buffer" json:"spectator_buffer"`
	MaxSpectators   int    `yaml:"max_spectators" json:"max_spectators"`
}

// Default returns a bot-vs-bot match on the standard court.
func Default() Config {
	return Config{
		Court: physics.DefaultCourt(),
		Match: Match{
			TickRate:   60,
			MaxScore:   11,
			Seed:       1,
			ThemeEvery: 5,
			Bots: [2]Bot{
				{Enabled: true, Reaction: 0.9},
				{Enabled: true, Reaction: 0.8},
			},
		},
		Server: Server{
			HTTPAddr:        ":8080",
			QUICAddr:        ":8443",
			SpectatorBuffer: 64,
			MaxSpectators:   256,
		},
		Log:    log.DefaultConfig(),
		Themes: theme.Defaults(),
	}
}

// Load reads a config file. The format follows the extension: .json is
// JSON, anything else YAML.
func Load(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return LoadJSON(f)
	}
	return LoadYAML(f)
}

// LoadYAML decodes over Default and validates the result.
func LoadYAML(r io.Reader) (Config, error) {
	c := Default()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: decode yaml: %w", err)
	}
	return c, c.Validate()
}

// LoadJSON decodes over Default and validates the result.
func LoadJSON(r io.Reader) (Config, error) {
	c := Default()
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, fmt.Errorf("config: decode json: %w", err)
	}
	return c, c.Validate()
}

func (c Config) Validate() error {
	var errs []error
	if err := c.Court.Validate(); err != nil {
		errs = append(errs, err)
	}
	if c.Match.TickRate <= 0 || c.Match.TickRate > MaxTickRate {
		errs = append(errs, fmt.Errorf("%w: match.tick_rate must be in [1,%d], got %d", ErrInvalidConfig, MaxTickRate, c.Match.TickRate))
	}
	if c.Match.MaxScore < 0 {
		errs = append(errs, fmt.Errorf("%w: match.max_score must not be negative", ErrInvalidConfig))
	}
	if c.Match.ThemeEvery < 0 {
		errs = append(errs, fmt.Errorf("%w: match.theme_every must not be negative", ErrInvalidConfig))
	}
	for i, b := range c.Match.Bots {
		if b.Enabled && (b.Reaction <= 0 || b.Reaction > 1) {
			errs = append(errs, fmt.Errorf("%w: match.bots[%d].reaction must be in (0,1]", ErrInvalidConfig, i))
		}
	}
	if c.Server.SpectatorBuffer <= 0 {
		errs = append(errs, fmt.Errorf("%w: server.spectator_buffer must be positive", ErrInvalidConfig))
	}
	if c.Server.MaxSpectators < 0 {
		errs = append(errs, fmt.Errorf("%w: server.max_spectators must not be negative", ErrInvalidConfig))
	}
	if err := c.Log.Validate(); err != nil {
		errs = append(errs, err)
	}
	if len(c.Themes) == 0 {
		errs = append(errs, fmt.Errorf("%w: at least one theme is required", ErrInvalidConfig))
	}
	for _, t := range c.Themes {
		if err := t.Validate(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
