package injector

import (
	"github.com/google/wire"

	"github.com/zeusync/ultrapong/internal/config"
	"github.com/zeusync/ultrapong/internal/core/events/bus"
	"github.com/zeusync/ultrapong/internal/core/observability/log"
	"github.com/zeusync/ultrapong/internal/match"
	"github.com/zeusync/ultrapong/internal/server"
)

// ConfigPath is the config file to load. Empty means built-in defaults.
type ConfigPath string

// App is the fully wired headless host.
type App struct {
	Config config.Config
	Logger *log.Logger
	Bus    bus.EventBus
	Match  *match.Runner
	Server *server.Server
}

var ProviderSet = wire.NewSet(
	ProvideConfig,
	ProvideLogger,
	wire.Bind(new(log.Log), new(*log.Logger)),
	bus.New,
	ProvideMatch,
	ProvideServer,
	wire.Struct(new(App), "*"),
)

func ProvideConfig(path ConfigPath) (config.Config, error) {
	if path == "" {
		cfg := config.Default()
		return cfg, cfg.Validate()
	}
	return config.Load(string(path))
}

func ProvideLogger(cfg config.Config) (*log.Logger, error) {
	return log.NewWithConfig(cfg.Log)
}

func ProvideMatch(cfg config.Config, logger log.Log, eventBus bus.EventBus) (*match.Runner, error) {
	return match.New(cfg, logger, eventBus)
}

func ProvideServer(cfg config.Config, runner *match.Runner, logger log.Log) *server.Server {
	return server.NewServer(cfg.Server, runner, logger)
}
