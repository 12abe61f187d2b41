package commands

import (
	"fmt"

	"github.com/gerunddev/parsercache/internal/builtin"
	"github.com/gerunddev/parsercache/internal/config"
	"github.com/gerunddev/parsercache/internal/logger"
	"github.com/gerunddev/parsercache/internal/metrics"
	"github.com/gerunddev/parsercache/internal/parser"
)

// Env is everything a command needs to parse files
type Env struct {
	Config  *config.Config
	Parsers *parser.Parsers
	Log     *logger.Logger
	Metrics *metrics.Collector

	cleanup func()
}

// Setup builds the logger, metrics and parser registry described by cfg
func Setup(cfg *config.Config) (*Env, error) {
	level, err := logger.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}

	env := &Env{
		Config:  cfg,
		Log:     logger.Discard(),
		Metrics: metrics.NewCollector(nil),
		cleanup: func() {},
	}

	if cfg.LogFile != "" {
		l, cleanup, err := logger.NewFileLogger(cfg.LogFile, level)
		if err != nil {
			return nil, fmt.Errorf("failed to open log file: %w", err)
		}
		env.Log = l
		env.cleanup = cleanup
	}

	env.Parsers = parser.New(
		parser.WithLogger(env.Log),
		parser.WithMetrics(env.Metrics),
	).Init()

	if err := builtin.Apply(env.Parsers.Registry(), cfg.Stacks); err != nil {
		env.Close()
		return nil, fmt.Errorf("failed to register stacks: %w", err)
	}

	env.Log.ConfigLoaded(config.ConfigPath(), len(cfg.Stacks))
	return env, nil
}

// Close releases the log file
func (e *Env) Close() {
	e.cleanup()
}
