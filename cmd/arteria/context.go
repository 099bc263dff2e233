package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"arteria/internal/config"
	"arteria/internal/history"
	"arteria/internal/instrument"
	"arteria/internal/logging"
	"arteria/internal/runfolder"
)

type commandContext struct {
	configFlag   *string
	logLevelFlag *string
	graceFlag    *int
	graceSet     bool

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error

	correlationID string
}

func newCommandContext(configFlag, logLevelFlag *string, graceFlag *int) *commandContext {
	return &commandContext{
		configFlag:    configFlag,
		logLevelFlag:  logLevelFlag,
		graceFlag:     graceFlag,
		correlationID: uuid.NewString(),
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.graceSet && c.graceFlag != nil {
			cfg.Runfolder.CompletedMarkerGraceMinutes = *c.graceFlag
		}
		if c.logLevelFlag != nil && strings.TrimSpace(*c.logLevelFlag) != "" {
			cfg.Logging.Level = strings.ToLower(strings.TrimSpace(*c.logLevelFlag))
		}
		if err := cfg.Validate(); err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
		c.configPath = resolved
	})
	return c.config, c.configErr
}

func (c *commandContext) ensureLogger() (*slog.Logger, error) {
	c.loggerOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.loggerErr = err
			return
		}
		logger, err := logging.NewFromConfig(cfg)
		if err != nil {
			c.loggerErr = fmt.Errorf("init logger: %w", err)
			return
		}
		ctx := logging.WithCorrelationID(context.Background(), c.correlationID)
		c.logger = logging.WithContext(ctx, logger)
	})
	return c.logger, c.loggerErr
}

// openedRunfolder bundles a validated runfolder with the resources opened
// for it. close must always be called.
type openedRunfolder struct {
	*runfolder.Runfolder
	history *history.Store
	logger  *slog.Logger
}

func (o *openedRunfolder) close() {
	if o == nil || o.history == nil {
		return
	}
	if err := o.history.Close(); err != nil {
		logging.WarnWithContext(o.logger, "close history database failed", "history_close_failed",
			logging.Error(err),
			logging.String(logging.FieldImpact, "transitions recorded so far are kept"),
		)
	}
}

// openRunfolder validates path with the configured grace period and
// instrument. When history is enabled, state writes are recorded.
func (c *commandContext) openRunfolder(cmd *cobra.Command, path string) (*openedRunfolder, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	base, err := c.ensureLogger()
	if err != nil {
		return nil, err
	}
	// Open attaches the runfolder path itself.
	logger := logging.NewComponentLogger(base, "runfolder")

	opts := runfolder.Options{
		GraceMinutes: cfg.GraceMinutes(),
		Instrument:   instrument.FromSetting(cfg.Runfolder.Instrument),
		Logger:       logger,
	}

	var store *history.Store
	if cfg.History.Enabled {
		store, err = history.Open(cfg)
		if err != nil {
			return nil, fmt.Errorf("open history: %w", err)
		}
		opts.Observer = store.Observer(commandCtx(cmd))
	}

	rf, err := runfolder.Open(path, opts)
	if err != nil {
		if store != nil {
			_ = store.Close()
		}
		return nil, err
	}
	closeLogger := logging.WithContext(logging.WithRunfolder(commandCtx(cmd), rf.Path()), logger)
	return &openedRunfolder{Runfolder: rf, history: store, logger: closeLogger}, nil
}

func commandCtx(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

var errHistoryDisabled = errors.New("history is disabled in configuration")
