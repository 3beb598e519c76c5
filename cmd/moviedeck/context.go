package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/meur/moviedeck/internal/collection"
	"github.com/meur/moviedeck/internal/config"
	"github.com/meur/moviedeck/internal/logging"
	"github.com/meur/moviedeck/internal/remote"
)

type commandContext struct {
	configFlag *string
	apiFlag    *string

	configOnce sync.Once
	config     *config.Config
	configErr  error

	logger *zap.Logger
	ctrl   *collection.Controller
}

func newCommandContext(configFlag, apiFlag *string) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		apiFlag:    apiFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if c.apiFlag != nil && strings.TrimSpace(*c.apiFlag) != "" {
			cfg.Remote.BaseURL = strings.TrimRight(strings.TrimSpace(*c.apiFlag), "/")
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// controller builds the collection controller against the configured API.
// With logging.file set, logs follow the [logging] section. Otherwise the
// terminal UI logs nothing and other commands only log errors, since their
// own output already reports failed operations.
func (c *commandContext) controller(interactive bool) (*collection.Controller, error) {
	if c.ctrl != nil {
		return c.ctrl, nil
	}
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	logger, err := newCommandLogger(cfg, interactive)
	if err != nil {
		return nil, err
	}
	client, err := remote.New(cfg.Remote.BaseURL, remote.WithTimeout(cfg.RemoteTimeout()))
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}
	c.logger = logger
	c.ctrl = collection.New(client, collection.WithLogger(logger))
	return c.ctrl, nil
}

func newCommandLogger(cfg *config.Config, interactive bool) (*zap.Logger, error) {
	switch {
	case cfg.Logging.File != "":
		return logging.NewFromConfig(cfg)
	case interactive:
		return zap.NewNop(), nil
	default:
		return logging.New(logging.Options{Level: "error", Format: cfg.Logging.Format})
	}
}

// syncedController returns a controller that has attempted its initial fetch.
// A failed fetch is reported on errOut and the fallback list is kept.
func (c *commandContext) syncedController(ctx context.Context, errOut io.Writer) (*collection.Controller, error) {
	ctrl, err := c.controller(false)
	if err != nil {
		return nil, err
	}
	if err := ctrl.Initialize(ctx); err != nil {
		fmt.Fprintf(errOut, "warning: %v (showing sample movies)\n", err)
	}
	return ctrl, nil
}

func (c *commandContext) close() {
	if c.ctrl != nil {
		c.ctrl.Close()
	}
	if c.logger != nil {
		_ = c.logger.Sync()
	}
}
