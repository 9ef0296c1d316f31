package main

import (
	"errors"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/saturnino-fabrica-de-software/scenefinder/internal/config"
	"github.com/saturnino-fabrica-de-software/scenefinder/internal/domain"
	"github.com/saturnino-fabrica-de-software/scenefinder/internal/provider"
	"github.com/saturnino-fabrica-de-software/scenefinder/internal/render"
	"github.com/saturnino-fabrica-de-software/scenefinder/internal/scene"
	"github.com/saturnino-fabrica-de-software/scenefinder/internal/service"
)

type commandContext struct {
	configFlag *string
	verbose    *bool

	configOnce sync.Once
	config     *config.Config
	configErr  error

	serviceOnce sync.Once
	provider    provider.SceneProvider
	service     *service.SceneService
	serviceErr  error
}

func newCommandContext(configFlag *string, verbose *bool) *commandContext {
	return &commandContext{
		configFlag: configFlag,
		verbose:    verbose,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		c.config, c.configErr = config.LoadFile(path)
	})
	return c.config, c.configErr
}

func (c *commandContext) logger(cfg *config.Config) *slog.Logger {
	if c.verbose != nil && *c.verbose {
		return config.NewFileLogger(os.Stderr, cfg)
	}
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func (c *commandContext) ensureService() (*service.SceneService, error) {
	c.serviceOnce.Do(func() {
		cfg, err := c.ensureConfig()
		if err != nil {
			c.serviceErr = err
			return
		}

		logger := c.logger(cfg)
		p, err := scene.NewSceneProvider(cfg, logger)
		if err != nil {
			c.serviceErr = err
			return
		}

		c.provider = p
		c.service = service.NewSceneService(p, render.Options{
			MaxResults:    cfg.MaxResults,
			EnablePreview: cfg.EnablePreview,
			PreviewKind:   cfg.Preview(),
		}, logger)
	})
	return c.service, c.serviceErr
}

func (c *commandContext) close() error {
	if c.provider == nil {
		return nil
	}
	return c.provider.Close()
}

// userError keeps the user-facing message of classified errors and drops
// the transport detail.
func userError(action string, err error) error {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		return errors.New(action + ": " + appErr.Message)
	}
	return err
}
