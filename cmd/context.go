package main

import (
	"context"
	"strings"
	"sync"

	"github.com/bwise1/media_ranker/config"
	deps "github.com/bwise1/media_ranker/internal/debs"
	"github.com/bwise1/media_ranker/internal/logging"
	"github.com/bwise1/media_ranker/internal/store"
	"go.uber.org/zap"
)

type commandContext struct {
	envFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(envFlag *string) *commandContext {
	return &commandContext{envFlag: envFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var files []string
		if c.envFlag != nil && strings.TrimSpace(*c.envFlag) != "" {
			files = append(files, strings.TrimSpace(*c.envFlag))
		}
		c.config, c.configErr = config.New(files...)
	})
	return c.config, c.configErr
}

func (c *commandContext) logger() (*zap.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return logging.New(logging.Options{Level: cfg.LogLevel, Format: cfg.LogFormat})
}

// openStore connects to the configured database for one-shot commands.
func (c *commandContext) openStore(ctx context.Context, logger *zap.Logger) (store.Store, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	st, err := deps.OpenStore(cfg, logger)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		_ = st.Close()
		return nil, err
	}
	return st, nil
}
