package main

import (
	"strings"
	"sync"

	"github.com/agenthands/echofilter/internal/config"
	"github.com/agenthands/echofilter/internal/store"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		path := "config/config.toml"
		if c.configFlag != nil && strings.TrimSpace(*c.configFlag) != "" {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, err := config.LoadOrDefault(path)
		if err != nil {
			c.configErr = err
			return
		}
		config.ApplyEnv(cfg)
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) openStore() (store.AnalysisStore, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return store.Open(cfg.Storage.Path)
}
