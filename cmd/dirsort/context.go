package main

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"dirsort/internal/config"
	"dirsort/internal/logging"
	"dirsort/internal/services"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configPath string
	configErr  error

	loggerOnce sync.Once
	logger     *slog.Logger
	loggerErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, resolved, _, err := config.Load(path)
		if err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "", "load config", "", err)
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = services.Wrap(services.ErrConfiguration, "", "ensure directories", "", err)
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
		c.logger = logger
	})
	return c.logger, c.loggerErr
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

// requireRoot mirrors the classic usage message when the root argument is
// missing.
func requireRoot(cmd *cobra.Command, args []string) error {
	switch {
	case len(args) == 0:
		return services.Wrap(services.ErrConfiguration, "", "parse arguments",
			"You must enter the path to a folder. Command example: "+cmd.Root().Name()+" <root>", nil)
	case len(args) > 1:
		return services.Wrap(services.ErrConfiguration, "", "parse arguments",
			fmt.Sprintf("expected one root directory, got %d arguments", len(args)), nil)
	}
	return nil
}
