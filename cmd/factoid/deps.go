package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/ersonp/factoid-core/internal/domain/ports"
	"github.com/ersonp/factoid-core/internal/infrastructure/config"
	"github.com/ersonp/factoid-core/internal/infrastructure/connector"
)

// withConnector loads the config, opens the configured backend and calls the
// provided function. Cleanup happens automatically.
func withConnector(fn func(*config.Config, ports.Connector) error) error {
	cwd, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("getting current directory: %w", err)
	}

	cfg, err := config.Load(cwd)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck // stderr sync failure is not actionable

	conn, err := connector.Open(cwd, cfg, log)
	if err != nil {
		return fmt.Errorf("opening %s connector: %w", cfg.Connector, err)
	}
	defer conn.Close()

	return fn(cfg, conn)
}

// newLogger builds the CLI logger. Debug output stays off unless --verbose
// is set so command output remains clean.
func newLogger() (*zap.SugaredLogger, error) {
	if !globalVerbose {
		return zap.NewNop().Sugar(), nil
	}

	logger, err := zap.NewDevelopment()
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}
	return logger.Sugar(), nil
}
