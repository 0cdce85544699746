package main

import (
	"fmt"
	"os"

	"github.com/pontodeaula/pontoaula/internal/app"
	"github.com/pontodeaula/pontoaula/internal/stub"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "stubserver: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := app.LoadConfig()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger := app.NewLogger(cfg)

	store := stub.NewStore()
	if cfg.StubSeed {
		if err := stub.Seed(store); err != nil {
			return fmt.Errorf("seed store: %w", err)
		}
		logger.Info("seeded development data")
	}

	tokens := stub.NewTokenIssuer(cfg.StubJWTSecret, cfg.StubTokenTTL)
	server := stub.NewServer(store, tokens, logger)

	logger.Info("stub backend listening", "addr", cfg.StubAddr)
	return server.ListenAndServe(cfg.StubAddr, cfg.StubReadTimeout, cfg.StubWriteTimeout)
}
