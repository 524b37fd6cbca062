package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/prepdeck/prepdeck/config"
	"github.com/prepdeck/prepdeck/internal/application"
	"github.com/prepdeck/prepdeck/internal/infrastructure/api"
	"github.com/prepdeck/prepdeck/internal/infrastructure/sqlite"
	"github.com/prepdeck/prepdeck/internal/interface/cli"
	"github.com/prepdeck/prepdeck/pkg/helpers"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)

	tokens, err := sqlite.NewTokenRepository(cfg.TokenDBPath)
	if err != nil {
		log.Fatalf("failed to open token store: %v", err)
	}
	defer func() { _ = tokens.Close() }()

	gateway := api.NewClient(cfg.APIBaseURL, cfg.HTTPTimeout, logger)
	controller := application.NewSessionController(gateway, tokens, logger)

	app := cli.NewApp(controller, os.Stdin, os.Stdout)
	if err := app.Run(context.Background()); err != nil {
		logger.WithError(err).Fatal("client exited with error")
	}
}
