package main

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/prepdeck/prepdeck/config"
	"github.com/prepdeck/prepdeck/internal/stubservice"
	"github.com/prepdeck/prepdeck/pkg/helpers"
)

func main() {
	_ = godotenv.Load() // load .env if present

	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-stub", cfg.Env)
	gin.SetMode(cfg.GinMode)

	jwtManager := helpers.NewJWTManager(cfg.JWTSecret, cfg.JWTAccessTTL)
	server := stubservice.NewServer(jwtManager, logger)

	r := server.Router(cfg.HTTPLogEnabled)

	logger.Infof("stub interview service listening on :%s", cfg.StubPort)
	if err := http.ListenAndServe(":"+cfg.StubPort, r); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("listen: %s", err)
	}
}
