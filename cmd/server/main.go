package main

import (
	"fmt"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/thereayou/eventnet/internal/config"
	"github.com/thereayou/eventnet/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}

	log := logger.New(cfg.LogLevel, cfg.LogFormat)
	if cfg.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}

	srv, err := NewServer(cfg, &log)
	if err != nil {
		log.Fatal().Err(err).Msg("server init failed")
	}
	if err := srv.Run(); err != nil {
		log.Fatal().Err(err).Msg("server stopped with error")
	}
}
