package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"

	"github.com/thereayou/eventnet/internal/config"
	"github.com/thereayou/eventnet/internal/database"
	"github.com/thereayou/eventnet/internal/session"
	ws "github.com/thereayou/eventnet/internal/websocket"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	Router *gin.Engine
	DB     *database.Database
	Redis  *redis.Client
	Hub    *ws.Hub

	cfg *config.Config
	log *zerolog.Logger
}

func NewServer(cfg *config.Config, log *zerolog.Logger) (*Server, error) {
	db, err := database.Connect(cfg.DatabaseDriver, cfg.DatabaseURL)
	if err != nil {
		return nil, err
	}
	log.Info().Str("driver", cfg.DatabaseDriver).Msg("database connected")

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	rdb := redis.NewClient(redisOpts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		db.Close()
		return nil, fmt.Errorf("redis connect failed: %w", err)
	}

	hub := ws.NewHub(log)

	router, err := NewRouter(Dependencies{
		Config:      cfg,
		Log:         log,
		DB:          db,
		Hub:         hub,
		Revocations: session.NewRedisRevocations(rdb),
	})
	if err != nil {
		db.Close()
		rdb.Close()
		return nil, err
	}

	return &Server{
		Router: router,
		DB:     db,
		Redis:  rdb,
		Hub:    hub,
		cfg:    cfg,
		log:    log,
	}, nil
}

// Run блокируется до SIGINT/SIGTERM и затем корректно останавливает сервер
func (s *Server) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go s.Hub.Run()

	srv := &http.Server{
		Addr:              ":" + s.cfg.Port,
		Handler:           s.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("port", s.cfg.Port).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			s.close()
			return fmt.Errorf("server run error: %w", err)
		}
	case <-ctx.Done():
		s.log.Info().Msg("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)

	s.close()
	s.log.Info().Msg("shutdown complete")
	return err
}

func (s *Server) close() {
	s.Hub.Stop()
	if err := s.Redis.Close(); err != nil {
		s.log.Warn().Err(err).Msg("redis close failed")
	}
	if err := s.DB.Close(); err != nil {
		s.log.Warn().Err(err).Msg("database close failed")
	}
}
