package httpapi

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/meadowmc/economyd/internal/application/common"
	"github.com/meadowmc/economyd/internal/infrastructure/config"
)

// Server is the HTTP control plane the game server talks to.
type Server struct {
	cfg      *config.Config
	mediator common.Mediator
	engine   *gin.Engine
	httpSrv  *http.Server
}

// NewServer builds the gin engine and routes.
func NewServer(cfg *config.Config, mediator common.Mediator) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogMiddleware())

	s := &Server{cfg: cfg, mediator: mediator, engine: engine}
	s.registerRoutes()

	s.httpSrv = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler:      engine,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}
	return s
}

// Handler exposes the underlying handler, for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) registerRoutes() {
	s.engine.GET("/health", s.handleHealth)
	if s.cfg.Metrics.Enabled {
		s.engine.GET(s.cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	shop := s.engine.Group("/shop")
	shop.Use(
		rateLimitMiddleware(s.cfg.HTTP.RateLimit.Requests, s.cfg.HTTP.RateLimit.Burst),
		apiKeyMiddleware(s.cfg.HTTP.APIKey),
	)
	{
		shop.POST("/buy", s.handleBuy)
		shop.POST("/sell", s.handleSell)
		shop.POST("/batch", s.handleBatch)

		shop.GET("/balance/:playerId", s.handleGetBalance)
		shop.GET("/history/:playerId", s.handleGetTransactions)

		shop.GET("/items", s.handleGetItems)
		shop.GET("/items/:itemId", s.handleGetItem)
		shop.GET("/price/:itemId", s.handleGetPrice)
		shop.GET("/price/:itemId/history", s.handleGetPriceHistory)
		shop.GET("/trend/:itemId", s.handleGetTrend)

		shop.POST("/session/login", s.handleLogin)
		shop.POST("/session/activity", s.handleActivity)
		shop.POST("/session/logout", s.handleLogout)
		shop.GET("/session/online", s.handleGetOnline)

		admin := shop.Group("/admin")
		{
			admin.PUT("/balance", s.handleSetBalance)
			admin.POST("/items", s.handleCreateItem)
			admin.PUT("/settings/:key", s.handleUpdateSetting)
		}
	}
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "economyd",
		"timestamp": time.Now().UTC(),
	})
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", s.httpSrv.Addr).Msg("http server listening")
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.HTTP.ShutdownTimeout)
	defer cancel()
	if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return <-errCh
}
