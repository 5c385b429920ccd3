// Package server exposes the daypoints services over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/julianstephens/daypoints/internal/app"
	"github.com/julianstephens/daypoints/internal/logger"
)

// Server is the HTTP front end for one App.
type Server struct {
	app    *app.App
	engine *gin.Engine
}

// New builds the router.
func New(a *app.App) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery(), requestID(), observe(a.Metrics), requestTimeout(a.Config.RequestTimeout))

	s := &Server{app: a, engine: engine}
	s.routes()
	return s
}

// Handler returns the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() {
	r := s.engine
	r.GET("/metrics", gin.WrapH(s.app.Metrics.Handler()))

	api := r.Group("/api")
	api.GET("/health", s.health)
	api.GET("/clock", s.clock)

	habits := api.Group("/habits")
	habits.GET("", s.listHabits)
	habits.POST("", s.createHabit)
	habits.GET("/:id", s.getHabit)
	habits.PATCH("/:id", s.updateHabit)
	habits.DELETE("/:id", s.deactivateHabit)
	habits.GET("/:id/streak", s.habitStreak)
	habits.GET("/:id/series", s.habitSeries)

	tracking := api.Group("/tracking")
	tracking.GET("/:date", s.dayTracking)
	tracking.DELETE("/:date", s.clearDay)
	tracking.POST("/:date/:habitId", s.addInstance)
	tracking.DELETE("/:date/:habitId", s.removeInstance)

	scores := api.Group("/scores")
	scores.GET("/:date", s.getScore)
	scores.POST("/:date/compute", s.computeScore)
	scores.PUT("/:date/note", s.saveNote)

	api.GET("/trends/daily", s.dailyTrend)

	chat := api.Group("/chat")
	chat.POST("", s.sendChat)
	chat.GET("/history", s.chatHistory)
	chat.GET("/history/:sessionId", s.chatHistory)
	chat.GET("/info", s.chatInfo)
}

// Run serves on addr until ctx is cancelled, then drains for up to five
// seconds.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("HTTP server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	logger.Info("HTTP server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
