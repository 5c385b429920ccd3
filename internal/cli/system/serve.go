package system

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/julianstephens/daypoints/internal/app"
	"github.com/julianstephens/daypoints/internal/cli"
	"github.com/julianstephens/daypoints/internal/config"
	"github.com/julianstephens/daypoints/internal/logger"
	"github.com/julianstephens/daypoints/internal/metrics"
	"github.com/julianstephens/daypoints/internal/server"
)

type ServeCmd struct {
	Addr string `help:"Listen address (default: DAYPOINTS_HTTP_ADDR or :3001)."`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	cfg := ctx.Config
	if cfg == nil {
		cfg = &config.Config{}
	}
	addr := c.Addr
	if addr == "" {
		addr = cfg.HTTPAddr
	}
	if addr == "" {
		addr = ":3001"
	}

	a, err := ctx.ServicesWith(app.Options{
		Metrics:   metrics.New(),
		Generator: app.NewGenerator(ctx.Context(), cfg.GenAI),
	})
	if err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(ctx.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(sigCtx)
	srv := server.New(a)
	g.Go(func() error {
		return srv.Run(gctx, addr)
	})
	g.Go(func() error {
		<-gctx.Done()
		if sigCtx.Err() != nil {
			logger.Info("Shutdown signal received")
		}
		return nil
	})

	ctx.Printf("Serving daypoints API on %s (chat: %s, cache: %v)\n", addr, a.Chat.Mode(), a.Cache.Enabled())
	if err := g.Wait(); err != nil && err != context.Canceled {
		return err
	}
	return nil
}
