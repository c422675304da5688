package system

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julianstephens/hustle/internal/api"
	"github.com/julianstephens/hustle/internal/cli"
	"github.com/julianstephens/hustle/internal/logger"
)

type ServeCmd struct {
	Listen string `help:"Address to listen on (default from config)."`
}

func (c *ServeCmd) Run(ctx *cli.Context) error {
	defer ctx.Close()

	secret := ctx.Config.Server.JWTSecret
	if len(secret) < 32 {
		return errors.New("server.jwt_secret (or HUSTLE_JWT_SECRET) must be at least 32 characters")
	}
	addr := c.Listen
	if addr == "" {
		addr = ctx.Config.Server.Listen
	}

	srv := api.New(api.Deps{
		Planner:   ctx.Planner(),
		Habits:    ctx.Habits(),
		Engine:    ctx.Engine(),
		Insights:  ctx.Insights(),
		Clock:     ctx.Clock,
		JWTSecret: []byte(secret),
	})

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Listen(addr) }()
	ctx.Printf("Serving hustle API on %s\n", addr)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sig)

	select {
	case err := <-errCh:
		return err
	case s := <-sig:
		logger.Info("Shutting down API", "signal", s.String())
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
