package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sitecms "github.com/magvolt/sitecms"
	"github.com/magvolt/sitecms/internal/auth"
)

func main() {
	if err := run(); err != nil {
		log.Fatalf("server: %v", err)
	}
}

func run() error {
	cfg, err := sitecms.ConfigFromEnv()
	if err != nil {
		return err
	}

	module, err := sitecms.New(cfg)
	if err != nil {
		return err
	}
	defer module.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := sitecms.EnsureSchema(ctx, module.DB()); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	if err := seedAdmin(ctx, module); err != nil {
		return err
	}

	handler, err := module.Handler()
	if err != nil {
		return err
	}

	server := &http.Server{
		Addr:    cfg.Server.Addr,
		Handler: handler,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// seedAdmin registers an initial dashboard account when the environment
// supplies one. Re-runs against an existing account are a no-op.
func seedAdmin(ctx context.Context, module *sitecms.Module) error {
	svc := module.Auth()
	if svc == nil {
		return nil
	}
	email := os.Getenv("SITE_ADMIN_EMAIL")
	password := os.Getenv("SITE_ADMIN_PASSWORD")
	if email == "" || password == "" {
		return nil
	}
	name := os.Getenv("SITE_ADMIN_NAME")

	if _, err := svc.Register(ctx, email, name, password); err != nil {
		if errors.Is(err, auth.ErrEmailTaken) {
			return nil
		}
		return fmt.Errorf("seed admin: %w", err)
	}
	return nil
}
