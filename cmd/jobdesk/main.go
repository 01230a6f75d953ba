package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jobdesk/jobdesk/internal/app"
	"github.com/jobdesk/jobdesk/internal/config"
)

const shutdownTimeout = 30 * time.Second

func main() {
	configPath := flag.String("config", os.Getenv("JOBDESK_CONFIG"), "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	if flag.Arg(0) == "createsuperuser" {
		if err := createSuperuser(cfg, flag.Args()[1:]); err != nil {
			slog.Error("failed to create superuser", "error", err)
			os.Exit(1)
		}
		return
	}

	a, err := app.New(cfg)
	if err != nil {
		slog.Error("failed to initialize application", "error", err)
		os.Exit(1)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- a.Run()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			slog.Error("server failed", "error", err)
			os.Exit(1)
		}
	case sig := <-sigCh:
		slog.Info("received signal, shutting down", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
		os.Exit(1)
	}
}

func createSuperuser(cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("createsuperuser", flag.ExitOnError)
	email := fs.String("email", "", "superuser email")
	password := fs.String("password", "", "superuser password")
	if err := fs.Parse(args); err != nil {
		return err
	}

	a, err := app.New(cfg)
	if err != nil {
		return fmt.Errorf("initialize application: %w", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = a.Shutdown(ctx)
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	user, err := a.IdentityService().CreateSuperuser(ctx, *email, *password)
	if err != nil {
		return err
	}

	fmt.Printf("superuser %s created (id %d)\n", user.Email, user.ID)
	return nil
}
