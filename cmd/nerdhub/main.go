package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"nerdhub/internal/app"
	"nerdhub/internal/config"
	"nerdhub/internal/lib/logger/handlers/slogpretty"
	"nerdhub/internal/lib/logger/sl"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configPath string

	root := &cobra.Command{
		Use:          "nerdhub",
		Short:        "NerdHub storefront backend",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), configPath)
		},
	}

	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (or CONFIG_PATH)")

	root.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Bootstrap the database and start the HTTP server",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return runServe(cmd.Context(), configPath)
			},
		},
		&cobra.Command{
			Use:   "migrate",
			Short: "Create or upgrade the schema and seed the catalog, then exit",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withApp(cmd.Context(), configPath, func(_ context.Context, _ *app.App) error {
					fmt.Fprintln(cmd.OutOrStdout(), "database is up to date")
					return nil
				})
			},
		},
		newUsersCmd(&configPath),
		newProductsCmd(&configPath),
		newProductCmd(&configPath),
	)

	return root
}

func runServe(ctx context.Context, configPath string) error {
	ctx, stop := signal.NotifyContext(ctxOrBackground(ctx), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return withApp(ctx, configPath, func(ctx context.Context, application *app.App) error {
		errCh := make(chan error, 1)
		go func() {
			errCh <- application.HTTPServer.Start()
		}()

		select {
		case err := <-errCh:
			return err
		case <-ctx.Done():
		}

		return nil
	})
}

// withApp поднимает приложение (с бутстрапом базы), выполняет fn и закрывает все ресурсы.
func withApp(ctx context.Context, configPath string, fn func(context.Context, *app.App) error) error {
	cfg := config.MustLoad(configPath)

	log := setupLogger(cfg.Env)
	log.Debug("config loaded", slog.String("env", cfg.Env), slog.String("storage_path", cfg.StoragePath))

	ctx = ctxOrBackground(ctx)

	application, err := app.New(ctx, log, cfg)
	if err != nil {
		log.Error("failed to start application", sl.Err(err))
		return err
	}

	runErr := fn(ctx, application)

	if err := application.Stop(); err != nil {
		log.Error("failed to stop application", sl.Err(err))
	}

	log.Info("application stop")

	return runErr
}

func ctxOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelDebug,
			}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
				Level: slog.LevelInfo,
			}),
		)
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}
