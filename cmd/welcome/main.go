package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/natefinch/atomic"
	"github.com/urfave/cli/v2"

	"github.com/mtlprog/welcome/internal/config"
	"github.com/mtlprog/welcome/internal/database"
	"github.com/mtlprog/welcome/internal/domain"
	"github.com/mtlprog/welcome/internal/handler"
	"github.com/mtlprog/welcome/internal/logger"
	"github.com/mtlprog/welcome/internal/middleware"
	"github.com/mtlprog/welcome/internal/page"
	"github.com/mtlprog/welcome/internal/repository"
	"github.com/mtlprog/welcome/internal/service"
	"github.com/mtlprog/welcome/internal/static"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "welcome",
		Usage: "Serve the application welcome page",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:    "log-format",
				Value:   string(logger.FormatJSON),
				Usage:   "Log format (json, text)",
				EnvVars: []string{"LOG_FORMAT"},
			},
			&cli.StringFlag{
				Name:    "app-name",
				Usage:   "Application name shown in the page title, heading and footer",
				EnvVars: []string{"APP_NAME"},
			},
			&cli.StringFlag{
				Name:    "locale",
				Value:   config.DefaultLocale,
				Usage:   "Application locale, e.g. en or en_US",
				EnvVars: []string{"APP_LOCALE"},
			},
			&cli.StringFlag{
				Name:    "database-url",
				Aliases: []string{"d"},
				Value:   config.DefaultDatabaseURL,
				Usage:   "PostgreSQL database URL for stored settings (optional)",
				EnvVars: []string{"DATABASE_URL"},
			},
		},
		Before: func(c *cli.Context) error {
			logger.Setup(c.App.ErrWriter, logger.ParseLevel(c.String("log-level")), logger.ParseFormat(c.String("log-format")))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Start the web server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "port",
						Aliases: []string{"p"},
						Value:   config.DefaultPort,
						Usage:   "HTTP server port",
						EnvVars: []string{"PORT"},
					},
				},
				Action: runServe,
			},
			{
				Name:  "render",
				Usage: "Render the welcome page once",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Write the page to this file instead of stdout",
					},
				},
				Action: runRender,
			},
			{
				Name:  "settings",
				Usage: "Manage stored settings (requires --database-url)",
				Subcommands: []*cli.Command{
					{
						Name:   "show",
						Usage:  "Print stored and effective settings",
						Action: runSettingsShow,
					},
					{
						Name:  "set",
						Usage: "Store the application name and locale",
						Flags: []cli.Flag{
							&cli.StringFlag{Name: "app-name", Usage: "Application name to store"},
							&cli.StringFlag{Name: "locale", Usage: "Locale to store"},
						},
						Action: runSettingsSet,
					},
					{
						Name:   "clear",
						Usage:  "Remove stored settings so flags and environment apply",
						Action: runSettingsClear,
					},
				},
			},
		},
		Action: runServe,
	}
}

// baseSettings reads the settings given by global flags and environment.
func baseSettings(c *cli.Context) domain.Settings {
	s := domain.Settings{
		AppName: c.String("app-name"),
		Locale:  c.String("locale"),
	}
	if err := s.Validate(); err != nil {
		slog.Warn("configured settings are not valid", "error", err)
	}
	return s
}

// openStore connects to the settings database when one is configured.
// The returned cleanup is always safe to call.
func openStore(ctx context.Context, databaseURL string) (*database.DB, service.SettingsStore, func(), error) {
	if databaseURL == "" {
		return nil, nil, func() {}, nil
	}

	db, err := database.New(ctx, databaseURL)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := database.RunMigrations(ctx, db.Pool()); err != nil {
		db.Close()
		return nil, nil, nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return db, repository.NewSettingsRepository(db.Pool()), db.Close, nil
}

func runServe(c *cli.Context) error {
	ctx := c.Context

	port := c.String("port")
	if port == "" {
		port = config.DefaultPort
	}

	db, store, closeDB, err := openStore(ctx, c.String("database-url"))
	if err != nil {
		return err
	}
	defer closeDB()

	renderer, err := page.NewRenderer()
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	settings := service.NewSettingsService(baseSettings(c), store)

	var pinger handler.Pinger
	if db != nil {
		pinger = db
	}
	h := handler.New(renderer, settings, static.Build(), pinger)

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)

	server := &http.Server{
		Addr:              ":" + port,
		Handler:           middleware.Chain(mux, middleware.RequestID, middleware.Logging(slog.Default())),
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
	}

	serverErr := make(chan error, 1)
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "server_addr", "http://localhost:"+port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-done:
		slog.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

func runRender(c *cli.Context) error {
	ctx := c.Context

	_, store, closeDB, err := openStore(ctx, c.String("database-url"))
	if err != nil {
		return err
	}
	defer closeDB()

	renderer, err := page.NewRenderer()
	if err != nil {
		return fmt.Errorf("failed to create renderer: %w", err)
	}

	settings := service.NewSettingsService(baseSettings(c), store).Resolve(ctx)

	var buf bytes.Buffer
	if err := renderer.Render(&buf, settings); err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}

	output := c.String("output")
	if output == "" {
		_, err := buf.WriteTo(c.App.Writer)
		return err
	}

	if err := atomic.WriteFile(output, &buf); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}

	slog.Info("page rendered", "output", output, "app_name", settings.AppName)
	return nil
}

func runSettingsShow(c *cli.Context) error {
	ctx := c.Context

	databaseURL := c.String("database-url")
	if databaseURL == "" {
		return service.ErrNoStore
	}

	_, store, closeDB, err := openStore(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer closeDB()

	svc := service.NewSettingsService(baseSettings(c), store)

	stored, err := svc.Stored(ctx)
	switch {
	case errors.Is(err, domain.ErrSettingsNotFound):
		fmt.Fprintln(c.App.Writer, "stored:    (none)")
	case err != nil:
		return err
	default:
		fmt.Fprintf(c.App.Writer, "stored:    app_name=%q locale=%q updated_at=%s\n",
			stored.AppName, stored.Locale, stored.UpdatedAt.Format(time.RFC3339))
	}

	effective := svc.Resolve(ctx)
	fmt.Fprintf(c.App.Writer, "effective: app_name=%q locale=%q\n", effective.AppName, effective.Locale)
	return nil
}

func runSettingsSet(c *cli.Context) error {
	ctx := c.Context

	update := domain.Settings{
		AppName: c.String("app-name"),
		Locale:  c.String("locale"),
	}
	if strings.TrimSpace(update.AppName) == "" && strings.TrimSpace(update.Locale) == "" {
		return domain.ErrEmptySettings
	}

	databaseURL := c.String("database-url")
	if databaseURL == "" {
		return service.ErrNoStore
	}

	_, store, closeDB, err := openStore(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer closeDB()

	svc := service.NewSettingsService(domain.Settings{}, store)

	return svc.Update(ctx, update)
}

func runSettingsClear(c *cli.Context) error {
	ctx := c.Context

	databaseURL := c.String("database-url")
	if databaseURL == "" {
		return service.ErrNoStore
	}

	_, store, closeDB, err := openStore(ctx, databaseURL)
	if err != nil {
		return err
	}
	defer closeDB()

	return service.NewSettingsService(domain.Settings{}, store).Clear(ctx)
}
