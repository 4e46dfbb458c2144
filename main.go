package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/danielhkuo/eboto/cliparse"
	"github.com/danielhkuo/eboto/db"
	"github.com/danielhkuo/eboto/logging"
	"github.com/danielhkuo/eboto/middleware"
	"github.com/danielhkuo/eboto/router"
)

const shutdownTimeout = 10 * time.Second

func main() {
	app := &cli.Command{
		Name:  "eboto",
		Usage: "Online voting for school and organization elections",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.toml",
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Path to dotenv file",
				Value: ".env",
			},
			&cli.StringFlag{
				Name:    "database-url",
				Aliases: []string{"d"},
				Usage:   "Database connection string or sqlite file path",
			},
			&cli.StringFlag{
				Name:  "database-type",
				Usage: "Database driver: sqlite or postgres",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "Log level: debug, info, warn, error",
			},
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Run the HTTP API",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "port",
						Aliases: []string{"p"},
						Usage:   "Port to listen on",
					},
				},
				Action: serve,
			},
			{
				Name:  "migrate",
				Usage: "Create the database schema and exit",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "drop",
						Usage: "Drop every table before creating the schema",
					},
				},
				Action: migrate,
			},
		},
		DefaultCommand: "serve",
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

// setup loads configuration, applies flag overrides, installs the logger
// and opens the database.
func setup(ctx context.Context, cmd *cli.Command) (cliparse.Config, *sql.DB, error) {
	cfg, err := cliparse.Load(cmd.String("config"), cmd.String("env-file"))
	if err != nil {
		return cfg, nil, err
	}

	if cmd.IsSet("database-url") {
		cfg.DatabaseURL = cmd.String("database-url")
	}
	if cmd.IsSet("database-type") {
		cfg.DatabaseType = cmd.String("database-type")
	}
	if cmd.IsSet("log-level") {
		cfg.LogLevel = cmd.String("log-level")
	}
	if cmd.IsSet("port") {
		cfg.Port = int(cmd.Int("port"))
	}

	if err := cfg.Validate(); err != nil {
		return cfg, nil, err
	}

	logger, err := logging.New(os.Stderr, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		return cfg, nil, err
	}
	slog.SetDefault(logger)

	conn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	if err != nil {
		return cfg, nil, err
	}
	return cfg, conn, nil
}

func migrate(ctx context.Context, cmd *cli.Command) error {
	_, conn, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	defer conn.Close()

	if cmd.Bool("drop") {
		if err := db.DropSchema(ctx, conn); err != nil {
			return fmt.Errorf("schema drop failed: %w", err)
		}
		slog.Warn("Database schema dropped")
	}

	if err := db.CreateSchema(ctx, conn); err != nil {
		return fmt.Errorf("schema creation failed: %w", err)
	}
	slog.Info("Database schema ready")
	return nil
}

func serve(ctx context.Context, cmd *cli.Command) error {
	cfg, conn, err := setup(ctx, cmd)
	if err != nil {
		return err
	}
	defer conn.Close()

	// Create schema (tables)
	if err := db.CreateSchema(ctx, conn); err != nil {
		return fmt.Errorf("schema creation failed: %w", err)
	}
	slog.Info("Database schema ready", "type", cfg.DatabaseType, "time_zone", cfg.Location().String())

	// Create router
	mux := router.NewRouter(conn, cfg)

	// Create server
	server := http.Server{
		Handler:           middleware.CORS(cfg.CORSOrigins)(mux),
		Addr:              ":" + strconv.Itoa(cfg.Port),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// signal.Notify requires the channel to be buffered
	ctrlc := make(chan os.Signal, 1)
	signal.Notify(ctrlc, os.Interrupt, syscall.SIGTERM)
	go func() {
		// Wait for Ctrl-C signal
		<-ctrlc
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("Shutdown failed", "error", err)
			server.Close()
		}
	}()

	// Start server
	slog.Info("Listening", "port", cfg.Port)
	err = server.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server closed: %w", err)
	}
	slog.Info("Server closed")
	return nil
}
