package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/JonMunkholm/floorarea/internal/config"
	"github.com/JonMunkholm/floorarea/internal/core"
	"github.com/JonMunkholm/floorarea/internal/logging"
	"github.com/JonMunkholm/floorarea/internal/source"
	"github.com/JonMunkholm/floorarea/internal/web"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
)

func main() {
	// Load .env file if it exists; real environment variables take precedence
	if err := godotenv.Load(); err == nil {
		slog.Debug("loaded .env file")
	}

	os.Exit(run(context.Background(), os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command line and returns the process exit code.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) > 0 && args[0] == "serve" {
		cfg, err := config.Load()
		if err != nil {
			fmt.Fprintf(stderr, "failed to load configuration: %v\n", err)
			return 2
		}
		logging.Setup(cfg.Logging.Level, cfg.Logging.Format)
		return serve(ctx, cfg, stderr)
	}

	fs := flag.NewFlagSet("floorarea", flag.ContinueOnError)
	fs.SetOutput(stderr)
	file := fs.String("file", "", "semicolon-delimited unit record file (default $DATA_FILE)")
	sep := fs.String("sep", "", `decimal separator of the floor area, "." or "," (default $DECIMAL_SEPARATOR)`)
	asJSON := fs.Bool("json", false, "print the run summary as JSON")
	if err := fs.Parse(args); err != nil {
		return 2
	}

	// Flags win over the environment and are validated with it.
	cfg, err := config.Load(func(c *config.Config) {
		if *file != "" {
			c.Source.DataFile = *file
		}
		if *sep != "" {
			c.Source.DecimalSeparator = *sep
		}
	})
	if err != nil {
		fmt.Fprintf(stderr, "failed to load configuration: %v\n", err)
		return 2
	}

	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	summary, err := compute(ctx, cfg, cfg.DecimalSeparator())
	if err != nil {
		slog.Error("floor area calculation failed", "file", cfg.Source.DataFile, "error", err)
		fmt.Fprintln(stderr, userError(err))
		return 1
	}

	if *asJSON {
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(summary); err != nil {
			fmt.Fprintf(stderr, "encode summary: %v\n", err)
			return 1
		}
		return 0
	}

	fmt.Fprintf(stdout, "Total floor area: %s m²\n", strconv.FormatFloat(summary.TotalFloorArea, 'f', -1, 64))
	return 0
}

// userError is the line printed for a failed run. Errors without a specific
// user message also carry the technical error, since nothing else explains them.
func userError(err error) string {
	msg := core.FormatUserError(err)
	if !core.IsUserFacing(err) {
		msg = fmt.Sprintf("%s\n  cause: %v", msg, err)
	}
	return msg
}

// compute wires the pipeline for one file and runs it.
func compute(ctx context.Context, cfg *config.Config, sep core.DecimalSeparator) (core.Summary, error) {
	parser, err := core.NewRecordParser(sep)
	if err != nil {
		return core.Summary{}, err
	}

	src, err := source.NewFileSource(cfg.Source.DataFile)
	if err != nil {
		return core.Summary{}, err
	}

	opts := []core.ServiceOption{core.WithSourceName(cfg.Source.DataFile)}
	if cfg.Database.HistoryEnabled() {
		history, pool, err := openHistory(ctx, cfg.Database)
		if err != nil {
			// History is best effort; the total does not depend on it.
			slog.Warn("run history unavailable", "error", err)
		} else {
			defer pool.Close()
			opts = append(opts, core.WithRecorder(history))
		}
	}

	svc := core.NewService(core.NewFileRecordRepository(src, parser), opts...)
	return svc.Summarize(ctx)
}

// serve runs the HTTP API until SIGINT or SIGTERM.
func serve(ctx context.Context, cfg *config.Config, stderr io.Writer) int {
	slog.Info("configuration loaded", "config", cfg.String())

	parser, err := core.NewRecordParser(cfg.DecimalSeparator())
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 2
	}

	var history web.RunHistory
	if cfg.Database.HistoryEnabled() {
		store, pool, err := openHistory(ctx, cfg.Database)
		if err != nil {
			slog.Error("failed to open run history", "error", err)
			return 1
		}
		defer pool.Close()
		history = store
	}

	server := web.NewServer(cfg, parser, history)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh

		slog.Info("shutting down...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown error", "error", err)
		}
	}()

	if err := server.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server stopped", "error", err)
		return 1
	}
	slog.Info("server stopped")
	return 0
}

// openHistory connects to PostgreSQL and prepares the runs table.
func openHistory(ctx context.Context, dbCfg config.DatabaseConfig) (*core.HistoryStore, *pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(dbCfg.URL)
	if err != nil {
		return nil, nil, fmt.Errorf("parse database URL: %w", err)
	}

	poolConfig.MaxConns = int32(dbCfg.MaxConns)
	poolConfig.MinConns = int32(dbCfg.MinConns)
	poolConfig.MaxConnLifetime = dbCfg.MaxConnLifetime
	poolConfig.MaxConnIdleTime = dbCfg.MaxConnIdleTime

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("ping database: %w", err)
	}

	store := core.NewHistoryStore(pool)
	if err := store.EnsureSchema(ctx); err != nil {
		pool.Close()
		return nil, nil, err
	}

	return store, pool, nil
}
