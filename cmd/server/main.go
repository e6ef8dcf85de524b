package main

import (
	"context"
	"errors"
	"flag"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	pkgerrors "github.com/pkg/errors"

	"fithub/internal/config"
	"fithub/internal/setup"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

var (
	configFile string = ""
	dumpConfig bool   = false
)

func init() {
	flag.StringVar(&configFile, "config", configFile, "configuration file")
	flag.BoolVar(&dumpConfig, "dump-config", dumpConfig, "dump default configuration file and exit")
}

func main() {
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.ErrorContext(ctx, "could not load .env file", slog.Any("error", err))
		os.Exit(1)
	}

	conf := config.NewDefaultConfig()

	if dumpConfig {
		if err := config.Dump(os.Stdout, conf); err != nil {
			slog.ErrorContext(ctx, "could not dump config file", slog.Any("error", pkgerrors.WithStack(err)))
			os.Exit(1)
		}

		os.Exit(0)
	}

	if configFile != "" {
		if err := config.LoadFile(configFile, conf); err != nil {
			slog.ErrorContext(ctx, "could not parse config file", slog.Any("error", pkgerrors.WithStack(err)), slog.String("file", configFile))
			os.Exit(1)
		}
	}

	if err := config.Interpolate(conf); err != nil {
		slog.ErrorContext(ctx, "could not interpolate config file", slog.Any("error", pkgerrors.WithStack(err)))
		os.Exit(1)
	}

	slog.SetDefault(newLogger(conf.Logger))
	slog.SetLogLoggerLevel(slog.Level(conf.Logger.Level))

	handler, cleanup, err := setup.NewHandlerFromConfig(ctx, conf)
	if err != nil {
		slog.ErrorContext(ctx, "could not generate handler from config", slog.Any("error", pkgerrors.WithStack(err)))
		os.Exit(1)
	}

	if err := serve(ctx, string(conf.HTTP.Address), handler, cleanup); err != nil {
		slog.ErrorContext(ctx, "could not listen", slog.Any("error", err))
		os.Exit(1)
	}

	slog.Info("http server stopped")
}

// serve runs the HTTP server until ctx is done. cleanup runs once the server
// has stopped, whether or not it failed.
func serve(ctx context.Context, addr string, handler http.Handler, cleanup func()) error {
	defer cleanup()

	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			slog.Error("could not shut down gracefully", slog.Any("error", pkgerrors.WithStack(err)))
		}
	}()

	slog.InfoContext(ctx, "http server listening", slog.String("addr", server.Addr), slog.String("version", version))

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return pkgerrors.WithStack(err)
	}
	return nil
}

func newLogger(conf config.Logger) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     slog.Level(conf.Level),
		AddSource: true,
	}
	if conf.Format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
