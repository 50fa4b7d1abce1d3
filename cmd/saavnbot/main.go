package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"saavnbot/internal/artwork"
	"saavnbot/internal/audio"
	"saavnbot/internal/bot"
	"saavnbot/internal/config"
	saavnhttp "saavnbot/internal/http"
	ioutils "saavnbot/internal/io"
	"saavnbot/internal/logger"
	"saavnbot/internal/pipeline"
	"saavnbot/internal/saavn"
)

func main() {
	configFlag := flag.String("config", "config.yaml", "Path to config file")
	flag.Parse()

	settings, err := config.Load(*configFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := settings.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(settings.Log); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.L

	if err := ioutils.EnsureDir(settings.DownloadDir); err != nil {
		log.Fatalw("download directory not usable", "dir", settings.DownloadDir, "error", err)
	}

	transcoder := audio.NewTranscoder()
	if err := transcoder.CheckInstalled(); err != nil {
		// Startup proceeds; every download will fail with a clear message
		// until ffmpeg appears on PATH.
		log.Warnw("ffmpeg not found, downloads will fail", "error", err)
	}

	httpClient := saavnhttp.NewClient()
	catalog := saavn.NewClient(settings.APIBaseURL)
	pipe := pipeline.New(
		catalog,
		transcoder,
		audio.NewTagger(),
		artwork.NewProcessor(httpClient, log),
		settings.DownloadDir,
		log,
	)
	tgBot := bot.New(bot.NewAPI(settings.BotToken), catalog, pipe, settings.SearchLimit, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigCh
		log.Infow("shutting down", "signal", sig)
		cancel()
	}()

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error {
		if err := tgBot.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
			return fmt.Errorf("bot: %w", err)
		}
		return nil
	})

	group.Go(func() error {
		return runProbe(ctx, settings.Port, log)
	})

	if err := group.Wait(); err != nil {
		log.Fatalw("exiting", "error", err)
	}
	log.Infow("stopped")
}

// runProbe serves the liveness endpoint until ctx is cancelled.
func runProbe(ctx context.Context, port int, log *zap.SugaredLogger) error {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("health probe listening", "port", port)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warnw("probe shutdown failed", "error", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("health probe: %w", err)
	}
}
