package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/youruser/ratingapp/internal/api"
	"github.com/youruser/ratingapp/internal/chunithm"
	"github.com/youruser/ratingapp/internal/config"
	imagepkg "github.com/youruser/ratingapp/internal/image"
	"github.com/youruser/ratingapp/internal/logger"
	"github.com/youruser/ratingapp/internal/songs"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	fonts, err := cfg.Fonts()
	if err != nil {
		log.Fatal("failed to load fonts", zap.Error(err))
	}
	if !fonts.Covers("新曲枠") {
		log.Warn("fonts have no Japanese glyphs, set FONT_REGULAR_PATH to a CJK font")
	}

	cc := cfg.ClientConfig()
	cc.Log = log
	client, err := chunithm.NewClient(cc)
	if err != nil {
		log.Fatal("failed to create client", zap.Error(err))
	}

	// Load constants at startup (best-effort)
	table, err := loadConstants(cfg, client)
	if err != nil {
		log.Warn("chart constants unavailable, ratings will be 0", zap.Error(err))
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), api.RequestLogger(log))
	api.RegisterRoutes(r, &api.Handlers{
		Constants: table,
		Fonts:     fonts,
		Resolver: &imagepkg.Resolver{
			Client:      &http.Client{Timeout: cfg.HTTPTimeout},
			Concurrency: cfg.JacketConcurrency,
			Log:         log,
		},
		Log:         log,
		Layout:      cfg.Layout,
		Format:      cfg.Format,
		JPEGQuality: cfg.JPEGQuality,
		QRText:      cfg.QRText,
	})

	log.Info("starting server", zap.String("addr", "http://localhost:"+cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal("server stopped", zap.Error(err))
	}
}

// loadConstants prefers a local file and falls back to the download URL.
func loadConstants(cfg config.Config, client *chunithm.Client) (songs.Constants, error) {
	if cfg.ConstDataFile != "" {
		return songs.LoadConstantsFile(cfg.ConstDataFile)
	}
	ctx, cancel := context.WithTimeout(context.Background(), cfg.HTTPTimeout)
	defer cancel()
	return client.FetchChartConstants(ctx, cfg.ConstDataURL)
}
