// Command snapshot scrapes the logged-in player's rating lists and writes
// the rating image to OUTPUT_DIR.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/youruser/ratingapp/internal/chunithm"
	"github.com/youruser/ratingapp/internal/config"
	imagepkg "github.com/youruser/ratingapp/internal/image"
	"github.com/youruser/ratingapp/internal/logger"
	"github.com/youruser/ratingapp/internal/report"
	"github.com/youruser/ratingapp/internal/songs"
	"github.com/youruser/ratingapp/internal/util"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	path, err := run(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "snapshot failed: %v\n", err)
		stop()
		os.Exit(1)
	}
	fmt.Println(path)
}

func run(ctx context.Context) (string, error) {
	cfg, err := config.Load()
	if err != nil {
		return "", err
	}
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return "", err
	}
	defer log.Sync()

	fonts, err := cfg.Fonts()
	if err != nil {
		return "", err
	}
	if !fonts.Covers("新曲枠") {
		log.Warn("fonts have no Japanese glyphs, set FONT_REGULAR_PATH to a CJK font")
	}
	cc := cfg.ClientConfig()
	cc.Log = log
	client, err := chunithm.NewClient(cc)
	if err != nil {
		return "", err
	}

	var table songs.Constants
	if cfg.ConstDataFile != "" {
		table, err = songs.LoadConstantsFile(cfg.ConstDataFile)
	} else {
		table, err = client.FetchChartConstants(ctx, cfg.ConstDataURL)
	}
	if err != nil {
		return "", err
	}

	r, err := report.Collect(ctx, client, table, log)
	if err != nil {
		return "", err
	}

	resolver := &imagepkg.Resolver{Client: client.HTTPClient(), Concurrency: cfg.JacketConcurrency, Log: log}
	r.Best = resolver.ResolveJackets(ctx, r.Best)
	r.Recent = resolver.ResolveJackets(ctx, r.Recent)

	b, err := imagepkg.BuildRatingImage(r.Player, r.Best, r.Recent, imagepkg.Options{
		Mode:        cfg.Layout,
		Format:      cfg.Format,
		JPEGQuality: cfg.JPEGQuality,
		QRText:      cfg.QRText,
		GeneratedAt: r.GeneratedAt,
		Fonts:       fonts,
	})
	if err != nil {
		return "", err
	}

	name := fmt.Sprintf("chunithm-rating-%d.%s", time.Now().UnixMilli(), cfg.Format.Ext())
	out := filepath.Join(cfg.OutputDir, name)
	if err := util.WriteFileAtomic(out, b); err != nil {
		return "", fmt.Errorf("write image: %w", err)
	}
	log.Info("rating image saved",
		zap.String("path", out),
		zap.Int("best", len(r.Best)),
		zap.Int("recent", len(r.Recent)),
		zap.Float64("best_average", r.BestAverage()),
		zap.Float64("recent_average", r.RecentAverage()))
	return out, nil
}
