package imagepkg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/youruser/ratingapp/internal/songs"
)

const defaultConcurrency = 6

// DownloadImage downloads an image from url and decodes it.
func DownloadImage(ctx context.Context, client *http.Client, url string) (image.Image, error) {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create image request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, errors.New("non-200 response: " + resp.Status)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read image body: %w", err)
	}
	img, err := imaging.Decode(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return img, nil
}

// Resolver loads jacket images for a batch of songs.
type Resolver struct {
	Client *http.Client
	// Concurrency bounds parallel downloads; 0 means the default.
	Concurrency int
	Log         *zap.Logger
}

// ResolveImage returns the decoded image at url, or nil on any failure.
// Plain http URLs are upgraded to https.
func (r *Resolver) ResolveImage(ctx context.Context, url string) image.Image {
	url = strings.TrimSpace(url)
	if url == "" {
		return nil
	}
	if strings.HasPrefix(url, "http://") {
		url = "https://" + strings.TrimPrefix(url, "http://")
	}
	img, err := DownloadImage(ctx, r.Client, url)
	if err != nil {
		r.logger().Debug("jacket unavailable", zap.String("url", url), zap.Error(err))
		return nil
	}
	return img
}

// ResolveJackets returns a copy of list with Jacket set for every song whose
// image could be loaded. It never fails; a missing jacket stays nil.
func (r *Resolver) ResolveJackets(ctx context.Context, list []songs.EnrichedSong) []songs.EnrichedSong {
	out := make([]songs.EnrichedSong, len(list))
	copy(out, list)

	limit := r.Concurrency
	if limit <= 0 {
		limit = defaultConcurrency
	}
	var g errgroup.Group
	g.SetLimit(limit)
	for i := range out {
		if out[i].Jacket != nil || out[i].JacketURL == "" {
			continue
		}
		g.Go(func() error {
			out[i].Jacket = r.ResolveImage(ctx, out[i].JacketURL)
			return nil
		})
	}
	_ = g.Wait()

	resolved := 0
	for _, s := range out {
		if s.Jacket != nil {
			resolved++
		}
	}
	r.logger().Info("jackets resolved", zap.Int("resolved", resolved), zap.Int("total", len(out)))
	return out
}

func (r *Resolver) logger() *zap.Logger {
	if r.Log == nil {
		return zap.NewNop()
	}
	return r.Log
}
