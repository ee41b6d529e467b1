// Package report gathers a player's rating lists into one run-level result.
package report

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/youruser/ratingapp/internal/chunithm"
	"github.com/youruser/ratingapp/internal/songs"
)

// Report is everything one render needs.
type Report struct {
	Player      songs.Player         `json:"player"`
	Best        []songs.EnrichedSong `json:"best"`
	Recent      []songs.EnrichedSong `json:"recent"`
	GeneratedAt time.Time            `json:"generated_at"`
}

// BestAverage is the mean rating of the best list.
func (r Report) BestAverage() float64 {
	return songs.AverageRating(r.Best)
}

// RecentAverage is the mean rating of the new songs list.
func (r Report) RecentAverage() float64 {
	return songs.AverageRating(r.Recent)
}

// Source is the subset of the scraper Collect depends on.
type Source interface {
	FetchPlayerRecord(ctx context.Context) (songs.Player, error)
	FetchSongList(ctx context.Context, section chunithm.Section) ([]chunithm.ListedSong, error)
	FetchSongDetail(ctx context.Context, params chunithm.DetailParams) (songs.SongDetail, error)
}

var _ Source = (*chunithm.Client)(nil)

// Collect scrapes the player, both lists and every detail page, then joins
// them with table. Details are fetched one at a time since the site tracks
// the selected song per session. Any failure aborts the run.
func Collect(ctx context.Context, src Source, table songs.Constants, log *zap.Logger) (Report, error) {
	if log == nil {
		log = zap.NewNop()
	}

	player, err := src.FetchPlayerRecord(ctx)
	if err != nil {
		return Report{}, fmt.Errorf("report: %w", err)
	}
	log.Info("player loaded", zap.String("name", player.Name), zap.String("rating", player.RatingDisplay))

	best, err := src.FetchSongList(ctx, chunithm.Best)
	if err != nil {
		return Report{}, fmt.Errorf("report: %w", err)
	}
	recent, err := src.FetchSongList(ctx, chunithm.Recent)
	if err != nil {
		return Report{}, fmt.Errorf("report: %w", err)
	}

	all := make([]chunithm.ListedSong, 0, len(best)+len(recent))
	all = append(all, best...)
	all = append(all, recent...)

	enriched := make([]songs.EnrichedSong, 0, len(all))
	for i, item := range all {
		if err := ctx.Err(); err != nil {
			return Report{}, fmt.Errorf("report: %w", err)
		}
		detail, err := src.FetchSongDetail(ctx, item.Params)
		if err != nil {
			return Report{}, fmt.Errorf("report: detail of %q: %w", item.Record.Title, err)
		}
		song := songs.Enrich(item.Record, detail, table)
		if song.ChartConstant == 0 {
			log.Warn("chart constant not found",
				zap.String("title", song.Title),
				zap.String("difficulty", string(song.Difficulty)))
		}
		enriched = append(enriched, song)
		log.Debug("song detail loaded", zap.Int("index", i+1), zap.Int("total", len(all)), zap.String("title", song.Title))
	}

	return Report{
		Player:      player,
		Best:        enriched[:len(best):len(best)],
		Recent:      enriched[len(best):],
		GeneratedAt: time.Now(),
	}, nil
}

// FromLists builds a report from records that already carry their details,
// as posted to the API.
func FromLists(player songs.Player, best, recent []songs.EnrichedSong, table songs.Constants) Report {
	return Report{
		Player:      player,
		Best:        rejoin(best, table),
		Recent:      rejoin(recent, table),
		GeneratedAt: time.Now(),
	}
}

func rejoin(list []songs.EnrichedSong, table songs.Constants) []songs.EnrichedSong {
	out := make([]songs.EnrichedSong, len(list))
	for i, s := range list {
		out[i] = songs.Enrich(s.SongRecord, s.SongDetail, table)
		out[i].Jacket = s.Jacket
	}
	return out
}
