package report

import (
	"fmt"
	"strings"

	"github.com/youruser/ratingapp/internal/songs"
)

// ExportText renders r as plain text, one line per song in list order.
func ExportText(r Report) string {
	lines := []string{}
	if r.Player.Name != "" {
		lines = append(lines, "# "+r.Player.Name)
	}
	if r.Player.RatingDisplay != "" {
		lines = append(lines, "PLAYER RATING: "+r.Player.RatingDisplay)
	}
	if !r.GeneratedAt.IsZero() {
		lines = append(lines, "Generated: "+r.GeneratedAt.Format("2006/01/02 15:04"))
	}
	lines = append(lines, "")
	lines = append(lines, section("BEST", r.Best)...)
	lines = append(lines, "")
	lines = append(lines, section("NEW", r.Recent)...)
	return strings.Join(lines, "\n") + "\n"
}

func section(name string, list []songs.EnrichedSong) []string {
	lines := []string{fmt.Sprintf("[%s] %d songs, average %.4f", name, len(list), songs.AverageRating(list))}
	for i, s := range list {
		lines = append(lines, fmt.Sprintf("%2d. %s [%s] %s %s const %.1f rating %.2f",
			i+1, s.Title, s.Difficulty, s.ScoreText, s.Rank().Label, s.ChartConstant, s.Rating))
	}
	return lines
}
