package api

import (
	"fmt"
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	imagepkg "github.com/youruser/ratingapp/internal/image"
	"github.com/youruser/ratingapp/internal/layout"
	"github.com/youruser/ratingapp/internal/rating"
	"github.com/youruser/ratingapp/internal/report"
	"github.com/youruser/ratingapp/internal/songs"
)

// Handlers serves the rating endpoints against one constants table.
type Handlers struct {
	Constants songs.Constants
	Fonts     *imagepkg.Fonts
	Resolver  *imagepkg.Resolver
	Log       *zap.Logger

	// Defaults used when a render request leaves them empty.
	Layout      layout.Mode
	Format      imagepkg.Format
	JPEGQuality int
	QRText      string
}

// songInput is one song as posted by a client that scraped the lists itself.
type songInput struct {
	Title      string `json:"title"`
	ScoreText  string `json:"score_text"`
	Difficulty string `json:"difficulty"`
	Artist     string `json:"artist"`
	JacketURL  string `json:"jacket_url"`
	PlayCount  string `json:"play_count"`
}

type listsInput struct {
	Player songs.Player `json:"player"`
	Best   []songInput  `json:"best"`
	Recent []songInput  `json:"recent"`
}

type imageInput struct {
	listsInput
	Layout string `json:"layout"`
	Format string `json:"format"`
	QRText string `json:"qr_text"`
}

// maxListSongs bounds each posted list; the site's longest rating list is
// well below it.
const maxListSongs = 50

func errorJSON(c *gin.Context, status int, err error) {
	c.JSON(status, gin.H{"error": err.Error()})
}

func toEnriched(in []songInput) ([]songs.EnrichedSong, error) {
	out := make([]songs.EnrichedSong, 0, len(in))
	for _, s := range in {
		rec, err := songs.NewSongRecord(s.Title, s.ScoreText, songs.ParseDifficulty(s.Difficulty))
		if err != nil {
			return nil, err
		}
		out = append(out, songs.EnrichedSong{
			SongRecord: rec,
			SongDetail: songs.SongDetail{Artist: s.Artist, JacketURL: s.JacketURL, PlayCount: s.PlayCount},
		})
	}
	return out, nil
}

func (h *Handlers) buildReport(in listsInput) (report.Report, error) {
	if len(in.Best) > maxListSongs || len(in.Recent) > maxListSongs {
		return report.Report{}, fmt.Errorf("at most %d songs per list, got %d best and %d recent",
			maxListSongs, len(in.Best), len(in.Recent))
	}
	best, err := toEnriched(in.Best)
	if err != nil {
		return report.Report{}, err
	}
	recent, err := toEnriched(in.Recent)
	if err != nil {
		return report.Report{}, err
	}
	return report.FromLists(in.Player, best, recent, h.Constants), nil
}

func (h *Handlers) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "constants": len(h.Constants)})
}

// calc rates a single score against a constant.
func (h *Handlers) calc(c *gin.Context) {
	score, err := songs.ParseScore(c.Query("score"))
	if err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}
	constant, err := strconv.ParseFloat(c.Query("const"), 64)
	if err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}
	if math.IsNaN(constant) || math.IsInf(constant, 0) || constant < 0 {
		errorJSON(c, http.StatusBadRequest, fmt.Errorf("const %q out of range", c.Query("const")))
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"score":  score,
		"const":  constant,
		"rating": rating.CalculateRating(score, constant),
		"rank":   rating.ClassifyRank(score),
	})
}

type enrichedOutput struct {
	songs.EnrichedSong
	Rank rating.RankInfo `json:"rank"`
}

func withRanks(list []songs.EnrichedSong) []enrichedOutput {
	out := make([]enrichedOutput, len(list))
	for i, s := range list {
		out[i] = enrichedOutput{EnrichedSong: s, Rank: s.Rank()}
	}
	return out
}

func (h *Handlers) enrich(c *gin.Context) {
	var in listsInput
	if err := c.ShouldBindJSON(&in); err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}
	r, err := h.buildReport(in)
	if err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"player":         r.Player,
		"best":           withRanks(r.Best),
		"recent":         withRanks(r.Recent),
		"best_average":   r.BestAverage(),
		"recent_average": r.RecentAverage(),
	})
}

func (h *Handlers) text(c *gin.Context) {
	var in listsInput
	if err := c.ShouldBindJSON(&in); err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}
	r, err := h.buildReport(in)
	if err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}
	c.String(http.StatusOK, report.ExportText(r))
}

// image renders the posted lists. Jackets are fetched here from jacket_url.
func (h *Handlers) image(c *gin.Context) {
	var in imageInput
	if err := c.ShouldBindJSON(&in); err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}
	r, err := h.buildReport(in.listsInput)
	if err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return
	}

	mode := h.Layout
	if in.Layout != "" {
		if mode, err = layout.ParseMode(in.Layout); err != nil {
			errorJSON(c, http.StatusBadRequest, err)
			return
		}
	}
	format := h.Format
	if in.Format != "" {
		if format, err = imagepkg.ParseFormat(in.Format); err != nil {
			errorJSON(c, http.StatusBadRequest, err)
			return
		}
	}
	qr := h.QRText
	if in.QRText != "" {
		qr = in.QRText
	}

	if h.Resolver != nil {
		r.Best = h.Resolver.ResolveJackets(c.Request.Context(), r.Best)
		r.Recent = h.Resolver.ResolveJackets(c.Request.Context(), r.Recent)
	}

	start := time.Now()
	b, err := imagepkg.BuildRatingImage(r.Player, r.Best, r.Recent, imagepkg.Options{
		Mode:        mode,
		Format:      format,
		JPEGQuality: h.JPEGQuality,
		QRText:      qr,
		GeneratedAt: r.GeneratedAt,
		Fonts:       h.Fonts,
	})
	if err != nil {
		h.logger().Error("render failed", zap.Error(err))
		errorJSON(c, http.StatusInternalServerError, err)
		return
	}
	h.logger().Info("rating image rendered",
		zap.String("layout", mode.String()),
		zap.String("format", string(format)),
		zap.Int("bytes", len(b)),
		zap.Duration("elapsed", time.Since(start)))
	c.Data(http.StatusOK, format.ContentType(), b)
}

func (h *Handlers) logger() *zap.Logger {
	if h.Log == nil {
		return zap.NewNop()
	}
	return h.Log
}
