package songs

import (
	"fmt"
	"image"
	"strconv"
	"strings"

	"github.com/youruser/ratingapp/internal/rating"
)

// Difficulty of a chart as shown on the rating pages.
type Difficulty string

const (
	Basic    Difficulty = "BASIC"
	Advanced Difficulty = "ADVANCED"
	Expert   Difficulty = "EXPERT"
	Master   Difficulty = "MASTER"
	Ultima   Difficulty = "ULTIMA"
	Unknown  Difficulty = "UNKNOWN"
)

var abbreviations = map[Difficulty]string{
	Master:   "MAS",
	Expert:   "EXP",
	Ultima:   "ULT",
	Advanced: "ADV",
	Basic:    "BAS",
}

// Abbrev returns the three letter form used by the constants table.
// Unknown has none.
func (d Difficulty) Abbrev() (string, bool) {
	a, ok := abbreviations[d]
	return a, ok
}

// Slug is the lowercase name used in CSS classes (bg_master, ...).
func (d Difficulty) Slug() string {
	return strings.ToLower(string(d))
}

// ParseDifficulty accepts a full name or an abbreviation, case-insensitively.
func ParseDifficulty(s string) Difficulty {
	s = strings.ToUpper(strings.TrimSpace(s))
	for d, abbr := range abbreviations {
		if s == string(d) || s == abbr {
			return d
		}
	}
	return Unknown
}

// DifficultyFromClass reads the difficulty out of a class attribute such as
// "w388 musiclist_box bg_master".
func DifficultyFromClass(class string) Difficulty {
	switch {
	case strings.Contains(class, "master"):
		return Master
	case strings.Contains(class, "expert"):
		return Expert
	case strings.Contains(class, "ultima"):
		return Ultima
	case strings.Contains(class, "advanced"):
		return Advanced
	case strings.Contains(class, "basic"):
		return Basic
	}
	return Unknown
}

// DifficultyFromIndex maps the detail form's diff value ("0".."4").
func DifficultyFromIndex(idx string) Difficulty {
	switch strings.TrimSpace(idx) {
	case "0":
		return Basic
	case "1":
		return Advanced
	case "2":
		return Expert
	case "3":
		return Master
	case "4":
		return Ultima
	}
	return Unknown
}

// SongRecord is one scraped entry of a rating list.
type SongRecord struct {
	Title      string     `json:"title"`
	ScoreText  string     `json:"score_text"`
	Score      int        `json:"score"`
	Difficulty Difficulty `json:"difficulty"`
}

// NewSongRecord parses scoreText ("1,007,512") and builds the record.
func NewSongRecord(title, scoreText string, diff Difficulty) (SongRecord, error) {
	score, err := ParseScore(scoreText)
	if err != nil {
		return SongRecord{}, fmt.Errorf("song %q: %w", title, err)
	}
	return SongRecord{
		Title:      title,
		ScoreText:  strings.TrimSpace(scoreText),
		Score:      score,
		Difficulty: diff,
	}, nil
}

// ParseScore strips thousands separators and checks the score range.
func ParseScore(text string) (int, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(text), ",", "")
	v, err := strconv.Atoi(clean)
	if err != nil {
		return 0, fmt.Errorf("parse score %q: %w", text, err)
	}
	if v < 0 || v > rating.MaxScore {
		return 0, fmt.Errorf("score %d out of range [0, %d]", v, rating.MaxScore)
	}
	return v, nil
}

// SongDetail holds what the music detail page adds to a record.
type SongDetail struct {
	Artist    string `json:"artist"`
	JacketURL string `json:"jacket_url"`
	PlayCount string `json:"play_count"`
}

// NotAvailable fills detail fields the page did not carry.
const NotAvailable = "N/A"

// ChartConstantEntry is one row of the external constants table.
type ChartConstantEntry struct {
	Title string  `json:"title"`
	Diff  string  `json:"diff"`
	Const float64 `json:"const"`
}

// EnrichedSong is a record joined with its detail, constant and rating.
type EnrichedSong struct {
	SongRecord
	SongDetail
	ChartConstant float64 `json:"const"`
	Rating        float64 `json:"rating"`

	// Jacket is the decoded cover art; nil draws a placeholder.
	Jacket image.Image `json:"-"`
}

// Rank classifies the song's score.
func (s EnrichedSong) Rank() rating.RankInfo {
	return rating.ClassifyRank(s.Score)
}

// Player is the header information of the player data page.
type Player struct {
	Name          string `json:"name"`
	RatingDisplay string `json:"rating"`
}
