package songs

import "github.com/youruser/ratingapp/internal/rating"

// Constants is a chart constants table. Entries are not guaranteed unique by
// (title, diff); lookups take the first match.
type Constants []ChartConstantEntry

// MatchConstant finds the chart constant for song. ok is false when the
// difficulty has no abbreviation or no entry matches; that is a normal
// outcome and callers treat the constant as 0.
func MatchConstant(song SongRecord, table []ChartConstantEntry) (constant float64, ok bool) {
	abbr, known := song.Difficulty.Abbrev()
	if !known {
		return 0, false
	}
	for _, e := range table {
		if e.Title == song.Title && e.Diff == abbr {
			return e.Const, true
		}
	}
	return 0, false
}

// Match is MatchConstant over c.
func (c Constants) Match(song SongRecord) (float64, bool) {
	return MatchConstant(song, c)
}

// Enrich joins a record with its detail page and the constants table.
func Enrich(rec SongRecord, detail SongDetail, table []ChartConstantEntry) EnrichedSong {
	constant, _ := MatchConstant(rec, table)
	return EnrichedSong{
		SongRecord:    rec,
		SongDetail:    normalizeDetail(detail),
		ChartConstant: constant,
		Rating:        rating.CalculateRating(rec.Score, constant),
	}
}

// AverageRating is the mean rating of list, 0 when empty.
func AverageRating(list []EnrichedSong) float64 {
	values := make([]float64, len(list))
	for i, s := range list {
		values[i] = s.Rating
	}
	return rating.Average(values)
}

func normalizeDetail(d SongDetail) SongDetail {
	if d.Artist == "" {
		d.Artist = NotAvailable
	}
	if d.PlayCount == "" {
		d.PlayCount = NotAvailable
	}
	return d
}
