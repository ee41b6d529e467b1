package rating

// RankInfo is the letter grade for a score plus the color used to draw it.
type RankInfo struct {
	Label string `json:"label"`
	Color string `json:"color"`
}

type rankBand struct {
	min  int
	info RankInfo
}

// ordered high to low; the last band is the catch-all
var rankBands = []rankBand{
	{scoreSSSPlus, RankInfo{"SSS+", "#FFD700"}},
	{scoreSSS, RankInfo{"SSS", "#ffdf75"}},
	{scoreSSPlus, RankInfo{"SS+", "#e88aff"}},
	{scoreSS, RankInfo{"SS", "#e88aff"}},
	{scoreS, RankInfo{"S", "#e88aff"}},
	{scoreAAA, RankInfo{"AAA", "#f44336"}},
	{scoreAA, RankInfo{"AA", "#f44336"}},
	{scoreA, RankInfo{"A", "#f44336"}},
	{800000, RankInfo{"BBB", "#2196F3"}},
	{700000, RankInfo{"BB", "#2196F3"}},
	{600000, RankInfo{"B", "#2196F3"}},
	{500000, RankInfo{"C", "#795548"}},
}

var rankD = RankInfo{"D", "#9E9E9E"}

// ClassifyRank maps a raw score to its rank. Band lower bounds are inclusive.
func ClassifyRank(score int) RankInfo {
	for _, b := range rankBands {
		if score >= b.min {
			return b.info
		}
	}
	return rankD
}
