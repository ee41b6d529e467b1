package chunithm

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/youruser/ratingapp/internal/songs"
)

// Section is one of the two rating lists.
type Section int

const (
	Best Section = iota
	Recent
)

func (s Section) String() string {
	if s == Recent {
		return "recent"
	}
	return "best"
}

func (s Section) path() string {
	if s == Recent {
		return pathRatingRecent
	}
	return pathRatingBest
}

// DetailParams are the hidden form fields that select a song on the detail page.
type DetailParams struct {
	Idx   string `json:"idx"`
	Token string `json:"token"`
	Genre string `json:"genre"`
	Diff  string `json:"diff"`
}

func (p DetailParams) values() url.Values {
	v := url.Values{}
	v.Set("idx", p.Idx)
	v.Set("token", p.Token)
	v.Set("genre", p.Genre)
	v.Set("diff", p.Diff)
	return v
}

// ListedSong is a rating list entry together with its detail form.
type ListedSong struct {
	Record songs.SongRecord
	Params DetailParams
}

const playCountLabel = "プレイ回数"

// FetchPlayerRecord reads the player name and rating from the player data page.
func (c *Client) FetchPlayerRecord(ctx context.Context) (songs.Player, error) {
	doc, err := c.fetchDocument(ctx, pathPlayerData)
	if err != nil {
		return songs.Player{}, fmt.Errorf("chunithm: player data: %w", err)
	}
	return parsePlayer(doc)
}

// FetchSongList scrapes one rating list in page order.
func (c *Client) FetchSongList(ctx context.Context, section Section) ([]ListedSong, error) {
	doc, err := c.fetchDocument(ctx, section.path())
	if err != nil {
		return nil, fmt.Errorf("chunithm: %s list: %w", section, err)
	}
	list, err := parseRatingList(doc)
	if err != nil {
		return nil, fmt.Errorf("chunithm: %s list: %w", section, err)
	}
	c.log.Info("rating list scraped", zap.Stringer("section", section), zap.Int("songs", len(list)))
	return list, nil
}

// FetchSongDetail posts the song's form and reads the detail page it selects.
// Calls must not interleave: the site keeps the selection in the session.
func (c *Client) FetchSongDetail(ctx context.Context, params DetailParams) (songs.SongDetail, error) {
	if err := c.postForm(ctx, pathSendDetail, params.values()); err != nil {
		return songs.SongDetail{}, fmt.Errorf("chunithm: select detail: %w", err)
	}
	doc, err := c.fetchDocument(ctx, pathDetail)
	if err != nil {
		return songs.SongDetail{}, fmt.Errorf("chunithm: music detail: %w", err)
	}
	return parseMusicDetail(doc, songs.DifficultyFromIndex(params.Diff)), nil
}

func parsePlayer(doc *goquery.Document) (songs.Player, error) {
	name := doc.Find(".player_name_in").First()
	if name.Length() == 0 {
		return songs.Player{}, fmt.Errorf("chunithm: player name not found")
	}

	// the rating is drawn with one image per digit: .../num_5.png, num_a.png for "."
	var rating strings.Builder
	doc.Find(".player_rating_num_block img").Each(func(_ int, img *goquery.Selection) {
		src, _ := img.Attr("src")
		if len(src) < 5 {
			return
		}
		ch := src[len(src)-5]
		if ch == 'a' {
			rating.WriteByte('.')
			return
		}
		rating.WriteByte(ch)
	})

	return songs.Player{
		Name:          strings.TrimSpace(name.Text()),
		RatingDisplay: rating.String(),
	}, nil
}

func parseRatingList(doc *goquery.Document) ([]ListedSong, error) {
	var out []ListedSong
	var parseErr error
	doc.Find(`form[action$="sendMusicDetail/"]`).EachWithBreak(func(i int, form *goquery.Selection) bool {
		class, _ := form.Find(`div[class*="bg_"]`).First().Attr("class")
		title := strings.TrimSpace(form.Find(".music_title").First().Text())
		scoreText := strings.TrimSpace(form.Find(".text_b").First().Text())

		rec, err := songs.NewSongRecord(title, scoreText, songs.DifficultyFromClass(class))
		if err != nil {
			parseErr = fmt.Errorf("entry %d: %w", i+1, err)
			return false
		}
		out = append(out, ListedSong{
			Record: rec,
			Params: DetailParams{
				Idx:   inputValue(form, "idx"),
				Token: inputValue(form, "token"),
				Genre: inputValue(form, "genre"),
				Diff:  inputValue(form, "diff"),
			},
		})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return out, nil
}

func inputValue(form *goquery.Selection, name string) string {
	v, _ := form.Find(fmt.Sprintf(`input[name="%s"]`, name)).Attr("value")
	return v
}

func parseMusicDetail(doc *goquery.Document, diff songs.Difficulty) songs.SongDetail {
	detail := songs.SongDetail{
		Artist:    songs.NotAvailable,
		PlayCount: songs.NotAvailable,
	}
	if artist := strings.TrimSpace(doc.Find(".play_musicdata_artist").First().Text()); artist != "" {
		detail.Artist = artist
	}
	if src, ok := doc.Find(".play_jacket_img img").First().Attr("src"); ok {
		detail.JacketURL = absoluteURL(doc, src)
	}

	block := doc.Find(".music_box.bg_" + diff.Slug()).First()
	block.Find(".block_underline.ptb_5").EachWithBreak(func(_ int, row *goquery.Selection) bool {
		if !strings.Contains(row.Find(".musicdata_score_title").Text(), playCountLabel) {
			return true
		}
		if count := strings.TrimSpace(row.Find(".musicdata_score_num .text_b").First().Text()); count != "" {
			detail.PlayCount = count
		}
		return false
	})
	return detail
}

func absoluteURL(doc *goquery.Document, src string) string {
	src = strings.TrimSpace(src)
	if src == "" || doc.Url == nil {
		return src
	}
	ref, err := url.Parse(src)
	if err != nil {
		return src
	}
	return doc.Url.ResolveReference(ref).String()
}
