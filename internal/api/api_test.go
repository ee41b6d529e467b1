package api

import (
	"bytes"
	"encoding/json"
	"image/jpeg"
	"image/png"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	imagepkg "github.com/youruser/ratingapp/internal/image"
	"github.com/youruser/ratingapp/internal/layout"
	"github.com/youruser/ratingapp/internal/songs"
)

func newRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(RequestLogger(zap.NewNop()))
	RegisterRoutes(r, &Handlers{
		Constants: songs.Constants{
			{Title: "Song A", Diff: "MAS", Const: 13.0},
			{Title: "Song B", Diff: "EXP", Const: 12.5},
		},
		Layout: layout.Stacked,
		Format: imagepkg.PNG,
	})
	return r
}

func do(r http.Handler, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const listsBody = `{
  "player": {"name": "PLAYER", "rating": "16.21"},
  "best": [
    {"title": "Song A", "score_text": "1,009,000", "difficulty": "MASTER", "artist": "Artist A"},
    {"title": "Song B", "score_text": "1,000,000", "difficulty": "EXP"}
  ],
  "recent": [
    {"title": "Song C", "score_text": "990,000", "difficulty": "MAS", "play_count": "4"}
  ]
}`

func TestHealth(t *testing.T) {
	w := do(newRouter(), http.MethodGet, "/api/health", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"status":"ok"`) {
		t.Fatalf("body = %s", w.Body.String())
	}
}

func TestCalc(t *testing.T) {
	r := newRouter()
	w := do(r, http.MethodGet, "/api/rating/calc?score=1009000&const=13.0", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var got struct {
		Rating float64 `json:"rating"`
		Rank   struct {
			Label string `json:"label"`
		} `json:"rank"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if math.Abs(got.Rating-15.15) > 1e-9 || got.Rank.Label != "SSS+" {
		t.Fatalf("calc = %+v", got)
	}

	for _, target := range []string{
		"/api/rating/calc?score=abc&const=13",
		"/api/rating/calc?score=1000000",
		"/api/rating/calc?score=2000000&const=13",
		"/api/rating/calc?score=1009000&const=Inf",
		"/api/rating/calc?score=1009000&const=-Inf",
		"/api/rating/calc?score=1009000&const=NaN",
		"/api/rating/calc?score=1009000&const=-1",
	} {
		if w := do(r, http.MethodGet, target, ""); w.Code != http.StatusBadRequest {
			t.Fatalf("%s status = %d, want 400", target, w.Code)
		}
	}
}

func TestEnrich(t *testing.T) {
	w := do(newRouter(), http.MethodPost, "/api/rating/enrich", listsBody)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	var got struct {
		Best []struct {
			Title     string  `json:"title"`
			Const     float64 `json:"const"`
			Rating    float64 `json:"rating"`
			Artist    string  `json:"artist"`
			PlayCount string  `json:"play_count"`
			Rank      struct {
				Label string `json:"label"`
			} `json:"rank"`
		} `json:"best"`
		Recent        []json.RawMessage `json:"recent"`
		BestAverage   float64           `json:"best_average"`
		RecentAverage float64           `json:"recent_average"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(got.Best) != 2 || len(got.Recent) != 1 {
		t.Fatalf("sections = %d/%d", len(got.Best), len(got.Recent))
	}
	a := got.Best[0]
	if a.Title != "Song A" || a.Const != 13.0 || math.Abs(a.Rating-15.15) > 1e-9 || a.Rank.Label != "SSS+" {
		t.Fatalf("Song A = %+v", a)
	}
	if a.Artist != "Artist A" || a.PlayCount != songs.NotAvailable {
		t.Fatalf("Song A detail = %+v", a)
	}
	if math.Abs(got.BestAverage-14.325) > 1e-9 || got.RecentAverage != 0 {
		t.Fatalf("averages = %v/%v", got.BestAverage, got.RecentAverage)
	}
}

func TestEnrichBadInput(t *testing.T) {
	r := newRouter()
	for _, body := range []string{
		`{not json`,
		`{"best":[{"title":"X","score_text":"lots"}]}`,
		`{"recent":[{"title":"X","score_text":"-5"}]}`,
	} {
		w := do(r, http.MethodPost, "/api/rating/enrich", body)
		if w.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", body, w.Code)
		}
		if !strings.Contains(w.Body.String(), `"error"`) {
			t.Fatalf("%s: body = %s", body, w.Body.String())
		}
	}
}

func TestText(t *testing.T) {
	w := do(newRouter(), http.MethodPost, "/api/rating/text", listsBody)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	body := w.Body.String()
	if !strings.HasPrefix(w.Header().Get("Content-Type"), "text/plain") {
		t.Fatalf("Content-Type = %q", w.Header().Get("Content-Type"))
	}
	ia, ib, ic := strings.Index(body, "Song A"), strings.Index(body, "Song B"), strings.Index(body, "Song C")
	if ia < 0 || ia > ib || ib > ic {
		t.Fatalf("export order wrong:\n%s", body)
	}
}

func TestImagePNG(t *testing.T) {
	w := do(newRouter(), http.MethodPost, "/api/rating/image", listsBody)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/png" {
		t.Fatalf("Content-Type = %q, want image/png", ct)
	}
	img, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	if want := int(layout.StackedWidth); img.Bounds().Dx() != want {
		t.Fatalf("width = %d, want %d", img.Bounds().Dx(), want)
	}
}

func TestImageJPEGSideBySide(t *testing.T) {
	body := strings.TrimSuffix(strings.TrimSpace(listsBody), "}") + `, "layout": "side_by_side", "format": "jpeg", "qr_text": "hello"}`
	w := do(newRouter(), http.MethodPost, "/api/rating/image", body)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "image/jpeg" {
		t.Fatalf("Content-Type = %q, want image/jpeg", ct)
	}
	if _, err := jpeg.Decode(bytes.NewReader(w.Body.Bytes())); err != nil {
		t.Fatalf("decode jpeg: %v", err)
	}
}

func TestImageBadOptions(t *testing.T) {
	r := newRouter()
	for _, extra := range []string{`"layout": "diagonal"`, `"format": "gif"`} {
		body := `{"best": [], ` + extra + `}`
		if w := do(r, http.MethodPost, "/api/rating/image", body); w.Code != http.StatusBadRequest {
			t.Fatalf("%s: status = %d, want 400", extra, w.Code)
		}
	}
}

func TestListSizeLimit(t *testing.T) {
	r := newRouter()
	song := `{"title": "X", "score_text": "1,000,000", "difficulty": "MAS"}`
	list := func(n int) string {
		items := make([]string, n)
		for i := range items {
			items[i] = song
		}
		return "[" + strings.Join(items, ",") + "]"
	}

	if w := do(r, http.MethodPost, "/api/rating/enrich", `{"best": `+list(maxListSongs)+`}`); w.Code != http.StatusOK {
		t.Fatalf("%d songs: status = %d, want 200", maxListSongs, w.Code)
	}
	for _, target := range []string{"/api/rating/enrich", "/api/rating/text", "/api/rating/image"} {
		for _, key := range []string{"best", "recent"} {
			body := `{"` + key + `": ` + list(maxListSongs+1) + `}`
			w := do(r, http.MethodPost, target, body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("%s with %d %s songs: status = %d, want 400", target, maxListSongs+1, key, w.Code)
			}
			if !strings.Contains(w.Body.String(), `"error"`) {
				t.Fatalf("%s: body = %s", target, w.Body.String())
			}
		}
	}
}
