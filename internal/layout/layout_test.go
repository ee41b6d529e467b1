package layout

import (
	"math"
	"strings"
	"testing"
	"unicode/utf8"
)

// monoMeasure treats every rune as 10px wide and "W" as 35px.
func monoMeasure(s string) float64 {
	var w float64
	for _, r := range s {
		if r == 'W' {
			w += 35
			continue
		}
		w += 10
	}
	return w
}

func TestGridHeightEmpty(t *testing.T) {
	for _, cols := range []int{1, 3, 5} {
		if got := GridHeight(0, cols, 290, 15, 40); got != 0 {
			t.Fatalf("GridHeight(0, %d) = %v, want 0", cols, got)
		}
	}
}

func TestGridHeightFormula(t *testing.T) {
	const h, p, band = 290.0, 15.0, 40.0
	for cols := 1; cols <= 6; cols++ {
		for count := 1; count <= 40; count++ {
			rows := math.Ceil(float64(count) / float64(cols))
			want := band + rows*(h+p)
			if got := GridHeight(count, cols, h, p, band); got != want {
				t.Fatalf("GridHeight(%d, %d) = %v, want %v", count, cols, got, want)
			}
		}
	}
}

func TestPositionOf(t *testing.T) {
	got := PositionOf(7, 5, 200, 300, 10, 15, 200)
	want := Point{X: 15 + 2*210, Y: 200 + 310}
	if got != want {
		t.Fatalf("PositionOf = %+v, want %+v", got, want)
	}
}

func TestPositionsDoNotOverlap(t *testing.T) {
	spec := Spec{Columns: 4, CardWidth: 120, CardHeight: 200, Padding: 0}
	cards := spec.Positions(23, 5, 7)
	for i := range cards {
		for j := i + 1; j < len(cards); j++ {
			a, b := cards[i], cards[j]
			overlapX := a.X < b.X+spec.CardWidth && b.X < a.X+spec.CardWidth
			overlapY := a.Y < b.Y+spec.CardHeight && b.Y < a.Y+spec.CardHeight
			if overlapX && overlapY {
				t.Fatalf("cards %d and %d overlap: %+v %+v", i, j, a, b)
			}
		}
	}
	last := cards[22]
	if last.Row != 5 || last.Col != 2 {
		t.Fatalf("last card at row %d col %d, want 5,2", last.Row, last.Col)
	}
}

func TestWrapTextFitsWidth(t *testing.T) {
	text := "abcdefghijklmnopqrstuvwxyz"
	lines := WrapText(text, 75, 0, monoMeasure)
	if got := strings.Join(lines, ""); got != text {
		t.Fatalf("characters lost: %q", got)
	}
	for _, l := range lines {
		if monoMeasure(l) > 75 {
			t.Fatalf("line %q exceeds width", l)
		}
	}
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want 4: %q", len(lines), lines)
	}
}

func TestWrapTextWideCharacter(t *testing.T) {
	lines := WrapText("aWb", 30, 0, monoMeasure)
	want := []string{"a", "W", "b"}
	if strings.Join(lines, "|") != strings.Join(want, "|") {
		t.Fatalf("WrapText = %q, want %q", lines, want)
	}
}

func TestWrapTextJapanese(t *testing.T) {
	text := "とても長い曲名のテストケースです"
	lines := WrapText(text, 50, 0, monoMeasure)
	total := 0
	for _, l := range lines {
		total += utf8.RuneCountInString(l)
	}
	if total != utf8.RuneCountInString(text) {
		t.Fatalf("rune count %d, want %d", total, utf8.RuneCountInString(text))
	}
}

func TestWrapTextTruncates(t *testing.T) {
	lines := WrapText(strings.Repeat("x", 30), 50, 2, monoMeasure)
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
	if lines[0] != "xxxxx" {
		t.Fatalf("first line = %q", lines[0])
	}
	if lines[1] != "xxxx"+Ellipsis {
		t.Fatalf("last line = %q, want xxxx%s", lines[1], Ellipsis)
	}
	if monoMeasure(lines[1]) > 50 {
		t.Fatalf("truncated line exceeds width")
	}
}

func TestWrapTextWithinLimitUntouched(t *testing.T) {
	lines := WrapText("abcdefg", 50, 2, monoMeasure)
	if len(lines) != 2 || lines[1] != "fg" {
		t.Fatalf("WrapText = %q", lines)
	}
	if got := WrapText("", 50, 2, monoMeasure); len(got) != 0 {
		t.Fatalf("empty text produced %q", got)
	}
}

func TestParseMode(t *testing.T) {
	cases := map[string]Mode{"": Stacked, "stacked": Stacked, "Side_By_Side": SideBySide, "side-by-side": SideBySide}
	for in, want := range cases {
		got, err := ParseMode(in)
		if err != nil || got != want {
			t.Fatalf("ParseMode(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseMode("diagonal"); err == nil {
		t.Fatalf("expected error for unknown mode")
	}
}

func TestPlanStacked(t *testing.T) {
	spec := StackedSpec()
	plan := PlanStacked(spec, StackedWidth, HeaderHeight, TitleBand, 30, 20)

	wantBest := TitleBand + 6*(spec.CardHeight+spec.Padding)
	wantRecent := TitleBand + 4*(spec.CardHeight+spec.Padding)
	if plan.Height != HeaderHeight+wantBest+wantRecent {
		t.Fatalf("Height = %v, want %v", plan.Height, HeaderHeight+wantBest+wantRecent)
	}
	if plan.Best.Origin.Y != HeaderHeight+TitleBand {
		t.Fatalf("best origin = %v", plan.Best.Origin)
	}
	if plan.Recent.TitleTop() != HeaderHeight+wantBest {
		t.Fatalf("recent title top = %v, want %v", plan.Recent.TitleTop(), HeaderHeight+wantBest)
	}
	if spec.GridWidth()+2*spec.Padding != StackedWidth {
		t.Fatalf("stacked grid does not fill the canvas width")
	}
}

func TestPlanStackedEmptySection(t *testing.T) {
	plan := DefaultPlan(Stacked, 0, 3)
	if !plan.Best.Empty() || plan.Best.Height != 0 {
		t.Fatalf("empty best section has height %v", plan.Best.Height)
	}
	if plan.Recent.TitleTop() != HeaderHeight {
		t.Fatalf("recent should start right under the header, got %v", plan.Recent.TitleTop())
	}
	if got := DefaultPlan(Stacked, 0, 0).Height; got != HeaderHeight {
		t.Fatalf("empty plan height = %v, want %v", got, HeaderHeight)
	}
}

func TestPlanSideBySide(t *testing.T) {
	left, right := SideBySideSpecs()
	plan := PlanSideBySide(left, right, 15, 40, HeaderHeight, TitleBand, 30, 20)

	hl := left.Height(30, TitleBand)
	hr := right.Height(20, TitleBand)
	if plan.Height != HeaderHeight+math.Max(hl, hr) {
		t.Fatalf("Height = %v", plan.Height)
	}
	if plan.Best.Origin.Y != plan.Recent.Origin.Y {
		t.Fatalf("sections should start at the same y")
	}
	leftEdge := plan.Best.Origin.X + left.GridWidth()
	if plan.Recent.Origin.X-leftEdge != 40 {
		t.Fatalf("gap = %v, want 40", plan.Recent.Origin.X-leftEdge)
	}
	if plan.DividerX != leftEdge+20 {
		t.Fatalf("DividerX = %v, want %v", plan.DividerX, leftEdge+20)
	}
	if plan.Width != plan.Recent.Origin.X+right.GridWidth()+15 {
		t.Fatalf("Width = %v", plan.Width)
	}
	w, h := plan.PixelSize()
	if w <= 0 || h <= 0 {
		t.Fatalf("PixelSize = %d x %d", w, h)
	}
}
