package layout

import (
	"fmt"
	"math"
	"strings"
)

// Mode selects how the two sections share the canvas.
type Mode int

const (
	// Stacked puts the recent section below the best section.
	Stacked Mode = iota
	// SideBySide puts the sections in two columns separated by a gap.
	SideBySide
)

func (m Mode) String() string {
	switch m {
	case Stacked:
		return "stacked"
	case SideBySide:
		return "side_by_side"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode accepts "stacked" and "side_by_side" (or "side-by-side").
// An empty string means Stacked.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "stacked":
		return Stacked, nil
	case "side_by_side", "side-by-side", "sidebyside":
		return SideBySide, nil
	}
	return Stacked, fmt.Errorf("layout: unknown mode %q", s)
}

// Section is the geometry of one titled grid. Origin is the first card's
// top-left corner; the title band sits directly above it.
type Section struct {
	Spec      Spec
	Count     int
	TitleBand float64
	Origin    Point
	Height    float64
}

// Empty reports whether the section has nothing to draw.
func (s Section) Empty() bool {
	return s.Count == 0
}

// TitleTop is the top of the title band.
func (s Section) TitleTop() float64 {
	return s.Origin.Y - s.TitleBand
}

// Positions lays out the section's cards.
func (s Section) Positions() []CardPosition {
	return s.Spec.Positions(s.Count, s.Origin.X, s.Origin.Y)
}

// Plan is the full canvas geometry for one render.
type Plan struct {
	Mode         Mode
	Width        float64
	Height       float64
	HeaderHeight float64
	Best         Section
	Recent       Section

	// DividerX is the x of the vertical divider; only set for SideBySide.
	DividerX float64
}

// PixelSize rounds the canvas up to whole pixels.
func (p Plan) PixelSize() (int, int) {
	return int(math.Ceil(p.Width)), int(math.Ceil(p.Height))
}

func newSection(spec Spec, count int, titleBand, x, top float64) Section {
	return Section{
		Spec:      spec,
		Count:     count,
		TitleBand: titleBand,
		Origin:    Point{X: x, Y: top + titleBand},
		Height:    spec.Height(count, titleBand),
	}
}

// PlanStacked lays both sections out with one spec, best on top. Cards start
// at x = spec.Padding.
func PlanStacked(spec Spec, width, headerHeight, titleBand float64, best, recent int) Plan {
	b := newSection(spec, best, titleBand, spec.Padding, headerHeight)
	r := newSection(spec, recent, titleBand, spec.Padding, headerHeight+b.Height)
	return Plan{
		Mode:         Stacked,
		Width:        width,
		Height:       headerHeight + b.Height + r.Height,
		HeaderHeight: headerHeight,
		Best:         b,
		Recent:       r,
	}
}

// PlanSideBySide gives each section its own spec and places best on the left
// and recent on the right, gap pixels apart.
func PlanSideBySide(left, right Spec, margin, gap, headerHeight, titleBand float64, best, recent int) Plan {
	b := newSection(left, best, titleBand, margin, headerHeight)
	rightX := margin + left.GridWidth() + gap
	r := newSection(right, recent, titleBand, rightX, headerHeight)
	return Plan{
		Mode:         SideBySide,
		Width:        rightX + right.GridWidth() + margin,
		Height:       headerHeight + math.Max(b.Height, r.Height),
		HeaderHeight: headerHeight,
		Best:         b,
		Recent:       r,
		DividerX:     margin + left.GridWidth() + gap/2,
	}
}
