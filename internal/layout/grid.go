// Package layout places rating cards on a grid and wraps card titles.
// Everything here is pure: the same inputs always give the same geometry.
package layout

import "math"

// Spec describes one grid of equally sized cards.
type Spec struct {
	Columns    int
	CardWidth  float64
	CardHeight float64
	Padding    float64
	JacketSize float64
}

// Point is a pixel position on the canvas.
type Point struct {
	X float64
	Y float64
}

// CardPosition is the top-left corner of the card at Index.
type CardPosition struct {
	Index int
	Row   int
	Col   int
	X     float64
	Y     float64
}

// GridHeight is the vertical space taken by a section of count cards,
// including its title band. An empty section takes no space at all.
func GridHeight(count, columns int, cardHeight, padding, titleBand float64) float64 {
	if count <= 0 {
		return 0
	}
	rows := int(math.Ceil(float64(count) / float64(columns)))
	return titleBand + float64(rows)*(cardHeight+padding)
}

// PositionOf returns the top-left corner of the card at a 0-based index.
func PositionOf(index, columns int, cardWidth, cardHeight, padding, originX, originY float64) Point {
	row := index / columns
	col := index % columns
	return Point{
		X: originX + float64(col)*(cardWidth+padding),
		Y: originY + float64(row)*(cardHeight+padding),
	}
}

// Height is GridHeight for this spec.
func (s Spec) Height(count int, titleBand float64) float64 {
	return GridHeight(count, s.Columns, s.CardHeight, s.Padding, titleBand)
}

// GridWidth is the width of a full row, without outer margins.
func (s Spec) GridWidth() float64 {
	if s.Columns <= 0 {
		return 0
	}
	return float64(s.Columns)*s.CardWidth + float64(s.Columns-1)*s.Padding
}

// Positions lays out count cards starting at the origin.
func (s Spec) Positions(count int, originX, originY float64) []CardPosition {
	out := make([]CardPosition, 0, count)
	for i := 0; i < count; i++ {
		p := PositionOf(i, s.Columns, s.CardWidth, s.CardHeight, s.Padding, originX, originY)
		out = append(out, CardPosition{
			Index: i,
			Row:   i / s.Columns,
			Col:   i % s.Columns,
			X:     p.X,
			Y:     p.Y,
		})
	}
	return out
}
