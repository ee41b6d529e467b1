package layout

// Ellipsis terminates a title that did not fit in its lines.
const Ellipsis = "…"

// MeasureFunc returns the rendered width of s.
type MeasureFunc func(s string) float64

// WrapText breaks text into lines no wider than maxWidth, one character at a
// time; titles are mostly Japanese and carry no spaces to break on. A single
// character wider than maxWidth gets a line of its own.
//
// With maxLines > 0 the result is cut to maxLines lines, the last one trimmed
// until it fits together with an ellipsis.
func WrapText(text string, maxWidth float64, maxLines int, measure MeasureFunc) []string {
	var lines []string
	var cur []rune
	for _, r := range text {
		if len(cur) > 0 && measure(string(cur)+string(r)) > maxWidth {
			lines = append(lines, string(cur))
			cur = cur[:0]
		}
		cur = append(cur, r)
	}
	if len(cur) > 0 {
		lines = append(lines, string(cur))
	}

	if maxLines <= 0 || len(lines) <= maxLines {
		return lines
	}

	last := []rune(lines[maxLines-1])
	for len(last) > 0 && measure(string(last)+Ellipsis) > maxWidth {
		last = last[:len(last)-1]
	}
	lines = lines[:maxLines]
	lines[maxLines-1] = string(last) + Ellipsis
	return lines
}
