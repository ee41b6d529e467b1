package songs

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// ParseConstants reads the chart constants document: a JSON array of
// {"title", "diff", "const"} objects. const may be a number or a numeric
// string. Rows without a title are skipped; any other malformed row fails
// the whole document.
func ParseConstants(data []byte) (Constants, error) {
	if !gjson.ValidBytes(data) {
		return nil, fmt.Errorf("constants: invalid json")
	}
	root := gjson.ParseBytes(data)
	if !root.IsArray() {
		return nil, fmt.Errorf("constants: expected a json array, got %s", root.Type)
	}

	out := make(Constants, 0, int(root.Get("#").Int()))
	var parseErr error
	index := 0
	root.ForEach(func(_, v gjson.Result) bool {
		index++
		title := v.Get("title").String()
		if title == "" {
			return true
		}
		diff := strings.ToUpper(strings.TrimSpace(v.Get("diff").String()))
		if !knownAbbrev(diff) {
			parseErr = fmt.Errorf("constants: entry %d (%q): unknown diff %q", index, title, diff)
			return false
		}
		c, err := parseConst(v.Get("const"))
		if err != nil {
			parseErr = fmt.Errorf("constants: entry %d (%q): %w", index, title, err)
			return false
		}
		out = append(out, ChartConstantEntry{Title: title, Diff: diff, Const: c})
		return true
	})
	if parseErr != nil {
		return nil, parseErr
	}
	return out, nil
}

// parseConst accepts a JSON number or a numeric string holding a finite,
// non-negative value.
func parseConst(v gjson.Result) (float64, error) {
	var c float64
	switch v.Type {
	case gjson.Number:
		c = v.Num
	case gjson.String:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.Str), 64)
		if err != nil {
			return 0, fmt.Errorf("const %q is not a number", v.Str)
		}
		c = f
	default:
		return 0, fmt.Errorf("const %s is not a number", v.Raw)
	}
	if math.IsNaN(c) || math.IsInf(c, 0) || c < 0 {
		return 0, fmt.Errorf("const %v out of range", c)
	}
	return c, nil
}

func knownAbbrev(diff string) bool {
	for _, a := range abbreviations {
		if a == diff {
			return true
		}
	}
	return false
}

// LoadConstantsFile loads a local copy of the constants document.
func LoadConstantsFile(path string) (Constants, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	table, err := ParseConstants(data)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", path, err)
	}
	return table, nil
}
