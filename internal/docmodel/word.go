package docmodel

import (
	"math"
	"sort"
	"strings"
)

// Word is an atomic positioned token extracted from a page. Coordinates use
// a top-left origin: Y0 grows downward, so a smaller Y0 sits higher on the
// page. Words are produced by the text-extraction layer and never mutated.
type Word struct {
	X0     float64 `json:"x0"`
	Y0     float64 `json:"y0"`
	X1     float64 `json:"x1"`
	Y1     float64 `json:"y1"`
	Text   string  `json:"text"`
	Block  int     `json:"block"`
	LineNo int     `json:"line"`
	WordNo int     `json:"word"`
}

// Rect is an axis-aligned bounding box in page coordinates.
type Rect struct {
	X0 float64 `json:"x"`
	Y0 float64 `json:"y"`
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
}

// Empty reports whether the rectangle carries no usable area.
func (r Rect) Empty() bool {
	return r.X1 <= r.X0 || r.Y1 <= r.Y0
}

// Line is an ordered run of words sharing the same rounded vertical
// position, sorted left to right.
type Line struct {
	Y     float64
	Words []Word
}

// Text returns the line's words joined by single spaces.
func (l Line) Text() string {
	parts := make([]string, len(l.Words))
	for i, w := range l.Words {
		parts[i] = w.Text
	}
	return strings.Join(parts, " ")
}

// roundY buckets a vertical position to one decimal place.
func roundY(y float64) float64 {
	return math.Round(y*10) / 10
}

// GroupLines clusters words into lines by Y0 rounded to one decimal place.
// A word belongs to the line whose rounded Y matches exactly; two words
// whose true Y straddles a rounding boundary land in distinct lines.
// Downstream heuristics depend on this bucketing, so it is not corrected
// here. Lines are returned top to bottom, words left to right.
func GroupLines(words []Word) []Line {
	buckets := make(map[float64][]Word)
	for _, w := range words {
		key := roundY(w.Y0)
		buckets[key] = append(buckets[key], w)
	}

	keys := make([]float64, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Float64s(keys)

	lines := make([]Line, 0, len(keys))
	for _, k := range keys {
		ws := buckets[k]
		sort.SliceStable(ws, func(i, j int) bool { return ws[i].X0 < ws[j].X0 })
		lines = append(lines, Line{Y: k, Words: ws})
	}
	return lines
}
