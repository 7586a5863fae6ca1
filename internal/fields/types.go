package fields

import "github.com/formfill/mcp-form-filler/internal/docmodel"

// Kind discriminates the two field shapes the detector produces.
type Kind string

const (
	KindText  Kind = "text"
	KindRadio Kind = "radio"
)

// Option is one selectable choice of a radio group. Box is the bullet
// glyph's bounding box on the page; HasBox is false when the group was
// synthesized without a visible bullet.
type Option struct {
	Label  string        `json:"label"`
	Box    docmodel.Rect `json:"-"`
	HasBox bool          `json:"-"`
}

// Field is a detected form field in document order. Text fields carry a
// write position (X, Y); radio fields carry options instead and leave the
// position unset. IDs are unique within one parse but not stable across
// parses of the same document.
type Field struct {
	ID       string   `json:"id"`
	Page     int      `json:"page"`
	Kind     Kind     `json:"type"`
	Label    string   `json:"label"`
	Question string   `json:"question"`
	X        float64  `json:"x,omitempty"`
	Y        float64  `json:"y,omitempty"`
	HasPos   bool     `json:"-"`
	Options  []Option `json:"options,omitempty"`
}

// OptionLabels returns the labels of all options in order.
func (f Field) OptionLabels() []string {
	labels := make([]string, len(f.Options))
	for i, o := range f.Options {
		labels[i] = o.Label
	}
	return labels
}
