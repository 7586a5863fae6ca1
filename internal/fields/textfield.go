package fields

import (
	"fmt"
	"strings"

	"github.com/formfill/mcp-form-filler/internal/docmodel"
)

// Horizontal and vertical offsets from a label's colon to where the answer
// text is written.
const (
	textFieldDX = 5.0
	textFieldDY = 7.0
)

// detectTextFields finds colon-terminated labels on one line. Every word
// ending in ':' closes a label collected backwards to the previous colon
// word or the line start, so several labels on one line become independent
// fields left to right. The write position sits just right of the colon.
// IDs combine page, line and word index so no two fields of one parse
// collide.
func detectTextFields(line docmodel.Line, page, lineIdx int) []Field {
	var out []Field
	for i, w := range line.Words {
		if !strings.HasSuffix(w.Text, ":") {
			continue
		}

		var labelWords []string
		for j := i - 1; j >= 0 && !strings.HasSuffix(line.Words[j].Text, ":"); j-- {
			labelWords = append([]string{line.Words[j].Text}, labelWords...)
		}
		labelWords = append(labelWords, w.Text)
		label := strings.Trim(strings.TrimSpace(strings.Join(labelWords, " ")), ":")

		out = append(out, Field{
			ID:       fmt.Sprintf("p%d_l%d_w%d", page, lineIdx, i),
			Page:     page,
			Kind:     KindText,
			Label:    CleanLabel(label),
			Question: QuestionFor(label),
			X:        w.X1 + textFieldDX,
			Y:        w.Y0 + textFieldDY,
			HasPos:   true,
		})
	}
	return out
}
