package docmodel

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"github.com/ledongthuc/pdf"
)

const (
	// defaultPageHeight is the US Letter height used when a page carries no
	// resolvable MediaBox.
	defaultPageHeight = 792.0
	defaultPageWidth  = 612.0

	// baselineTolerance is the maximum vertical drift between fragments of
	// the same word.
	baselineTolerance = 0.2

	// blockGap is the vertical distance between consecutive lines that
	// starts a new text block.
	blockGap = 15.0
)

// Document wraps a parsed PDF and exposes positioned words per page. The
// underlying bytes are treated as immutable; re-reading the same bytes
// yields the same words in the same order.
type Document struct {
	reader  *pdf.Reader
	heights []float64
}

// Read parses a PDF from raw bytes.
func Read(doc []byte) (*Document, error) {
	if len(doc) == 0 {
		return nil, fmt.Errorf("document is empty")
	}

	reader, err := pdf.NewReader(bytes.NewReader(doc), int64(len(doc)))
	if err != nil {
		return nil, fmt.Errorf("failed to open PDF: %w", err)
	}

	d := &Document{reader: reader}
	d.heights = make([]float64, reader.NumPage())
	for i := range d.heights {
		d.heights[i] = pageHeight(reader.Page(i + 1))
	}
	return d, nil
}

// ReadFile validates and reads a PDF file, returning the parsed document
// together with its raw bytes.
func ReadFile(path string, maxFileSize int64) (*Document, []byte, error) {
	if path == "" {
		return nil, nil, fmt.Errorf("path cannot be empty")
	}

	fileInfo, err := os.Stat(path)
	if os.IsNotExist(err) {
		return nil, nil, fmt.Errorf("file does not exist: %s", path)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("cannot access file: %w", err)
	}
	if fileInfo.IsDir() {
		return nil, nil, fmt.Errorf("path is a directory, not a file: %s", path)
	}
	if !strings.HasSuffix(strings.ToLower(path), ".pdf") {
		return nil, nil, fmt.Errorf("file is not a PDF: %s", path)
	}
	if fileInfo.Size() == 0 {
		return nil, nil, fmt.Errorf("file is empty: %s", path)
	}
	if maxFileSize > 0 && fileInfo.Size() > maxFileSize {
		return nil, nil, fmt.Errorf("file too large: %d bytes (max: %d bytes)",
			fileInfo.Size(), maxFileSize)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("cannot read file: %w", err)
	}

	doc, err := Read(raw)
	if err != nil {
		return nil, nil, err
	}
	return doc, raw, nil
}

// PageCount returns the number of pages in the document.
func (d *Document) PageCount() int {
	return d.reader.NumPage()
}

// PageHeight returns the height of a zero-based page in points.
func (d *Document) PageHeight(page int) float64 {
	if page < 0 || page >= len(d.heights) {
		return defaultPageHeight
	}
	return d.heights[page]
}

// Words extracts the positioned words of a zero-based page, converted to
// the top-left origin used by the layout heuristics.
func (d *Document) Words(page int) ([]Word, error) {
	if page < 0 || page >= d.reader.NumPage() {
		return nil, fmt.Errorf("invalid page number %d (document has %d pages)", page, d.reader.NumPage())
	}

	p := d.reader.Page(page + 1)
	if p.V.IsNull() {
		return nil, fmt.Errorf("invalid page %d", page)
	}

	var texts []pdf.Text
	func() {
		// ledongthuc panics on some malformed content streams.
		defer func() { _ = recover() }()
		texts = p.Content().Text
	}()

	return assembleWords(texts, d.heights[page]), nil
}

// Pages extracts the words of every page, first page first.
func (d *Document) Pages() ([][]Word, error) {
	pages := make([][]Word, 0, d.reader.NumPage())
	for i := 0; i < d.reader.NumPage(); i++ {
		words, err := d.Words(i)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		pages = append(pages, words)
	}
	return pages, nil
}

// assembleWords merges adjacent text fragments into words. Fragments join
// the current word while they share a baseline and the horizontal gap stays
// below a fraction of the font size; an explicit space always breaks.
func assembleWords(texts []pdf.Text, height float64) []Word {
	if len(texts) == 0 {
		return nil
	}

	sorted := make([]pdf.Text, len(texts))
	copy(sorted, texts)
	sort.SliceStable(sorted, func(i, j int) bool {
		if math.Abs(sorted[i].Y-sorted[j].Y) > baselineTolerance {
			return sorted[i].Y > sorted[j].Y // higher on page first
		}
		return sorted[i].X < sorted[j].X
	})

	var words []Word
	var cur *pdf.Text
	var curEnd float64
	var curText strings.Builder

	flush := func() {
		if cur == nil {
			return
		}
		s := strings.TrimSpace(curText.String())
		if s != "" {
			fontSize := cur.FontSize
			if fontSize == 0 {
				fontSize = 12.0
			}
			words = append(words, Word{
				X0:   cur.X,
				Y0:   height - cur.Y - fontSize,
				X1:   curEnd,
				Y1:   height - cur.Y,
				Text: s,
			})
		}
		cur = nil
		curText.Reset()
	}

	for i := range sorted {
		t := sorted[i]
		if strings.TrimSpace(t.S) == "" {
			flush()
			continue
		}

		if cur != nil {
			gap := t.X - curEnd
			maxGap := math.Max(1.0, 0.3*cur.FontSize)
			if math.Abs(t.Y-cur.Y) > baselineTolerance || gap > maxGap || gap < -1.0 {
				flush()
			}
		}

		if cur == nil {
			c := t
			cur = &c
			curEnd = t.X + t.W
			curText.WriteString(t.S)
			continue
		}

		curText.WriteString(t.S)
		if end := t.X + t.W; end > curEnd {
			curEnd = end
		}
	}
	flush()

	// Fill page-local ordering indices from the final reading order. A
	// vertical gap wider than blockGap between lines starts a new block.
	lines := GroupLines(words)
	out := make([]Word, 0, len(words))
	block := 0
	prevY := 0.0
	for li, line := range lines {
		if li > 0 && line.Y-prevY > blockGap {
			block++
		}
		prevY = line.Y
		for wi, w := range line.Words {
			w.Block = block
			w.LineNo = li
			w.WordNo = wi
			out = append(out, w)
		}
	}
	return out
}

// pageHeight resolves a page's MediaBox height, walking up the page tree
// for inherited boxes and falling back to US Letter.
func pageHeight(page pdf.Page) (h float64) {
	h = defaultPageHeight
	defer func() { _ = recover() }()

	if h, ok := mediaBoxHeight(page.V.Key("MediaBox")); ok {
		return h
	}

	// MediaBox may be inherited from an ancestor Pages node.
	current := page.V
	for i := 0; i < 10; i++ {
		parent := current.Key("Parent")
		if parent.IsNull() {
			break
		}
		if h, ok := mediaBoxHeight(parent.Key("MediaBox")); ok {
			return h
		}
		current = parent
	}
	return defaultPageHeight
}

func mediaBoxHeight(mediaBox pdf.Value) (float64, bool) {
	if mediaBox.IsNull() || mediaBox.Kind() != pdf.Array || mediaBox.Len() != 4 {
		return 0, false
	}

	coords := make([]float64, 4)
	for i := 0; i < 4; i++ {
		val := mediaBox.Index(i)
		switch val.Kind() {
		case pdf.Integer:
			coords[i] = float64(val.Int64())
		case pdf.Real:
			coords[i] = val.Float64()
		default:
			return 0, false
		}
	}

	height := coords[3] - coords[1]
	if height <= 0 {
		return 0, false
	}
	return height, true
}
