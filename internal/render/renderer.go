// Package render writes answers onto PDF bytes using pdfcpu text stamps.
// Incoming coordinates use a top-left page origin and are converted to
// pdfcpu's bottom-left offsets per page.
package render

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"github.com/formfill/mcp-form-filler/internal/docmodel"
	"github.com/formfill/mcp-form-filler/internal/fill"
)

// Answer text size, matching the form's small print.
const defaultFontSize = 8

// ZapfDingbats codes for the selection marks.
const (
	glyphCheck = "4"
	glyphCross = "8"
)

// PDFRenderer implements fill.Renderer over pdfcpu.
type PDFRenderer struct {
	conf     *model.Configuration
	fontSize int
}

// NewPDFRenderer builds a renderer with relaxed validation so slightly
// malformed forms still render. fontSize <= 0 uses the default.
func NewPDFRenderer(fontSize int) *PDFRenderer {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	if fontSize <= 0 {
		fontSize = defaultFontSize
	}
	return &PDFRenderer{conf: conf, fontSize: fontSize}
}

// Validate checks that doc parses as a PDF and has at least one page.
func (r *PDFRenderer) Validate(doc []byte) error {
	ctx, err := api.ReadContext(bytes.NewReader(doc), r.conf)
	if err != nil {
		return fmt.Errorf("failed to read PDF context: %w", err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return fmt.Errorf("failed to ensure page count: %w", err)
	}
	return nil
}

// pageHeight returns the height of a zero-based page in points.
func (r *PDFRenderer) pageHeight(doc []byte, page int) (float64, error) {
	dims, err := api.PageDims(bytes.NewReader(doc), r.conf)
	if err != nil {
		return 0, fmt.Errorf("failed to read page dimensions: %w", err)
	}
	if page < 0 || page >= len(dims) {
		return 0, fmt.Errorf("invalid page number %d (document has %d pages)", page, len(dims))
	}
	return dims[page].Height, nil
}

// stamp applies a single text stamp to one zero-based page and returns
// the new document bytes.
func (r *PDFRenderer) stamp(doc []byte, page int, text, desc string) ([]byte, error) {
	wm, err := api.TextWatermark(text, desc, true, false, types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("failed to build text stamp: %w", err)
	}

	var out bytes.Buffer
	pages := []string{strconv.Itoa(page + 1)}
	if err := api.AddWatermarks(bytes.NewReader(doc), &out, pages, wm, r.conf); err != nil {
		return nil, fmt.Errorf("failed to apply stamp on page %d: %w", page, err)
	}
	return out.Bytes(), nil
}

func stampDesc(font string, points int, x, y float64) string {
	return fmt.Sprintf(
		"fontname:%s, points:%d, scalefactor:1 abs, position:bl, offset:%.2f %.2f, rotation:0, opacity:1, fillcolor:#000000",
		font, points, x, y)
}

// InsertText writes value at (x, y) on the zero-based page, y measured
// from the page top down to the text baseline.
func (r *PDFRenderer) InsertText(doc []byte, page int, x, y float64, text string) ([]byte, error) {
	if text == "" {
		return nil, fmt.Errorf("text cannot be empty")
	}

	height, err := r.pageHeight(doc, page)
	if err != nil {
		return nil, err
	}

	desc := stampDesc("Helvetica", r.fontSize, x, height-y)
	return r.stamp(doc, page, text, desc)
}

// MarkBox draws a check or cross centered in the given bullet box, sized
// to fill it.
func (r *PDFRenderer) MarkBox(doc []byte, page int, box docmodel.Rect, style fill.MarkStyle) ([]byte, error) {
	height, err := r.pageHeight(doc, page)
	if err != nil {
		return nil, err
	}

	glyph := glyphCheck
	if style == fill.MarkCross {
		glyph = glyphCross
	}

	side := box.X1 - box.X0
	if h := box.Y1 - box.Y0; h > side {
		side = h
	}
	points := int(side + 2)
	if points < 6 {
		points = 6
	}

	cx := (box.X0 + box.X1) / 2
	cy := height - (box.Y0+box.Y1)/2
	x := cx - float64(points)/2
	y := cy - float64(points)/2

	desc := stampDesc("ZapfDingbats", points, x, y)
	return r.stamp(doc, page, glyph, desc)
}
