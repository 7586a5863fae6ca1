package fields

import (
	"math"
	"strings"

	"github.com/formfill/mcp-form-filler/internal/docmodel"
)

// stopMarker ends scanning of the first page; later pages are always
// scanned in full.
const stopMarker = "champ obligatoire"

// sectionTitles are headings that must never become field labels.
var sectionTitles = map[string]bool{
	"informations personnelles":                      true,
	"adresses et détails de contact":                 true,
	"résidence principale":                           true,
	"détails de contact":                             true,
	"adresse de correspondance":                      true,
	"informations sociales du client":                true,
	"informations professionnelles / détails des revenus": true,
	"adresse professionnelle":                        true,
	"réservé aux professionnels":                     true,
	"relation avec d’autres banques":                 true,
	"relation avec d'autres banques":                 true,
	"informations sur le(s) compte(s)":               true,
	"services rattachés au compte":                   true,
	"formulaire d’ouverture de compte / mise à jour des données pour personne physique": true,
}

// backfillLabel replaces a letterless label with the previous line's text
// when that line ends in ':' or '?' and cleans to something lettered.
// Returns the label unchanged otherwise.
func backfillLabel(label string, lines []docmodel.Line, idx int) (string, bool) {
	if hasLetter(label) || idx <= 0 {
		return label, false
	}
	prevText := strings.TrimSpace(lines[idx-1].Text())
	if !strings.HasSuffix(prevText, ":") && !strings.HasSuffix(prevText, "?") {
		return label, false
	}
	prevLabel := CleanLabel(prevText)
	if !hasLetter(prevLabel) {
		return label, false
	}
	return prevLabel, true
}

// ExtractWords walks pre-extracted page words and returns the ordered,
// de-duplicated field stream. Pages are zero-based, first page first.
func ExtractWords(pages [][]docmodel.Word) []Field {
	var out []Field

	for page, words := range pages {
		lines := docmodel.GroupLines(words)

	lineLoop:
		for idx, line := range lines {
			textLine := strings.TrimSpace(line.Text())

			// The first page's tail holds legal boilerplate below this
			// marker; later pages are scanned unconditionally.
			if page == 0 && strings.Contains(strings.ToLower(textLine), stopMarker) {
				break lineLoop
			}

			if radios := detectRadioFromBlock(lines, idx, page); radios != nil {
				if len(radios) > 1 {
					// split row: both halves pass as-is
					out = append(out, radios...)
					continue
				}

				radio := radios[0]
				if label, ok := backfillLabel(radio.Label, lines, idx); ok {
					radio.Label = label
					radio.Question = QuestionFor(label)
				}
				if sectionTitles[strings.ToLower(radio.Label)] {
					continue
				}
				if hasLetter(radio.Label) {
					out = append(out, radio)
				}
				continue
			}

			for _, f := range detectTextFields(line, page, idx) {
				lbl := CleanLabel(f.Label)
				if label, ok := backfillLabel(lbl, lines, idx); ok {
					lbl = label
				}
				if sectionTitles[strings.ToLower(lbl)] {
					continue
				}
				if !hasLetter(lbl) {
					continue
				}
				f.Label = lbl
				f.Question = QuestionFor(lbl)
				out = append(out, f)
			}
		}
	}

	return dedupe(out)
}

// Extract reads every page of doc and returns its field stream.
func Extract(doc *docmodel.Document) ([]Field, error) {
	pages, err := doc.Pages()
	if err != nil {
		return nil, err
	}
	return ExtractWords(pages), nil
}

type dedupeKey struct {
	kind   Kind
	label  string
	x, y   float64
	hasPos bool
	page   int
}

// dedupe drops repeated fields, first occurrence wins. Headers and footers
// repeat labels across pages, so position is part of the key; fields
// without a position (radio groups) compare on label and page alone.
func dedupe(fields []Field) []Field {
	seen := make(map[dedupeKey]bool, len(fields))
	out := make([]Field, 0, len(fields))
	for _, f := range fields {
		key := dedupeKey{
			kind:   f.Kind,
			label:  strings.ToLower(f.Label),
			hasPos: f.HasPos,
			page:   f.Page,
		}
		if f.HasPos {
			key.x = round1(f.X)
			key.y = round1(f.Y)
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, f)
	}
	return out
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
