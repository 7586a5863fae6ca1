package fill

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/formfill/mcp-form-filler/internal/docmodel"
	"github.com/formfill/mcp-form-filler/internal/fields"
)

// ErrNoFields is returned when a template yields an empty field stream.
var ErrNoFields = errors.New("aucun champ détecté")

// OutputFilename is the suggested name for the filled document.
const OutputFilename = "formulaire_rempli.pdf"

// MarkStyle selects the glyph drawn in a chosen radio bullet.
type MarkStyle string

const (
	MarkCheck MarkStyle = "check"
	MarkCross MarkStyle = "cross"
)

// Renderer writes answers onto document bytes and returns the new bytes.
// Coordinates use the top-left page origin of the field stream.
type Renderer interface {
	InsertText(doc []byte, page int, x, y float64, text string) ([]byte, error)
	MarkBox(doc []byte, page int, box docmodel.Rect, style MarkStyle) ([]byte, error)
}

// SelectionError rejects a radio answer that names no option, carrying
// the valid option labels for the caller to re-prompt with.
type SelectionError struct {
	Options []string
}

func (e *SelectionError) Error() string {
	return fmt.Sprintf("option_index requis (0..%d) ou libellé parmi: %s",
		len(e.Options)-1, strings.Join(e.Options, ", "))
}

// RenderError marks a server-side write failure; the session stays
// untouched so the same answer can be retried.
type RenderError struct {
	Err error
}

func (e *RenderError) Error() string { return fmt.Sprintf("écriture PDF: %v", e.Err) }
func (e *RenderError) Unwrap() error { return e.Err }

// Question is the client-facing rendering of the field awaiting an answer.
// Options is nil for text fields.
type Question struct {
	ID      string      `json:"id"`
	Label   string      `json:"label"`
	Kind    fields.Kind `json:"type"`
	Text    string      `json:"text"`
	Options []string    `json:"options,omitempty"`
}

// Answer carries one submitted answer. Text fields read Value; radio
// fields read OptionIndex when set, else Value as an option label.
type Answer struct {
	Value       string
	OptionIndex *int
}

// StartResult is the response to a new session.
type StartResult struct {
	SessionID string   `json:"session_id"`
	Question  Question `json:"question"`
}

// SubmitResult is the response to an accepted answer: the next question,
// or the finished document.
type SubmitResult struct {
	SessionID string    `json:"session_id"`
	Finished  bool      `json:"finished"`
	Question  *Question `json:"question,omitempty"`
	Filename  string    `json:"filename,omitempty"`
	Output    []byte    `json:"-"`
}

// Engine drives the question-by-question fill flow over a session store
// and a renderer.
type Engine struct {
	store    Store
	renderer Renderer
	style    MarkStyle
}

// NewEngine builds an engine. An empty style defaults to check marks.
func NewEngine(store Store, renderer Renderer, style MarkStyle) *Engine {
	if style == "" {
		style = MarkCheck
	}
	return &Engine{store: store, renderer: renderer, style: style}
}

func questionFor(f fields.Field) Question {
	q := Question{
		ID:    f.ID,
		Label: f.Label,
		Kind:  f.Kind,
		Text:  f.Question,
	}
	if f.Kind == fields.KindRadio {
		q.Options = f.OptionLabels()
	}
	return q
}

// Fields parses a template and returns its full field stream without
// creating a session.
func (e *Engine) Fields(template []byte) ([]fields.Field, error) {
	doc, err := docmodel.Read(template)
	if err != nil {
		return nil, err
	}
	return fields.Extract(doc)
}

// Peek parses a template and returns the first count questions. No
// session is created and nothing is written.
func (e *Engine) Peek(template []byte, count int) ([]Question, error) {
	fs, err := e.Fields(template)
	if err != nil {
		return nil, err
	}
	if count <= 0 {
		count = 5
	}
	if count > len(fs) {
		count = len(fs)
	}
	out := make([]Question, 0, count)
	for _, f := range fs[:count] {
		out = append(out, questionFor(f))
	}
	return out, nil
}

// Start parses the template, creates a session over it and returns the
// first question. A template with no detectable fields is rejected.
func (e *Engine) Start(template []byte) (*StartResult, error) {
	fs, err := e.Fields(template)
	if err != nil {
		return nil, err
	}
	if len(fs) == 0 {
		return nil, ErrNoFields
	}

	s := e.store.Create(template, fs)
	return &StartResult{
		SessionID: s.ID,
		Question:  questionFor(fs[0]),
	}, nil
}

// Snapshot returns the session's current accumulated document, filled up
// to the cursor.
func (e *Engine) Snapshot(sessionID string) ([]byte, error) {
	s, err := e.store.Get(sessionID)
	if err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]byte, len(s.Doc))
	copy(out, s.Doc)
	return out, nil
}

// Submit applies an answer to the session's current field and advances
// the cursor. Completed sessions return the final document again without
// writing. Validation and selection failures leave the session untouched.
func (e *Engine) Submit(sessionID string, ans Answer) (*SubmitResult, error) {
	s, err := e.store.Get(sessionID)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.Complete() {
		return e.finished(s), nil
	}

	f := s.Fields[s.Cursor]
	var next []byte

	switch f.Kind {
	case fields.KindRadio:
		idx, err := resolveOption(f, ans)
		if err != nil {
			return nil, err
		}
		box := markBox(f.Options[idx])
		next, err = e.renderer.MarkBox(s.Doc, f.Page, box, e.style)
		if err != nil {
			return nil, &RenderError{Err: err}
		}

	default:
		value := strings.TrimSpace(ans.Value)
		if err := ValidateAnswer(f.Label, value); err != nil {
			return nil, err
		}
		next, err = e.renderer.InsertText(s.Doc, f.Page, f.X, f.Y, value)
		if err != nil {
			return nil, &RenderError{Err: err}
		}
	}

	s.Doc = next
	s.Cursor++
	if err := e.store.Put(s); err != nil {
		return nil, err
	}

	if !s.Complete() {
		nq := questionFor(s.Fields[s.Cursor])
		return &SubmitResult{SessionID: s.ID, Question: &nq}, nil
	}
	return e.finished(s), nil
}

// finished builds the terminal result. Callers hold the session lock.
func (e *Engine) finished(s *Session) *SubmitResult {
	out := make([]byte, len(s.Doc))
	copy(out, s.Doc)
	return &SubmitResult{
		SessionID: s.ID,
		Finished:  true,
		Filename:  OutputFilename,
		Output:    out,
	}
}

// markBox returns the bullet box to mark, synthesizing a small 8x8 box
// for options recorded without one.
func markBox(o fields.Option) docmodel.Rect {
	if o.HasBox {
		return o.Box
	}
	return docmodel.Rect{X0: 0, Y0: 0, X1: 8, Y1: 8}
}

var foldTransformer = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// foldLabel lowercases and strips accents for option matching.
func foldLabel(s string) string {
	folded, _, err := transform.String(foldTransformer, s)
	if err != nil {
		folded = s
	}
	return strings.ToLower(strings.TrimSpace(folded))
}

// resolveOption picks the option an answer refers to: a 0-based index
// (leniently accepting 1-based when out of range), or a label matched
// after accent stripping with English yes/no aliases normalized.
func resolveOption(f fields.Field, ans Answer) (int, error) {
	n := len(f.Options)

	if ans.OptionIndex != nil {
		ir := *ans.OptionIndex
		if ir >= 0 && ir < n {
			return ir, nil
		}
		if ir >= 1 && ir <= n {
			return ir - 1, nil
		}
	}

	nval := foldLabel(ans.Value)
	switch nval {
	case "yes", "y", "true", "1":
		nval = "oui"
	case "no", "n", "false", "0":
		nval = "non"
	}
	if nval != "" {
		for i, o := range f.Options {
			if foldLabel(o.Label) == nval {
				return i, nil
			}
		}
	}

	return 0, &SelectionError{Options: f.OptionLabels()}
}
