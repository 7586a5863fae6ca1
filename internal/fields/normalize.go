package fields

import (
	"regexp"
	"strings"
)

var (
	trailingAsterisksRe = regexp.MustCompile(`\s*\*+\s*$`)
	trailingDigitsRe    = regexp.MustCompile(`(?:^|\s)\d+(?:\s+\d+)*\s*$`)
	multiSpaceRe        = regexp.MustCompile(`\s{2,}`)
	placeholderRe       = regexp.MustCompile(`(?i)\bchoisissez(?:\s+un)?\s+élément\.?\b`)
	repeatedMarksRe     = regexp.MustCompile(`\?\s*\?+`)
	letterRe            = regexp.MustCompile(`[A-Za-zÀ-ÿ]`)
)

// normalizeLabel strips trailing asterisk runs and trailing standalone
// digit tokens, then collapses internal whitespace.
func normalizeLabel(text string) string {
	text = strings.TrimSpace(text)
	text = trailingAsterisksRe.ReplaceAllString(text, "")
	text = trailingDigitsRe.ReplaceAllString(text, "")
	text = multiSpaceRe.ReplaceAllString(text, " ")
	return strings.TrimSpace(text)
}

// CleanLabel normalizes label text, removes dropdown placeholder fragments
// and collapses repeated question marks. An empty result means the caller
// should reject the candidate.
func CleanLabel(raw string) string {
	s := normalizeLabel(raw)
	s = strings.TrimSpace(placeholderRe.ReplaceAllString(s, ""))
	s = repeatedMarksRe.ReplaceAllString(s, "?")
	return s
}

// isPlaceholderText reports whether s is a dropdown placeholder such as
// "Choisissez un élément" or the generic "option" stand-in.
func isPlaceholderText(s string) bool {
	low := strings.ToLower(strings.TrimSpace(s))
	if low == "" {
		return true
	}
	if placeholderRe.MatchString(low) {
		return true
	}
	return low == "option"
}

// cleanOptionLabel strips surrounding punctuation and rejects placeholder
// text, returning "" when nothing usable remains.
func cleanOptionLabel(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.Trim(s, ".,:;!?")
	s = strings.TrimSpace(s)
	if s == "" || isPlaceholderText(s) {
		return ""
	}
	return s
}

// hasLetter reports whether s contains at least one Latin letter,
// accented letters included.
func hasLetter(s string) bool {
	return letterRe.MatchString(s)
}
