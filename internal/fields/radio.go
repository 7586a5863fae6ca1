package fields

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/formfill/mcp-form-filler/internal/docmodel"
)

// radioGlyphs are the bullet glyphs that mark radio or checkbox choices,
// private-use bullets included.
var radioGlyphs = map[string]bool{
	"": true,
	"○":      true, // U+25CB
	"◯":      true, // U+25EF
	"•":      true, // U+2022
}

// splitRowPatterns identify a known row carrying two yes/no questions side
// by side. When both match the row is split into two 2-option groups.
var splitRowPatterns = []struct {
	re       *regexp.Regexp
	question string
}{
	{regexp.MustCompile(`(?i)résident\s+aux\s+etat[s-]?-?unis`), "Êtes-vous résident aux États-Unis ?"},
	{regexp.MustCompile(`(?i)bénéficiaire\s+réel\s+du\s+compte`), "Êtes-vous le bénéficiaire réel du compte ?"},
}

func isRadioGlyph(s string) bool { return radioGlyphs[s] }

// hasAlpha reports whether s contains any letter rune.
func hasAlpha(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func wordBox(w docmodel.Word) docmodel.Rect {
	return docmodel.Rect{X0: w.X0, Y0: w.Y0, X1: w.X1, Y1: w.Y1}
}

// sameLineOptionsByNearest handles bullets and option words sharing one
// line. Each bullet takes the nearest lettered token, with a heavy penalty
// for tokens on the bullet's left so right-side matches win ties.
func sameLineOptionsByNearest(words []docmodel.Word) []Option {
	var bullets, tokens []docmodel.Word
	for _, w := range words {
		if isRadioGlyph(w.Text) {
			bullets = append(bullets, w)
		} else if hasAlpha(w.Text) {
			tokens = append(tokens, w)
		}
	}
	if len(bullets) == 0 || len(tokens) == 0 {
		return nil
	}

	var options []Option
	for _, b := range bullets {
		var best *docmodel.Word
		bestDX := 1e12
		for i := range tokens {
			t := tokens[i]
			dx := t.X0 - b.X0
			if dx < 0 {
				dx = -dx + 1000 // prefer the right side
			}
			if dx < bestDX {
				best, bestDX = &tokens[i], dx
			}
		}
		if best == nil {
			continue
		}
		if label := cleanOptionLabel(best.Text); label != "" {
			options = append(options, Option{Label: label, Box: wordBox(b), HasBox: true})
		}
	}
	return options
}

// pullLabelFromContext finds a group label near line li. Preference order:
// a line with '?' up to 3 above, then up to 3 below, then the nearest
// preceding ':'-terminated line, then the last 3 tokens of the nearest
// non-empty line above, then a literal fallback.
func pullLabelFromContext(lines []docmodel.Line, li int) string {
	const maxUp, maxDown = 3, 3

	for steps, idx := 0, li-1; idx >= 0 && steps < maxUp; steps, idx = steps+1, idx-1 {
		txt := strings.TrimSpace(lines[idx].Text())
		if txt != "" && strings.Contains(txt, "?") {
			return CleanLabel(txt)
		}
	}

	for steps, idx := 0, li+1; idx < len(lines) && steps < maxDown; steps, idx = steps+1, idx+1 {
		txt := strings.TrimSpace(lines[idx].Text())
		if txt != "" && strings.Contains(txt, "?") {
			return CleanLabel(txt)
		}
	}

	for steps, idx := 0, li-1; idx >= 0 && steps < maxUp; steps, idx = steps+1, idx-1 {
		txt := strings.TrimSpace(lines[idx].Text())
		if strings.HasSuffix(txt, ":") {
			return CleanLabel(txt)
		}
	}

	for steps, idx := 0, li-1; idx >= 0 && steps < maxUp; steps, idx = steps+1, idx-1 {
		txt := strings.TrimSpace(lines[idx].Text())
		if txt != "" {
			toks := strings.Fields(txt)
			if len(toks) > 3 {
				toks = toks[len(toks)-3:]
			}
			return CleanLabel(strings.Join(toks, " "))
		}
	}

	return "Sélection"
}

// isAmbiguousRadio filters false positives. Pure Oui/Non option sets need
// a label that reads as a question; dropdown placeholder hints in the
// label or options reject the group outright.
func isAmbiguousRadio(label string, options []Option) bool {
	lab := strings.ToLower(strings.TrimSpace(label))

	if placeholderRe.MatchString(lab) {
		return true
	}

	onlyYesNo := len(options) > 0
	for _, o := range options {
		low := strings.ToLower(strings.TrimSpace(o.Label))
		if strings.Contains(low, "choisissez") {
			return true
		}
		if low != "oui" && low != "non" {
			onlyYesNo = false
		}
	}

	if onlyYesNo && !looksLikeQuestion(lab) {
		return true
	}
	return false
}

// maybeSplitTwoQuestions splits one row into two yes/no radio groups when
// the label matches both known split patterns. Bullets on the row are
// partitioned left to right into pairs so each group keeps markable
// coordinates.
func maybeSplitTwoQuestions(label string, page int, curWords []docmodel.Word) []Field {
	low := strings.ToLower(label)
	for _, p := range splitRowPatterns {
		if !p.re.MatchString(low) {
			return nil
		}
	}

	var bullets []docmodel.Word
	for _, w := range curWords {
		if isRadioGlyph(w.Text) {
			bullets = append(bullets, w)
		}
	}
	// already sorted left to right within the line

	makeOpts := func(pair []docmodel.Word) []Option {
		if len(pair) == 2 {
			return []Option{
				{Label: "Oui", Box: wordBox(pair[0]), HasBox: true},
				{Label: "Non", Box: wordBox(pair[1]), HasBox: true},
			}
		}
		return []Option{{Label: "Oui"}, {Label: "Non"}}
	}

	var g1, g2 []Option
	if len(bullets) >= 4 {
		g1, g2 = makeOpts(bullets[:2]), makeOpts(bullets[2:4])
	} else {
		g1, g2 = makeOpts(nil), makeOpts(nil)
	}

	makeRadio := func(question, suffix string, opts []Option) Field {
		return Field{
			ID:       fmt.Sprintf("p%d_radio_%d_%d_%s", page, int(curWords[0].X0), int(curWords[0].Y0), suffix),
			Page:     page,
			Kind:     KindRadio,
			Label:    question,
			Question: question,
			Options:  opts,
		}
	}

	return []Field{
		makeRadio(splitRowPatterns[0].question, "a", g1),
		makeRadio(splitRowPatterns[1].question, "b", g2),
	}
}

// repairYesNo rewrites letterless or placeholder option labels to Oui/Non
// in sequence when the surrounding lines mention them. Real lettered
// tokens are never overwritten unless allowOption matched the "Option"
// stand-in.
func repairYesNo(options []Option, neighborhood []string, treatOptionAsEmpty bool) {
	hasOui, hasNon := false, false
	for _, t := range neighborhood {
		switch strings.ToLower(t) {
		case "oui":
			hasOui = true
		case "non":
			hasNon = true
		}
	}
	if !hasOui && !hasNon {
		return
	}

	var seq []string
	if hasOui {
		seq = append(seq, "Oui")
	}
	if hasNon {
		seq = append(seq, "Non")
	}

	for k := range options {
		empty := !hasAlpha(options[k].Label)
		if treatOptionAsEmpty && options[k].Label == "Option" {
			empty = true
		}
		if empty {
			options[k].Label = seq[k%len(seq)]
		}
	}
}

// neighborhoodTexts collects the raw word texts of the previous, current
// and next lines.
func neighborhoodTexts(lines []docmodel.Line, li int, cur []docmodel.Word) []string {
	var out []string
	if li-1 >= 0 {
		for _, w := range lines[li-1].Words {
			out = append(out, w.Text)
		}
	}
	for _, w := range cur {
		out = append(out, w.Text)
	}
	if li+1 < len(lines) {
		for _, w := range lines[li+1].Words {
			out = append(out, w.Text)
		}
	}
	return out
}

// finalizeRadio canonicalizes option labels, applies the segment special
// case, tries the two-question split, squeezes surplus Oui/Non duplicates
// and filters ambiguous groups. It returns the resulting fields (two when
// split, one otherwise) or nil when the group is rejected.
func finalizeRadio(label string, options []Option, page int, curWords []docmodel.Word) []Field {
	label = CleanLabel(label)

	for i := range options {
		options[i].Label = strings.TrimSpace(options[i].Label)
	}

	// A detached "Compte" next to a Professionnel sibling is the split
	// first half of "Compte Particulier".
	hasProf := false
	for _, o := range options {
		if strings.Contains(strings.ToLower(o.Label), "profession") {
			hasProf = true
			break
		}
	}
	for i := range options {
		if hasProf && strings.EqualFold(options[i].Label, "compte") {
			options[i].Label = "Particulier"
		}
	}

	for i := range options {
		low := strings.ToLower(options[i].Label)
		if strings.Contains(low, "particul") {
			options[i].Label = "Particulier"
		} else if strings.Contains(low, "profession") {
			options[i].Label = "Professionnel"
		}
	}

	hasPart, hasProf2 := false, false
	for _, o := range options {
		low := strings.ToLower(strings.TrimSpace(o.Label))
		if strings.Contains(low, "particul") {
			hasPart = true
		}
		if strings.Contains(low, "profession") {
			hasProf2 = true
		}
	}

	var question string
	if hasPart && hasProf2 {
		label = "Segment:"
		question = "Êtes-vous un compte particulier ou professionnel ?"
	} else if label != "" {
		question = QuestionFor(label)
	} else {
		question = "Veuillez choisir une option."
	}

	if split := maybeSplitTwoQuestions(label, page, curWords); split != nil {
		return split
	}

	onlyYesNo := true
	yesNoCount := 0
	for _, o := range options {
		low := strings.ToLower(strings.TrimSpace(o.Label))
		if low != "oui" && low != "non" {
			onlyYesNo = false
			break
		}
		yesNoCount++
	}
	if onlyYesNo && yesNoCount > 2 {
		var kept []Option
		for _, want := range []string{"oui", "non"} {
			for _, o := range options {
				if strings.EqualFold(strings.TrimSpace(o.Label), want) {
					kept = append(kept, o)
					break
				}
			}
		}
		if len(kept) == 2 {
			options = kept
		} else {
			options = []Option{{Label: "Oui"}, {Label: "Non"}}
		}
	}

	if isAmbiguousRadio(label, options) {
		return nil
	}

	return []Field{{
		ID:       fmt.Sprintf("p%d_radio_%d_%d", page, int(curWords[0].X0), int(curWords[0].Y0)),
		Page:     page,
		Kind:     KindRadio,
		Label:    label,
		Question: question,
		Options:  options,
	}}
}

// detectRadioFromBlock extracts a radio group anchored on line li, trying
// three layouts in order: bullets and tokens on the same line, a
// bullets-only line with options on the next line, then inline token runs
// between bullets. Returns nil when the line has no bullet or every
// strategy rejects.
func detectRadioFromBlock(lines []docmodel.Line, li, page int) []Field {
	curWords := lines[li].Words
	hasBullet := false
	for _, w := range curWords {
		if isRadioGlyph(w.Text) {
			hasBullet = true
			break
		}
	}
	if !hasBullet {
		return nil
	}

	// Case 1: bullets and option tokens share the line.
	if options := sameLineOptionsByNearest(curWords); options != nil {
		label := pullLabelFromContext(lines, li)
		if label == "" {
			var prefix []string
			for _, w := range curWords {
				if isRadioGlyph(w.Text) {
					break
				}
				prefix = append(prefix, w.Text)
			}
			label = strings.TrimSpace(strings.Join(prefix, " "))
		}

		repairYesNo(options, neighborhoodTexts(lines, li, curWords), false)
		return finalizeRadio(label, options, page, curWords)
	}

	// Case 2: the line is bullets only; candidates come from the line below.
	var bullets, nonBullets []docmodel.Word
	for _, w := range curWords {
		if isRadioGlyph(w.Text) {
			bullets = append(bullets, w)
		} else {
			nonBullets = append(nonBullets, w)
		}
	}
	if len(bullets) > 0 && len(nonBullets) == 0 {
		label := pullLabelFromContext(lines, li)

		var nextWords []docmodel.Word
		if li+1 < len(lines) {
			nextWords = lines[li+1].Words
		}
		var cands []docmodel.Word
		for _, w := range nextWords {
			if !isRadioGlyph(w.Text) && hasAlpha(w.Text) {
				cands = append(cands, w)
			}
		}

		var options []Option
		for _, b := range bullets {
			var best *docmodel.Word
			bestDX := 1e9
			for i := range cands {
				dx := cands[i].X0 - b.X0
				if dx < 0 {
					dx = -dx
				}
				if dx < bestDX {
					best, bestDX = &cands[i], dx
				}
			}
			labelTxt := ""
			if best != nil {
				labelTxt = cleanOptionLabel(best.Text)
			}
			if labelTxt == "" {
				labelTxt = "Option"
			}
			options = append(options, Option{Label: labelTxt, Box: wordBox(b), HasBox: true})
		}

		var neighborhood []string
		if li-1 >= 0 {
			for _, w := range lines[li-1].Words {
				neighborhood = append(neighborhood, w.Text)
			}
		}
		for _, w := range curWords {
			neighborhood = append(neighborhood, w.Text)
		}
		for _, w := range nextWords {
			neighborhood = append(neighborhood, w.Text)
		}
		repairYesNo(options, neighborhood, true)
		return finalizeRadio(label, options, page, curWords)
	}

	// Case 3: fallback, inline token runs between bullets.
	firstBullet := -1
	for i, w := range curWords {
		if isRadioGlyph(w.Text) {
			firstBullet = i
			break
		}
	}
	if firstBullet < 0 {
		return nil
	}

	var prefix []string
	for _, w := range curWords[:firstBullet] {
		prefix = append(prefix, w.Text)
	}
	label := CleanLabel(strings.TrimSpace(strings.Join(prefix, " ")))
	if label == "" {
		label = pullLabelFromContext(lines, li)
	}

	var options []Option
	i := firstBullet
	for i < len(curWords) {
		if !isRadioGlyph(curWords[i].Text) {
			i++
			continue
		}
		j := i + 1
		var optTokens []string
		for j < len(curWords) && !isRadioGlyph(curWords[j].Text) {
			optTokens = append(optTokens, curWords[j].Text)
			j++
		}
		optLabel := cleanOptionLabel(strings.TrimSpace(strings.Join(optTokens, " ")))
		if optLabel == "" {
			optLabel = "Option"
		}
		options = append(options, Option{Label: optLabel, Box: wordBox(curWords[i]), HasBox: true})
		i = j
	}

	if len(options) == 0 {
		return nil
	}

	repairYesNo(options, neighborhoodTexts(lines, li, curWords), true)
	return finalizeRadio(label, options, page, curWords)
}
