package fields

import (
	"strings"
	"unicode"
)

// questionPrefixes mark labels that already read as a French question.
var questionPrefixes = []string{
	"etes-vous", "êtes-vous", "etes vous", "êtes vous",
	"souhaitez-vous", "souhaitez vous",
	"possédez-vous", "possedez-vous", "possédez vous", "possedez vous",
}

// questionByLabel maps known lowercase labels to their phrased question.
// Labels appear both with and without the trailing asterisk the form uses
// to flag required fields.
var questionByLabel = map[string]string{
	"sexe*":                "Quel est votre sexe ?",
	"sexe":                 "Quel est votre sexe ?",
	"civilité*":            "Quelle est votre civilité ?",
	"date de naissance*":   "Quelle est votre date de naissance ? (JJ/MM/AAAA)",
	"date de naissance":    "Quelle est votre date de naissance ? (JJ/MM/AAAA)",
	"prénom*":              "Quel est votre prénom ?",
	"prénom":               "Quel est votre prénom ?",
	"nom de famille*":      "Quel est votre nom de famille ?",
	"nom de famille":       "Quel est votre nom de famille ?",
	"n° tel. *":            "Quel est votre numéro de téléphone ? (8 chiffres)",
	"n° tel.":              "Quel est votre numéro de téléphone ? (8 chiffres)",
	"e-mail personnel":     "Quel est votre e-mail personnel ?",
	"adresse*":             "Quelle est votre adresse ?",
	"code postal*":         "Quel est votre code postal ? (4 chiffres)",
	"pays*":                "Quel est votre pays ?",
	"ville*":               "Quelle est votre ville ?",
	"lieu de naissance":    "Quel est votre lieu de naissance ?",
	"pays de naissance*":   "Quel est votre pays de naissance ?",
	"numéro*":              "Quel est le numéro du document ?",
	"date de délivrance*":  "Quelle est la date de délivrance ? (JJ/MM/AAAA)",
	"date d’expiration":    "Quelle est la date d’expiration ? (JJ/MM/AAAA)",
	"date d'expiration":    "Quelle est la date d’expiration ? (JJ/MM/AAAA)",
	"nationalité":          "Quelle est votre nationalité ?",
	"pièce d’identité*":    "Quel type de pièce d’identité ?",
	"pièce d'identité*":    "Quel type de pièce d’identité ?",
	"profession*":          "Quelle est votre profession ?",
	"nom de l’employeur*":  "Quel est le nom de votre employeur ?",
	"nom de l'employeur*":  "Quel est le nom de votre employeur ?",
	"montant et devise du revenu mensuel net*": "Quel est votre revenu mensuel net (montant et devise) ?",
}

// feminineCues pick the "Quelle" article when synthesizing a question.
var feminineCues = []string{"adresse", "nationalité", "ville", "civilité", "date"}

// looksLikeQuestion reports whether low (already lowercased) reads as a
// question on its own.
func looksLikeQuestion(low string) bool {
	if strings.Contains(low, "?") {
		return true
	}
	for _, p := range questionPrefixes {
		if strings.HasPrefix(low, p) {
			return true
		}
	}
	return false
}

// capitalizeFirst uppercases the first rune of s.
func capitalizeFirst(s string) string {
	runes := []rune(s)
	if len(runes) == 0 {
		return s
	}
	runes[0] = unicode.ToUpper(runes[0])
	return string(runes)
}

// QuestionFor turns a field label into the question asked during fill.
// Labels that already read as a question are kept (capitalized); known
// labels use the fixed phrasing table; anything else gets a synthesized
// "Quel/Quelle est votre ... ?" with the article chosen by feminine cues.
func QuestionFor(rawLabel string) string {
	raw := strings.Trim(strings.TrimSpace(rawLabel), ":")
	low := strings.ToLower(raw)

	if looksLikeQuestion(low) {
		q := strings.TrimSpace(repeatedMarksRe.ReplaceAllString(raw, "?"))
		return capitalizeFirst(q)
	}

	if q, ok := questionByLabel[low]; ok {
		return q
	}

	article := "Quel"
	for _, cue := range feminineCues {
		if strings.Contains(low, cue) {
			article = "Quelle"
			break
		}
	}
	cleaned := strings.TrimSpace(strings.ReplaceAll(raw, "*", ""))
	return article + " est votre " + strings.ToLower(cleaned) + " ?"
}
