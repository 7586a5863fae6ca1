package fill

import (
	"regexp"
	"strings"
	"time"
)

// ValidationError rejects a text answer with a user-facing French message.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string { return e.Reason }

var (
	phoneRe     = regexp.MustCompile(`^\d{8}$`)
	postalRe    = regexp.MustCompile(`^\d{4}$`)
	emailRe     = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)
	matriculeRe = regexp.MustCompile(`^\d{8,15}$`)
	nameRe      = regexp.MustCompile(`^[A-Za-zÀ-ÿ\-'\s]+$`)
)

// dateLayout is the French day-first format the form asks for.
const dateLayout = "02/01/2006"

// ValidateAnswer checks a text answer against the rule selected by the
// field's label. Rules are keyed on label substrings: dates (birth dates
// must lie in the past, expiration dates in the future), phone numbers,
// postal codes, e-mail addresses, tax registration numbers and person
// names. Labels matching no rule accept any non-empty value.
func ValidateAnswer(label, value string) error {
	return validateAnswerAt(label, value, time.Now())
}

func validateAnswerAt(label, value string, now time.Time) error {
	v := strings.TrimSpace(value)
	if v == "" {
		return &ValidationError{Reason: "Réponse vide."}
	}

	lab := strings.ToLower(label)

	switch {
	case strings.Contains(lab, "date"):
		d, err := time.Parse(dateLayout, v)
		if err != nil {
			return &ValidationError{Reason: "Format invalide. Utilisez JJ/MM/AAAA."}
		}
		if strings.Contains(lab, "naissance") && !d.Before(now) {
			return &ValidationError{Reason: "La date de naissance doit être dans le passé."}
		}
		if strings.Contains(lab, "expiration") && !d.After(now) {
			return &ValidationError{Reason: "La date d’expiration doit être dans le futur."}
		}
		return nil

	case strings.Contains(lab, "téléphone") || strings.Contains(lab, "tel"):
		if !phoneRe.MatchString(v) {
			return &ValidationError{Reason: "Le numéro de téléphone doit contenir exactement 8 chiffres."}
		}
		return nil

	case strings.Contains(lab, "code postal"):
		if !postalRe.MatchString(v) {
			return &ValidationError{Reason: "Le code postal doit être un nombre de 4 chiffres."}
		}
		return nil

	case strings.Contains(lab, "e-mail") || strings.Contains(lab, "email"):
		if !emailRe.MatchString(v) {
			return &ValidationError{Reason: "Format d'email invalide."}
		}
		return nil

	case strings.Contains(lab, "matricule"):
		if !matriculeRe.MatchString(v) {
			return &ValidationError{Reason: "Le matricule fiscal doit être un nombre (8 à 15 chiffres)."}
		}
		return nil

	case strings.Contains(lab, "nom") || strings.Contains(lab, "prénom"):
		if !nameRe.MatchString(v) {
			return &ValidationError{Reason: "Seules les lettres sont autorisées pour ce champ."}
		}
		return nil
	}

	return nil
}
