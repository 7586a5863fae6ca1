package fill

import (
	"testing"
	"time"
)

func TestValidateAnswer(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		label   string
		value   string
		wantErr bool
	}{
		// dates
		{"birth date in the past", "Date de naissance*", "15/03/1990", false},
		{"birth date in the future rejected", "Date de naissance*", "15/03/2030", true},
		{"birth date bad format", "Date de naissance*", "1990-03-15", true},
		{"expiration in the future", "Date d’expiration", "15/03/2030", false},
		{"expiration in the past rejected", "Date d’expiration", "15/03/2020", true},
		{"generic date accepts any valid date", "Date de délivrance*", "01/01/2020", false},
		{"generic date bad format", "Date de délivrance*", "32/01/2020", true},

		// phone
		{"phone exactly 8 digits", "N° Tel. *", "12345678", false},
		{"phone too short", "N° Tel. *", "12345", true},
		{"phone too long", "N° Tel. *", "123456789", true},
		{"phone with letters", "Téléphone", "1234567a", true},

		// postal code
		{"postal 4 digits", "Code postal*", "7510", false},
		{"postal 3 digits rejected", "Code postal*", "751", true},
		{"postal 5 digits rejected", "Code postal*", "75101", true},

		// email
		{"valid email", "E-mail personnel", "jean@exemple.fr", false},
		{"email missing tld", "E-mail personnel", "a@b", true},
		{"email missing at", "E-mail personnel", "jean.exemple.fr", true},

		// matricule
		{"matricule 8 digits", "Matricule fiscal", "12345678", false},
		{"matricule 15 digits", "Matricule fiscal", "123456789012345", false},
		{"matricule 7 digits rejected", "Matricule fiscal", "1234567", true},
		{"matricule 16 digits rejected", "Matricule fiscal", "1234567890123456", true},

		// names
		{"name with accents and hyphen", "Prénom*", "Jean-Édouard", false},
		{"name with apostrophe", "Nom de famille*", "D'Artagnan", false},
		{"name with digits rejected", "Prénom*", "Jean2", true},

		// fallback
		{"unknown label accepts anything", "Profession*", "n'importe quoi 42 !", false},
		{"empty value always rejected", "Profession*", "  ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateAnswerAt(tt.label, tt.value, now)
			if (err != nil) != tt.wantErr {
				t.Errorf("validateAnswerAt(%q, %q) error = %v, wantErr %v", tt.label, tt.value, err, tt.wantErr)
			}
		})
	}
}

func TestValidateAnswerErrorMessages(t *testing.T) {
	now := time.Date(2026, 8, 28, 12, 0, 0, 0, time.UTC)

	err := validateAnswerAt("Date de naissance*", "15/03/2030", now)
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "La date de naissance doit être dans le passé." {
		t.Errorf("unexpected message: %q", err.Error())
	}

	err = validateAnswerAt("N° Tel. *", "12345", now)
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "Le numéro de téléphone doit contenir exactement 8 chiffres." {
		t.Errorf("unexpected message: %q", err.Error())
	}
}
