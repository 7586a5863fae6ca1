package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formfill/mcp-form-filler/internal/docmodel"
)

func TestExtractWordsStopMarkerFirstPageOnly(t *testing.T) {
	pages := [][]docmodel.Word{
		{
			word("Nom:", 10, 100),
			word("champ", 10, 200), word("obligatoire", 50, 200),
			word("Ville:", 10, 300), // below the marker, must be skipped
		},
		{
			word("Pays:", 10, 100), // later pages scan unconditionally
		},
	}

	fs := ExtractWords(pages)
	require.Len(t, fs, 2)
	assert.Equal(t, "Nom", fs[0].Label)
	assert.Equal(t, 0, fs[0].Page)
	assert.Equal(t, "Pays", fs[1].Label)
	assert.Equal(t, 1, fs[1].Page)
}

func TestExtractWordsStopMarkerCaseInsensitive(t *testing.T) {
	pages := [][]docmodel.Word{
		{
			word("Champ", 10, 100), word("Obligatoire", 60, 100),
			word("Nom:", 10, 200),
		},
	}

	assert.Empty(t, ExtractWords(pages))
}

func TestExtractWordsMarkerOnLaterPageIgnored(t *testing.T) {
	pages := [][]docmodel.Word{
		{word("Nom:", 10, 100)},
		{
			word("champ", 10, 100), word("obligatoire", 60, 100),
			word("Ville:", 10, 200),
		},
	}

	fs := ExtractWords(pages)
	require.Len(t, fs, 2)
	assert.Equal(t, "Ville", fs[1].Label)
}

func TestExtractWordsSectionHeadersRejected(t *testing.T) {
	pages := [][]docmodel.Word{
		{
			word("Informations", 10, 100), word("personnelles", 90, 100), word(":", 180, 100),
			word("Prénom:", 10, 200),
		},
	}

	fs := ExtractWords(pages)
	require.Len(t, fs, 1)
	assert.Equal(t, "Prénom", fs[0].Label)
}

func TestExtractWordsLetterlessLabelBackfill(t *testing.T) {
	pages := [][]docmodel.Word{
		{
			word("Date", 10, 100), word("de", 40, 100), word("naissance", 55, 100), word("?", 120, 100),
			word("12", 10, 110), word(":", 30, 110),
		},
	}

	fs := ExtractWords(pages)
	require.Len(t, fs, 1)
	assert.Equal(t, "Date de naissance ?", fs[0].Label)
	assert.Equal(t, "Date de naissance ?", fs[0].Question)
}

func TestExtractWordsLetterlessLabelRejectedWithoutBackfill(t *testing.T) {
	pages := [][]docmodel.Word{
		{
			word("123", 10, 110), word(":", 30, 110),
		},
	}

	assert.Empty(t, ExtractWords(pages))
}

func TestExtractWordsDedup(t *testing.T) {
	// Same label repeated at the same position on the same page (header
	// repeated in a footer) keeps the first occurrence only.
	pages := [][]docmodel.Word{
		{
			word("Nom:", 10, 100),
		},
		{
			word("Nom:", 10, 100),
			word("Nom:", 10, 100.01), // same rounded position
			word("Nom:", 200, 400),   // distinct position survives
		},
	}

	fs := ExtractWords(pages)
	require.Len(t, fs, 3)
	assert.Equal(t, 0, fs[0].Page)
	assert.Equal(t, 1, fs[1].Page)
	assert.Equal(t, 1, fs[2].Page)
}

func TestExtractWordsRadioAndTextOrder(t *testing.T) {
	pages := [][]docmodel.Word{
		{
			word("Prénom:", 10, 100),
			word("Êtes-vous", 10, 200), word("fumeur", 70, 200), word("?", 115, 200),
			bullet(20, 210), word("Oui", 32, 210), bullet(80, 210), word("Non", 92, 210),
			word("Ville:", 10, 300),
		},
	}

	fs := ExtractWords(pages)
	require.Len(t, fs, 3)
	assert.Equal(t, KindText, fs[0].Kind)
	assert.Equal(t, "Prénom", fs[0].Label)
	assert.Equal(t, KindRadio, fs[1].Kind)
	assert.Equal(t, "Êtes-vous fumeur ?", fs[1].Label)
	assert.Equal(t, KindText, fs[2].Kind)
	assert.Equal(t, "Ville", fs[2].Label)
}

func TestExtractWordsCompoundRowYieldsTwoGroups(t *testing.T) {
	pages := [][]docmodel.Word{
		{
			word("Êtes-vous", 10, 90), word("résident", 60, 90), word("aux", 100, 90),
			word("Etats-Unis", 120, 90), word("?", 170, 90),
			word("bénéficiaire", 200, 90), word("réel", 260, 90), word("du", 285, 90),
			word("compte", 300, 90), word("?", 340, 90),
			bullet(20, 100), word("Oui", 30, 100),
			bullet(60, 100), word("Non", 70, 100),
			bullet(220, 100), word("Oui", 230, 100),
			bullet(260, 100), word("Non", 270, 100),
		},
	}

	fs := ExtractWords(pages)

	var radios []Field
	for _, f := range fs {
		if f.Kind == KindRadio {
			radios = append(radios, f)
		}
	}
	require.Len(t, radios, 2)
	assert.Equal(t, "Êtes-vous résident aux États-Unis ?", radios[0].Question)
	assert.Equal(t, "Êtes-vous le bénéficiaire réel du compte ?", radios[1].Question)
	for _, r := range radios {
		assert.Len(t, r.Options, 2)
	}
}

func TestExtractWordsDeterministic(t *testing.T) {
	pages := [][]docmodel.Word{
		{
			word("Prénom:", 10, 100),
			word("Nom:", 10, 120),
			word("Êtes-vous", 10, 200), word("fumeur", 70, 200), word("?", 115, 200),
			bullet(20, 210), word("Oui", 32, 210), bullet(80, 210), word("Non", 92, 210),
		},
	}

	first := ExtractWords(pages)
	for i := 0; i < 5; i++ {
		again := ExtractWords(pages)
		require.Equal(t, len(first), len(again))
		for j := range first {
			assert.Equal(t, first[j].Label, again[j].Label)
			assert.Equal(t, first[j].Kind, again[j].Kind)
		}
	}
}

func TestExtractWordsUniqueIDs(t *testing.T) {
	// Labels on different lines share the same word index within their
	// line; their ids must still differ.
	pages := [][]docmodel.Word{
		{
			word("Prénom:", 10, 100),
			word("Ville:", 10, 200),
			word("Nom:", 10, 300), word("Pays:", 120, 300),
			word("Êtes-vous", 10, 400), word("fumeur", 70, 400), word("?", 115, 400),
			bullet(20, 410), word("Oui", 32, 410), bullet(80, 410), word("Non", 92, 410),
		},
		{
			word("Prénom:", 10, 100),
		},
	}

	fs := ExtractWords(pages)
	require.Len(t, fs, 6)

	seen := make(map[string]string, len(fs))
	for _, f := range fs {
		if other, dup := seen[f.ID]; dup {
			t.Fatalf("duplicate field id %q: %q and %q", f.ID, other, f.Label)
		}
		seen[f.ID] = f.Label
	}
}

func TestExtractWordsLabelsAlwaysLettered(t *testing.T) {
	pages := [][]docmodel.Word{
		{
			word("Nom:", 10, 100),
			word("42:", 10, 200),
			word("Prénom:", 10, 300),
		},
	}

	for _, f := range ExtractWords(pages) {
		assert.True(t, hasLetter(f.Label), "label %q must carry a letter", f.Label)
	}
}
