package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formfill/mcp-form-filler/internal/docmodel"
)

func bullet(x, y float64) docmodel.Word {
	return docmodel.Word{X0: x, Y0: y, X1: x + 8, Y1: y + 8, Text: "○"}
}

func TestDetectRadioSameLine(t *testing.T) {
	lines := []docmodel.Line{
		lineOf(word("Êtes-vous", 10, 90), word("fumeur", 70, 90), word("?", 115, 90)),
		lineOf(bullet(20, 100), word("Oui", 32, 100), bullet(80, 100), word("Non", 92, 100)),
	}

	fs := detectRadioFromBlock(lines, 1, 0)
	require.Len(t, fs, 1)

	f := fs[0]
	assert.Equal(t, KindRadio, f.Kind)
	assert.Equal(t, "Êtes-vous fumeur ?", f.Label)
	assert.Equal(t, []string{"Oui", "Non"}, f.OptionLabels())
	// option boxes come from the bullets, not the labels
	assert.InDelta(t, 20.0, f.Options[0].Box.X0, 0.01)
	assert.InDelta(t, 80.0, f.Options[1].Box.X0, 0.01)
}

func TestDetectRadioRightSidePreference(t *testing.T) {
	// "Gauche" is closer to the bullet than "Droite" but sits on its
	// left; the right-side token must win.
	lines := []docmodel.Line{
		lineOf(word("Choix", 10, 40), word("?", 50, 40)),
		lineOf(word("Gauche", 40, 50), bullet(70, 50), word("Droite", 90, 50)),
	}

	fs := detectRadioFromBlock(lines, 1, 0)
	require.Len(t, fs, 1)
	require.Len(t, fs[0].Options, 1)
	assert.Equal(t, "Droite", fs[0].Options[0].Label)
}

func TestDetectRadioNextLineOptions(t *testing.T) {
	lines := []docmodel.Line{
		lineOf(word("Souhaitez-vous", 10, 90), word("une", 90, 90), word("carte", 120, 90), word("?", 160, 90)),
		lineOf(bullet(20, 100), bullet(80, 100)),
		lineOf(word("Visa", 18, 110), word("Mastercard", 76, 110)),
	}

	fs := detectRadioFromBlock(lines, 1, 0)
	require.Len(t, fs, 1)
	assert.Equal(t, []string{"Visa", "Mastercard"}, fs[0].OptionLabels())
	assert.Equal(t, "Souhaitez-vous une carte ?", fs[0].Label)
}

func TestDetectRadioInlineFallback(t *testing.T) {
	// Bullets with trailing multi-word runs; non-letter runs between
	// bullets keep the same-line strategy from matching the tokens to
	// the left, so this exercises the inline splitter.
	lines := []docmodel.Line{
		lineOf(word("Type", 10, 20), word("de", 40, 20), word("compte", 60, 20), word("?", 110, 20)),
		lineOf(
			bullet(10, 30), word("Compte", 20, 30), word("épargne", 60, 30),
			bullet(120, 30), word("Compte", 130, 30), word("courant", 170, 30),
		),
	}

	fs := detectRadioFromBlock(lines, 1, 0)
	require.Len(t, fs, 1)
	// same-line nearest matching applies here; both bullets resolve to
	// lettered tokens on their right
	assert.Len(t, fs[0].Options, 2)
}

func TestDetectRadioNoBulletsReturnsNil(t *testing.T) {
	lines := []docmodel.Line{
		lineOf(word("Nom:", 10, 20)),
	}
	assert.Nil(t, detectRadioFromBlock(lines, 0, 0))
}

func TestDetectRadioYesNoNeighborhoodRepair(t *testing.T) {
	// Bullets-only line whose next-line candidates carry no letters:
	// options fall back to "Option" and the Oui/Non words visible in the
	// neighborhood repair them in sequence.
	lines := []docmodel.Line{
		lineOf(word("Êtes-vous", 10, 90), word("résident", 70, 90), word("?", 130, 90), word("Oui", 150, 90), word("Non", 180, 90)),
		lineOf(bullet(150, 100), bullet(180, 100)),
		lineOf(word("123", 10, 110)),
	}

	fs := detectRadioFromBlock(lines, 1, 0)
	require.Len(t, fs, 1)
	assert.Equal(t, []string{"Oui", "Non"}, fs[0].OptionLabels())
}

func TestDetectRadioOuiNonDedup(t *testing.T) {
	// Four Oui/Non options squeeze down to the first Oui and first Non.
	lines := []docmodel.Line{
		lineOf(word("Possédez-vous", 10, 90), word("un", 95, 90), word("compte", 115, 90), word("?", 160, 90)),
		lineOf(
			bullet(20, 100), word("Oui", 30, 100),
			bullet(60, 100), word("Non", 70, 100),
			bullet(100, 100), word("Oui", 110, 100),
			bullet(140, 100), word("Non", 150, 100),
		),
	}

	fs := detectRadioFromBlock(lines, 1, 0)
	require.Len(t, fs, 1)
	assert.Equal(t, []string{"Oui", "Non"}, fs[0].OptionLabels())
	// first Oui keeps the leftmost bullet box
	assert.InDelta(t, 20.0, fs[0].Options[0].Box.X0, 0.01)
	assert.InDelta(t, 60.0, fs[0].Options[1].Box.X0, 0.01)
}

func TestDetectRadioAmbiguousYesNoRejected(t *testing.T) {
	// Oui/Non options under a non-question label are a false positive.
	lines := []docmodel.Line{
		lineOf(word("Copie", 10, 90)),
		lineOf(bullet(20, 100), word("Oui", 30, 100), bullet(60, 100), word("Non", 70, 100)),
	}

	assert.Nil(t, detectRadioFromBlock(lines, 1, 0))
}

func TestDetectRadioDropdownHintRejected(t *testing.T) {
	lines := []docmodel.Line{
		lineOf(word("Civilité", 10, 90), word("?", 60, 90)),
		lineOf(bullet(20, 100), word("Choisissez", 30, 100)),
	}

	assert.Nil(t, detectRadioFromBlock(lines, 1, 0))
}

func TestDetectRadioSegmentSpecialCase(t *testing.T) {
	lines := []docmodel.Line{
		lineOf(word("Compte", 10, 90), word(":", 60, 90)),
		lineOf(bullet(20, 100), word("Particulier", 30, 100), bullet(100, 100), word("Professionnel", 110, 100)),
	}

	fs := detectRadioFromBlock(lines, 1, 0)
	require.Len(t, fs, 1)
	assert.Equal(t, "Segment:", fs[0].Label)
	assert.Equal(t, "Êtes-vous un compte particulier ou professionnel ?", fs[0].Question)
	assert.Equal(t, []string{"Particulier", "Professionnel"}, fs[0].OptionLabels())
}

func TestDetectRadioCompteRepairedToParticulier(t *testing.T) {
	// OCR-split "Compte" next to a Professionnel sibling canonicalizes
	// to Particulier and triggers the segment label.
	lines := []docmodel.Line{
		lineOf(word("Type", 10, 90), word(":", 45, 90)),
		lineOf(bullet(20, 100), word("Compte", 30, 100), bullet(100, 100), word("Professionnel", 110, 100)),
	}

	fs := detectRadioFromBlock(lines, 1, 0)
	require.Len(t, fs, 1)
	assert.Equal(t, []string{"Particulier", "Professionnel"}, fs[0].OptionLabels())
	assert.Equal(t, "Segment:", fs[0].Label)
}

func TestDetectRadioCompoundRowSplit(t *testing.T) {
	// One row carrying both known yes/no questions splits into two
	// 2-option groups, bullets partitioned left to right.
	lines := []docmodel.Line{
		lineOf(
			word("Êtes-vous", 10, 90), word("résident", 60, 90), word("aux", 100, 90),
			word("Etats-Unis", 120, 90), word("?", 170, 90),
			word("bénéficiaire", 200, 90), word("réel", 260, 90), word("du", 285, 90),
			word("compte", 300, 90), word("?", 340, 90),
		),
		lineOf(
			bullet(20, 100), word("Oui", 30, 100),
			bullet(60, 100), word("Non", 70, 100),
			bullet(220, 100), word("Oui", 230, 100),
			bullet(260, 100), word("Non", 270, 100),
		),
	}

	fs := detectRadioFromBlock(lines, 1, 0)
	require.Len(t, fs, 2)

	assert.Equal(t, "Êtes-vous résident aux États-Unis ?", fs[0].Question)
	assert.Equal(t, "Êtes-vous le bénéficiaire réel du compte ?", fs[1].Question)

	for _, f := range fs {
		assert.Equal(t, []string{"Oui", "Non"}, f.OptionLabels())
	}

	// bullet pairs split left to right between the two groups
	assert.InDelta(t, 20.0, fs[0].Options[0].Box.X0, 0.01)
	assert.InDelta(t, 220.0, fs[1].Options[0].Box.X0, 0.01)
}

func TestPullLabelFromContext(t *testing.T) {
	questionAbove := []docmodel.Line{
		lineOf(word("Êtes-vous", 10, 10), word("marié", 70, 10), word("?", 110, 10)),
		lineOf(bullet(20, 20)),
	}
	assert.Equal(t, "Êtes-vous marié ?", pullLabelFromContext(questionAbove, 1))

	colonAbove := []docmodel.Line{
		lineOf(word("Situation", 10, 10), word("familiale:", 70, 10)),
		lineOf(bullet(20, 20)),
	}
	assert.Equal(t, "Situation familiale:", pullLabelFromContext(colonAbove, 1))

	tailFallback := []docmodel.Line{
		lineOf(word("un", 10, 10), word("texte", 30, 10), word("assez", 60, 10), word("long", 95, 10)),
		lineOf(bullet(20, 20)),
	}
	assert.Equal(t, "texte assez long", pullLabelFromContext(tailFallback, 1))

	empty := []docmodel.Line{lineOf(bullet(20, 20))}
	assert.Equal(t, "Sélection", pullLabelFromContext(empty, 0))
}
