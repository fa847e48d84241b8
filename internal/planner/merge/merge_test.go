package merge

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablero-app/planner-backend/internal/planner/domain"
)

func patchFromJSON(t *testing.T, raw string) Patch {
	t.Helper()
	var p Patch
	require.NoError(t, json.Unmarshal([]byte(raw), &p))
	return p
}

func TestApplyPreservesUnrelatedSiblings(t *testing.T) {
	doc := domain.NewDefaultDocument()
	doc.Sections.Financials.Investment.Furniture = 9500
	doc.Sections.Financials.Investment.KitchenEquipment = 22000

	p := patchFromJSON(t, `{"financials":{"investment":{"location":15000}}}`)

	out, err := Apply(doc, p)
	require.NoError(t, err)

	assert.Equal(t, float64(15000), out.Sections.Financials.Investment.Location)
	assert.Equal(t, float64(9500), out.Sections.Financials.Investment.Furniture)
	assert.Equal(t, float64(22000), out.Sections.Financials.Investment.KitchenEquipment)
}

func TestApplyDoesNotMutateInputs(t *testing.T) {
	doc := domain.NewDefaultDocument()
	doc.Sections.Concept.Description = "original"

	p := patchFromJSON(t, `{"concept":{"description":"changed"}}`)

	out, err := Apply(doc, p)
	require.NoError(t, err)

	assert.Equal(t, "original", doc.Sections.Concept.Description)
	assert.Equal(t, "changed", out.Sections.Concept.Description)
	assert.Equal(t, Patch{"concept": map[string]any{"description": "changed"}}, p)
}

func TestApplyReplacesSequencesWholesale(t *testing.T) {
	doc := domain.NewDefaultDocument()
	doc.Sections.Menu.Structure.Starters = []domain.MenuItem{
		{ID: "m-1", Name: "Burrata"},
		{ID: "m-2", Name: "Croquetas"},
	}

	p := patchFromJSON(t, `{"menu":{"structure":{"starters":[{"id":"m-3","name":"Hummus"}]}}}`)

	out, err := Apply(doc, p)
	require.NoError(t, err)

	require.Len(t, out.Sections.Menu.Structure.Starters, 1)
	assert.Equal(t, "m-3", out.Sections.Menu.Structure.Starters[0].ID)
	// sibling lists in the same record are untouched
	assert.Empty(t, out.Sections.Menu.Structure.Mains)
	assert.Equal(t, float64(30), out.Sections.Menu.FoodCostTarget)
}

func TestApplyEmptyPatchIsIdentity(t *testing.T) {
	doc := domain.NewDefaultDocument()
	doc.Sections.Marketing.BrandIdentity.Name = "La Brasa"

	out, err := Apply(doc, Patch{})
	require.NoError(t, err)

	assert.Equal(t, doc.Sections, out.Sections)
}

func TestApplyKeepsAllPhaseKeys(t *testing.T) {
	doc := domain.NewDefaultDocument()
	p := patchFromJSON(t, `{"concept":{"description":"una pizzería"}}`)

	out, err := Apply(doc, p)
	require.NoError(t, err)

	b, err := json.Marshal(out.Sections)
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(b, &m))

	for _, key := range []string{
		"onboarding", "concept", "financials", "location", "legal", "design",
		"menu", "suppliers", "tech", "team", "marketing", "opening", "postOpening",
	} {
		assert.Contains(t, m, key)
	}
	assert.Len(t, m, 13)
}

func TestApplyDropsUnknownKeys(t *testing.T) {
	doc := domain.NewDefaultDocument()
	p := patchFromJSON(t, `{"concept":{"description":"tapas"},"somethingElse":{"x":1}}`)

	out, err := Apply(doc, p)
	require.NoError(t, err)
	assert.Equal(t, "tapas", out.Sections.Concept.Description)
}

func TestApplyMultiplePhasesAtOnce(t *testing.T) {
	doc := domain.NewDefaultDocument()
	p := patchFromJSON(t, `{
		"concept":{"location":{"city":"Madrid","country":"España"}},
		"financials":{"investment":{"total":40000}}
	}`)

	out, err := Apply(doc, p)
	require.NoError(t, err)

	assert.Equal(t, "Madrid", out.Sections.Concept.Location.City)
	assert.Equal(t, "España", out.Sections.Concept.Location.Country)
	assert.Equal(t, float64(40000), out.Sections.Financials.Investment.Total)
	// onboarding untouched
	assert.Equal(t, doc.Sections.Onboarding, out.Sections.Onboarding)
}

func TestApplyNullResetsOptionalField(t *testing.T) {
	doc := domain.NewDefaultDocument()
	form := "SL"
	doc.Sections.Legal.LegalForm = &form

	p := patchFromJSON(t, `{"legal":{"legalForm":null}}`)

	out, err := Apply(doc, p)
	require.NoError(t, err)
	assert.Nil(t, out.Sections.Legal.LegalForm)
}

func TestApplyRejectsTypeMismatch(t *testing.T) {
	doc := domain.NewDefaultDocument()
	doc.Sections.Concept.Description = "keep me"

	p := patchFromJSON(t, `{"financials":{"investment":{"location":"quince mil"}}}`)

	_, err := Apply(doc, p)
	require.ErrorIs(t, err, domain.ErrInvalidPatch)

	// base document untouched
	assert.Equal(t, "keep me", doc.Sections.Concept.Description)
	assert.Zero(t, doc.Sections.Financials.Investment.Location)
}
