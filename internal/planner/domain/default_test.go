package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDefaultDocument(t *testing.T) {
	d := NewDefaultDocument()

	assert.Equal(t, SentinelDocumentID, d.ID)
	assert.Equal(t, SentinelOwnerID, d.OwnerID)
	assert.True(t, d.IsDefault())
	assert.Equal(t, PhaseOnboarding, d.CurrentPhase)
	assert.Empty(t, d.ChatHistory)

	assert.Equal(t, 26, d.Sections.Concept.Viability.MonthlyOpenDays)
	assert.Equal(t, "UNKNOWN", d.Sections.Concept.Viability.ViabilityStatus)
	assert.Equal(t, "SEARCHING", d.Sections.Location.Status)
	assert.Equal(t, float64(30), d.Sections.Menu.FoodCostTarget)
	assert.Equal(t, "PENDING", d.Sections.Tech.POS.Status)
	assert.NotNil(t, d.Sections.Menu.Structure.Starters)
}

func TestIsPristine(t *testing.T) {
	d := NewDefaultDocument()
	assert.True(t, IsPristine(d))

	// the canned greeting doesn't count as content
	d.ChatHistory = append(d.ChatHistory, ChatMessage{ID: WelcomeMessageID, Role: "assistant", Content: "hola"})
	assert.True(t, IsPristine(d))

	t.Run("user message", func(t *testing.T) {
		d, _ := Clone(NewDefaultDocument())
		d.ChatHistory = append(d.ChatHistory, ChatMessage{ID: "m1", Role: "user", Content: "hola"})
		assert.False(t, IsPristine(d))
	})

	t.Run("phase changed", func(t *testing.T) {
		d := NewDefaultDocument()
		d.CurrentPhase = PhaseConcept
		assert.False(t, IsPristine(d))
	})

	t.Run("section edited", func(t *testing.T) {
		d := NewDefaultDocument()
		d.Sections.Concept.Description = "taquería"
		assert.False(t, IsPristine(d))
	})

	t.Run("promoted document", func(t *testing.T) {
		d := NewDefaultDocument()
		d.ID = "proj-12345-6789"
		assert.False(t, IsPristine(d))
	})
}

func TestCloneIsDeep(t *testing.T) {
	d := NewDefaultDocument()
	d.Sections.Concept.AISuggestions = []string{"one"}

	cp, err := Clone(d)
	require.NoError(t, err)

	cp.Sections.Concept.AISuggestions[0] = "changed"
	cp.Sections.Concept.Description = "other"

	assert.Equal(t, "one", d.Sections.Concept.AISuggestions[0])
	assert.Empty(t, d.Sections.Concept.Description)
}

func TestPhaseValidation(t *testing.T) {
	for _, p := range AllPhases {
		assert.True(t, p.IsValid(), p)
	}
	assert.False(t, Phase("KITCHEN").IsValid())
	assert.False(t, Phase("").IsValid())
	assert.Len(t, AllPhases, 13)
}
