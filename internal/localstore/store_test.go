package localstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablero-app/planner-backend/internal/planner/domain"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s := openTestStore(t)

	doc := domain.NewDefaultDocument()
	doc.ID = "proj-12345-6789"
	doc.OwnerID = "u1"
	doc.CurrentPhase = domain.PhaseFinancials
	doc.Sections.Concept.Location.City = "Madrid"
	doc.Sections.Financials.Investment.Total = 40000
	doc.ChatHistory = append(doc.ChatHistory, domain.ChatMessage{
		ID: "m1", Role: "user", Content: "hola", Timestamp: 1700000000000,
	})

	s.Save(doc)

	got := s.Load()
	assert.Equal(t, "proj-12345-6789", got.ID)
	assert.Equal(t, "u1", got.OwnerID)
	assert.Equal(t, domain.PhaseFinancials, got.CurrentPhase)
	assert.Equal(t, "Madrid", got.Sections.Concept.Location.City)
	assert.Equal(t, float64(40000), got.Sections.Financials.Investment.Total)
	require.Len(t, got.ChatHistory, 1)
	assert.Equal(t, "hola", got.ChatHistory[0].Content)
}

func TestLoadEmptyReturnsDefault(t *testing.T) {
	s := openTestStore(t)

	got := s.Load()
	assert.Equal(t, domain.SentinelDocumentID, got.ID)
	assert.Equal(t, domain.PhaseOnboarding, got.CurrentPhase)
}

func TestLoadCorruptPayloadFallsBackToDefault(t *testing.T) {
	s := openTestStore(t)

	_, err := s.db.Exec(
		`INSERT INTO project_cache (key, payload) VALUES (?, ?);`,
		cacheKey, `{"id": "broken", "sections": [1,2,3`,
	)
	require.NoError(t, err)

	got := s.Load()
	assert.Equal(t, domain.SentinelDocumentID, got.ID)
}

func TestLoadSchemaMismatchFallsBackToDefault(t *testing.T) {
	s := openTestStore(t)

	// valid JSON, but not a usable document
	_, err := s.db.Exec(
		`INSERT INTO project_cache (key, payload) VALUES (?, ?);`,
		cacheKey, `{"foo": "bar"}`,
	)
	require.NoError(t, err)

	got := s.Load()
	assert.Equal(t, domain.SentinelDocumentID, got.ID)
	assert.Equal(t, domain.PhaseOnboarding, got.CurrentPhase)
}

func TestSaveOverwritesPreviousDocument(t *testing.T) {
	s := openTestStore(t)

	first := domain.NewDefaultDocument()
	first.Sections.Marketing.BrandIdentity.Name = "Casa Uno"
	s.Save(first)

	second := domain.NewDefaultDocument()
	second.Sections.Marketing.BrandIdentity.Name = "Casa Dos"
	s.Save(second)

	got := s.Load()
	assert.Equal(t, "Casa Dos", got.Sections.Marketing.BrandIdentity.Name)
}

func TestClear(t *testing.T) {
	s := openTestStore(t)

	doc := domain.NewDefaultDocument()
	doc.ID = "proj-1"
	s.Save(doc)
	s.Clear()

	got := s.Load()
	assert.Equal(t, domain.SentinelDocumentID, got.ID)
}
