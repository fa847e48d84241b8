package session

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablero-app/planner-backend/internal/localstore"
	"github.com/tablero-app/planner-backend/internal/planner/domain"
	"github.com/tablero-app/planner-backend/internal/planner/merge"
)

func newTestSession(t *testing.T) (*Session, *localstore.Store) {
	t.Helper()
	store, err := localstore.Open(filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return New(store), store
}

func TestNewSeedsWelcomeMessage(t *testing.T) {
	s, _ := newTestSession(t)

	history := s.History()
	require.Len(t, history, 1)
	assert.Equal(t, domain.WelcomeMessageID, history[0].ID)
	assert.Equal(t, "assistant", history[0].Role)
	assert.Equal(t, WelcomeMessage, history[0].Content)
}

func TestApplyPatchPersistsAndNotifies(t *testing.T) {
	s, store := newTestSession(t)

	notified := 0
	s.OnMutate = func() { notified++ }

	patch := merge.Patch{
		"concept": map[string]any{
			"location": map[string]any{"city": "Sevilla"},
		},
	}
	require.NoError(t, s.ApplyPatch(patch))
	assert.Equal(t, 1, notified)

	// survives a reload from the cache
	reloaded := store.Load()
	assert.Equal(t, "Sevilla", reloaded.Sections.Concept.Location.City)
}

func TestApplyPatchRejectionLeavesDocumentUntouched(t *testing.T) {
	s, _ := newTestSession(t)

	before := s.Snapshot()

	notified := false
	s.OnMutate = func() { notified = true }

	err := s.ApplyPatch(merge.Patch{"concept": "not an object"})
	require.Error(t, err)
	assert.False(t, notified)

	after := s.Snapshot()
	assert.Equal(t, before.Sections, after.Sections)
	assert.Equal(t, before.UpdatedAt, after.UpdatedAt)
}

func TestAddChatMessageDeduplicatesByID(t *testing.T) {
	s, _ := newTestSession(t)

	msg := domain.ChatMessage{ID: "m1", Role: "user", Content: "hola"}
	s.AddChatMessage(msg)
	s.AddChatMessage(msg)
	s.AddChatMessage(domain.ChatMessage{ID: "m2", Role: "assistant", Content: "¿en qué te ayudo?"})

	history := s.History()
	require.Len(t, history, 3) // welcome + m1 + m2
	assert.Equal(t, "m1", history[1].ID)
	assert.Equal(t, "m2", history[2].ID)
}

func TestSetPhase(t *testing.T) {
	s, _ := newTestSession(t)

	notified := 0
	s.OnMutate = func() { notified++ }

	s.SetPhase(domain.PhaseFinancials)
	assert.Equal(t, domain.PhaseFinancials, s.CurrentPhase())
	assert.Equal(t, 1, notified)

	// same phase again is a no-op
	s.SetPhase(domain.PhaseFinancials)
	assert.Equal(t, 1, notified)

	// invalid phases are ignored
	s.SetPhase(domain.Phase("KITCHEN"))
	assert.Equal(t, domain.PhaseFinancials, s.CurrentPhase())
}

func TestUpdatedAtStrictlyMonotonic(t *testing.T) {
	s, _ := newTestSession(t)

	var stamps []int64
	for i := 0; i < 5; i++ {
		s.AddChatMessage(domain.ChatMessage{ID: string(rune('a' + i)), Role: "user", Content: "x"})
		stamps = append(stamps, s.Snapshot().UpdatedAt.UnixNano())
	}
	for i := 1; i < len(stamps); i++ {
		assert.Greater(t, stamps[i], stamps[i-1])
	}
}

func TestResetRestoresDefaults(t *testing.T) {
	s, store := newTestSession(t)

	require.NoError(t, s.ApplyPatch(merge.Patch{
		"concept": map[string]any{"description": "ramen bar"},
	}))
	s.Reset()

	doc := s.Snapshot()
	assert.True(t, doc.IsDefault())
	assert.Empty(t, doc.Sections.Concept.Description)

	reloaded := store.Load()
	assert.Empty(t, reloaded.Sections.Concept.Description)
}

func TestSnapshotIsACopy(t *testing.T) {
	s, _ := newTestSession(t)

	snap := s.Snapshot()
	snap.Sections.Concept.Description = "mutated"

	assert.Empty(t, s.Snapshot().Sections.Concept.Description)
}
