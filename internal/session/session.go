// Package session owns the single active project document on the client and
// funnels every mutation through the same path: merge, timestamp bump, local
// cache write, sync notification.
package session

import (
	"log"
	"sync"
	"time"

	"github.com/tablero-app/planner-backend/internal/localstore"
	"github.com/tablero-app/planner-backend/internal/planner/domain"
	"github.com/tablero-app/planner-backend/internal/planner/merge"
)

// WelcomeMessage seeds an empty conversation.
const WelcomeMessage = "¡Hola! Soy tu consultor virtual. Cuéntame, ¿qué idea tienes en mente para tu restaurante?"

// Session holds the in-memory document and its local cache. It implements
// syncengine.DocumentHolder.
type Session struct {
	mu    sync.Mutex
	doc   *domain.ProjectDocument
	local *localstore.Store

	// OnMutate is invoked after every persisted mutation, outside the
	// session lock. The sync engine hooks its NoteMutation here.
	OnMutate func()
}

// New restores the last-known document from the local cache (or starts from
// defaults) and seeds the welcome message on a brand new conversation.
func New(local *localstore.Store) *Session {
	s := &Session{
		doc:   local.Load(),
		local: local,
	}
	if len(s.doc.ChatHistory) == 0 {
		s.doc.ChatHistory = append(s.doc.ChatHistory, domain.ChatMessage{
			ID:        domain.WelcomeMessageID,
			Role:      "assistant",
			Content:   WelcomeMessage,
			Timestamp: time.Now().UnixMilli(),
		})
		local.Save(s.doc)
	}
	return s
}

// Snapshot returns a deep copy of the active document.
func (s *Session) Snapshot() *domain.ProjectDocument {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp, err := domain.Clone(s.doc)
	if err != nil {
		// a document that no longer serializes is unrecoverable state
		log.Printf("[session] snapshot clone failed: %v", err)
		return domain.NewDefaultDocument()
	}
	return cp
}

// Replace adopts a document wholesale (remote load or promotion) and caches
// it locally. Does not count as a user mutation.
func (s *Session) Replace(doc *domain.ProjectDocument) {
	s.mu.Lock()
	s.doc = doc
	s.local.Save(s.doc)
	s.mu.Unlock()
}

// Reset discards the active document for a fresh default one. Used on
// sign-out and on ownership conflicts.
func (s *Session) Reset() {
	s.mu.Lock()
	s.doc = domain.NewDefaultDocument()
	s.local.Clear()
	s.local.Save(s.doc)
	s.mu.Unlock()
}

// ApplyPatch merges an updates fragment into the document. On schema
// mismatch the document is left untouched and the error returned.
func (s *Session) ApplyPatch(patch merge.Patch) error {
	s.mu.Lock()
	merged, err := merge.Apply(s.doc, patch)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	s.doc = merged
	s.touchLocked()
	s.local.Save(s.doc)
	s.mu.Unlock()

	s.notifyMutate()
	return nil
}

// AddChatMessage appends a message to the conversation log. Entries are
// append-only and deduplicated by id.
func (s *Session) AddChatMessage(msg domain.ChatMessage) {
	s.mu.Lock()
	for _, m := range s.doc.ChatHistory {
		if m.ID == msg.ID {
			s.mu.Unlock()
			return
		}
	}
	if msg.Timestamp == 0 {
		msg.Timestamp = time.Now().UnixMilli()
	}
	s.doc.ChatHistory = append(s.doc.ChatHistory, msg)
	s.touchLocked()
	s.local.Save(s.doc)
	s.mu.Unlock()

	s.notifyMutate()
}

// SetPhase replaces the current phase directly (navigation is not merged).
func (s *Session) SetPhase(p domain.Phase) {
	if !p.IsValid() {
		return
	}
	s.mu.Lock()
	if s.doc.CurrentPhase == p {
		s.mu.Unlock()
		return
	}
	s.doc.CurrentPhase = p
	s.touchLocked()
	s.local.Save(s.doc)
	s.mu.Unlock()

	s.notifyMutate()
}

// History returns a copy of the conversation log.
func (s *Session) History() []domain.ChatMessage {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ChatMessage, len(s.doc.ChatHistory))
	copy(out, s.doc.ChatHistory)
	return out
}

// CurrentPhase returns the active phase.
func (s *Session) CurrentPhase() domain.Phase {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.doc.CurrentPhase
}

// touchLocked advances UpdatedAt, strictly monotonically: conflict
// resolution between local and remote copies relies on it.
func (s *Session) touchLocked() {
	now := time.Now()
	if !now.After(s.doc.UpdatedAt) {
		now = s.doc.UpdatedAt.Add(time.Millisecond)
	}
	s.doc.UpdatedAt = now
}

func (s *Session) notifyMutate() {
	if s.OnMutate != nil {
		s.OnMutate()
	}
}
