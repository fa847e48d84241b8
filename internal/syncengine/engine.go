// Package syncengine keeps the in-memory project document, the local cache
// and the remote record eventually consistent. It owns the per-session state
// machine: load-time reconciliation on sign-in, debounced serialized pushes
// on mutation, and ownership-transfer safety checks.
package syncengine

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/tablero-app/planner-backend/internal/planner/domain"
)

// State of the engine for the current authenticated session.
type State string

const (
	StateUnloaded State = "UNLOADED"
	StateLoading  State = "LOADING"
	StateSynced   State = "SYNCED"
	StateDirty    State = "DIRTY"
)

// RemoteStore is the remote persistence collaborator, keyed by document id.
// Update is whole-document last-write-wins.
type RemoteStore interface {
	// FindLatestByOwner returns the most recently updated document owned by
	// the user, or domain.ErrNotFound.
	FindLatestByOwner(ctx context.Context, ownerID string) (*domain.ProjectDocument, error)
	// Create persists a new record and returns it with a real id and owner.
	Create(ctx context.Context, doc *domain.ProjectDocument) (*domain.ProjectDocument, error)
	// Update overwrites the record with the given document.
	Update(ctx context.Context, doc *domain.ProjectDocument) error
}

// DocumentHolder is the engine's handle on the active in-memory document.
// Snapshot returns a copy safe to push; Replace adopts a remote document
// wholesale; Reset restores the default document.
type DocumentHolder interface {
	Snapshot() *domain.ProjectDocument
	Replace(doc *domain.ProjectDocument)
	Reset()
}

// Status is the non-fatal sync indicator surfaced to the UI.
type Status struct {
	State        State
	UserID       string
	Saving       bool
	LastSyncedAt time.Time
	LastError    error
}

// Engine drives synchronization for a single active document.
type Engine struct {
	store    RemoteStore
	docs     DocumentHolder
	debounce time.Duration

	mu           sync.Mutex
	state        State
	userID       string
	generation   uint64 // bumped on every identity transition; stale work is discarded
	timer        *time.Timer
	pushing      bool
	lastSyncedAt time.Time
	lastErr      error
}

// New builds an engine in the UNLOADED state.
func New(store RemoteStore, docs DocumentHolder, debounce time.Duration) *Engine {
	if debounce <= 0 {
		debounce = 2 * time.Second
	}
	return &Engine{
		store:    store,
		docs:     docs,
		debounce: debounce,
		state:    StateUnloaded,
	}
}

// HandleSignIn runs the load-time reconciliation for the newly authenticated
// user. Re-entrant calls for the same user while a load is in flight are
// ignored; a different user cancels the previous load.
func (e *Engine) HandleSignIn(ctx context.Context, userID string) error {
	if userID == "" {
		return fmt.Errorf("sign-in without a user id")
	}

	e.mu.Lock()
	if e.state == StateLoading && e.userID == userID {
		e.mu.Unlock()
		return nil
	}
	e.generation++
	gen := e.generation
	e.userID = userID
	e.state = StateLoading
	e.lastErr = nil

	// A cached document owned by someone else must never be shown or
	// pushed under the new identity.
	if snap := e.docs.Snapshot(); snap.OwnerID != domain.SentinelOwnerID && snap.OwnerID != userID {
		log.Printf("[sync] %v (cached=%s current=%s), resetting", domain.ErrOwnershipConflict, snap.OwnerID, userID)
		e.docs.Reset()
	}
	e.mu.Unlock()

	remote, err := e.store.FindLatestByOwner(ctx, userID)

	e.mu.Lock()
	defer e.mu.Unlock()
	if gen != e.generation {
		// superseded by a newer sign-in or sign-out
		return nil
	}

	switch {
	case err == nil:
		cur := e.docs.Snapshot()
		if isPristine(cur) || remote.UpdatedAt.After(cur.UpdatedAt) {
			e.docs.Replace(remote)
			e.state = StateSynced
			e.lastSyncedAt = time.Now()
			return nil
		}
		// local copy is newer: push it on the next debounce cycle
		e.state = StateDirty
		e.armTimerLocked()
		return nil

	case errors.Is(err, domain.ErrNotFound):
		cur := e.docs.Snapshot()
		if isPristine(cur) {
			// nothing worth persisting yet
			e.state = StateUnloaded
			return nil
		}
		return e.promoteLocked(ctx, gen, cur, userID)

	default:
		e.lastErr = fmt.Errorf("%w: %v", domain.ErrSyncFailure, err)
		if isPristine(e.docs.Snapshot()) {
			e.state = StateUnloaded
		} else {
			e.state = StateDirty
			e.armTimerLocked()
		}
		return e.lastErr
	}
}

// promoteLocked creates a remote record from pre-authentication local
// content and adopts the assigned id and owner. Called with e.mu held;
// releases it around the network call.
func (e *Engine) promoteLocked(ctx context.Context, gen uint64, cur *domain.ProjectDocument, userID string) error {
	cur.OwnerID = userID
	e.mu.Unlock()
	created, err := e.store.Create(ctx, cur)
	e.mu.Lock()

	if gen != e.generation {
		return nil
	}
	if err != nil {
		e.lastErr = fmt.Errorf("%w: %v", domain.ErrSyncFailure, err)
		e.state = StateDirty
		e.armTimerLocked()
		return e.lastErr
	}
	e.docs.Replace(created)
	e.state = StateSynced
	e.lastSyncedAt = time.Now()
	return nil
}

// HandleSignOut discards the session: the document resets to defaults and
// any in-flight load or scheduled push is abandoned.
func (e *Engine) HandleSignOut() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.generation++
	e.userID = ""
	e.state = StateUnloaded
	e.lastErr = nil
	e.lastSyncedAt = time.Time{}
	if e.timer != nil {
		e.timer.Stop()
		e.timer = nil
	}
	e.docs.Reset()
}

// NoteMutation marks the document dirty and (re)arms the debounce timer.
// Without an authenticated user nothing is ever pushed, so nothing is
// scheduled either.
func (e *Engine) NoteMutation() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.userID == "" {
		return
	}
	e.state = StateDirty
	e.armTimerLocked()
}

// Flush pushes immediately if the engine is dirty, bypassing the debounce.
// Used on shutdown so the last edits are not lost to the quiescence window.
func (e *Engine) Flush(ctx context.Context) error {
	return e.push(ctx)
}

// Status returns a copy of the current sync indicator.
func (e *Engine) Status() Status {
	e.mu.Lock()
	defer e.mu.Unlock()
	return Status{
		State:        e.state,
		UserID:       e.userID,
		Saving:       e.pushing,
		LastSyncedAt: e.lastSyncedAt,
		LastError:    e.lastErr,
	}
}

func (e *Engine) armTimerLocked() {
	if e.timer != nil {
		e.timer.Stop()
	}
	e.timer = time.AfterFunc(e.debounce, func() {
		if err := e.push(context.Background()); err != nil {
			log.Printf("[sync] push failed: %v", err)
		}
	})
}

// push performs one serialized whole-document push. A push already in
// flight wins; anything written meanwhile leaves the document dirty and
// gets a fresh debounce cycle when the in-flight push completes.
func (e *Engine) push(ctx context.Context) error {
	e.mu.Lock()
	if e.userID == "" || e.state != StateDirty || e.pushing {
		e.mu.Unlock()
		return nil
	}
	snap := e.docs.Snapshot()
	gen := e.generation
	userID := e.userID
	e.pushing = true
	e.mu.Unlock()

	// First write under this account promotes the local document to a real
	// remote record; afterwards it's whole-document updates.
	var created *domain.ProjectDocument
	var err error
	if snap.IsDefault() {
		snap.OwnerID = userID
		created, err = e.store.Create(ctx, snap)
	} else {
		err = e.store.Update(ctx, snap)
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.pushing = false
	if gen != e.generation {
		return nil
	}
	if err != nil {
		e.lastErr = fmt.Errorf("%w: %v", domain.ErrSyncFailure, err)
		// stay dirty; retried on the next mutation-triggered debounce
		return e.lastErr
	}
	e.lastErr = nil
	e.lastSyncedAt = time.Now()

	cur := e.docs.Snapshot()
	mutatedMeanwhile := cur.UpdatedAt.After(snap.UpdatedAt)
	if created != nil {
		if mutatedMeanwhile {
			// keep the newest local content, adopt only the assigned identity
			cur.ID = created.ID
			cur.OwnerID = created.OwnerID
			e.docs.Replace(cur)
		} else {
			e.docs.Replace(created)
		}
	}
	if mutatedMeanwhile {
		// that mutation's debounce fired into the pushing guard and was
		// consumed; schedule a fresh cycle for it
		e.state = StateDirty
		e.armTimerLocked()
	} else {
		e.state = StateSynced
	}
	return nil
}

// isPristine reports whether the document carries no user content at all:
// sentinel id, empty conversation, untouched sections.
func isPristine(d *domain.ProjectDocument) bool {
	return domain.IsPristine(d)
}
