// Package documents persists project documents remotely, keyed by document
// id and scoped to their owner. Updates are whole-document last-write-wins.
package documents

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tablero-app/planner-backend/internal/planner/domain"
)

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

// FindLatestByOwner returns the most recently updated document owned by the
// user, or domain.ErrNotFound.
func (r *Repo) FindLatestByOwner(ctx context.Context, ownerID string) (*domain.ProjectDocument, error) {
	const q = `
select id, owner_id, current_phase, sections, chat_history, created_at, updated_at
from project_documents
where owner_id = $1 and deleted_at is null
order by updated_at desc
limit 1;
`
	doc, err := scanDocument(r.db.QueryRow(ctx, q, ownerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	return doc, err
}

// Create persists a new document and returns it with its assigned id.
func (r *Repo) Create(ctx context.Context, doc *domain.ProjectDocument) (*domain.ProjectDocument, error) {
	if doc.OwnerID == domain.SentinelOwnerID {
		return nil, fmt.Errorf("owner required")
	}
	sections, history, err := encodePayload(doc)
	if err != nil {
		return nil, err
	}

	for i := 0; i < 5; i++ {
		publicID, err := NewPublicID("proj")
		if err != nil {
			return nil, err
		}

		const q = `
insert into project_documents (id, owner_id, current_phase, sections, chat_history, updated_at)
values ($1, $2, $3, $4, $5, $6)
returning id, owner_id, current_phase, sections, chat_history, created_at, updated_at;
`
		updatedAt := doc.UpdatedAt
		if updatedAt.IsZero() {
			updatedAt = time.Now().UTC()
		}
		created, err := scanDocument(r.db.QueryRow(ctx, q,
			publicID, doc.OwnerID, string(doc.CurrentPhase), sections, history, updatedAt))
		if err == nil {
			return created, nil
		}

		// unique violation on id → retry with a fresh one
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			continue
		}
		return nil, err
	}

	return nil, fmt.Errorf("failed to generate unique document id")
}

// Update overwrites a document, scoped to its owner. domain.ErrNotFound
// when no live row matches.
func (r *Repo) Update(ctx context.Context, doc *domain.ProjectDocument) error {
	sections, history, err := encodePayload(doc)
	if err != nil {
		return err
	}

	const q = `
update project_documents
set current_phase = $3, sections = $4, chat_history = $5, updated_at = $6
where id = $1 and owner_id = $2 and deleted_at is null;
`
	ct, err := r.db.Exec(ctx, q,
		doc.ID, doc.OwnerID, string(doc.CurrentPhase), sections, history, doc.UpdatedAt)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SoftDelete marks a document deleted without destroying it; the retention
// job purges it later.
func (r *Repo) SoftDelete(ctx context.Context, ownerID, id string) (bool, error) {
	const q = `
update project_documents
set deleted_at = now(), updated_at = now()
where id = $1 and owner_id = $2 and deleted_at is null;
`
	ct, err := r.db.Exec(ctx, q, id, ownerID)
	if err != nil {
		return false, err
	}
	return ct.RowsAffected() > 0, nil
}

func encodePayload(doc *domain.ProjectDocument) ([]byte, []byte, error) {
	sections, err := json.Marshal(doc.Sections)
	if err != nil {
		return nil, nil, fmt.Errorf("encode sections: %w", err)
	}
	history := doc.ChatHistory
	if history == nil {
		history = []domain.ChatMessage{}
	}
	hb, err := json.Marshal(history)
	if err != nil {
		return nil, nil, fmt.Errorf("encode chat history: %w", err)
	}
	return sections, hb, nil
}

func scanDocument(row pgx.Row) (*domain.ProjectDocument, error) {
	var (
		doc      domain.ProjectDocument
		phase    string
		sections []byte
		history  []byte
	)
	if err := row.Scan(&doc.ID, &doc.OwnerID, &phase, &sections, &history, &doc.CreatedAt, &doc.UpdatedAt); err != nil {
		return nil, err
	}
	doc.CurrentPhase = domain.Phase(phase)
	if err := json.Unmarshal(sections, &doc.Sections); err != nil {
		return nil, fmt.Errorf("decode sections: %w", err)
	}
	if err := json.Unmarshal(history, &doc.ChatHistory); err != nil {
		return nil, fmt.Errorf("decode chat history: %w", err)
	}
	return &doc, nil
}
