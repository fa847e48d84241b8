// Package merge combines partial update fragments into the project document
// without clobbering sibling fields.
package merge

import (
	"encoding/json"
	"fmt"

	"github.com/tablero-app/planner-backend/internal/planner/domain"
)

// Patch is an arbitrary partial nested subset of the document sections,
// as decoded from an assistant "updates" payload or a user form edit.
type Patch = map[string]any

// Apply merges patch into the sections of doc and returns a new document.
// doc and patch are never mutated. Rules:
//   - keyed records recurse, preserving base keys the patch does not mention
//   - sequences, primitives and nulls replace wholesale
//   - unknown keys are dropped when the result is decoded back into the schema
//   - a type-mismatched fragment fails with ErrInvalidPatch, doc untouched
//
// The result always carries all phase keys: Sections is a fixed struct, so
// a decode cannot lose a phase.
func Apply(doc *domain.ProjectDocument, patch Patch) (*domain.ProjectDocument, error) {
	out, err := domain.Clone(doc)
	if err != nil {
		return nil, err
	}
	if len(patch) == 0 {
		return out, nil
	}

	base, err := sectionsToMap(out.Sections)
	if err != nil {
		return nil, err
	}

	merged := deepMerge(base, patch)

	b, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("encode merged sections: %w", err)
	}
	var sections domain.Sections
	if err := json.Unmarshal(b, &sections); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidPatch, err)
	}

	out.Sections = sections
	return out, nil
}

func sectionsToMap(s domain.Sections) (map[string]any, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("encode sections: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("decode sections: %w", err)
	}
	return m, nil
}

// deepMerge returns a new map combining src into dst. Keys only in dst are
// preserved; keyed records recurse; everything else is replaced with the
// src value. Sequences are deliberately overwritten wholesale, never spliced.
func deepMerge(dst, src map[string]any) map[string]any {
	out := make(map[string]any, len(dst)+len(src))
	for k, v := range dst {
		out[k] = v
	}
	for k, sv := range src {
		dv, exists := out[k]
		sm, sIsMap := sv.(map[string]any)
		dm, dIsMap := dv.(map[string]any)
		if exists && sIsMap && dIsMap {
			out[k] = deepMerge(dm, sm)
			continue
		}
		out[k] = sv
	}
	return out
}
