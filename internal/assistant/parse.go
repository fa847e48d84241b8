package assistant

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tablero-app/planner-backend/internal/planner/domain"
	"github.com/tablero-app/planner-backend/internal/planner/merge"
)

// Reply is the structured envelope the inference backend is instructed to
// produce: a conversational message, an optional partial-document update,
// and an optional navigation target.
type Reply struct {
	Message    string        `json:"message"`
	Updates    merge.Patch   `json:"updates,omitempty"`
	NavigateTo *domain.Phase `json:"navigate_to,omitempty"`
}

// ParseReply strips any markdown fencing and decodes the envelope. Anything
// that is not the expected JSON object fails with ErrMalformedResponse so
// the caller can show a generic retry message without touching the document.
func ParseReply(raw string) (*Reply, error) {
	text := StripFences(raw)
	if text == "" {
		return nil, fmt.Errorf("%w: empty response", domain.ErrMalformedResponse)
	}

	var reply Reply
	if err := json.Unmarshal([]byte(text), &reply); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	if reply.Message == "" {
		return nil, fmt.Errorf("%w: missing message field", domain.ErrMalformedResponse)
	}
	if reply.NavigateTo != nil && !reply.NavigateTo.IsValid() {
		return nil, fmt.Errorf("%w: unknown phase %q", domain.ErrMalformedResponse, *reply.NavigateTo)
	}
	return &reply, nil
}

// StripFences removes markdown code fencing around a JSON payload. Models
// routinely wrap structured output in ```json blocks despite instructions.
func StripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	if i := strings.LastIndex(s, "```"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}
