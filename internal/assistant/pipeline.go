package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/tablero-app/planner-backend/internal/planner/domain"
)

// ErrBusy means a previous message is still in flight for this conversation.
// Requests are stateless and rely on the caller supplying ordered history;
// interleaving them could merge patches computed against a stale document.
var ErrBusy = errors.New("assistant request already in flight")

// Turn is the outcome of one conversational exchange.
type Turn struct {
	Reply            Reply
	AssistantMessage domain.ChatMessage
}

// Responder produces one validated reply for a conversational turn. The
// gateway Client implements it directly; the interactive client wraps its
// API client so turns go through the same pipeline.
type Responder interface {
	Respond(ctx context.Context, history []domain.ChatMessage, phase domain.Phase, doc *domain.ProjectDocument) (*Reply, error)
}

// Pipeline sends each user message, with full context, to a Responder and
// packages the validated response. One in-flight request per conversation;
// further submissions are rejected, not interleaved.
type Pipeline struct {
	responder Responder
	inFlight  atomic.Bool
	nextID    func() string
}

// NewPipeline builds a pipeline over the given responder. newID generates
// chat message ids (uuid in production, fixed in tests).
func NewPipeline(r Responder, newID func() string) *Pipeline {
	return &Pipeline{responder: r, nextID: newID}
}

// Advance processes the newest user message. history must already include
// it as its last entry. On any error the document is untouched; callers
// surface FallbackMessage for ErrMalformedResponse.
func (p *Pipeline) Advance(ctx context.Context, history []domain.ChatMessage, phase domain.Phase, doc *domain.ProjectDocument) (*Turn, error) {
	if !p.inFlight.CompareAndSwap(false, true) {
		return nil, ErrBusy
	}
	defer p.inFlight.Store(false)

	reply, err := p.responder.Respond(ctx, history, phase, doc)
	if err != nil {
		return nil, err
	}

	return &Turn{
		Reply: *reply,
		AssistantMessage: domain.ChatMessage{
			ID:        p.nextID(),
			Role:      "assistant",
			Content:   reply.Message,
			Timestamp: time.Now().UnixMilli(),
		},
	}, nil
}

// Respond implements Responder against the inference gateway.
func (c *Client) Respond(ctx context.Context, history []domain.ChatMessage, phase domain.Phase, doc *domain.ProjectDocument) (*Reply, error) {
	return Respond(ctx, c, history, phase, doc)
}

// Respond performs one stateless exchange against the inference backend:
// build the message stack, generate, validate. Safe for concurrent use.
func Respond(ctx context.Context, client *Client, history []domain.ChatMessage, phase domain.Phase, doc *domain.ProjectDocument) (*Reply, error) {
	messages, err := buildMessages(history, phase, doc)
	if err != nil {
		return nil, err
	}

	raw, err := client.Generate(ctx, messages)
	if err != nil {
		return nil, fmt.Errorf("assistant generate: %w", err)
	}

	return ParseReply(raw)
}

// buildMessages assembles the gateway message stack: system prompt, prior
// conversation, then the newest user message wrapped with the current phase
// and a serialized snapshot of the document sections.
func buildMessages(history []domain.ChatMessage, phase domain.Phase, doc *domain.ProjectDocument) ([]ChatMessage, error) {
	if len(history) == 0 {
		return nil, fmt.Errorf("empty conversation history")
	}
	last := history[len(history)-1]
	if last.Role != "user" {
		return nil, fmt.Errorf("last history entry must be the user message, got role %q", last.Role)
	}

	state, err := json.Marshal(doc.Sections)
	if err != nil {
		return nil, fmt.Errorf("serialize document: %w", err)
	}

	messages := make([]ChatMessage, 0, len(history)+1)
	messages = append(messages, ChatMessage{Role: "system", Content: systemPrompt})
	for _, m := range history[:len(history)-1] {
		role := m.Role
		if role != "user" && role != "assistant" {
			continue
		}
		messages = append(messages, ChatMessage{Role: role, Content: m.Content})
	}

	messages = append(messages, ChatMessage{
		Role: "user",
		Content: fmt.Sprintf("Fase actual: %s\nEstado actual del proyecto (JSON): %s\n\nUsuario dice: %q",
			phase, state, last.Content),
	})
	return messages, nil
}
