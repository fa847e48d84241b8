package chat

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablero-app/planner-backend/internal/assistant"
	"github.com/tablero-app/planner-backend/internal/auth"
	"github.com/tablero-app/planner-backend/internal/planner/domain"
	"github.com/tablero-app/planner-backend/internal/quota"
)

// fake inference gateway returning a fixed body
func newGateway(t *testing.T, content string) *assistant.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{"content": content})
	}))
	t.Cleanup(srv.Close)
	return assistant.NewClient(srv.URL, "test-model", "")
}

func newRouter(t *testing.T, client *assistant.Client, limit int64) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	r := gin.New()
	api := r.Group("/api/v1")
	api.Use(auth.DevUser())
	Register(api, client, quota.NewLimiter(rdb, limit))
	return r
}

func postChat(t *testing.T, r *gin.Engine, doc *domain.ProjectDocument) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(map[string]any{"document": doc})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func docWithUserMessage(text string) *domain.ProjectDocument {
	doc := domain.NewDefaultDocument()
	doc.ChatHistory = append(doc.ChatHistory, domain.ChatMessage{ID: "m1", Role: "user", Content: text})
	return doc
}

func TestChatReturnsReplyAndUpdates(t *testing.T) {
	reply := `{"message": "¡Buena idea!", "updates": {"concept": {"location": {"city": "Madrid"}}}, "navigate_to": "CONCEPT"}`
	r := newRouter(t, newGateway(t, reply), 50)

	w := postChat(t, r, docWithUserMessage("quiero abrir una pizzería en Madrid"))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Message    string         `json:"message"`
		Updates    map[string]any `json:"updates"`
		NavigateTo *domain.Phase  `json:"navigate_to"`
		Remaining  int64          `json:"remaining"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

	assert.Equal(t, "¡Buena idea!", resp.Message)
	require.NotNil(t, resp.NavigateTo)
	assert.Equal(t, domain.PhaseConcept, *resp.NavigateTo)
	assert.Equal(t, int64(49), resp.Remaining)

	concept, ok := resp.Updates["concept"].(map[string]any)
	require.True(t, ok)
	location, ok := concept["location"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Madrid", location["city"])
}

func TestChatDegradesToFallbackOnGarbage(t *testing.T) {
	r := newRouter(t, newGateway(t, "sorry, I can't do JSON today"), 50)

	w := postChat(t, r, docWithUserMessage("hola"))
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Message string         `json:"message"`
		Updates map[string]any `json:"updates"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, assistant.FallbackMessage, resp.Message)
	assert.Empty(t, resp.Updates)
}

func TestChatRejectsBadHistory(t *testing.T) {
	r := newRouter(t, newGateway(t, "{}"), 50)

	// no history at all
	w := postChat(t, r, domain.NewDefaultDocument())
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// history ends with the assistant
	doc := domain.NewDefaultDocument()
	doc.ChatHistory = []domain.ChatMessage{{ID: "a1", Role: "assistant", Content: "hola"}}
	w = postChat(t, r, doc)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestChatEnforcesDailyQuota(t *testing.T) {
	reply := `{"message": "ok"}`
	r := newRouter(t, newGateway(t, reply), 2)

	doc := docWithUserMessage("hola")
	assert.Equal(t, http.StatusOK, postChat(t, r, doc).Code)
	assert.Equal(t, http.StatusOK, postChat(t, r, doc).Code)
	assert.Equal(t, http.StatusTooManyRequests, postChat(t, r, doc).Code)
}

func TestAnalyzeConcept(t *testing.T) {
	reply := "```json\n{\"averageTicket\": 22, \"capacity\": 45, \"suggestions\": [\"usa producto local\"]}\n```"
	r := newRouter(t, newGateway(t, reply), 50)

	body := []byte(`{"description": "taquería moderna", "city": "Valencia", "mode": "both"}`)
	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze-concept", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Analysis assistant.ConceptAnalysis `json:"analysis"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, float64(22), resp.Analysis.AverageTicket)
	assert.Equal(t, 45, resp.Analysis.Capacity)
	assert.Equal(t, []string{"usa producto local"}, resp.Analysis.Suggestions)
}

func TestAnalyzeConceptRequiresDescription(t *testing.T) {
	r := newRouter(t, newGateway(t, "{}"), 50)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze-concept", bytes.NewReader([]byte(`{"city": "Bilbao"}`)))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
