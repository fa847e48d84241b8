// Command planner is the interactive client: it keeps the project document
// in a local cache, talks to the assistant through the API server, and
// syncs the document to the account once signed in.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/tablero-app/planner-backend/config"
	"github.com/tablero-app/planner-backend/internal/assistant"
	"github.com/tablero-app/planner-backend/internal/localstore"
	"github.com/tablero-app/planner-backend/internal/planner/domain"
	"github.com/tablero-app/planner-backend/internal/remote"
	"github.com/tablero-app/planner-backend/internal/session"
	"github.com/tablero-app/planner-backend/internal/syncengine"
)

type app struct {
	sess   *session.Session
	engine *syncengine.Engine
	client *remote.Client
	turnc  *turnClient
	turns  *assistant.Pipeline
	token  atomic.Value // string
}

// turnClient adapts the API client to the assistant turn pipeline and
// remembers the server-reported daily quota.
type turnClient struct {
	client    *remote.Client
	remaining atomic.Int64
}

func (tc *turnClient) Respond(ctx context.Context, history []domain.ChatMessage, phase domain.Phase, doc *domain.ProjectDocument) (*assistant.Reply, error) {
	doc.ChatHistory = history
	doc.CurrentPhase = phase
	res, err := tc.client.Chat(ctx, doc)
	if err != nil {
		return nil, err
	}
	tc.remaining.Store(res.Remaining)
	return &assistant.Reply{Message: res.Message, Updates: res.Updates, NavigateTo: res.NavigateTo}, nil
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	local, err := localstore.Open(cfg.Sync.CachePath)
	if err != nil {
		log.Fatalf("local cache: %v", err)
	}
	defer local.Close()

	a := &app{sess: session.New(local)}
	a.token.Store("")

	a.client = remote.NewClient(cfg.Sync.ServerURL, func(context.Context) (string, error) {
		return a.token.Load().(string), nil
	})
	a.turnc = &turnClient{client: a.client}
	a.turns = assistant.NewPipeline(a.turnc, uuid.NewString)
	a.engine = syncengine.New(a.client, a.sess, cfg.Sync.DebounceInterval)
	a.sess.OnMutate = a.engine.NoteMutation

	for _, m := range a.sess.History() {
		printMessage(m)
	}
	fmt.Println(`Escribe tu mensaje, o /help para ver los comandos.`)

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for {
		fmt.Printf("[%s] > ", a.sess.CurrentPhase())
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "/") {
			if !a.handleCommand(line) {
				break
			}
			continue
		}
		a.chat(line)
	}

	flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := a.engine.Flush(flushCtx); err != nil {
		log.Printf("final sync failed: %v", err)
	}
}

// handleCommand returns false when the loop should exit.
func (a *app) handleCommand(line string) bool {
	fields := strings.Fields(line)
	cmd, args := fields[0], fields[1:]

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	switch cmd {
	case "/help":
		fmt.Println(`/login <uid> <token>  iniciar sesión y sincronizar
/logout               cerrar sesión (la copia local se restablece)
/phase <FASE>         cambiar de fase
/show                 ver el estado del proyecto
/viability            calcular la viabilidad del concepto
/analyze <texto>      analizar un concepto
/status               estado de la sincronización
/sync                 forzar una sincronización
/quit                 salir`)

	case "/login":
		if len(args) < 2 {
			fmt.Println("uso: /login <uid> <token>")
			return true
		}
		a.token.Store(args[1])
		if err := a.engine.HandleSignIn(ctx, args[0]); err != nil {
			fmt.Printf("error al sincronizar: %v\n", err)
			return true
		}
		fmt.Println("sesión iniciada")

	case "/logout":
		a.engine.HandleSignOut()
		a.token.Store("")
		fmt.Println("sesión cerrada")

	case "/phase":
		if len(args) != 1 {
			fmt.Println("uso: /phase <FASE>")
			return true
		}
		p := domain.Phase(strings.ToUpper(args[0]))
		if !p.IsValid() {
			fmt.Printf("fase desconocida; opciones: %v\n", domain.AllPhases)
			return true
		}
		a.sess.SetPhase(p)

	case "/show":
		doc := a.sess.Snapshot()
		out, err := json.MarshalIndent(doc.Sections, "", "  ")
		if err != nil {
			fmt.Printf("error: %v\n", err)
			return true
		}
		fmt.Println(string(out))

	case "/viability":
		doc := a.sess.Snapshot()
		v := domain.ComputeViability(doc.Sections.Concept.Viability)
		fmt.Printf("estado: %s\npunto de equilibrio: %.0f cubiertos/mes\ningreso mínimo: %.2f €/mes\n",
			v.ViabilityStatus, v.BreakEvenPoint, v.MinMonthlyRevenue)

	case "/analyze":
		if len(args) == 0 {
			fmt.Println("uso: /analyze <descripción del concepto>")
			return true
		}
		doc := a.sess.Snapshot()
		res, err := a.client.AnalyzeConcept(ctx, strings.Join(args, " "), doc.Sections.Concept.Location.City, "both")
		if err != nil {
			fmt.Printf("error: %v\n", err)
			return true
		}
		if res.Analysis != "" {
			fmt.Println(res.Analysis)
		}
		for _, s := range res.Suggestions {
			fmt.Printf("  - %s\n", s)
		}

	case "/status":
		st := a.engine.Status()
		fmt.Printf("estado: %s", st.State)
		if st.UserID != "" {
			fmt.Printf(" usuario: %s", st.UserID)
		}
		if !st.LastSyncedAt.IsZero() {
			fmt.Printf(" última sincronización: %s", st.LastSyncedAt.Format(time.RFC3339))
		}
		if st.LastError != nil {
			fmt.Printf(" error: %v", st.LastError)
		}
		fmt.Println()

	case "/sync":
		if err := a.engine.Flush(ctx); err != nil {
			fmt.Printf("error: %v\n", err)
			return true
		}
		fmt.Println("sincronizado")

	case "/quit", "/exit":
		return false

	default:
		fmt.Printf("comando desconocido: %s\n", cmd)
	}
	return true
}

func (a *app) chat(text string) {
	a.sess.AddChatMessage(domain.ChatMessage{
		ID:        uuid.NewString(),
		Role:      "user",
		Content:   text,
		Timestamp: time.Now().UnixMilli(),
	})

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Second)
	defer cancel()

	snap := a.sess.Snapshot()
	turn, err := a.turns.Advance(ctx, snap.ChatHistory, snap.CurrentPhase, snap)
	if errors.Is(err, assistant.ErrBusy) {
		fmt.Println("Espera la respuesta anterior antes de enviar otro mensaje.")
		return
	}
	if errors.Is(err, domain.ErrQuotaExceeded) {
		fmt.Println("Has alcanzado el límite diario de mensajes. Vuelve mañana.")
		return
	}
	if err != nil {
		fmt.Printf("error: %v\n", err)
		return
	}

	a.sess.AddChatMessage(turn.AssistantMessage)

	if len(turn.Reply.Updates) > 0 {
		if err := a.sess.ApplyPatch(turn.Reply.Updates); err != nil {
			log.Printf("discarding incompatible update: %v", err)
		}
	}
	if turn.Reply.NavigateTo != nil {
		a.sess.SetPhase(*turn.Reply.NavigateTo)
		fmt.Printf("→ fase %s\n", *turn.Reply.NavigateTo)
	}

	fmt.Println(turn.Reply.Message)
	if rem := a.turnc.remaining.Load(); rem >= 0 {
		fmt.Printf("(%d mensajes restantes hoy)\n", rem)
	}
}

func printMessage(m domain.ChatMessage) {
	prefix := "tú"
	if m.Role == "assistant" {
		prefix = "asistente"
	}
	fmt.Printf("%s: %s\n", prefix, m.Content)
}
