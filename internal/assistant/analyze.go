package assistant

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tablero-app/planner-backend/internal/planner/domain"
)

// Analysis modes: financial parameter estimation, concept critique, or both.
const (
	ModeFinancials  = "financials"
	ModeSuggestions = "suggestions"
	ModeBoth        = "both"
)

// ConceptAnalysis is the estimate the model produces for a concept.
type ConceptAnalysis struct {
	AverageTicket   float64  `json:"averageTicket,omitempty"`
	Capacity        int      `json:"capacity,omitempty"`
	RotationsLunch  float64  `json:"rotationsLunch,omitempty"`
	RotationsDinner float64  `json:"rotationsDinner,omitempty"`
	DaysOpen        int      `json:"daysOpen,omitempty"`
	Staff           int      `json:"staff,omitempty"`
	Rent            float64  `json:"rent,omitempty"`
	Utilities       float64  `json:"utilities,omitempty"`
	Suggestions     []string `json:"suggestions,omitempty"`
	Analysis        string   `json:"analysis,omitempty"`
}

// AnalyzeConcept asks the model for financial estimates and/or suggestions
// for a concept description. Fencing is stripped before parsing; a
// non-JSON reply fails with ErrMalformedResponse.
func AnalyzeConcept(ctx context.Context, client *Client, description, city, mode string) (*ConceptAnalysis, error) {
	if description == "" {
		return nil, fmt.Errorf("description required")
	}
	if city == "" {
		city = "España"
	}

	var prompt string
	switch mode {
	case ModeFinancials:
		prompt = fmt.Sprintf(`Actúa como un consultor financiero de restaurantes.
Basado en: %q en %q, estima los parámetros financieros.
Devuelve SOLO un JSON con:
{"averageTicket": number, "capacity": number, "rotationsLunch": number, "rotationsDinner": number, "daysOpen": number, "staff": number, "rent": number, "utilities": number}`, description, city)
	case ModeSuggestions:
		prompt = fmt.Sprintf(`Actúa como un crítico y consultor gastronómico.
Analiza este concepto: %q en %q.
Devuelve SOLO un JSON con:
{"suggestions": ["sugerencia 1 (breve)", "sugerencia 2 (breve)", "sugerencia 3 (breve)"], "analysis": "Un breve párrafo de análisis general"}`, description, city)
	default:
		prompt = fmt.Sprintf(`Actúa como un consultor experto.
Concepto: %q en %q.
Devuelve SOLO un JSON con:
{"averageTicket": number, "capacity": number, "rotationsLunch": number, "rotationsDinner": number, "daysOpen": number, "staff": number, "rent": number, "utilities": number, "suggestions": ["sugerencia 1", "sugerencia 2"], "analysis": "Análisis breve"}`, description, city)
	}

	raw, err := client.Generate(ctx, []ChatMessage{{Role: "user", Content: prompt}})
	if err != nil {
		return nil, fmt.Errorf("analyze concept: %w", err)
	}

	var out ConceptAnalysis
	if err := json.Unmarshal([]byte(StripFences(raw)), &out); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	return &out, nil
}
