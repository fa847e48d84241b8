package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// NewDefaultDocument builds a structurally complete document with every phase
// key present and every required leaf initialized to its zero-equivalent.
// Fresh sessions start here; ownership conflicts and sign-outs reset to here.
func NewDefaultDocument() *ProjectDocument {
	now := time.Now().UTC()
	return &ProjectDocument{
		ID:           SentinelDocumentID,
		OwnerID:      SentinelOwnerID,
		CurrentPhase: PhaseOnboarding,
		CreatedAt:    now,
		UpdatedAt:    now,
		Sections:     defaultSections(),
		ChatHistory:  []ChatMessage{},
	}
}

func defaultSections() Sections {
	return Sections{
		Onboarding: OnboardingData{},
		Concept: ConceptData{
			AISuggestions: []string{},
			Competitors:   []CompetitorAnalysis{},
			Viability: Viability{
				MonthlyOpenDays: 26,
				ViabilityStatus: "UNKNOWN",
			},
		},
		Financials: FinancialData{},
		Location: LocationData{
			Status:          "SEARCHING",
			Candidates:      []CandidateLocation{},
			SearchChecklist: []ChecklistItem{},
		},
		Legal: LegalData{
			Licenses: []LicenseTask{},
		},
		Design: DesignData{
			FloorPlan:            []Floor{},
			EquipmentChecklist:   []EquipmentItem{},
			ConstructionTimeline: []ConstructionTask{},
		},
		Menu: MenuData{
			Structure: MenuStructure{
				Starters: []MenuItem{},
				Mains:    []MenuItem{},
				Desserts: []MenuItem{},
				Drinks:   []MenuItem{},
			},
			FoodCostTarget: 30,
		},
		Suppliers: SuppliersData{
			List: []Supplier{},
		},
		Tech: TechData{
			POS:         ToolSelection{Status: "PENDING"},
			Reservation: ToolSelection{Status: "PENDING"},
		},
		Team: TeamData{
			Employees: []Employee{},
			Shifts:    []Shift{},
		},
		Marketing: MarketingData{
			BrandIdentity: BrandIdentity{
				Colors: []string{},
			},
			DigitalPresence: []ChecklistItem{},
			LaunchStrategy:  []ChecklistItem{},
			SocialMediaPlan: []SocialMediaRow{},
		},
		Opening: OpeningData{
			FinalChecklist: []ChecklistItem{},
		},
		PostOpening: PostOpeningData{
			WeeklyMetrics: []WeeklyMetric{},
		},
	}
}

// WelcomeMessageID marks the canned greeting seeded into an empty
// conversation. It does not count as user content.
const WelcomeMessageID = "welcome"

// IsPristine reports whether the document has never been touched: sentinel
// id, no conversation beyond the greeting, first phase, and sections equal
// to the defaults.
func IsPristine(d *ProjectDocument) bool {
	if !d.IsDefault() || d.CurrentPhase != PhaseOnboarding {
		return false
	}
	for _, m := range d.ChatHistory {
		if m.ID != WelcomeMessageID {
			return false
		}
	}
	got, err := json.Marshal(d.Sections)
	if err != nil {
		return false
	}
	want, err := json.Marshal(defaultSections())
	if err != nil {
		return false
	}
	return bytes.Equal(got, want)
}

// Clone returns a deep copy of the document via a JSON round trip.
func Clone(d *ProjectDocument) (*ProjectDocument, error) {
	b, err := json.Marshal(d)
	if err != nil {
		return nil, fmt.Errorf("clone marshal: %w", err)
	}
	var out ProjectDocument
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("clone unmarshal: %w", err)
	}
	return &out, nil
}
