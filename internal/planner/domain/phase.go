package domain

// Phase is one of the fixed stages of the restaurant-planning journey.
// Each phase owns a disjoint slice of the project document.
type Phase string

const (
	PhaseOnboarding  Phase = "ONBOARDING"
	PhaseConcept     Phase = "CONCEPT"
	PhaseFinancials  Phase = "FINANCIALS"
	PhaseLocation    Phase = "LOCATION"
	PhaseLegal       Phase = "LEGAL"
	PhaseDesign      Phase = "DESIGN"
	PhaseMenu        Phase = "MENU"
	PhaseSuppliers   Phase = "SUPPLIERS"
	PhaseTech        Phase = "TECH"
	PhaseTeam        Phase = "TEAM"
	PhaseMarketing   Phase = "MARKETING"
	PhaseOpening     Phase = "OPENING"
	PhasePostOpening Phase = "POST_OPENING"
)

// AllPhases lists every phase in journey order.
var AllPhases = []Phase{
	PhaseOnboarding,
	PhaseConcept,
	PhaseFinancials,
	PhaseLocation,
	PhaseLegal,
	PhaseDesign,
	PhaseMenu,
	PhaseSuppliers,
	PhaseTech,
	PhaseTeam,
	PhaseMarketing,
	PhaseOpening,
	PhasePostOpening,
}

// IsValid reports whether p is one of the known phases.
func (p Phase) IsValid() bool {
	for _, v := range AllPhases {
		if p == v {
			return true
		}
	}
	return false
}
