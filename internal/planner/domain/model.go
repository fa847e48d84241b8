package domain

import "time"

// Sentinel values for documents that have never been persisted remotely.
const (
	SentinelDocumentID = "default-project"
	SentinelOwnerID    = ""
)

// ProjectDocument is the root aggregate of the planning state: one per user,
// at most one active client-side at a time. It is storage-agnostic and used
// across the sync engine, repositories and HTTP layers.
type ProjectDocument struct {
	ID           string        `json:"id"`
	OwnerID      string        `json:"ownerId"`
	CurrentPhase Phase         `json:"currentPhase"`
	CreatedAt    time.Time     `json:"createdAt"`
	UpdatedAt    time.Time     `json:"updatedAt"`
	Sections     Sections      `json:"sections"`
	ChatHistory  []ChatMessage `json:"chatHistory"`
}

// IsDefault reports whether the document has never been persisted remotely.
func (d *ProjectDocument) IsDefault() bool {
	return d.ID == SentinelDocumentID
}

// ChatMessage is a single entry of the append-only conversation log.
type ChatMessage struct {
	ID        string `json:"id"`
	Role      string `json:"role"` // "user" or "assistant"
	Content   string `json:"content"`
	Timestamp int64  `json:"timestamp"` // unix millis
}

// Sections maps every phase to its typed sub-document. The struct always
// carries all phase keys; merging never removes one.
type Sections struct {
	Onboarding  OnboardingData  `json:"onboarding"`
	Concept     ConceptData     `json:"concept"`
	Financials  FinancialData   `json:"financials"`
	Location    LocationData    `json:"location"`
	Legal       LegalData       `json:"legal"`
	Design      DesignData      `json:"design"`
	Menu        MenuData        `json:"menu"`
	Suppliers   SuppliersData   `json:"suppliers"`
	Tech        TechData        `json:"tech"`
	Team        TeamData        `json:"team"`
	Marketing   MarketingData   `json:"marketing"`
	Opening     OpeningData     `json:"opening"`
	PostOpening PostOpeningData `json:"postOpening"`
}

// OnboardingData captures the initial questionnaire answers.
type OnboardingData struct {
	BusinessType  *string `json:"businessType"` // TRADITIONAL, SPECIALTY, CAFE, TAPAS, FAST_CASUAL, FOOD_TRUCK, DARK_KITCHEN
	LocationCity  string  `json:"locationCity"`
	BudgetRange   *string `json:"budgetRange"` // <30K, 30K-60K, 60K-100K, 100K-200K, >200K, UNKNOWN
	CurrentStatus *string `json:"currentStatus"` // IDEA, PLAN, HAS_LOCATION, LICENSES, CONSTRUCTION
	Completed     bool    `json:"completed"`
}

// ConceptData describes the restaurant idea and its viability numbers.
type ConceptData struct {
	Description   string               `json:"description"`
	Location      ConceptLocation      `json:"location"`
	Style         ConceptStyle         `json:"style"`
	Team          ConceptTeam          `json:"team"`
	AISuggestions []string             `json:"aiSuggestions"`
	Competitors   []CompetitorAnalysis `json:"competitors"`
	Viability     Viability            `json:"viability"`
}

type ConceptLocation struct {
	Country           string  `json:"country"`
	City              string  `json:"city"`
	AreaAverageTicket float64 `json:"areaAverageTicket"`
	HasLocation       bool    `json:"hasLocation"`
	SizeSqM           float64 `json:"sizeSqM"`
}

type ConceptStyle struct {
	Cuisine    string `json:"cuisine"`
	Atmosphere string `json:"atmosphere"`
}

type ConceptTeam struct {
	HasTeam          bool    `json:"hasTeam"`
	KitchenStaff     int     `json:"kitchenStaff"`
	ServiceStaff     int     `json:"serviceStaff"`
	AverageStaffCost float64 `json:"averageStaffCost"`
	Notes            string  `json:"notes"`
}

type CompetitorAnalysis struct {
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	PriceRange string  `json:"priceRange"`
	Rating     float64 `json:"rating"`
}

// Viability holds the break-even inputs plus the derived fields.
type Viability struct {
	AverageTicket     float64        `json:"averageTicket"`
	Capacity          int            `json:"capacity"`
	DailyRotations    DailyRotations `json:"dailyRotations"`
	MonthlyOpenDays   int            `json:"monthlyOpenDays"`
	FixedCosts        FixedCosts     `json:"fixedCosts"`
	BreakEvenPoint    float64        `json:"breakEvenPoint"` // covers per day
	MinMonthlyRevenue float64        `json:"minMonthlyRevenue"`
	ViabilityStatus   string         `json:"viabilityStatus"` // VIABLE, TIGHT, NOT_VIABLE, UNKNOWN
}

type DailyRotations struct {
	Lunch  float64 `json:"lunch"`
	Dinner float64 `json:"dinner"`
}

type FixedCosts struct {
	Rent      float64 `json:"rent"`
	Staff     float64 `json:"staff"`
	Utilities float64 `json:"utilities"`
	Licenses  float64 `json:"licenses"`
	Other     float64 `json:"other"`
}

// FinancialData is the CAPEX view: initial investment and how it is funded.
type FinancialData struct {
	Investment            Investment `json:"investment"`
	Funding               Funding    `json:"funding"`
	BusinessPlanGenerated bool       `json:"businessPlanGenerated"`
}

type Investment struct {
	Location         float64 `json:"location"` // deposit, construction
	KitchenEquipment float64 `json:"kitchenEquipment"`
	Furniture        float64 `json:"furniture"`
	Tech             float64 `json:"tech"`
	InitialStock     float64 `json:"initialStock"`
	Legal            float64 `json:"legal"`
	Marketing        float64 `json:"marketing"`
	OperatingCushion float64 `json:"operatingCushion"`
	Total            float64 `json:"total"`
}

type Funding struct {
	OwnFunds  float64 `json:"ownFunds"`
	Loans     float64 `json:"loans"`
	Investors float64 `json:"investors"`
	Other     float64 `json:"other"`
	Total     float64 `json:"total"`
}

// LocationData tracks the premises search.
type LocationData struct {
	Status              string              `json:"status"` // SEARCHING, SELECTED
	Candidates          []CandidateLocation `json:"candidates"`
	SelectedCandidateID string              `json:"selectedCandidateId,omitempty"`
	SearchChecklist     []ChecklistItem     `json:"searchChecklist"`
}

type CandidateLocation struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Address     string       `json:"address"`
	Coordinates *Coordinates `json:"coordinates,omitempty"`
	Capacity    int          `json:"capacity"`
	MonthlyRent float64      `json:"monthlyRent"`
	IsOwned     bool         `json:"isOwned"`
	Notes       string       `json:"notes"`
	Rating      float64      `json:"rating,omitempty"` // 1-5 stars
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// ChecklistItem is shared by the location, marketing and opening checklists.
type ChecklistItem struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Category string `json:"category"` // MUST, IMPORTANT, NICE_TO_HAVE, GENERAL
	Checked  bool   `json:"checked"`
}

// LegalData tracks the company form and license paperwork.
type LegalData struct {
	LegalForm *string       `json:"legalForm"` // AUTONOMO, SL, CB
	Licenses  []LicenseTask `json:"licenses"`
}

type LicenseTask struct {
	ID            string   `json:"id"`
	Name          string   `json:"name"`
	Description   string   `json:"description,omitempty"`
	Status        string   `json:"status"`   // PENDING, IN_PROGRESS, APPROVED
	Category      string   `json:"category"` // CITY, HEALTH, ADMIN, OTHER
	EstimatedCost float64  `json:"estimatedCost"`
	EstimatedTime string   `json:"estimatedTime"`
	Procedure     string   `json:"procedure,omitempty"`
	Requirements  []string `json:"requirements,omitempty"`
}

// DesignData covers layout, floor plan, equipment and construction work.
type DesignData struct {
	Layout               DesignLayout       `json:"layout"`
	FloorPlan            []Floor            `json:"floorPlan"`
	EquipmentChecklist   []EquipmentItem    `json:"equipmentChecklist"`
	ConstructionTimeline []ConstructionTask `json:"constructionTimeline"`
}

type DesignLayout struct {
	DiningAreaSqM    float64 `json:"diningAreaSqM"`
	KitchenAreaSqM   float64 `json:"kitchenAreaSqM"`
	ToiletsAreaSqM   float64 `json:"toiletsAreaSqM"`
	CapacityEstimate int     `json:"capacityEstimate"`
}

type Floor struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Width     float64    `json:"width"`
	Height    float64    `json:"height"`
	Tables    []Table    `json:"tables"`
	Obstacles []Obstacle `json:"obstacles"`
}

type Table struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Type     string  `json:"type"` // SQUARE, ROUND, RECTANGLE
	Capacity int     `json:"capacity"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation"`
}

type Obstacle struct {
	ID       string  `json:"id"`
	Type     string  `json:"type"` // WALL, COLUMN, DOOR, BAR
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Width    float64 `json:"width"`
	Height   float64 `json:"height"`
	Rotation float64 `json:"rotation"`
}

type EquipmentItem struct {
	ID            string  `json:"id"`
	Name          string  `json:"name"`
	Category      string  `json:"category"` // HOT, COLD, WASHING, STORAGE, SALA
	EstimatedCost float64 `json:"estimatedCost"`
	Purchased     bool    `json:"purchased"`
}

type ConstructionTask struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	StartDate *time.Time `json:"startDate,omitempty"`
	EndDate   *time.Time `json:"endDate,omitempty"`
	Status    string     `json:"status"` // PENDING, IN_PROGRESS, COMPLETED
}

// MenuData holds the card structure with per-item ingredient costing.
type MenuData struct {
	Structure      MenuStructure `json:"structure"`
	FoodCostTarget float64       `json:"foodCostTarget"` // percent
}

type MenuStructure struct {
	Starters []MenuItem `json:"starters"`
	Mains    []MenuItem `json:"mains"`
	Desserts []MenuItem `json:"desserts"`
	Drinks   []MenuItem `json:"drinks"`
}

type MenuItem struct {
	ID           string       `json:"id"`
	Name         string       `json:"name"`
	Description  string       `json:"description"`
	Category     string       `json:"category"` // STARTER, MAIN, DESSERT, DRINK
	Ingredients  []Ingredient `json:"ingredients"`
	CostPrice    float64      `json:"costPrice"` // derived
	SellingPrice float64      `json:"sellingPrice"`
	Margin       float64      `json:"margin"` // derived, percent
}

type Ingredient struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	CostPerUnit float64 `json:"costPerUnit"`
}

// SuppliersData lists providers and the initial stock budget.
type SuppliersData struct {
	List               []Supplier  `json:"list"`
	InitialStockBudget StockBudget `json:"initialStockBudget"`
}

type Supplier struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Category          string   `json:"category"` // INGREDIENTS, FURNITURE, CONSTRUCTION, OTHER
	ContactInfo       string   `json:"contactInfo"`
	Email             string   `json:"email,omitempty"`
	Phone             string   `json:"phone,omitempty"`
	Status            string   `json:"status"` // POTENTIAL, CONTACTED, APPROVED, REJECTED
	Rating            float64  `json:"rating,omitempty"` // 1-5
	DeliveryDays      []string `json:"deliveryDays"`
	AssignedResources []string `json:"assignedResources"`
}

type StockBudget struct {
	Fresh       float64 `json:"fresh"`
	Drinks      float64 `json:"drinks"`
	Consumables float64 `json:"consumables"`
}

// TechData tracks tool selection: point of sale and reservations.
type TechData struct {
	POS         ToolSelection `json:"pos"`
	Reservation ToolSelection `json:"reservation"`
}

type ToolSelection struct {
	Selected *string `json:"selected"`
	Status   string  `json:"status"` // PENDING, CONTACTED, DEMO, INSTALLED / ACTIVE
}

// TeamData is the staffing plan and roster.
type TeamData struct {
	StaffNeeds           StaffNeeds `json:"staffNeeds"`
	EstimatedMonthlyCost float64    `json:"estimatedMonthlyCost"`
	Employees            []Employee `json:"employees"`
	Shifts               []Shift    `json:"shifts"`
}

type StaffNeeds struct {
	Kitchen    int `json:"kitchen"`
	Service    int `json:"service"`
	Management int `json:"management"`
}

type Employee struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Role         string     `json:"role"`   // HEAD_CHEF, CHEF, KITCHEN_PORTER, MANAGER, HEAD_WAITER, WAITER, HOST, BARTENDER
	Salary       float64    `json:"salary"` // gross monthly
	Status       string     `json:"status"` // CANDIDATE, INTERVIEWING, HIRED, REJECTED
	ContractType string     `json:"contractType"` // FULL_TIME, PART_TIME, TEMPORARY
	StartDate    *time.Time `json:"startDate,omitempty"`
}

type Shift struct {
	ID         string `json:"id"`
	EmployeeID string `json:"employeeId"`
	Day        string `json:"day"`
	StartTime  string `json:"startTime"`
	EndTime    string `json:"endTime"`
}

// MarketingData covers brand identity and launch planning.
type MarketingData struct {
	BrandIdentity   BrandIdentity    `json:"brandIdentity"`
	DigitalPresence []ChecklistItem  `json:"digitalPresence"`
	LaunchStrategy  []ChecklistItem  `json:"launchStrategy"`
	SocialMediaPlan []SocialMediaRow `json:"socialMediaPlan"`
}

type BrandIdentity struct {
	Name          string   `json:"name"`
	Description   string   `json:"description"`
	ElevatorPitch string   `json:"elevatorPitch"`
	Colors        []string `json:"colors"`
	LogoURL       string   `json:"logoUrl,omitempty"`
	ToneOfVoice   string   `json:"toneOfVoice,omitempty"`
}

type SocialMediaRow struct {
	Platform  string `json:"platform"`
	Strategy  string `json:"strategy"`
	Frequency string `json:"frequency"`
}

// OpeningData is the final countdown checklist.
type OpeningData struct {
	FinalChecklist []ChecklistItem `json:"finalChecklist"`
	OpeningDate    *time.Time      `json:"openingDate"`
}

// PostOpeningData tracks weekly results after launch.
type PostOpeningData struct {
	WeeklyMetrics []WeeklyMetric `json:"weeklyMetrics"`
}

type WeeklyMetric struct {
	WeekStartDate      time.Time `json:"weekStartDate"`
	Covers             int       `json:"covers"`
	AverageTicket      float64   `json:"averageTicket"`
	FoodCostPercentage float64   `json:"foodCostPercentage"`
	Revenue            float64   `json:"revenue"`
}
