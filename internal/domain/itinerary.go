package domain

import (
	"encoding/json"
	"sort"
)

// Itinerary is the generated trip plan after normalization.
// Every optional field has already been defaulted; presence that changes
// rendering is kept explicit (nil slices and pointers mean "absent").
type Itinerary struct {
	ID                 string
	CreatedAt          string
	TripSummary        string
	SeasonInfo         string
	Markdown           string
	Daily              []DailyItinerary
	Vehicle            *VehicleRecommendation
	RouteCoordinates   []Coordinates
	IsRoundTrip        bool
	Markers            []Marker
	InterestHighlights []InterestHighlight
	Logistics          Logistics
	Budget             Budget
	Activities         []json.RawMessage
	SciencePoints      []SciencePoint
	RiskWarnings       []string
	PackingList        []string
	PaymentStatus      string

	// Raw is the payload exactly as the engine returned it. It is what gets
	// cached and sent back for refinement, so unknown fields survive.
	Raw json.RawMessage
}

// DailyItinerary is one day of the schedule. DayNumber is 1-based.
type DailyItinerary struct {
	DayNumber                int
	Location                 string
	ImageKeyword             string
	Morning                  *TimeBlock
	Afternoon                *TimeBlock
	Evening                  *TimeBlock
	DailyDrivingTime         string
	VehicleSafety            string
	DailyBudgetPerPerson     *float64
	AccommodationSearchQuery string
	ActivitySearchQuery      string
}

// TimeBlock is a morning, afternoon or evening slot. Only the tip matching
// the period is normally set.
type TimeBlock struct {
	StartTime       string
	DurationMinutes int
	Activity        string
	PhotoTip        string
	Logistics       string
	DiningTip       string
}

type VehicleRecommendation struct {
	Drivetrain string
	Clearance  string
	SafetyGear []string
	Notes      string
}

type Marker struct {
	Sequence              int
	Name                  string
	Type                  string
	Coordinates           Coordinates
	HasCoordinates        bool
	Category              string
	ScientificExplanation string
	ObservationTips       string
}

type InterestHighlight struct {
	Category string
	Advice   string
}

type Logistics struct {
	TotalDistanceKm       float64
	EstimatedDrivingHours float64
	FuelStops             []Stop
	AccommodationPoints   []Stop
	SafetyWarnings        []string
}

// Stop is a fuel stop or accommodation point. Coordinates is nil when the
// engine did not geocode it.
type Stop struct {
	Name        string
	Coordinates *Coordinates
}

// Budget holds per-category costs. BufferFund is nominally 10% of Subtotal;
// nothing here reconciles the figures.
type Budget struct {
	NumberOfPersons   int
	FuelCost          float64
	TollFees          float64
	Accommodation     float64
	Meals             float64
	Activities        float64
	Subtotal          float64
	BufferFund        float64
	BufferFundNumeric bool
	Total             float64
}

type SciencePoint struct {
	Name                  string
	Category              string
	Coordinates           *Coordinates
	ScientificExplanation string
	ObservationTips       string
}

// SortedMarkers returns a copy of the markers ordered by ascending sequence.
// Markers sharing a sequence keep their input order.
func (it Itinerary) SortedMarkers() []Marker {
	out := make([]Marker, len(it.Markers))
	copy(out, it.Markers)
	sort.SliceStable(out, func(a, b int) bool { return out[a].Sequence < out[b].Sequence })
	return out
}

// AssetReport is the outcome of the minimal structural check that decides
// whether a generation response is usable.
type AssetReport struct {
	BufferFund bool
	DailyData  bool
}

func (r AssetReport) OK() bool { return r.BufferFund && r.DailyData }

// CheckAssets requires a numeric, non-zero buffer fund and a non-empty daily list.
func CheckAssets(it Itinerary) AssetReport {
	return AssetReport{
		BufferFund: it.Budget.BufferFundNumeric && it.Budget.BufferFund != 0,
		DailyData:  len(it.Daily) > 0,
	}
}
