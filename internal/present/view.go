package present

// View is the fully resolved result page. Every panel is already defaulted;
// a nil pointer panel is one that must not render at all.
type View struct {
	ItineraryID        string          `json:"itinerary_id"`
	Summary            Summary         `json:"summary"`
	Vehicle            *VehiclePanel   `json:"vehicle,omitempty"`
	Days               []DayCard       `json:"days"`
	FallbackBody       string          `json:"fallback_body,omitempty"`
	InterestHighlights []HighlightCard `json:"interest_highlights"`
	Map                MapPanel        `json:"map"`
	Budget             BudgetPanel     `json:"budget"`
	Science            SciencePanel    `json:"science"`
	RiskWarnings       ListPanel       `json:"risk_warnings"`
	PackingList        ListPanel       `json:"packing_list"`
	Logistics          LogisticsCounts `json:"logistics"`
}

// Image is an illustrative image slot. When Fallback is set the page shows
// Gradient with text instead of loading URL; Gradient is always filled so the
// browser can swap in place when a load fails.
type Image struct {
	Key      string `json:"key"`
	URL      string `json:"url,omitempty"`
	Alt      string `json:"alt"`
	Fallback bool   `json:"fallback"`
	Gradient string `json:"gradient,omitempty"`
}

type Summary struct {
	Title          string  `json:"title"`
	SeasonInfo     string  `json:"season_info,omitempty"`
	DistanceKm     float64 `json:"distance_km"`
	DrivingHours   float64 `json:"driving_hours"`
	TotalCost      string  `json:"total_cost"`
	RoundTrip      bool    `json:"round_trip"`
	Hero           Image   `json:"hero"`
	PaymentPending bool    `json:"payment_pending"`
}

type VehiclePanel struct {
	Drivetrain string   `json:"drivetrain"`
	Clearance  string   `json:"clearance"`
	SafetyGear []string `json:"safety_gear"`
	Notes      string   `json:"notes,omitempty"`
}

type DayCard struct {
	DayNumber     int         `json:"day_number"`
	Location      string      `json:"location"`
	Badge         string      `json:"badge"`
	Image         Image       `json:"image"`
	DrivingTime   string      `json:"driving_time,omitempty"`
	BudgetBadge   string      `json:"budget_badge,omitempty"`
	Blocks        []TimeBlock `json:"blocks"`
	VehicleSafety string      `json:"vehicle_safety,omitempty"`
	Links         []Link      `json:"links"`
}

// TimeBlock is a rendered morning, afternoon or evening slot. Tip carries
// whichever tip belongs to the period.
type TimeBlock struct {
	Period   string `json:"period"`
	Start    string `json:"start,omitempty"`
	Duration string `json:"duration,omitempty"`
	Activity string `json:"activity"`
	TipKind  string `json:"tip_kind,omitempty"`
	Tip      string `json:"tip,omitempty"`
}

type Link struct {
	Label string `json:"label"`
	Query string `json:"query"`
	URL   string `json:"url"`
}

type HighlightCard struct {
	Category string `json:"category"`
	Label    string `json:"label"`
	Advice   string `json:"advice"`
}

type BudgetPanel struct {
	Caption string       `json:"caption,omitempty"`
	Rows    []BudgetRow  `json:"rows"`
	Chart   []ChartSlice `json:"chart"`
}

type BudgetRow struct {
	Label    string  `json:"label"`
	Value    float64 `json:"value"`
	Display  string  `json:"display"`
	Emphasis string  `json:"emphasis,omitempty"`
}

// ChartSlice is one ring-chart segment. Percent is the share of the sum of
// all slices, zero when every slice is zero.
type ChartSlice struct {
	Name    string  `json:"name"`
	Value   float64 `json:"value"`
	Color   string  `json:"color"`
	Percent float64 `json:"percent"`
	Tooltip string  `json:"tooltip"`
}

type LatLng struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

type Bounds struct {
	SouthWest LatLng `json:"south_west"`
	NorthEast LatLng `json:"north_east"`
}

type Polyline struct {
	Points    []LatLng `json:"points"`
	Color     string   `json:"color"`
	Weight    int      `json:"weight"`
	Opacity   float64  `json:"opacity"`
	DashArray string   `json:"dash_array,omitempty"`
}

type MapPin struct {
	Number      int    `json:"number"`
	Name        string `json:"name"`
	Type        string `json:"type"`
	Position    LatLng `json:"position"`
	Color       string `json:"color"`
	Icon        string `json:"icon"`
	Explanation string `json:"explanation,omitempty"`
	Tips        string `json:"tips,omitempty"`
	Legacy      bool   `json:"legacy,omitempty"`
}

// MapPanel is everything the browser-side map needs. Bounds is nil when
// there is nothing to fit; the map then opens at Center.
type MapPanel struct {
	Center      LatLng    `json:"center"`
	Zoom        int       `json:"zoom"`
	Bounds      *Bounds   `json:"bounds,omitempty"`
	PaddingPx   int       `json:"padding_px"`
	Route       *Polyline `json:"route,omitempty"`
	Pins        []MapPin  `json:"pins"`
	TileURL     string    `json:"tile_url"`
	Attribution string    `json:"attribution"`
	RoundTrip   bool      `json:"round_trip"`
}

type ScienceCard struct {
	Name        string `json:"name"`
	Category    string `json:"category"`
	Explanation string `json:"explanation"`
	Image       Image  `json:"image"`
}

type SciencePanel struct {
	Cards       []ScienceCard `json:"cards"`
	Placeholder string        `json:"placeholder,omitempty"`
}

// ListPanel is a bullet list with a placeholder shown when Items is empty.
type ListPanel struct {
	Items       []string `json:"items"`
	Placeholder string   `json:"placeholder,omitempty"`
}

type LogisticsCounts struct {
	FuelStops           int `json:"fuel_stops"`
	AccommodationNights int `json:"accommodation_nights"`
	Activities          int `json:"activities"`
}
