package domain

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedItinerary reports a payload that is not a JSON object at all.
// Anything past that degrades field by field instead of failing.
var ErrMalformedItinerary = errors.New("malformed itinerary payload")

// number accepts any JSON number and silently drops every other type.
type number struct {
	value float64
	ok    bool
}

func (n *number) UnmarshalJSON(b []byte) error {
	*n = number{}
	var f float64
	if err := json.Unmarshal(b, &f); err != nil || isNull(b) {
		return nil
	}
	*n = number{value: f, ok: true}
	return nil
}

type text string

func (t *text) UnmarshalJSON(b []byte) error {
	*t = ""
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = text(s)
	}
	return nil
}

type flag bool

func (f *flag) UnmarshalJSON(b []byte) error {
	*f = false
	var v bool
	if err := json.Unmarshal(b, &v); err == nil {
		*f = flag(v)
	}
	return nil
}

type wireCoordinates struct {
	Lat number `json:"lat"`
	Lon number `json:"lon"`
}

func (c wireCoordinates) resolve() (Coordinates, bool) {
	if !c.Lat.ok || !c.Lon.ok {
		return Coordinates{}, false
	}
	return Coordinates{Lat: c.Lat.value, Lon: c.Lon.value}, true
}

type wireTimeBlock struct {
	StartTime       text   `json:"start_time"`
	DurationMinutes number `json:"duration_minutes"`
	Activity        text   `json:"activity"`
	PhotoTip        text   `json:"photo_tip"`
	Logistics       text   `json:"logistics"`
	DiningTip       text   `json:"dining_tip"`
}

type wireDaily struct {
	DayNumber                number          `json:"day_number"`
	Location                 text            `json:"location"`
	ImageKeyword             text            `json:"image_keyword"`
	Morning                  json.RawMessage `json:"morning"`
	Afternoon                json.RawMessage `json:"afternoon"`
	Evening                  json.RawMessage `json:"evening"`
	DailyDrivingTime         text            `json:"daily_driving_time"`
	VehicleSafety            text            `json:"vehicle_safety"`
	DailyBudgetPerPerson     number          `json:"daily_budget_per_person"`
	AccommodationSearchQuery text            `json:"accommodation_search_query"`
	ViatorActivityQuery      text            `json:"viator_activity_query"`
}

type wireVehicle struct {
	Drivetrain text            `json:"drivetrain"`
	Clearance  text            `json:"clearance"`
	SafetyGear json.RawMessage `json:"safety_gear"`
	Notes      text            `json:"notes"`
}

type wireMarker struct {
	Sequence              number          `json:"sequence"`
	Name                  text            `json:"name"`
	Type                  text            `json:"type"`
	Coordinates           wireCoordinates `json:"coordinates"`
	Category              text            `json:"category"`
	ScientificExplanation text            `json:"scientific_explanation"`
	ObservationTips       text            `json:"observation_tips"`
}

type wireHighlight struct {
	Category text `json:"category"`
	Advice   text `json:"advice"`
}

type wireStop struct {
	Location    text             `json:"location"`
	Name        text             `json:"name"`
	Coordinates *wireCoordinates `json:"coordinates"`
}

type wireLogistics struct {
	TotalDistanceKm       number          `json:"total_distance_km"`
	EstimatedDrivingHours number          `json:"estimated_driving_hours"`
	FuelStops             json.RawMessage `json:"fuel_stops"`
	AccommodationPoints   json.RawMessage `json:"accommodation_points"`
	SafetyWarnings        json.RawMessage `json:"safety_warnings"`
}

type wireBudget struct {
	NumberOfPersons number `json:"number_of_persons"`
	FuelCost        number `json:"fuel_cost"`
	TollFees        number `json:"toll_fees"`
	Accommodation   number `json:"accommodation"`
	Meals           number `json:"meals"`
	Activities      number `json:"activities"`
	Subtotal        number `json:"subtotal"`
	BufferFund      number `json:"buffer_fund"`
	Total           number `json:"total"`
}

type wireSciencePoint struct {
	Name                  text             `json:"name"`
	Category              text             `json:"category"`
	Coordinates           *wireCoordinates `json:"coordinates"`
	ScientificExplanation text             `json:"scientific_explanation"`
	ObservationTips       text             `json:"observation_tips"`
}

type wireItinerary struct {
	ItineraryID           text            `json:"itinerary_id"`
	CreatedAt             text            `json:"created_at"`
	TripSummary           text            `json:"trip_summary"`
	SeasonInfo            text            `json:"season_info"`
	ItineraryMarkdown     text            `json:"itinerary_markdown"`
	ItineraryDaily        json.RawMessage `json:"itinerary_daily"`
	VehicleRecommendation json.RawMessage `json:"vehicle_recommendation"`
	RouteCoordinates      json.RawMessage `json:"route_coordinates"`
	IsRoundTrip           flag            `json:"is_round_trip"`
	Markers               json.RawMessage `json:"markers"`
	InterestHighlights    json.RawMessage `json:"interest_highlights"`
	Logistics             json.RawMessage `json:"logistics"`
	Budget                json.RawMessage `json:"budget"`
	Activities            json.RawMessage `json:"activities"`
	SciencePoints         json.RawMessage `json:"science_points"`
	RiskWarnings          json.RawMessage `json:"risk_warnings"`
	PackingList           json.RawMessage `json:"packing_list"`
	PaymentStatus         text            `json:"payment_status"`
}

// ParseItinerary decodes an engine payload and applies every defaulting rule
// in one place. It fails only when the payload is not a JSON object.
func ParseItinerary(payload []byte) (Itinerary, error) {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return Itinerary{}, fmt.Errorf("parse itinerary: %w: expected a JSON object", ErrMalformedItinerary)
	}

	var w wireItinerary
	if err := json.Unmarshal(trimmed, &w); err != nil {
		return Itinerary{}, fmt.Errorf("parse itinerary: %w: %v", ErrMalformedItinerary, err)
	}

	raw := make(json.RawMessage, len(trimmed))
	copy(raw, trimmed)

	it := Itinerary{
		ID:            string(w.ItineraryID),
		CreatedAt:     string(w.CreatedAt),
		TripSummary:   string(w.TripSummary),
		SeasonInfo:    string(w.SeasonInfo),
		Markdown:      string(w.ItineraryMarkdown),
		IsRoundTrip:   bool(w.IsRoundTrip),
		PaymentStatus: string(w.PaymentStatus),
		Raw:           raw,
	}
	if it.PaymentStatus == "" {
		it.PaymentStatus = "pending"
	}

	if days, ok := decodeList[wireDaily](w.ItineraryDaily); ok {
		it.Daily = make([]DailyItinerary, 0, len(days))
		for _, d := range days {
			it.Daily = append(it.Daily, d.normalize())
		}
	}

	if v, ok := decodeObject[wireVehicle](w.VehicleRecommendation); ok {
		it.Vehicle = &VehicleRecommendation{
			Drivetrain: string(v.Drivetrain),
			Clearance:  string(v.Clearance),
			SafetyGear: decodeStrings(v.SafetyGear),
			Notes:      string(v.Notes),
		}
	}

	if coords, ok := decodeList[wireCoordinates](w.RouteCoordinates); ok {
		for _, c := range coords {
			if rc, ok := c.resolve(); ok {
				it.RouteCoordinates = append(it.RouteCoordinates, rc)
			}
		}
	}

	if markers, ok := decodeList[wireMarker](w.Markers); ok {
		it.Markers = make([]Marker, 0, len(markers))
		for _, m := range markers {
			c, hasCoords := m.Coordinates.resolve()
			it.Markers = append(it.Markers, Marker{
				Sequence:              int(m.Sequence.value),
				Name:                  string(m.Name),
				Type:                  string(m.Type),
				Coordinates:           c,
				HasCoordinates:        hasCoords,
				Category:              string(m.Category),
				ScientificExplanation: string(m.ScientificExplanation),
				ObservationTips:       string(m.ObservationTips),
			})
		}
	}

	if hs, ok := decodeList[wireHighlight](w.InterestHighlights); ok {
		for _, h := range hs {
			it.InterestHighlights = append(it.InterestHighlights, InterestHighlight{
				Category: string(h.Category),
				Advice:   string(h.Advice),
			})
		}
	}

	if l, ok := decodeObject[wireLogistics](w.Logistics); ok {
		it.Logistics = Logistics{
			TotalDistanceKm:       l.TotalDistanceKm.value,
			EstimatedDrivingHours: l.EstimatedDrivingHours.value,
			FuelStops:             decodeStops(l.FuelStops),
			AccommodationPoints:   decodeStops(l.AccommodationPoints),
			SafetyWarnings:        decodeStrings(l.SafetyWarnings),
		}
	}

	if b, ok := decodeObject[wireBudget](w.Budget); ok {
		it.Budget = Budget{
			NumberOfPersons:   int(b.NumberOfPersons.value),
			FuelCost:          b.FuelCost.value,
			TollFees:          b.TollFees.value,
			Accommodation:     b.Accommodation.value,
			Meals:             b.Meals.value,
			Activities:        b.Activities.value,
			Subtotal:          b.Subtotal.value,
			BufferFund:        b.BufferFund.value,
			BufferFundNumeric: b.BufferFund.ok,
			Total:             b.Total.value,
		}
	}

	if acts, ok := decodeList[json.RawMessage](w.Activities); ok {
		it.Activities = acts
	}

	if sps, ok := decodeList[wireSciencePoint](w.SciencePoints); ok {
		for _, sp := range sps {
			point := SciencePoint{
				Name:                  string(sp.Name),
				Category:              string(sp.Category),
				ScientificExplanation: string(sp.ScientificExplanation),
				ObservationTips:       string(sp.ObservationTips),
			}
			if point.Category == "" {
				point.Category = "general"
			}
			if sp.Coordinates != nil {
				if c, ok := sp.Coordinates.resolve(); ok {
					point.Coordinates = &c
				}
			}
			it.SciencePoints = append(it.SciencePoints, point)
		}
	}

	it.RiskWarnings = decodeStrings(w.RiskWarnings)
	it.PackingList = decodeStrings(w.PackingList)

	return it, nil
}

func (d wireDaily) normalize() DailyItinerary {
	out := DailyItinerary{
		DayNumber:                int(d.DayNumber.value),
		Location:                 string(d.Location),
		ImageKeyword:             string(d.ImageKeyword),
		Morning:                  decodeTimeBlock(d.Morning),
		Afternoon:                decodeTimeBlock(d.Afternoon),
		Evening:                  decodeTimeBlock(d.Evening),
		DailyDrivingTime:         string(d.DailyDrivingTime),
		VehicleSafety:            string(d.VehicleSafety),
		AccommodationSearchQuery: string(d.AccommodationSearchQuery),
		ActivitySearchQuery:      string(d.ViatorActivityQuery),
	}
	if d.DailyBudgetPerPerson.ok {
		v := d.DailyBudgetPerPerson.value
		out.DailyBudgetPerPerson = &v
	}
	return out
}

func decodeTimeBlock(raw json.RawMessage) *TimeBlock {
	tb, ok := decodeObject[wireTimeBlock](raw)
	if !ok {
		return nil
	}
	return &TimeBlock{
		StartTime:       string(tb.StartTime),
		DurationMinutes: int(tb.DurationMinutes.value),
		Activity:        string(tb.Activity),
		PhotoTip:        string(tb.PhotoTip),
		Logistics:       string(tb.Logistics),
		DiningTip:       string(tb.DiningTip),
	}
}

func decodeStops(raw json.RawMessage) []Stop {
	stops, ok := decodeList[wireStop](raw)
	if !ok {
		return nil
	}
	out := make([]Stop, 0, len(stops))
	for _, s := range stops {
		name := string(s.Location)
		if name == "" {
			name = string(s.Name)
		}
		stop := Stop{Name: name}
		if s.Coordinates != nil {
			if c, ok := s.Coordinates.resolve(); ok {
				stop.Coordinates = &c
			}
		}
		out = append(out, stop)
	}
	return out
}

func decodeStrings(raw json.RawMessage) []string {
	items, ok := decodeList[text](raw)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, s := range items {
		if s == "" {
			continue
		}
		out = append(out, string(s))
	}
	return out
}

// decodeObject reports false for absent, null or non-object values.
func decodeObject[T any](raw json.RawMessage) (T, bool) {
	var v T
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return v, false
	}
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return v, false
	}
	return v, true
}

// decodeList reports false for absent, null or non-array values.
// Elements that fail to decode are skipped.
func decodeList[T any](raw json.RawMessage) ([]T, bool) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || trimmed[0] != '[' {
		return nil, false
	}
	var elems []json.RawMessage
	if err := json.Unmarshal(trimmed, &elems); err != nil {
		return nil, false
	}
	out := make([]T, 0, len(elems))
	for _, e := range elems {
		var v T
		if err := json.Unmarshal(e, &v); err != nil {
			continue
		}
		out = append(out, v)
	}
	return out, true
}

func isNull(b []byte) bool {
	return bytes.Equal(bytes.TrimSpace(b), []byte("null"))
}
