package domain

import (
	"errors"
	"testing"
)

const fullPayload = `{
  "itinerary_id": "it_1",
  "created_at": "2026-01-01T00:00:00Z",
  "trip_summary": "Seattle to Yellowstone",
  "season_info": "Early summer",
  "itinerary_markdown": "# Plan",
  "itinerary_daily": [
    {"day_number": 2, "location": "Missoula", "image_keyword": "river",
     "morning": {"start_time": "08:00", "duration_minutes": 120, "activity": "Hike", "photo_tip": "Golden hour"},
     "evening": {"start_time": "19:00", "duration_minutes": 90, "activity": "Dinner", "dining_tip": "Try bison"},
     "daily_budget_per_person": 85.5, "accommodation_search_query": "Missoula hotels"},
    {"day_number": 1, "location": "Spokane"}
  ],
  "vehicle_recommendation": {"drivetrain": "AWD", "clearance": "8 in", "safety_gear": ["chains", 3], "notes": "ok"},
  "route_coordinates": [{"lat": 47.6, "lon": -122.3}, {"lat": "x", "lon": 1}, {"lat": 44.4, "lon": -110.5}],
  "is_round_trip": true,
  "markers": [{"sequence": 3, "name": "C", "type": "fuel", "coordinates": {"lat": 1, "lon": 2}}, {"sequence": 1, "name": "A", "type": "viewpoint"}],
  "logistics": {"total_distance_km": 1200, "estimated_driving_hours": 14.5, "fuel_stops": [{"location": "Ellensburg", "coordinates": {"lat": 47, "lon": -120.5}}], "accommodation_points": [{"name": "Inn"}, {"name": "Lodge"}]},
  "budget": {"fuel_cost": 200, "toll_fees": "n/a", "buffer_fund": 120, "total": 1320, "number_of_persons": 2},
  "science_points": [{"name": "Old Faithful", "coordinates": {"lat": 44.46, "lon": -110.83}}],
  "risk_warnings": ["Wildlife"],
  "extra_field": {"kept": true}
}`

func TestParseItineraryDefaults(t *testing.T) {
	it, err := ParseItinerary([]byte(fullPayload))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(it.Daily) != 2 {
		t.Fatalf("daily = %d, want 2", len(it.Daily))
	}
	if it.Daily[0].DayNumber != 2 || it.Daily[1].DayNumber != 1 {
		t.Fatalf("daily order changed: %d, %d", it.Daily[0].DayNumber, it.Daily[1].DayNumber)
	}
	if it.Daily[0].Afternoon != nil {
		t.Errorf("afternoon should be absent")
	}
	if it.Daily[0].Morning == nil || it.Daily[0].Morning.DurationMinutes != 120 {
		t.Errorf("morning not decoded: %+v", it.Daily[0].Morning)
	}
	if it.Daily[0].DailyBudgetPerPerson == nil || *it.Daily[0].DailyBudgetPerPerson != 85.5 {
		t.Errorf("daily budget not decoded")
	}
	if it.Daily[1].DailyBudgetPerPerson != nil {
		t.Errorf("absent daily budget should stay nil")
	}

	if it.Vehicle == nil || len(it.Vehicle.SafetyGear) != 1 {
		t.Fatalf("vehicle = %+v, want one safety gear item", it.Vehicle)
	}
	if len(it.RouteCoordinates) != 2 {
		t.Errorf("route coordinates = %d, want 2 (bad point dropped)", len(it.RouteCoordinates))
	}
	if it.Markers[1].HasCoordinates {
		t.Errorf("marker without coordinates flagged as plotted")
	}
	if it.Budget.TollFees != 0 || it.Budget.FuelCost != 200 {
		t.Errorf("budget = %+v", it.Budget)
	}
	if !it.Budget.BufferFundNumeric {
		t.Errorf("buffer fund should be numeric")
	}
	if len(it.Logistics.AccommodationPoints) != 2 || it.Logistics.FuelStops[0].Coordinates == nil {
		t.Errorf("logistics = %+v", it.Logistics)
	}
	if it.SciencePoints[0].Category != "general" {
		t.Errorf("science category = %q, want general", it.SciencePoints[0].Category)
	}
	if it.PackingList != nil {
		t.Errorf("packing list should be absent")
	}
	if it.PaymentStatus != "pending" {
		t.Errorf("payment status = %q, want pending", it.PaymentStatus)
	}
	if len(it.Raw) == 0 {
		t.Errorf("raw payload not retained")
	}
}

func TestParseItineraryMinimal(t *testing.T) {
	it, err := ParseItinerary([]byte(`{"trip_summary": 42, "itinerary_daily": null, "budget": "free"}`))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if it.Daily != nil {
		t.Errorf("null daily should be absent")
	}
	if it.Vehicle != nil {
		t.Errorf("vehicle should be absent")
	}
	if it.TripSummary != "" {
		t.Errorf("non-string summary should default to empty")
	}
	if it.Budget.BufferFundNumeric {
		t.Errorf("budget should be defaulted")
	}
}

func TestParseItineraryMalformed(t *testing.T) {
	for _, payload := range []string{"", "<html>", "[1,2]", `{"a":`} {
		_, err := ParseItinerary([]byte(payload))
		if !errors.Is(err, ErrMalformedItinerary) {
			t.Errorf("payload %q: err = %v, want ErrMalformedItinerary", payload, err)
		}
	}
}

func TestCheckAssets(t *testing.T) {
	cases := []struct {
		payload string
		want    AssetReport
	}{
		{`{"budget": {"buffer_fund": 50}, "itinerary_daily": [{"day_number": 1}]}`, AssetReport{true, true}},
		{`{"budget": {"buffer_fund": "50"}, "itinerary_daily": [{"day_number": 1}]}`, AssetReport{false, true}},
		{`{"budget": {}, "itinerary_daily": [{"day_number": 1}]}`, AssetReport{false, true}},
		{`{"budget": {"buffer_fund": 50}, "itinerary_daily": []}`, AssetReport{true, false}},
		{`{"budget": {"buffer_fund": 0}}`, AssetReport{false, false}},
	}

	for _, tc := range cases {
		it, err := ParseItinerary([]byte(tc.payload))
		if err != nil {
			t.Fatalf("parse %s: %v", tc.payload, err)
		}
		got := CheckAssets(it)
		if got != tc.want {
			t.Errorf("%s: got %+v, want %+v", tc.payload, got, tc.want)
		}
		if got.OK() != (tc.want.BufferFund && tc.want.DailyData) {
			t.Errorf("%s: OK() = %v", tc.payload, got.OK())
		}
	}
}

func TestSortedMarkers(t *testing.T) {
	it := Itinerary{Markers: []Marker{{Sequence: 3, Name: "C"}, {Sequence: 1, Name: "A"}, {Sequence: 2, Name: "B"}}}

	sorted := it.SortedMarkers()
	for i, want := range []string{"A", "B", "C"} {
		if sorted[i].Name != want {
			t.Fatalf("sorted[%d] = %q, want %q", i, sorted[i].Name, want)
		}
	}
	if it.Markers[0].Name != "C" {
		t.Fatalf("input markers mutated")
	}
}
