package domain

import (
	"encoding/json"
	"errors"
	"testing"
	"time"
)

func validRequest() TripRequest {
	r := NewTripRequest()
	r.StartLocation = "Seattle, WA"
	r.EndLocation = "Yellowstone National Park"
	r.StartDate = "2026-06-15"
	r.Interests = NewInterestSet("photography", "geology")
	return r
}

func TestTripRequestValidateBounds(t *testing.T) {
	now := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)

	if err := validRequest().Validate(now); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []struct {
		name string
		mut  func(r *TripRequest)
	}{
		{"duration zero", func(r *TripRequest) { r.TripDuration = 0 }},
		{"duration too long", func(r *TripRequest) { r.TripDuration = 31 }},
		{"no travelers", func(r *TripRequest) { r.NumberOfPersons = 0 }},
		{"too many travelers", func(r *TripRequest) { r.NumberOfPersons = 13 }},
		{"missing start", func(r *TripRequest) { r.StartLocation = "  " }},
		{"missing end", func(r *TripRequest) { r.EndLocation = "" }},
		{"bad date", func(r *TripRequest) { r.StartDate = "06/15/2026" }},
		{"past date", func(r *TripRequest) { r.StartDate = "2025-12-31" }},
		{"bad vehicle", func(r *TripRequest) { r.VehicleType = "tank" }},
		{"bad level", func(r *TripRequest) { r.ActivityLevel = "extreme" }},
		{"bad interest", func(r *TripRequest) { r.Interests = NewInterestSet("shopping") }},
	}

	for _, tc := range cases {
		r := validRequest()
		tc.mut(&r)
		err := r.Validate(now)
		if !errors.Is(err, ErrInvalidTripRequest) {
			t.Errorf("%s: err = %v, want ErrInvalidTripRequest", tc.name, err)
		}
	}
}

func TestTripRequestEdgesAccepted(t *testing.T) {
	now := time.Date(2026, 1, 1, 23, 0, 0, 0, time.UTC)

	r := validRequest()
	r.TripDuration = MaxTripDuration
	r.NumberOfPersons = MaxTravelers
	r.StartDate = "2026-01-01"
	if err := r.Validate(now); err != nil {
		t.Fatalf("upper bounds rejected: %v", err)
	}

	r.TripDuration = MinTripDuration
	r.NumberOfPersons = MinTravelers
	if err := r.Validate(now); err != nil {
		t.Fatalf("lower bounds rejected: %v", err)
	}
}

func TestInterestSetIsASet(t *testing.T) {
	s := NewInterestSet("hiking", "geology", "hiking")
	if len(s) != 2 {
		t.Fatalf("len = %d, want 2", len(s))
	}

	s.Toggle(InterestHiking)
	if s.Has(InterestHiking) {
		t.Fatalf("hiking should be toggled off")
	}
	s.Toggle(InterestWellness)
	if !s.Has(InterestWellness) {
		t.Fatalf("wellness should be toggled on")
	}

	b, err := json.Marshal(TripRequest{Interests: NewInterestSet("wellness", "geology")})
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded struct {
		Interests []string `json:"interests"`
	}
	if err := json.Unmarshal(b, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(decoded.Interests) != 2 || decoded.Interests[0] != "geology" || decoded.Interests[1] != "wellness" {
		t.Fatalf("interests = %v, want [geology wellness]", decoded.Interests)
	}
}
