package dto

import (
	"net/url"
	"roadtrip-planner-web/internal/domain"
	"strconv"
	"strings"
)

// GenerateRequest is the JSON body of POST /api/itinerary/generate. Absent
// fields take the form defaults; an explicit zero is validated as given.
type GenerateRequest struct {
	StartLocation   string   `json:"start_location"`
	EndLocation     string   `json:"end_location"`
	TripDuration    *int     `json:"trip_duration"`
	StartDate       string   `json:"start_date"`
	NumberOfPersons *int     `json:"number_of_persons"`
	IsRoundTrip     bool     `json:"is_round_trip"`
	VehicleType     string   `json:"vehicle_type"`
	Interests       []string `json:"interests"`
	ActivityLevel   string   `json:"activity_level"`
	IncludeOffroad  bool     `json:"include_offroad"`
}

func (g GenerateRequest) TripRequest() domain.TripRequest {
	req := domain.NewTripRequest()
	req.StartLocation = strings.TrimSpace(g.StartLocation)
	req.EndLocation = strings.TrimSpace(g.EndLocation)
	req.StartDate = strings.TrimSpace(g.StartDate)
	req.IsRoundTrip = g.IsRoundTrip
	req.IncludeOffroad = g.IncludeOffroad
	req.Interests = domain.NewInterestSet(g.Interests...)

	if g.TripDuration != nil {
		req.TripDuration = *g.TripDuration
	}
	if g.NumberOfPersons != nil {
		req.NumberOfPersons = *g.NumberOfPersons
	}
	if v := strings.TrimSpace(g.VehicleType); v != "" {
		req.VehicleType = domain.VehicleType(v)
	}
	if v := strings.TrimSpace(g.ActivityLevel); v != "" {
		req.ActivityLevel = domain.ActivityLevel(v)
	}
	return req
}

// TripRequestFromForm reads the trip form. Blank numbers take the defaults;
// unparseable ones are kept as out-of-range values so validation reports them.
func TripRequestFromForm(form url.Values) domain.TripRequest {
	g := GenerateRequest{
		StartLocation:  form.Get("start_location"),
		EndLocation:    form.Get("end_location"),
		StartDate:      form.Get("start_date"),
		IsRoundTrip:    checked(form.Get("is_round_trip")),
		VehicleType:    form.Get("vehicle_type"),
		Interests:      form["interests"],
		ActivityLevel:  form.Get("activity_level"),
		IncludeOffroad: checked(form.Get("include_offroad")),
	}
	g.TripDuration = formInt(form.Get("trip_duration"))
	g.NumberOfPersons = formInt(form.Get("number_of_persons"))
	return g.TripRequest()
}

func formInt(v string) *int {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		n = -1
	}
	return &n
}

func checked(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1", "yes":
		return true
	}
	return false
}
