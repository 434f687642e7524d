package domain

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

const (
	MinTripDuration = 1
	MaxTripDuration = 30
	MinTravelers    = 1
	MaxTravelers    = 12

	// DateLayout is the wire format of TripRequest.StartDate.
	DateLayout = "2006-01-02"
)

type VehicleType string

const (
	VehicleSedan     VehicleType = "sedan"
	VehicleSUV       VehicleType = "suv"
	VehicleCrossover VehicleType = "crossover"
	VehicleTruck     VehicleType = "truck"
	VehicleVan       VehicleType = "van"
)

var VehicleTypes = []VehicleType{VehicleSedan, VehicleSUV, VehicleCrossover, VehicleTruck, VehicleVan}

type ActivityLevel string

const (
	ActivityEasy        ActivityLevel = "easy"
	ActivityModerate    ActivityLevel = "moderate"
	ActivityChallenging ActivityLevel = "challenging"
	ActivityExpert      ActivityLevel = "expert"
)

var ActivityLevels = []ActivityLevel{ActivityEasy, ActivityModerate, ActivityChallenging, ActivityExpert}

type Interest string

const (
	InterestPhotography     Interest = "photography"
	InterestGeology         Interest = "geology"
	InterestHiking          Interest = "hiking"
	InterestLocalFood       Interest = "local_food"
	InterestHistory         Interest = "history"
	InterestArchitecture    Interest = "architecture"
	InterestAdventureSports Interest = "adventure_sports"
	InterestWellness        Interest = "wellness"
)

var Interests = []Interest{
	InterestPhotography,
	InterestGeology,
	InterestHiking,
	InterestLocalFood,
	InterestHistory,
	InterestArchitecture,
	InterestAdventureSports,
	InterestWellness,
}

var ErrInvalidTripRequest = errors.New("invalid trip request")

// TripRequest holds the user-supplied trip parameters sent to the planning engine.
// It is built fresh for every submission.
type TripRequest struct {
	StartLocation   string        `json:"start_location"`
	EndLocation     string        `json:"end_location"`
	TripDuration    int           `json:"trip_duration"`
	StartDate       string        `json:"start_date"`
	NumberOfPersons int           `json:"number_of_persons"`
	IsRoundTrip     bool          `json:"is_round_trip"`
	VehicleType     VehicleType   `json:"vehicle_type"`
	Interests       InterestSet   `json:"interests"`
	ActivityLevel   ActivityLevel `json:"activity_level"`
	IncludeOffroad  bool          `json:"include_offroad"`
}

// NewTripRequest returns a request with the form defaults applied.
func NewTripRequest() TripRequest {
	return TripRequest{
		TripDuration:    7,
		NumberOfPersons: 2,
		VehicleType:     VehicleSUV,
		ActivityLevel:   ActivityModerate,
		Interests:       InterestSet{},
	}
}

// Validate checks every field against its bounds. now decides the earliest allowed start date.
func (r TripRequest) Validate(now time.Time) error {
	if strings.TrimSpace(r.StartLocation) == "" {
		return fmt.Errorf("%w: start_location is required", ErrInvalidTripRequest)
	}
	if strings.TrimSpace(r.EndLocation) == "" {
		return fmt.Errorf("%w: end_location is required", ErrInvalidTripRequest)
	}
	if r.TripDuration < MinTripDuration || r.TripDuration > MaxTripDuration {
		return fmt.Errorf(
			"%w: trip_duration must be between %d and %d",
			ErrInvalidTripRequest, MinTripDuration, MaxTripDuration,
		)
	}
	if r.NumberOfPersons < MinTravelers || r.NumberOfPersons > MaxTravelers {
		return fmt.Errorf(
			"%w: number_of_persons must be between %d and %d",
			ErrInvalidTripRequest, MinTravelers, MaxTravelers,
		)
	}

	start, err := time.Parse(DateLayout, r.StartDate)
	if err != nil {
		return fmt.Errorf("%w: start_date must be YYYY-MM-DD", ErrInvalidTripRequest)
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if start.Before(today) {
		return fmt.Errorf("%w: start_date must not be in the past", ErrInvalidTripRequest)
	}

	if !validVehicle(r.VehicleType) {
		return fmt.Errorf("%w: unknown vehicle_type %q", ErrInvalidTripRequest, r.VehicleType)
	}
	if !validActivity(r.ActivityLevel) {
		return fmt.Errorf("%w: unknown activity_level %q", ErrInvalidTripRequest, r.ActivityLevel)
	}
	for i := range r.Interests {
		if !validInterest(i) {
			return fmt.Errorf("%w: unknown interest %q", ErrInvalidTripRequest, i)
		}
	}

	return nil
}

func validVehicle(v VehicleType) bool {
	for _, known := range VehicleTypes {
		if v == known {
			return true
		}
	}
	return false
}

func validActivity(a ActivityLevel) bool {
	for _, known := range ActivityLevels {
		if a == known {
			return true
		}
	}
	return false
}

func validInterest(i Interest) bool {
	for _, known := range Interests {
		if i == known {
			return true
		}
	}
	return false
}

// InterestSet is an unordered set of interests. It encodes as a sorted JSON array.
type InterestSet map[Interest]struct{}

func NewInterestSet(values ...string) InterestSet {
	s := make(InterestSet, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		s[Interest(v)] = struct{}{}
	}
	return s
}

// Toggle adds the interest when absent and removes it when present.
func (s InterestSet) Toggle(i Interest) {
	if _, ok := s[i]; ok {
		delete(s, i)
		return
	}
	s[i] = struct{}{}
}

func (s InterestSet) Has(i Interest) bool {
	_, ok := s[i]
	return ok
}

func (s InterestSet) Sorted() []Interest {
	out := make([]Interest, 0, len(s))
	for i := range s {
		out = append(out, i)
	}
	sort.Slice(out, func(a, b int) bool { return out[a] < out[b] })
	return out
}
