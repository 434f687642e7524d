package dto

import "roadtrip-planner-web/internal/present"

type GenerateResponse struct {
	ItineraryID string `json:"itinerary_id"`
	Redirect    string `json:"redirect"`
}

type RefineRequest struct {
	RefinementRequest string `json:"refinement_request"`
}

type RefineResponse struct {
	ItineraryID string       `json:"itinerary_id"`
	View        present.View `json:"view"`
}

type ImageFailedRequest struct {
	Key string `json:"key"`
}

type ImageFailedResponse struct {
	Key      string `json:"key"`
	Fallback bool   `json:"fallback"`
}

// ErrorResponse is every JSON error body. Detail is only set when the
// message alone would not tell the user what to do.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}
