package genie

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"roadtrip-planner-web/internal/domain"
	"roadtrip-planner-web/internal/platform/obs"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "http://127.0.0.1:8000"

	generatePath = "/api/itinerary/generate"
	refinePath   = "/api/itinerary/refine"
)

// Client implements ports.ItineraryEngine against the planning engine's HTTP API.
// It issues exactly one request per call; retry policy lives in the services layer.
//
// The client is safe for concurrent use.
type Client struct {
	session *http.Client
	baseURL string
}

func NewClient(baseURL string, timeout time.Duration) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("new engine client: invalid base url %q", baseURL)
	}
	if timeout <= 0 {
		return nil, errors.New("new engine client: timeout must be positive")
	}

	return &Client{
		session: &http.Client{Timeout: timeout},
		baseURL: baseURL,
	}, nil
}

func (c *Client) BaseURL() string { return c.baseURL }

// Generate posts the trip request and returns the raw itinerary payload.
func (c *Client) Generate(ctx context.Context, req domain.TripRequest) (_ []byte, err error) {
	defer obs.Time(ctx, "engine.Generate")(&err)

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("encode trip request: %w", err)
	}

	return c.post(ctx, generatePath, body)
}

type refineRequest struct {
	CurrentItinerary  json.RawMessage `json:"current_itinerary"`
	RefinementRequest string          `json:"refinement_request"`
}

// Refine posts the current payload with the instruction and returns the replacement payload.
func (c *Client) Refine(
	ctx context.Context,
	current json.RawMessage,
	instruction string,
) (_ []byte, err error) {
	defer obs.Time(ctx, "engine.Refine")(&err)

	if len(current) == 0 {
		return nil, errors.New("refine: current itinerary is empty")
	}

	body, err := json.Marshal(refineRequest{
		CurrentItinerary:  current,
		RefinementRequest: instruction,
	})
	if err != nil {
		return nil, fmt.Errorf("encode refinement request: %w", err)
	}

	return c.post(ctx, refinePath, body)
}
