package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"roadtrip-planner-web/internal/api/dto"
	"roadtrip-planner-web/internal/domain"
	"roadtrip-planner-web/internal/export"
	"roadtrip-planner-web/internal/platform/obs"
	"roadtrip-planner-web/internal/ports"
	"roadtrip-planner-web/internal/present"
	"roadtrip-planner-web/internal/services"
	"strconv"
	"strings"
)

// ItineraryHandler serves the generate/refine flows and everything rendered
// from the session's cached itinerary. Pages and the JSON API share it.
type ItineraryHandler struct {
	Orchestrator *services.Orchestrator
	Refiner      *services.Refiner
	Store        ports.SessionStore
	Images       *present.ImageTracker
	Pages        *Pages
}

func (h *ItineraryHandler) generate(ctx context.Context, sessionID string, req domain.TripRequest) (domain.Itinerary, error) {
	it, err := h.Orchestrator.Generate(ctx, sessionID, req)
	if err != nil {
		return domain.Itinerary{}, err
	}
	h.Images.Reset(sessionID)
	return it, nil
}

func (h *ItineraryHandler) view(ctx context.Context, sessionID string) (present.View, error) {
	raw, err := h.Store.Load(ctx, sessionID)
	if err != nil {
		return present.View{}, err
	}

	it, err := domain.ParseItinerary(raw)
	if err != nil {
		return present.View{}, fmt.Errorf("view: cached itinerary: %w", err)
	}
	return present.Build(it, h.Images.For(sessionID)), nil
}

// generateError maps a generation error to a status, the user-facing notice
// and an optional detail line.
func generateError(err error) (int, string, string) {
	var f *services.Failure
	switch {
	case errors.As(err, &f):
		return f.HTTPStatus(), f.Message, string(f.Reason)
	case errors.Is(err, domain.ErrInvalidTripRequest):
		detail := strings.TrimPrefix(err.Error(), domain.ErrInvalidTripRequest.Error()+": ")
		return http.StatusBadRequest, domain.ErrInvalidTripRequest.Error(), detail
	case errors.Is(err, services.ErrSessionBusy):
		return http.StatusConflict, "An itinerary is already being prepared. Please wait for it to finish.", ""
	default:
		return http.StatusInternalServerError, "Genie encountered an issue. Please try again.", ""
	}
}

func refineError(err error) (int, string) {
	var re *services.RefinementError
	switch {
	case errors.Is(err, services.ErrEmptyInstruction):
		return http.StatusBadRequest, "refinement_request is required"
	case errors.Is(err, services.ErrSessionBusy):
		return http.StatusConflict, "An itinerary request is already in progress. Please wait for it to finish."
	case errors.Is(err, ports.ErrNoItinerary):
		return http.StatusNotFound, "no itinerary to refine"
	case errors.As(err, &re):
		return http.StatusBadGateway, services.RefineNotice
	default:
		return http.StatusInternalServerError, services.RefineNotice
	}
}

func abandoned(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

// Generate handles POST /api/itinerary/generate.
func (h *ItineraryHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req dto.GenerateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	it, err := h.generate(ctx, obs.SessionID(ctx), req.TripRequest())
	if err != nil {
		if abandoned(err) {
			log.Printf("req_id=%s generate abandoned: %v", obs.RequestID(ctx), err)
			return
		}
		status, msg, detail := generateError(err)
		writeErrorDetail(w, r, status, msg, detail)
		return
	}

	writeJSON(w, r, http.StatusOK, dto.GenerateResponse{ItineraryID: it.ID, Redirect: "/result"})
}

// Raw handles GET /api/itinerary and returns the cached payload untouched.
func (h *ItineraryHandler) Raw(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	raw, err := h.Store.Load(ctx, obs.SessionID(ctx))
	if errors.Is(err, ports.ErrNoItinerary) {
		writeError(w, r, http.StatusNotFound, "no itinerary generated yet")
		return
	}
	if err != nil {
		log.Printf("req_id=%s load itinerary failed: %v", obs.RequestID(ctx), err)
		writeError(w, r, http.StatusInternalServerError, "failed to load itinerary")
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}

// View handles GET /api/itinerary/view.
func (h *ItineraryHandler) View(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	v, err := h.view(ctx, obs.SessionID(ctx))
	if errors.Is(err, ports.ErrNoItinerary) {
		writeError(w, r, http.StatusNotFound, "no itinerary generated yet")
		return
	}
	if err != nil {
		log.Printf("req_id=%s build view failed: %v", obs.RequestID(ctx), err)
		writeError(w, r, http.StatusInternalServerError, "failed to render itinerary")
		return
	}

	writeJSON(w, r, http.StatusOK, v)
}

// Refine handles POST /api/itinerary/refine. On failure the cached itinerary
// is unchanged and only the generic notice is returned.
func (h *ItineraryHandler) Refine(w http.ResponseWriter, r *http.Request) {
	var req dto.RefineRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	sid := obs.SessionID(ctx)
	it, err := h.Refiner.Refine(ctx, sid, req.RefinementRequest)
	if err != nil {
		log.Printf("req_id=%s refine failed: %v", obs.RequestID(ctx), err)
		status, msg := refineError(err)
		writeError(w, r, status, msg)
		return
	}

	res := dto.RefineResponse{
		ItineraryID: it.ID,
		View:        present.Build(it, h.Images.For(sid)),
	}
	writeJSON(w, r, http.StatusOK, res)
}

// ImageFailed handles POST /api/images/failed. Once a key is marked the
// image stays on its gradient placeholder until the next generation.
func (h *ItineraryHandler) ImageFailed(w http.ResponseWriter, r *http.Request) {
	var req dto.ImageFailedRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	key := strings.TrimSpace(req.Key)
	if !present.ValidImageKey(key) {
		writeError(w, r, http.StatusBadRequest, "unknown image key")
		return
	}

	// Failures only count against an itinerary the session can display.
	ctx := r.Context()
	sessionID := obs.SessionID(ctx)
	if _, err := h.Store.Load(ctx, sessionID); errors.Is(err, ports.ErrNoItinerary) {
		writeError(w, r, http.StatusNotFound, "no itinerary generated yet")
		return
	} else if err != nil {
		log.Printf("req_id=%s load itinerary failed: %v", obs.RequestID(ctx), err)
		writeError(w, r, http.StatusInternalServerError, "failed to load itinerary")
		return
	}

	if h.Images.Mark(sessionID, key) {
		obs.ImageFailures.Inc()
	}
	writeJSON(w, r, http.StatusOK, dto.ImageFailedResponse{Key: key, Fallback: true})
}

// ExportPDF handles GET /api/itinerary/export.pdf.
func (h *ItineraryHandler) ExportPDF(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	v, err := h.view(ctx, obs.SessionID(ctx))
	if errors.Is(err, ports.ErrNoItinerary) {
		writeError(w, r, http.StatusNotFound, "no itinerary generated yet")
		return
	}
	if err != nil {
		log.Printf("req_id=%s export view failed: %v", obs.RequestID(ctx), err)
		writeError(w, r, http.StatusInternalServerError, "failed to render itinerary")
		return
	}

	var buf bytes.Buffer
	if err := export.WritePDF(&buf, v); err != nil {
		log.Printf("req_id=%s export pdf failed: %v", obs.RequestID(ctx), err)
		writeError(w, r, http.StatusInternalServerError, "failed to export itinerary")
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(v.ItineraryID)+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
