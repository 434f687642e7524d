package handlers

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"log"
	"net/http"
	"roadtrip-planner-web/internal/api/dto"
	"roadtrip-planner-web/internal/domain"
	"roadtrip-planner-web/internal/platform/obs"
	"roadtrip-planner-web/internal/ports"
	"roadtrip-planner-web/internal/present"
	"strings"
	"time"
)

//go:embed templates/*.html
var templateFS embed.FS

// Pages holds the parsed HTML templates. Each page is parsed together with
// the layout on its own so block names do not collide.
type Pages struct {
	form   *template.Template
	result *template.Template
}

func NewPages() (*Pages, error) {
	funcs := template.FuncMap{
		"paragraphs": paragraphs,
	}

	parse := func(page string) (*template.Template, error) {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+page)
		if err != nil {
			return nil, fmt.Errorf("parse %s: %w", page, err)
		}
		return t, nil
	}

	form, err := parse("form.html")
	if err != nil {
		return nil, err
	}
	result, err := parse("result.html")
	if err != nil {
		return nil, err
	}
	return &Pages{form: form, result: result}, nil
}

// paragraphs splits a multi-line notice into its blank-line separated parts.
func paragraphs(s string) []string {
	var out []string
	for _, p := range strings.Split(s, "\n\n") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// render executes into a buffer first so a template error never leaves a
// half-written page behind.
func (p *Pages) render(w http.ResponseWriter, r *http.Request, t *template.Template, status int, data any) {
	var buf bytes.Buffer
	if err := t.ExecuteTemplate(&buf, "layout", data); err != nil {
		log.Printf("req_id=%s render %s failed: %v", obs.RequestID(r.Context()), r.URL.Path, err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

type option struct {
	Value    string
	Label    string
	Selected bool
}

type formPage struct {
	Request      domain.TripRequest
	Notice       string
	MinDate      string
	MinDuration  int
	MaxDuration  int
	MinTravelers int
	MaxTravelers int
	Vehicles     []option
	Levels       []option
	Interests    []option
}

func newFormPage(req domain.TripRequest, notice string) formPage {
	p := formPage{
		Request:      req,
		Notice:       notice,
		MinDate:      time.Now().UTC().Format(domain.DateLayout),
		MinDuration:  domain.MinTripDuration,
		MaxDuration:  domain.MaxTripDuration,
		MinTravelers: domain.MinTravelers,
		MaxTravelers: domain.MaxTravelers,
	}
	for _, v := range domain.VehicleTypes {
		p.Vehicles = append(p.Vehicles, option{Value: string(v), Label: titleCase(string(v)), Selected: v == req.VehicleType})
	}
	for _, l := range domain.ActivityLevels {
		p.Levels = append(p.Levels, option{Value: string(l), Label: titleCase(string(l)), Selected: l == req.ActivityLevel})
	}
	for _, i := range domain.Interests {
		p.Interests = append(p.Interests, option{Value: string(i), Label: present.InterestLabel(string(i)), Selected: req.Interests.Has(i)})
	}
	return p
}

func titleCase(s string) string {
	if s == "suv" {
		return "SUV"
	}
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

type resultPage struct {
	View   present.View
	Notice string
}

// Form handles GET /.
func (h *ItineraryHandler) Form(w http.ResponseWriter, r *http.Request) {
	h.Pages.render(w, r, h.Pages.form, http.StatusOK, newFormPage(domain.NewTripRequest(), ""))
}

// GenerateForm handles POST /generate. The form is shown again with the
// blocking notice when generation fails, keeping what the user entered.
func (h *ItineraryHandler) GenerateForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.Pages.render(w, r, h.Pages.form, http.StatusBadRequest, newFormPage(domain.NewTripRequest(), "Could not read the form. Please try again."))
		return
	}

	ctx := r.Context()
	req := dto.TripRequestFromForm(r.PostForm)
	if _, err := h.generate(ctx, obs.SessionID(ctx), req); err != nil {
		if abandoned(err) {
			log.Printf("req_id=%s generate abandoned: %v", obs.RequestID(ctx), err)
			return
		}

		status, notice, detail := generateError(err)
		if errors.Is(err, domain.ErrInvalidTripRequest) {
			notice = "Please check your trip details.\n\n" + detail
		}
		h.Pages.render(w, r, h.Pages.form, status, newFormPage(req, notice))
		return
	}

	http.Redirect(w, r, "/result", http.StatusSeeOther)
}

// Result handles GET /result. Without a cached itinerary the user is sent
// back to the form.
func (h *ItineraryHandler) Result(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	v, err := h.view(ctx, obs.SessionID(ctx))
	if errors.Is(err, ports.ErrNoItinerary) {
		http.Redirect(w, r, "/", http.StatusSeeOther)
		return
	}
	if err != nil {
		log.Printf("req_id=%s build view failed: %v", obs.RequestID(ctx), err)
		http.Error(w, "failed to render itinerary", http.StatusInternalServerError)
		return
	}

	h.Pages.render(w, r, h.Pages.result, http.StatusOK, resultPage{View: v})
}

// RefineForm handles POST /refine.
func (h *ItineraryHandler) RefineForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	sid := obs.SessionID(ctx)
	if _, err := h.Refiner.Refine(ctx, sid, r.PostForm.Get("refinement_request")); err != nil {
		if errors.Is(err, ports.ErrNoItinerary) {
			http.Redirect(w, r, "/", http.StatusSeeOther)
			return
		}
		log.Printf("req_id=%s refine failed: %v", obs.RequestID(ctx), err)

		status, notice := refineError(err)
		v, viewErr := h.view(ctx, sid)
		if viewErr != nil {
			http.Error(w, notice, status)
			return
		}
		h.Pages.render(w, r, h.Pages.result, status, resultPage{View: v, Notice: notice})
		return
	}

	http.Redirect(w, r, "/result", http.StatusSeeOther)
}
