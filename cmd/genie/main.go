package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"roadtrip-planner-web/internal/adapters/genie"
	"roadtrip-planner-web/internal/adapters/session"
	"roadtrip-planner-web/internal/config"
	"roadtrip-planner-web/internal/domain"
	"roadtrip-planner-web/internal/export"
	"roadtrip-planner-web/internal/present"
	"roadtrip-planner-web/internal/services"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
)

const cliSession = "cli"

// genie submits one trip to the planning engine with the same retry flow as
// the web service and prints the itinerary as text.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	req := domain.NewTripRequest()
	var interests, pdfPath string
	var raw bool

	flag.StringVar(&req.StartLocation, "from", "", "start location (required)")
	flag.StringVar(&req.EndLocation, "to", "", "end location (required)")
	flag.StringVar(&req.StartDate, "start", "", "start date, YYYY-MM-DD (required)")
	flag.IntVar(&req.TripDuration, "days", req.TripDuration, "trip duration in days")
	flag.IntVar(&req.NumberOfPersons, "travelers", req.NumberOfPersons, "number of travelers")
	flag.BoolVar(&req.IsRoundTrip, "round-trip", false, "return to the start location")
	flag.BoolVar(&req.IncludeOffroad, "offroad", false, "include off-road routes")
	flag.Func("vehicle", "vehicle type: sedan, suv, crossover, truck, van", func(v string) error {
		req.VehicleType = domain.VehicleType(strings.TrimSpace(v))
		return nil
	})
	flag.Func("activity", "activity level: easy, moderate, challenging, expert", func(v string) error {
		req.ActivityLevel = domain.ActivityLevel(strings.TrimSpace(v))
		return nil
	})
	flag.StringVar(&interests, "interests", "", "comma-separated interests")
	flag.StringVar(&pdfPath, "pdf", "", "also write the itinerary as a PDF to this path")
	flag.BoolVar(&raw, "raw", false, "print the engine payload instead of the text rendering")
	flag.StringVar(&cfg.GenieAPIURL, "engine", cfg.GenieAPIURL, "planning engine base URL")
	flag.Parse()

	if interests != "" {
		req.Interests = domain.NewInterestSet(strings.Split(interests, ",")...)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, req, pdfPath, raw); err != nil {
		var f *services.Failure
		if errors.As(err, &f) {
			fmt.Fprintln(os.Stderr, f.Message)
			os.Exit(2)
		}
		log.Fatal(err)
	}
}

func run(ctx context.Context, cfg config.Config, req domain.TripRequest, pdfPath string, raw bool) error {
	engine, err := genie.NewClient(cfg.GenieAPIURL, cfg.RequestTimeout)
	if err != nil {
		return err
	}

	policy := services.DefaultRetryPolicy()
	policy.RetryDelay = cfg.RetryDelay
	policy.QuotaDelay = cfg.QuotaDelay

	progress := services.NotifierFunc(func(_ string, ev services.ProgressEvent) {
		if ev.Message != "" {
			log.Printf("phase=%s attempt=%d/%d %s", ev.Phase, ev.Attempt, ev.MaxAttempts, ev.Message)
			return
		}
		log.Printf("phase=%s attempt=%d/%d", ev.Phase, ev.Attempt, ev.MaxAttempts)
	})

	orch := services.NewOrchestrator(engine, session.NewMemoryStore(0), services.NewSlotGuard(), policy,
		services.WithNotifier(progress),
	)

	it, err := orch.Generate(ctx, cliSession, req)
	if err != nil {
		return err
	}

	if raw {
		_, err := os.Stdout.Write(append(it.Raw, '\n'))
		return err
	}

	v := present.Build(it, nil)
	if err := present.WriteText(os.Stdout, v); err != nil {
		return fmt.Errorf("write text: %w", err)
	}

	if pdfPath == "" {
		return nil
	}
	return writePDF(pdfPath, v)
}

func writePDF(path string, v present.View) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("write pdf: %w", cerr)
		}
	}()

	if err := export.WritePDF(f, v); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	log.Printf("pdf written path=%s", path)
	return nil
}
