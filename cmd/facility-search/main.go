package main

import (
	"context"
	stderrors "errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog/log"

	"github.com/zatekoja/nursinghomefinder/internal/adapters/providers/geolocation"
	"github.com/zatekoja/nursinghomefinder/internal/adapters/storage"
	"github.com/zatekoja/nursinghomefinder/internal/application/services"
	"github.com/zatekoja/nursinghomefinder/internal/derive"
	"github.com/zatekoja/nursinghomefinder/internal/domain/entities"
	"github.com/zatekoja/nursinghomefinder/internal/infrastructure/clients/facilityapi"
	"github.com/zatekoja/nursinghomefinder/internal/infrastructure/observability"
	"github.com/zatekoja/nursinghomefinder/internal/infrastructure/reporting"
	"github.com/zatekoja/nursinghomefinder/internal/selection"
	"github.com/zatekoja/nursinghomefinder/internal/store"
	"github.com/zatekoja/nursinghomefinder/pkg/config"
	"github.com/zatekoja/nursinghomefinder/pkg/secrets"
)

// errSearchFailed signals a failed search after the view has been printed
var errSearchFailed = stderrors.New("search failed")

type options struct {
	filters  entities.FilterState
	lat      float64
	lng      float64
	locate   bool
	clear    bool
	page     int
	selectID string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Args[1:], os.Stdout); err != nil {
		if !stderrors.Is(err, errSearchFailed) {
			log.Error().Err(err).Msg("facility search failed")
		}
		os.Exit(1)
	}
}

func parseFlags(args []string) (*options, error) {
	fs := flag.NewFlagSet("facility-search", flag.ContinueOnError)

	values := map[entities.FilterKey]*string{}
	values[entities.FilterRatingMin] = fs.String("rating-min", "", "minimum overall rating (0-5)")
	values[entities.FilterDistance] = fs.String("distance", "", "search radius")
	values[entities.FilterBeds] = fs.String("beds", "", "certified bed bucket")
	values[entities.FilterOwnership] = fs.String("ownership", "", "ownership type")
	values[entities.FilterCity] = fs.String("city", "", "city")
	values[entities.FilterStateCode] = fs.String("state", "", "two-letter state code")
	values[entities.FilterLocationName] = fs.String("location", "", "free-text location")

	opts := &options{}
	fs.Float64Var(&opts.lat, "lat", 0, "latitude of the search origin")
	fs.Float64Var(&opts.lng, "lng", 0, "longitude of the search origin")
	fs.BoolVar(&opts.clear, "clear", false, "clear every filter")
	fs.IntVar(&opts.page, "page", 1, "result page to show")
	fs.StringVar(&opts.selectID, "select", "", "facility id to select on the map")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	flagNames := map[string]entities.FilterKey{
		"rating-min": entities.FilterRatingMin,
		"distance":   entities.FilterDistance,
		"beds":       entities.FilterBeds,
		"ownership":  entities.FilterOwnership,
		"city":       entities.FilterCity,
		"state":      entities.FilterStateCode,
		"location":   entities.FilterLocationName,
	}
	latSet, lngSet := false, false
	fs.Visit(func(f *flag.Flag) {
		if key, ok := flagNames[f.Name]; ok {
			if opts.filters == nil {
				opts.filters = entities.FilterState{}
			}
			opts.filters[key] = *values[key]
		}
		switch f.Name {
		case "lat":
			latSet = true
		case "lng":
			lngSet = true
		}
	})
	if latSet != lngSet {
		return nil, fmt.Errorf("-lat and -lng must be given together")
	}
	opts.locate = latSet
	return opts, nil
}

func run(ctx context.Context, args []string, stdout io.Writer) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	// Vault secrets land in the environment before configuration is read
	vault, err := secrets.Apply(ctx, secrets.ConfigFromEnv())
	if err != nil {
		return fmt.Errorf("failed to load vault secrets: %w", err)
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	observability.InitLogger(cfg.OTEL.ServiceName, cfg.Environment)
	if vault.Enabled {
		log.Info().Str("path", vault.Path).Int("loaded", vault.Loaded).Int("skipped", vault.Skipped).Msg("vault secrets applied")
	}

	// Initialize OpenTelemetry if enabled
	if cfg.OTEL.Enabled && cfg.OTEL.Endpoint != "" {
		shutdown, err := observability.Setup(ctx, cfg.OTEL.ServiceName, cfg.OTEL.ServiceVersion, cfg.OTEL.Endpoint)
		if err != nil {
			log.Warn().Err(err).Msg("failed to set up OpenTelemetry")
		} else {
			defer func() {
				ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
				defer cancel()
				if err := shutdown(ctx); err != nil {
					log.Warn().Err(err).Msg("error shutting down OpenTelemetry")
				}
			}()
		}
	}

	metrics, err := observability.InitStoreMetrics()
	if err != nil {
		return fmt.Errorf("failed to initialize metrics: %w", err)
	}

	reporter, flush, err := reporting.NewReporter(cfg.Sentry.DSN, cfg.Environment, cfg.OTEL.ServiceVersion)
	if err != nil {
		return fmt.Errorf("failed to initialize error reporting: %w", err)
	}
	defer flush()

	durable, closeStorage, err := storage.NewFromConfig(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() {
		if err := closeStorage(); err != nil {
			log.Warn().Err(err).Msg("failed to close storage")
		}
	}()

	geocoder, err := geolocation.NewFromConfig(&cfg.Geolocation, durable)
	if err != nil {
		return fmt.Errorf("failed to initialize geolocation: %w", err)
	}

	st, err := store.New(ctx, store.Options{
		Source:   facilityapi.NewClient(cfg.API.BaseURL, cfg.API.Timeout),
		Storage:  durable,
		Geocoder: geocoder,
		Reporter: reporter,
		Metrics:  metrics,
		Thresholds: derive.Thresholds{
			AcceptingBelow: cfg.Derivation.AcceptingBelow,
			WaitlistBelow:  cfg.Derivation.WaitlistBelow,
		},
		Namespace: cfg.Storage.Namespace,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize facility store: %w", err)
	}
	defer st.Close()

	session := services.NewSearchSession(st, cfg.Pagination.PageSize, cfg.Pagination.Delta, selection.Options{
		Fallback:        entities.Coordinates{Lat: cfg.Map.FallbackLat, Lng: cfg.Map.FallbackLng},
		SingleZoom:      cfg.Map.SingleZoom,
		ContinentalZoom: cfg.Map.ContinentalZoom,
	})

	outcome, searchErr := search(ctx, session, opts)
	log.Info().Str("outcome", string(outcome)).Str("session_id", st.SessionID()).Msg("search finished")

	session.GotoPage(opts.page)
	if opts.selectID != "" && !session.SelectFacility(opts.selectID) {
		log.Warn().Str("id", opts.selectID).Msg("facility not in results")
	}

	out, err := sonic.ConfigStd.MarshalIndent(session.View(), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	if _, err := fmt.Fprintln(stdout, string(out)); err != nil {
		return err
	}

	if searchErr != nil && outcome == store.OutcomeFailed {
		var fetchErr *store.FetchError
		if stderrors.As(searchErr, &fetchErr) {
			log.Error().Err(fetchErr.Cause).Msg(fetchErr.Message)
			return errSearchFailed
		}
		return searchErr
	}
	return nil
}

// search runs location acquisition first so filters apply around it, then
// the filter patch. With neither it repeats the persisted query.
func search(ctx context.Context, session *services.SearchSession, opts *options) (store.Outcome, error) {
	if opts.clear {
		return session.ClearFilters(ctx)
	}

	if opts.locate {
		src := geolocation.StaticLocationSource{At: entities.Coordinates{Lat: opts.lat, Lng: opts.lng}}
		outcome, err := session.LocateUser(ctx, src)
		if err != nil {
			if opts.filters == nil {
				return outcome, err
			}
			log.Warn().Err(err).Msg("continuing without location")
		} else if opts.filters == nil {
			return outcome, nil
		}
	}

	if opts.filters != nil {
		return session.Search(ctx, opts.filters)
	}
	return session.Retry(ctx)
}
