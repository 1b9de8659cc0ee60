// Package airport resolves IATA codes to coordinates, backed by the local
// store with an AeroDataBox fallback for unknown codes.
package airport

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"regexp"
	"strings"

	"sunviewgo/pkg/model"
	"sunviewgo/pkg/store"
)

// DefaultHost is the AeroDataBox API endpoint.
const DefaultHost = "https://prod.api.market/api/v1/aedbx/aerodatabox"

var iataPattern = regexp.MustCompile(`^[A-Z]{3}$`)

// Fetcher performs the upstream GET; satisfied by request.Client.
type Fetcher interface {
	GetWithHeaders(ctx context.Context, url string, headers map[string]string, cacheKey string) ([]byte, error)
}

// Resolver looks airports up in the store first and falls back to the
// upstream provider, persisting successful fetches.
type Resolver struct {
	store  store.AirportStore
	client Fetcher
	host   string
	apiKey string
}

// NewResolver creates a Resolver. An empty host selects DefaultHost; an
// empty apiKey disables the upstream fallback (store-only resolution).
// A host without a scheme would make every fetch URL unparseable, so it is
// rejected in favor of the default.
func NewResolver(st store.AirportStore, client Fetcher, host, apiKey string) *Resolver {
	if host == "" {
		host = DefaultHost
	} else if !strings.Contains(host, "://") {
		slog.Warn("Airport host has no scheme, using default provider", "host", host)
		host = DefaultHost
	}
	return &Resolver{store: st, client: client, host: host, apiKey: apiKey}
}

// Lookup resolves one IATA code. Unknown codes return ErrNotFound; upstream
// trouble returns *UpstreamError so callers can report "cannot resolve yet"
// instead of failing hard.
func (r *Resolver) Lookup(ctx context.Context, iata string) (*model.Airport, error) {
	code := strings.ToUpper(strings.TrimSpace(iata))
	if !iataPattern.MatchString(code) {
		return nil, fmt.Errorf("%w: %q is not a valid IATA code", ErrNotFound, iata)
	}

	a, err := r.store.GetAirport(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("airport store lookup failed: %w", err)
	}
	if a != nil {
		return a, nil
	}

	if r.apiKey == "" {
		slog.Warn("Airport not cached and no upstream API key configured", "iata", code)
		return nil, ErrNotFound
	}

	a, err = r.fetchRemote(ctx, code)
	if err != nil {
		return nil, err
	}

	if err := r.store.SaveAirport(ctx, a); err != nil {
		// The caller still gets a usable airport; only persistence failed.
		slog.Error("Failed to persist fetched airport", "iata", code, "error", err)
	}
	return a, nil
}

// Search returns up to limit cached airports whose IATA code contains query.
// A three-letter query that matches nothing locally is tried upstream once.
func (r *Resolver) Search(ctx context.Context, query string, limit int) ([]*model.Airport, error) {
	results, err := r.store.SearchAirports(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("airport search failed: %w", err)
	}
	if len(results) > 0 || len(query) != 3 {
		return results, nil
	}

	a, err := r.Lookup(ctx, query)
	if err != nil {
		// A failed remote fill-in degrades search to "no results".
		slog.Debug("Search fallback lookup failed", "query", query, "error", err)
		return nil, nil
	}
	return []*model.Airport{a}, nil
}

// remoteAirport mirrors the AeroDataBox response shape. Coordinates are
// pointers so a missing field is distinguishable from a legitimate 0.
type remoteAirport struct {
	FullName         string `json:"fullName"`
	ShortName        string `json:"shortName"`
	Name             string `json:"name"`
	MunicipalityName string `json:"municipalityName"`
	Country          struct {
		Name string `json:"name"`
	} `json:"country"`
	Location struct {
		Lat *float64 `json:"lat"`
		Lon *float64 `json:"lon"`
	} `json:"location"`
	TimeZone string `json:"timeZone"`
}

func (r *Resolver) fetchRemote(ctx context.Context, code string) (*model.Airport, error) {
	url := fmt.Sprintf("%s/airports/iata/%s", r.host, code)
	body, err := r.client.GetWithHeaders(ctx, url,
		map[string]string{"x-api-market-key": r.apiKey},
		"airport:"+code)
	if err != nil {
		return nil, &UpstreamError{IATA: code, Err: err}
	}

	var ra remoteAirport
	if err := json.Unmarshal(body, &ra); err != nil {
		return nil, &UpstreamError{IATA: code, Err: fmt.Errorf("malformed response: %w", err)}
	}

	// A payload without valid numeric coordinates is unusable input; never
	// substitute defaults that could masquerade as a real position.
	if ra.Location.Lat == nil || ra.Location.Lon == nil ||
		math.IsNaN(*ra.Location.Lat) || math.IsNaN(*ra.Location.Lon) {
		return nil, &UpstreamError{IATA: code, Err: fmt.Errorf("response lacks coordinates")}
	}

	name := ra.FullName
	if name == "" {
		name = ra.ShortName
	}
	if name == "" {
		name = ra.Name
	}

	return &model.Airport{
		IATA:    code,
		Name:    name,
		City:    ra.MunicipalityName,
		Country: ra.Country.Name,
		Lat:     *ra.Location.Lat,
		Lon:     *ra.Location.Lon,
		TZ:      ra.TimeZone,
	}, nil
}
