// Package checkphatnguoi looks up violations through the
// checkphatnguoi.vn JSON API. The API answers for every vehicle class
// at once, so results are filtered down to the requested class.
package checkphatnguoi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/check-phat-nguoi/cpn-core/internal/core/domain"
	"github.com/check-phat-nguoi/cpn-core/internal/core/ports/driven"
	"github.com/check-phat-nguoi/cpn-core/internal/providers"
)

const defaultEndpoint = "https://api.checkphatnguoi.vn/phatnguoi"

// API status codes in the response envelope.
const (
	statusFound    = 1
	statusNotFound = 2
)

// Config configures the engine. Zero values fall back to the production
// endpoint and the default lookup timeout.
type Config struct {
	// Endpoint overrides the API URL. Tests point it at a local server.
	Endpoint string

	// Timeout bounds each lookup request.
	Timeout time.Duration

	// Logger receives lookup events.
	Logger zerolog.Logger
}

// Engine implements driven.ProviderEngine for checkphatnguoi.vn.
type Engine struct {
	endpoint string
	session  *providers.Session
	log      zerolog.Logger
}

var _ driven.ProviderEngine = (*Engine)(nil)

// New creates an Engine from cfg.
func New(cfg Config) *Engine {
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = domain.DefaultTimeoutSeconds * time.Second
	}
	return &Engine{
		endpoint: cfg.Endpoint,
		session:  providers.NewSession(cfg.Timeout),
		log:      cfg.Logger.With().Str("provider", domain.ProviderCheckPhatNguoi.String()).Logger(),
	}
}

// Provider identifies the source this engine queries.
func (e *Engine) Provider() domain.Provider {
	return domain.ProviderCheckPhatNguoi
}

// Fetch looks up the plate. Every outcome comes back as a classified
// ProviderResult; errors never leak.
func (e *Engine) Fetch(ctx context.Context, plate domain.PlateInfo) domain.ProviderResult {
	start := time.Now()
	res := e.lookup(ctx, plate)
	res.Elapsed = time.Since(start)
	return res
}

// Close releases the engine's connections.
func (e *Engine) Close() error {
	return e.session.Close()
}

type searchRequest struct {
	Plate string `json:"bienso"`
}

type searchResponse struct {
	Status int         `json:"status"`
	Data   []violation `json:"data"`
}

// violation mirrors one API entry. The field names on the wire are the
// Vietnamese labels the site renders.
type violation struct {
	Plate           string   `json:"Biển kiểm soát"`
	PlateColor      string   `json:"Màu biển"`
	VehicleClass    string   `json:"Loại phương tiện"`
	Time            string   `json:"Thời gian vi phạm"`
	Location        string   `json:"Địa điểm vi phạm"`
	Violation       string   `json:"Hành vi vi phạm"`
	Status          string   `json:"Trạng thái"`
	EnforcementUnit string   `json:"Đơn vị phát hiện vi phạm"`
	Offices         []string `json:"Nơi giải quyết vụ việc"`
}

func (e *Engine) lookup(ctx context.Context, plate domain.PlateInfo) domain.ProviderResult {
	normalized := plate.NormalizedPlate()
	e.log.Debug().Str("plate", normalized).Msg("querying violations")

	payload, err := json.Marshal(searchRequest{Plate: normalized})
	if err != nil {
		return domain.FailedResult(e.Provider(), fmt.Errorf("encode request: %w", err))
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.endpoint, bytes.NewReader(payload))
	if err != nil {
		return domain.FailedResult(e.Provider(), fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.session.Client().Do(req)
	if err != nil {
		return domain.FailedResult(e.Provider(), fmt.Errorf("query api: %w", err))
	}
	defer resp.Body.Close()

	if err := providers.StatusError(resp); err != nil {
		return domain.FailedResult(e.Provider(), err)
	}

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.FailedResult(e.Provider(), fmt.Errorf("%w: decode response: %v", domain.ErrMalformedResponse, err))
	}

	switch decoded.Status {
	case statusNotFound:
		return domain.NotFoundResult(e.Provider())
	case statusFound:
		// fall through to the entries
	default:
		return domain.FailedResult(e.Provider(), fmt.Errorf("%w: unexpected api status %d", domain.ErrMalformedResponse, decoded.Status))
	}

	records, err := e.collect(plate, decoded.Data)
	if err != nil {
		return domain.FailedResult(e.Provider(), err)
	}
	if len(records) == 0 {
		return domain.NotFoundResult(e.Provider())
	}
	return domain.FoundResult(e.Provider(), records)
}

// collect converts API entries into records, dropping entries reported
// for a different vehicle class than the one asked about.
func (e *Engine) collect(plate domain.PlateInfo, entries []violation) ([]domain.ViolationRecord, error) {
	set := domain.NewRecordSet()
	for _, entry := range entries {
		class, err := domain.ParseVehicleClass(entry.VehicleClass)
		if err != nil {
			return nil, fmt.Errorf("%w: vehicle class: %v", domain.ErrMalformedResponse, err)
		}
		if class != plate.VehicleClass {
			e.log.Debug().
				Str("plate", plate.NormalizedPlate()).
				Str("class", entry.VehicleClass).
				Msg("dropping record reported for another vehicle class")
			continue
		}

		when, err := time.Parse(domain.ViolationTimeLayout, entry.Time)
		if err != nil {
			return nil, fmt.Errorf("%w: violation time %q", domain.ErrMalformedResponse, entry.Time)
		}

		set.Add(domain.ViolationRecord{
			Plate:             domain.NormalizePlate(entry.Plate),
			PlateColor:        entry.PlateColor,
			VehicleClass:      class,
			Time:              when,
			Location:          entry.Location,
			Violation:         entry.Violation,
			Resolved:          providers.Resolved(entry.Status),
			EnforcementUnit:   entry.EnforcementUnit,
			ResolutionOffices: entry.Offices,
		})
	}
	return set.Records(), nil
}
