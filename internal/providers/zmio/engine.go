// Package zmio looks up violations through the zm.io.vn JSON API, a
// mirror of the csgt.vn data without the captcha wall.
package zmio

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/check-phat-nguoi/cpn-core/internal/core/domain"
	"github.com/check-phat-nguoi/cpn-core/internal/core/ports/driven"
	"github.com/check-phat-nguoi/cpn-core/internal/providers"
)

const defaultEndpoint = "https://api.zm.io.vn/v1/csgt/tracuu"

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

// Engine implements driven.ProviderEngine for zm.io.vn.
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
		log:      cfg.Logger.With().Str("provider", domain.ProviderZMIO.String()).Logger(),
	}
}

// Provider identifies the source this engine queries.
func (e *Engine) Provider() domain.Provider {
	return domain.ProviderZMIO
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

type searchResponse struct {
	// Data is absent entirely when the mirror has nothing cached for
	// the query.
	Data *searchPayload `json:"data"`
	// Error carries the server-side failure message, when any.
	Error string `json:"error"`
}

type searchPayload struct {
	// JSON holds the structured entries; null means a clean plate.
	JSON []violation `json:"json"`
	HTML string      `json:"html"`
	CSS  string      `json:"css"`
}

type violation struct {
	Plate           string `json:"bienkiemsoat"`
	PlateColor      string `json:"maubien"`
	VehicleClass    string `json:"loaiphuongtien"`
	Time            string `json:"thoigianvipham"`
	Location        string `json:"diadiemvipham"`
	Status          string `json:"trangthai"`
	EnforcementUnit string `json:"donviphathienvipham"`
	Office          string `json:"noigiaiquyetvuviec"`
}

func (e *Engine) lookup(ctx context.Context, plate domain.PlateInfo) domain.ProviderResult {
	normalized := plate.NormalizedPlate()
	e.log.Debug().Str("plate", normalized).Msg("querying violations")

	query := url.Values{}
	query.Set("licensePlate", normalized)
	query.Set("vehicleType", strconv.Itoa(plate.VehicleClass.Code()))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.endpoint+"?"+query.Encode(), nil)
	if err != nil {
		return domain.FailedResult(e.Provider(), fmt.Errorf("build request: %w", err))
	}

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

	if decoded.Data == nil {
		return domain.FailedResult(e.Provider(), fmt.Errorf("%w: missing data payload (error=%q)", domain.ErrMalformedResponse, decoded.Error))
	}
	if decoded.Data.JSON == nil {
		return domain.NotFoundResult(e.Provider())
	}

	records, err := collect(decoded.Data.JSON)
	if err != nil {
		return domain.FailedResult(e.Provider(), err)
	}
	if len(records) == 0 {
		return domain.NotFoundResult(e.Provider())
	}
	return domain.FoundResult(e.Provider(), records)
}

// collect converts API entries into records. The mirror carries no
// violation description, so that field stays empty.
func collect(entries []violation) ([]domain.ViolationRecord, error) {
	set := domain.NewRecordSet()
	for _, entry := range entries {
		class, err := domain.ParseVehicleClass(entry.VehicleClass)
		if err != nil {
			return nil, fmt.Errorf("%w: vehicle class: %v", domain.ErrMalformedResponse, err)
		}
		when, err := time.Parse(domain.ViolationTimeLayout, entry.Time)
		if err != nil {
			return nil, fmt.Errorf("%w: violation time %q", domain.ErrMalformedResponse, entry.Time)
		}

		var offices []string
		if entry.Office != "" {
			offices = []string{entry.Office}
		}
		set.Add(domain.ViolationRecord{
			Plate:             domain.NormalizePlate(entry.Plate),
			PlateColor:        entry.PlateColor,
			VehicleClass:      class,
			Time:              when,
			Location:          entry.Location,
			Resolved:          providers.Resolved(entry.Status),
			EnforcementUnit:   entry.EnforcementUnit,
			ResolutionOffices: offices,
		})
	}
	return set.Records(), nil
}
