// Package phatnguoi looks up violations through the phatnguoi.vn web
// API, which answers with an HTML fragment of per-violation tables.
package phatnguoi

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/check-phat-nguoi/cpn-core/internal/core/domain"
	"github.com/check-phat-nguoi/cpn-core/internal/core/ports/driven"
	"github.com/check-phat-nguoi/cpn-core/internal/providers"
)

const defaultEndpoint = "https://api.phatnguoi.vn/web/tra-cuu"

// Config configures the engine. Zero values fall back to the production
// endpoint and the default lookup timeout.
type Config struct {
	// Endpoint overrides the API base URL. Tests point it at a local
	// server.
	Endpoint string

	// Timeout bounds each lookup request.
	Timeout time.Duration

	// Logger receives lookup events.
	Logger zerolog.Logger
}

// Engine implements driven.ProviderEngine for phatnguoi.vn.
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
		log:      cfg.Logger.With().Str("provider", domain.ProviderPhatNguoi.String()).Logger(),
	}
}

// Provider identifies the source this engine queries.
func (e *Engine) Provider() domain.Provider {
	return domain.ProviderPhatNguoi
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

func (e *Engine) lookup(ctx context.Context, plate domain.PlateInfo) domain.ProviderResult {
	normalized := plate.NormalizedPlate()
	e.log.Debug().Str("plate", normalized).Msg("querying violations")

	lookupURL := fmt.Sprintf("%s/%s/%s",
		e.endpoint,
		url.PathEscape(normalized),
		strconv.Itoa(plate.VehicleClass.Code()),
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, lookupURL, nil)
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
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return domain.FailedResult(e.Provider(), fmt.Errorf("read response: %w", err))
	}

	records, err := parser{plate: plate, log: e.log}.parse(string(body))
	if err != nil {
		return domain.FailedResult(e.Provider(), err)
	}
	if len(records) == 0 {
		return domain.NotFoundResult(e.Provider())
	}
	return domain.FoundResult(e.Provider(), records)
}
