// Package tracuuphatnguoi looks up violations through
// tracuuphatnguoi.net. The site hands out a CSRF token on its homepage
// and rotates it with every lookup response; the engine caches the
// current token for its lifetime.
package tracuuphatnguoi

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/net/html"

	"github.com/check-phat-nguoi/cpn-core/internal/core/domain"
	"github.com/check-phat-nguoi/cpn-core/internal/core/ports/driven"
	"github.com/check-phat-nguoi/cpn-core/internal/providers"
)

const defaultBaseURL = "https://tracuuphatnguoi.net"

// The site only answers requests that carry some session cookie; the
// value itself is never checked.
const sessionCookie = "abc"

// Config configures the engine. Zero values fall back to the production
// site and the default lookup timeout.
type Config struct {
	// BaseURL overrides the site root. Tests point it at a local server.
	BaseURL string

	// Timeout bounds each HTTP request.
	Timeout time.Duration

	// Logger receives lookup events.
	Logger zerolog.Logger
}

// Engine implements driven.ProviderEngine for tracuuphatnguoi.net.
type Engine struct {
	baseURL string
	session *providers.Session
	log     zerolog.Logger

	mu    sync.Mutex
	token string
}

var _ driven.ProviderEngine = (*Engine)(nil)

// New creates an Engine from cfg.
func New(cfg Config) *Engine {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = domain.DefaultTimeoutSeconds * time.Second
	}
	return &Engine{
		baseURL: cfg.BaseURL,
		session: providers.NewSession(cfg.Timeout),
		log:     cfg.Logger.With().Str("provider", domain.ProviderTraCuuPhatNguoi.String()).Logger(),
	}
}

// Provider identifies the source this engine queries.
func (e *Engine) Provider() domain.Provider {
	return domain.ProviderTraCuuPhatNguoi
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

type lookupResponse struct {
	HTML string `json:"html"`
	// Token replaces the one the request was made with.
	Token string `json:"token"`
}

func (e *Engine) lookup(ctx context.Context, plate domain.PlateInfo) domain.ProviderResult {
	normalized := plate.NormalizedPlate()
	e.log.Debug().Str("plate", normalized).Msg("querying violations")

	token, err := e.sessionToken(ctx)
	if err != nil {
		return domain.FailedResult(e.Provider(), err)
	}

	query := url.Values{}
	query.Set("BienKS", normalized)
	query.Set("Xe", strconv.Itoa(plate.VehicleClass.Code()))
	query.Set("token", token)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.baseURL+"/tracuu1.php?"+query.Encode(), nil)
	if err != nil {
		return domain.FailedResult(e.Provider(), fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Referer", e.baseURL+"/")
	req.AddCookie(&http.Cookie{Name: "PHPSESSID", Value: sessionCookie})

	resp, err := e.session.Client().Do(req)
	if err != nil {
		return domain.FailedResult(e.Provider(), fmt.Errorf("query site: %w", err))
	}
	defer resp.Body.Close()

	if err := providers.StatusError(resp); err != nil {
		return domain.FailedResult(e.Provider(), err)
	}

	var decoded lookupResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.FailedResult(e.Provider(), fmt.Errorf("%w: decode response: %v", domain.ErrMalformedResponse, err))
	}
	e.storeToken(decoded.Token)

	records, err := parse(decoded.HTML, plate)
	if err != nil {
		return domain.FailedResult(e.Provider(), err)
	}
	if len(records) == 0 {
		return domain.NotFoundResult(e.Provider())
	}
	return domain.FoundResult(e.Provider(), records)
}

// sessionToken returns the cached CSRF token, scraping the homepage for
// the initial one.
func (e *Engine) sessionToken(ctx context.Context) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.token != "" {
		return e.token, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.baseURL, nil)
	if err != nil {
		return "", fmt.Errorf("build token request: %w", err)
	}
	req.AddCookie(&http.Cookie{Name: "PHPSESSID", Value: sessionCookie})

	resp, err := e.session.Client().Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch homepage: %w", err)
	}
	defer resp.Body.Close()

	if err := providers.StatusError(resp); err != nil {
		return "", err
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: parse homepage: %v", domain.ErrMalformedResponse, err)
	}
	field := providers.FindByID(doc, "csrf")
	if field == nil {
		return "", fmt.Errorf("%w: no csrf field on homepage", domain.ErrNoSessionToken)
	}
	token := providers.Attr(field, "value")
	if token == "" {
		return "", fmt.Errorf("%w: empty csrf field on homepage", domain.ErrNoSessionToken)
	}

	e.token = token
	e.log.Debug().Msg("scraped session token")
	return token, nil
}

// storeToken remembers the rotated token for the next lookup.
func (e *Engine) storeToken(token string) {
	if token == "" {
		return
	}
	e.mu.Lock()
	e.token = token
	e.mu.Unlock()
}
