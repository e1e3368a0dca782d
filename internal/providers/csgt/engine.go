// Package csgt looks up violations on csgt.vn, the official public
// lookup. The site guards its results behind an image captcha bound to
// a PHP session cookie: each attempt fetches a captcha, runs it through
// the solver and posts the answer; a rejected answer burns the session
// and the next attempt starts over with a fresh one.
package csgt

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/check-phat-nguoi/cpn-core/internal/core/domain"
	"github.com/check-phat-nguoi/cpn-core/internal/core/ports/driven"
	"github.com/check-phat-nguoi/cpn-core/internal/providers"
)

const (
	defaultCaptchaEndpoint = "https://www.csgt.vn/lib/captcha/captcha.class.php"
	defaultCheckEndpoint   = "https://www.csgt.vn/?mod=contact&task=tracuu_post&ajax"
	defaultResultEndpoint  = "https://www.csgt.vn/tra-cuu-phuong-tien-vi-pham.html"

	// rejectedBody is the entire response body the check endpoint sends
	// back for a wrong captcha answer.
	rejectedBody = "404"

	// clientAddr fills the ipClient form field. The endpoint wants some
	// address there and accepts this fixed one.
	clientAddr = "9.9.9.91"
)

// Config configures the engine. A captcha solver is required; every
// other zero value falls back to the production site defaults.
type Config struct {
	// Solver answers the captcha images.
	Solver driven.CaptchaSolver

	// CaptchaRetries is the total number of captcha attempts per
	// lookup. Zero or negative means domain.DefaultCaptchaRetries.
	CaptchaRetries int

	// CaptchaEndpoint, CheckEndpoint and ResultEndpoint override the
	// site URLs. Tests point them at a local server.
	CaptchaEndpoint string
	CheckEndpoint   string
	ResultEndpoint  string

	// Timeout bounds each HTTP request.
	Timeout time.Duration

	// Logger receives lookup events.
	Logger zerolog.Logger
}

// Engine implements driven.ProviderEngine for csgt.vn.
type Engine struct {
	solver          driven.CaptchaSolver
	retries         int
	captchaEndpoint string
	checkEndpoint   string
	resultEndpoint  string
	session         *providers.Session
	log             zerolog.Logger
}

var _ driven.ProviderEngine = (*Engine)(nil)

// New creates an Engine from cfg.
func New(cfg Config) *Engine {
	if cfg.CaptchaRetries <= 0 {
		cfg.CaptchaRetries = domain.DefaultCaptchaRetries
	}
	if cfg.CaptchaEndpoint == "" {
		cfg.CaptchaEndpoint = defaultCaptchaEndpoint
	}
	if cfg.CheckEndpoint == "" {
		cfg.CheckEndpoint = defaultCheckEndpoint
	}
	if cfg.ResultEndpoint == "" {
		cfg.ResultEndpoint = defaultResultEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = domain.DefaultTimeoutSeconds * time.Second
	}
	return &Engine{
		solver:          cfg.Solver,
		retries:         cfg.CaptchaRetries,
		captchaEndpoint: cfg.CaptchaEndpoint,
		checkEndpoint:   cfg.CheckEndpoint,
		resultEndpoint:  cfg.ResultEndpoint,
		// The site's TLS stack needs the legacy configuration.
		session: providers.NewSession(cfg.Timeout, providers.WithLegacyTLS()),
		log:     cfg.Logger.With().Str("provider", domain.ProviderCSGT.String()).Logger(),
	}
}

// Provider identifies the source this engine queries.
func (e *Engine) Provider() domain.Provider {
	return domain.ProviderCSGT
}

// Fetch looks up the plate. Every outcome comes back as a classified
// ProviderResult; errors never leak.
func (e *Engine) Fetch(ctx context.Context, plate domain.PlateInfo) domain.ProviderResult {
	start := time.Now()
	res := e.lookup(ctx, plate)
	res.Elapsed = time.Since(start)
	return res
}

// Close releases the engine's connections. The solver has its own
// lifecycle and is not closed here.
func (e *Engine) Close() error {
	return e.session.Close()
}

func (e *Engine) lookup(ctx context.Context, plate domain.PlateInfo) domain.ProviderResult {
	if e.solver == nil {
		return domain.FailedResult(e.Provider(), fmt.Errorf("%w: no captcha solver configured", domain.ErrInvalidConfig))
	}

	normalized := plate.NormalizedPlate()
	e.log.Debug().Str("plate", normalized).Msg("querying violations")

	// Start every lookup on a fresh connection; the server binds
	// captcha state to the session.
	e.session.Reset()

	page, err := e.resultPage(ctx, plate)
	if err != nil {
		return domain.FailedResult(e.Provider(), err)
	}

	records, err := parse(page)
	if err != nil {
		return domain.FailedResult(e.Provider(), err)
	}
	if len(records) == 0 {
		return domain.NotFoundResult(e.Provider())
	}
	return domain.FoundResult(e.Provider(), records)
}

// resultPage runs the captcha loop until the site accepts an answer or
// the attempt budget is spent. Only rejected answers are retried; every
// other failure aborts immediately.
func (e *Engine) resultPage(ctx context.Context, plate domain.PlateInfo) (string, error) {
	var last error
	for attempt := 1; attempt <= e.retries; attempt++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		if attempt > 1 {
			e.log.Info().
				Str("plate", plate.NormalizedPlate()).
				Int("attempt", attempt).
				Msg("captcha rejected, retrying with a fresh session")
		}

		page, err := e.attempt(ctx, plate)
		if err == nil {
			return page, nil
		}
		if !errors.Is(err, domain.ErrCaptchaRejected) {
			return "", err
		}
		last = err
	}
	return "", fmt.Errorf("%w: %d attempt(s): %w", domain.ErrCaptchaExhausted, e.retries, last)
}

// attempt runs one captcha cycle: fetch image and session, solve, post
// the answer, and on acceptance fetch the result page.
func (e *Engine) attempt(ctx context.Context, plate domain.PlateInfo) (string, error) {
	sessionID, image, err := e.captcha(ctx)
	if err != nil {
		return "", err
	}

	answer, err := e.solver.Solve(ctx, image)
	if err != nil {
		return "", fmt.Errorf("solve captcha: %w", err)
	}
	e.log.Debug().Str("answer", answer).Msg("captcha solved")

	if err := e.check(ctx, plate, sessionID, answer); err != nil {
		return "", err
	}
	return e.resultData(ctx, plate, sessionID)
}

// captcha fetches a captcha image and the session cookie it is bound
// to. A response without the cookie means the site will never accept
// the answer, so there is nothing to retry.
func (e *Engine) captcha(ctx context.Context) (string, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.captchaEndpoint, nil)
	if err != nil {
		return "", nil, fmt.Errorf("build captcha request: %w", err)
	}

	resp, err := e.session.Client().Do(req)
	if err != nil {
		return "", nil, fmt.Errorf("fetch captcha: %w", err)
	}
	defer resp.Body.Close()

	if err := providers.StatusError(resp); err != nil {
		return "", nil, err
	}

	var sessionID string
	for _, cookie := range resp.Cookies() {
		if cookie.Name == "PHPSESSID" {
			sessionID = cookie.Value
		}
	}
	if sessionID == "" {
		return "", nil, fmt.Errorf("%w: captcha response sets no session cookie", domain.ErrAuthFailed)
	}

	image, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", nil, fmt.Errorf("read captcha image: %w", err)
	}
	return sessionID, image, nil
}

// check posts the captcha answer. The endpoint answers with a bare
// "404" body for a wrong answer and an HTML snippet otherwise.
func (e *Engine) check(ctx context.Context, plate domain.PlateInfo, sessionID, answer string) error {
	code := strconv.Itoa(plate.VehicleClass.Code())
	form := url.Values{}
	form.Set("BienKS", plate.NormalizedPlate())
	form.Set("Xe", code)
	form.Set("captcha", answer)
	form.Set("ipClient", clientAddr)
	form.Set("cUrl", code)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, e.checkEndpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("build check request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(&http.Cookie{Name: "PHPSESSID", Value: sessionID})

	resp, err := e.session.Client().Do(req)
	if err != nil {
		return fmt.Errorf("post captcha answer: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read check response: %w", err)
	}
	if captchaRejected(body) {
		return fmt.Errorf("%w: answer %q", domain.ErrCaptchaRejected, answer)
	}
	return nil
}

// captchaRejected reports whether the check endpoint turned the answer
// down. The portal signals rejection with a bare "404" body rather than
// an HTTP status; nothing else about the response distinguishes the two
// outcomes, so this comparison is the single place tracking that
// contract.
func captchaRejected(body []byte) bool {
	return strings.TrimSpace(string(body)) == rejectedBody
}

// resultData fetches the violation page for an accepted session.
func (e *Engine) resultData(ctx context.Context, plate domain.PlateInfo, sessionID string) (string, error) {
	resultURL := fmt.Sprintf("%s?&LoaiXe=%d&BienKiemSoat=%s",
		e.resultEndpoint,
		plate.VehicleClass.Code(),
		url.QueryEscape(plate.NormalizedPlate()),
	)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, resultURL, nil)
	if err != nil {
		return "", fmt.Errorf("build result request: %w", err)
	}
	req.AddCookie(&http.Cookie{Name: "PHPSESSID", Value: sessionID})

	resp, err := e.session.Client().Do(req)
	if err != nil {
		return "", fmt.Errorf("fetch result page: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read result page: %w", err)
	}
	return string(body), nil
}
