// Package etraffic looks up violations through the eTraffic citizen
// API run by gtelict.vn. The API wants a bearer token from a
// credential login and throttles lookups per account and day.
package etraffic

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/check-phat-nguoi/cpn-core/internal/core/domain"
	"github.com/check-phat-nguoi/cpn-core/internal/core/ports/driven"
	"github.com/check-phat-nguoi/cpn-core/internal/providers"
)

const (
	defaultLoginEndpoint = "https://etraffic.gtelict.vn/api/citizen/v2/auth/login"
	defaultFinesEndpoint = "https://etraffic.gtelict.vn/api/citizen/v2/property/deferred/fines"

	// userAgent mimics the official mobile client; the API refuses
	// unknown agents.
	userAgent = "C08_CD/1.1.8 (com.ots.global.vneTrafic; build:32; iOS 18.2.1) Alamofire/5.10.2"
)

// Config configures the engine. Credentials are required; everything
// else falls back to production defaults.
type Config struct {
	// CitizenID is the citizen identity number to log in with.
	CitizenID string

	// Password is the account password.
	Password string

	// LoginEndpoint overrides the login URL. Tests point it at a local
	// server.
	LoginEndpoint string

	// FinesEndpoint overrides the lookup URL.
	FinesEndpoint string

	// Timeout bounds each HTTP request.
	Timeout time.Duration

	// Logger receives lookup events.
	Logger zerolog.Logger
}

// Engine implements driven.ProviderEngine for etraffic.gtelict.vn.
type Engine struct {
	finesEndpoint string
	session       *providers.Session
	loginSession  *providers.Session
	tokens        oauth2.TokenSource
	log           zerolog.Logger
}

var _ driven.ProviderEngine = (*Engine)(nil)

// New creates an Engine from cfg.
func New(cfg Config) *Engine {
	if cfg.LoginEndpoint == "" {
		cfg.LoginEndpoint = defaultLoginEndpoint
	}
	if cfg.FinesEndpoint == "" {
		cfg.FinesEndpoint = defaultFinesEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = domain.DefaultTimeoutSeconds * time.Second
	}
	log := cfg.Logger.With().Str("provider", domain.ProviderETraffic.String()).Logger()

	// The login endpoint's certificate chain does not validate against
	// public roots; only that transport skips verification.
	loginSession := providers.NewSession(cfg.Timeout, providers.WithInsecureSkipVerify())
	source := &loginTokenSource{
		endpoint: cfg.LoginEndpoint,
		citizen:  cfg.CitizenID,
		password: cfg.Password,
		session:  loginSession,
		log:      log,
	}

	return &Engine{
		finesEndpoint: cfg.FinesEndpoint,
		session:       providers.NewSession(cfg.Timeout),
		loginSession:  loginSession,
		tokens:        oauth2.ReuseTokenSource(nil, source),
		log:           log,
	}
}

// Provider identifies the source this engine queries.
func (e *Engine) Provider() domain.Provider {
	return domain.ProviderETraffic
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
	err := e.session.Close()
	if lerr := e.loginSession.Close(); err == nil {
		err = lerr
	}
	return err
}

// finesResponse covers both answer shapes the API produces: a data
// array on success, or a guid/code envelope when the account hit the
// daily lookup cap.
type finesResponse struct {
	Data    []violation `json:"data"`
	Guid    string      `json:"guid"`
	Code    string      `json:"code"`
	Message string      `json:"message"`
}

type violation struct {
	Plate           string `json:"licensePlate"`
	PlateColor      string `json:"licensePlateType"`
	VehicleClass    string `json:"vehicleType"`
	Time            string `json:"violationAt"`
	Location        string `json:"handlingAddress"`
	Status          string `json:"statusType"`
	EnforcementUnit string `json:"propertyName"`
	Department      string `json:"departmentName"`
}

func (e *Engine) lookup(ctx context.Context, plate domain.PlateInfo) domain.ProviderResult {
	normalized := plate.NormalizedPlate()
	e.log.Debug().Str("plate", normalized).Msg("querying violations")

	token, err := e.tokens.Token()
	if err != nil {
		return domain.FailedResult(e.Provider(), err)
	}

	query := url.Values{}
	query.Set("licensePlate", normalized)
	query.Set("type", strconv.Itoa(plate.VehicleClass.Code()))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.finesEndpoint+"?"+query.Encode(), nil)
	if err != nil {
		return domain.FailedResult(e.Provider(), fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("User-Agent", userAgent)
	token.SetAuthHeader(req)

	resp, err := e.session.Client().Do(req)
	if err != nil {
		return domain.FailedResult(e.Provider(), fmt.Errorf("query api: %w", err))
	}
	defer resp.Body.Close()

	if err := providers.StatusError(resp); err != nil {
		return domain.FailedResult(e.Provider(), err)
	}

	var decoded finesResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return domain.FailedResult(e.Provider(), fmt.Errorf("%w: decode response: %v", domain.ErrMalformedResponse, err))
	}

	if decoded.Data == nil {
		if decoded.Code != "" || decoded.Guid != "" {
			return domain.FailedResult(e.Provider(), fmt.Errorf("%w: %s", domain.ErrRateLimited, decoded.Message))
		}
		return domain.FailedResult(e.Provider(), fmt.Errorf("%w: response carries no data", domain.ErrMalformedResponse))
	}

	records, err := collect(decoded.Data)
	if err != nil {
		return domain.FailedResult(e.Provider(), err)
	}
	if len(records) == 0 {
		return domain.NotFoundResult(e.Provider())
	}
	return domain.FoundResult(e.Provider(), records)
}

// collect converts API entries into records. The API reports cars as
// "Ô tô con" and carries no violation description; the department is
// the single resolution office.
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
		if entry.Department != "" {
			offices = []string{entry.Department}
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
