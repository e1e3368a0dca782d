package domain

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"
)

// ResultStatus classifies the outcome of one provider lookup.
type ResultStatus string

const (
	// StatusFound means the provider answered and reported violations.
	StatusFound ResultStatus = "found"
	// StatusNotFound means the provider answered and reported a clean
	// plate.
	StatusNotFound ResultStatus = "not_found"
	// StatusFailed means the provider could not produce an answer.
	StatusFailed ResultStatus = "failed"
)

// FailureKind classifies why a provider lookup failed.
type FailureKind string

const (
	// FailureTimeout means the lookup exceeded its deadline.
	FailureTimeout FailureKind = "timeout"
	// FailureNetwork means the provider was unreachable or the
	// connection broke.
	FailureNetwork FailureKind = "network"
	// FailureAuth means the provider rejected the configured
	// credentials.
	FailureAuth FailureKind = "auth_failed"
	// FailureCaptchaExhausted means every captcha attempt was rejected.
	FailureCaptchaExhausted FailureKind = "captcha_exhausted"
	// FailureMalformed means the response could not be decoded.
	FailureMalformed FailureKind = "malformed"
	// FailureRateLimited means the provider throttled the request.
	FailureRateLimited FailureKind = "rate_limited"
	// FailureUnknown covers everything else.
	FailureUnknown FailureKind = "unknown"
)

// Failure carries a classified lookup error. It wraps the underlying
// cause so callers can still errors.Is/As into it.
type Failure struct {
	Kind FailureKind
	Err  error
}

// Error implements the error interface.
func (f *Failure) Error() string {
	if f.Err == nil {
		return string(f.Kind)
	}
	return fmt.Sprintf("%s: %v", f.Kind, f.Err)
}

// Unwrap exposes the underlying cause to errors.Is and errors.As.
func (f *Failure) Unwrap() error {
	return f.Err
}

// Classify wraps err in a Failure with the kind derived from the error
// chain. A nil err yields nil.
func Classify(err error) *Failure {
	if err == nil {
		return nil
	}
	var f *Failure
	if errors.As(err, &f) {
		return f
	}
	return &Failure{Kind: classifyKind(err), Err: err}
}

func classifyKind(err error) FailureKind {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return FailureTimeout
	case errors.Is(err, ErrCaptchaExhausted):
		return FailureCaptchaExhausted
	case errors.Is(err, ErrAuthFailed), errors.Is(err, ErrNoSessionToken):
		return FailureAuth
	case errors.Is(err, ErrRateLimited):
		return FailureRateLimited
	case errors.Is(err, ErrMalformedResponse):
		return FailureMalformed
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return FailureTimeout
		}
		return FailureNetwork
	}
	return FailureUnknown
}

// ProviderResult is the classified outcome of one provider lookup.
// Engines never leak raw errors: every outcome is one of these.
type ProviderResult struct {
	// Provider is the source that produced this result.
	Provider Provider
	// Status classifies the outcome.
	Status ResultStatus
	// Records holds the deduplicated violations. Non-empty iff Status
	// is StatusFound.
	Records []ViolationRecord
	// Failure carries the classified error. Non-nil iff Status is
	// StatusFailed.
	Failure *Failure
	// Elapsed is how long the lookup took.
	Elapsed time.Duration
}

// FoundResult builds a successful result carrying records.
func FoundResult(p Provider, records []ViolationRecord) ProviderResult {
	return ProviderResult{Provider: p, Status: StatusFound, Records: records}
}

// NotFoundResult builds a successful result for a clean plate.
func NotFoundResult(p Provider) ProviderResult {
	return ProviderResult{Provider: p, Status: StatusNotFound}
}

// FailedResult builds a failed result, classifying err on the way in.
func FailedResult(p Provider, err error) ProviderResult {
	return ProviderResult{Provider: p, Status: StatusFailed, Failure: Classify(err)}
}

// Unresolved returns the records still awaiting penalty processing.
func (r ProviderResult) Unresolved() []ViolationRecord {
	var out []ViolationRecord
	for _, rec := range r.Records {
		if !rec.Resolved {
			out = append(out, rec)
		}
	}
	return out
}

// LookupResult aggregates every provider's outcome for one plate.
type LookupResult struct {
	// RunID uniquely identifies the lookup run for log correlation.
	RunID string
	// Plate is the plate the lookup ran for.
	Plate PlateInfo
	// Results holds one entry per queried provider, in the order the
	// providers were configured.
	Results []ProviderResult
}

// Best returns the first result that answered: Found wins over NotFound,
// NotFound wins over Failed. Ok is false when every provider failed.
func (l LookupResult) Best() (ProviderResult, bool) {
	var notFound *ProviderResult
	for i := range l.Results {
		switch l.Results[i].Status {
		case StatusFound:
			return l.Results[i], true
		case StatusNotFound:
			if notFound == nil {
				notFound = &l.Results[i]
			}
		}
	}
	if notFound != nil {
		return *notFound, true
	}
	return ProviderResult{}, false
}

// Failed returns the results that produced no answer.
func (l LookupResult) Failed() []ProviderResult {
	var out []ProviderResult
	for _, r := range l.Results {
		if r.Status == StatusFailed {
			out = append(out, r)
		}
	}
	return out
}
