package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrUnknownVehicleClass indicates a vehicle class string or code
	// that no known representation matches.
	ErrUnknownVehicleClass = errors.New("unknown vehicle class")

	// ErrUnknownProvider indicates a provider name that is not registered.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrInvalidConfig indicates a configuration value failed validation.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrMalformedResponse indicates a provider response that could not
	// be decoded into violation records.
	ErrMalformedResponse = errors.New("malformed provider response")

	// Authentication Errors.

	// ErrAuthFailed indicates the provider rejected the configured
	// credentials.
	ErrAuthFailed = errors.New("authentication failed")

	// ErrNoSessionToken indicates a session page did not carry the
	// expected anti-forgery token.
	ErrNoSessionToken = errors.New("no session token in response")

	// Captcha Errors.

	// ErrCaptchaRejected indicates the provider refused a submitted
	// captcha answer. One retry cycle consumes one of these.
	ErrCaptchaRejected = errors.New("captcha answer rejected")

	// ErrCaptchaExhausted indicates all captcha attempts for a lookup
	// were rejected.
	ErrCaptchaExhausted = errors.New("captcha attempts exhausted")

	// ErrCaptchaUnreadable indicates the solver produced no plausible
	// answer from the captcha image.
	ErrCaptchaUnreadable = errors.New("captcha image unreadable")

	// Provider Errors.

	// ErrRateLimited indicates the API rate limit was exceeded.
	ErrRateLimited = errors.New("rate limited")

	// ErrProviderClosed indicates the provider engine has been closed.
	ErrProviderClosed = errors.New("provider closed")

	// Notification Errors.

	// ErrDelivery indicates a notification channel rejected or failed a
	// send.
	ErrDelivery = errors.New("notification delivery failed")
)
