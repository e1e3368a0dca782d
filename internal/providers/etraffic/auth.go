package etraffic

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"
	"golang.org/x/oauth2"

	"github.com/check-phat-nguoi/cpn-core/internal/core/domain"
	"github.com/check-phat-nguoi/cpn-core/internal/providers"
)

// loginTokenSource implements oauth2.TokenSource by logging in with the
// configured citizen credentials. The service hands back a refresh
// token that doubles as the bearer token for every other call. Wrapped
// in oauth2.ReuseTokenSource, the login runs once per engine lifetime.
type loginTokenSource struct {
	endpoint string
	citizen  string
	password string
	session  *providers.Session
	log      zerolog.Logger
}

var _ oauth2.TokenSource = (*loginTokenSource)(nil)

// loginRequest is the login payload. The misspelled identity key is the
// wire format the service actually accepts; do not correct it.
type loginRequest struct {
	CitizenIdentity string `json:"citizenIndentify"`
	Password        string `json:"password"`
}

type loginResponse struct {
	Value struct {
		RefreshToken string `json:"refreshToken"`
	} `json:"value"`
}

// Token logs in and returns the bearer token. Requests are bounded by
// the session timeout rather than a caller context; oauth2.TokenSource
// carries none.
func (s *loginTokenSource) Token() (*oauth2.Token, error) {
	payload, err := json.Marshal(loginRequest{CitizenIdentity: s.citizen, Password: s.password})
	if err != nil {
		return nil, fmt.Errorf("encode login: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("build login request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := s.session.Client().Do(req)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return nil, fmt.Errorf("%w: login rejected with http %s", domain.ErrAuthFailed, resp.Status)
	}
	if err := providers.StatusError(resp); err != nil {
		return nil, err
	}

	var decoded loginResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("%w: decode login response: %v", domain.ErrMalformedResponse, err)
	}
	if decoded.Value.RefreshToken == "" {
		return nil, fmt.Errorf("%w: login response carries no token", domain.ErrAuthFailed)
	}

	s.log.Debug().Msg("logged in")
	return &oauth2.Token{AccessToken: decoded.Value.RefreshToken, TokenType: "Bearer"}, nil
}
