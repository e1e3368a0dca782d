package providers

import (
	"crypto/tls"
	"net/http"
	"sync"
	"time"
)

// SessionOption customises a Session at construction time.
type SessionOption func(*Session)

// WithLegacyTLS lowers the TLS floor to 1.0 and admits the legacy cipher
// suites. csgt.vn terminates TLS on a stack that modern defaults refuse
// to negotiate with.
func WithLegacyTLS() SessionOption {
	return func(s *Session) {
		s.legacyTLS = true
	}
}

// WithInsecureSkipVerify disables certificate verification on the
// session transport. Only the etraffic login endpoint needs this; its
// certificate chain does not validate against public roots.
func WithInsecureSkipVerify() SessionOption {
	return func(s *Session) {
		s.skipVerify = true
	}
}

// Session owns an http.Client shared by one provider engine. The client
// is built lazily so constructing an engine never allocates a transport
// for a provider that is never asked anything. Cookies are not jarred;
// engines that need them carry them explicitly between requests.
type Session struct {
	timeout    time.Duration
	legacyTLS  bool
	skipVerify bool

	mu     sync.Mutex
	client *http.Client
}

// NewSession creates a session whose requests time out after timeout.
func NewSession(timeout time.Duration, opts ...SessionOption) *Session {
	s := &Session{timeout: timeout}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Client returns the shared http.Client, building it on first use.
func (s *Session) Client() *http.Client {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client == nil {
		s.client = &http.Client{
			Timeout:   s.timeout,
			Transport: s.transport(),
		}
	}
	return s.client
}

// Reset discards the current client so the next request starts from a
// fresh connection. Engines that bind server state to a connection or
// cookie call this between attempts.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.client != nil {
		s.client.CloseIdleConnections()
		s.client = nil
	}
}

// Close releases the session's idle connections.
func (s *Session) Close() error {
	s.Reset()
	return nil
}

func (s *Session) transport() *http.Transport {
	t, ok := http.DefaultTransport.(*http.Transport)
	if ok {
		t = t.Clone()
	} else {
		t = &http.Transport{}
	}

	if s.legacyTLS || s.skipVerify {
		cfg := &tls.Config{}
		if s.legacyTLS {
			cfg.MinVersion = tls.VersionTLS10
			for _, suite := range tls.CipherSuites() {
				cfg.CipherSuites = append(cfg.CipherSuites, suite.ID)
			}
			for _, suite := range tls.InsecureCipherSuites() {
				cfg.CipherSuites = append(cfg.CipherSuites, suite.ID)
			}
		}
		if s.skipVerify {
			cfg.InsecureSkipVerify = true
		}
		t.TLSClientConfig = cfg
	}
	return t
}
