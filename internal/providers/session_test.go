package providers

import (
	"crypto/tls"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSessionClientIsLazyAndShared tests that the client is built on
// first use and reused afterwards.
func TestSessionClientIsLazyAndShared(t *testing.T) {
	s := NewSession(5 * time.Second)
	defer s.Close()

	first := s.Client()
	require.NotNil(t, first)
	assert.Equal(t, 5*time.Second, first.Timeout)
	assert.Same(t, first, s.Client())
}

// TestSessionReset tests that Reset discards the cached client so the
// next request starts over.
func TestSessionReset(t *testing.T) {
	s := NewSession(time.Second)
	defer s.Close()

	first := s.Client()
	s.Reset()
	assert.NotSame(t, first, s.Client())
}

// TestSessionLegacyTLS tests that the legacy option widens the TLS
// floor and cipher set.
func TestSessionLegacyTLS(t *testing.T) {
	s := NewSession(time.Second, WithLegacyTLS())
	defer s.Close()

	transport, ok := s.Client().Transport.(*http.Transport)
	require.True(t, ok)
	require.NotNil(t, transport.TLSClientConfig)
	assert.Equal(t, uint16(tls.VersionTLS10), transport.TLSClientConfig.MinVersion)
	assert.NotEmpty(t, transport.TLSClientConfig.CipherSuites)
	assert.False(t, transport.TLSClientConfig.InsecureSkipVerify)
}

// TestSessionInsecureSkipVerify tests the verification bypass used by
// the etraffic login transport.
func TestSessionInsecureSkipVerify(t *testing.T) {
	s := NewSession(time.Second, WithInsecureSkipVerify())
	defer s.Close()

	transport, ok := s.Client().Transport.(*http.Transport)
	require.True(t, ok)
	require.NotNil(t, transport.TLSClientConfig)
	assert.True(t, transport.TLSClientConfig.InsecureSkipVerify)
	assert.Zero(t, transport.TLSClientConfig.MinVersion)
}

// TestSessionDefaultTransport tests that a plain session keeps the
// default TLS configuration.
func TestSessionDefaultTransport(t *testing.T) {
	s := NewSession(time.Second)
	defer s.Close()

	transport, ok := s.Client().Transport.(*http.Transport)
	require.True(t, ok)
	assert.Nil(t, transport.TLSClientConfig)
}
