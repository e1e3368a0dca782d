package providers

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/check-phat-nguoi/cpn-core/internal/core/domain"
)

// StatusError returns an error describing a non-2xx response, mapping
// throttling statuses onto domain.ErrRateLimited. A successful status
// yields nil.
func StatusError(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return fmt.Errorf("%w: http %s", domain.ErrRateLimited, resp.Status)
	}
	return fmt.Errorf("unexpected http status %s", resp.Status)
}

// Resolved maps a provider's status literal onto its boolean form. Only
// the exact resolved literal counts; anything else reads as outstanding.
func Resolved(status string) bool {
	return strings.TrimSpace(status) == domain.StatusResolved
}
