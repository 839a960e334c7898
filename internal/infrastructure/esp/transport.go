package esp

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"espbridge/internal/domain"
)

// Per-call timeouts. Both are hard cutoffs; expiry surfaces as
// KindProviderUnavailable.
const (
	validateTimeout = 8 * time.Second
	fetchTimeout    = 10 * time.Second
)

// pageLimit caps every provider fetch to a single first page.
const pageLimit = 100

// getJSON executes one prepared request and decodes the response into out
// (out may be nil to discard the body). Every failure path returns a
// classified *domain.ProviderError; no raw transport error escapes.
func getJSON(client *http.Client, provider string, req *http.Request, out any) error {
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return domain.NewProviderError(provider, domain.KindProviderUnavailable, "request failed", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return domain.NewProviderError(provider, domain.KindInvalidCredentials,
			fmt.Sprintf("provider rejected credentials (status %d)", resp.StatusCode), nil)
	case resp.StatusCode == http.StatusTooManyRequests:
		return domain.NewProviderError(provider, domain.KindRateLimited, "provider rate limited", nil)
	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		return domain.NewProviderError(provider, domain.KindProviderUnavailable,
			fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return domain.NewProviderError(provider, domain.KindProviderUnavailable, "failed to decode response", err)
	}
	return nil
}
