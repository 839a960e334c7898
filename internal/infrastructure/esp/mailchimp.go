package esp

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"espbridge/internal/domain"
	"espbridge/internal/ports"

	"github.com/rs/zerolog"
)

// defaultMailchimpHostFormat is the data-center-specific API base. The dc
// is the suffix after the last '-' in the API key (e.g. "xxxx-us19").
const defaultMailchimpHostFormat = "https://%s.api.mailchimp.com/3.0"

// basicAuthUser can be any string; Mailchimp only inspects the password.
const basicAuthUser = "anystring"

type mailchimp struct {
	httpClient *http.Client
	hostFormat string
	logger     zerolog.Logger
}

// NewMailchimp creates the Mailchimp adapter.
func NewMailchimp(logger zerolog.Logger) ports.Provider {
	return NewMailchimpWithOptions(logger, &http.Client{}, defaultMailchimpHostFormat)
}

// NewMailchimpWithOptions creates a Mailchimp adapter with a custom HTTP
// client and host format (the format receives the data center).
func NewMailchimpWithOptions(logger zerolog.Logger, httpClient *http.Client, hostFormat string) ports.Provider {
	return &mailchimp{
		httpClient: httpClient,
		hostFormat: hostFormat,
		logger:     logger,
	}
}

func (m *mailchimp) Name() string {
	return domain.ProviderMailchimp
}

// extractDataCenter returns the routing suffix after the last '-' in the
// API key, or "" when the key has no separator.
func extractDataCenter(apiKey string) string {
	idx := strings.LastIndex(apiKey, "-")
	if idx < 0 || idx == len(apiKey)-1 {
		return ""
	}
	return apiKey[idx+1:]
}

// baseURL resolves the dc-specific API base, failing with
// KindInvalidCredentials before any network call when the key carries no
// data center.
func (m *mailchimp) baseURL(apiKey string) (string, error) {
	dc := extractDataCenter(apiKey)
	if dc == "" {
		return "", domain.NewProviderError(domain.ProviderMailchimp, domain.KindInvalidCredentials,
			"api key is missing a data center suffix", nil)
	}
	return fmt.Sprintf(m.hostFormat, dc), nil
}

func (m *mailchimp) get(ctx context.Context, apiKey, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return domain.NewProviderError(domain.ProviderMailchimp, domain.KindProviderUnavailable,
			"failed to build request", err)
	}
	req.SetBasicAuth(basicAuthUser, apiKey)
	return getJSON(m.httpClient, domain.ProviderMailchimp, req, out)
}

// ValidateCredential calls the ping endpoint once with an 8s cutoff.
func (m *mailchimp) ValidateCredential(ctx context.Context, apiKey string) (*domain.ValidationResult, error) {
	base, err := m.baseURL(apiKey)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, validateTimeout)
	defer cancel()

	if err := m.get(ctx, apiKey, base+"/ping", nil); err != nil {
		return nil, err
	}

	return &domain.ValidationResult{
		Valid: true,
		Meta:  map[string]any{"dc": extractDataCenter(apiKey)},
	}, nil
}

type mailchimpListsResponse struct {
	Lists []struct {
		ID    string `json:"id"`
		Name  string `json:"name"`
		Stats *struct {
			MemberCount int `json:"member_count"`
		} `json:"stats"`
	} `json:"lists"`
}

// FetchLists returns the first page of audiences.
func (m *mailchimp) FetchLists(ctx context.Context, apiKey string) ([]domain.List, error) {
	base, err := m.baseURL(apiKey)
	if err != nil {
		return nil, err
	}

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	var resp mailchimpListsResponse
	if err := m.get(ctx, apiKey, fmt.Sprintf("%s/lists?count=%d", base, pageLimit), &resp); err != nil {
		return nil, err
	}

	lists := make([]domain.List, 0, len(resp.Lists))
	for _, l := range resp.Lists {
		item := domain.List{ID: l.ID, Name: l.Name}
		if l.Stats != nil {
			count := l.Stats.MemberCount
			item.MemberCount = &count
		}
		lists = append(lists, item)
	}
	return lists, nil
}

type mailchimpMembersResponse struct {
	Members []struct {
		ID           string `json:"id"`
		EmailAddress string `json:"email_address"`
		FullName     string `json:"full_name"`
		Status       string `json:"status"`
	} `json:"members"`
}

// FetchContacts aggregates the first page of members across every audience.
// The list fetch itself propagates failures; per-list member fetches during
// the fan-out are logged and skipped so one broken list does not sink the
// aggregate. Member fetches run concurrently but the result keeps the order
// FetchLists returned.
func (m *mailchimp) FetchContacts(ctx context.Context, apiKey string) ([]domain.Contact, error) {
	lists, err := m.FetchLists(ctx, apiKey)
	if err != nil {
		return nil, err
	}

	base, err := m.baseURL(apiKey)
	if err != nil {
		return nil, err
	}

	perList := make([][]domain.Contact, len(lists))
	var wg sync.WaitGroup
	for i, list := range lists {
		wg.Add(1)
		go func(i int, list domain.List) {
			defer wg.Done()
			contacts, err := m.fetchMembers(ctx, apiKey, base, list.ID)
			if err != nil {
				m.logger.Warn().
					Err(err).
					Str("list_id", list.ID).
					Msg("Skipping list after member fetch failure")
				return
			}
			perList[i] = contacts
		}(i, list)
	}
	wg.Wait()

	all := make([]domain.Contact, 0)
	for _, contacts := range perList {
		all = append(all, contacts...)
	}
	return all, nil
}

func (m *mailchimp) fetchMembers(ctx context.Context, apiKey, base, listID string) ([]domain.Contact, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	memberURL := fmt.Sprintf("%s/lists/%s/members?count=%d", base, url.PathEscape(listID), pageLimit)

	var resp mailchimpMembersResponse
	if err := m.get(ctx, apiKey, memberURL, &resp); err != nil {
		return nil, err
	}

	contacts := make([]domain.Contact, 0, len(resp.Members))
	for _, member := range resp.Members {
		contacts = append(contacts, domain.Contact{
			ID:     member.ID,
			Email:  member.EmailAddress,
			Name:   member.FullName,
			Status: member.Status,
		})
	}
	return contacts, nil
}
