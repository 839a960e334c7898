package esp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"espbridge/internal/domain"
	"espbridge/internal/ports"

	"github.com/rs/zerolog"
)

// defaultGetResponseBase is the single static API host; GetResponse has no
// per-account routing.
const defaultGetResponseBase = "https://api.getresponse.com/v3"

type getresponse struct {
	httpClient *http.Client
	baseURL    string
	logger     zerolog.Logger
}

// NewGetResponse creates the GetResponse adapter.
func NewGetResponse(logger zerolog.Logger) ports.Provider {
	return NewGetResponseWithOptions(logger, &http.Client{}, defaultGetResponseBase)
}

// NewGetResponseWithOptions creates a GetResponse adapter with a custom
// HTTP client and base URL.
func NewGetResponseWithOptions(logger zerolog.Logger, httpClient *http.Client, baseURL string) ports.Provider {
	return &getresponse{
		httpClient: httpClient,
		baseURL:    baseURL,
		logger:     logger,
	}
}

func (g *getresponse) Name() string {
	return domain.ProviderGetResponse
}

func (g *getresponse) get(ctx context.Context, apiKey, rawURL string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return domain.NewProviderError(domain.ProviderGetResponse, domain.KindProviderUnavailable,
			"failed to build request", err)
	}
	req.Header.Set("X-Auth-Token", "api-key "+apiKey)
	return getJSON(g.httpClient, domain.ProviderGetResponse, req, out)
}

// ValidateCredential calls the accounts endpoint once with an 8s cutoff.
// The first account object returned, if any, is surfaced as meta.account.
func (g *getresponse) ValidateCredential(ctx context.Context, apiKey string) (*domain.ValidationResult, error) {
	ctx, cancel := context.WithTimeout(ctx, validateTimeout)
	defer cancel()

	var raw json.RawMessage
	if err := g.get(ctx, apiKey, g.baseURL+"/accounts", &raw); err != nil {
		return nil, err
	}

	meta := map[string]any{}
	var asArray []any
	if err := json.Unmarshal(raw, &asArray); err == nil {
		if len(asArray) > 0 {
			meta["account"] = asArray[0]
		}
	} else {
		var asObject any
		if err := json.Unmarshal(raw, &asObject); err == nil && asObject != nil {
			meta["account"] = asObject
		}
	}

	return &domain.ValidationResult{Valid: true, Meta: meta}, nil
}

type getresponseCampaign struct {
	CampaignID string `json:"campaignId"`
	ID         string `json:"id"`
	Name       string `json:"name"`
}

// FetchLists maps GetResponse campaigns onto normalized list items in one
// call; no fan-out.
func (g *getresponse) FetchLists(ctx context.Context, apiKey string) ([]domain.List, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	var campaigns []getresponseCampaign
	if err := g.get(ctx, apiKey, fmt.Sprintf("%s/campaigns?limit=%d", g.baseURL, pageLimit), &campaigns); err != nil {
		return nil, err
	}

	lists := make([]domain.List, 0, len(campaigns))
	for _, c := range campaigns {
		id := c.CampaignID
		if id == "" {
			id = c.ID
		}
		if id == "" {
			id = c.Name
		}
		lists = append(lists, domain.List{ID: id, Name: c.Name})
	}
	return lists, nil
}

type getresponseContact struct {
	ContactID string `json:"contactId"`
	Email     string `json:"email"`
	Name      string `json:"name"`
}

// FetchContacts is a single direct call; GetResponse exposes contacts
// account-wide rather than per campaign.
func (g *getresponse) FetchContacts(ctx context.Context, apiKey string) ([]domain.Contact, error) {
	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	var raw []getresponseContact
	if err := g.get(ctx, apiKey, fmt.Sprintf("%s/contacts?limit=%d", g.baseURL, pageLimit), &raw); err != nil {
		return nil, err
	}

	contacts := make([]domain.Contact, 0, len(raw))
	for _, c := range raw {
		contacts = append(contacts, domain.Contact{ID: c.ContactID, Email: c.Email, Name: c.Name})
	}
	return contacts, nil
}
