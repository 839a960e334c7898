package esp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"espbridge/internal/domain"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newGetResponseFixture(t *testing.T, mux *http.ServeMux) *getresponse {
	t.Helper()
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return NewGetResponseWithOptions(zerolog.Nop(), srv.Client(), srv.URL).(*getresponse)
}

func TestGetResponseValidateCredential(t *testing.T) {
	mux := http.NewServeMux()
	var gotToken string
	mux.HandleFunc("/accounts", func(w http.ResponseWriter, r *http.Request) {
		gotToken = r.Header.Get("X-Auth-Token")
		json.NewEncoder(w).Encode([]map[string]any{
			{"accountId": "acc-1", "email": "owner@example.com"},
		})
	})
	adapter := newGetResponseFixture(t, mux)

	result, err := adapter.ValidateCredential(context.Background(), "VALIDKEY")
	require.NoError(t, err)

	assert.True(t, result.Valid)
	assert.Equal(t, "api-key VALIDKEY", gotToken)
	account, ok := result.Meta["account"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "acc-1", account["accountId"])
}

func TestGetResponseValidateSingleObjectAccount(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/accounts", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"accountId": "acc-2"})
	})
	adapter := newGetResponseFixture(t, mux)

	result, err := adapter.ValidateCredential(context.Background(), "VALIDKEY")
	require.NoError(t, err)

	account, ok := result.Meta["account"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "acc-2", account["accountId"])
}

func TestGetResponseValidateRejected(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/accounts", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	})
	adapter := newGetResponseFixture(t, mux)

	_, err := adapter.ValidateCredential(context.Background(), "badkey")

	kind, ok := domain.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, domain.KindInvalidCredentials, kind)
}

func TestGetResponseFetchListsNormalization(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/campaigns", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{
			{"campaignId": "c1", "name": "Spring"},
			{"name": "Only name"},
		})
	})
	adapter := newGetResponseFixture(t, mux)

	lists, err := adapter.FetchLists(context.Background(), "VALIDKEY")
	require.NoError(t, err)

	require.Len(t, lists, 2)
	assert.Equal(t, "c1", lists[0].ID)
	assert.Equal(t, "Spring", lists[0].Name)
	assert.Equal(t, "Only name", lists[1].ID, "id falls back to name when campaignId is absent")
}

func TestGetResponseFetchContacts(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/contacts", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]map[string]any{
			{"contactId": "ct1", "email": "a@example.com", "name": "A"},
		})
	})
	adapter := newGetResponseFixture(t, mux)

	contacts, err := adapter.FetchContacts(context.Background(), "VALIDKEY")
	require.NoError(t, err)

	require.Len(t, contacts, 1)
	assert.Equal(t, "ct1", contacts[0].ID)
	assert.Equal(t, "a@example.com", contacts[0].Email)
}

func TestGetResponseUnexpectedStatus(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/campaigns", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})
	adapter := newGetResponseFixture(t, mux)

	_, err := adapter.FetchLists(context.Background(), "VALIDKEY")

	kind, ok := domain.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, domain.KindProviderUnavailable, kind)
}

func TestGetResponseUnreachableHost(t *testing.T) {
	srv := httptest.NewServer(http.NewServeMux())
	url := srv.URL
	srv.Close()
	adapter := NewGetResponseWithOptions(zerolog.Nop(), &http.Client{}, url).(*getresponse)

	_, err := adapter.ValidateCredential(context.Background(), "VALIDKEY")

	kind, ok := domain.KindOf(err)
	require.True(t, ok)
	assert.Equal(t, domain.KindProviderUnavailable, kind)
}
