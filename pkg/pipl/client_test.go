// pkg/pipl/client_test.go
package pipl

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piplapis/piplapis-go/pkg/pipl/data"
)

// ==========================
// Test Helper Functions
// ==========================

type capturedRequest struct {
	method      string
	contentType string
	userAgent   string
	form        url.Values
}

// newSearchServer starts a TLS server that answers every search with
// the given status and body, records the last request, and sets any
// extra response headers.
func newSearchServer(t *testing.T, status int, body string, headers map[string]string) (*httptest.Server, *capturedRequest) {
	captured := &capturedRequest{}
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = r.ParseForm()
		captured.method = r.Method
		captured.contentType = r.Header.Get("Content-Type")
		captured.userAgent = r.Header.Get("User-Agent")
		captured.form = r.PostForm
		for k, v := range headers {
			w.Header().Set(k, v)
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(server.Close)
	return server, captured
}

func newTestClient(t *testing.T, server *httptest.Server, settings Settings) *Client {
	settings.BaseURL = server.URL
	settings.HTTPClient = server.Client()
	if settings.APIKey == "" {
		settings.APIKey = "samplekey"
	}
	client, err := NewClient(settings)
	require.NoError(t, err)
	return client
}

const minimalResponse = `{"@http_status_code": 200, "@search_id": "1712070462986871564"}`

// ==========================
// Construction Tests
// ==========================

func TestNewClient_Defaults(t *testing.T) {
	client, err := NewClient(Settings{APIKey: "samplekey"})
	require.NoError(t, err)

	assert.Equal(t, DefaultBaseURL, client.baseURL)
	assert.Equal(t, "piplapis/go/"+Version, client.userAgent)
	require.NotNil(t, client.httpClient)
	assert.Equal(t, defaultTimeout, client.httpClient.Timeout)
	assert.NotNil(t, client.log)
}

func TestNewClient_RejectsNonHTTPSBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		baseURL string
	}{
		{name: "plain http", baseURL: "http://api.pipl.com/search/"},
		{name: "other scheme", baseURL: "ftp://api.pipl.com/search/"},
		{name: "scheme-less", baseURL: "api.pipl.com/search/"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewClient(Settings{APIKey: "samplekey", BaseURL: tt.baseURL})
			assert.ErrorIs(t, err, ErrInsecureBaseURL)
		})
	}
}

// ==========================
// Transport Tests
// ==========================

func TestClient_Search_SendsFormEncodedQuery(t *testing.T) {
	server, captured := newSearchServer(t, http.StatusOK, minimalResponse, nil)
	client := newTestClient(t, server, Settings{})

	_, err := client.Search(context.Background(), &SearchRequest{Email: "clark.kent@example.com"})
	require.NoError(t, err)

	assert.Equal(t, http.MethodPost, captured.method)
	assert.Equal(t, "application/x-www-form-urlencoded", captured.contentType)
	assert.Equal(t, "piplapis/go/"+Version, captured.userAgent)
	assert.Equal(t, "samplekey", captured.form.Get("key"))

	var person data.Person
	require.NoError(t, json.Unmarshal([]byte(captured.form.Get("person")), &person))
	require.Len(t, person.Emails, 1)
	assert.Equal(t, "clark.kent@example.com", person.Emails[0].Address)
}

func TestClient_Search_ParsesPersonResponse(t *testing.T) {
	body := `{
		"@http_status_code": 200,
		"@visible_sources": 3,
		"@available_sources": 4,
		"@search_id": "1712070462986871564",
		"person": {
			"@id": "f4a7d898-6fd1-4d45-85cc-a35b5e5f06fb",
			"@match": 1.0,
			"names": [{"first": "Clark", "last": "Kent", "display": "Clark Kent"}],
			"emails": [{"address": "clark.kent@example.com"}]
		},
		"sources": [
			{"@id": "a1", "@domain": "linkedin.com", "@category": "professional_and_business", "@match": 1.0},
			{"@id": "b2", "@domain": "facebook.com", "@category": "personal_profiles", "@match": 0.6}
		]
	}`
	server, _ := newSearchServer(t, http.StatusOK, body, nil)
	client := newTestClient(t, server, Settings{})

	resp, err := client.Search(context.Background(), &SearchRequest{Email: "clark.kent@example.com"})
	require.NoError(t, err)

	assert.Equal(t, "1712070462986871564", resp.SearchID)
	assert.Equal(t, 3, resp.VisibleSources)
	assert.Equal(t, 4, resp.AvailableSources)
	require.NotNil(t, resp.Person)
	require.NotNil(t, resp.Name())
	assert.Equal(t, "Clark Kent", resp.Name().String())
	require.NotNil(t, resp.Email())
	assert.Equal(t, "clark.kent@example.com", resp.Email().Address)

	require.Len(t, resp.Sources, 2)
	matching := resp.MatchingSources()
	require.Len(t, matching, 1)
	assert.Equal(t, "linkedin.com", matching[0].Domain)
}

func TestClient_Search_FollowsSearchPointer(t *testing.T) {
	body := `{
		"@http_status_code": 200,
		"@search_id": "1712070462986871564",
		"possible_persons": [
			{"@search_pointer": "f02b7e4c4b6e3d0c8a9b", "names": [{"first": "Clark", "last": "Kent"}]},
			{"@search_pointer": "d81c6e2a9f5b4a7c3e1d", "names": [{"first": "Clark", "last": "Kensington"}]}
		]
	}`
	server, captured := newSearchServer(t, http.StatusOK, body, nil)
	client := newTestClient(t, server, Settings{})

	resp, err := client.Search(context.Background(), &SearchRequest{RawName: "Clark Kent"})
	require.NoError(t, err)
	require.Len(t, resp.PossiblePersons, 2)
	assert.Nil(t, resp.Person)

	pointer := resp.PossiblePersons[0].SearchPointer
	require.NotEmpty(t, pointer)

	_, err = client.SearchPointer(context.Background(), pointer)
	require.NoError(t, err)
	assert.Equal(t, pointer, captured.form.Get("search_pointer"))
	assert.Empty(t, captured.form.Get("person"))
}

func TestClient_Search_Timeout(t *testing.T) {
	server := httptest.NewTLSServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(minimalResponse))
	}))
	t.Cleanup(server.Close)
	client := newTestClient(t, server, Settings{})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.Search(ctx, &SearchRequest{Email: "clark.kent@example.com"})
	assert.ErrorIs(t, err, ErrSearchTimeout)
}

// ==========================
// Error Handling Tests
// ==========================

func TestClient_Search_APIError(t *testing.T) {
	body := `{"error": "Unauthorized key", "@http_status_code": 403, "warnings": ["The key is not active"]}`
	headers := map[string]string{
		"X-APIKey-QPS-Allotted":   "20",
		"X-APIKey-QPS-Current":    "4",
		"X-APIKey-Quota-Allotted": "3000",
		"X-APIKey-Quota-Current":  "2999",
		"X-Quota-Reset":           "Monday, July 1, 2024 12:00:00 AM UTC",
	}
	server, _ := newSearchServer(t, http.StatusForbidden, body, headers)
	client := newTestClient(t, server, Settings{})

	_, err := client.Search(context.Background(), &SearchRequest{Email: "clark.kent@example.com"})
	require.Error(t, err)

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "Unauthorized key", apiErr.Message)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, []string{"The key is not active"}, apiErr.Warnings)
	assert.True(t, apiErr.IsUserError())
	assert.False(t, apiErr.IsServerError())
	assert.Contains(t, apiErr.Error(), "Unauthorized key")

	require.NotNil(t, apiErr.Quota)
	assert.Equal(t, 20, apiErr.Quota.QPSAllotted)
	assert.Equal(t, 2999, apiErr.Quota.QuotaCurrent)
	assert.Equal(t, 2024, apiErr.Quota.QuotaReset.Year())
}

func TestClient_Search_ServerError(t *testing.T) {
	body := `{"error": "Internal server error", "@http_status_code": 500}`
	server, _ := newSearchServer(t, http.StatusInternalServerError, body, nil)
	client := newTestClient(t, server, Settings{})

	_, err := client.Search(context.Background(), &SearchRequest{Email: "clark.kent@example.com"})

	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsServerError())
	assert.False(t, apiErr.IsUserError())
}

func TestClient_Search_NonJSONErrorBody(t *testing.T) {
	server, _ := newSearchServer(t, http.StatusBadGateway, "<html>Bad Gateway</html>", nil)
	client := newTestClient(t, server, Settings{})

	_, err := client.Search(context.Background(), &SearchRequest{Email: "clark.kent@example.com"})
	require.Error(t, err)

	var apiErr *APIError
	assert.False(t, errors.As(err, &apiErr))
	assert.Contains(t, err.Error(), "status 502")
}

// ==========================
// Validation Tests
// ==========================

func TestClient_Search_RequiresAPIKey(t *testing.T) {
	client, err := NewClient(Settings{})
	require.NoError(t, err)

	_, err = client.Search(context.Background(), &SearchRequest{Email: "clark.kent@example.com"})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestClient_Search_RequiresSearchableQuery(t *testing.T) {
	client, err := NewClient(Settings{APIKey: "samplekey"})
	require.NoError(t, err)

	// A lone first name is not enough to search on.
	_, err = client.Search(context.Background(), &SearchRequest{FirstName: "Clark"})
	assert.ErrorIs(t, err, ErrNoSearchableQuery)
}

func TestClient_Search_LenientValidationKeepsMixedQuery(t *testing.T) {
	server, captured := newSearchServer(t, http.StatusOK, minimalResponse, nil)
	client := newTestClient(t, server, Settings{})

	// The username is too short to search on; the default behavior is
	// to send it anyway and let the API use what it can.
	req := &SearchRequest{Email: "clark.kent@example.com", Username: "ck"}
	_, err := client.Search(context.Background(), req)
	require.NoError(t, err)

	var person data.Person
	require.NoError(t, json.Unmarshal([]byte(captured.form.Get("person")), &person))
	assert.Len(t, person.Emails, 1)
	assert.Len(t, person.Usernames, 1)
}

func TestClient_Search_StrictValidation(t *testing.T) {
	tests := []struct {
		name     string
		settings Settings
		req      *SearchRequest
		wantErr  string
	}{
		{
			name:     "unsearchable field",
			settings: Settings{APIKey: "samplekey", StrictValidation: true},
			req:      &SearchRequest{Email: "clark.kent@example.com", Username: "ck"},
			wantErr:  "unsearchable",
		},
		{
			name:     "minimum match out of range",
			settings: Settings{APIKey: "samplekey", StrictValidation: true, MinimumMatch: 1.5},
			req:      &SearchRequest{Email: "clark.kent@example.com"},
			wantErr:  "minimum match",
		},
		{
			name:     "minimum probability out of range",
			settings: Settings{APIKey: "samplekey", StrictValidation: true, MinimumProbability: -0.1},
			req:      &SearchRequest{Email: "clark.kent@example.com"},
			wantErr:  "minimum probability",
		},
		{
			name:     "invalid show sources",
			settings: Settings{APIKey: "samplekey", StrictValidation: true, ShowSources: "everything"},
			req:      &SearchRequest{Email: "clark.kent@example.com"},
			wantErr:  "show sources",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, err := NewClient(tt.settings)
			require.NoError(t, err)

			_, err = client.Search(context.Background(), tt.req)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestClient_Search_StrictUnsearchableSentinel(t *testing.T) {
	client, err := NewClient(Settings{APIKey: "samplekey", StrictValidation: true})
	require.NoError(t, err)

	_, err = client.Search(context.Background(), &SearchRequest{
		Email:    "clark.kent@example.com",
		Username: "ck",
	})
	assert.ErrorIs(t, err, ErrUnsearchableFields)
}
