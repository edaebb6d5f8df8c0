// pkg/pipl/client.go

// Package pipl is a client for the Pipl identity search API. A search
// takes a query person assembled from names, emails, phones, addresses
// and online identifiers, and answers with the person the API believes
// the query describes, the sources the answer was built from, or a list
// of possible persons when the query was not specific enough.
package pipl

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/piplapis/piplapis-go/pkg/pipl/data"
)

// Version of this client, reported in the User-Agent header.
const Version = "1.0.0"

const (
	// DefaultBaseURL is the production search endpoint. The API accepts
	// HTTPS only; NewClient rejects base URLs with any other scheme.
	DefaultBaseURL = "https://api.pipl.com/search/"

	defaultUserAgent = "piplapis/go/" + Version
	defaultTimeout   = 30 * time.Second
)

// ShowSources controls which sources a response includes.
type ShowSources string

const (
	// ShowSourcesAll includes sources of the possible persons as well.
	ShowSourcesAll ShowSources = "all"
	// ShowSourcesMatching includes only sources of the returned person.
	ShowSourcesMatching ShowSources = "matching"
	// ShowSourcesTrue is the legacy spelling of ShowSourcesMatching.
	ShowSourcesTrue ShowSources = "true"
	// ShowSourcesFalse turns sources off.
	ShowSourcesFalse ShowSources = "false"
)

// Bool returns a pointer to v, for the optional boolean settings.
func Bool(v bool) *bool { return &v }

// Settings configures a Client. The zero value searches production with
// lenient validation; only APIKey must be set.
type Settings struct {
	APIKey string

	// BaseURL overrides DefaultBaseURL. It must be an https URL.
	BaseURL string

	// HTTPClient overrides the default transport. Leave nil to get a
	// client with a sane timeout.
	HTTPClient *http.Client

	// UserAgent overrides the default piplapis/go/<version> header.
	UserAgent string

	Logger Logger

	// MinimumProbability is the confidence the API needs before it
	// states a fact about the person. Zero keeps the API default.
	MinimumProbability float64

	// MinimumMatch filters possible persons below this match score.
	// Zero keeps the API default.
	MinimumMatch float64

	// ShowSources asks for the sources behind the response. Empty keeps
	// sources off.
	ShowSources ShowSources

	// HideSponsored drops sources that carry sponsored data. Nil keeps
	// the API default.
	HideSponsored *bool

	// LiveFeeds toggles querying live social data. Nil keeps the API
	// default (on).
	LiveFeeds *bool

	// InferPersons lets the API return persons it inferred rather than
	// found. Nil keeps the API default (off).
	InferPersons *bool

	// MatchRequirements is a criteria expression such as "email and
	// phone"; the API returns a match only when it can satisfy it.
	MatchRequirements string

	// SourceCategoryRequirements restricts which source categories may
	// back the match, for example "personal_profiles".
	SourceCategoryRequirements string

	// TopMatch makes every search ask for the single best match. A
	// request's own TopMatch flag enables it per search.
	TopMatch bool

	// StrictValidation rejects queries that carry unsearchable fields
	// or out-of-range settings instead of letting the API ignore them.
	StrictValidation bool
}

// Client calls the search API. It is safe for concurrent use.
type Client struct {
	settings   Settings
	baseURL    string
	userAgent  string
	httpClient *http.Client
	log        Logger
}

// NewClient validates the settings and returns a ready client.
func NewClient(settings Settings) (*Client, error) {
	baseURL := settings.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	parsed, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse base URL: %w", err)
	}
	if parsed.Scheme != "https" {
		return nil, fmt.Errorf("%w, got %q", ErrInsecureBaseURL, baseURL)
	}

	userAgent := settings.UserAgent
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	httpClient := settings.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: defaultTimeout}
	}
	log := settings.Logger
	if log == nil {
		log = noopLogger{}
	}

	return &Client{
		settings:   settings,
		baseURL:    baseURL,
		userAgent:  userAgent,
		httpClient: httpClient,
		log:        log,
	}, nil
}

// Search runs one search and returns the parsed response. API-level
// failures come back as an *APIError; validation failures and transport
// errors come back as plain errors, with ErrSearchTimeout wrapping
// deadline overruns.
func (c *Client) Search(ctx context.Context, req *SearchRequest) (*SearchResponse, error) {
	if req == nil {
		req = &SearchRequest{}
	}
	person := req.queryPerson()
	if err := c.validateQuery(person); err != nil {
		return nil, err
	}
	form, err := buildForm(c.settings, req, person)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("failed to create search request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	httpReq.Header.Set("User-Agent", c.userAgent)

	c.log.Debug("sending search request", map[string]interface{}{
		"base_url":       c.baseURL,
		"search_pointer": person.SearchPointer != "",
	})

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if isTimeout(ctx, err) {
			c.log.Warn("search request timed out", map[string]interface{}{
				"duration_ms": time.Since(start).Milliseconds(),
			})
			return nil, fmt.Errorf("%w: %v", ErrSearchTimeout, err)
		}
		return nil, fmt.Errorf("failed to execute search request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read search response: %w", err)
	}
	quota := parseQuotaHeaders(resp.Header)

	if resp.StatusCode != http.StatusOK {
		return nil, c.decodeError(resp.StatusCode, body, quota)
	}

	var response SearchResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("failed to decode search response: %w", err)
	}
	response.Quota = quota

	c.log.Info("search completed", map[string]interface{}{
		"search_id":       response.SearchID,
		"persons_found":   len(response.PossiblePersons),
		"single_match":    response.Person != nil,
		"visible_sources": response.VisibleSources,
		"duration_ms":     time.Since(start).Milliseconds(),
	})
	return &response, nil
}

// SearchPointer continues an earlier search from one of its possible
// persons, identified by the pointer the API attached to it.
func (c *Client) SearchPointer(ctx context.Context, pointer string) (*SearchResponse, error) {
	return c.Search(ctx, &SearchRequest{SearchPointer: pointer})
}

// decodeError turns a non-200 response into an *APIError when the body
// carries one, or a plain error when it does not.
func (c *Client) decodeError(status int, body []byte, quota *QuotaInfo) error {
	apiErr := &APIError{}
	if len(body) == 0 || json.Unmarshal(body, apiErr) != nil || apiErr.Message == "" {
		return fmt.Errorf("search API returned status %d", status)
	}
	if apiErr.StatusCode == 0 {
		apiErr.StatusCode = status
	}
	apiErr.Quota = quota
	c.log.Warn("search API returned an error", map[string]interface{}{
		"status": apiErr.StatusCode,
		"error":  apiErr.Message,
	})
	return apiErr
}

// validateQuery rejects a query the API would reject, before spending a
// network round trip on it. The lenient default only requires a key and
// a searchable person; the API tolerates a mix of good and bad fields
// and searches on the good ones.
func (c *Client) validateQuery(person *data.Person) error {
	if c.settings.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.settings.StrictValidation {
		if err := c.validateStrict(person); err != nil {
			return err
		}
	}
	if !person.IsSearchable() {
		return ErrNoSearchableQuery
	}
	return nil
}

func (c *Client) validateStrict(person *data.Person) error {
	if c.settings.MinimumMatch < 0 || c.settings.MinimumMatch > 1 {
		return errors.New("minimum match must be between 0 and 1")
	}
	if c.settings.MinimumProbability < 0 || c.settings.MinimumProbability > 1 {
		return errors.New("minimum probability must be between 0 and 1")
	}
	switch c.settings.ShowSources {
	case "", ShowSourcesAll, ShowSourcesMatching, ShowSourcesTrue, ShowSourcesFalse:
	default:
		return fmt.Errorf("invalid show sources value %q", c.settings.ShowSources)
	}
	if fields := person.UnsearchableFields(); len(fields) > 0 {
		return fmt.Errorf("%w: %s", ErrUnsearchableFields, describeFields(fields))
	}
	return nil
}

func describeFields(fields []data.Field) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = fmt.Sprintf("%T", f)
		if s := f.String(); s != "" {
			parts[i] += "(" + s + ")"
		}
	}
	return strings.Join(parts, ", ")
}

// isTimeout reports whether a transport error was a deadline overrun
// rather than a hard failure.
func isTimeout(ctx context.Context, err error) bool {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return true
	}
	var netErr interface{ Timeout() bool }
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return strings.Contains(err.Error(), "Client.Timeout exceeded")
}
