// pkg/pipl/response.go
package pipl

import (
	"net/http"
	"strconv"
	"time"

	"github.com/piplapis/piplapis-go/pkg/pipl/data"
)

// QuotaInfo is the API key's quota and throttle state, taken from the
// X-APIKey-* and X-Quota-Reset response headers.
type QuotaInfo struct {
	// QPSAllotted is the number of queries per second the key may run;
	// QPSCurrent is how many it ran in the current second.
	QPSAllotted int
	QPSCurrent  int

	// QuotaAllotted is the key's quota for the current period;
	// QuotaCurrent is how much of it has been used.
	QuotaAllotted int
	QuotaCurrent  int

	// QuotaReset is when the quota period rolls over. Zero when the
	// header was absent or unparseable.
	QuotaReset time.Time
}

// quotaResetLayout matches the X-Quota-Reset header, for example
// "Monday, July 1, 2024 12:00:00 AM UTC".
const quotaResetLayout = "Monday, January 2, 2006 3:04:05 PM MST"

// parseQuotaHeaders reads the quota headers from a search or error
// response. It returns nil when none are present.
func parseQuotaHeaders(h http.Header) *QuotaInfo {
	headers := []string{
		"X-APIKey-QPS-Allotted",
		"X-APIKey-QPS-Current",
		"X-APIKey-Quota-Allotted",
		"X-APIKey-Quota-Current",
		"X-Quota-Reset",
	}
	present := false
	for _, name := range headers {
		if h.Get(name) != "" {
			present = true
			break
		}
	}
	if !present {
		return nil
	}
	quota := &QuotaInfo{}
	quota.QPSAllotted, _ = strconv.Atoi(h.Get("X-APIKey-QPS-Allotted"))
	quota.QPSCurrent, _ = strconv.Atoi(h.Get("X-APIKey-QPS-Current"))
	quota.QuotaAllotted, _ = strconv.Atoi(h.Get("X-APIKey-Quota-Allotted"))
	quota.QuotaCurrent, _ = strconv.Atoi(h.Get("X-APIKey-Quota-Current"))
	if v := h.Get("X-Quota-Reset"); v != "" {
		quota.QuotaReset, _ = time.Parse(quotaResetLayout, v)
	}
	return quota
}

// SearchResponse is the API's answer to a search. Exactly one of Person,
// PossiblePersons or neither is set: Person when a single person matched
// the query well enough, PossiblePersons when several candidates did.
type SearchResponse struct {
	HTTPStatusCode   int    `json:"@http_status_code,omitempty"`
	VisibleSources   int    `json:"@visible_sources,omitempty"`
	AvailableSources int    `json:"@available_sources,omitempty"`
	SearchID         string `json:"@search_id,omitempty"`

	Warnings []string `json:"warnings,omitempty"`

	// MatchRequirements and SourceCategoryRequirements echo the criteria
	// the search was run with, as the API understood them.
	MatchRequirements          string `json:"match_requirements,omitempty"`
	SourceCategoryRequirements string `json:"source_category_requirements,omitempty"`

	// AvailableData summarizes per field type how much data exists for
	// the person, including data the key's package does not expose.
	AvailableData *data.AvailableData `json:"available_data,omitempty"`

	// Query is the person the API actually searched for, after parsing
	// raw names, addresses and phones.
	Query *data.Person `json:"query,omitempty"`

	Person          *data.Person  `json:"person,omitempty"`
	Sources         []data.Source `json:"sources,omitempty"`
	PossiblePersons []data.Person `json:"possible_persons,omitempty"`

	// Quota is parsed from the response headers, not the body. Nil when
	// the API sent no quota headers.
	Quota *QuotaInfo `json:"-"`
}

// MatchingSources returns the sources that belong to the person this
// response is about, not just to a candidate.
func (r *SearchResponse) MatchingSources() []data.Source {
	var matching []data.Source
	for _, s := range r.Sources {
		if s.Match != nil && *s.Match == 1.0 {
			matching = append(matching, s)
		}
	}
	return matching
}

// GroupSourcesByDomain groups the response's sources by the domain they
// came from.
func (r *SearchResponse) GroupSourcesByDomain() map[string][]data.Source {
	groups := make(map[string][]data.Source)
	for _, s := range r.Sources {
		groups[s.Domain] = append(groups[s.Domain], s)
	}
	return groups
}

// GroupSourcesByCategory groups the response's sources by category.
func (r *SearchResponse) GroupSourcesByCategory() map[string][]data.Source {
	groups := make(map[string][]data.Source)
	for _, s := range r.Sources {
		groups[s.Category] = append(groups[s.Category], s)
	}
	return groups
}

// GroupSourcesByMatch groups the response's sources by their match
// score. Sources without a score group under zero.
func (r *SearchResponse) GroupSourcesByMatch() map[float64][]data.Source {
	groups := make(map[float64][]data.Source)
	for _, s := range r.Sources {
		match := 0.0
		if s.Match != nil {
			match = *s.Match
		}
		groups[match] = append(groups[match], s)
	}
	return groups
}

// The shortcut accessors below surface the first value of each field
// type on the response's person, or nil when there is no person or the
// person has none.

func (r *SearchResponse) Name() *data.Name {
	if r.Person == nil || len(r.Person.Names) == 0 {
		return nil
	}
	return &r.Person.Names[0]
}

func (r *SearchResponse) Address() *data.Address {
	if r.Person == nil || len(r.Person.Addresses) == 0 {
		return nil
	}
	return &r.Person.Addresses[0]
}

func (r *SearchResponse) Phone() *data.Phone {
	if r.Person == nil || len(r.Person.Phones) == 0 {
		return nil
	}
	return &r.Person.Phones[0]
}

func (r *SearchResponse) Email() *data.Email {
	if r.Person == nil || len(r.Person.Emails) == 0 {
		return nil
	}
	return &r.Person.Emails[0]
}

func (r *SearchResponse) Job() *data.Job {
	if r.Person == nil || len(r.Person.Jobs) == 0 {
		return nil
	}
	return &r.Person.Jobs[0]
}

func (r *SearchResponse) Education() *data.Education {
	if r.Person == nil || len(r.Person.Educations) == 0 {
		return nil
	}
	return &r.Person.Educations[0]
}

func (r *SearchResponse) Image() *data.Image {
	if r.Person == nil || len(r.Person.Images) == 0 {
		return nil
	}
	return &r.Person.Images[0]
}

func (r *SearchResponse) URL() *data.URL {
	if r.Person == nil || len(r.Person.URLs) == 0 {
		return nil
	}
	return &r.Person.URLs[0]
}

func (r *SearchResponse) Username() *data.Username {
	if r.Person == nil || len(r.Person.Usernames) == 0 {
		return nil
	}
	return &r.Person.Usernames[0]
}

func (r *SearchResponse) UserID() *data.UserID {
	if r.Person == nil || len(r.Person.UserIDs) == 0 {
		return nil
	}
	return &r.Person.UserIDs[0]
}

func (r *SearchResponse) Language() *data.Language {
	if r.Person == nil || len(r.Person.Languages) == 0 {
		return nil
	}
	return &r.Person.Languages[0]
}

func (r *SearchResponse) Ethnicity() *data.Ethnicity {
	if r.Person == nil || len(r.Person.Ethnicities) == 0 {
		return nil
	}
	return &r.Person.Ethnicities[0]
}

func (r *SearchResponse) OriginCountry() *data.OriginCountry {
	if r.Person == nil || len(r.Person.OriginCountries) == 0 {
		return nil
	}
	return &r.Person.OriginCountries[0]
}

func (r *SearchResponse) Relationship() *data.Relationship {
	if r.Person == nil || len(r.Person.Relationships) == 0 {
		return nil
	}
	return &r.Person.Relationships[0]
}

func (r *SearchResponse) Gender() *data.Gender {
	if r.Person == nil {
		return nil
	}
	return r.Person.Gender
}

func (r *SearchResponse) DOB() *data.DOB {
	if r.Person == nil {
		return nil
	}
	return r.Person.DOB
}
