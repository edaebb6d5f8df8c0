// pkg/pipl/request.go
package pipl

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"

	"github.com/piplapis/piplapis-go/pkg/pipl/data"
)

// SearchRequest describes one identity search. Set the shorthand
// parameters for simple queries, or build a data.Person for full
// control; when both are given the shorthand fields are folded into the
// person. A SearchPointer takes precedence over every other parameter.
type SearchRequest struct {
	FirstName  string
	MiddleName string
	LastName   string
	RawName    string

	Email string

	// Phone is a full number including area code. RawPhone is sent as
	// given and parsed on the API side.
	Phone       int64
	CountryCode int
	RawPhone    string

	Username string

	// UserID is a service-scoped identifier in user@service form, for
	// example "11231@facebook".
	UserID string

	// URL is a profile or personal page, for example a LinkedIn URL.
	URL string

	Country string
	State   string
	City    string
	Street  string
	House   string
	ZipCode string
	// RawAddress is a free-form address such as "123 Marina Blvd, San
	// Francisco, California". It is parsed on the API side and may be
	// combined with the structured address parts above.
	RawAddress string

	// FromAge and ToAge bound the target's age. Zero means unset; a
	// FromAge on its own searches an open-ended range.
	FromAge int
	ToAge   int

	// Person is a prebuilt query. Shorthand parameters are added to it.
	Person *data.Person

	// SearchPointer continues a previous search from one of its
	// possible persons.
	SearchPointer string

	// TopMatch asks the API to return only the single best match
	// instead of a list of possible persons.
	TopMatch bool
}

// queryPerson folds the shorthand parameters into the query person.
func (r *SearchRequest) queryPerson() *data.Person {
	query := &data.Person{}
	if r.Person != nil {
		clone := *r.Person
		query = &clone
	}
	if r.FirstName != "" || r.MiddleName != "" || r.LastName != "" {
		query.AddFields(data.Name{First: r.FirstName, Middle: r.MiddleName, Last: r.LastName})
	}
	if r.RawName != "" {
		query.AddFields(data.Name{Raw: r.RawName})
	}
	if r.Email != "" {
		query.AddFields(data.Email{Address: r.Email})
	}
	if r.Phone != 0 || r.RawPhone != "" {
		query.AddFields(data.Phone{CountryCode: r.CountryCode, Number: r.Phone, Raw: r.RawPhone})
	}
	if r.Username != "" {
		query.AddFields(data.Username{Content: r.Username})
	}
	if r.UserID != "" {
		query.AddFields(data.UserID{Content: r.UserID})
	}
	if r.URL != "" {
		query.AddFields(data.URL{URL: r.URL})
	}
	if r.Country != "" || r.State != "" || r.City != "" ||
		r.Street != "" || r.House != "" || r.ZipCode != "" {
		query.AddFields(data.Address{
			Country: r.Country,
			State:   r.State,
			City:    r.City,
			Street:  r.Street,
			House:   r.House,
			ZipCode: r.ZipCode,
		})
	}
	if r.RawAddress != "" {
		query.AddFields(data.Address{Raw: r.RawAddress})
	}
	if r.FromAge > 0 || r.ToAge > 0 {
		to := r.ToAge
		if to == 0 {
			to = 1000
		}
		if dob, err := data.DOBFromAgeRange(r.FromAge, to); err == nil {
			query.AddFields(dob)
		}
	}
	if r.SearchPointer != "" {
		query.SearchPointer = r.SearchPointer
	}
	return query
}

// buildForm encodes the query and the client's response controls as the
// form body of the search call.
func buildForm(s Settings, r *SearchRequest, person *data.Person) (url.Values, error) {
	form := url.Values{}
	form.Set("key", s.APIKey)
	if person.SearchPointer != "" {
		form.Set("search_pointer", person.SearchPointer)
	} else {
		encoded, err := json.Marshal(person)
		if err != nil {
			return nil, fmt.Errorf("failed to encode query person: %w", err)
		}
		form.Set("person", string(encoded))
	}
	if s.MinimumProbability > 0 {
		form.Set("minimum_probability", strconv.FormatFloat(s.MinimumProbability, 'f', -1, 64))
	}
	if s.MinimumMatch > 0 {
		form.Set("minimum_match", strconv.FormatFloat(s.MinimumMatch, 'f', -1, 64))
	}
	if s.HideSponsored != nil {
		form.Set("hide_sponsored", strconv.FormatBool(*s.HideSponsored))
	}
	if s.InferPersons != nil {
		form.Set("infer_persons", strconv.FormatBool(*s.InferPersons))
	}
	if s.MatchRequirements != "" {
		form.Set("match_requirements", s.MatchRequirements)
	}
	if s.SourceCategoryRequirements != "" {
		form.Set("source_category_requirements", s.SourceCategoryRequirements)
	}
	if s.LiveFeeds != nil {
		form.Set("live_feeds", strconv.FormatBool(*s.LiveFeeds))
	}
	if s.ShowSources != "" {
		form.Set("show_sources", string(s.ShowSources))
	}
	if r.TopMatch || s.TopMatch {
		form.Set("top_match", "true")
	}
	return form, nil
}
