// pkg/pipl/request_test.go
package pipl

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piplapis/piplapis-go/pkg/pipl/data"
)

// ==========================
// Query Assembly Tests
// ==========================

func TestSearchRequest_QueryPerson_FoldsShorthandFields(t *testing.T) {
	tests := []struct {
		name   string
		req    SearchRequest
		verify func(t *testing.T, p *data.Person)
	}{
		{
			name: "name parts become one name",
			req:  SearchRequest{FirstName: "Clark", MiddleName: "Joseph", LastName: "Kent"},
			verify: func(t *testing.T, p *data.Person) {
				require.Len(t, p.Names, 1)
				assert.Equal(t, "Clark", p.Names[0].First)
				assert.Equal(t, "Joseph", p.Names[0].Middle)
				assert.Equal(t, "Kent", p.Names[0].Last)
			},
		},
		{
			name: "raw name is kept separate from parts",
			req:  SearchRequest{FirstName: "Clark", LastName: "Kent", RawName: "Clark Kent"},
			verify: func(t *testing.T, p *data.Person) {
				require.Len(t, p.Names, 2)
				assert.Equal(t, "Clark Kent", p.Names[1].Raw)
			},
		},
		{
			name: "email",
			req:  SearchRequest{Email: "clark.kent@example.com"},
			verify: func(t *testing.T, p *data.Person) {
				require.Len(t, p.Emails, 1)
				assert.Equal(t, "clark.kent@example.com", p.Emails[0].Address)
			},
		},
		{
			name: "phone with country code",
			req:  SearchRequest{Phone: 9785550145, CountryCode: 1},
			verify: func(t *testing.T, p *data.Person) {
				require.Len(t, p.Phones, 1)
				assert.Equal(t, int64(9785550145), p.Phones[0].Number)
				assert.Equal(t, 1, p.Phones[0].CountryCode)
			},
		},
		{
			name: "raw phone",
			req:  SearchRequest{RawPhone: "+1 978 555 0145"},
			verify: func(t *testing.T, p *data.Person) {
				require.Len(t, p.Phones, 1)
				assert.Equal(t, "+1 978 555 0145", p.Phones[0].Raw)
			},
		},
		{
			name: "username",
			req:  SearchRequest{Username: "superman"},
			verify: func(t *testing.T, p *data.Person) {
				require.Len(t, p.Usernames, 1)
				assert.Equal(t, "superman", p.Usernames[0].Content)
			},
		},
		{
			name: "user id",
			req:  SearchRequest{UserID: "11231@facebook"},
			verify: func(t *testing.T, p *data.Person) {
				require.Len(t, p.UserIDs, 1)
				assert.Equal(t, "11231@facebook", p.UserIDs[0].Content)
			},
		},
		{
			name: "url",
			req:  SearchRequest{URL: "https://www.linkedin.com/pub/superman/20/7a/365"},
			verify: func(t *testing.T, p *data.Person) {
				require.Len(t, p.URLs, 1)
				assert.Equal(t, "https://www.linkedin.com/pub/superman/20/7a/365", p.URLs[0].URL)
			},
		},
		{
			name: "structured US address with street and house",
			req: SearchRequest{
				Country: "US", State: "KS", City: "Smallville",
				Street: "Hickory Lane", House: "10", ZipCode: "66605",
			},
			verify: func(t *testing.T, p *data.Person) {
				require.Len(t, p.Addresses, 1)
				addr := p.Addresses[0]
				assert.Equal(t, "US", addr.Country)
				assert.Equal(t, "KS", addr.State)
				assert.Equal(t, "Smallville", addr.City)
				assert.Equal(t, "Hickory Lane", addr.Street)
				assert.Equal(t, "10", addr.House)
				assert.Equal(t, "66605", addr.ZipCode)
				assert.True(t, addr.IsSoleSearchable())
			},
		},
		{
			name: "raw address",
			req:  SearchRequest{RawAddress: "10 Hickory Lane, Smallville, Kansas"},
			verify: func(t *testing.T, p *data.Person) {
				require.Len(t, p.Addresses, 1)
				assert.Equal(t, "10 Hickory Lane, Smallville, Kansas", p.Addresses[0].Raw)
			},
		},
		{
			name: "age range becomes a date of birth range",
			req:  SearchRequest{FromAge: 25, ToAge: 35},
			verify: func(t *testing.T, p *data.Person) {
				require.NotNil(t, p.DOB)
				start, end, ok := p.DOB.AgeRange()
				require.True(t, ok)
				assert.Equal(t, 25, start)
				assert.Equal(t, 35, end)
			},
		},
		{
			name: "from age alone leaves the range open ended",
			req:  SearchRequest{FromAge: 40},
			verify: func(t *testing.T, p *data.Person) {
				require.NotNil(t, p.DOB)
				start, _, ok := p.DOB.AgeRange()
				require.True(t, ok)
				assert.Equal(t, 40, start)
			},
		},
		{
			name: "search pointer lands on the person",
			req:  SearchRequest{SearchPointer: "f02b7e4c4b6e3d0c8a9b"},
			verify: func(t *testing.T, p *data.Person) {
				assert.Equal(t, "f02b7e4c4b6e3d0c8a9b", p.SearchPointer)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.verify(t, tt.req.queryPerson())
		})
	}
}

func TestSearchRequest_QueryPerson_AddsToPrebuiltPerson(t *testing.T) {
	prebuilt := data.NewPerson(data.Name{First: "Clark", Last: "Kent"})

	req := SearchRequest{Email: "clark.kent@example.com", Person: prebuilt}
	query := req.queryPerson()

	require.Len(t, query.Names, 1)
	require.Len(t, query.Emails, 1)

	// The caller's person must not grow the shorthand fields.
	assert.Empty(t, prebuilt.Emails)
}

// ==========================
// Form Encoding Tests
// ==========================

func TestBuildForm_EncodesPersonAndKey(t *testing.T) {
	req := &SearchRequest{Email: "clark.kent@example.com"}
	person := req.queryPerson()

	form, err := buildForm(Settings{APIKey: "samplekey"}, req, person)
	require.NoError(t, err)

	assert.Equal(t, "samplekey", form.Get("key"))
	assert.Empty(t, form.Get("search_pointer"))

	var decoded data.Person
	require.NoError(t, json.Unmarshal([]byte(form.Get("person")), &decoded))
	require.Len(t, decoded.Emails, 1)
	assert.Equal(t, "clark.kent@example.com", decoded.Emails[0].Address)
}

func TestBuildForm_SearchPointerReplacesPerson(t *testing.T) {
	req := &SearchRequest{SearchPointer: "f02b7e4c4b6e3d0c8a9b"}
	person := req.queryPerson()

	form, err := buildForm(Settings{APIKey: "samplekey"}, req, person)
	require.NoError(t, err)

	assert.Equal(t, "f02b7e4c4b6e3d0c8a9b", form.Get("search_pointer"))
	assert.Empty(t, form.Get("person"))
}

func TestBuildForm_ResponseControls(t *testing.T) {
	settings := Settings{
		APIKey:                     "samplekey",
		MinimumProbability:         0.9,
		MinimumMatch:               0.5,
		ShowSources:                ShowSourcesAll,
		HideSponsored:              Bool(true),
		LiveFeeds:                  Bool(false),
		InferPersons:               Bool(true),
		MatchRequirements:          "email and phone",
		SourceCategoryRequirements: "personal_profiles",
	}
	req := &SearchRequest{Email: "clark.kent@example.com", TopMatch: true}

	form, err := buildForm(settings, req, req.queryPerson())
	require.NoError(t, err)

	assert.Equal(t, "0.9", form.Get("minimum_probability"))
	assert.Equal(t, "0.5", form.Get("minimum_match"))
	assert.Equal(t, "all", form.Get("show_sources"))
	assert.Equal(t, "true", form.Get("hide_sponsored"))
	assert.Equal(t, "false", form.Get("live_feeds"))
	assert.Equal(t, "true", form.Get("infer_persons"))
	assert.Equal(t, "email and phone", form.Get("match_requirements"))
	assert.Equal(t, "personal_profiles", form.Get("source_category_requirements"))
	assert.Equal(t, "true", form.Get("top_match"))
}

func TestBuildForm_UnsetControlsAreOmitted(t *testing.T) {
	req := &SearchRequest{Email: "clark.kent@example.com"}

	form, err := buildForm(Settings{APIKey: "samplekey"}, req, req.queryPerson())
	require.NoError(t, err)

	for _, key := range []string{
		"minimum_probability", "minimum_match", "show_sources",
		"hide_sponsored", "live_feeds", "infer_persons",
		"match_requirements", "source_category_requirements", "top_match",
	} {
		assert.NotContains(t, form, key)
	}
}
