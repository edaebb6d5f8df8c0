// pkg/pipl/data/person_test.go
package data

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const personJSON = `{
	"@id": "f4a7d798-6904-4623-88d6-74c775439f1a",
	"@match": 1.0,
	"names": [
		{"@valid_since": "2008-01-15", "first": "Clark", "middle": "Joseph", "last": "Kent", "display": "Clark Joseph Kent"},
		{"@type": "alias", "first": "Superman", "display": "Superman"}
	],
	"emails": [
		{"@type": "work", "@email_provider": false, "address": "clark.kent@thedailyplanet.com"},
		{"@disposable": true, "address_md5": "999e509752141a0ee42ff455529c10fc"}
	],
	"usernames": [{"content": "superman@facebook"}],
	"phones": [{"@type": "home_phone", "country_code": 1, "number": 9785550145, "display": "978-555-0145"}],
	"gender": {"content": "male"},
	"dob": {"date_range": {"start": "1986-01-01", "end": "1987-05-13"}, "display": "32 years old"},
	"addresses": [
		{"@type": "work", "country": "US", "state": "KS", "city": "Metropolis", "street": "Broadway", "house": "1000", "display": "1000 Broadway, Metropolis, Kansas"},
		{"@type": "home", "@current": false, "country": "US", "state": "KS", "city": "Smallville", "street": "Hickory Lane", "house": "10", "apartment": "1", "zip_code": "66605"}
	],
	"jobs": [{"title": "Field Reporter", "organization": "The Daily Planet", "industry": "Journalism", "date_range": {"start": "2000-12-08", "end": "2012-10-09"}, "display": "Field Reporter at The Daily Planet (2000-2012)"}],
	"educations": [{"degree": "B.Sc Advanced Science", "school": "Metropolis University", "date_range": {"start": "2005-09-01", "end": "2008-05-14"}}],
	"images": [{"url": "http://www.example.com/clark-kent.jpg", "thumbnail_token": "tok1"}],
	"urls": [{"@source_id": "edc6aa8fa3f211cfad7c12a0ba5b32f4", "@domain": "linkedin.com", "@category": "professional_and_business", "url": "http://linkedin.com/clark.kent"}],
	"relationships": [{"@type": "family", "@subtype": "Adoptive Father", "names": [{"first": "Jonathan", "last": "Kent", "display": "Jonathan Kent"}]}]
}`

func TestPerson_UnmarshalJSON(t *testing.T) {
	var p Person
	require.NoError(t, json.Unmarshal([]byte(personJSON), &p))

	assert.Equal(t, "f4a7d798-6904-4623-88d6-74c775439f1a", p.ID)
	require.NotNil(t, p.Match)
	assert.Equal(t, 1.0, *p.Match)

	require.Len(t, p.Names, 2)
	assert.Equal(t, "Clark Joseph Kent", p.Names[0].String())
	assert.Equal(t, NameTypeAlias, p.Names[1].Type)
	require.NotNil(t, p.Names[0].ValidSince)
	assert.Equal(t, 2008, p.Names[0].ValidSince.Year())

	require.Len(t, p.Emails, 2)
	assert.Equal(t, EmailTypeWork, p.Emails[0].Type)
	require.NotNil(t, p.Emails[0].EmailProvider)
	assert.False(t, *p.Emails[0].EmailProvider)
	assert.Equal(t, "999e509752141a0ee42ff455529c10fc", p.Emails[1].AddressMD5)

	require.Len(t, p.Usernames, 1)
	assert.Equal(t, "superman@facebook", p.Usernames[0].Content)

	require.Len(t, p.Phones, 1)
	assert.Equal(t, int64(9785550145), p.Phones[0].Number)
	assert.Equal(t, 1, p.Phones[0].CountryCode)

	require.NotNil(t, p.Gender)
	assert.Equal(t, "Male", p.Gender.String())

	require.NotNil(t, p.DOB)
	start, end, ok := p.DOB.DateRange.YearsRange()
	require.True(t, ok)
	assert.Equal(t, 1986, start)
	assert.Equal(t, 1987, end)

	require.Len(t, p.Addresses, 2)
	assert.Equal(t, "Kansas", p.Addresses[0].StateFull())
	require.NotNil(t, p.Addresses[1].Current)
	assert.False(t, *p.Addresses[1].Current)

	require.Len(t, p.Jobs, 1)
	assert.Equal(t, "Field Reporter at The Daily Planet (2000-2012)", p.Jobs[0].String())

	require.Len(t, p.Educations, 1)
	assert.Equal(t, "B.Sc Advanced Science", p.Educations[0].Degree)

	require.Len(t, p.URLs, 1)
	assert.Equal(t, URLCategoryProfessionalAndBusiness, p.URLs[0].Category)

	require.Len(t, p.Relationships, 1)
	assert.Equal(t, RelationshipTypeFamily, p.Relationships[0].Type)
	assert.Equal(t, "Jonathan Kent", p.Relationships[0].String())
}

func TestPerson_MarshalQueryJSON(t *testing.T) {
	p := NewPerson(
		Name{First: "Clark", Last: "Kent"},
		Address{Country: "US", State: "KS", City: "Smallville"},
		Email{Address: "clark.kent@example.com"},
	)

	b, err := json.Marshal(p)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(b, &raw))
	assert.Contains(t, raw, "names")
	assert.Contains(t, raw, "addresses")
	assert.Contains(t, raw, "emails")
	assert.NotContains(t, raw, "@id")
	assert.NotContains(t, raw, "phones")

	// Metadata attributes only appear when set.
	assert.NotContains(t, string(b), "@valid_since")
	assert.NotContains(t, string(b), "@current")
}

func TestPerson_RoundTrip(t *testing.T) {
	var p Person
	require.NoError(t, json.Unmarshal([]byte(personJSON), &p))

	b, err := json.Marshal(&p)
	require.NoError(t, err)

	var again Person
	require.NoError(t, json.Unmarshal(b, &again))
	assert.Equal(t, p, again)
}

func TestPerson_AddFields(t *testing.T) {
	dob, err := DOBFromAge(30)
	require.NoError(t, err)

	p := NewPerson(
		Name{First: "Clark", Last: "Kent"},
		&Name{Raw: "Kal El"},
		Email{Address: "clark.kent@example.com"},
		Phone{CountryCode: 1, Number: 9785550145},
		Username{Content: "superman"},
		Gender{Content: "male"},
		dob,
	)

	assert.Len(t, p.Names, 2)
	assert.Len(t, p.Emails, 1)
	assert.Len(t, p.Phones, 1)
	assert.Len(t, p.Usernames, 1)
	require.NotNil(t, p.Gender)
	require.NotNil(t, p.DOB)

	// A second singular field replaces the first.
	p.AddFields(Gender{Content: "female"})
	assert.Equal(t, "Female", p.Gender.String())

	// Tags have no container on a person.
	p.AddFields(Tag{Content: "fastest man alive"})
	assert.Len(t, p.AllFields(), 7)
}

func TestPerson_IsSearchable(t *testing.T) {
	assert.False(t, (&Person{}).IsSearchable())

	assert.True(t, NewPerson(Name{First: "Clark", Last: "Kent"}).IsSearchable())
	assert.True(t, NewPerson(Email{Address: "clark.kent@example.com"}).IsSearchable())
	assert.True(t, NewPerson(Phone{CountryCode: 1, Number: 9785550145}).IsSearchable())
	assert.True(t, NewPerson(Username{Content: "superman"}).IsSearchable())
	assert.True(t, NewPerson(UserID{Content: "11231@facebook"}).IsSearchable())
	assert.True(t, NewPerson(URL{URL: "https://linkedin.com/clark.kent"}).IsSearchable())
	assert.True(t, NewPerson(Address{Raw: "10 Hickory Lane, Smallville, KS"}).IsSearchable())
	assert.True(t, (&Person{SearchPointer: "eyJwZXJzb24i"}).IsSearchable())

	// An address needs to be searchable on its own to carry a query.
	assert.False(t, NewPerson(Address{Country: "US", State: "KS"}).IsSearchable())
	assert.False(t, NewPerson(Name{First: "C", Last: "K"}).IsSearchable())
}

func TestPerson_UnsearchableFields(t *testing.T) {
	p := NewPerson(
		Name{First: "Clark", Last: "Kent"},
		Name{First: "C"},
		Email{Address: "broken@"},
		Username{Content: "superman"},
	)

	unsearchable := p.UnsearchableFields()
	assert.Len(t, unsearchable, 2)

	// A dob without a range cannot be searched by either.
	p.AddFields(DOB{Display: "about thirty"})
	assert.Len(t, p.UnsearchableFields(), 3)
}

func TestSource_UnmarshalJSON(t *testing.T) {
	raw := `{
		"@id": "edc6aa8fa3f211cfad7c12a0ba5b32f4",
		"@name": "LinkedIn",
		"@category": "professional_and_business",
		"@domain": "linkedin.com",
		"@match": 1.0,
		"@premium": false,
		"@sponsored": false,
		"@origin_url": "http://linkedin.com/clark.kent",
		"@person_id": "f4a7d798-6904-4623-88d6-74c775439f1a",
		"names": [{"first": "Clark", "last": "Kent", "display": "Clark Kent"}],
		"tags": [{"@classification": "occupation", "content": "reporter"}]
	}`

	var s Source
	require.NoError(t, json.Unmarshal([]byte(raw), &s))

	assert.Equal(t, "LinkedIn", s.Name)
	assert.Equal(t, "linkedin.com", s.Domain)
	require.NotNil(t, s.Match)
	assert.Equal(t, 1.0, *s.Match)
	require.Len(t, s.Tags, 1)
	assert.Equal(t, "reporter", s.Tags[0].Content)
	assert.Equal(t, "occupation", s.Tags[0].Classification)
	require.Len(t, s.AllFields(), 2)
}

func TestSource_AddFields(t *testing.T) {
	var s Source
	s.AddFields(
		Email{Address: "clark.kent@example.com"},
		Phone{CountryCode: 1, Number: 9785550145},
		Tag{Content: "reporter"},
	)

	assert.Len(t, s.Emails, 1)
	assert.Len(t, s.Phones, 1)
	assert.Len(t, s.Tags, 1)
}
