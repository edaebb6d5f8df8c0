// pkg/pipl/data/person.go
package data

// Person is all the data available on an individual, assembled from one
// or more sources. A Person is used in two directions: built from the
// fields you already know as a query, and returned as a result when the
// API matched someone. Match is the API's confidence, 1.0 meaning a
// definite match, and SearchPointer lets a possible person be queried
// again for full data.
type Person struct {
	ID            string   `json:"@id,omitempty"`
	SearchPointer string   `json:"@search_pointer,omitempty"`
	Match         *float64 `json:"@match,omitempty"`
	Inferred      bool     `json:"@inferred,omitempty"`

	Names           []Name          `json:"names,omitempty"`
	Addresses       []Address       `json:"addresses,omitempty"`
	Phones          []Phone         `json:"phones,omitempty"`
	Emails          []Email         `json:"emails,omitempty"`
	Jobs            []Job           `json:"jobs,omitempty"`
	Educations      []Education     `json:"educations,omitempty"`
	Images          []Image         `json:"images,omitempty"`
	Usernames       []Username      `json:"usernames,omitempty"`
	UserIDs         []UserID        `json:"user_ids,omitempty"`
	URLs            []URL           `json:"urls,omitempty"`
	Relationships   []Relationship  `json:"relationships,omitempty"`
	Ethnicities     []Ethnicity     `json:"ethnicities,omitempty"`
	OriginCountries []OriginCountry `json:"origin_countries,omitempty"`
	Languages       []Language      `json:"languages,omitempty"`
	Gender          *Gender         `json:"gender,omitempty"`
	DOB             *DOB            `json:"dob,omitempty"`
}

// NewPerson builds a person from the given fields, routing each to its
// container.
func NewPerson(fields ...Field) *Person {
	p := &Person{}
	p.AddFields(fields...)
	return p
}

// AddFields routes each field to its container on the person. Gender and
// DOB replace any previous value. Fields with no container on a person,
// such as Tag, are dropped.
func (p *Person) AddFields(fields ...Field) {
	for _, f := range fields {
		switch v := f.(type) {
		case Name:
			p.Names = append(p.Names, v)
		case *Name:
			p.Names = append(p.Names, *v)
		case Address:
			p.Addresses = append(p.Addresses, v)
		case *Address:
			p.Addresses = append(p.Addresses, *v)
		case Phone:
			p.Phones = append(p.Phones, v)
		case *Phone:
			p.Phones = append(p.Phones, *v)
		case Email:
			p.Emails = append(p.Emails, v)
		case *Email:
			p.Emails = append(p.Emails, *v)
		case Job:
			p.Jobs = append(p.Jobs, v)
		case *Job:
			p.Jobs = append(p.Jobs, *v)
		case Education:
			p.Educations = append(p.Educations, v)
		case *Education:
			p.Educations = append(p.Educations, *v)
		case Image:
			p.Images = append(p.Images, v)
		case *Image:
			p.Images = append(p.Images, *v)
		case Username:
			p.Usernames = append(p.Usernames, v)
		case *Username:
			p.Usernames = append(p.Usernames, *v)
		case UserID:
			p.UserIDs = append(p.UserIDs, v)
		case *UserID:
			p.UserIDs = append(p.UserIDs, *v)
		case URL:
			p.URLs = append(p.URLs, v)
		case *URL:
			p.URLs = append(p.URLs, *v)
		case Relationship:
			p.Relationships = append(p.Relationships, v)
		case *Relationship:
			p.Relationships = append(p.Relationships, *v)
		case Ethnicity:
			p.Ethnicities = append(p.Ethnicities, v)
		case *Ethnicity:
			p.Ethnicities = append(p.Ethnicities, *v)
		case OriginCountry:
			p.OriginCountries = append(p.OriginCountries, v)
		case *OriginCountry:
			p.OriginCountries = append(p.OriginCountries, *v)
		case Language:
			p.Languages = append(p.Languages, v)
		case *Language:
			p.Languages = append(p.Languages, *v)
		case Gender:
			p.Gender = &v
		case *Gender:
			p.Gender = v
		case DOB:
			p.DOB = &v
		case *DOB:
			p.DOB = v
		}
	}
}

// AllFields returns every field contained in the person.
func (p *Person) AllFields() []Field {
	var fields []Field
	for _, f := range p.Names {
		fields = append(fields, f)
	}
	for _, f := range p.Addresses {
		fields = append(fields, f)
	}
	for _, f := range p.Phones {
		fields = append(fields, f)
	}
	for _, f := range p.Emails {
		fields = append(fields, f)
	}
	for _, f := range p.Jobs {
		fields = append(fields, f)
	}
	for _, f := range p.Educations {
		fields = append(fields, f)
	}
	for _, f := range p.Images {
		fields = append(fields, f)
	}
	for _, f := range p.Usernames {
		fields = append(fields, f)
	}
	for _, f := range p.UserIDs {
		fields = append(fields, f)
	}
	for _, f := range p.URLs {
		fields = append(fields, f)
	}
	for _, f := range p.Relationships {
		fields = append(fields, f)
	}
	for _, f := range p.Ethnicities {
		fields = append(fields, f)
	}
	for _, f := range p.OriginCountries {
		fields = append(fields, f)
	}
	for _, f := range p.Languages {
		fields = append(fields, f)
	}
	if p.Gender != nil {
		fields = append(fields, *p.Gender)
	}
	if p.DOB != nil {
		fields = append(fields, *p.DOB)
	}
	return fields
}

// IsSearchable reports whether the person carries enough data to be sent
// as a query: a search pointer, at least one searchable name, URL, user
// ID, email, phone or username, or an address searchable on its own.
func (p *Person) IsSearchable() bool {
	if p.SearchPointer != "" {
		return true
	}
	for _, f := range p.Names {
		if f.IsSearchable() {
			return true
		}
	}
	for _, f := range p.URLs {
		if f.IsSearchable() {
			return true
		}
	}
	for _, f := range p.Addresses {
		if f.IsSoleSearchable() {
			return true
		}
	}
	for _, f := range p.UserIDs {
		if f.IsSearchable() {
			return true
		}
	}
	for _, f := range p.Emails {
		if f.IsSearchable() {
			return true
		}
	}
	for _, f := range p.Phones {
		if f.IsSearchable() {
			return true
		}
	}
	for _, f := range p.Usernames {
		if f.IsSearchable() {
			return true
		}
	}
	return false
}

// UnsearchableFields returns the fields that cannot be searched by, such
// as names that are too short or invalid email addresses.
func (p *Person) UnsearchableFields() []Field {
	var fields []Field
	for _, f := range p.Names {
		if !f.IsSearchable() {
			fields = append(fields, f)
		}
	}
	for _, f := range p.Emails {
		if !f.IsSearchable() {
			fields = append(fields, f)
		}
	}
	for _, f := range p.Phones {
		if !f.IsSearchable() {
			fields = append(fields, f)
		}
	}
	for _, f := range p.Usernames {
		if !f.IsSearchable() {
			fields = append(fields, f)
		}
	}
	for _, f := range p.UserIDs {
		if !f.IsSearchable() {
			fields = append(fields, f)
		}
	}
	for _, f := range p.URLs {
		if !f.IsSearchable() {
			fields = append(fields, f)
		}
	}
	for _, f := range p.Addresses {
		if !f.IsSearchable() {
			fields = append(fields, f)
		}
	}
	if p.DOB != nil && !p.DOB.IsSearchable() {
		fields = append(fields, *p.DOB)
	}
	return fields
}
