// pkg/pipl/data/source.go
package data

// Tag is a meaningful string related to the person that either could not
// be classified or was classified as something outside the data fields.
type Tag struct {
	FieldMetadata
	Classification string `json:"@classification,omitempty"`
	Content        string `json:"content,omitempty"`
}

func (Tag) isField() {}

func (t Tag) String() string {
	return t.Content
}

// Source holds the data retrieved from a single page, for example one
// social profile or one public record. Match indicates how likely it is
// that the source holds data about the person from the query, 1.0 meaning
// certainty. ValidSince is the first time the API's crawlers saw the
// source.
type Source struct {
	ID         string   `json:"@id,omitempty"`
	Name       string   `json:"@name,omitempty"`
	Category   string   `json:"@category,omitempty"`
	OriginURL  string   `json:"@origin_url,omitempty"`
	Domain     string   `json:"@domain,omitempty"`
	Sponsored  *bool    `json:"@sponsored,omitempty"`
	Match      *float64 `json:"@match,omitempty"`
	PersonID   string   `json:"@person_id,omitempty"`
	Premium    *bool    `json:"@premium,omitempty"`
	ValidSince *Date    `json:"@valid_since,omitempty"`

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
	Tags            []Tag           `json:"tags,omitempty"`
	Gender          *Gender         `json:"gender,omitempty"`
	DOB             *DOB            `json:"dob,omitempty"`
}

// AddFields routes each field to its container on the source. Gender and
// DOB replace any previous value.
func (s *Source) AddFields(fields ...Field) {
	for _, f := range fields {
		switch v := f.(type) {
		case Name:
			s.Names = append(s.Names, v)
		case *Name:
			s.Names = append(s.Names, *v)
		case Address:
			s.Addresses = append(s.Addresses, v)
		case *Address:
			s.Addresses = append(s.Addresses, *v)
		case Phone:
			s.Phones = append(s.Phones, v)
		case *Phone:
			s.Phones = append(s.Phones, *v)
		case Email:
			s.Emails = append(s.Emails, v)
		case *Email:
			s.Emails = append(s.Emails, *v)
		case Job:
			s.Jobs = append(s.Jobs, v)
		case *Job:
			s.Jobs = append(s.Jobs, *v)
		case Education:
			s.Educations = append(s.Educations, v)
		case *Education:
			s.Educations = append(s.Educations, *v)
		case Image:
			s.Images = append(s.Images, v)
		case *Image:
			s.Images = append(s.Images, *v)
		case Username:
			s.Usernames = append(s.Usernames, v)
		case *Username:
			s.Usernames = append(s.Usernames, *v)
		case UserID:
			s.UserIDs = append(s.UserIDs, v)
		case *UserID:
			s.UserIDs = append(s.UserIDs, *v)
		case URL:
			s.URLs = append(s.URLs, v)
		case *URL:
			s.URLs = append(s.URLs, *v)
		case Relationship:
			s.Relationships = append(s.Relationships, v)
		case *Relationship:
			s.Relationships = append(s.Relationships, *v)
		case Ethnicity:
			s.Ethnicities = append(s.Ethnicities, v)
		case *Ethnicity:
			s.Ethnicities = append(s.Ethnicities, *v)
		case OriginCountry:
			s.OriginCountries = append(s.OriginCountries, v)
		case *OriginCountry:
			s.OriginCountries = append(s.OriginCountries, *v)
		case Language:
			s.Languages = append(s.Languages, v)
		case *Language:
			s.Languages = append(s.Languages, *v)
		case Tag:
			s.Tags = append(s.Tags, v)
		case *Tag:
			s.Tags = append(s.Tags, *v)
		case Gender:
			s.Gender = &v
		case *Gender:
			s.Gender = v
		case DOB:
			s.DOB = &v
		case *DOB:
			s.DOB = v
		}
	}
}

// AllFields returns every field contained in the source.
func (s *Source) AllFields() []Field {
	var fields []Field
	for _, f := range s.Names {
		fields = append(fields, f)
	}
	for _, f := range s.Addresses {
		fields = append(fields, f)
	}
	for _, f := range s.Phones {
		fields = append(fields, f)
	}
	for _, f := range s.Emails {
		fields = append(fields, f)
	}
	for _, f := range s.Jobs {
		fields = append(fields, f)
	}
	for _, f := range s.Educations {
		fields = append(fields, f)
	}
	for _, f := range s.Images {
		fields = append(fields, f)
	}
	for _, f := range s.Usernames {
		fields = append(fields, f)
	}
	for _, f := range s.UserIDs {
		fields = append(fields, f)
	}
	for _, f := range s.URLs {
		fields = append(fields, f)
	}
	for _, f := range s.Relationships {
		fields = append(fields, f)
	}
	for _, f := range s.Ethnicities {
		fields = append(fields, f)
	}
	for _, f := range s.OriginCountries {
		fields = append(fields, f)
	}
	for _, f := range s.Languages {
		fields = append(fields, f)
	}
	for _, f := range s.Tags {
		fields = append(fields, f)
	}
	if s.Gender != nil {
		fields = append(fields, *s.Gender)
	}
	if s.DOB != nil {
		fields = append(fields, *s.DOB)
	}
	return fields
}
