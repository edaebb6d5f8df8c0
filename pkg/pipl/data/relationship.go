// pkg/pipl/data/relationship.go
package data

// RelationshipType classifies how the related person connects to this
// one.
type RelationshipType string

const (
	RelationshipTypeFriend RelationshipType = "friend"
	RelationshipTypeFamily RelationshipType = "family"
	RelationshipTypeWork   RelationshipType = "work"
	RelationshipTypeOther  RelationshipType = "other"
)

// Relationship is another person related to this person. Subtype is free
// text refining Type, for example "Father" under "family".
type Relationship struct {
	Type       RelationshipType `json:"@type,omitempty"`
	Subtype    string           `json:"@subtype,omitempty"`
	ValidSince *Date            `json:"@valid_since,omitempty"`
	Inferred   bool             `json:"@inferred,omitempty"`

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
	Ethnicities     []Ethnicity     `json:"ethnicities,omitempty"`
	OriginCountries []OriginCountry `json:"origin_countries,omitempty"`
	Languages       []Language      `json:"languages,omitempty"`
	Gender          *Gender         `json:"gender,omitempty"`
	DOB             *DOB            `json:"dob,omitempty"`
}

func (Relationship) isField() {}

func (r Relationship) String() string {
	if len(r.Names) > 0 {
		return r.Names[0].String()
	}
	return ""
}
