// pkg/pipl/data/demographics.go
package data

import "strings"

// Gender is the person's gender, either "male" or "female".
type Gender struct {
	FieldMetadata
	Content string `json:"content,omitempty"`
}

func (Gender) isField() {}

func (g Gender) String() string {
	return titleCase(g.Content)
}

// Ethnicity is an ethnicity value based on US census definitions, for
// example "white", "american_indian" or "other_pacific_islander".
type Ethnicity struct {
	FieldMetadata
	Content string `json:"content,omitempty"`
}

func (Ethnicity) isField() {}

func (e Ethnicity) String() string {
	return titleCase(strings.ReplaceAll(e.Content, "_", " "))
}

// Language is a language the person is familiar with. Language holds a
// two letter language code and Region a two letter country code.
type Language struct {
	FieldMetadata
	Language string `json:"language,omitempty"`
	Region   string `json:"region,omitempty"`
	Display  string `json:"display,omitempty"`
}

func (Language) isField() {}

func (l Language) String() string {
	return l.Display
}

// OriginCountry is a country of origin of the person, as a two letter
// country code.
type OriginCountry struct {
	FieldMetadata
	Country string `json:"country,omitempty"`
}

func (OriginCountry) isField() {}

func (o OriginCountry) String() string {
	return countryNames[strings.ToUpper(o.Country)]
}
