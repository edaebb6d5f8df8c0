// pkg/pipl/data/available_data.go
package data

// AvailableData summarizes the data available for a search. Basic shows
// what a basic coverage plan would return and Premium what a premium plan
// would; on a premium plan only Premium is set.
type AvailableData struct {
	Basic   *FieldCount `json:"basic,omitempty"`
	Premium *FieldCount `json:"premium,omitempty"`
}

// FieldCount counts the fields of each kind available for a search.
// Phones counts both mobile and landline phones.
type FieldCount struct {
	Addresses       int `json:"addresses,omitempty"`
	Ethnicities     int `json:"ethnicities,omitempty"`
	Emails          int `json:"emails,omitempty"`
	DOBs            int `json:"dobs,omitempty"`
	Genders         int `json:"genders,omitempty"`
	UserIDs         int `json:"user_ids,omitempty"`
	SocialProfiles  int `json:"social_profiles,omitempty"`
	Educations      int `json:"educations,omitempty"`
	Jobs            int `json:"jobs,omitempty"`
	Images          int `json:"images,omitempty"`
	Languages       int `json:"languages,omitempty"`
	OriginCountries int `json:"origin_countries,omitempty"`
	Names           int `json:"names,omitempty"`
	Phones          int `json:"phones,omitempty"`
	MobilePhones    int `json:"mobile_phones,omitempty"`
	LandlinePhones  int `json:"landline_phones,omitempty"`
	Relationships   int `json:"relationships,omitempty"`
	Usernames       int `json:"usernames,omitempty"`
}
