// pkg/pipl/data/phone.go
package data

// PhoneType classifies the kind of phone line.
type PhoneType string

const (
	PhoneTypeMobile    PhoneType = "mobile"
	PhoneTypeHomePhone PhoneType = "home_phone"
	PhoneTypeHomeFax   PhoneType = "home_fax"
	PhoneTypeWorkPhone PhoneType = "work_phone"
	PhoneTypeWorkFax   PhoneType = "work_fax"
	PhoneTypePager     PhoneType = "pager"
)

// Phone is a phone number. Number is the national number without
// formatting; Raw is a number sent as is and parsed remotely.
type Phone struct {
	FieldMetadata
	Type                 PhoneType `json:"@type,omitempty"`
	CountryCode          int       `json:"country_code,omitempty"`
	Number               int64     `json:"number,omitempty"`
	Extension            int       `json:"extension,omitempty"`
	Raw                  string    `json:"raw,omitempty"`
	Display              string    `json:"display,omitempty"`
	DisplayInternational string    `json:"display_international,omitempty"`
}

func (Phone) isField() {}

// IsSearchable reports whether the phone can be searched by: a national
// number together with a country code, or a raw number.
func (p Phone) IsSearchable() bool {
	return (p.Number != 0 && p.CountryCode != 0) || p.Raw != ""
}

func (p Phone) String() string {
	return p.Display
}
