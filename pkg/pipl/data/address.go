// pkg/pipl/data/address.go
package data

import "strings"

// AddressType classifies how an address relates to the person.
type AddressType string

const (
	AddressTypeHome AddressType = "home"
	AddressTypeWork AddressType = "work"
	AddressTypeOld  AddressType = "old"
)

// Address is a postal address. Country and State hold short codes such as
// "US" and "NY"; the full names are available through CountryFull and
// StateFull. Raw holds an unparsed address such as "123 Marina Blvd, San
// Francisco, California, US" for querying without splitting the parts;
// addresses in responses are always parsed.
type Address struct {
	FieldMetadata
	Type      AddressType `json:"@type,omitempty"`
	Country   string      `json:"country,omitempty"`
	State     string      `json:"state,omitempty"`
	City      string      `json:"city,omitempty"`
	POBox     string      `json:"po_box,omitempty"`
	ZipCode   string      `json:"zip_code,omitempty"`
	Street    string      `json:"street,omitempty"`
	House     string      `json:"house,omitempty"`
	Apartment string      `json:"apartment,omitempty"`
	Raw       string      `json:"raw,omitempty"`
	Display   string      `json:"display,omitempty"`
}

func (Address) isField() {}

// IsSearchable reports whether the address can take part in a query.
func (a Address) IsSearchable() bool {
	return a.Raw != "" || a.Country != "" || a.State != "" || a.City != ""
}

// IsSoleSearchable reports whether the address alone is enough to search
// by: a raw address, or city plus street plus house.
func (a Address) IsSoleSearchable() bool {
	return a.Raw != "" || (a.City != "" && a.Street != "" && a.House != "")
}

// IsValidCountry reports whether Country is a known country code.
func (a Address) IsValidCountry() bool {
	if a.Country == "" {
		return false
	}
	_, ok := countryNames[strings.ToUpper(a.Country)]
	return ok
}

// IsValidState reports whether State is a known state code within the
// address's country.
func (a Address) IsValidState() bool {
	if !a.IsValidCountry() || a.State == "" {
		return false
	}
	sub, ok := stateNames[strings.ToUpper(a.Country)]
	if !ok {
		return false
	}
	_, ok = sub[strings.ToUpper(a.State)]
	return ok
}

// CountryFull returns the full name of the address's country, or "" when
// the code is unknown.
func (a Address) CountryFull() string {
	if a.Country == "" {
		return ""
	}
	return countryNames[strings.ToUpper(a.Country)]
}

// StateFull returns the full name of the address's state, or "" when the
// code is unknown.
func (a Address) StateFull() string {
	if !a.IsValidState() {
		return ""
	}
	return stateNames[strings.ToUpper(a.Country)][strings.ToUpper(a.State)]
}

func (a Address) String() string {
	return a.Display
}
