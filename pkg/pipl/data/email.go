// pkg/pipl/data/email.go
package data

import (
	"regexp"
	"strings"
)

// EmailType classifies how an email address relates to the person.
type EmailType string

const (
	EmailTypePersonal EmailType = "personal"
	EmailTypeWork     EmailType = "work"
)

// The check is intentionally basic and far from covering every edge of
// the address grammar.
var emailRe = regexp.MustCompile(`^[\w.%\-+]+@[\w.%\-]+\.[a-zA-Z]{2,6}$`)

// Email is an email address of a person. Some responses omit the address
// itself for privacy and carry only its md5 hash.
type Email struct {
	FieldMetadata
	Type          EmailType `json:"@type,omitempty"`
	Disposable    *bool     `json:"@disposable,omitempty"`
	EmailProvider *bool     `json:"@email_provider,omitempty"`
	Address       string    `json:"address,omitempty"`
	AddressMD5    string    `json:"address_md5,omitempty"`
}

func (Email) isField() {}

// IsValidEmail reports whether Address matches a basic email pattern.
func (e Email) IsValidEmail() bool {
	return emailRe.MatchString(e.Address)
}

// IsSearchable reports whether the email can be searched by: a valid
// address or a 32 character md5 hash.
func (e Email) IsSearchable() bool {
	return e.IsValidEmail() || len(e.AddressMD5) == 32
}

// Username returns the part of the address before the @, or "" when the
// address is invalid.
func (e Email) Username() string {
	if !e.IsValidEmail() {
		return ""
	}
	return strings.SplitN(e.Address, "@", 2)[0]
}

// Domain returns the part of the address after the @, or "" when the
// address is invalid.
func (e Email) Domain() string {
	if !e.IsValidEmail() {
		return ""
	}
	return strings.SplitN(e.Address, "@", 2)[1]
}

func (e Email) String() string {
	if e.Address != "" {
		return e.Address
	}
	return e.AddressMD5
}
