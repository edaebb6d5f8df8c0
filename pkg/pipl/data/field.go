// Package data implements the person data model of the search API: field
// types such as names, addresses, emails and phones, and the containers
// (Person, Source, Relationship) that group them. Field values travel as
// JSON with metadata keys prefixed by "@".
package data

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// Field is implemented by every data field type in this package. Fields
// render through String as the API's display value, which may be empty
// for query-built fields.
type Field interface {
	fmt.Stringer
	isField()
}

// FieldMetadata carries the provenance attributes shared by all field
// types. ValidSince is the date the field was first seen by the API's
// crawlers and LastSeen the most recent sighting. Current reports whether
// the field still held at query time.
type FieldMetadata struct {
	ValidSince *Date `json:"@valid_since,omitempty"`
	LastSeen   *Date `json:"@last_seen,omitempty"`
	Inferred   bool  `json:"@inferred,omitempty"`
	Current    *bool `json:"@current,omitempty"`
}

var validURLRe = regexp.MustCompile(`^(?:(?:ht|f)tps?://|~/|/)?` + // protocol
	`(?:\w+:\w+@)?` + // credentials
	`(?:(?:[-\w]+\.)+(?:com|org|net|gov|mil|biz|info|mobi|name|aero|jobs|museum|travel|[a-z]{2}))` + // host
	`(?::\d{1,5})?` + // port
	`(?:(?:(?:/(?:[-\w~!$+|.,=]|%[a-f\d]{2})+)+|/)+|\?|#)?` + // path
	`(?:(?:\?(?:[-\w~!$+|.,*:]|%[a-f\d]{2})+=?(?:[-\w~!$+|.,*:=]|%[a-f\d]{2})*)` +
	`(?:&(?:[-\w~!$+|.,*:]|%[a-f\d]{2})+=?(?:[-\w~!$+|.,*:=]|%[a-f\d]{2})*)*)*` + // query
	`(?:#(?:[-\w~!$+|.,*:=]|%[a-f\d]{2})*)?$`) // anchor

func isValidURL(u string) bool {
	return u != "" && validURLRe.MatchString(u)
}

func alphaCount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}

func alnumCount(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			n++
		}
	}
	return n
}

// titleCase uppercases the first letter of every word and lowercases the
// rest, the way display values are rendered.
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		isLetter := unicode.IsLetter(r)
		switch {
		case isLetter && !prevLetter:
			r = unicode.ToUpper(r)
		case isLetter:
			r = unicode.ToLower(r)
		}
		prevLetter = isLetter
		b.WriteRune(r)
	}
	return b.String()
}
