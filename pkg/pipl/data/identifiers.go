// pkg/pipl/data/identifiers.go
package data

import "strings"

// Username is a screen name associated with the person. Many sites let
// one username identify a single person, but that is not guaranteed.
type Username struct {
	FieldMetadata
	Content string `json:"content,omitempty"`
}

func (Username) isField() {}

// IsSearchable reports whether the username has at least four
// alphanumeric characters.
func (u Username) IsSearchable() bool {
	return alnumCount(u.Content) >= 4
}

func (u Username) String() string {
	return u.Content
}

// UserID is an ID a site uses to uniquely identify the person, in the
// form "id@site", for example "11231@facebook".
type UserID struct {
	FieldMetadata
	Content string `json:"content,omitempty"`
}

func (UserID) isField() {}

// IsSearchable reports whether the content is of the form "id@site" with
// both halves non blank.
func (u UserID) IsSearchable() bool {
	parts := strings.Split(u.Content, "@")
	return len(parts) >= 2 && strings.TrimSpace(parts[0]) != "" && strings.TrimSpace(parts[1]) != ""
}

func (u UserID) String() string {
	return u.Content
}
