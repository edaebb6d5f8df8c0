// pkg/pipl/data/name.go
package data

// NameType classifies how a name relates to the person.
type NameType string

const (
	NameTypePresent       NameType = "present"
	NameTypeMaiden        NameType = "maiden"
	NameTypeFormer        NameType = "former"
	NameTypeAlias         NameType = "alias"
	NameTypeAlternative   NameType = "alternative"
	NameTypeAutogenerated NameType = "autogenerated"
)

// Name is a name of a person. Raw holds an unparsed name such as
// "Clark J. Kent" for querying without splitting the parts; names in
// responses are always parsed.
type Name struct {
	FieldMetadata
	Type    NameType `json:"@type,omitempty"`
	Prefix  string   `json:"prefix,omitempty"`
	First   string   `json:"first,omitempty"`
	Middle  string   `json:"middle,omitempty"`
	Last    string   `json:"last,omitempty"`
	Suffix  string   `json:"suffix,omitempty"`
	Raw     string   `json:"raw,omitempty"`
	Display string   `json:"display,omitempty"`
}

func (Name) isField() {}

// IsSearchable reports whether the name carries enough letters to search
// by: two each in first and last, or four in raw.
func (n Name) IsSearchable() bool {
	return (alphaCount(n.First) >= 2 && alphaCount(n.Last) >= 2) || alphaCount(n.Raw) >= 4
}

func (n Name) String() string {
	return n.Display
}
