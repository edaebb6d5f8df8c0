// pkg/pipl/data/web.go
package data

import (
	"errors"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

const thumbnailBaseURL = "https://thumb.pipl.com/image?"

var thumbnailSessionRe = regexp.MustCompile(`&dsid=\d+`)

// Image is a URL of an image of a person. ThumbnailToken, when present,
// can be turned into a thumbnail service URL with ThumbnailURL.
type Image struct {
	FieldMetadata
	URL            string `json:"url,omitempty"`
	ThumbnailToken string `json:"thumbnail_token,omitempty"`
}

func (Image) isField() {}

// IsValidURL reports whether the image URL looks like a valid URL.
func (img Image) IsValidURL() bool {
	return isValidURL(img.URL)
}

// ThumbnailURL builds a thumbnail service URL for this image with the
// requested dimensions. zoomFace enables face detection, favicon overlays
// the source site's favicon when available.
func (img Image) ThumbnailURL(width, height int, zoomFace, favicon bool) (string, error) {
	return RedundantThumbnailURL(&img, nil, width, height, zoomFace, favicon)
}

// RedundantThumbnailURL builds a thumbnail URL that falls back to the
// second image when the first is unavailable. Either image may be nil but
// not both, and at least one must carry a thumbnail token.
func RedundantThumbnailURL(first, second *Image, width, height int, zoomFace, favicon bool) (string, error) {
	if first == nil && second == nil {
		return "", errors.New("at least one image is required")
	}
	var tokens []string
	for _, img := range []*Image{first, second} {
		if img != nil && img.ThumbnailToken != "" {
			tokens = append(tokens, img.ThumbnailToken)
		}
	}
	if len(tokens) == 0 {
		return "", errors.New("thumbnails require an image with a thumbnail token")
	}
	joined := tokens[0]
	if len(tokens) > 1 {
		for i, t := range tokens {
			tokens[i] = thumbnailSessionRe.ReplaceAllString(t, "")
		}
		joined = strings.Join(tokens, ",")
	}
	params := url.Values{}
	params.Set("width", strconv.Itoa(width))
	params.Set("height", strconv.Itoa(height))
	params.Set("zoom_face", strconv.FormatBool(zoomFace))
	params.Set("favicon", strconv.FormatBool(favicon))
	return thumbnailBaseURL + params.Encode() + "&tokens=" + joined, nil
}

func (img Image) String() string {
	return img.URL
}

// URLCategory classifies the site a URL points at.
type URLCategory string

const (
	URLCategoryBackgroundReports       URLCategory = "background_reports"
	URLCategoryContactDetails          URLCategory = "contact_details"
	URLCategoryEmailAddress            URLCategory = "email_address"
	URLCategoryMedia                   URLCategory = "media"
	URLCategoryPersonalProfiles        URLCategory = "personal_profiles"
	URLCategoryProfessionalAndBusiness URLCategory = "professional_and_business"
	URLCategoryPublicRecords           URLCategory = "public_records"
	URLCategoryPublications            URLCategory = "publications"
	URLCategorySchoolAndClassmates     URLCategory = "school_and_classmates"
	URLCategoryWebPages                URLCategory = "web_pages"
)

// URL is a web address related to a person, either a source of data
// about them or a page otherwise connected to them.
type URL struct {
	FieldMetadata
	Category  URLCategory `json:"@category,omitempty"`
	Sponsored *bool       `json:"@sponsored,omitempty"`
	Domain    string      `json:"@domain,omitempty"`
	Name      string      `json:"@name,omitempty"`
	SourceID  string      `json:"@source_id,omitempty"`
	URL       string      `json:"url,omitempty"`
}

func (URL) isField() {}

// IsValidURL reports whether the address looks like a valid URL.
func (u URL) IsValidURL() bool {
	return isValidURL(u.URL)
}

// IsSearchable reports whether the URL can take part in a query.
func (u URL) IsSearchable() bool {
	return u.URL != ""
}

func (u URL) String() string {
	if u.URL != "" {
		return u.URL
	}
	return u.Name
}
