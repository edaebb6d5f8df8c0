// internal/batch/input.go
package batch

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"

	"github.com/piplapis/piplapis-go/internal/common/cache"
	apperrors "github.com/piplapis/piplapis-go/internal/common/errors"
	"github.com/piplapis/piplapis-go/pkg/pipl"
)

// Record is one query in a batch input file. The field names match the
// search API's own parameter names, so an input file reads like a list
// of API calls.
type Record struct {
	// ID identifies the record in logs, results and sinks. Assigned
	// automatically when the input leaves it empty.
	ID string `json:"id,omitempty"`

	FirstName  string `json:"first_name,omitempty"`
	MiddleName string `json:"middle_name,omitempty"`
	LastName   string `json:"last_name,omitempty"`
	RawName    string `json:"raw_name,omitempty"`

	Email string `json:"email,omitempty"`

	Phone       int64  `json:"phone,omitempty"`
	CountryCode int    `json:"country_code,omitempty"`
	RawPhone    string `json:"raw_phone,omitempty"`

	Username string `json:"username,omitempty"`
	UserID   string `json:"user_id,omitempty"`
	URL      string `json:"url,omitempty"`

	Country    string `json:"country,omitempty"`
	State      string `json:"state,omitempty"`
	City       string `json:"city,omitempty"`
	Street     string `json:"street,omitempty"`
	House      string `json:"house,omitempty"`
	ZipCode    string `json:"zip_code,omitempty"`
	RawAddress string `json:"raw_address,omitempty"`

	FromAge int `json:"from_age,omitempty"`
	ToAge   int `json:"to_age,omitempty"`

	SearchPointer string `json:"search_pointer,omitempty"`
	TopMatch      bool   `json:"top_match,omitempty"`
}

// recordSchema rejects unknown keys and wrong types before a record is
// bound, so a typo in an input file fails the load instead of silently
// searching on an empty query.
var recordSchema = map[string]interface{}{
	"type":                 "object",
	"additionalProperties": false,
	"properties": map[string]interface{}{
		"id":             map[string]interface{}{"type": "string"},
		"first_name":     map[string]interface{}{"type": "string"},
		"middle_name":    map[string]interface{}{"type": "string"},
		"last_name":      map[string]interface{}{"type": "string"},
		"raw_name":       map[string]interface{}{"type": "string"},
		"email":          map[string]interface{}{"type": "string"},
		"phone":          map[string]interface{}{"type": "integer"},
		"country_code":   map[string]interface{}{"type": "integer"},
		"raw_phone":      map[string]interface{}{"type": "string"},
		"username":       map[string]interface{}{"type": "string"},
		"user_id":        map[string]interface{}{"type": "string"},
		"url":            map[string]interface{}{"type": "string"},
		"country":        map[string]interface{}{"type": "string"},
		"state":          map[string]interface{}{"type": "string"},
		"city":           map[string]interface{}{"type": "string"},
		"street":         map[string]interface{}{"type": "string"},
		"house":          map[string]interface{}{"type": "string"},
		"zip_code":       map[string]interface{}{"type": "string"},
		"raw_address":    map[string]interface{}{"type": "string"},
		"from_age":       map[string]interface{}{"type": "integer", "minimum": 0},
		"to_age":         map[string]interface{}{"type": "integer", "minimum": 0},
		"search_pointer": map[string]interface{}{"type": "string"},
		"top_match":      map[string]interface{}{"type": "boolean"},
	},
}

// LoadRecords reads a batch input file.
func LoadRecords(path string) ([]Record, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read batch input: %w", err)
	}
	return ParseRecords(raw)
}

// ParseRecords accepts either a JSON array of query objects or one
// object per line (JSON Lines).
func ParseRecords(raw []byte) ([]Record, error) {
	trimmed := bytes.TrimLeft(raw, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, errors.New("batch input is empty")
	}
	if trimmed[0] == '[' {
		return parseRecordArray(raw)
	}
	return parseRecordLines(raw)
}

func parseRecordArray(raw []byte) ([]Record, error) {
	var docs []json.RawMessage
	if err := json.Unmarshal(raw, &docs); err != nil {
		return nil, fmt.Errorf("parse batch input: %w", err)
	}

	records := make([]Record, 0, len(docs))
	for i, doc := range docs {
		record, err := parseRecord(doc)
		if err != nil {
			return nil, apperrors.NewInvalidInputRecordError(fmt.Sprintf("record %d: %v", i+1, err))
		}
		records = append(records, record)
	}
	return records, nil
}

func parseRecordLines(raw []byte) ([]Record, error) {
	var records []Record
	scanner := bufio.NewScanner(bytes.NewReader(raw))
	line := 0
	for scanner.Scan() {
		line++
		doc := bytes.TrimSpace(scanner.Bytes())
		if len(doc) == 0 {
			continue
		}
		record, err := parseRecord(doc)
		if err != nil {
			return nil, apperrors.NewInvalidInputRecordError(fmt.Sprintf("line %d: %v", line, err))
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read batch input: %w", err)
	}
	return records, nil
}

func parseRecord(doc []byte) (Record, error) {
	var fields map[string]interface{}
	if err := json.Unmarshal(doc, &fields); err != nil {
		return Record{}, err
	}
	if err := validateRecord(fields); err != nil {
		return Record{}, err
	}

	var record Record
	if err := json.Unmarshal(doc, &record); err != nil {
		return Record{}, err
	}
	return record, nil
}

func validateRecord(fields map[string]interface{}) error {
	schemaLoader := gojsonschema.NewGoLoader(recordSchema)
	documentLoader := gojsonschema.NewGoLoader(fields)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}

	if !result.Valid() {
		errs := make([]string, len(result.Errors()))
		for i, desc := range result.Errors() {
			errs[i] = desc.String()
		}
		return fmt.Errorf("record validation failed: %v", errs)
	}

	return nil
}

// SearchRequest converts the record into an API query.
func (r Record) SearchRequest() *pipl.SearchRequest {
	return &pipl.SearchRequest{
		FirstName:     r.FirstName,
		MiddleName:    r.MiddleName,
		LastName:      r.LastName,
		RawName:       r.RawName,
		Email:         r.Email,
		Phone:         r.Phone,
		CountryCode:   r.CountryCode,
		RawPhone:      r.RawPhone,
		Username:      r.Username,
		UserID:        r.UserID,
		URL:           r.URL,
		Country:       r.Country,
		State:         r.State,
		City:          r.City,
		Street:        r.Street,
		House:         r.House,
		ZipCode:       r.ZipCode,
		RawAddress:    r.RawAddress,
		FromAge:       r.FromAge,
		ToAge:         r.ToAge,
		SearchPointer: r.SearchPointer,
		TopMatch:      r.TopMatch,
	}
}

// CacheKey identifies the query for response caching. The record ID is
// left out, so identical queries from different records share one
// cache entry.
func (r Record) CacheKey() string {
	r.ID = ""
	payload, _ := json.Marshal(r)
	return cache.Key(payload)
}
