// Package sidecar loads the JSON documents that describe one course unit.
package sidecar

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/xeipuuv/gojsonschema"
	"golang.org/x/text/unicode/norm"
)

// Section is one bilingual part of a unit.
type Section struct {
	Chinese string
	English []string // never empty
}

// CourseUnit is the validated content of a sidecar file.
type CourseUnit struct {
	Title Section
	Text  Section
}

// Kind classifies a validation failure.
type Kind string

const (
	KindMissingKey Kind = "missing-key"
	KindWrongType  Kind = "wrong-type"
)

// ValidationError reports a well-formed document with the wrong structure.
type ValidationError struct {
	Path   string
	Kind   Kind
	Field  string // dotted path of the offending key, "(root)" for the document itself
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s at %s: %s", e.Path, e.Kind, e.Field, e.Reason)
}

// ParseError reports a document that is not well-formed JSON.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: malformed JSON: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

const unitSchemaJSON = `{
  "type": "object",
  "required": ["title", "text"],
  "properties": {
    "title": {"$ref": "#/definitions/section"},
    "text": {"$ref": "#/definitions/section"}
  },
  "definitions": {
    "section": {
      "type": "object",
      "required": ["Chinese", "English"],
      "properties": {
        "Chinese": {"type": "string"},
        "English": {
          "oneOf": [
            {"type": "string"},
            {"type": "array", "items": {"type": "string"}, "minItems": 1}
          ]
        }
      }
    }
  }
}`

var unitSchema = mustCompileSchema(unitSchemaJSON)

func mustCompileSchema(s string) *gojsonschema.Schema {
	sch, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic(fmt.Sprintf("compile sidecar schema: %v", err))
	}
	return sch
}

// Load reads and validates the sidecar at path. The file is never modified.
func Load(path string) (*CourseUnit, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read sidecar: %w", err)
	}
	return Parse(path, data)
}

// Parse validates raw sidecar bytes. path is only used in errors.
func Parse(path string, data []byte) (*CourseUnit, error) {
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	result, err := unitSchema.Validate(gojsonschema.NewGoLoader(doc))
	if err != nil {
		return nil, fmt.Errorf("validate sidecar: %w", err)
	}
	if !result.Valid() {
		return nil, toValidationError(path, result.Errors())
	}

	var raw struct {
		Title rawSection `json:"title"`
		Text  rawSection `json:"text"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	return &CourseUnit{
		Title: raw.Title.normalize(),
		Text:  raw.Text.normalize(),
	}, nil
}

type rawSection struct {
	Chinese string  `json:"Chinese"`
	English english `json:"English"`
}

func (s rawSection) normalize() Section {
	out := Section{
		Chinese: norm.NFC.String(s.Chinese),
		English: make([]string, len(s.English)),
	}
	for i, e := range s.English {
		out.English[i] = norm.NFC.String(e)
	}
	return out
}

// english accepts either a single string or a list of strings.
type english []string

func (e *english) UnmarshalJSON(b []byte) error {
	var single string
	if err := json.Unmarshal(b, &single); err == nil {
		*e = english{single}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return err
	}
	*e = many
	return nil
}

// toValidationError reduces schema errors to the first one in field order.
func toValidationError(path string, errs []gojsonschema.ResultError) error {
	sort.SliceStable(errs, func(i, j int) bool {
		return errs[i].Field() < errs[j].Field()
	})

	for _, re := range errs {
		switch re.Type() {
		case "required":
			field := re.Field()
			if prop, ok := re.Details()["property"].(string); ok {
				field = joinField(field, prop)
			}
			return &ValidationError{Path: path, Kind: KindMissingKey, Field: field, Reason: re.Description()}
		case "invalid_type", "number_one_of", "array_min_items":
			return &ValidationError{Path: path, Kind: KindWrongType, Field: re.Field(), Reason: re.Description()}
		}
	}

	re := errs[0]
	return &ValidationError{Path: path, Kind: KindWrongType, Field: re.Field(), Reason: re.Description()}
}

func joinField(parent, child string) string {
	if parent == "" || parent == "(root)" {
		return child
	}
	return parent + "." + child
}
