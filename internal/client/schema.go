package client

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"portfolio-feedback/internal/feedback"
)

const submissionSchema = `{
  "type": "object",
  "required": ["type", "priority", "pageSection", "text"],
  "properties": {
    "type": {"enum": ["update", "create", "delete", "fix", "design"]},
    "priority": {"enum": ["high", "medium", "low"]},
    "pageSection": {"type": "string", "pattern": "\\S"},
    "text": {"type": "string", "pattern": "\\S"},
    "expectedResult": {"type": "string"}
  }
}`

// Submission is what a visitor fills in on the feedback form.
type Submission struct {
	Type           feedback.Type     `json:"type"`
	Priority       feedback.Priority `json:"priority"`
	PageSection    string            `json:"pageSection"`
	Text           string            `json:"text"`
	ExpectedResult string            `json:"expectedResult,omitempty"`
}

var compiledSchema = mustSchema(submissionSchema)

func mustSchema(s string) *gojsonschema.Schema {
	schema, err := gojsonschema.NewSchema(gojsonschema.NewStringLoader(s))
	if err != nil {
		panic(fmt.Sprintf("submission schema: %v", err))
	}
	return schema
}

// Validate checks the required fields and enums before anything is sent.
func (s Submission) Validate() error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode submission: %w", err)
	}
	result, err := compiledSchema.Validate(gojsonschema.NewBytesLoader(data))
	if err != nil {
		return fmt.Errorf("validate submission: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var msgs []string
	for _, e := range result.Errors() {
		msgs = append(msgs, fmt.Sprintf("%s: %s", e.Field(), e.Description()))
	}
	return &feedback.ValidationError{
		Field:  result.Errors()[0].Field(),
		Reason: strings.Join(msgs, "; "),
	}
}
