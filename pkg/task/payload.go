package task

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

// Unknown properties are accepted and ignored; null counts as absent.
const createSchemaJSON = `{
	"type": "object",
	"required": ["title"],
	"properties": {
		"title":       {"type": "string"},
		"description": {"type": ["string", "null"]}
	}
}`

const updateSchemaJSON = `{
	"type": "object",
	"properties": {
		"title":       {"type": ["string", "null"]},
		"description": {"type": ["string", "null"]},
		"completed":   {"type": ["boolean", "null"]}
	}
}`

var (
	createSchema = jsonschema.MustCompileString("task-create.json", createSchemaJSON)
	updateSchema = jsonschema.MustCompileString("task-update.json", updateSchemaJSON)
)

// CreateRequest is a validated create payload.
type CreateRequest struct {
	Title       string
	Description string
}

// DecodeCreate parses and validates a create payload. The returned title is trimmed
// and never empty.
func DecodeCreate(body []byte) (CreateRequest, error) {
	if err := validatePayload(createSchema, body); err != nil {
		return CreateRequest{}, err
	}
	var raw struct {
		Title       string  `json:"title"`
		Description *string `json:"description"`
	}
	if err := json.Unmarshal(body, &raw); err != nil {
		return CreateRequest{}, &ValidationError{Reason: "invalid JSON: " + err.Error()}
	}

	title, err := NormalizeTitle(raw.Title)
	if err != nil {
		return CreateRequest{}, err
	}
	req := CreateRequest{Title: title}
	if raw.Description != nil {
		req.Description = *raw.Description
	}
	return req, nil
}

// DecodePatch parses and validates an update payload.
func DecodePatch(body []byte) (Patch, error) {
	if err := validatePayload(updateSchema, body); err != nil {
		return Patch{}, err
	}
	var p Patch
	if err := json.Unmarshal(body, &p); err != nil {
		return Patch{}, &ValidationError{Reason: "invalid JSON: " + err.Error()}
	}
	if p.Title != nil {
		title, err := NormalizeTitle(*p.Title)
		if err != nil {
			return Patch{}, err
		}
		p.Title = &title
	}
	return p, nil
}

func validatePayload(schema *jsonschema.Schema, body []byte) error {
	var doc any
	if err := json.Unmarshal(body, &doc); err != nil {
		return &ValidationError{Reason: "invalid JSON: " + err.Error()}
	}
	if err := schema.Validate(doc); err != nil {
		return schemaError(err)
	}
	return nil
}

// schemaError flattens the leaf causes of a schema failure into one ValidationError.
func schemaError(err error) error {
	var ve *jsonschema.ValidationError
	if !errors.As(err, &ve) {
		return &ValidationError{Reason: err.Error()}
	}
	var msgs []string
	var field string
	collectSchemaMessages(ve, &msgs, &field)
	return &ValidationError{Field: field, Reason: strings.Join(msgs, "; ")}
}

func collectSchemaMessages(ve *jsonschema.ValidationError, msgs *[]string, field *string) {
	if len(ve.Causes) == 0 {
		path := strings.TrimPrefix(ve.InstanceLocation, "/")
		if *field == "" {
			*field = path
		}
		if path == "" {
			*msgs = append(*msgs, ve.Message)
		} else {
			*msgs = append(*msgs, fmt.Sprintf("%s %s", path, ve.Message))
		}
		return
	}
	for _, cause := range ve.Causes {
		collectSchemaMessages(cause, msgs, field)
	}
}
