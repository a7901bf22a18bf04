package jsonfile

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	jsonschema "github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed tasks.schema.json
var schemaJSON []byte

const schemaURL = "https://colonyops.dev/tasktracker/tasks.schema.json"

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func taskSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource(schemaURL, bytes.NewReader(schemaJSON)); err != nil {
			schemaErr = fmt.Errorf("add task schema: %w", err)
			return
		}
		compiledSchema, schemaErr = compiler.Compile(schemaURL)
	})
	return compiledSchema, schemaErr
}

// SchemaViolation is a single place where a task file departs from the
// canonical layout.
type SchemaViolation struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

func (v SchemaViolation) String() string {
	if v.Path == "" {
		return v.Message
	}
	return v.Path + ": " + v.Message
}

// ValidateSchema checks task file text against the canonical task file JSON
// Schema. An error is returned only when data is not JSON at all; schema
// departures are reported as violations.
func ValidateSchema(data []byte) ([]SchemaViolation, error) {
	schema, err := taskSchema()
	if err != nil {
		return nil, err
	}

	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse task file as JSON: %w", err)
	}

	err = schema.Validate(doc)
	if err == nil {
		return nil, nil
	}

	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return nil, err
	}

	var violations []SchemaViolation
	collectViolations(&violations, ve)
	return violations, nil
}

func collectViolations(out *[]SchemaViolation, err *jsonschema.ValidationError) {
	if len(err.Causes) == 0 {
		*out = append(*out, SchemaViolation{
			Path:    pointerToPath(err.InstanceLocation),
			Message: err.Message,
		})
		return
	}

	for _, cause := range err.Causes {
		collectViolations(out, cause)
	}
}

// pointerToPath turns a JSON pointer such as "/0/status" into "[0].status".
func pointerToPath(ptr string) string {
	ptr = strings.TrimPrefix(ptr, "#")
	ptr = strings.TrimPrefix(ptr, "/")
	if ptr == "" {
		return ""
	}

	var b strings.Builder
	for _, part := range strings.Split(ptr, "/") {
		if part != "" && strings.Trim(part, "0123456789") == "" {
			b.WriteString("[" + part + "]")
			continue
		}
		if b.Len() > 0 {
			b.WriteByte('.')
		}
		b.WriteString(part)
	}
	return b.String()
}
