package config

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"
)

// SchemaVersion is the version of the embedded configuration schema.
const SchemaVersion = "1.0.0"

//go:embed schemas/ncreg-config-v1.yaml
var schemaYAML []byte

var (
	schemaOnce sync.Once
	schema     *gojsonschema.Schema
	schemaErr  error
)

// compiledSchema converts the YAML schema to JSON for gojsonschema and
// compiles it once.
func compiledSchema() (*gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		var doc interface{}
		if err := yaml.Unmarshal(schemaYAML, &doc); err != nil {
			schemaErr = fmt.Errorf("parse embedded schema: %w", err)
			return
		}
		jsonBytes, err := json.Marshal(doc)
		if err != nil {
			schemaErr = fmt.Errorf("convert embedded schema: %w", err)
			return
		}
		schema, schemaErr = gojsonschema.NewSchema(gojsonschema.NewBytesLoader(jsonBytes))
	})
	return schema, schemaErr
}

// ValidateSchema validates data (a Config or a decoded document) against
// the embedded schema.
func ValidateSchema(data interface{}) error {
	s, err := compiledSchema()
	if err != nil {
		return err
	}

	result, err := s.Validate(gojsonschema.NewGoLoader(data))
	if err != nil {
		return fmt.Errorf("schema validation error: %w", err)
	}
	if result.Valid() {
		return nil
	}

	var errs []string
	for _, desc := range result.Errors() {
		field := desc.Field()
		if field == "" || field == "(root)" {
			field = "root"
		}
		errs = append(errs, fmt.Sprintf("%s: %s", field, desc.Description()))
	}
	return fmt.Errorf("configuration validation failed:\n%s", strings.Join(errs, "\n"))
}

// ValidateDocument validates raw YAML or JSON configuration bytes.
func ValidateDocument(data []byte) error {
	var doc interface{}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("parse config: %w", err)
	}
	if doc == nil {
		doc = map[string]interface{}{}
	}
	return ValidateSchema(doc)
}
