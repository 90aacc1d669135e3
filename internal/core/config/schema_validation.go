package config

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"github.com/titanous/json5"
)

//go:embed schemas/settings.schema.json
var settingsSchema []byte

// compiledSchema is cached to avoid recompiling on every validation
var compiledSchema *jsonschema.Schema

// compileSchema compiles the embedded JSON schema
func compileSchema() (*jsonschema.Schema, error) {
	if compiledSchema != nil {
		return compiledSchema, nil
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020

	if err := compiler.AddResource("settings.schema.json", bytes.NewReader(settingsSchema)); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}

	schema, err := compiler.Compile("settings.schema.json")
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}

	compiledSchema = schema
	return schema, nil
}

// ValidateDocument validates a decoded settings document against the
// embedded JSON schema.
func ValidateDocument(doc any) error {
	schema, err := compileSchema()
	if err != nil {
		return err
	}

	if err := schema.Validate(doc); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}

	return nil
}

// LoadWithValidation loads one settings file, validating it against
// the schema and the semantic rules before typed decoding. Files with
// a .json5 extension are parsed leniently (comments, trailing commas).
func LoadWithValidation(path string) (*Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("settings file not found: %s", path)
		}
		return nil, fmt.Errorf("failed to read settings file: %w", err)
	}

	lenient := strings.EqualFold(filepath.Ext(path), ".json5")

	var doc any
	if err := decode(data, &doc, lenient); err != nil {
		return nil, ErrInvalidSettings{File: path, Reason: err.Error()}
	}

	if err := ValidateDocument(doc); err != nil {
		return nil, ErrInvalidSettings{File: path, Reason: err.Error()}
	}

	settings := DefaultSettings()
	if err := decode(data, settings, lenient); err != nil {
		return nil, ErrInvalidSettings{File: path, Reason: err.Error()}
	}

	if err := ValidateSettings(settings); err != nil {
		return nil, ErrInvalidSettings{File: path, Reason: err.Error()}
	}

	return settings, nil
}

func decode(data []byte, v any, lenient bool) error {
	if lenient {
		return json5.Unmarshal(data, v)
	}
	return json.Unmarshal(data, v)
}
