package config

import (
	"fmt"
	"sync"

	"github.com/goccy/go-json"
	"github.com/invopop/jsonschema"

	"github.com/flindersuni/xamlstyle/pkg/yaml"
)

// SchemaURL identifies the configuration schema.
const SchemaURL = "https://raw.githubusercontent.com/flindersuni/xamlstyle/main/pkg/config/config.v1beta1.json"

// Schema generates the JSON schema for [Config].
func Schema() ([]byte, error) {
	r := &jsonschema.Reflector{
		ExpandedStruct: true,
	}

	s := r.Reflect(New())
	s.ID = SchemaURL

	b, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}

	return b, nil
}

var defaultValidator = sync.OnceValues(func() (*yaml.Validator, error) {
	data, err := Schema()
	if err != nil {
		return nil, err
	}

	return yaml.NewValidator(SchemaURL, data)
})

// DefaultValidator returns the schema validator for [Config].
func DefaultValidator() (*yaml.Validator, error) {
	return defaultValidator()
}
