package yamldef

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/formwork-dev/formwork/pkg/adapters/memory"
	"github.com/formwork-dev/formwork/pkg/domain"
)

// LoadFile reads a workflow definition from a YAML or JSON document. The
// format follows the file extension; anything that is not .json parses as
// YAML.
func LoadFile(path string) (domain.Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return domain.Definition{}, fmt.Errorf("failed to read definition file: %w", err)
	}

	if strings.ToLower(filepath.Ext(path)) == ".json" {
		return ParseJSON(data)
	}
	return Parse(data)
}

// Parse decodes a YAML definition document. Unknown document keys are
// rejected so a typo in an authored definition fails at load time instead
// of silently dropping a rule.
func Parse(data []byte) (domain.Definition, error) {
	var def domain.Definition
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&def); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Definition{}, nil
		}
		return domain.Definition{}, fmt.Errorf("failed to parse definition: %w", err)
	}
	return def, nil
}

// ParseJSON decodes a JSON definition document, rejecting unknown keys
// like Parse does.
func ParseJSON(data []byte) (domain.Definition, error) {
	var def domain.Definition
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&def); err != nil {
		return domain.Definition{}, fmt.Errorf("failed to parse definition: %w", err)
	}
	return def, nil
}

// Decode converts a definition already held as a generic map, e.g. the
// body of an HTTP request, into the typed document. Keys match the JSON
// form of the definition.
func Decode(raw map[string]any) (domain.Definition, error) {
	var def domain.Definition
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "json",
		Result:      &def,
		ErrorUnused: true,
	})
	if err != nil {
		return domain.Definition{}, fmt.Errorf("failed to build definition decoder: %w", err)
	}
	if err := dec.Decode(raw); err != nil {
		return domain.Definition{}, fmt.Errorf("failed to decode definition: %w", err)
	}
	return def, nil
}

// Index compiles a definition into the in-memory index consumed by the
// engine.
func Index(def domain.Definition) *memory.Index {
	return memory.NewIndex(def)
}
