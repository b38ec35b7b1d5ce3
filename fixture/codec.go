package fixture

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"
)

// Format is the on-disk encoding of a fixture.
type Format int

const (
	// FormatJSON is plain JSON. Comments and trailing commas are accepted on
	// decode.
	FormatJSON Format = iota
	FormatYAML
)

var ErrUnknownFormat = errors.New("unknown fixture format")

func (f Format) String() string {
	switch f {
	case FormatJSON:
		return "json"
	case FormatYAML:
		return "yaml"
	default:
		return ""
	}
}

// FormatFromPath picks the format from the file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json", ".jsonc":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return 0, fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// Load reads a fixture file.
func Load(path string) (*Store, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	store, err := Decode(data, format)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	return store, nil
}

// Save writes the store to path, creating parent directories as needed.
func Save(path string, store *Store) error {
	format, err := FormatFromPath(path)
	if err != nil {
		return err
	}

	data, err := Encode(store, format)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

// Decode parses a fixture. Record attributes always follow the Docker Engine
// API field names, whichever the format.
func Decode(data []byte, format Format) (*Store, error) {
	switch format {
	case FormatJSON:
		data = jsonc.ToJSON(data)
	case FormatYAML:
		var err error
		if data, err = yamlToJSON(data); err != nil {
			return nil, err
		}
	default:
		return nil, ErrUnknownFormat
	}

	store := &Store{}
	if err := json.Unmarshal(data, store); err != nil {
		return nil, err
	}

	return store, nil
}

// Encode serializes the store.
func Encode(store *Store, format Format) ([]byte, error) {
	data, err := json.MarshalIndent(store, "", "  ")
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatJSON:
		return append(data, '\n'), nil
	case FormatYAML:
		return jsonToYAML(data)
	default:
		return nil, ErrUnknownFormat
	}
}

func yamlToJSON(data []byte) ([]byte, error) {
	var v interface{}
	if err := yaml.Unmarshal(data, &v); err != nil {
		return nil, err
	}

	// An empty document decodes to nil.
	if v == nil {
		return []byte("{}"), nil
	}

	return json.Marshal(v)
}

func jsonToYAML(data []byte) ([]byte, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var v interface{}
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}

	return yaml.Marshal(v)
}
