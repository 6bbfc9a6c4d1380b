package entity

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/bubblerow/pkg/errors"
)

// Format identifies a dataset encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// Dataset is the on-disk envelope shared by all formats:
//
//	[[entities]]
//	id = 1
//	name = "You"
//	persons = 1
//	turnover = 40000
//
// JSON files may also be a bare array of entities.
type Dataset struct {
	Entities []Entity `json:"entities" toml:"entities" yaml:"entities"`
}

// FormatFromPath infers the dataset format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat, "unsupported dataset extension %q (want .json, .toml, .yaml)", filepath.Ext(path))
}

// Load reads and validates a dataset file.
func Load(path string) ([]Entity, error) {
	if err := errors.ValidatePath(path); err != nil {
		return nil, err
	}
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "dataset %s", path)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "open %s", path)
	}
	defer f.Close()

	entities, err := Decode(f, format)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidDataset, err, "load %s", path)
	}
	return entities, nil
}

// Decode reads a dataset in the given format and validates it.
// An empty document decodes to an empty, valid dataset.
func Decode(r io.Reader, format Format) ([]Entity, error) {
	var ds Dataset
	switch format {
	case FormatJSON:
		data, err := io.ReadAll(r)
		if err != nil {
			return nil, err
		}
		data = bytes.TrimSpace(data)
		switch {
		case len(data) == 0:
		case data[0] == '[':
			if err := json.Unmarshal(data, &ds.Entities); err != nil {
				return nil, err
			}
		default:
			if err := json.Unmarshal(data, &ds); err != nil {
				return nil, err
			}
		}
	case FormatTOML:
		if _, err := toml.NewDecoder(r).Decode(&ds); err != nil {
			return nil, err
		}
	case FormatYAML:
		if err := yaml.NewDecoder(r).Decode(&ds); err != nil && !stderrors.Is(err, io.EOF) {
			return nil, err
		}
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported dataset format %q", format)
	}

	if err := Validate(ds.Entities); err != nil {
		return nil, err
	}
	return ds.Entities, nil
}

// Encode writes entities in the given format using the [Dataset] envelope.
func Encode(w io.Writer, entities []Entity, format Format) error {
	ds := Dataset{Entities: entities}
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(ds)
	case FormatTOML:
		return toml.NewEncoder(w).Encode(ds)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		defer enc.Close()
		return enc.Encode(ds)
	}
	return errors.New(errors.ErrCodeInvalidFormat, "unsupported dataset format %q", format)
}

// Validate checks dataset-level invariants: ids are unique, names are
// printable and numeric fields are finite. Zero and negative magnitudes are
// allowed; the layout collapses such entities to a point.
func Validate(entities []Entity) error {
	seen := make(map[int]int, len(entities))
	for i, e := range entities {
		if j, dup := seen[e.ID]; dup {
			return errors.New(errors.ErrCodeDuplicateID, "entity id %d appears at positions %d and %d", e.ID, j, i)
		}
		seen[e.ID] = i

		if err := errors.ValidateEntityName(e.Name); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidDataset, err, "entity %d", e.ID)
		}
		if !finite(e.Persons) || !finite(e.Turnover) {
			return errors.New(errors.ErrCodeInvalidDataset, "entity %d (%s) has a non-finite field", e.ID, e.Name)
		}
	}
	return nil
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }
