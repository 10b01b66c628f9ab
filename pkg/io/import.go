package io

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	apperr "github.com/matzehuels/taskwave/pkg/errors"
)

// ReadManifest decodes a manifest in the given format from r.
//
// Unknown fields are rejected in every format so that typos such as
// "dependson" fail loudly instead of silently dropping edges. ReadManifest
// does not close r.
func ReadManifest(r io.Reader, format Format) (*Manifest, error) {
	var m Manifest
	switch format {
	case FormatJSON:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&m); err != nil {
			return nil, apperr.Wrap(apperr.ErrCodeInvalidManifest, err, "decode json")
		}
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&m); err != nil && err != io.EOF {
			return nil, apperr.Wrap(apperr.ErrCodeInvalidManifest, err, "decode yaml")
		}
	case FormatTOML:
		md, err := toml.NewDecoder(r).Decode(&m)
		if err != nil {
			return nil, apperr.Wrap(apperr.ErrCodeInvalidManifest, err, "decode toml")
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return nil, apperr.New(apperr.ErrCodeInvalidManifest, "unknown toml keys: %s", strings.Join(keys, ", "))
		}
	default:
		return nil, apperr.New(apperr.ErrCodeInvalidFormat, "unsupported manifest format %q", format)
	}
	return &m, nil
}

// ImportManifest reads the manifest at path, choosing the format from its
// extension. A path of "-" reads JSON from standard input.
func ImportManifest(path string) (*Manifest, error) {
	if err := apperr.ValidateManifestPath(path); err != nil {
		return nil, err
	}
	if path == "-" {
		return ReadManifest(os.Stdin, FormatJSON)
	}

	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, apperr.Wrap(apperr.ErrCodeFileNotFound, err, "manifest %s not found", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	m, err := ReadManifest(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}
