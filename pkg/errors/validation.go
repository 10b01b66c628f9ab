package errors

import (
	"path/filepath"
	"strings"
	"unicode"
)

// MaxTaskIDLength bounds task identifiers accepted from manifests and the
// API.
const MaxTaskIDLength = 256

// ValidateTaskID validates a task identifier read from untrusted input.
//
// The graph builder only requires IDs to be non-empty and unique; IDs that
// reach the API are also embedded in DOT output and log lines, so these
// rules are stricter:
//   - No empty IDs
//   - No control characters or null bytes
//   - No leading or trailing whitespace
//   - Maximum length of 256 characters
func ValidateTaskID(id string) error {
	if id == "" {
		return New(ErrCodeInvalidInput, "task id cannot be empty")
	}
	if len(id) > MaxTaskIDLength {
		return New(ErrCodeInvalidInput, "task id too long (max %d characters)", MaxTaskIDLength)
	}
	for _, r := range id {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidInput, "task id %q contains control characters", id)
		}
	}
	if strings.TrimSpace(id) != id {
		return New(ErrCodeInvalidInput, "task id %q has surrounding whitespace", id)
	}
	return nil
}

// ValidateResource validates a resource identifier with the same rules as
// task IDs.
func ValidateResource(name string) error {
	if err := ValidateTaskID(name); err != nil {
		return Wrap(ErrCodeInvalidInput, err, "invalid resource %q", name)
	}
	return nil
}

// Supported manifest extensions.
var manifestExtensions = map[string]bool{
	".json": true,
	".yaml": true,
	".yml":  true,
	".toml": true,
}

// ValidateManifestPath validates a manifest path given on the command line.
//
// Validation rules:
//   - Path cannot be empty
//   - No null bytes or control characters
//   - Extension must be .json, .yaml, .yml or .toml
//   - "-" (stdin) is accepted as-is
func ValidateManifestPath(path string) error {
	if path == "" {
		return New(ErrCodeInvalidPath, "manifest path cannot be empty")
	}
	if path == "-" {
		return nil
	}
	for _, r := range path {
		if unicode.IsControl(r) {
			return New(ErrCodeInvalidPath, "manifest path contains invalid characters")
		}
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !manifestExtensions[ext] {
		return New(ErrCodeInvalidManifest, "unsupported manifest type %q (want .json, .yaml, .yml or .toml)", ext)
	}
	return nil
}
