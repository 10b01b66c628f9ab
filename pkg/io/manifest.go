package io

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/matzehuels/taskwave/pkg/dag"
	apperr "github.com/matzehuels/taskwave/pkg/errors"
)

// Format identifies a manifest encoding.
type Format string

// Supported manifest formats.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFromPath derives the manifest format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	}
	return "", apperr.New(apperr.ErrCodeInvalidFormat, "cannot infer manifest format from %q", path)
}

// ParseFormat parses a format name as given on the command line.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case FormatJSON, FormatYAML, FormatTOML:
		return f, nil
	case "yml":
		return FormatYAML, nil
	}
	return "", apperr.New(apperr.ErrCodeInvalidFormat, "unknown manifest format %q", name)
}

// Manifest is the on-disk description of a task set.
type Manifest struct {
	Tasks        []TaskSpec       `json:"tasks" yaml:"tasks" toml:"tasks"`
	Dependencies []DependencySpec `json:"dependencies,omitempty" yaml:"dependencies,omitempty" toml:"dependencies,omitempty"`
}

// TaskSpec describes one task. DependsOn lists the tasks that must finish
// before this one starts.
type TaskSpec struct {
	ID        string         `json:"id" yaml:"id" toml:"id"`
	Name      string         `json:"name,omitempty" yaml:"name,omitempty" toml:"name,omitempty"`
	Duration  float64        `json:"duration" yaml:"duration" toml:"duration"`
	Resources []string       `json:"resources,omitempty" yaml:"resources,omitempty" toml:"resources,omitempty"`
	DependsOn []string       `json:"depends_on,omitempty" yaml:"depends_on,omitempty" toml:"depends_on,omitempty"`
	Meta      map[string]any `json:"meta,omitempty" yaml:"meta,omitempty" toml:"meta,omitempty"`
}

// DependencySpec is an explicit edge: To cannot start until From finishes.
type DependencySpec struct {
	From string `json:"from" yaml:"from" toml:"from"`
	To   string `json:"to" yaml:"to" toml:"to"`
}

// Graph converts the manifest into the analyzer's input.
//
// Task IDs and resource names are checked with [apperr.ValidateTaskID] and
// [apperr.ValidateResource]. DependsOn entries become edges pointing at the
// declaring task and are appended after the explicit dependencies. Graph
// does not check references or cycles; [dag.Build] does.
func (m *Manifest) Graph() ([]dag.Task, []dag.Dependency, error) {
	tasks := make([]dag.Task, 0, len(m.Tasks))
	deps := make([]dag.Dependency, 0, len(m.Dependencies))

	for _, d := range m.Dependencies {
		deps = append(deps, dag.Dependency{From: d.From, To: d.To})
	}
	for i, t := range m.Tasks {
		if err := apperr.ValidateTaskID(t.ID); err != nil {
			return nil, nil, apperr.Wrap(apperr.ErrCodeInvalidManifest, err, "task #%d", i+1)
		}
		for _, r := range t.Resources {
			if err := apperr.ValidateResource(r); err != nil {
				return nil, nil, apperr.Wrap(apperr.ErrCodeInvalidManifest, err, "task %s", t.ID)
			}
		}
		tasks = append(tasks, dag.Task{
			ID:        t.ID,
			Name:      t.Name,
			Duration:  t.Duration,
			Resources: t.Resources,
			Meta:      dag.Metadata(t.Meta),
		})
		for _, from := range t.DependsOn {
			deps = append(deps, dag.Dependency{From: from, To: t.ID})
		}
	}
	return tasks, deps, nil
}

// FromGraph builds a manifest from analyzer input, expressing every edge as
// a DependsOn entry of its target task.
func FromGraph(tasks []dag.Task, deps []dag.Dependency) *Manifest {
	dependsOn := make(map[string][]string)
	for _, d := range deps {
		dependsOn[d.To] = append(dependsOn[d.To], d.From)
	}

	m := &Manifest{Tasks: make([]TaskSpec, len(tasks))}
	for i, t := range tasks {
		name := t.Name
		if name == t.ID {
			name = ""
		}
		m.Tasks[i] = TaskSpec{
			ID:        t.ID,
			Name:      name,
			Duration:  t.Duration,
			Resources: t.Resources,
			DependsOn: dependsOn[t.ID],
			Meta:      t.Meta,
		}
	}
	return m
}

// String summarizes the manifest for log output.
func (m *Manifest) String() string {
	edges := len(m.Dependencies)
	for _, t := range m.Tasks {
		edges += len(t.DependsOn)
	}
	return fmt.Sprintf("manifest(%d tasks, %d dependencies)", len(m.Tasks), edges)
}
