// Package io reads task manifests and writes analysis reports.
//
// # Manifest Format
//
// A manifest lists tasks and, optionally, explicit dependencies. The same
// structure is accepted as JSON, YAML or TOML; the format is chosen by file
// extension (.json, .yaml/.yml, .toml):
//
//	tasks:
//	  - id: fetch
//	    duration: 2
//	  - id: compile
//	    duration: 3
//	    resources: [cpu]
//	    depends_on: [fetch]
//	  - id: lint
//	    duration: 1
//	    resources: [cpu]
//	    depends_on: [fetch]
//	  - id: package
//	    duration: 1
//	dependencies:
//	  - {from: compile, to: package}
//
// Task fields:
//   - id: Unique identifier (required)
//   - name: Display name (defaults to id)
//   - duration: Non-negative duration weight
//   - resources: Shared resources held while the task runs
//   - depends_on: Tasks that must finish first
//   - meta: Free-form object, ignored by the analysis
//
// Unknown fields are rejected.
//
// # Import
//
// Use [ImportManifest] to read a manifest from a path, or [ReadManifest] to
// decode from any io.Reader. [Manifest.Graph] turns a manifest into the
// tasks and dependencies the analyzer consumes:
//
//	m, err := io.ImportManifest("tasks.yaml")
//	if err != nil {
//	    return err
//	}
//	tasks, deps, err := m.Graph()
//
// # Export
//
// [WriteManifest] and [ExportManifest] write manifests back out, in any of
// the three formats. [WriteReport] and [ExportReport] write an
// [analysis.Report] as indented JSON.
package io
