// Package storage persists a collection of records as a single JSON document
// on disk. Every save rewrites the whole document; there is no incremental
// append or compaction. This trades write efficiency for a single well-formed
// snapshot that survives crashes, which is the right trade at login/logout
// write volume.
package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
)

// Version is the current on-disk document schema version.
const Version = 1

// document is the on-disk envelope. Earlier deployments wrote a bare JSON
// array; Load still accepts that form and treats it as version 0.
type document[T any] struct {
	Version int `json:"version"`
	Records []T `json:"records"`
}

// Load reads the document at path and returns its records.
//
// A missing file is the normal first-run state and yields an empty
// collection with a nil error. A file that cannot be read or parsed also
// yields an empty collection, but with a non-nil error so the caller can
// surface a diagnostic; startup is expected to continue either way.
func Load[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return []T{}, nil
		}
		return []T{}, fmt.Errorf("read %s: %w", path, err)
	}

	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var records []T
		if err := json.Unmarshal(data, &records); err != nil {
			return []T{}, fmt.Errorf("parse %s: %w", path, err)
		}
		return records, nil
	}

	var doc document[T]
	if err := json.Unmarshal(data, &doc); err != nil {
		return []T{}, fmt.Errorf("parse %s: %w", path, err)
	}
	if doc.Records == nil {
		doc.Records = []T{}
	}
	return doc.Records, nil
}

// Save serializes records and replaces the document at path. The write goes
// to a temporary file in the same directory followed by a rename, so an
// external observer only ever sees a complete document.
func Save[T any](path string, records []T) error {
	if records == nil {
		records = []T{}
	}

	data, err := json.MarshalIndent(document[T]{Version: Version, Records: records}, "", "  ")
	if err != nil {
		return fmt.Errorf("serialize %s: %w", path, err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o660); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}
