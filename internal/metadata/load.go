// Copyright 2025 Upbound Inc.
// All rights reserved

package metadata

import (
	"encoding/json"

	"github.com/crossplane/crossplane-runtime/pkg/errors"
	"github.com/spf13/afero"
)

// Load reads and decodes a cargo-metadata JSON document from path using fs.
func Load(fs afero.Fs, path string) (*Document, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, errReadMetadataFmt, path)
	}
	return Decode(data)
}

// Decode parses a cargo-metadata JSON document already read into memory,
// e.g. piped in over stdin rather than read from a named file.
func Decode(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, errDecodeMetadata)
	}
	return &doc, nil
}
