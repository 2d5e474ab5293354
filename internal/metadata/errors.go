// Copyright 2025 Upbound Inc.
// All rights reserved

package metadata

const (
	errReadMetadataFmt = "reading cargo-metadata document %q"
	errDecodeMetadata  = "decoding cargo-metadata JSON"
	errMissingResolve  = "cargo-metadata document has no resolve graph; re-run without --no-deps"
	errBadVersionFmt   = "package %q has an unparseable version %q"
)
