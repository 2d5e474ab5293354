// Copyright 2025 Upbound Inc.
// All rights reserved

package summaries

const (
	errBadSummaryVersionFmt = "summary entry %q has an unparseable version %q"
	errDecodeSummary        = "decoding summary document"
	errEncodeSummary        = "encoding summary document"
)
