// Copyright 2025 Upbound Inc.
// All rights reserved

package manifest

import "github.com/crossplane/crossplane-runtime/pkg/errors"

const (
	errReadFmt            = "reading %q"
	errWriteFmt           = "writing %q"
	errSectionNotFoundFmt = "%q has no ### BEGIN/END HAKARI SECTION markers"
)

// CargoTomlErrorKind tags the CargoTomlError variants spec.md §7 names.
type CargoTomlErrorKind int

const (
	// Io covers any filesystem-level failure reading or writing the
	// manifest.
	Io CargoTomlErrorKind = iota
	// GeneratedSectionNotFound means the BEGIN/END delimiter pair is
	// missing from the manifest.
	GeneratedSectionNotFound
)

// CargoTomlError is returned by every operation in this package that fails.
type CargoTomlError struct {
	Kind CargoTomlErrorKind
	Path string
	Err  error
}

func (e *CargoTomlError) Error() string {
	switch e.Kind {
	case GeneratedSectionNotFound:
		return errors.Errorf(errSectionNotFoundFmt, e.Path).Error()
	default:
		return e.Err.Error()
	}
}

func (e *CargoTomlError) Unwrap() error { return e.Err }

func ioError(path string, err error) *CargoTomlError {
	return &CargoTomlError{Kind: Io, Path: path, Err: err}
}
