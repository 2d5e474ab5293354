// Copyright 2025 Upbound Inc.
// All rights reserved

package tomlout

import "github.com/crossplane/crossplane-runtime/pkg/errors"

// TomlOutErrorKind tags the TomlOutError variants spec.md §7 names.
type TomlOutErrorKind int

const (
	// PathWithoutHakari means a path-dependency entry needs emitting but no
	// hakari-package location was supplied to resolve it relative to.
	PathWithoutHakari TomlOutErrorKind = iota
	// UnrecognizedExternal means a third-party package's source couldn't be
	// classified into registry/git/path.
	UnrecognizedExternal
	// UnrecognizedRegistry means an entry needs a non-default registry name
	// that isn't present in the configured registries map.
	UnrecognizedRegistry
	// Platform means a configured platform triple couldn't be rendered.
	Platform
	// FmtWrite means the underlying writer returned an error.
	FmtWrite
)

const (
	errPathWithoutHakariFmt   = "package %q is a path dependency but no hakari-package location was configured"
	errUnrecognizedExternalFmt = "package %q has a source this emitter cannot classify: %s"
	errUnrecognizedRegistryFmt = "package %q needs registry %q, which is not in the configured registries map"
	errPlatformFmt            = "platform %q cannot be rendered as a TOML table header"
)

// TomlOutError is returned by every emission failure in this package.
type TomlOutError struct {
	Kind    TomlOutErrorKind
	Package string
	Err     error
}

func (e *TomlOutError) Error() string { return e.Err.Error() }

func (e *TomlOutError) Unwrap() error { return e.Err }

func pathWithoutHakari(pkg string) error {
	return &TomlOutError{Kind: PathWithoutHakari, Package: pkg, Err: errors.Errorf(errPathWithoutHakariFmt, pkg)}
}

func unrecognizedExternal(pkg, detail string) error {
	return &TomlOutError{Kind: UnrecognizedExternal, Package: pkg, Err: errors.Errorf(errUnrecognizedExternalFmt, pkg, detail)}
}

func unrecognizedRegistry(pkg, registry string) error {
	return &TomlOutError{Kind: UnrecognizedRegistry, Package: pkg, Err: errors.Errorf(errUnrecognizedRegistryFmt, pkg, registry)}
}

func badPlatform(triple string) error {
	return &TomlOutError{Kind: Platform, Err: errors.Errorf(errPlatformFmt, triple)}
}

func fmtWriteError(err error) error {
	return &TomlOutError{Kind: FmtWrite, Err: err}
}
