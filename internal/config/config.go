// Copyright 2025 Upbound Inc.
// All rights reserved

// Package config decodes `.config/hakari.toml` (or the legacy
// `.guppy/hakari.toml`) into hakari.Option values, the same decode-into-
// options shape the teacher's configuration layer uses for its own
// profile files.
package config

import (
	"github.com/BurntSushi/toml"
	"github.com/crossplane/crossplane-runtime/pkg/errors"
	"github.com/spf13/afero"

	"github.com/upbound/cargo-hakari/internal/hakari"
)

const (
	// DefaultPath is where `cargo hakari` looks for its configuration.
	DefaultPath = ".config/hakari.toml"
	// LegacyPath is the older `cargo guppy`-era location, still honored if
	// DefaultPath doesn't exist.
	LegacyPath = ".guppy/hakari.toml"
)

const (
	errReadConfigFmt   = "reading hakari config %q"
	errDecodeConfigFmt = "decoding hakari config %q"
)

// ExcludeEntry is one entry of a [traversal-excludes] or [final-excludes]
// third-party list: a crate name, with an optional semver constraint and an
// optional git/path source to disambiguate multiple crates of the same
// name.
type ExcludeEntry struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
	Git     string `toml:"git"`
	Path    string `toml:"path"`
}

// ExcludeSet is the shape shared by [traversal-excludes] and
// [final-excludes].
type ExcludeSet struct {
	WorkspaceMembers []string       `toml:"workspace-members"`
	ThirdParty       []ExcludeEntry `toml:"third-party"`
}

// HakariConfig is the decoded shape of a hakari.toml file: every
// HakariBuilder option spec.md §4.5 recognizes, in the kebab-case keys
// `cargo hakari` itself uses.
type HakariConfig struct {
	HakariPackage       string            `toml:"hakari-package"`
	Resolver            string            `toml:"resolver"`
	Platforms           []string          `toml:"platforms"`
	UnifyTargetHost     string            `toml:"unify-target-host"`
	UnifyAll            bool              `toml:"unify-all"`
	OutputSingleFeature bool              `toml:"output-single-feature"`
	ExactVersions       bool              `toml:"exact-versions"`
	DepFormatVersion    string            `toml:"dep-format-version"`
	Registries          map[string]string `toml:"registries"`
	TraversalExcludes   ExcludeSet        `toml:"traversal-excludes"`
	FinalExcludes       ExcludeSet        `toml:"final-excludes"`
}

// Load reads and decodes a hakari config file, trying path, then falling
// back to LegacyPath if path is the default and doesn't exist.
func Load(fs afero.Fs, path string) (*HakariConfig, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		if path == DefaultPath {
			if legacy, legacyErr := afero.ReadFile(fs, LegacyPath); legacyErr == nil {
				data, path = legacy, LegacyPath
			} else {
				return nil, errors.Wrapf(err, errReadConfigFmt, path)
			}
		} else {
			return nil, errors.Wrapf(err, errReadConfigFmt, path)
		}
	}

	var cfg HakariConfig
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		return nil, errors.Wrapf(err, errDecodeConfigFmt, path)
	}
	return &cfg, nil
}

func unifyTargetHostFrom(s string) hakari.UnifyTargetHost {
	switch s {
	case "none":
		return hakari.UnifyNone
	case "unify-on-both":
		return hakari.UnifyIfBoth
	case "replicate-target-on-host":
		return hakari.ReplicateTargetOnHost
	default:
		return hakari.UnifyAuto
	}
}

func depFormatVersionFrom(s string) hakari.DepFormatVersion {
	if s == "1" {
		return hakari.DepFormatV1
	}
	return hakari.DepFormatV2
}
