// Copyright 2025 Upbound Inc.
// All rights reserved

// Package manifest rewrites the generated dependency section of a
// workspace-hack crate's Cargo.toml in place, leaving everything outside the
// `### BEGIN/END HAKARI SECTION` markers untouched.
package manifest

import (
	"bytes"

	"github.com/spf13/afero"
)

const (
	beginMarker = "### BEGIN HAKARI SECTION"
	endMarker   = "### END HAKARI SECTION"
)

// ReadSection returns the current generated body of path's managed section,
// the bytes strictly between the begin marker's trailing newline and the end
// marker's leading newline.
func ReadSection(fs afero.Fs, path string) (string, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return "", ioError(path, err)
	}
	_, body, err := locate(data, path)
	if err != nil {
		return "", err
	}
	return body, nil
}

// WriteSection replaces path's managed section with body and rewrites the
// file, preserving everything outside the markers (including the markers
// themselves and their adjacent anchor newlines).
func WriteSection(fs afero.Fs, path, body string) error {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return ioError(path, err)
	}
	b, _, err := locate(data, path)
	if err != nil {
		return err
	}
	spliced := splice(data, b, body)
	if err := afero.WriteFile(fs, path, spliced, 0o644); err != nil {
		return ioError(path, err)
	}
	return nil
}

// bounds locates the anchor newline offsets around the managed section.
type bounds struct {
	beginNL int // index of the begin marker line's trailing newline
	endNL   int // index of the end marker line's leading newline
}

// locate finds the BEGIN/END markers in data and returns the anchor bounds
// plus the body currently between them.
func locate(data []byte, path string) (bounds, string, error) {
	bi := bytes.Index(data, []byte(beginMarker))
	if bi < 0 {
		return bounds{}, "", &CargoTomlError{Kind: GeneratedSectionNotFound, Path: path}
	}
	beginNL := bytes.IndexByte(data[bi:], '\n')
	if beginNL < 0 {
		return bounds{}, "", &CargoTomlError{Kind: GeneratedSectionNotFound, Path: path}
	}
	beginNL += bi

	ei := bytes.Index(data[beginNL:], []byte(endMarker))
	if ei < 0 {
		return bounds{}, "", &CargoTomlError{Kind: GeneratedSectionNotFound, Path: path}
	}
	ei += beginNL

	endNL := bytes.LastIndexByte(data[beginNL:ei], '\n')
	if endNL < 0 {
		return bounds{}, "", &CargoTomlError{Kind: GeneratedSectionNotFound, Path: path}
	}
	endNL += beginNL

	return bounds{beginNL: beginNL, endNL: endNL}, string(data[beginNL+1 : endNL]), nil
}

// splice rebuilds the full file contents with body spliced between the
// anchor newlines found by locate.
func splice(data []byte, b bounds, body string) []byte {
	out := make([]byte, 0, len(data)+len(body))
	out = append(out, data[:b.beginNL+1]...)
	out = append(out, body...)
	out = append(out, data[b.endNL:]...)
	return out
}
