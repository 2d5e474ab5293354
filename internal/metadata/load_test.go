// Copyright 2025 Upbound Inc.
// All rights reserved

package metadata

import (
	"testing"

	"github.com/spf13/afero"
	"gotest.tools/v3/assert"
)

func TestLoadDecodesDocument(t *testing.T) {
	fs := afero.NewMemMapFs()
	const raw = `{
		"workspace_root": "/ws",
		"workspace_members": ["app 0.1.0 (path+file:///ws/app)"],
		"packages": [{
			"id": "app 0.1.0 (path+file:///ws/app)",
			"name": "app",
			"version": "0.1.0",
			"manifest_path": "/ws/app/Cargo.toml",
			"dependencies": []
		}],
		"resolve": {"nodes": [{"id": "app 0.1.0 (path+file:///ws/app)", "deps": []}]}
	}`
	assert.NilError(t, afero.WriteFile(fs, "/meta.json", []byte(raw), 0o644))

	doc, err := Load(fs, "/meta.json")
	assert.NilError(t, err)
	assert.Equal(t, doc.WorkspaceRoot, "/ws")
	assert.Equal(t, len(doc.Packages), 1)
	assert.Equal(t, doc.Packages[0].Name, "app")
}

func TestLoadMissingFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	_, err := Load(fs, "/missing.json")
	assert.ErrorContains(t, err, "reading cargo-metadata document")
}
