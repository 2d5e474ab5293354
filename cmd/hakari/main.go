// Copyright 2025 Upbound Inc.
// All rights reserved

// Command hakari is the CLI front-end for the workspace-hack unification
// core: it reads a cargo-metadata document and a .config/hakari.toml,
// builds the package and feature graphs, and drives generate/verify/
// explain/manage-deps/publish/disable against them.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/alecthomas/kong"
	runtimeerrors "github.com/crossplane/crossplane-runtime/pkg/errors"
	"github.com/go-logr/logr"
	"github.com/spf13/afero"
	"github.com/willabides/kongplete"
	"k8s.io/klog/v2"

	"github.com/upbound/cargo-hakari/internal/config"
	"github.com/upbound/cargo-hakari/internal/featuregraph"
	"github.com/upbound/cargo-hakari/internal/logging"
	"github.com/upbound/cargo-hakari/internal/metadata"
	"github.com/upbound/cargo-hakari/internal/pkggraph"
)

// Exit codes per spec.md's CLI surface.
const (
	exitOK      = 0
	exitDiff    = 1
	exitUsage   = 2
	exitFailure = 3
)

// diffError signals that a check-mode subcommand (verify, publish) found a
// non-empty diff rather than hit a real failure, so main should exit 1
// instead of the generic failure code.
type diffError struct{ msg string }

func (e *diffError) Error() string { return e.msg }

// hakariContext is bound by the root AfterApply and consumed by every
// subcommand: the graphs built once from the metadata document, plus the
// decoded config translated into engine options.
type hakariContext struct {
	fs afero.Fs

	pkgGraph *pkggraph.Graph
	featGraph *featuregraph.Graph

	cfg *config.HakariConfig

	// hakariPkg is the resolved workspace-hack package id, empty if the
	// config didn't name one (the subcommands that need it then fail).
	hakariPkg pkggraph.PackageId
	hasHakariPkg bool

	manifestPath string
}

type cli struct {
	Metadata string `default:"-" help:"Path to a cargo-metadata --format-version 1 JSON document, or - to read from stdin." name:"metadata"`
	Config   string `default:".config/hakari.toml" help:"Path to the hakari config file." name:"config"`
	Manifest string `default:"" help:"Workspace-relative path to the workspace-hack crate's Cargo.toml. Defaults to <hakari-package path>/Cargo.toml." name:"manifest"`
	Verbose  int    `help:"Increase logging verbosity." name:"verbose" short:"v" type:"counter"`

	Generate   generateCmd   `cmd:"" help:"Regenerate the workspace-hack package's managed dependency section."`
	Verify     verifyCmd     `cmd:"" help:"Check whether the managed section is already up to date."`
	Explain    explainCmd    `cmd:"" help:"Explain why a third-party dependency needed unification."`
	ManageDeps manageDepsCmd `cmd:"" help:"List workspace members missing a dependency on the hakari package." name:"manage-deps"`
	Publish    publishCmd    `cmd:"" help:"Check whether a workspace member is ready to hand off to 'cargo publish'."`
	Disable    disableCmd    `cmd:"" help:"Clear the managed section, disabling unification."`

	Completion kongplete.InstallCompletions `cmd:"" help:"Generate shell completions."`
}

// AfterApply builds the shared hakariContext every subcommand needs: it
// loads the metadata document and config file, constructs the package and
// feature graphs, and resolves the configured hakari-package name to an id.
func (c *cli) AfterApply(kongCtx *kong.Context) error {
	logging.SetKlogLogger(c.Verbose, logr.Discard())
	klog.V(1).Infof("reading cargo-metadata from %s", c.Metadata)

	fs := afero.NewOsFs()

	var doc *metadata.Document
	var err error
	if c.Metadata == "-" {
		data, readErr := io.ReadAll(os.Stdin)
		if readErr != nil {
			return readErr
		}
		doc, err = metadata.Decode(data)
	} else {
		doc, err = metadata.Load(fs, c.Metadata)
	}
	if err != nil {
		return err
	}

	input, err := metadata.Build(doc)
	if err != nil {
		return err
	}
	pg, err := pkggraph.Build(input)
	if err != nil {
		return err
	}
	fg, err := featuregraph.Build(pg)
	if err != nil {
		return err
	}
	for _, w := range fg.Warnings() {
		klog.Warningf("feature graph warning: %+v", w)
	}

	cfg, err := config.Load(fs, c.Config)
	if err != nil {
		return err
	}

	hctx := &hakariContext{fs: fs, pkgGraph: pg, featGraph: fg, cfg: cfg}
	if cfg.HakariPackage != "" {
		id, ok := pg.Workspace().MemberByName(cfg.HakariPackage)
		if !ok {
			return runtimeerrors.Errorf("hakari-package %q is not a workspace member", cfg.HakariPackage)
		}
		hctx.hakariPkg, hctx.hasHakariPkg = id, true
	}

	hctx.manifestPath = c.Manifest
	if hctx.manifestPath == "" && hctx.hasHakariPkg {
		if pkg, ok := pg.PackageByID(hctx.hakariPkg); ok {
			hctx.manifestPath = pkg.ManifestPath
		}
	}

	kongCtx.Bind(hctx)
	return nil
}

func main() {
	c := cli{}
	parser := kong.Must(&c,
		kong.Name("hakari"),
		kong.Description("Unify third-party crate features across a Cargo workspace."),
		kong.ConfigureHelp(kong.HelpOptions{Compact: true}),
	)

	kongplete.Complete(parser)

	if len(os.Args) == 1 {
		_, err := parser.Parse([]string{"--help"})
		parser.FatalIfErrorf(err)
		return
	}

	kongCtx, err := parser.Parse(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitUsage)
	}

	if err := kongCtx.Run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var de *diffError
		if errors.As(err, &de) {
			os.Exit(exitDiff)
		}
		os.Exit(exitFailure)
	}
}
