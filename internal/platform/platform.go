// Copyright 2025 Upbound Inc.
// All rights reserved

// Package platform evaluates cfg(...) predicates and target triples against
// a concrete or partially-known build platform, the way Cargo's target-spec
// evaluator does.
package platform

import "strings"

// EvalResult is the three-valued result of evaluating a predicate against a
// platform. Unknown only arises when a target_feature predicate is checked
// against a platform whose target-features aren't fully known.
type EvalResult int

const (
	// Unknown means the predicate couldn't be decided from the available
	// platform information.
	Unknown EvalResult = iota
	// False means the predicate is definitely not satisfied.
	False
	// True means the predicate is definitely satisfied.
	True
)

// And combines two results the way cfg(all(a, b)) would.
func (r EvalResult) And(o EvalResult) EvalResult {
	if r == False || o == False {
		return False
	}
	if r == Unknown || o == Unknown {
		return Unknown
	}
	return True
}

// Or combines two results the way cfg(any(a, b)) would.
func (r EvalResult) Or(o EvalResult) EvalResult {
	if r == True || o == True {
		return True
	}
	if r == Unknown || o == Unknown {
		return Unknown
	}
	return False
}

// Not negates a result the way cfg(not(a)) would.
func (r EvalResult) Not() EvalResult {
	switch r {
	case True:
		return False
	case False:
		return True
	default:
		return Unknown
	}
}

// TargetFeaturesKind describes how much is known about a platform's
// target-features set.
type TargetFeaturesKind int

const (
	// TFKnown means exactly the features in Set are enabled.
	TFKnown TargetFeaturesKind = iota
	// TFAll means every possible target-feature is considered enabled.
	TFAll
	// TFNone means no target-feature is enabled.
	TFNone
	// TFUnknown means the set of enabled target-features isn't known.
	TFUnknown
)

// TargetFeatures represents what's known about a platform's enabled
// target-features.
type TargetFeatures struct {
	Kind TargetFeaturesKind
	Set  map[string]struct{}
}

// TargetFeaturesAll returns a TargetFeatures that always matches.
func TargetFeaturesAll() TargetFeatures { return TargetFeatures{Kind: TFAll} }

// TargetFeaturesNone returns a TargetFeatures that never matches.
func TargetFeaturesNone() TargetFeatures { return TargetFeatures{Kind: TFNone} }

// TargetFeaturesUnknown returns a TargetFeatures whose membership can't be
// decided.
func TargetFeaturesUnknown() TargetFeatures { return TargetFeatures{Kind: TFUnknown} }

// TargetFeaturesKnown returns a TargetFeatures with exactly the given
// features enabled.
func TargetFeaturesKnown(features ...string) TargetFeatures {
	set := make(map[string]struct{}, len(features))
	for _, f := range features {
		set[f] = struct{}{}
	}
	return TargetFeatures{Kind: TFKnown, Set: set}
}

// Has reports whether the named target-feature is enabled.
func (t TargetFeatures) Has(name string) EvalResult {
	switch t.Kind {
	case TFAll:
		return True
	case TFNone:
		return False
	case TFUnknown:
		return Unknown
	default:
		if _, ok := t.Set[name]; ok {
			return True
		}
		return False
	}
}

// Triple is a decomposed target triple (arch-vendor-os-env). Decomposition
// is best-effort: Cargo's own target-triple grammar is delegated to an
// external cfg-expression library in the real tool; here we only need enough
// structure to answer target_arch/target_os/target_env/target_family/
// windows/unix predicates for the triples that show up in fixtures.
type Triple struct {
	Raw    string
	Arch   string
	Vendor string
	OS     string
	Env    string
}

// wellKnownTriples decomposes a handful of triples Cargo workspaces commonly
// target. Anything else falls back to a best-effort dash split.
var wellKnownTriples = map[string]Triple{
	"x86_64-unknown-linux-gnu":  {Arch: "x86_64", Vendor: "unknown", OS: "linux", Env: "gnu"},
	"x86_64-unknown-linux-musl": {Arch: "x86_64", Vendor: "unknown", OS: "linux", Env: "musl"},
	"aarch64-unknown-linux-gnu": {Arch: "aarch64", Vendor: "unknown", OS: "linux", Env: "gnu"},
	"x86_64-apple-darwin":       {Arch: "x86_64", Vendor: "apple", OS: "macos"},
	"aarch64-apple-darwin":      {Arch: "aarch64", Vendor: "apple", OS: "macos"},
	"x86_64-pc-windows-msvc":    {Arch: "x86_64", Vendor: "pc", OS: "windows", Env: "msvc"},
	"x86_64-pc-windows-gnu":     {Arch: "x86_64", Vendor: "pc", OS: "windows", Env: "gnu"},
	"wasm32-unknown-unknown":    {Arch: "wasm32", Vendor: "unknown", OS: "unknown"},
	"wasm32-wasip1":             {Arch: "wasm32", Vendor: "unknown", OS: "wasi"},
}

// ParseTriple decomposes a target triple string.
func ParseTriple(raw string) Triple {
	if t, ok := wellKnownTriples[raw]; ok {
		t.Raw = raw
		return t
	}
	t := Triple{Raw: raw}
	parts := strings.Split(raw, "-")
	if len(parts) > 0 {
		t.Arch = parts[0]
	}
	if len(parts) > 1 {
		t.Vendor = parts[1]
	}
	if len(parts) > 2 {
		t.OS = parts[2]
	}
	if len(parts) > 3 {
		t.Env = parts[3]
	}
	return t
}

// Family returns the target_family value(s) implied by the OS, matching
// Cargo's own unix/windows split.
func (t Triple) Family() string {
	switch t.OS {
	case "windows":
		return "windows"
	case "unknown", "":
		return ""
	default:
		return "unix"
	}
}

// IsUnix reports whether cfg(unix) holds for this triple.
func (t Triple) IsUnix() bool { return t.Family() == "unix" }

// IsWindows reports whether cfg(windows) holds for this triple.
func (t Triple) IsWindows() bool { return t.Family() == "windows" }

// Platform is the (triple, target-features, flags) tuple cfg-expressions are
// evaluated against.
type Platform struct {
	Triple         Triple
	TargetFeatures TargetFeatures
	// Flags holds extra bare cfg(flag) names considered set for this
	// platform (beyond the ones implied by the triple), e.g. a build-script
	// emitted cfg or a custom --cfg passed to rustc.
	Flags map[string]struct{}
}

// New returns a Platform for the given triple string with no extra flags and
// fully-known (empty) target-features.
func New(triple string) Platform {
	return Platform{
		Triple:         ParseTriple(triple),
		TargetFeatures: TargetFeaturesKnown(),
		Flags:          map[string]struct{}{},
	}
}

// WithTargetFeatures returns a copy of the platform with the given
// target-features.
func (p Platform) WithTargetFeatures(tf TargetFeatures) Platform {
	p.TargetFeatures = tf
	return p
}

// WithFlag returns a copy of the platform with the named bare flag set.
func (p Platform) WithFlag(name string) Platform {
	flags := make(map[string]struct{}, len(p.Flags)+1)
	for k := range p.Flags {
		flags[k] = struct{}{}
	}
	flags[name] = struct{}{}
	p.Flags = flags
	return p
}

// HasFlag reports whether the named bare flag is set on this platform.
func (p Platform) HasFlag(name string) bool {
	_, ok := p.Flags[name]
	return ok
}

// TripleString returns the platform's raw triple string.
func (p Platform) TripleString() string { return p.Triple.Raw }
