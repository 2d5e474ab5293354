// Copyright 2025 Upbound Inc.
// All rights reserved

package pkggraph

import "github.com/upbound/cargo-hakari/internal/platform"

// PlatformStatus carries the two cfg-expression sets that describe when a
// dependency (or a default-features/explicit-feature toggle) is required
// versus merely optional, unioned per spec.md's model: "Each sub-status is a
// (possibly empty) set of cfg-expressions whose union defines the platforms
// where it applies."
type PlatformStatus struct {
	Required []platform.Expr
	Optional []platform.Expr
}

// AlwaysRequired is the status of an unconditional dependency: required on
// every platform, never merely optional.
func AlwaysRequired() PlatformStatus {
	return PlatformStatus{Required: []platform.Expr{}}
}

// Never is the status of a toggle that's never enabled.
func Never() PlatformStatus {
	return PlatformStatus{}
}

// RequiredOn evaluates the union of the Required set against a concrete
// platform. A Required set with no entries at all — nil, or an explicitly
// empty non-nil slice, which is what AlwaysRequired uses so IsTrivial can
// still tell "required, unconditionally" apart from "this kind doesn't
// apply" — means no restriction, so it always evaluates True. Callers only
// reach here after checking Applies(), so a genuinely absent kind never
// gets this far.
func (s PlatformStatus) RequiredOn(p platform.Platform) platform.EvalResult {
	if len(s.Required) == 0 {
		return platform.True
	}
	return evalUnion(s.Required, p)
}

// OptionalOn evaluates the union of the Optional set against a concrete
// platform.
func (s PlatformStatus) OptionalOn(p platform.Platform) platform.EvalResult {
	return evalUnion(s.Optional, p)
}

// EnabledOn reports whether the dependency is present at all on the given
// platform: required, or optional-and-activated. The optional-activation
// bit (whether the implicit optional-dependency feature got turned on) is
// not known to PlatformStatus itself; callers pass it in.
func (s PlatformStatus) EnabledOn(p platform.Platform, optionalActivated bool) platform.EvalResult {
	req := s.RequiredOn(p)
	if req == platform.True {
		return platform.True
	}
	if !optionalActivated {
		return req
	}
	return req.Or(s.OptionalOn(p))
}

// EnabledOnAny reports whether the status could possibly be enabled on some
// platform, collapsing unknown target-feature predicates to true (the "any
// platform" convenience evaluation from spec.md C1).
func (s PlatformStatus) EnabledOnAny() bool {
	if s.IsTrivial() {
		return false
	}
	for _, e := range s.Required {
		if platform.EvalAny(e) {
			return true
		}
	}
	for _, e := range s.Optional {
		if platform.EvalAny(e) {
			return true
		}
	}
	return len(s.Required) == 0 && len(s.Optional) == 0
}

// IsTrivial reports whether this status has no conditions at all (neither
// required nor optional), i.e. the dependency simply doesn't apply for this
// kind.
func (s PlatformStatus) IsTrivial() bool {
	return s.Required == nil && len(s.Optional) == 0
}

func evalUnion(exprs []platform.Expr, p platform.Platform) platform.EvalResult {
	if len(exprs) == 0 {
		return platform.False
	}
	r := platform.False
	for _, e := range exprs {
		r = r.Or(platform.Eval(e, p))
	}
	return r
}

// DependencyReq is the per-kind (normal/build/dev) requirement record for a
// PackageLink: whether the dependency applies at all, whether its default
// features are on, and the status of each explicitly-requested feature.
type DependencyReq struct {
	Status          PlatformStatus
	DefaultFeatures PlatformStatus
	Features        map[string]PlatformStatus
}

// Applies reports whether this DependencyReq is non-trivial, i.e. the kind
// of dependency actually exists on the link.
func (r DependencyReq) Applies() bool {
	return !r.Status.IsTrivial()
}
