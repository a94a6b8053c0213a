// Package admitlimit wraps github.com/joeycumines/go-catrate's sliding
// window Limiter as a scheduler.RateLimiter, categorizing admissions by
// requested path. This is the domain-stack rate-limiting feature
// described in SPEC_FULL.md §"Admission rate limiting"; it is entirely
// additive and, left unconfigured, has no effect on spec.md's scheduling
// semantics.
package admitlimit

import (
	"time"

	catrate "github.com/joeycumines/go-catrate"

	"github.com/joeycumines/sws/scheduler"
)

// Limiter caps the rate of admissions per requested path.
type Limiter struct {
	l *catrate.Limiter
}

var _ scheduler.RateLimiter = (*Limiter)(nil)

// New constructs a Limiter applying the given per-window event counts,
// e.g. map[time.Duration]int{time.Second: 10} allows 10 admissions per
// second, per path. See catrate.NewLimiter for the monotonicity
// requirements across windows.
func New(rates map[time.Duration]int) *Limiter {
	return &Limiter{l: catrate.NewLimiter(rates)}
}

// Allow reports whether one more admission for category (the requested
// path) may be registered right now.
func (x *Limiter) Allow(category string) bool {
	_, ok := x.l.Allow(category)
	return ok
}
