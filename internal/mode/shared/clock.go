// Package shared holds the small utilities every screen needs: a clock,
// relative time formatting and clipboard access.
package shared

import (
	"fmt"
	"time"
)

// Clock provides the current time.
type Clock interface {
	Now() time.Time
}

// RealClock is the wall clock.
type RealClock struct{}

// Now returns time.Now.
func (RealClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant.
type FixedClock time.Time

// Now returns the fixed instant.
func (c FixedClock) Now() time.Time { return time.Time(c) }

// Ago describes t relative to clock.Now, e.g. "just now", "5m ago", "3d ago".
func Ago(t time.Time, clock Clock) string {
	return AgoFrom(t, clock.Now())
}

// AgoFrom describes t relative to now. Future times read as "just now".
func AgoFrom(t, now time.Time) string {
	d := now.Sub(t)
	const day = 24 * time.Hour

	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		return fmt.Sprintf("%dm ago", int(d/time.Minute))
	case d < day:
		return fmt.Sprintf("%dh ago", int(d/time.Hour))
	case d < 30*day:
		return fmt.Sprintf("%dd ago", int(d/day))
	case d < 365*day:
		return fmt.Sprintf("%dmo ago", int(d/(30*day)))
	default:
		return fmt.Sprintf("%dy ago", int(d/(365*day)))
	}
}
