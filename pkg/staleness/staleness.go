// Package staleness classifies how long ago a node last reported.
//
// A node's staleness is the elapsed time since its status file was last
// modified. Two thresholds split staleness into three classes, and the
// string values of those classes are used directly as CSS classes by the
// dashboard template:
// "normal" (green), "warning" (yellow), "critical" (red).
package staleness

import (
	"fmt"
	"time"
)

// Class is the discrete health bucket derived from staleness.
type Class string

const (
	// ClassNormal means the node reported within the warning threshold.
	ClassNormal Class = "normal"
	// ClassWarning means the node is at or past the warning threshold.
	ClassWarning Class = "warning"
	// ClassCritical means the node is at or past the critical threshold.
	ClassCritical Class = "critical"
)

// Classes lists every class in increasing severity.
var Classes = []Class{ClassNormal, ClassWarning, ClassCritical}

// Thresholds holds the two staleness boundaries.
type Thresholds struct {
	Warning  time.Duration
	Critical time.Duration
}

// DefaultThresholds are used when no configuration overrides them.
var DefaultThresholds = Thresholds{
	Warning:  5 * time.Minute,
	Critical: 15 * time.Minute,
}

// Validate reports whether both thresholds are positive and Warning is
// strictly below Critical.
func (t Thresholds) Validate() error {
	if t.Warning <= 0 {
		return fmt.Errorf("warning threshold must be positive, got %v", t.Warning)
	}
	if t.Critical <= 0 {
		return fmt.Errorf("critical threshold must be positive, got %v", t.Critical)
	}
	if t.Warning >= t.Critical {
		return fmt.Errorf("warning threshold (%v) must be less than critical threshold (%v)", t.Warning, t.Critical)
	}
	return nil
}

// Classify maps elapsed time to a Class. A negative elapsed value, which
// happens when a writer's clock is ahead of ours, is below any positive
// threshold and therefore normal.
func (t Thresholds) Classify(elapsed time.Duration) Class {
	switch {
	case elapsed >= t.Critical:
		return ClassCritical
	case elapsed >= t.Warning:
		return ClassWarning
	default:
		return ClassNormal
	}
}

// Elapsed returns now minus modTime.
func Elapsed(modTime, now time.Time) time.Duration {
	return now.Sub(modTime)
}
