// internal/classify/stringency.go
package classify

import "fmt"

// Level selects how permissive the off-target rejection thresholds are.
type Level string

const (
	High    Level = "high"
	Maximum Level = "maximum"
)

// ParseLevel validates a user-supplied stringency name.
func ParseLevel(s string) (Level, error) {
	switch Level(s) {
	case High, Maximum:
		return Level(s), nil
	}
	return "", fmt.Errorf("invalid stringency %q (high | maximum)", s)
}

// Status is the tagged per-hit outcome. A hit is either exempt as the
// presumed intended site (zero total mismatches) or evaluated against the
// stringency thresholds; keeping the exemption a distinct tag prevents the
// thresholds from ever being applied to it.
type Status string

const (
	StatusOnTarget Status = "on-target"
	StatusPass     Status = "pass"
	StatusReject   Status = "reject"
)

// Evaluate classifies one hit profile under the given stringency.
func Evaluate(p Profile, level Level) Status {
	if p.Total == 0 {
		return StatusOnTarget
	}
	if rejects(p, level) {
		return StatusReject
	}
	return StatusPass
}

// rejects is the two-zone rejection predicate. Few proximal mismatches at
// an off-target site mean the seed region still binds, so low proximal
// counts reject unless enough distal mismatches compensate.
func rejects(p Profile, level Level) bool {
	switch level {
	case Maximum:
		return p.Proximal == 0 ||
			(p.Proximal == 1 && p.Distal < 5) ||
			(p.Proximal == 2 && p.Distal < 2)
	default: // High
		return p.Proximal == 0 || (p.Proximal == 1 && p.Distal < 2)
	}
}
