package document

import "strings"

// Confidence is the ordinal certainty attached to extracted metadata fields.
type Confidence int

// Confidence levels, ordered. Comparisons rely on this ordering.
const (
	ConfidenceNone Confidence = iota
	ConfidenceLow
	ConfidenceMedium
	ConfidenceHigh
)

// ParseConfidence maps a manifest confidence label to a Confidence.
// Unknown or empty labels map to ConfidenceNone.
func ParseConfidence(s string) Confidence {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return ConfidenceLow
	case "medium":
		return ConfidenceMedium
	case "high":
		return ConfidenceHigh
	default:
		return ConfidenceNone
	}
}

// String returns the manifest label for the confidence level.
func (c Confidence) String() string {
	switch c {
	case ConfidenceLow:
		return "low"
	case ConfidenceMedium:
		return "medium"
	case ConfidenceHigh:
		return "high"
	default:
		return "none"
	}
}

// AtLeast reports whether c meets or exceeds the floor.
func (c Confidence) AtLeast(floor Confidence) bool { return c >= floor }
