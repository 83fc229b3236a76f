// Package phrasing provides the suggested report wording offered to the
// practitioner.
//
// The library is embedded YAML: graded phrases (sacroiliitis at low,
// moderate and high confidence; DISH at moderate and high) bound to the
// regions they describe, and the structured peripheral-joint template with
// its option lists and default impression. Suggestions are starting text
// only; the practitioner may edit them freely.
package phrasing
