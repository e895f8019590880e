// Package property models the configurable module properties as closed
// enums with an explicit Unknown sentinel, plus the codecs between enum
// values and their wire tokens and the parsers that decode one response
// line into a typed value.
//
// Invariants: Unknown is never a valid write target, and a read that
// cannot be mapped to a known variant stays Unknown rather than being
// coerced to a default.
package property
