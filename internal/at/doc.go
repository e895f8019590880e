// Package at defines the southbound command executor contract and the
// wire vocabulary for the BG77x command channel.
//
// The executor owns framing, line reassembly and echo handling; this
// package only describes one exchange: a command string, the response
// shape the caller expects back, an optional line parser for structured
// responses, and the normalized error taxonomy every layer above maps
// failures into.
package at
