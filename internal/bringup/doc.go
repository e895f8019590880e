// Package bringup sequences a BG77x-class module from power-on into the
// application-ready configuration: wait for the ready notification,
// probe presence, settle echo/DTR behavior, then converge flow control,
// URC routing, network category, RAT scan order, functionality level and
// the SIM-toolkit feature toward their desired values.
//
// The sequence is one long blocking call on a single logical thread of
// control; callers must serialize bring-up invocations per device. Two
// variants implement the same Sequence interface: the converging variant
// with read-before-write and fast-path bookkeeping, and a legacy variant
// that writes every property unconditionally.
package bringup
