package at

// Table-driven normalization of modem result tokens to the normalized
// error taxonomy. Unknown tokens degrade to COMMUNICATION_FAILURE, never
// to a hard failure: a malformed final result is usually line noise.

import (
	"errors"
	"fmt"
	"strings"
)

// Normalized errors. Every failure surfaced by the bring-up core unwraps
// to exactly one of these.
var (
	// ErrBadParameter marks invalid input to a core function. Never
	// retried; returned immediately.
	ErrBadParameter = errors.New("BAD_PARAMETER")

	// ErrResourceExhaustion marks a context-initialization failure
	// (channel or primitive allocation). Aborts initialization.
	ErrResourceExhaustion = errors.New("RESOURCE_EXHAUSTION")

	// ErrCommunication marks a timeout or malformed response on one
	// attempt. Retried up to the budget, then surfaced.
	ErrCommunication = errors.New("COMMUNICATION_FAILURE")

	// ErrParse marks a response line that did not match the expected
	// shape or tokens. Treated like ErrCommunication for retry purposes.
	ErrParse = errors.New("PARSE_FAILURE")

	// ErrSequence marks an unrecoverable bring-up failure: a property
	// the session depends on could not converge after retries.
	ErrSequence = errors.New("SEQUENCE_FAILURE")
)

// FamilyMap defines the final-result token mapping for one modem family.
type FamilyMap struct {
	Parameter     []string // tokens that map to BAD_PARAMETER
	Communication []string // tokens that map to COMMUNICATION_FAILURE
	Parse         []string // tokens that map to PARSE_FAILURE
}

// FamilyMappings holds the deterministic token tables per modem family.
// Unknown families fall back to "generic"; unknown tokens map to
// COMMUNICATION_FAILURE so the retry budget gets a chance at them.
var FamilyMappings = map[string]FamilyMap{
	"bg77x": {
		Parameter: []string{
			"OPERATION NOT ALLOWED",
			"OPERATION NOT SUPPORTED",
			"INVALID COMMAND LINE",
			"PARAMETER INVALID",
			"INCORRECT PARAMETERS",
		},
		Communication: []string{
			"TIMEOUT",
			"NO CARRIER",
			"UART BUSY",
			"+CME ERROR",
			"+CMS ERROR",
			"ERROR",
		},
		Parse: []string{
			"UNEXPECTED RESPONSE",
			"MALFORMED LINE",
		},
	},
	"generic": {
		Parameter: []string{
			"INVALID",
			"NOT SUPPORTED",
			"BAD PARAMETER",
		},
		Communication: []string{
			"TIMEOUT",
			"NO CARRIER",
			"BUSY",
			"ERROR",
		},
		Parse: []string{
			"PARSE",
			"MALFORMED",
		},
	},
}

// CommandError wraps a transport or parse failure with the command that
// produced it, preserving the vendor text for diagnosis.
type CommandError struct {
	Code     error  // normalized taxonomy error
	Command  string // command text that was on the wire
	Original error  // underlying executor/parser error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf("%v: %q: %v", e.Code, e.Command, e.Original)
}

func (e *CommandError) Unwrap() error {
	return e.Code
}

// Normalize maps an executor error for the given command to the taxonomy
// using the bg77x token tables.
func Normalize(command string, err error) error {
	return NormalizeWithFamily(command, err, "bg77x")
}

// NormalizeWithFamily maps an executor error using a specific family's
// token table.
func NormalizeWithFamily(command string, err error, family string) error {
	if err == nil {
		return nil
	}

	// Already normalized errors pass through untouched so budgets and
	// propagation decisions stay stable across layers.
	for _, code := range []error{ErrBadParameter, ErrResourceExhaustion, ErrCommunication, ErrParse, ErrSequence} {
		if errors.Is(err, code) {
			return err
		}
	}

	return &CommandError{
		Code:     mapTokenToCode(err.Error(), family),
		Command:  command,
		Original: err,
	}
}

// Retryable reports whether an error should consume another attempt from
// the retry budget. Parse failures retry: a malformed line is often
// transient noise on the channel.
func Retryable(err error) bool {
	return errors.Is(err, ErrCommunication) || errors.Is(err, ErrParse)
}

func mapTokenToCode(msg string, family string) error {
	fm, ok := FamilyMappings[family]
	if !ok {
		fm = FamilyMappings["generic"]
	}

	upper := strings.ToUpper(msg)

	for _, token := range fm.Parameter {
		if strings.Contains(upper, token) {
			return ErrBadParameter
		}
	}

	for _, token := range fm.Parse {
		if strings.Contains(upper, token) {
			return ErrParse
		}
	}

	for _, token := range fm.Communication {
		if strings.Contains(upper, token) {
			return ErrCommunication
		}
	}

	return ErrCommunication
}
