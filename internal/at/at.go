package at

import (
	"context"
	"time"
)

// ResponseShape declares what kind of response the executor should
// collect before reporting the exchange complete.
type ResponseShape int

const (
	// ShapeOK expects only a bare final result code ("OK" class).
	ShapeOK ResponseShape = iota

	// ShapePrefixed expects one prefixed information line (for example
	// "+CFUN: 4") followed by the final result code. The information
	// line is handed to the request's Parse callback.
	ShapePrefixed

	// ShapeMultiline expects one or more unprefixed lines followed by
	// the final result code. Each line is handed to Parse in order.
	ShapeMultiline
)

// LineParser consumes one whitespace-normalized response line. A non-nil
// return marks the exchange as failed; the executor does not keep
// delivering lines after a parse failure.
type LineParser func(line string) error

// Request describes a single command exchange against the module.
type Request struct {
	// Command is the full command text without line termination.
	Command string

	// Shape selects how the executor collects the response.
	Shape ResponseShape

	// Parse decodes information lines for ShapePrefixed and
	// ShapeMultiline requests. Ignored for ShapeOK.
	Parse LineParser

	// Timeout bounds the whole exchange. Zero means the executor's
	// default.
	Timeout time.Duration
}

// Executor is the southbound transport contract. Implementations own the
// serial channel, line framing and command/response correlation; they
// return nil when the final result code was OK-class and every
// information line parsed cleanly.
type Executor interface {
	Execute(ctx context.Context, req Request) error
}

// Command vocabulary. Tokens are bit-exact per the Quectel BG77x AT
// reference; interop depends on them.
const (
	CmdProbe     = "AT"
	CmdEchoOff   = "ATE0"
	CmdDTRIgnore = "AT&D0"

	CmdFlowControlRead     = "AT+IFC?"
	CmdURCPortRead         = `AT+QURCCFG="urcport"`
	CmdNetworkCategoryRead = `AT+QCFG="iotopmode"`
	CmdFunctionalityRead   = "AT+CFUN?"
	CmdSIMToolkitRead      = "AT+QSTK?"

	CmdRegistrationURC = "AT+CEREG=2"
	CmdTimeZoneURC     = "AT+CTZR=1"
	CmdPSMTimerURC     = `AT+QCFG="psm/urc",1`
)

// Response line prefixes for the structured reads above.
const (
	PrefixFlowControl   = "+IFC:"
	PrefixURCConfig     = "+QURCCFG:"
	PrefixQConfig       = "+QCFG:"
	PrefixFunctionality = "+CFUN:"
	PrefixSIMToolkit    = "+QSTK:"
)

// ReadyURC is the unsolicited literal the module emits once its command
// processor is up. It arrives outside request/response correlation.
const ReadyURC = "APP RDY"
