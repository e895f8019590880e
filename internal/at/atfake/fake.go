// Package atfake provides a simulated BG770 command executor for
// testing. The simulator persists property writes so read-back reflects
// the last written value, records every command on the wire, and can
// inject failures per command prefix.
package atfake

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/BinSentry/FreeRTOS-Cellular-Interface-Quectel-BG770-sub001/internal/at"
)

type injectedFailure struct {
	prefix    string
	err       error
	remaining int // negative means always
}

// BG770 implements at.Executor against an in-memory device state.
type BG770 struct {
	mu sync.Mutex

	// Device state, held as wire tokens.
	flowDCEByDTE  string
	flowDTEByDCE  string
	urcPort       string
	iotOpMode     string
	functionality string
	simToolkit    string
	scanSeq       string

	commands []string
	reads    []string
	writes   []string
	failures []injectedFailure
}

// Compile-time assertion that BG770 implements at.Executor.
var _ at.Executor = (*BG770)(nil)

// NewBG770 creates a simulator in a factory-fresh state: no flow
// control, URCs on the main port, dual network category, full
// functionality, SIM toolkit enabled.
func NewBG770() *BG770 {
	return &BG770{
		flowDCEByDTE:  "0",
		flowDTEByDCE:  "0",
		urcPort:       "main",
		iotOpMode:     "2",
		functionality: "1",
		simToolkit:    "1",
	}
}

// Execute dispatches one command against the simulated device.
func (m *BG770) Execute(ctx context.Context, req at.Request) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	cmd := req.Command
	m.commands = append(m.commands, cmd)
	if req.Shape == at.ShapePrefixed {
		m.reads = append(m.reads, cmd)
	}

	if err := m.injectedError(cmd); err != nil {
		return err
	}

	switch {
	case cmd == at.CmdProbe, cmd == at.CmdEchoOff, cmd == at.CmdDTRIgnore,
		cmd == at.CmdRegistrationURC, cmd == at.CmdTimeZoneURC, cmd == at.CmdPSMTimerURC:
		return nil

	case cmd == at.CmdFlowControlRead:
		return respond(req, fmt.Sprintf("+IFC: %s,%s", m.flowDCEByDTE, m.flowDTEByDCE))
	case cmd == at.CmdURCPortRead:
		return respond(req, fmt.Sprintf(`+QURCCFG: "urcport","%s"`, m.urcPort))
	case cmd == at.CmdNetworkCategoryRead:
		return respond(req, fmt.Sprintf(`+QCFG: "iotopmode",%s`, m.iotOpMode))
	case cmd == at.CmdFunctionalityRead:
		return respond(req, "+CFUN: "+m.functionality)
	case cmd == at.CmdSIMToolkitRead:
		return respond(req, "+QSTK: "+m.simToolkit)

	case strings.HasPrefix(cmd, "AT+IFC="):
		m.writes = append(m.writes, cmd)
		args := strings.Split(strings.TrimPrefix(cmd, "AT+IFC="), ",")
		if len(args) != 2 {
			return fmt.Errorf("ERROR: malformed %q", cmd)
		}
		m.flowDCEByDTE, m.flowDTEByDCE = args[0], args[1]
		return nil

	case strings.HasPrefix(cmd, `AT+QURCCFG="urcport",`):
		m.writes = append(m.writes, cmd)
		m.urcPort = strings.Trim(strings.TrimPrefix(cmd, `AT+QURCCFG="urcport",`), `"`)
		return nil

	case strings.HasPrefix(cmd, `AT+QCFG="iotopmode",`):
		m.writes = append(m.writes, cmd)
		args := strings.Split(strings.TrimPrefix(cmd, `AT+QCFG="iotopmode",`), ",")
		m.iotOpMode = args[0]
		return nil

	case strings.HasPrefix(cmd, `AT+QCFG="nwscanseq",`):
		m.writes = append(m.writes, cmd)
		args := strings.Split(strings.TrimPrefix(cmd, `AT+QCFG="nwscanseq",`), ",")
		m.scanSeq = args[0]
		return nil

	case strings.HasPrefix(cmd, "AT+CFUN="):
		m.writes = append(m.writes, cmd)
		m.functionality = strings.TrimPrefix(cmd, "AT+CFUN=")
		return nil

	case strings.HasPrefix(cmd, "AT+QSTK="):
		m.writes = append(m.writes, cmd)
		m.simToolkit = strings.TrimPrefix(cmd, "AT+QSTK=")
		return nil
	}

	return fmt.Errorf("ERROR: unsupported command %q", cmd)
}

func respond(req at.Request, line string) error {
	if req.Parse == nil {
		return nil
	}
	return req.Parse(line)
}

func (m *BG770) injectedError(cmd string) error {
	for i := range m.failures {
		f := &m.failures[i]
		if f.remaining == 0 || !strings.HasPrefix(cmd, f.prefix) {
			continue
		}
		if f.remaining > 0 {
			f.remaining--
		}
		return f.err
	}
	return nil
}

// Failure injection.

// FailNext makes the next n commands matching prefix return err.
func (m *BG770) FailNext(prefix string, err error, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = append(m.failures, injectedFailure{prefix: prefix, err: err, remaining: n})
}

// FailAlways makes every command matching prefix return err.
func (m *BG770) FailAlways(prefix string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failures = append(m.failures, injectedFailure{prefix: prefix, err: err, remaining: -1})
}

// State setters for arranging test scenarios.

func (m *BG770) SetFlowControl(dceByDTE, dteByDCE string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.flowDCEByDTE, m.flowDTEByDCE = dceByDTE, dteByDCE
}

func (m *BG770) SetURCPort(port string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.urcPort = port
}

func (m *BG770) SetNetworkCategory(mode string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.iotOpMode = mode
}

func (m *BG770) SetFunctionality(level string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.functionality = level
}

func (m *BG770) SetSIMToolkit(state string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.simToolkit = state
}

// Observers.

// Commands returns every command executed, in order.
func (m *BG770) Commands() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.commands))
	copy(out, m.commands)
	return out
}

// Writes returns every property write executed, in order.
func (m *BG770) Writes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.writes))
	copy(out, m.writes)
	return out
}

// WriteCount counts property writes matching prefix.
func (m *BG770) WriteCount(prefix string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, w := range m.writes {
		if strings.HasPrefix(w, prefix) {
			n++
		}
	}
	return n
}

// ReadCount counts read-shaped commands matching prefix.
func (m *BG770) ReadCount(prefix string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.reads {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

// CommandCount counts executed commands matching prefix.
func (m *BG770) CommandCount(prefix string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.commands {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

// ScanSequence returns the last written nwscanseq payload.
func (m *BG770) ScanSequence() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.scanSeq
}
