package bringup

import (
	"context"
	"fmt"
	"time"

	"github.com/BinSentry/FreeRTOS-Cellular-Interface-Quectel-BG770-sub001/internal/at"
	"github.com/BinSentry/FreeRTOS-Cellular-Interface-Quectel-BG770-sub001/internal/audit"
	"github.com/BinSentry/FreeRTOS-Cellular-Interface-Quectel-BG770-sub001/internal/property"
	"github.com/BinSentry/FreeRTOS-Cellular-Interface-Quectel-BG770-sub001/internal/retry"
)

// Step names as they appear in the audit trail.
const (
	stepAwaitReady               = "AwaitReady"
	stepProbePresence            = "ProbePresence"
	stepDisableEcho              = "DisableEcho"
	stepDisableDTR               = "DisableDTR"
	stepFastPathCheck            = "FastPathCheck"
	stepConfigureFlowControl     = "ConfigureFlowControl"
	stepConfigureURCPort         = "ConfigureURCPort"
	stepConfigureNetworkCategory = "ConfigureNetworkCategory"
	stepConfigureRAT             = "ConfigureRAT"
	stepConfigureFunctionality   = "ConfigureFunctionalityLevel"
	stepConfigureAuxFeature      = "ConfigureAuxFeature"
	stepEnableURCs               = "EnableUnsolicitedReports"
)

// AuditLogger receives one entry per bring-up step.
type AuditLogger interface {
	Record(e audit.Entry)
}

// Compile-time assertion that audit.Logger satisfies AuditLogger.
var _ AuditLogger = (*audit.Logger)(nil)

// session carries the per-attempt state shared by both sequence
// variants: the executor, the audit sink, the run ID and the overall
// status flag driving soft skips.
type session struct {
	exec  at.Executor
	mctx  *ModuleContext
	aud   AuditLogger
	runID string

	// failed latches once a status-bearing step fails. Remaining steps
	// are still walked and logged as skipped so the audit trail shows
	// what was attempted versus skipped for the run.
	failed bool
}

func (s *session) record(e audit.Entry) {
	e.RunID = s.runID
	if s.aud != nil {
		s.aud.Record(e)
	}
}

// step runs one status-bearing step. Once the sequence has failed, the
// step is logged as skipped instead of short-circuiting the walk.
func (s *session) step(ctx context.Context, name, command, prop string, fn func(context.Context) error) {
	start := time.Now()
	if s.failed {
		s.record(audit.Entry{
			Step: name, Command: command, Property: prop,
			Outcome: audit.OutcomeSkipped, Detail: "prior step failed",
		})
		return
	}

	if err := fn(ctx); err != nil {
		s.failed = true
		s.record(audit.Entry{
			Step: name, Command: command, Property: prop,
			Outcome: audit.OutcomeFailed, Detail: err.Error(),
			LatencyMs: time.Since(start).Milliseconds(),
		})
		return
	}

	s.record(audit.Entry{
		Step: name, Command: command, Property: prop,
		Outcome: audit.OutcomeSuccess, LatencyMs: time.Since(start).Milliseconds(),
	})
}

// bestEffort runs one step whose failure must not gate the rest of the
// sequence. Reports whether the step succeeded, for decisions that want
// the outcome without latching the run status.
func (s *session) bestEffort(ctx context.Context, name, command string, fn func(context.Context) error) bool {
	start := time.Now()
	if s.failed {
		s.record(audit.Entry{Step: name, Command: command, Outcome: audit.OutcomeSkipped, Detail: "prior step failed"})
		return false
	}

	if err := fn(ctx); err != nil {
		s.record(audit.Entry{
			Step: name, Command: command,
			Outcome: audit.OutcomeFailed, Detail: err.Error() + "; continuing best-effort",
			LatencyMs: time.Since(start).Milliseconds(),
		})
		return false
	}

	s.record(audit.Entry{Step: name, Command: command, Outcome: audit.OutcomeSuccess, LatencyMs: time.Since(start).Milliseconds()})
	return true
}

// awaitReady blocks until the ready notification arrives or the timeout
// elapses. Ready detection is an optimization, not a precondition:
// orchestration proceeds either way, and the settle delay is always
// applied because some devices assert readiness slightly before command
// processing is actually available.
func (s *session) awaitReady(ctx context.Context, timeout, settle time.Duration) bool {
	start := time.Now()
	signaled := false

	timer := time.NewTimer(timeout)
	defer timer.Stop()
	select {
	case <-s.mctx.ready:
		signaled = true
	case <-timer.C:
	case <-ctx.Done():
	}

	sleepCtx(ctx, settle)

	detail := "ready signal received"
	if !signaled {
		detail = "ready signal timed out; proceeding"
	}
	s.record(audit.Entry{
		Step: stepAwaitReady, Outcome: audit.OutcomeSuccess, Detail: detail,
		LatencyMs: time.Since(start).Milliseconds(),
	})
	return signaled
}

// execute issues one OK-class command attempt.
func (s *session) execute(ctx context.Context, cmd string) error {
	if err := s.exec.Execute(ctx, at.Request{Command: cmd, Shape: at.ShapeOK}); err != nil {
		return at.Normalize(cmd, err)
	}
	return nil
}

// command issues one OK-class command under a retry budget.
func (s *session) command(ctx context.Context, cmd string, p retry.Policy) error {
	return retry.Do(ctx, p, func(actx context.Context) error {
		return s.execute(actx, cmd)
	})
}

// Property reads. Each issues the query command and decodes the single
// prefixed response line through the property's parser.

func (s *session) readFlowControl(ctx context.Context) (property.FlowControlPair, error) {
	var pair property.FlowControlPair
	err := s.exec.Execute(ctx, at.Request{
		Command: at.CmdFlowControlRead,
		Shape:   at.ShapePrefixed,
		Parse: func(line string) error {
			p, err := property.ParseFlowControlLine(line)
			if err != nil {
				return err
			}
			pair = p
			return nil
		},
	})
	if err != nil {
		return property.FlowControlPair{}, at.Normalize(at.CmdFlowControlRead, err)
	}
	return pair, nil
}

func (s *session) readURCPort(ctx context.Context) (property.URCPort, error) {
	var port property.URCPort
	err := s.exec.Execute(ctx, at.Request{
		Command: at.CmdURCPortRead,
		Shape:   at.ShapePrefixed,
		Parse: func(line string) error {
			p, err := property.ParseURCPortLine(line)
			if err != nil {
				return err
			}
			port = p
			return nil
		},
	})
	if err != nil {
		return property.PortUnknown, at.Normalize(at.CmdURCPortRead, err)
	}
	return port, nil
}

func (s *session) readNetworkCategory(ctx context.Context) (property.NetworkCategory, error) {
	var cat property.NetworkCategory
	err := s.exec.Execute(ctx, at.Request{
		Command: at.CmdNetworkCategoryRead,
		Shape:   at.ShapePrefixed,
		Parse: func(line string) error {
			c, err := property.ParseNetworkCategoryLine(line)
			if err != nil {
				return err
			}
			cat = c
			return nil
		},
	})
	if err != nil {
		return property.CategoryUnknown, at.Normalize(at.CmdNetworkCategoryRead, err)
	}
	return cat, nil
}

func (s *session) readFunctionality(ctx context.Context) (property.Functionality, error) {
	var level property.Functionality
	err := s.exec.Execute(ctx, at.Request{
		Command: at.CmdFunctionalityRead,
		Shape:   at.ShapePrefixed,
		Parse: func(line string) error {
			l, err := property.ParseFunctionalityLine(line)
			if err != nil {
				return err
			}
			level = l
			return nil
		},
	})
	if err != nil {
		return property.FunctionalityUnknown, at.Normalize(at.CmdFunctionalityRead, err)
	}
	return level, nil
}

func (s *session) readSIMToolkit(ctx context.Context) (property.FeatureState, error) {
	var state property.FeatureState
	err := s.exec.Execute(ctx, at.Request{
		Command: at.CmdSIMToolkitRead,
		Shape:   at.ShapePrefixed,
		Parse: func(line string) error {
			st, err := property.ParseSIMToolkitLine(line)
			if err != nil {
				return err
			}
			state = st
			return nil
		},
	})
	if err != nil {
		return property.FeatureUnknown, at.Normalize(at.CmdSIMToolkitRead, err)
	}
	return state, nil
}

// Write command builders. Tokens are bit-exact; interop depends on them.

func flowControlWriteCommand(pair property.FlowControlPair) string {
	return fmt.Sprintf("AT+IFC=%s,%s", pair.DCEByDTE.Token(), pair.DTEByDCE.Token())
}

func urcPortWriteCommand(port property.URCPort) string {
	return fmt.Sprintf(`AT+QURCCFG="urcport","%s"`, port.Token())
}

func networkCategoryWriteCommand(cat property.NetworkCategory) string {
	return fmt.Sprintf(`AT+QCFG="iotopmode",%s,1`, cat.Token())
}

// scanSequenceWriteCommand concatenates the 2-digit technology codes in
// priority order and appends the apply-immediately flag.
func scanSequenceWriteCommand(rats []property.RAT) string {
	return fmt.Sprintf(`AT+QCFG="nwscanseq",%s,1`, property.ScanSequence(rats))
}

func functionalityWriteCommand(level property.Functionality) string {
	return "AT+CFUN=" + level.Token()
}

func simToolkitWriteCommand(state property.FeatureState) string {
	return "AT+QSTK=" + state.Token()
}

func sleepCtx(ctx context.Context, d time.Duration) {
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
