package bringup

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/BinSentry/FreeRTOS-Cellular-Interface-Quectel-BG770-sub001/internal/at"
	"github.com/BinSentry/FreeRTOS-Cellular-Interface-Quectel-BG770-sub001/internal/audit"
	"github.com/BinSentry/FreeRTOS-Cellular-Interface-Quectel-BG770-sub001/internal/config"
	"github.com/BinSentry/FreeRTOS-Cellular-Interface-Quectel-BG770-sub001/internal/property"
)

// Sequence is the bring-up orchestration contract both variants satisfy.
type Sequence interface {
	Run(ctx context.Context) error
}

// DesiredConfig is the target configuration state. Immutable for the
// process lifetime; supplied by the surrounding application.
type DesiredConfig struct {
	Functionality   property.Functionality
	NetworkCategory property.NetworkCategory
	FlowControl     property.FlowControlPair
	URCPort         property.URCPort

	// RATPriority is the ordered scan priority list, 1 to 3 entries.
	RATPriority []property.RAT

	// SkipOnFlowControlChange permits the fast-path exit: a flow-control
	// change may force the transport to reconnect, invalidating the
	// channel for the remaining steps.
	SkipOnFlowControlChange bool
}

// DefaultDesired builds the standard target state from operator
// configuration: SIM active with RF off, LTE-M search, hardware flow
// control in both directions.
func DefaultDesired(cfg *config.Config) (DesiredConfig, error) {
	rats, err := cfg.ParseRATPriority()
	if err != nil {
		return DesiredConfig{}, err
	}
	return DesiredConfig{
		Functionality:   property.FunctionalitySIMOnly,
		NetworkCategory: property.CategoryLTEM,
		FlowControl: property.FlowControlPair{
			DCEByDTE: property.FlowHardware,
			DTEByDCE: property.FlowHardware,
		},
		URCPort:                 property.ParseURCPort(cfg.URCPort),
		RATPriority:             rats,
		SkipOnFlowControlChange: cfg.SkipOnFlowControlChange,
	}, nil
}

// validate rejects targets the core must never write: the Unknown
// sentinel is not a valid write target for any property.
func (d DesiredConfig) validate() error {
	switch {
	case d.Functionality == property.FunctionalityUnknown,
		d.NetworkCategory == property.CategoryUnknown,
		d.URCPort == property.PortUnknown,
		d.FlowControl.DCEByDTE == property.FlowUnknown,
		d.FlowControl.DTEByDCE == property.FlowUnknown:
		return fmt.Errorf("%w: desired configuration contains unknown values", at.ErrBadParameter)
	}
	if len(d.RATPriority) < 1 || len(d.RATPriority) > 3 {
		return fmt.Errorf("%w: RAT priority list must carry 1 to 3 entries", at.ErrBadParameter)
	}
	return nil
}

// BringUp is the converging orchestrator: read-before-write for every
// queryable property, with the flow-control fast-path check.
type BringUp struct {
	session
	cfg     *config.Config
	desired DesiredConfig
}

// Compile-time assertion that BringUp implements Sequence.
var _ Sequence = (*BringUp)(nil)

// New creates the converging bring-up sequence.
func New(exec at.Executor, mctx *ModuleContext, desired DesiredConfig, cfg *config.Config, aud AuditLogger) (*BringUp, error) {
	if exec == nil || mctx == nil || cfg == nil {
		return nil, at.ErrBadParameter
	}
	if err := desired.validate(); err != nil {
		return nil, err
	}
	return &BringUp{
		session: session{exec: exec, mctx: mctx, aud: aud},
		cfg:     cfg,
		desired: desired,
	}, nil
}

// FastPath reports the tri-state fast-path indicator for the most recent
// run. Callers that do not check it after a success may wrongly treat a
// fast-path exit as a fully configured session.
func (b *BringUp) FastPath() FastPathResult {
	return b.mctx.FastPath()
}

// Run executes the bring-up state machine. It blocks for up to the sum
// of every step's retry budget; invoke it from a context that tolerates
// tens of seconds.
func (b *BringUp) Run(ctx context.Context) error {
	b.runID = uuid.NewString()
	b.failed = false
	b.mctx.reset()

	b.awaitReady(ctx, b.cfg.ReadyTimeout(), b.cfg.SettleDelay())

	// Presence probe fails fast and never gates the sequence: a false
	// negative here must not stop configuration from being attempted. The
	// outcome does feed the fast-path decision below.
	present := b.bestEffort(ctx, stepProbePresence, at.CmdProbe, func(actx context.Context) error {
		return b.command(actx, at.CmdProbe, b.cfg.Probe.Policy())
	})

	cmdPolicy := b.cfg.Command.Policy()
	b.step(ctx, stepDisableEcho, at.CmdEchoOff, "", func(actx context.Context) error {
		return b.command(actx, at.CmdEchoOff, cmdPolicy)
	})
	b.step(ctx, stepDisableDTR, at.CmdDTRIgnore, "", func(actx context.Context) error {
		return b.command(actx, at.CmdDTRIgnore, cmdPolicy)
	})

	if done := b.fastPathCheck(ctx, present); done {
		return nil
	}

	readPolicy := b.cfg.Read.Policy()
	writePolicy := b.cfg.Write.Policy()

	b.step(ctx, stepConfigureURCPort, urcPortWriteCommand(b.desired.URCPort), "urcport", func(actx context.Context) error {
		_, err := converge(actx, readPolicy, writePolicy, b.desired.URCPort,
			b.readURCPort,
			func(wctx context.Context) error {
				return b.execute(wctx, urcPortWriteCommand(b.desired.URCPort))
			})
		return err
	})

	b.step(ctx, stepConfigureNetworkCategory, networkCategoryWriteCommand(b.desired.NetworkCategory), "iotopmode", func(actx context.Context) error {
		_, err := converge(actx, readPolicy, writePolicy, b.desired.NetworkCategory,
			b.readNetworkCategory,
			func(wctx context.Context) error {
				return b.execute(wctx, networkCategoryWriteCommand(b.desired.NetworkCategory))
			})
		return err
	})

	// No query form exists for the scan sequence on this model, so the
	// write always goes out.
	ratCmd := scanSequenceWriteCommand(b.desired.RATPriority)
	b.step(ctx, stepConfigureRAT, ratCmd, "nwscanseq", func(actx context.Context) error {
		return b.command(actx, ratCmd, writePolicy)
	})

	b.step(ctx, stepConfigureFunctionality, functionalityWriteCommand(b.desired.Functionality), "cfun", func(actx context.Context) error {
		_, err := converge(actx, readPolicy, writePolicy, b.desired.Functionality,
			b.readFunctionality,
			func(wctx context.Context) error {
				return b.execute(wctx, functionalityWriteCommand(b.desired.Functionality))
			})
		return err
	})

	// Converges toward disabled whenever the flag reads enabled or
	// unknown; SIM-toolkit BIP sessions can silently rewrite DNS
	// behavior.
	b.step(ctx, stepConfigureAuxFeature, simToolkitWriteCommand(property.FeatureDisabled), "qstk", func(actx context.Context) error {
		_, err := converge(actx, readPolicy, writePolicy, property.FeatureDisabled,
			b.readSIMToolkit,
			func(wctx context.Context) error {
				return b.execute(wctx, simToolkitWriteCommand(property.FeatureDisabled))
			})
		return err
	})

	if b.failed {
		return fmt.Errorf("%w: bring-up did not converge (run %s)", at.ErrSequence, b.runID)
	}
	return nil
}

// fastPathCheck converges flow control and decides whether the sequence
// can end early. A required write that succeeds, with skip-on-change
// enabled, terminates bring-up: the flow-control change may itself reset
// the transport, so the caller re-invokes bring-up from scratch. A
// converge failure leaves the indicator indeterminate and the sequence
// continues best-effort.
//
// The early exit is only taken when the presence probe confirmed the
// device. An unconfirmed device may have ignored the rewrite, so ending
// the sequence on it would leave the remaining properties unattempted on
// nothing more than a hunch; the indicator goes indeterminate and the
// full sequence runs instead.
func (b *BringUp) fastPathCheck(ctx context.Context, present bool) (earlyExit bool) {
	start := time.Now()
	writeCmd := flowControlWriteCommand(b.desired.FlowControl)

	if b.failed {
		b.record(audit.Entry{
			Step: stepFastPathCheck, Command: writeCmd, Property: "ifc",
			Outcome: audit.OutcomeSkipped, Detail: "prior step failed",
		})
		return false
	}

	wrote, err := converge(ctx, b.cfg.Read.Policy(), b.cfg.Write.Policy(), b.desired.FlowControl,
		b.readFlowControl,
		func(wctx context.Context) error {
			return b.execute(wctx, writeCmd)
		})

	entry := audit.Entry{
		Step: stepFastPathCheck, Command: writeCmd, Property: "ifc",
		LatencyMs: time.Since(start).Milliseconds(),
	}

	switch {
	case err != nil:
		b.mctx.setFastPath(FastPathIndeterminate)
		entry.Outcome = audit.OutcomeFailed
		entry.Detail = err.Error() + "; continuing best-effort"
	case wrote && b.desired.SkipOnFlowControlChange && !present:
		b.mctx.setFastPath(FastPathIndeterminate)
		entry.Outcome = audit.OutcomeSuccess
		entry.Detail = "flow control rewritten; presence unconfirmed, running full sequence"
	case wrote && b.desired.SkipOnFlowControlChange:
		b.mctx.setFastPath(FastPathYes)
		entry.Outcome = audit.OutcomeSuccess
		entry.Detail = "flow control rewritten; ending sequence early"
		earlyExit = true
	case wrote:
		entry.Outcome = audit.OutcomeSuccess
		entry.Detail = "flow control rewritten"
	default:
		entry.Outcome = audit.OutcomeSuccess
		entry.Detail = "already converged"
	}

	b.record(entry)
	return earlyExit
}
