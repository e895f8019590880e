package bringup

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/BinSentry/FreeRTOS-Cellular-Interface-Quectel-BG770-sub001/internal/at"
	"github.com/BinSentry/FreeRTOS-Cellular-Interface-Quectel-BG770-sub001/internal/config"
	"github.com/BinSentry/FreeRTOS-Cellular-Interface-Quectel-BG770-sub001/internal/property"
)

// LegacyBringUp applies every property write unconditionally, for a
// module generation with no query support for some properties. Same step
// sequence as the converging variant, minus the fast-path short-circuit
// and all fast-path bookkeeping, under a single fixed retry policy.
type LegacyBringUp struct {
	session
	cfg     *config.Config
	desired DesiredConfig
}

// Compile-time assertion that LegacyBringUp implements Sequence.
var _ Sequence = (*LegacyBringUp)(nil)

// NewLegacy creates the unconditional-write bring-up sequence.
func NewLegacy(exec at.Executor, mctx *ModuleContext, desired DesiredConfig, cfg *config.Config, aud AuditLogger) (*LegacyBringUp, error) {
	if exec == nil || mctx == nil || cfg == nil {
		return nil, at.ErrBadParameter
	}
	if err := desired.validate(); err != nil {
		return nil, err
	}
	return &LegacyBringUp{
		session: session{exec: exec, mctx: mctx, aud: aud},
		cfg:     cfg,
		desired: desired,
	}, nil
}

// Run executes the unconditional bring-up sequence.
func (b *LegacyBringUp) Run(ctx context.Context) error {
	b.runID = uuid.NewString()
	b.failed = false
	b.mctx.reset()

	b.awaitReady(ctx, b.cfg.ReadyTimeout(), b.cfg.SettleDelay())

	b.bestEffort(ctx, stepProbePresence, at.CmdProbe, func(actx context.Context) error {
		return b.command(actx, at.CmdProbe, b.cfg.Probe.Policy())
	})

	policy := b.cfg.Legacy.Policy()
	writes := []struct {
		name     string
		command  string
		property string
	}{
		{stepDisableEcho, at.CmdEchoOff, ""},
		{stepDisableDTR, at.CmdDTRIgnore, ""},
		{stepConfigureFlowControl, flowControlWriteCommand(b.desired.FlowControl), "ifc"},
		{stepConfigureURCPort, urcPortWriteCommand(b.desired.URCPort), "urcport"},
		{stepConfigureNetworkCategory, networkCategoryWriteCommand(b.desired.NetworkCategory), "iotopmode"},
		{stepConfigureRAT, scanSequenceWriteCommand(b.desired.RATPriority), "nwscanseq"},
		{stepConfigureFunctionality, functionalityWriteCommand(b.desired.Functionality), "cfun"},
		{stepConfigureAuxFeature, simToolkitWriteCommand(property.FeatureDisabled), "qstk"},
	}

	for _, w := range writes {
		cmd := w.command
		b.step(ctx, w.name, cmd, w.property, func(actx context.Context) error {
			return b.command(actx, cmd, policy)
		})
	}

	if b.failed {
		return fmt.Errorf("%w: bring-up did not converge (run %s)", at.ErrSequence, b.runID)
	}
	return nil
}
