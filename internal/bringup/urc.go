package bringup

import (
	"context"
	"time"

	"github.com/BinSentry/FreeRTOS-Cellular-Interface-Quectel-BG770-sub001/internal/at"
	"github.com/BinSentry/FreeRTOS-Cellular-Interface-Quectel-BG770-sub001/internal/audit"
)

// EnableUnsolicitedReports issues the post-bring-up notification
// enables: registration status, time-zone change and PSM timer
// reporting. Fire and forget; individual outcomes are not checked. The
// whole step is skipped when the last run took the fast-path exit, since
// that session is expected to be re-established before use.
func (b *BringUp) EnableUnsolicitedReports(ctx context.Context) {
	start := time.Now()

	if b.mctx.FastPath() == FastPathYes {
		b.record(audit.Entry{
			Step: stepEnableURCs, Outcome: audit.OutcomeSkipped,
			Detail: "fast path taken; session will be re-established",
		})
		return
	}

	for _, cmd := range []string{at.CmdRegistrationURC, at.CmdTimeZoneURC, at.CmdPSMTimerURC} {
		_ = b.execute(ctx, cmd)
	}

	b.record(audit.Entry{
		Step: stepEnableURCs, Outcome: audit.OutcomeSuccess,
		LatencyMs: time.Since(start).Milliseconds(),
	})
}
