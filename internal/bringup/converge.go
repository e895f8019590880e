package bringup

import (
	"context"

	"github.com/BinSentry/FreeRTOS-Cellular-Interface-Quectel-BG770-sub001/internal/retry"
)

// converge brings one property to its desired value: a retried read,
// then a retried write only when the read failed or the decoded value
// differs field-by-field. An exact match skips the write entirely, since
// several writes are documented to force expensive radio rescans. A
// failed read is conservatively treated as "needs write", never as
// "already correct".
//
// Returns whether a write was issued, and the write's outcome when one
// was.
func converge[T comparable](ctx context.Context, readPolicy, writePolicy retry.Policy, desired T,
	read func(context.Context) (T, error), write func(context.Context) error) (wrote bool, err error) {

	var current T
	readErr := retry.Do(ctx, readPolicy, func(actx context.Context) error {
		v, err := read(actx)
		if err != nil {
			return err
		}
		current = v
		return nil
	})

	if readErr == nil && current == desired {
		return false, nil
	}

	return true, retry.Do(ctx, writePolicy, write)
}
