// Package context holds small helpers shared by emission loops.
package context

import (
	"context"
)

// IsCanceled returns true if the context has been canceled
func IsCanceled(ctx context.Context) bool {
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}

// Cause returns nil while ctx is live, and the cancellation cause afterwards.
// Unlike context.Cause it never returns a non-nil error for a live context.
func Cause(ctx context.Context) error {
	if ctx.Err() == nil {
		return nil
	}
	return context.Cause(ctx)
}
