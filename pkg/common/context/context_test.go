package context

import (
	"context"
	"errors"
	"testing"
)

func TestIsCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	if IsCanceled(ctx) {
		t.Fatal("fresh context should not be canceled")
	}

	cancel()
	if !IsCanceled(ctx) {
		t.Fatal("context should be canceled")
	}
}

func TestCause(t *testing.T) {
	cause := errors.New("stopped by test")
	ctx, cancel := context.WithCancelCause(context.Background())

	if err := Cause(ctx); err != nil {
		t.Fatalf("live context cause = %v, want nil", err)
	}

	cancel(cause)
	if err := Cause(ctx); !errors.Is(err, cause) {
		t.Fatalf("cause = %v, want %v", err, cause)
	}
}
