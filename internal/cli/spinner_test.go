package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func TestSpinnerStopIsIdempotent(t *testing.T) {
	s := newSpinner("Computing layout...")
	s.Start()
	time.Sleep(100 * time.Millisecond)

	s.Stop()
	s.Stop()
	s.Stop()
}

func TestSpinnerCancelled(t *testing.T) {
	tests := []struct {
		name string
		ctx  func() (context.Context, context.CancelFunc)
		wait time.Duration
	}{
		{
			name: "cancel",
			ctx: func() (context.Context, context.CancelFunc) {
				ctx, cancel := context.WithCancel(context.Background())
				cancel()
				return ctx, cancel
			},
			wait: 50 * time.Millisecond,
		},
		{
			name: "timeout",
			ctx: func() (context.Context, context.CancelFunc) {
				return context.WithTimeout(context.Background(), 20*time.Millisecond)
			},
			wait: 100 * time.Millisecond,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := tt.ctx()
			defer cancel()

			s := newSpinnerWithContext(ctx, "Connecting to redis cache...")
			s.Start()
			time.Sleep(tt.wait)

			if !s.Cancelled() {
				t.Error("spinner should be cancelled with its context")
			}
			s.Stop()
		})
	}
}

func TestSpinnerDraw(t *testing.T) {
	var buf bytes.Buffer
	s := newSpinner("Rendering svg...")
	s.out = &buf

	s.animate = false
	s.draw("⠋")
	if buf.Len() != 0 {
		t.Errorf("non-terminal spinner wrote %q", buf.String())
	}

	s.animate = true
	s.draw("⠋")
	s.clearLine()
	if !strings.Contains(buf.String(), "Rendering svg...") {
		t.Errorf("output %q missing message", buf.String())
	}
	if !strings.HasSuffix(buf.String(), "\r") {
		t.Errorf("output %q should end by returning the cursor", buf.String())
	}
}

func TestSpinnerStopWithMessage(t *testing.T) {
	s := newSpinner("Computing layout...")
	s.Start()
	s.StopWithSuccess("Layout computed")

	s = newSpinner("Rendering png...")
	s.Start()
	s.StopWithError("Rendering failed")
}
