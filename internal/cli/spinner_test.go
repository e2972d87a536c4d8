package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"
)

func quietSpinner(ctx context.Context, msg string) (*Spinner, *bytes.Buffer) {
	var buf bytes.Buffer
	s := newSpinnerWithContext(ctx, msg)
	s.out = &buf
	return s, &buf
}

func TestSpinnerDrawsMessage(t *testing.T) {
	s, buf := quietSpinner(context.Background(), "Connecting to Redis...")
	s.Start()
	time.Sleep(2 * spinnerInterval)
	s.Stop()

	out := buf.String()
	if !strings.Contains(out, "Connecting to Redis...") {
		t.Errorf("output %q lacks the message", out)
	}
	if !strings.ContainsAny(out, strings.Join(spinnerFrames, "")) {
		t.Errorf("output %q has no spinner frame", out)
	}
	if !strings.HasSuffix(out, "\r") {
		t.Errorf("line not cleared after Stop: %q", out)
	}
}

func TestSpinnerParentCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s, _ := quietSpinner(ctx, "Opening history...")
	s.Start()
	cancel()

	select {
	case <-s.stopped:
	case <-time.After(time.Second):
		t.Fatal("spinner still running after parent cancel")
	}
	if !s.Cancelled() {
		t.Error("Cancelled() = false after parent cancel")
	}
	s.Stop()
}

func TestSpinnerParentTimeout(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()

	s, _ := quietSpinner(ctx, "Dialing...")
	s.Start()
	<-s.stopped
	if !s.Cancelled() {
		t.Error("Cancelled() = false after timeout")
	}
}

func TestSpinnerStopRepeatable(t *testing.T) {
	s, _ := quietSpinner(context.Background(), "x")
	s.Start()
	s.Start()
	s.Stop()
	s.Stop()
}

func TestSpinnerStopBeforeStart(t *testing.T) {
	s, buf := quietSpinner(context.Background(), "never shown")

	done := make(chan struct{})
	go func() {
		s.Stop()
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Stop without Start blocked")
	}
	if buf.Len() != 0 {
		t.Errorf("unexpected output %q", buf.String())
	}
	s.Start()
}

func TestSpinnerStopWithStatus(t *testing.T) {
	ok, _ := quietSpinner(context.Background(), "saving")
	ok.Start()
	ok.StopWithSuccess("saved")

	bad, _ := quietSpinner(context.Background(), "saving")
	bad.Start()
	bad.StopWithError("save failed")
	if !bad.Cancelled() {
		t.Error("Cancelled() = false after StopWithError")
	}
}
