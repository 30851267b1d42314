package mailbox

import (
	"context"
	"testing"
	"time"

	"github.jpl.nasa.gov/bdube/aspect/camera"
)

func TestTakeEmptyIsFalse(t *testing.T) {
	m := New(0, 0)
	if _, ok := m.Take(); ok {
		t.Error("expected Take on an empty mailbox to report false")
	}
}

func TestPublishThenTake(t *testing.T) {
	m := New(0, 0)
	f := camera.NewFrame(2, 2)
	if err := m.Publish(context.Background(), f); err != nil {
		t.Fatal(err)
	}
	got, ok := m.Take()
	if !ok {
		t.Fatal("expected a frame")
	}
	if got.Width != 2 || got.Height != 2 {
		t.Errorf("unexpected frame dims: %dx%d", got.Width, got.Height)
	}
	if _, ok := m.Take(); ok {
		t.Error("expected the slot to be empty after Take")
	}
}

func TestPublishOverwritesUntakenFrame(t *testing.T) {
	m := New(0, 0)
	ctx := context.Background()
	m.Publish(ctx, camera.NewFrame(1, 1))
	m.Publish(ctx, camera.NewFrame(5, 5))
	got, ok := m.Take()
	if !ok || got.Width != 5 {
		t.Errorf("expected the latest frame to win, got %+v ok=%v", got, ok)
	}
}

func TestWaitUnblocksOnPublish(t *testing.T) {
	m := New(0, 0)
	done := make(chan error, 1)
	go func() {
		done <- m.Wait(context.Background())
	}()
	time.Sleep(10 * time.Millisecond)
	m.Publish(context.Background(), camera.NewFrame(1, 1))
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Wait did not unblock after Publish")
	}
}

func TestWaitRespectsContextCancellation(t *testing.T) {
	m := New(0, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := m.Wait(ctx); err == nil {
		t.Error("expected Wait to return an error for a cancelled context")
	}
}
