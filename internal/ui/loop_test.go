package ui_test

import (
	"context"
	"reflect"
	"testing"
	"time"

	"github.com/DMarby/picsum-browser/internal/ui"
)

func setupLoop() (*ui.Loop, context.CancelFunc, chan error) {
	ctx, cancel := context.WithCancel(context.Background())
	loop := ui.New()
	done := make(chan error, 1)
	go func() {
		done <- loop.Run(ctx)
	}()
	return loop, cancel, done
}

func TestDispatchOrder(t *testing.T) {
	loop, cancel, _ := setupLoop()
	defer cancel()

	result := make(chan []int, 1)
	var order []int
	for i := 0; i < 100; i++ {
		i := i
		loop.Dispatch(func() {
			order = append(order, i)
			if i == 99 {
				result <- order
			}
		})
	}

	select {
	case order := <-result:
		expected := make([]int, 100)
		for i := range expected {
			expected[i] = i
		}

		if !reflect.DeepEqual(order, expected) {
			t.Errorf("wrong order %v", order)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out")
	}
}

func TestDispatchFromLoop(t *testing.T) {
	loop, cancel, _ := setupLoop()
	defer cancel()

	done := make(chan struct{})
	loop.Dispatch(func() {
		loop.Dispatch(func() {
			close(done)
		})
	})

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("timed out")
	}
}

func TestShutdown(t *testing.T) {
	loop, cancel, done := setupLoop()
	defer cancel()

	ran := make(chan struct{}, 1)
	loop.Dispatch(func() { ran <- struct{}{} })
	loop.Shutdown()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("wrong error %s", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out")
	}

	select {
	case <-ran:
	default:
		t.Error("queued function did not run before shutdown")
	}

	// Dropped after shutdown
	loop.Dispatch(func() { ran <- struct{}{} })
	select {
	case <-ran:
		t.Error("function ran after shutdown")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCancelledContext(t *testing.T) {
	_, cancel, done := setupLoop()
	cancel()

	select {
	case err := <-done:
		if err != context.Canceled {
			t.Fatalf("wrong error %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out")
	}
}
