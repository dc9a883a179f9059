package orchestration

import (
	"testing"
	"time"
)

func TestDeviceCallsRunInOrder(t *testing.T) {
	calls := newDeviceCalls()
	go calls.run()

	results := make(chan int, 3)
	for i := 0; i < 3; i++ {
		calls.Do(func() { results <- i })
	}

	for want := 0; want < 3; want++ {
		select {
		case got := <-results:
			if got != want {
				t.Fatalf("expected call %d, got %d", want, got)
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("timed out waiting for call %d", want)
		}
	}

	calls.close()
	select {
	case <-calls.finished:
	case <-time.After(2 * time.Second):
		t.Fatalf("expected run to return after close")
	}
}

func TestDeviceCallsCloseDrainsQueuedCalls(t *testing.T) {
	calls := newDeviceCalls()

	ran := 0
	calls.Do(func() { ran++ })
	calls.Do(func() { ran++ })
	calls.close()
	calls.Do(func() { ran += 10 })

	calls.run()
	if ran != 2 {
		t.Fatalf("expected the two queued calls to run, got %d", ran)
	}
}

func TestDeviceCallsDoDoesNotWaitForBlockedCall(t *testing.T) {
	calls := newDeviceCalls()
	go calls.run()

	release := make(chan struct{})
	calls.Do(func() { <-release })

	queued := make(chan struct{})
	go func() {
		calls.Do(func() {})
		close(queued)
	}()

	select {
	case <-queued:
	case <-time.After(2 * time.Second):
		t.Fatalf("expected Do to return while another call is blocked")
	}

	close(release)
	calls.close()
	<-calls.finished
}
