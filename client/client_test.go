package client

import "testing"

func TestEnqueueDropsWhenFull(t *testing.T) {
	c := New(nil, "c1")

	for i := 0; i < SendQueueSize; i++ {
		if !c.Enqueue([]byte{byte(i)}) {
			t.Fatalf("Expected message %d to be queued", i)
		}
	}
	if c.Enqueue([]byte{0xff}) {
		t.Error("Expected message to be dropped on a full queue")
	}
	if len(c.SendQueue) != SendQueueSize {
		t.Errorf("Expected %d queued messages, got %d", SendQueueSize, len(c.SendQueue))
	}
}

func TestEnqueueAfterClose(t *testing.T) {
	c := New(nil, "c1")
	c.Enqueue([]byte("hello"))

	c.Close()
	c.Close()

	if c.Enqueue([]byte("late")) {
		t.Error("Expected enqueue on a closed client to be refused")
	}

	// Queued messages stay readable until drained.
	msg, ok := <-c.SendQueue
	if !ok || string(msg) != "hello" {
		t.Errorf("Expected queued hello, got %q (ok=%v)", msg, ok)
	}
	if _, ok := <-c.SendQueue; ok {
		t.Error("Expected queue to be closed after draining")
	}
}
