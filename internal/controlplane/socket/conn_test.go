package socket

import "testing"

func TestConnSendQueuesFrame(t *testing.T) {
	c := newConn(nil)
	if err := c.Send("ping", nil); err != nil {
		t.Fatalf("Send() err = %v", err)
	}
	select {
	case frame := <-c.send:
		if frame.Type != "ping" {
			t.Errorf("queued frame type = %q, want ping", frame.Type)
		}
	default:
		t.Fatalf("Send() did not queue a frame")
	}
}

func TestConnSendAfterDisconnectFails(t *testing.T) {
	c := newConn(nil)
	c.Disconnect(false)
	if err := c.Send("ping", nil); err == nil {
		t.Errorf("Send() after Disconnect() = nil error, want an error")
	}
}

func TestConnDisconnectIsIdempotent(t *testing.T) {
	c := newConn(nil)
	c.Disconnect(false)
	c.Disconnect(false) // must not panic on double-close of c.send
}

func TestConnSendBackpressure(t *testing.T) {
	c := newConn(nil)
	for i := 0; i < cap(c.send); i++ {
		if err := c.Send("frame", i); err != nil {
			t.Fatalf("Send() #%d err = %v, want nil (queue not yet full)", i, err)
		}
	}
	if err := c.Send("overflow", nil); err != ErrBackpressure {
		t.Errorf("Send() on a full queue = %v, want ErrBackpressure", err)
	}
}
