package transcription

import "testing"

func TestDecodeASRFramePartial(t *testing.T) {
	frame, ok := decodeASRFrame([]byte(`{"partial":"hel"}`))
	if !ok {
		t.Fatalf("decodeASRFrame() ok = false, want true")
	}
	if !frame.IsPartial || frame.PartialText != "hel" {
		t.Errorf("decodeASRFrame() = %+v, want a partial hypothesis of %q", frame, "hel")
	}
}

func TestDecodeASRFrameFinalWithWordTimings(t *testing.T) {
	raw := `{"text":"hello world","speaker":"alice","result":[{"word":"hello","start":0.1,"end":0.4},{"word":"world","start":0.5,"end":0.9}]}`
	frame, ok := decodeASRFrame([]byte(raw))
	if !ok {
		t.Fatalf("decodeASRFrame() ok = false, want true")
	}
	if frame.Text != "hello world" || frame.Speaker != "alice" {
		t.Errorf("decodeASRFrame() text/speaker = %q/%q, want hello world/alice", frame.Text, frame.Speaker)
	}
	if len(frame.Result) != 2 || frame.Result[0].Word != "hello" || frame.Result[1].EndSec != 0.9 {
		t.Errorf("decodeASRFrame() result = %+v, want 2 word timings", frame.Result)
	}
}

func TestDecodeASRFrameFinalWithMessageTimingsOnly(t *testing.T) {
	raw := `{"text":"hello","start":1.0,"end":2.0}`
	frame, ok := decodeASRFrame([]byte(raw))
	if !ok {
		t.Fatalf("decodeASRFrame() ok = false, want true")
	}
	if frame.StartSec == nil || frame.EndSec == nil || *frame.StartSec != 1.0 || *frame.EndSec != 2.0 {
		t.Errorf("decodeASRFrame() start/end = %v/%v, want 1.0/2.0", frame.StartSec, frame.EndSec)
	}
}

func TestDecodeASRFrameMalformedJSON(t *testing.T) {
	_, ok := decodeASRFrame([]byte(`not json`))
	if ok {
		t.Errorf("decodeASRFrame() ok = true for malformed input, want false")
	}
}
