package transcription

import (
	"context"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dkeye/sfu-control-plane/internal/core"
	"github.com/dkeye/sfu-control-plane/internal/domain"
	"github.com/pion/rtp"
	"github.com/rs/zerolog/log"
)

const pcmFrameBytes = 640 // 20ms @ 16kHz mono 16-bit

// Config configures a Transcriber.
type Config struct {
	ASRURL          string
	SampleRateHz    int
	DecoderBinPath  string
	NewASRClient    func(url string) core.ASRClient // overridable for tests
}

// Transcriber owns one room's audio tap: transport, consumer, decoder
// process, and ASR socket (§5: "The Transcription Pipeline owns its
// transport, consumer, decoder process, and ASR socket; no other component
// touches them").
type Transcriber struct {
	cfg       Config
	mp        core.MediaPlane
	channelID domain.ChannelID

	started      atomic.Bool
	sourceID     domain.ProducerID
	transportID  string
	cancel       context.CancelFunc
	wg           sync.WaitGroup

	transcript *Transcript
}

func NewTranscriber(mp core.MediaPlane, channelID domain.ChannelID, cfg Config) *Transcriber {
	if cfg.NewASRClient == nil {
		cfg.NewASRClient = NewWSClient
	}
	if cfg.SampleRateHz == 0 {
		cfg.SampleRateHz = 16000
	}
	return &Transcriber{mp: mp, channelID: channelID, cfg: cfg}
}

// Start implements §4.9 steps 1-4. Idempotent per Transcriber instance: a
// re-entry while active is a no-op.
func (t *Transcriber) Start(ctx context.Context, producerID domain.ProducerID) error {
	if !t.started.CompareAndSwap(false, true) {
		return nil
	}
	runCtx, cancel := context.WithCancel(ctx)
	t.cancel = cancel
	t.sourceID = producerID
	t.transcript = newTranscript(time.Now().UnixNano())

	transport, err := t.mp.CreatePlainTransport(runCtx, t.channelID)
	if err != nil {
		t.started.Store(false)
		cancel()
		return err
	}
	t.transportID = transport.ID()
	if _, err := transport.Consume(runCtx, producerID); err != nil {
		t.started.Store(false)
		cancel()
		return err
	}

	udpConn, err := net.ListenUDP("udp", &net.UDPAddr{IP: net.ParseIP("127.0.0.1"), Port: transport.LocalPort()})
	if err != nil {
		t.started.Store(false)
		cancel()
		return err
	}

	decoder, err := startDecoder(runCtx, t.cfg.DecoderBinPath, t.cfg.SampleRateHz)
	if err != nil {
		_ = udpConn.Close()
		t.started.Store(false)
		cancel()
		return err
	}

	asrClient := t.cfg.NewASRClient(t.cfg.ASRURL)
	if err := asrClient.Open(runCtx, t.cfg.SampleRateHz); err != nil {
		_ = udpConn.Close()
		decoder.Stop()
		t.started.Store(false)
		cancel()
		return err
	}

	t.wg.Add(3)
	go t.rtpLoop(runCtx, udpConn, decoder)
	go t.decoderLoop(runCtx, decoder, asrClient)
	go t.asrLoop(runCtx, asrClient)

	go func() {
		<-runCtx.Done()
		_ = udpConn.Close()
		decoder.Stop()
		_ = asrClient.Close()
	}()

	return nil
}

// rtpLoop reads RTP packets off the loopback socket and forwards their
// payload to the decoder, one sink instead of the usual peer fan-out.
func (t *Transcriber) rtpLoop(ctx context.Context, conn *net.UDPConn, decoder *pcmDecoder) {
	defer t.wg.Done()
	buf := make([]byte, 1500)
	var pkt rtp.Packet
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		n, _, err := conn.ReadFromUDP(buf)
		if err != nil {
			if ctx.Err() == nil {
				log.Debug().Str("module", "transcription").Err(err).Msg("rtp read error")
			}
			return
		}
		if err := pkt.Unmarshal(buf[:n]); err != nil {
			continue
		}
		if err := decoder.WriteRTPPayload(pkt.Payload); err != nil {
			if ctx.Err() == nil {
				log.Debug().Str("module", "transcription").Err(err).Msg("decoder write error")
			}
			return
		}
	}
}

func (t *Transcriber) decoderLoop(ctx context.Context, decoder *pcmDecoder, asrClient core.ASRClient) {
	defer t.wg.Done()
	buf := make([]byte, pcmFrameBytes)
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		if _, err := decoder.ReadPCMFrame(buf); err != nil {
			return
		}
		if err := asrClient.WritePCM(buf); err != nil {
			if ctx.Err() == nil {
				log.Debug().Str("module", "transcription").Err(err).Msg("asr write error")
			}
			return
		}
	}
}

func (t *Transcriber) asrLoop(ctx context.Context, asrClient core.ASRClient) {
	defer t.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case frame, ok := <-asrClient.Frames():
			if !ok {
				return
			}
			t.handleFrame(frame)
		}
	}
}

// handleFrame implements §4.9 step 5-6: map a decoded ASR frame into a
// TranscriptChunk (word timings preferred, then message timings, then
// arrival time) and apply the dedup rule on append.
func (t *Transcriber) handleFrame(frame core.ASRFrame) {
	if frame.IsPartial {
		t.transcript.SetLastPartial(frame.PartialText)
		return
	}

	nowMs := time.Now().UnixNano() / int64(time.Millisecond)
	startMs, endMs := nowMs, nowMs
	if n := len(frame.Result); n > 0 {
		startMs = int64(frame.Result[0].StartSec * 1000)
		endMs = int64(frame.Result[n-1].EndSec * 1000)
	} else if frame.StartSec != nil && frame.EndSec != nil {
		startMs = int64(*frame.StartSec * 1000)
		endMs = int64(*frame.EndSec * 1000)
	}
	t.transcript.Append(core.TranscriptChunk{
		StartMs: startMs,
		EndMs:   endMs,
		Text:    frame.Text,
		Speaker: frame.Speaker,
	})
}

// Stop implements §4.9 step 8: best-effort eof, process/socket teardown,
// then flush any pending partial as a final chunk.
func (t *Transcriber) Stop() {
	if !t.started.CompareAndSwap(true, false) {
		return
	}
	if t.cancel != nil {
		t.cancel()
	}
	t.wg.Wait()
	if t.transcript != nil {
		t.transcript.FlushPartial(time.Now().UnixNano() / int64(time.Millisecond))
	}
}

// Snapshot returns the transcript accumulated so far; safe to call while
// running or after Stop.
func (t *Transcriber) Snapshot() []core.TranscriptChunk {
	if t.transcript == nil {
		return nil
	}
	return t.transcript.Snapshot()
}

func (t *Transcriber) Running() bool {
	return t.started.Load()
}

// SourceProducerID reports the audio producer this transcriber is tapping.
func (t *Transcriber) SourceProducerID() domain.ProducerID {
	return t.sourceID
}

// TransportID reports the plain transport this transcriber allocated.
func (t *Transcriber) TransportID() string {
	return t.transportID
}
