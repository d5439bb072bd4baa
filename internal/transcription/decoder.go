package transcription

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/exec"
	"syscall"

	"github.com/rs/zerolog/log"
)

// pcmDecoder wraps the external RTP-payload→PCM decoder process (§4.9 step
// 3): raw RTP payload bytes are written to its stdin, mono 16-bit PCM frames
// are read back from its stdout.
type pcmDecoder struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	stdout *bufio.Reader
}

func startDecoder(ctx context.Context, binPath string, sampleRateHz int) (*pcmDecoder, error) {
	cmd := exec.CommandContext(ctx, binPath, "--sample-rate", fmt.Sprint(sampleRateHz))
	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("decoder stdin pipe: %w", err)
	}
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, fmt.Errorf("decoder stdout pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("start decoder: %w", err)
	}
	return &pcmDecoder{cmd: cmd, stdin: stdin, stdout: bufio.NewReader(stdout)}, nil
}

func (d *pcmDecoder) WriteRTPPayload(payload []byte) error {
	_, err := d.stdin.Write(payload)
	return err
}

// ReadPCMFrame reads one fixed-size PCM frame; returns io.EOF when the
// decoder process exits.
func (d *pcmDecoder) ReadPCMFrame(buf []byte) (int, error) {
	return io.ReadFull(d.stdout, buf)
}

// Stop signals the decoder with the conventional terminate signal (§4.9
// step 8) and releases its pipes.
func (d *pcmDecoder) Stop() {
	_ = d.stdin.Close()
	if d.cmd.Process != nil {
		if err := d.cmd.Process.Signal(syscall.SIGTERM); err != nil {
			log.Debug().Str("module", "transcription").Err(err).Msg("decoder signal failed")
		}
	}
	_ = d.cmd.Wait()
}
