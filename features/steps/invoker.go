//go:build integration

package steps

import (
	"context"
	"io"
	"strings"

	"clipdesk/infrastructure/ffmpeg"
)

// scriptedInvoker stands in for ffmpeg/ffprobe and records every invocation
type scriptedInvoker struct {
	calls    []ffmpeg.Invocation
	stdout   string
	stderr   string
	exitCode int
	startErr error
}

func (s *scriptedInvoker) Start(ctx context.Context, inv ffmpeg.Invocation) (ffmpeg.Process, error) {
	s.calls = append(s.calls, inv)
	if s.startErr != nil {
		return nil, s.startErr
	}
	return &scriptedProcess{
		inv:      inv,
		stdout:   s.stdout,
		stderr:   s.stderr,
		stdoutR:  strings.NewReader(s.stdout),
		stderrR:  strings.NewReader(s.stderr),
		exitCode: s.exitCode,
	}, nil
}

type scriptedProcess struct {
	inv      ffmpeg.Invocation
	stdout   string
	stderr   string
	stdoutR  io.Reader
	stderrR  io.Reader
	exitCode int
}

func (p *scriptedProcess) Stdout() io.Reader {
	if p.inv.StreamStdout {
		return p.stdoutR
	}
	return nil
}

func (p *scriptedProcess) Stderr() io.Reader {
	if p.inv.StreamStderr {
		return p.stderrR
	}
	return nil
}

func (p *scriptedProcess) Wait() (ffmpeg.ExitStatus, error) {
	return ffmpeg.ExitStatus{Code: p.exitCode}, nil
}

func (p *scriptedProcess) Output() []byte      { return []byte(p.stdout) }
func (p *scriptedProcess) ErrorOutput() []byte { return []byte(p.stderr) }
func (p *scriptedProcess) Kill() error         { return nil }
