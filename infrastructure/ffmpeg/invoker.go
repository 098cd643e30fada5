package ffmpeg

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sync"
)

// maxCapturedOutput bounds how much of a streamed pipe is kept for error
// messages once the progress parser has consumed it.
const maxCapturedOutput = 64 * 1024

// Invocation describes one run of an external tool
type Invocation struct {
	Tool string
	Args []string

	// StreamStdout / StreamStderr expose the stream as a pipe that the caller
	// must drain before Wait. Streams that are not streamed are buffered.
	StreamStdout bool
	StreamStderr bool
}

// ExitStatus is how a child process ended
type ExitStatus struct {
	Code int // -1 when terminated by a signal
}

// Success reports a normal, zero exit
func (s ExitStatus) Success() bool {
	return s.Code == 0
}

// Process is a started child process. It is owned by exactly one caller and
// must be waited on once.
type Process interface {
	// Stdout returns the streaming stdout pipe, or nil if stdout is buffered
	Stdout() io.Reader
	// Stderr returns the streaming stderr pipe, or nil if stderr is buffered
	Stderr() io.Reader
	// Wait blocks until the child exits. The error is non-nil only when the
	// exit status could not be obtained; a non-zero exit is reported in ExitStatus.
	Wait() (ExitStatus, error)
	// Output returns captured stdout (the tail, when streamed)
	Output() []byte
	// ErrorOutput returns captured stderr (the tail, when streamed)
	ErrorOutput() []byte
	// Kill terminates the child
	Kill() error
}

// Invoker starts external tools.
// This allows mocking exec.Command in tests
type Invoker interface {
	Start(ctx context.Context, inv Invocation) (Process, error)
}

// ExecInvoker is the production implementation using os/exec.
// The tool name is resolved through PATH unless it is a path itself.
type ExecInvoker struct{}

// Start launches the tool. Any error returned means no process is running.
func (ExecInvoker) Start(ctx context.Context, inv Invocation) (Process, error) {
	cmd := exec.CommandContext(ctx, inv.Tool, inv.Args...)
	p := &execProcess{cmd: cmd}
	p.outBuf.limit = captureLimit(inv.StreamStdout)
	p.errBuf.limit = captureLimit(inv.StreamStderr)

	if inv.StreamStdout {
		r, err := cmd.StdoutPipe()
		if err != nil {
			return nil, fmt.Errorf("stdout pipe: %w", err)
		}
		p.stdout = io.TeeReader(r, &p.outBuf)
	} else {
		cmd.Stdout = &p.outBuf
	}

	if inv.StreamStderr {
		r, err := cmd.StderrPipe()
		if err != nil {
			return nil, fmt.Errorf("stderr pipe: %w", err)
		}
		p.stderr = io.TeeReader(r, &p.errBuf)
	} else {
		cmd.Stderr = &p.errBuf
	}

	if err := cmd.Start(); err != nil {
		return nil, err
	}
	return p, nil
}

type execProcess struct {
	cmd    *exec.Cmd
	stdout io.Reader
	stderr io.Reader
	outBuf tailBuffer
	errBuf tailBuffer
}

func (p *execProcess) Stdout() io.Reader { return p.stdout }
func (p *execProcess) Stderr() io.Reader { return p.stderr }
func (p *execProcess) Output() []byte    { return p.outBuf.Bytes() }
func (p *execProcess) ErrorOutput() []byte {
	return p.errBuf.Bytes()
}

func (p *execProcess) Wait() (ExitStatus, error) {
	err := p.cmd.Wait()
	if err == nil {
		return ExitStatus{Code: 0}, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return ExitStatus{Code: exitErr.ExitCode()}, nil
	}
	return ExitStatus{Code: -1}, err
}

func (p *execProcess) Kill() error {
	if p.cmd.Process == nil {
		return nil
	}
	return p.cmd.Process.Kill()
}

// captureLimit keeps buffered streams whole (probe JSON must not be cut)
// and only the tail of streams the caller is already consuming.
func captureLimit(streamed bool) int {
	if streamed {
		return maxCapturedOutput
	}
	return 0
}

// tailBuffer keeps the last limit bytes written to it, or everything when
// limit is zero. exec copies buffered streams from its own goroutines,
// hence the lock.
type tailBuffer struct {
	mu    sync.Mutex
	buf   bytes.Buffer
	limit int
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	n := len(p)
	if t.limit <= 0 {
		return t.buf.Write(p)
	}
	if n >= t.limit {
		t.buf.Reset()
		t.buf.Write(p[n-t.limit:])
		return n, nil
	}
	if over := t.buf.Len() + n - t.limit; over > 0 {
		t.buf.Next(over)
	}
	t.buf.Write(p)
	return n, nil
}

func (t *tailBuffer) Bytes() []byte {
	t.mu.Lock()
	defer t.mu.Unlock()
	return bytes.Clone(t.buf.Bytes())
}
