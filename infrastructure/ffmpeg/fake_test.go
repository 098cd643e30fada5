package ffmpeg

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
)

// fakeInvoker records invocations and hands out a scripted process
type fakeInvoker struct {
	mu       sync.Mutex
	calls    []Invocation
	startErr error
	proc     *fakeProcess
}

func (f *fakeInvoker) Start(ctx context.Context, inv Invocation) (Process, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, inv)
	if f.startErr != nil {
		return nil, f.startErr
	}
	if f.proc == nil {
		f.proc = &fakeProcess{}
	}
	f.proc.inv = inv
	f.proc.start()
	return f.proc, nil
}

func (f *fakeInvoker) lastCall() Invocation {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.calls) == 0 {
		return Invocation{}
	}
	return f.calls[len(f.calls)-1]
}

// fakeProcess streams scripted lines through a synchronous pipe so a Wait
// that happens before the stream is drained can be detected.
type fakeProcess struct {
	inv Invocation

	stdoutLines []string
	stderrLines []string
	stdout      []byte // buffered stdout when not streamed
	stderr      []byte // buffered stderr when not streamed
	status      ExitStatus
	waitErr     error

	streamR      io.Reader
	streamDone   chan struct{}
	waitedEarly  bool
	waitCalls    int
	streamedText strings.Builder
}

func (p *fakeProcess) start() {
	lines := p.stderrLines
	if p.inv.StreamStdout {
		lines = p.stdoutLines
	}
	if !p.inv.StreamStdout && !p.inv.StreamStderr {
		return
	}

	pr, pw := io.Pipe()
	p.streamR = pr
	p.streamDone = make(chan struct{})
	go func() {
		for _, line := range lines {
			p.streamedText.WriteString(line)
			if _, err := io.WriteString(pw, line); err != nil {
				pw.Close()
				return
			}
		}
		// io.Pipe writes block until read, so everything has been consumed here
		close(p.streamDone)
		pw.Close()
	}()
}

func (p *fakeProcess) Stdout() io.Reader {
	if p.inv.StreamStdout {
		return p.streamR
	}
	return nil
}

func (p *fakeProcess) Stderr() io.Reader {
	if p.inv.StreamStderr {
		return p.streamR
	}
	return nil
}

func (p *fakeProcess) Wait() (ExitStatus, error) {
	p.waitCalls++
	if p.streamDone != nil {
		select {
		case <-p.streamDone:
		default:
			p.waitedEarly = true
		}
	}
	return p.status, p.waitErr
}

func (p *fakeProcess) Output() []byte {
	if p.inv.StreamStdout {
		return []byte(p.streamedText.String())
	}
	return p.stdout
}

func (p *fakeProcess) ErrorOutput() []byte {
	if p.inv.StreamStderr {
		return []byte(p.streamedText.String())
	}
	return p.stderr
}

func (p *fakeProcess) Kill() error {
	return errors.New("not supported")
}
