package ffmpeg

import (
	"context"
	"fmt"
	"strings"

	"clipdesk/domain/video"
)

// Outcome is the captured output of a successful run
type Outcome struct {
	Stdout []byte
	Stderr []byte
}

// Text returns stdout decoded lossily and trimmed
func (o *Outcome) Text() string {
	return LossyText(o.Stdout)
}

// Reduce waits for proc and classifies how it ended.
//
// A failure to obtain the exit status is a WaitError. A non-zero or abnormal
// exit is an ExecutionFailure whose message is the trimmed stderr text; when
// the tool printed nothing, fallback is used instead.
func Reduce(ctx context.Context, op string, proc Process, fallback string) (*Outcome, error) {
	status, err := proc.Wait()
	if err != nil {
		return nil, video.NewWaitError(op, err)
	}

	if !status.Success() {
		msg := LossyText(proc.ErrorOutput())
		if msg == "" {
			msg = fallback
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			failure := video.NewExecutionFailure(op, fmt.Sprintf("%s: %v", msg, ctxErr))
			failure.Err = ctxErr
			return nil, failure
		}
		return nil, video.NewExecutionFailure(op, msg)
	}

	return &Outcome{Stdout: proc.Output(), Stderr: proc.ErrorOutput()}, nil
}

// LossyText converts tool output to text, replacing invalid byte
// sequences, and trims surrounding whitespace
func LossyText(b []byte) string {
	return strings.TrimSpace(strings.ToValidUTF8(string(b), "\uFFFD"))
}

// start launches inv and maps launch failures to SpawnError
func start(ctx context.Context, invoker Invoker, op string, inv Invocation) (Process, error) {
	proc, err := invoker.Start(ctx, inv)
	if err != nil {
		return nil, video.NewSpawnError(op, inv.Tool, err)
	}
	return proc, nil
}

func successMessage(prefix, output string) string {
	if output == "" {
		return prefix
	}
	return prefix + ": " + output
}
