package video

import (
	"errors"
	"fmt"
)

// Operation names used in errors, logs and results
const (
	OpTrim         = "trim"
	OpExtractAudio = "extract_audio"
	OpProbe        = "probe_metadata"
	OpVerify       = "verify_installed"
)

// Kind classifies why an operation failed
type Kind string

const (
	KindInvalidRequest Kind = "invalid_request"
	KindSourceMissing  Kind = "source_missing"
	KindSpawn          Kind = "spawn_error"
	KindExecution      Kind = "execution_failure"
	KindWait           Kind = "wait_error"
	KindParse          Kind = "parse_error"
)

var (
	// ErrInvalidRequest is returned when request parameters are rejected locally
	ErrInvalidRequest = errors.New("invalid request")

	// ErrSourceMissing is returned when the input file does not exist
	ErrSourceMissing = errors.New("source file does not exist")

	// ErrSpawn is returned when the external tool could not be started
	ErrSpawn = errors.New("failed to start tool")

	// ErrExecution is returned when the tool ran but exited unsuccessfully
	ErrExecution = errors.New("tool exited with failure")

	// ErrWait is returned when the child's completion could not be observed
	ErrWait = errors.New("failed to wait for tool")

	// ErrParse is returned when probe output cannot be parsed
	ErrParse = errors.New("failed to get metadata")

	// ErrDecode is returned when captured output is not valid UTF-8
	ErrDecode = errors.New("output is not valid UTF-8")
)

var kindSentinels = map[Kind]error{
	KindInvalidRequest: ErrInvalidRequest,
	KindSourceMissing:  ErrSourceMissing,
	KindSpawn:          ErrSpawn,
	KindExecution:      ErrExecution,
	KindWait:           ErrWait,
	KindParse:          ErrParse,
}

// OperationError is the labeled failure every operation returns.
// For execution failures Message is exactly the tool's trimmed diagnostic text.
type OperationError struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *OperationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}

// Is matches the sentinel for the error's kind
func (e *OperationError) Is(target error) bool {
	sentinel, ok := kindSentinels[e.Kind]
	return ok && sentinel == target
}

// KindOf returns the kind of an OperationError in err's chain, or "" if none
func KindOf(err error) Kind {
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return opErr.Kind
	}
	return ""
}

// NewInvalidRequest reports a locally rejected request
func NewInvalidRequest(op, format string, args ...any) *OperationError {
	return &OperationError{Kind: KindInvalidRequest, Op: op, Message: fmt.Sprintf(format, args...)}
}

// NewSourceMissing reports a missing input file
func NewSourceMissing(op, path string) *OperationError {
	return &OperationError{
		Kind:    KindSourceMissing,
		Op:      op,
		Message: fmt.Sprintf("source file does not exist: %s", path),
	}
}

// NewSpawnError reports that tool could not be launched
func NewSpawnError(op, tool string, err error) *OperationError {
	return &OperationError{
		Kind:    KindSpawn,
		Op:      op,
		Message: fmt.Sprintf("failed to execute %s: %v", tool, err),
		Err:     err,
	}
}

// NewExecutionFailure reports a non-zero or abnormal exit carrying the tool's text
func NewExecutionFailure(op, message string) *OperationError {
	return &OperationError{Kind: KindExecution, Op: op, Message: message}
}

// NewWaitError reports that the OS failed to report the child's completion
func NewWaitError(op string, err error) *OperationError {
	return &OperationError{
		Kind:    KindWait,
		Op:      op,
		Message: fmt.Sprintf("failed to wait for command: %v", err),
		Err:     err,
	}
}

// NewParseError reports unusable probe output, keeping the parser detail in Err
func NewParseError(op string, err error) *OperationError {
	return &OperationError{Kind: KindParse, Op: op, Message: ErrParse.Error(), Err: err}
}
