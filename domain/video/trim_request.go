package video

import (
	"math"
	"path/filepath"
	"strings"
)

// TrimRequest represents a request to cut a clip out of a video with codec copy
type TrimRequest struct {
	InputPath  string
	OutputPath string
	Start      float64 // seconds from the beginning of the input
	Duration   float64 // seconds of output
	Overwrite  bool    // pass -y so an existing output is replaced
}

// NewTrimRequest creates a new TrimRequest. Only the paths are required here;
// range checks live in Validate so callers can opt out of them.
func NewTrimRequest(inputPath, outputPath string, start, duration float64) (*TrimRequest, error) {
	inputPath = strings.TrimSpace(inputPath)
	outputPath = strings.TrimSpace(outputPath)

	if inputPath == "" {
		return nil, NewInvalidRequest(OpTrim, "input path is required")
	}
	if outputPath == "" {
		return nil, NewInvalidRequest(OpTrim, "output path is required")
	}
	if math.IsNaN(start) || math.IsNaN(duration) || math.IsInf(start, 0) || math.IsInf(duration, 0) {
		return nil, NewInvalidRequest(OpTrim, "start and duration must be finite numbers")
	}

	// -0 compares equal to 0 but keeps its sign bit
	if start == 0 {
		start = 0
	}
	if duration == 0 {
		duration = 0
	}

	return &TrimRequest{
		InputPath:  inputPath,
		OutputPath: outputPath,
		Start:      start,
		Duration:   duration,
	}, nil
}

// Validate checks that the trim request is within range
func (r *TrimRequest) Validate() error {
	if r.Start < 0 {
		return NewInvalidRequest(OpTrim, "start %s must not be negative", FormatSeconds(r.Start))
	}
	if r.Duration <= 0 {
		return NewInvalidRequest(OpTrim, "duration %s must be greater than zero", FormatSeconds(r.Duration))
	}
	if samePath(r.InputPath, r.OutputPath) {
		return NewInvalidRequest(OpTrim, "output path must differ from input path %q", r.InputPath)
	}
	return nil
}

// StartArg returns the literal seek value passed to the tool
func (r *TrimRequest) StartArg() string {
	return FormatSeconds(r.Start)
}

// DurationArg returns the literal limit value passed to the tool
func (r *TrimRequest) DurationArg() string {
	return FormatSeconds(r.Duration)
}

// End returns the position in the input where the clip stops
func (r *TrimRequest) End() Timestamp {
	return FromSeconds(r.Start + r.Duration)
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
