package video

import (
	"strings"
)

// AudioExtractionRequest represents a request to copy the audio track out of a video
type AudioExtractionRequest struct {
	InputPath    string
	OutputPath   string
	ProgressMode ProgressMode
	Overwrite    bool
}

// NewAudioExtractionRequest creates a new AudioExtractionRequest.
// An empty mode selects ProgressStderr.
func NewAudioExtractionRequest(inputPath, outputPath string, mode ProgressMode) (*AudioExtractionRequest, error) {
	inputPath = strings.TrimSpace(inputPath)
	outputPath = strings.TrimSpace(outputPath)

	if inputPath == "" {
		return nil, NewInvalidRequest(OpExtractAudio, "input path is required")
	}
	if outputPath == "" {
		return nil, NewInvalidRequest(OpExtractAudio, "output path is required")
	}

	if mode == "" {
		mode = ProgressStderr
	}
	if !mode.Valid() {
		return nil, NewInvalidRequest(OpExtractAudio, "unknown progress mode %q", mode)
	}

	return &AudioExtractionRequest{
		InputPath:    inputPath,
		OutputPath:   outputPath,
		ProgressMode: mode,
	}, nil
}

// Validate checks that input and output do not collide
func (r *AudioExtractionRequest) Validate() error {
	if samePath(r.InputPath, r.OutputPath) {
		return NewInvalidRequest(OpExtractAudio, "output path must differ from input path %q", r.InputPath)
	}
	return nil
}
