package video

import (
	"fmt"
	"strings"
)

// ProbeMode selects how probe output is returned
type ProbeMode string

const (
	// ProbeNormalized reduces the probe JSON to a MediaMetadata record
	ProbeNormalized ProbeMode = "normalized"
	// ProbeRaw returns the probe JSON untouched
	ProbeRaw ProbeMode = "raw"
)

// ParseProbeMode parses a probe mode name; empty selects ProbeNormalized
func ParseProbeMode(s string) (ProbeMode, error) {
	switch ProbeMode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ProbeNormalized:
		return ProbeNormalized, nil
	case ProbeRaw:
		return ProbeRaw, nil
	default:
		return "", fmt.Errorf("unknown probe mode %q (want normalized or raw)", s)
	}
}

// ProbeRequest represents a request to read a media file's metadata
type ProbeRequest struct {
	InputPath string
	Mode      ProbeMode
}

// NewProbeRequest creates a new ProbeRequest
func NewProbeRequest(inputPath string, mode ProbeMode) (*ProbeRequest, error) {
	inputPath = strings.TrimSpace(inputPath)
	if inputPath == "" {
		return nil, NewInvalidRequest(OpProbe, "file path is required")
	}
	if mode == "" {
		mode = ProbeNormalized
	}
	if mode != ProbeNormalized && mode != ProbeRaw {
		return nil, NewInvalidRequest(OpProbe, "unknown probe mode %q", mode)
	}
	return &ProbeRequest{InputPath: inputPath, Mode: mode}, nil
}
