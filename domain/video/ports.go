package video

import "context"

// Trimmer defines the interface for video trimming operations
// This is a port that can be implemented by different infrastructure adapters
type Trimmer interface {
	// Trim cuts the requested range into req.OutputPath
	Trim(ctx context.Context, req *TrimRequest) (*OperationResult, error)
}

// AudioExtractor defines the interface for audio extraction operations
type AudioExtractor interface {
	// Extract copies the audio track into req.OutputPath, reporting progress to sink
	Extract(ctx context.Context, req *AudioExtractionRequest, sink ProgressSink) (*OperationResult, error)
}

// MetadataProber reads container and stream information from a media file
type MetadataProber interface {
	Probe(ctx context.Context, req *ProbeRequest) (*OperationResult, error)
}

// FileChecker defines the interface for checking file existence
type FileChecker interface {
	// Exists returns true if the file exists
	Exists(path string) bool
}
