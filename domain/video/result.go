package video

import "encoding/json"

// OperationResult is the success side of an operation.
// Failures are reported as *OperationError instead.
type OperationResult struct {
	Operation   string          `json:"operation"`
	OperationID string          `json:"operation_id,omitempty"`
	Message     string          `json:"message,omitempty"`
	OutputPath  string          `json:"output_path,omitempty"`
	Metadata    *MediaMetadata  `json:"metadata,omitempty"`
	Raw         json.RawMessage `json:"raw,omitempty"`
}
