package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	appvideo "clipdesk/application/video"
	"clipdesk/domain/video"
)

// mockMedia implements MediaOperations for testing
type mockMedia struct {
	trimErr    error
	extractErr error
	lines      []string
	lastTrim   appvideo.TrimInput
	lastProbe  appvideo.MetadataInput
}

func (m *mockMedia) Trim(ctx context.Context, in appvideo.TrimInput) (*video.OperationResult, error) {
	m.lastTrim = in
	if m.trimErr != nil {
		return nil, m.trimErr
	}
	return &video.OperationResult{
		Operation:   video.OpTrim,
		OperationID: "op-1",
		Message:     "Video trimmed successfully",
		OutputPath:  in.OutputPath,
	}, nil
}

func (m *mockMedia) ExtractAudio(ctx context.Context, in appvideo.ExtractInput, sink video.ProgressSink) (*video.OperationResult, error) {
	for _, line := range m.lines {
		sink.Emit(video.ProgressEvent{Name: "progress", Line: line})
	}
	if m.extractErr != nil {
		return nil, m.extractErr
	}
	return &video.OperationResult{Operation: video.OpExtractAudio, Message: "Audio extracted successfully"}, nil
}

func (m *mockMedia) Metadata(ctx context.Context, in appvideo.MetadataInput) (*video.OperationResult, error) {
	m.lastProbe = in
	md := video.DefaultMetadata()
	md.VideoCodec = "h264"
	return &video.OperationResult{Operation: video.OpProbe, Metadata: &md}, nil
}

func post(t *testing.T, s *Server, path, body string) (int, string) {
	t.Helper()
	req := httptest.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := s.App().Test(req, -1)
	if err != nil {
		t.Fatalf("request %s failed: %v", path, err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp.StatusCode, string(data)
}

func TestServer_Trim(t *testing.T) {
	media := &mockMedia{}
	s := NewServer(media)

	status, body := post(t, s, "/api/trim", `{"input":"in.mp4","output":"out.mp4","start":12.5,"duration":30}`)
	if status != 200 {
		t.Fatalf("status = %d, body %s", status, body)
	}
	if media.lastTrim.Start != 12.5 || media.lastTrim.Duration != 30 || media.lastTrim.InputPath != "in.mp4" {
		t.Errorf("parsed input = %+v", media.lastTrim)
	}

	var resp map[string]any
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		t.Fatalf("invalid JSON response: %v", err)
	}
	if resp["ok"] != true || resp["message"] != "Video trimmed successfully" || resp["operation_id"] != "op-1" {
		t.Errorf("response = %v", resp)
	}
}

func TestServer_ErrorStatuses(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantKind   string
	}{
		{"invalid request", video.NewInvalidRequest(video.OpTrim, "duration 0 must be greater than zero"), 400, "invalid_request"},
		{"missing source", video.NewSourceMissing(video.OpTrim, "in.mp4"), 404, "source_missing"},
		{"spawn", video.NewSpawnError(video.OpTrim, "ffmpeg", errors.New("not found")), 503, "spawn_error"},
		{"execution", video.NewExecutionFailure(video.OpTrim, "Invalid data found when processing input"), 422, "execution_failure"},
		{"wait", video.NewWaitError(video.OpTrim, errors.New("interrupted")), 500, "wait_error"},
		{"untyped", errors.New("boom"), 500, "internal_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewServer(&mockMedia{trimErr: tt.err})
			status, body := post(t, s, "/api/trim", `{"input":"in.mp4","output":"out.mp4","start":0,"duration":1}`)
			if status != tt.wantStatus {
				t.Errorf("status = %d, want %d", status, tt.wantStatus)
			}

			var resp ErrorResponse
			if err := json.Unmarshal([]byte(body), &resp); err != nil {
				t.Fatalf("invalid JSON response %q: %v", body, err)
			}
			if resp.OK || resp.Error != tt.wantKind || resp.Message != tt.err.Error() {
				t.Errorf("response = %+v", resp)
			}
		})
	}
}

func TestServer_BadBody(t *testing.T) {
	s := NewServer(&mockMedia{})
	status, _ := post(t, s, "/api/trim", `{"input": `)
	if status != 400 {
		t.Errorf("status = %d, want 400", status)
	}
}

func TestServer_ExtractAudioStreamsEvents(t *testing.T) {
	s := NewServer(&mockMedia{lines: []string{"time=00:00:01.00", "time=00:00:02.00"}})

	status, body := post(t, s, "/api/extract-audio", `{"input":"in.mp4","output":"out.aac"}`)
	if status != 200 {
		t.Fatalf("status = %d, body %s", status, body)
	}

	first := strings.Index(body, `"line":"time=00:00:01.00"`)
	second := strings.Index(body, `"line":"time=00:00:02.00"`)
	result := strings.Index(body, "event: result")
	if first < 0 || second < 0 || result < 0 {
		t.Fatalf("stream missing events:\n%s", body)
	}
	if !(first < second && second < result) {
		t.Errorf("events out of order:\n%s", body)
	}
	if strings.Count(body, "event: progress") != 2 {
		t.Errorf("want 2 progress events:\n%s", body)
	}
	if !strings.Contains(body[result:], `"message":"Audio extracted successfully"`) {
		t.Errorf("result event missing message:\n%s", body[result:])
	}
}

// lineExtractor replays progress lines through the sink it is given
type lineExtractor struct {
	lines []string
}

func (e *lineExtractor) Extract(ctx context.Context, req *video.AudioExtractionRequest, sink video.ProgressSink) (*video.OperationResult, error) {
	for _, line := range e.lines {
		sink.Emit(video.ProgressEvent{Line: line})
	}
	return &video.OperationResult{Operation: video.OpExtractAudio, Message: "Audio extracted successfully"}, nil
}

func TestServer_ExtractAudioUsesConfiguredEventName(t *testing.T) {
	media := appvideo.NewMediaService(nil, &lineExtractor{lines: []string{"time=00:00:01.00", "time=00:00:02.00"}}, nil, nil,
		appvideo.WithPolicy(appvideo.Policy{}),
		appvideo.WithEventName("trim-progress"),
	)
	s := NewServer(media)

	_, body := post(t, s, "/api/extract-audio", `{"input":"in.mp4","output":"out.aac"}`)

	if !strings.HasPrefix(body, "event: trim-progress\n") {
		t.Errorf("first frame should be a trim-progress event:\n%s", body)
	}
	if got := strings.Count(body, "event: trim-progress\n"); got != 2 {
		t.Errorf("trim-progress events = %d, want 2:\n%s", got, body)
	}
	if strings.Contains(body, "event: progress\n") {
		t.Errorf("default event name used despite configuration:\n%s", body)
	}
	if !strings.Contains(body, "event: result\n") {
		t.Errorf("no result event:\n%s", body)
	}
}

func TestProgressEventName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"trim-progress", "trim-progress"},
		{"", EventProgress},
		{"bad\nname", EventProgress},
	}

	for _, tt := range tests {
		if got := progressEventName(video.ProgressEvent{Name: tt.name}); got != tt.want {
			t.Errorf("progressEventName(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestServer_ExtractAudioFailureIsResultEvent(t *testing.T) {
	s := NewServer(&mockMedia{extractErr: video.NewExecutionFailure(video.OpExtractAudio, "Output file does not contain any stream")})

	_, body := post(t, s, "/api/extract-audio", `{"input":"in.mp4","output":"out.aac"}`)
	if !strings.Contains(body, "event: result") {
		t.Fatalf("no result event:\n%s", body)
	}
	if !strings.Contains(body, `"error":"execution_failure"`) || !strings.Contains(body, "Output file does not contain any stream") {
		t.Errorf("result event = %s", body)
	}
}

func TestServer_Metadata(t *testing.T) {
	media := &mockMedia{}
	s := NewServer(media)

	status, body := post(t, s, "/api/metadata", `{"file_path":"movie.mkv","mode":"normalized"}`)
	if status != 200 {
		t.Fatalf("status = %d, body %s", status, body)
	}
	if media.lastProbe.FilePath != "movie.mkv" {
		t.Errorf("FilePath = %q", media.lastProbe.FilePath)
	}
	if !strings.Contains(body, `"video_codec":"h264"`) || !strings.Contains(body, `"audio_codec":"Unknown"`) {
		t.Errorf("body = %s", body)
	}
}

func TestServer_Health(t *testing.T) {
	ok := func(ctx context.Context) error { return nil }
	missing := func(ctx context.Context) error { return errors.New("failed to execute ffprobe") }

	healthy := NewServer(&mockMedia{}, WithCheck("ffmpeg", ok), WithCheck("ffprobe", ok))
	resp, err := healthy.App().Test(httptest.NewRequest("GET", "/api/health", nil), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}

	degraded := NewServer(&mockMedia{}, WithCheck("ffmpeg", ok), WithCheck("ffprobe", missing))
	resp, err = degraded.App().Test(httptest.NewRequest("GET", "/api/health", nil), -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	var body HealthResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if resp.StatusCode != 503 || body.Status != "degraded" || body.Tools["ffprobe"] != "failed to execute ffprobe" {
		t.Errorf("status %d body %+v", resp.StatusCode, body)
	}
}

func TestServer_Exit(t *testing.T) {
	s := NewServer(&mockMedia{})

	select {
	case <-s.ExitRequested():
		t.Fatal("exit requested before the endpoint was called")
	default:
	}

	status, _ := post(t, s, "/api/exit", "")
	if status != 202 {
		t.Errorf("status = %d, want 202", status)
	}
	// a second call must not panic on the closed channel
	post(t, s, "/api/exit", "")

	select {
	case <-s.ExitRequested():
	default:
		t.Error("exit was not requested")
	}
}

func TestStatusFor(t *testing.T) {
	if got := StatusFor(video.KindParse); got != 422 {
		t.Errorf("StatusFor(parse) = %d, want 422", got)
	}
	if got := StatusFor(""); got != 500 {
		t.Errorf("StatusFor(\"\") = %d, want 500", got)
	}
}
