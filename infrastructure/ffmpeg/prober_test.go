package ffmpeg

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"

	"clipdesk/domain/video"
)

const sampleProbe = `{
	"streams": [
		{"index": 0, "codec_type": "video", "codec_name": "h264", "coded_height": 720, "coded_width": 1280},
		{"index": 1, "codec_type": "audio", "codec_name": "aac", "channels": 2, "bit_rate": "128000"}
	],
	"format": {"duration": "60.000000"}
}`

func TestProbeArgs(t *testing.T) {
	want := "-v quiet -print_format json -show_format -show_streams movie.mkv"
	if got := strings.Join(ProbeArgs("movie.mkv"), " "); got != want {
		t.Errorf("ProbeArgs() = %q, want %q", got, want)
	}
}

func TestProber_Normalized(t *testing.T) {
	invoker := &fakeInvoker{proc: &fakeProcess{stdout: []byte(sampleProbe)}}
	prober := NewProber(WithProberInvoker(invoker), WithFFprobePath("ffprobe7"))

	req, _ := video.NewProbeRequest("movie.mkv", video.ProbeNormalized)
	res, err := prober.Probe(context.Background(), req)
	if err != nil {
		t.Fatalf("Probe() unexpected error: %v", err)
	}

	if invoker.lastCall().Tool != "ffprobe7" {
		t.Errorf("Tool = %q", invoker.lastCall().Tool)
	}
	md := res.Metadata
	if md == nil {
		t.Fatal("Probe() returned no metadata")
	}
	if md.VideoCodec != "h264" || md.VideoHeight != 720 || md.VideoWidth != 1280 {
		t.Errorf("video fields = %+v", md)
	}
	if md.AudioCodec != "aac" || md.TotalAudioChannels != 2 || md.AudioBitrate != "128000" {
		t.Errorf("audio fields = %+v", md)
	}
	if md.TotalDuration != "60.000000" {
		t.Errorf("TotalDuration = %q", md.TotalDuration)
	}
	if res.Raw != nil {
		t.Error("normalized mode should not return raw JSON")
	}
}

func TestProber_Raw(t *testing.T) {
	invoker := &fakeInvoker{proc: &fakeProcess{stdout: []byte(sampleProbe)}}
	prober := NewProber(WithProberInvoker(invoker))

	req, _ := video.NewProbeRequest("movie.mkv", video.ProbeRaw)
	res, err := prober.Probe(context.Background(), req)
	if err != nil {
		t.Fatalf("Probe() unexpected error: %v", err)
	}
	if string(res.Raw) != sampleProbe {
		t.Errorf("Raw = %s", res.Raw)
	}
	if res.Metadata != nil {
		t.Error("raw mode should not normalize")
	}
}

func TestProber_Errors(t *testing.T) {
	tests := []struct {
		name     string
		invoker  *fakeInvoker
		mode     video.ProbeMode
		wantKind video.Kind
		wantMsg  string
	}{
		{
			name:     "missing ffprobe",
			invoker:  &fakeInvoker{startErr: exec.ErrNotFound},
			wantKind: video.KindSpawn,
		},
		{
			name:     "ffprobe fails quietly",
			invoker:  &fakeInvoker{proc: &fakeProcess{status: ExitStatus{Code: 1}}},
			wantKind: video.KindExecution,
			wantMsg:  "failed to get metadata",
		},
		{
			name:     "malformed json",
			invoker:  &fakeInvoker{proc: &fakeProcess{stdout: []byte(`{"streams": [`)}},
			wantKind: video.KindParse,
			wantMsg:  "failed to get metadata",
		},
		{
			name:     "invalid utf-8",
			invoker:  &fakeInvoker{proc: &fakeProcess{stdout: []byte("{\"format\": {\"duration\": \"\xff\"}}")}},
			wantKind: video.KindParse,
		},
		{
			name:     "raw mode rejects malformed json",
			invoker:  &fakeInvoker{proc: &fakeProcess{stdout: []byte(`not json`)}},
			mode:     video.ProbeRaw,
			wantKind: video.KindParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			prober := NewProber(WithProberInvoker(tt.invoker))
			req, _ := video.NewProbeRequest("movie.mkv", tt.mode)

			_, err := prober.Probe(context.Background(), req)
			if err == nil {
				t.Fatal("Probe() expected error, got nil")
			}
			if got := video.KindOf(err); got != tt.wantKind {
				t.Errorf("Probe() kind = %q, want %q (err %v)", got, tt.wantKind, err)
			}
			if tt.wantMsg != "" && err.Error() != tt.wantMsg {
				t.Errorf("Probe() message = %q, want %q", err.Error(), tt.wantMsg)
			}
		})
	}
}

func TestProber_InvalidUTF8IsDecodeError(t *testing.T) {
	invoker := &fakeInvoker{proc: &fakeProcess{stdout: []byte{'{', '}', 0xff}}}
	prober := NewProber(WithProberInvoker(invoker))

	req, _ := video.NewProbeRequest("movie.mkv", "")
	_, err := prober.Probe(context.Background(), req)
	if !errors.Is(err, video.ErrDecode) {
		t.Errorf("Probe() error = %v, want ErrDecode in chain", err)
	}
}
