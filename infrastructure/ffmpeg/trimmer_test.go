package ffmpeg

import (
	"context"
	"errors"
	"os/exec"
	"strings"
	"testing"

	"clipdesk/domain/video"
)

func TestTrimArgs(t *testing.T) {
	req, err := video.NewTrimRequest("/in/movie.mp4", "/out/clip.mp4", 12.5, 30)
	if err != nil {
		t.Fatalf("NewTrimRequest() unexpected error: %v", err)
	}

	want := []string{"-i", "/in/movie.mp4", "-ss", "12.5", "-t", "30", "-c", "copy", "/out/clip.mp4"}
	if got := TrimArgs(req); strings.Join(got, " ") != strings.Join(want, " ") {
		t.Errorf("TrimArgs() = %q, want %q", got, want)
	}

	req.Overwrite = true
	if got := TrimArgs(req); got[0] != "-y" || len(got) != len(want)+1 {
		t.Errorf("TrimArgs() with overwrite = %q, want leading -y", got)
	}
}

func TestTrimmer_Trim(t *testing.T) {
	invoker := &fakeInvoker{proc: &fakeProcess{stdout: []byte("\n")}}
	trimmer := NewTrimmer(WithInvoker(invoker), WithFFmpegPath("/opt/ffmpeg"))

	req, _ := video.NewTrimRequest("in.mp4", "out.mp4", 1, 2)
	res, err := trimmer.Trim(context.Background(), req)
	if err != nil {
		t.Fatalf("Trim() unexpected error: %v", err)
	}

	call := invoker.lastCall()
	if call.Tool != "/opt/ffmpeg" {
		t.Errorf("Tool = %q, want /opt/ffmpeg", call.Tool)
	}
	if call.StreamStderr || call.StreamStdout {
		t.Error("trim should not stream progress")
	}
	if res.Message != "Video trimmed successfully" {
		t.Errorf("Message = %q", res.Message)
	}
	if res.OutputPath != "out.mp4" || res.Operation != video.OpTrim {
		t.Errorf("result = %+v", res)
	}
}

func TestTrimmer_TrimIncludesToolOutput(t *testing.T) {
	invoker := &fakeInvoker{proc: &fakeProcess{stdout: []byte("  muxed 2 streams \n")}}
	trimmer := NewTrimmer(WithInvoker(invoker))

	req, _ := video.NewTrimRequest("in.mp4", "out.mp4", 0, 5)
	res, err := trimmer.Trim(context.Background(), req)
	if err != nil {
		t.Fatalf("Trim() unexpected error: %v", err)
	}
	if res.Message != "Video trimmed successfully: muxed 2 streams" {
		t.Errorf("Message = %q", res.Message)
	}
}

func TestTrimmer_Failure(t *testing.T) {
	invoker := &fakeInvoker{proc: &fakeProcess{
		status: ExitStatus{Code: 1},
		stderr: []byte("in.mp4: Invalid data found when processing input\n"),
	}}
	trimmer := NewTrimmer(WithInvoker(invoker))

	req, _ := video.NewTrimRequest("in.mp4", "out.mp4", 0, 5)
	_, err := trimmer.Trim(context.Background(), req)
	if !errors.Is(err, video.ErrExecution) {
		t.Fatalf("Trim() error = %v, want execution failure", err)
	}
	if err.Error() != "in.mp4: Invalid data found when processing input" {
		t.Errorf("Trim() message = %q", err.Error())
	}
}

func TestTrimmer_SpawnError(t *testing.T) {
	invoker := &fakeInvoker{startErr: exec.ErrNotFound}
	trimmer := NewTrimmer(WithInvoker(invoker))

	req, _ := video.NewTrimRequest("in.mp4", "out.mp4", 0, 5)
	_, err := trimmer.Trim(context.Background(), req)
	if video.KindOf(err) != video.KindSpawn {
		t.Fatalf("Trim() kind = %q, want %q (err %v)", video.KindOf(err), video.KindSpawn, err)
	}
	if errors.Is(err, video.ErrExecution) {
		t.Error("spawn error must not look like a tool-reported failure")
	}
}

func TestTrimmer_VerifyInstalled(t *testing.T) {
	invoker := &fakeInvoker{proc: &fakeProcess{stdout: []byte("ffmpeg version 6.1")}}
	trimmer := NewTrimmer(WithInvoker(invoker))

	if err := trimmer.VerifyInstalled(context.Background()); err != nil {
		t.Fatalf("VerifyInstalled() unexpected error: %v", err)
	}
	if got := invoker.lastCall().Args; len(got) != 1 || got[0] != "-version" {
		t.Errorf("VerifyInstalled() args = %q", got)
	}

	missing := NewTrimmer(WithInvoker(&fakeInvoker{startErr: exec.ErrNotFound}))
	err := missing.VerifyInstalled(context.Background())
	if !errors.Is(err, video.ErrSpawn) {
		t.Errorf("VerifyInstalled() error = %v, want spawn error", err)
	}
}
