package ffmpeg

import (
	"io"
	"strings"
	"testing"
	"time"

	"clipdesk/domain/video"
)

func TestScanProgress_EmitsTimeLinesInOrder(t *testing.T) {
	input := "frame=10\ntime=00:00:01.00\nframe=11\ntime=00:00:02.00\n"

	var got []string
	err := ScanProgress(strings.NewReader(input), StderrMarker, func(line string) {
		got = append(got, line)
	})
	if err != nil {
		t.Fatalf("ScanProgress() unexpected error: %v", err)
	}

	want := []string{"time=00:00:01.00", "time=00:00:02.00"}
	if len(got) != len(want) {
		t.Fatalf("ScanProgress() emitted %d events %q, want %d", len(got), got, len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestScanProgress_LineTerminators(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{
			name:  "carriage returns between stats updates",
			input: "frame=1 time=00:00:00.50 speed=1x\rframe=2 time=00:00:01.00 speed=1x\r",
			want:  []string{"frame=1 time=00:00:00.50 speed=1x", "frame=2 time=00:00:01.00 speed=1x"},
		},
		{
			name:  "crlf",
			input: "time=00:00:01.00\r\nnoise\r\ntime=00:00:02.00\r\n",
			want:  []string{"time=00:00:01.00", "time=00:00:02.00"},
		},
		{
			name:  "final line without terminator",
			input: "noise\ntime=00:00:03.00",
			want:  []string{"time=00:00:03.00"},
		},
		{
			name:  "no markers",
			input: "Input #0, mov,mp4\n  Duration: 00:01:00.00\n",
			want:  nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			if err := ScanProgress(strings.NewReader(tt.input), StderrMarker, func(line string) {
				got = append(got, line)
			}); err != nil {
				t.Fatalf("ScanProgress() unexpected error: %v", err)
			}
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("ScanProgress() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestScanProgress_PipeMarker(t *testing.T) {
	input := "frame=25\nout_time_us=1000000\nout_time_ms=1000000\nout_time=00:00:01.000000\nprogress=continue\n"

	var got []string
	if err := ScanProgress(strings.NewReader(input), Marker(video.ProgressPipe), func(line string) {
		got = append(got, line)
	}); err != nil {
		t.Fatalf("ScanProgress() unexpected error: %v", err)
	}
	if len(got) != 1 || got[0] != "out_time=00:00:01.000000" {
		t.Errorf("ScanProgress() = %q, want only the out_time line", got)
	}
}

func TestScanProgress_EmitsBeforeStreamCloses(t *testing.T) {
	pr, pw := io.Pipe()
	events := make(chan string, 4)
	done := make(chan error, 1)

	go func() {
		done <- ScanProgress(pr, StderrMarker, func(line string) { events <- line })
	}()

	io.WriteString(pw, "frame=10\ntime=00:00:01.00\nframe=11\ntime=00:00:02.00\n")

	for i := 0; i < 2; i++ {
		select {
		case <-events:
		case <-time.After(2 * time.Second):
			t.Fatalf("event %d not delivered while stream still open", i+1)
		}
	}

	// more non-matching output does not produce events
	io.WriteString(pw, "frame=12\nframe=13\n")
	pw.Close()

	if err := <-done; err != nil {
		t.Fatalf("ScanProgress() unexpected error: %v", err)
	}
	if len(events) != 0 {
		t.Errorf("unexpected extra events: %d", len(events))
	}
}

func TestScanProgress_OversizedLineStillDrains(t *testing.T) {
	input := strings.Repeat("x", maxProgressLine+10) + "\ntime=00:00:01.00\n"
	r := strings.NewReader(input)

	err := ScanProgress(r, StderrMarker, func(string) {})
	if err == nil {
		t.Fatal("ScanProgress() expected a too-long error")
	}
	if r.Len() != 0 {
		t.Errorf("reader not drained, %d bytes left", r.Len())
	}
}

func TestParseProgressTime(t *testing.T) {
	tests := []struct {
		line   string
		marker string
		want   float64
		wantOK bool
	}{
		{"frame=  10 fps=0.0 q=-1.0 size=  256kB time=00:00:01.50 bitrate=1398.1kbits/s", StderrMarker, 1.5, true},
		{"time=01:00:00.00", StderrMarker, 3600, true},
		{"size=N/A time=N/A bitrate=N/A", StderrMarker, 0, false},
		{"time=-577014:32:22.77", StderrMarker, 0, false},
		{"out_time=00:00:02.500000", PipeMarker, 2.5, true},
		{"frame=10", StderrMarker, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, ok := ParseProgressTime(tt.line, tt.marker)
			if ok != tt.wantOK || got != tt.want {
				t.Errorf("ParseProgressTime(%q) = %v, %v; want %v, %v", tt.line, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}
