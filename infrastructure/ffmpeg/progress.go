package ffmpeg

import (
	"bufio"
	"bytes"
	"io"
	"strings"

	"clipdesk/domain/video"
)

const (
	// StderrMarker marks a stats line on ffmpeg's diagnostic stream
	StderrMarker = "time="
	// PipeMarker marks the position key in -progress key=value output
	PipeMarker = "out_time="

	maxProgressLine = 1024 * 1024
)

// Marker returns the progress marker scanned for in mode
func Marker(mode video.ProgressMode) string {
	if mode == video.ProgressPipe {
		return PipeMarker
	}
	return StderrMarker
}

// ScanProgress reads r line by line until EOF and calls emit, in input
// order, for every line containing marker. Other lines are dropped.
//
// ffmpeg separates stats updates with '\r', so CR, LF and CRLF all end a
// line. If a line exceeds the scanner limit the rest of r is still drained
// so the child never blocks on a full pipe.
func ScanProgress(r io.Reader, marker string, emit func(line string)) error {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxProgressLine)
	scanner.Split(scanAnyLines)

	for scanner.Scan() {
		line := scanner.Text()
		if strings.Contains(line, marker) {
			emit(line)
		}
	}

	if err := scanner.Err(); err != nil {
		_, _ = io.Copy(io.Discard, r)
		return err
	}
	return nil
}

// ParseProgressTime extracts the time value following marker, e.g.
// "frame=10 time=00:00:01.00 bitrate=..." -> 1.0. ok is false when the
// value is missing or not a valid timestamp (ffmpeg prints N/A or negative
// times before the first packet).
func ParseProgressTime(line, marker string) (seconds float64, ok bool) {
	idx := strings.Index(line, marker)
	if idx < 0 {
		return 0, false
	}
	value := line[idx+len(marker):]
	value = strings.TrimLeft(value, " ")
	if end := strings.IndexAny(value, " \t"); end >= 0 {
		value = value[:end]
	}
	ts, err := video.ParseTimestamp(value)
	if err != nil {
		return 0, false
	}
	return ts.TotalSeconds(), true
}

// scanAnyLines is bufio.ScanLines extended to treat a lone '\r' as a line end
func scanAnyLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		if data[i] == '\n' {
			return i + 1, data[:i], nil
		}
		// '\r': swallow a following '\n' as part of the same terminator
		if i+1 < len(data) {
			if data[i+1] == '\n' {
				return i + 2, data[:i], nil
			}
			return i + 1, data[:i], nil
		}
		if atEOF {
			return i + 1, data[:i], nil
		}
		// need one more byte to tell CR from CRLF
		return 0, nil, nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
