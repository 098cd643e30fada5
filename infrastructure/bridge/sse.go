package bridge

import (
	"bufio"
	"encoding/json"
	"fmt"
	"strings"

	"clipdesk/domain/video"

	"go.uber.org/zap"
)

// Event names on the extract-audio stream. Progress frames use the
// configured event name when one is set.
const (
	EventProgress = "progress"
	EventResult   = "result"
)

// chanSink forwards progress events to the stream writer in order
type chanSink chan<- video.ProgressEvent

func (s chanSink) Emit(ev video.ProgressEvent) error {
	s <- ev
	return nil
}

type streamResult struct {
	res *video.OperationResult
	err error
}

// streamOperation runs op and writes each progress event as it arrives,
// followed by one result event. A client that goes away stops the writes
// but not the operation.
func streamOperation(op func(video.ProgressSink) (*video.OperationResult, error), logger *zap.Logger) func(w *bufio.Writer) {
	return func(w *bufio.Writer) {
		events := make(chan video.ProgressEvent)
		done := make(chan streamResult, 1)

		go func() {
			res, err := op(chanSink(events))
			close(events)
			done <- streamResult{res: res, err: err}
		}()

		connected := true
		for ev := range events {
			if !connected {
				continue
			}
			if err := writeEvent(w, progressEventName(ev), ev); err != nil {
				logger.Debug("progress client went away", zap.Error(err))
				connected = false
			}
		}

		r := <-done
		if !connected {
			return
		}
		var payload any
		if r.err != nil {
			payload = errorBody(r.err)
		} else {
			payload = ResultResponse{OK: true, OperationResult: r.res}
		}
		if err := writeEvent(w, EventResult, payload); err != nil {
			logger.Debug("result not delivered", zap.Error(err))
		}
	}
}

// progressEventName is the SSE event a progress frame is sent under: the
// name stamped on the event, or EventProgress when it is empty or would
// break the frame.
func progressEventName(ev video.ProgressEvent) string {
	if ev.Name == "" || strings.ContainsAny(ev.Name, "\r\n") {
		return EventProgress
	}
	return ev.Name
}

func writeEvent(w *bufio.Writer, name string, payload any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "event: %s\ndata: %s\n\n", name, data); err != nil {
		return err
	}
	return w.Flush()
}
