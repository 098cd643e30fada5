package video

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"unicode/utf8"
)

// UnknownValue is the sentinel reported for string fields the probe did not supply
const UnknownValue = "Unknown"

// MediaMetadata is the reduced, stable metadata shape handed to the UI.
// Each field falls back to its own default; fields are never jointly validated.
type MediaMetadata struct {
	VideoCodec         string `json:"video_codec"`
	AudioCodec         string `json:"audio_codec"`
	TotalDuration      string `json:"total_duration"`
	VideoHeight        int64  `json:"video_height"`
	VideoWidth         int64  `json:"video_width"`
	VideoBitrate       int64  `json:"video_bitrate"`
	AspectRatio        string `json:"aspect_ratio"`
	FrameRate          string `json:"frame_rate"`
	AudioBitrate       string `json:"audio_bitrate"`
	TotalAudioChannels int64  `json:"total_audio_channels"`
}

// DefaultMetadata returns a record with every field at its sentinel
func DefaultMetadata() MediaMetadata {
	return MediaMetadata{
		VideoCodec:    UnknownValue,
		AudioCodec:    UnknownValue,
		TotalDuration: UnknownValue,
		AspectRatio:   UnknownValue,
		FrameRate:     UnknownValue,
		AudioBitrate:  UnknownValue,
	}
}

// Normalize parses probe JSON (streams + format) into a MediaMetadata record.
//
// When several streams share a type the last one wins, independently for
// video and audio. Absent or wrongly typed values take the field default;
// only undecodable bytes or malformed JSON produce an error.
func Normalize(raw []byte) (*MediaMetadata, error) {
	if !utf8.Valid(raw) {
		return nil, NewParseError(OpProbe, ErrDecode)
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()

	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, NewParseError(OpProbe, fmt.Errorf("decode probe json: %w", err))
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, NewParseError(OpProbe, fmt.Errorf("decode probe json: trailing data after value"))
	}

	md := DefaultMetadata()

	// a top-level array or scalar has no fields, so every value stays at its default
	obj, _ := doc.(map[string]any)

	streams, _ := obj["streams"].([]any)
	for _, entry := range streams {
		stream, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		switch stringField(stream, "codec_type", "") {
		case "video":
			md.VideoCodec = stringField(stream, "codec_name", UnknownValue)
			md.VideoHeight = intField(stream, "coded_height")
			md.VideoWidth = intField(stream, "coded_width")
			md.VideoBitrate = intField(stream, "bit_rate")
			md.AspectRatio = stringField(stream, "display_aspect_ratio", UnknownValue)
			md.FrameRate = stringField(stream, "avg_frame_rate", UnknownValue)
		case "audio":
			md.AudioCodec = stringField(stream, "codec_name", UnknownValue)
			md.AudioBitrate = stringField(stream, "bit_rate", UnknownValue)
			md.TotalAudioChannels = intField(stream, "channels")
		}
	}

	if format, ok := obj["format"].(map[string]any); ok {
		md.TotalDuration = stringField(format, "duration", UnknownValue)
	}

	return &md, nil
}

func stringField(obj map[string]any, key, def string) string {
	if s, ok := obj[key].(string); ok {
		return s
	}
	return def
}

// intField reads an integral JSON number. Strings and fractional numbers
// count as the wrong type and yield zero.
func intField(obj map[string]any, key string) int64 {
	n, ok := obj[key].(json.Number)
	if !ok {
		return 0
	}
	v, err := n.Int64()
	if err != nil {
		return 0
	}
	return v
}
