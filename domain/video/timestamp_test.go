package video

import (
	"math"
	"testing"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Timestamp
		wantErr bool
		errMsg  string
	}{
		{
			name:  "valid timestamp",
			input: "01:30:45",
			want:  Timestamp{Hours: 1, Minutes: 30, Seconds: 45},
		},
		{
			name:  "all zeros",
			input: "00:00:00",
			want:  Timestamp{},
		},
		{
			name:  "fractional seconds as printed by ffmpeg",
			input: "00:00:01.50",
			want:  Timestamp{Seconds: 1.5},
		},
		{
			name:  "microsecond progress value",
			input: "00:02:03.250000",
			want:  Timestamp{Minutes: 2, Seconds: 3.25},
		},
		{
			name:  "large hours value",
			input: "123:00:00",
			want:  Timestamp{Hours: 123},
		},
		{
			name:    "missing leading zero in hours",
			input:   "1:30:45",
			wantErr: true,
			errMsg:  "invalid timestamp format",
		},
		{
			name:    "wrong separator - dash",
			input:   "01-30-45",
			wantErr: true,
			errMsg:  "invalid timestamp format",
		},
		{
			name:    "too few parts",
			input:   "01:30",
			wantErr: true,
			errMsg:  "invalid timestamp format",
		},
		{
			name:    "empty string",
			input:   "",
			wantErr: true,
			errMsg:  "invalid timestamp format",
		},
		{
			name:    "negative progress time",
			input:   "-577014:32:22.77",
			wantErr: true,
			errMsg:  "invalid timestamp format",
		},
		{
			name:    "minutes too high",
			input:   "01:60:00",
			wantErr: true,
			errMsg:  "minutes must be 0-59",
		},
		{
			name:    "seconds too high",
			input:   "01:30:60",
			wantErr: true,
			errMsg:  "seconds must be 0-59",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.input)

			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseTimestamp(%q) expected error, got nil", tt.input)
					return
				}
				if tt.errMsg != "" && !contains(err.Error(), tt.errMsg) {
					t.Errorf("ParseTimestamp(%q) error = %v, want error containing %q", tt.input, err, tt.errMsg)
				}
				return
			}

			if err != nil {
				t.Errorf("ParseTimestamp(%q) unexpected error: %v", tt.input, err)
				return
			}

			if got != tt.want {
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseOffset(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr bool
	}{
		{input: "12.5", want: 12.5},
		{input: "0", want: 0},
		{input: " 90 ", want: 90},
		{input: "00:01:30", want: 90},
		{input: "01:00:00.5", want: 3600.5},
		{input: "", wantErr: true},
		{input: "abc", wantErr: true},
		{input: "NaN", wantErr: true},
		{input: "1:2", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseOffset(tt.input)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseOffset(%q) expected error, got %v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseOffset(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseOffset(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestFormatSeconds(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{12.5, "12.5"},
		{3, "3"},
		{0, "0"},
		{0.25, "0.25"},
		{5445.125, "5445.125"},
		{math.Copysign(0, -1), "0"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := FormatSeconds(tt.in); got != tt.want {
				t.Errorf("FormatSeconds(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTimestamp_String(t *testing.T) {
	tests := []struct {
		timestamp Timestamp
		want      string
	}{
		{Timestamp{0, 0, 0}, "00:00:00.00"},
		{Timestamp{1, 2, 3}, "01:02:03.00"},
		{Timestamp{12, 34, 56.5}, "12:34:56.50"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.timestamp.String(); got != tt.want {
				t.Errorf("Timestamp.String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFromSeconds(t *testing.T) {
	got := FromSeconds(3725.5)
	want := Timestamp{Hours: 1, Minutes: 2, Seconds: 5.5}
	if got != want {
		t.Errorf("FromSeconds(3725.5) = %v, want %v", got, want)
	}
	if got.TotalSeconds() != 3725.5 {
		t.Errorf("TotalSeconds() = %v, want 3725.5", got.TotalSeconds())
	}
	if !FromSeconds(-3).IsZero() {
		t.Error("expected negative seconds to clamp to zero")
	}
}

func TestTimestamp_BeforeAfter(t *testing.T) {
	earlier := Timestamp{Minutes: 30}
	later := Timestamp{Hours: 1}

	if !earlier.Before(later) {
		t.Error("expected earlier to be before later")
	}
	if earlier.Before(earlier) {
		t.Error("expected timestamp to not be before itself")
	}
	if !later.After(earlier) {
		t.Error("expected later to be after earlier")
	}
	if later.After(later) {
		t.Error("expected timestamp to not be after itself")
	}
}

func contains(s, substr string) bool {
	for i := 0; i <= len(s)-len(substr); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
