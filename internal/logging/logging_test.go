package logging

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		name      string
		verbose   bool
		wantDebug bool
	}{
		{"default hides debug", false, false},
		{"verbose shows debug", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(&buf, tt.verbose)

			logger.Debug().Msg("debug line")
			logger.Warn().Int("row", 3).Msg("skipped row")

			out := buf.String()
			if got := strings.Contains(out, "debug line"); got != tt.wantDebug {
				t.Errorf("Expected debug output %v, got %v:\n%s", tt.wantDebug, got, out)
			}
			if !strings.Contains(out, "skipped row") || !strings.Contains(out, "row=3") {
				t.Errorf("Expected warn line with row field, got:\n%s", out)
			}
		})
	}
}

func TestNewJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := NewJSON(&buf, false)

	logger.Info().Str("format", "tex").Msg("rendered")

	var event map[string]any
	if err := json.Unmarshal(buf.Bytes(), &event); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, buf.String())
	}
	if event["format"] != "tex" || event["message"] != "rendered" || event["level"] != "info" {
		t.Errorf("unexpected event: %v", event)
	}
}

func TestNop(t *testing.T) {
	logger := Nop()
	logger.Error().Msg("dropped")
}
