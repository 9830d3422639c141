package demo

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"
)

func TestGenerateASCIICast(t *testing.T) {
	frames := []Frame{
		{Content: "one\ntwo", Delay: 500 * time.Millisecond},
		{Content: "three", Delay: time.Second, Annotation: "note"},
	}

	var buf bytes.Buffer
	if err := GenerateASCIICast(&buf, frames, 80, 24); err != nil {
		t.Fatalf("GenerateASCIICast: %v", err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("lines = %d, want header + 3 events:\n%s", len(lines), buf.String())
	}

	var header castHeader
	if err := json.Unmarshal([]byte(lines[0]), &header); err != nil {
		t.Fatalf("header: %v", err)
	}
	if header.Version != 2 || header.Width != 80 || header.Height != 24 {
		t.Errorf("header = %+v", header)
	}

	tests := []struct {
		line     string
		wantAt   float64
		wantKind string
		wantData string
	}{
		{lines[1], 0.5, "o", clearScreen + "one\r\ntwo"},
		{lines[2], 1.5, "m", "note"},
		{lines[3], 1.5, "o", clearScreen + "three"},
	}
	for i, tt := range tests {
		var event []any
		if err := json.Unmarshal([]byte(tt.line), &event); err != nil {
			t.Fatalf("event %d: %v", i, err)
		}
		if event[0].(float64) != tt.wantAt || event[1] != tt.wantKind || event[2] != tt.wantData {
			t.Errorf("event %d = %v, want [%v %q %q]", i, event, tt.wantAt, tt.wantKind, tt.wantData)
		}
	}
}
