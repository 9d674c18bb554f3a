package logtail

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestRead(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "test.log")

	var content strings.Builder
	var expectedAll []string
	for i := 1; i <= 10; i++ {
		line := fmt.Sprintf("Line %d", i)
		content.WriteString(line + "\n")
		expectedAll = append(expectedAll, line)
	}

	if err := os.WriteFile(logPath, []byte(content.String()), 0644); err != nil {
		t.Fatalf("failed to create test log file: %v", err)
	}

	tests := []struct {
		name     string
		maxLines int
		expected []string
	}{
		{
			name:     "read all (0)",
			maxLines: 0,
			expected: expectedAll,
		},
		{
			name:     "read all (negative)",
			maxLines: -1,
			expected: expectedAll,
		},
		{
			name:     "read partial (5)",
			maxLines: 5,
			expected: expectedAll[5:],
		},
		{
			name:     "read exactly all (10)",
			maxLines: 10,
			expected: expectedAll,
		},
		{
			name:     "read more than exists (20)",
			maxLines: 20,
			expected: expectedAll,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Read(logPath, tt.maxLines)
			if err != nil {
				t.Fatalf("Read() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("Read() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestRead_MissingFile(t *testing.T) {
	got, err := Read(filepath.Join(t.TempDir(), "nope.log"), 10)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}
	if got != nil {
		t.Fatalf("Read() = %v, want nil", got)
	}
}

func TestParse(t *testing.T) {
	line := `{"level":"warn","ts":"2026-01-02T03:04:05.000Z","caller":"app/poller.go:40","msg":"task poll failed","error":"dial tcp: refused","failures":2}`
	e := Parse(line)
	if e.Raw != "" {
		t.Fatalf("Raw = %q, want empty for JSON", e.Raw)
	}
	if e.Level != "WARN" || e.Message != "task poll failed" || e.Caller != "app/poller.go:40" {
		t.Fatalf("Parse = %#v", e)
	}
	if e.Fields["error"] != "dial tcp: refused" || e.Fields["failures"] != "2" {
		t.Fatalf("Fields = %#v", e.Fields)
	}
	want := "2026-01-02T03:04:05.000Z WARN task poll failed error=dial tcp: refused failures=2"
	if got := e.String(); got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
}

func TestParse_NonJSONKeepsRaw(t *testing.T) {
	for _, line := range []string{"plain text", "{broken", ""} {
		e := Parse(line)
		if e.Raw != line || e.String() != line {
			t.Fatalf("Parse(%q) = %#v", line, e)
		}
	}
}
