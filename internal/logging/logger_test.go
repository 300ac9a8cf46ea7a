package logging

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLogger(t *testing.T) {
	tests := []struct {
		name    string
		verbose bool
		want    string
	}{
		{"quiet", false, "[reginald] WARN limit close\n"},
		{"verbose", true, "\n[reginald] === Build ===\n[reginald] states: 4\n[reginald] WARN limit close\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			l := New(&buf, tt.verbose)
			l.Section("Build")
			l.Debugf("states: %d", 4)
			l.Warnf("limit close")
			if diff := cmp.Diff(tt.want, buf.String()); diff != "" {
				t.Errorf("output (-want +got):\n%s", diff)
			}
			if l.Enabled() != tt.verbose {
				t.Errorf("Enabled() = %v", l.Enabled())
			}
		})
	}
}

func TestNilLogger(t *testing.T) {
	var l *Logger
	l.Section("x")
	l.Debugf("x")
	l.Warnf("x")
	if l.Enabled() {
		t.Fatal("nil logger reports enabled")
	}
}
