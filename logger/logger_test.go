package logger

import (
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestRedact(t *testing.T) {
	tests := []struct {
		name     string
		in       []interface{}
		expected []interface{}
	}{
		{
			name:     "plain values kept",
			in:       []interface{}{"action", "chat", "count", 3},
			expected: []interface{}{"action", "chat", "count", 3},
		},
		{
			name:     "password redacted",
			in:       []interface{}{"password", "hunter2"},
			expected: []interface{}{"password", "[redacted]"},
		},
		{
			name:     "token key variants redacted",
			in:       []interface{}{"authToken", "abc", "user", "student"},
			expected: []interface{}{"authToken", "[redacted]", "user", "student"},
		},
		{
			name:     "dangling key kept",
			in:       []interface{}{"user", "student", "orphan"},
			expected: []interface{}{"user", "student", "orphan"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := redact(tt.in)
			if len(got) != len(tt.expected) {
				t.Fatalf("redact() returned %d items, expected %d", len(got), len(tt.expected))
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("redact()[%d] = %v, expected %v", i, got[i], tt.expected[i])
				}
			}
		})
	}
}

func TestRedactLeavesInputUntouched(t *testing.T) {
	in := []any{"apiKey", "sk-123"}
	_ = redact(in)
	if in[1] != "sk-123" {
		t.Errorf("redact() mutated its input: %v", in)
	}
}

func TestWithRedactsBoundFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := (&Logger{sugar: zap.New(core).Sugar()}).With("token", "abc", "course", "robotics")

	log.Info("bound fields", "password", "hunter2", "lecture", 4)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("logged %d entries, expected 1", len(entries))
	}
	fields := entries[0].ContextMap()
	expected := map[string]any{"token": redacted, "course": "robotics", "password": redacted, "lecture": int64(4)}
	for k, v := range expected {
		if fields[k] != v {
			t.Errorf("field %s = %v, expected %v", k, fields[k], v)
		}
	}
}
