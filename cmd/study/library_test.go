package main

import (
	"testing"

	"smartstudy/models"
)

func TestModeArg(t *testing.T) {
	tests := []struct {
		name   string
		fields []string
		i      int
		want   models.StudyMode
	}{
		{name: "missing uses fallback", fields: []string{"quiz", "3"}, i: 2, want: models.ModeQuiz},
		{name: "lower case", fields: []string{"quiz", "3", "preview"}, i: 2, want: models.ModePreview},
		{name: "exam", fields: []string{"exam", "final"}, i: 1, want: models.ModeFinal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := modeArg(tt.fields, tt.i, models.ModeQuiz); got != tt.want {
				t.Errorf("modeArg() = %s, expected %s", got, tt.want)
			}
		})
	}
}

func TestLectureArg(t *testing.T) {
	if n, err := lectureArg([]string{"guide", "4"}); err != nil || n != 4 {
		t.Errorf("lectureArg() = %d, %v", n, err)
	}
	if _, err := lectureArg([]string{"guide"}); err == nil {
		t.Error("expected usage error")
	}
	if _, err := lectureArg([]string{"guide", "four"}); err == nil {
		t.Error("expected parse error")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 10); got != "short" {
		t.Errorf("truncate() = %q", got)
	}
	if got := truncate("abcdefghijkl", 8); got != "abcde..." {
		t.Errorf("truncate() = %q", got)
	}
}
