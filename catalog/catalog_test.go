package catalog

import (
	"testing"

	"smartstudy/models"
)

func TestDefaultCatalog(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	if len(c.Courses) != 2 {
		t.Fatalf("expected 2 courses, got %d", len(c.Courses))
	}

	ds, ok := c.Course("data-structures")
	if !ok {
		t.Fatal("data-structures course missing")
	}
	if len(ds.Lectures) != 10 {
		t.Errorf("expected 10 data structures lectures, got %d", len(ds.Lectures))
	}
	hashing, ok := ds.Lecture(4)
	if !ok || hashing.Title != "Hashing" {
		t.Errorf("lecture 4 = %+v, expected Hashing", hashing)
	}
	if ds.IsRobotics() {
		t.Error("data structures must not be a robotics course")
	}

	robo, ok := c.Course("robotics")
	if !ok || !robo.IsRobotics() {
		t.Fatal("robotics course missing or not detected")
	}
	if _, ok := robo.Lecture(8); ok {
		t.Error("robotics catalog has no lecture 8")
	}
}

func TestLectureRanges(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	ds, _ := c.Course("data-structures")

	tests := []struct {
		name     string
		got      []models.Lecture
		expected []int
	}{
		{name: "between 3 and 5", got: ds.LecturesBetween(3, 5), expected: []int{3, 4, 5}},
		{name: "midterm", got: ds.ExamLectures(models.ModeMidterm), expected: []int{1, 2, 3, 4, 5}},
		{name: "final", got: ds.ExamLectures(models.ModeFinal), expected: []int{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}},
		{name: "empty range", got: ds.LecturesBetween(7, 3), expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if len(tt.got) != len(tt.expected) {
				t.Fatalf("got %d lectures, expected %d", len(tt.got), len(tt.expected))
			}
			for i, l := range tt.got {
				if l.Number != tt.expected[i] {
					t.Errorf("lecture[%d].Number = %d, expected %d", i, l.Number, tt.expected[i])
				}
			}
		})
	}
}

func TestSearchLectures(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default() error = %v", err)
	}
	ds, _ := c.Course("data-structures")

	tests := []struct {
		name     string
		term     string
		expected []int
	}{
		{name: "exact", term: "Hashing", expected: []int{4}},
		{name: "case insensitive", term: "heaps", expected: []int{8}},
		{name: "subsequence", term: "avl", expected: []int{7}},
		{name: "shared word", term: "search", expected: []int{9, 10}},
		{name: "blank", term: "  ", expected: nil},
		{name: "no match", term: "blockchain", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ds.SearchLectures(tt.term)
			if len(got) != len(tt.expected) {
				t.Fatalf("SearchLectures(%q) returned %d lectures, expected %d", tt.term, len(got), len(tt.expected))
			}
			for i, l := range got {
				if l.Number != tt.expected[i] {
					t.Errorf("result[%d] = lecture %d, expected %d", i, l.Number, tt.expected[i])
				}
			}
		})
	}
}

func TestParseRejectsDuplicates(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{name: "empty", yaml: "courses: []"},
		{name: "duplicate course", yaml: "courses:\n  - {id: a, title: A}\n  - {id: a, title: B}\n"},
		{name: "duplicate lecture number", yaml: "courses:\n  - id: a\n    title: A\n    lectures:\n      - {id: x, number: 1, title: X}\n      - {id: y, number: 1, title: Y}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); err == nil {
				t.Error("Parse() expected an error")
			}
		})
	}
}
