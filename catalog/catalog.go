// Package catalog holds the static course and lecture reference data.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"
	"strings"

	"smartstudy/models"

	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/samber/lo"
	"gopkg.in/yaml.v3"
)

//go:embed courses.yaml
var defaultCatalog []byte

const (
	MidtermLastLecture = 5
	FinalLastLecture   = 10
)

type Catalog struct {
	Courses []Course `yaml:"courses"`
}

// Course wraps the reference data with lookup helpers. It is never mutated after Load.
type Course struct {
	models.Course `yaml:",inline"`
}

func Default() (*Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads a catalog file, or the embedded default when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(data)
}

func Parse(data []byte) (*Catalog, error) {
	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if err := c.validate(); err != nil {
		return nil, err
	}
	for i := range c.Courses {
		lectures := c.Courses[i].Lectures
		sort.SliceStable(lectures, func(a, b int) bool { return lectures[a].Number < lectures[b].Number })
	}
	return &c, nil
}

func (c *Catalog) validate() error {
	if len(c.Courses) == 0 {
		return fmt.Errorf("catalog has no courses")
	}
	seen := make(map[string]bool, len(c.Courses))
	for _, course := range c.Courses {
		if strings.TrimSpace(course.ID) == "" {
			return fmt.Errorf("course %q has no id", course.Title)
		}
		if seen[course.ID] {
			return fmt.Errorf("duplicate course id %q", course.ID)
		}
		seen[course.ID] = true

		numbers := make(map[int]bool, len(course.Lectures))
		for _, l := range course.Lectures {
			if numbers[l.Number] {
				return fmt.Errorf("course %q: duplicate lecture number %d", course.ID, l.Number)
			}
			numbers[l.Number] = true
		}
	}
	return nil
}

func (c *Catalog) Course(id string) (*Course, bool) {
	course, ok := lo.Find(c.Courses, func(course Course) bool { return course.ID == id })
	if !ok {
		return nil, false
	}
	return &course, true
}

func (c *Course) Lecture(number int) (models.Lecture, bool) {
	return lo.Find(c.Lectures, func(l models.Lecture) bool { return l.Number == number })
}

// LecturesBetween returns lectures numbered start..end inclusive, in order.
func (c *Course) LecturesBetween(start, end int) []models.Lecture {
	return lo.Filter(c.Lectures, func(l models.Lecture, _ int) bool {
		return l.Number >= start && l.Number <= end
	})
}

func (c *Course) LecturesUpTo(last int) []models.Lecture {
	return c.LecturesBetween(0, last)
}

// ExamLectures returns the lectures an exam covers: 1-5 for MIDTERM, 1-10 for FINAL.
func (c *Course) ExamLectures(mode models.StudyMode) []models.Lecture {
	if mode == models.ModeMidterm {
		return c.LecturesUpTo(MidtermLastLecture)
	}
	return c.LecturesUpTo(FinalLastLecture)
}

// SearchLectures fuzzy-matches term against lecture titles.
func (c *Course) SearchLectures(term string) []models.Lecture {
	term = strings.TrimSpace(term)
	if term == "" {
		return nil
	}
	return lo.Filter(c.Lectures, func(l models.Lecture, _ int) bool {
		return fuzzy.MatchNormalizedFold(term, l.Title)
	})
}

func (c *Course) IsRobotics() bool {
	return IsRoboticsTitle(c.Title)
}

// IsRoboticsTitle reports whether a course title selects the robotics prompt templates.
func IsRoboticsTitle(title string) bool {
	return strings.Contains(strings.ToLower(title), "robotics")
}
