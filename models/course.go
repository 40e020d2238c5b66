package models

type Lecture struct {
	ID       string `json:"id" yaml:"id"`
	Number   int    `json:"number" yaml:"number"`
	Title    string `json:"title" yaml:"title"`
	Content  string `json:"content" yaml:"content"`
	Document string `json:"pdfUrl,omitempty" yaml:"pdf"`
}

// Summary is the part of a lecture sent to the model for slide generation.
func (l Lecture) Summary() LectureSummary {
	return LectureSummary{Title: l.Title, Content: l.Content}
}

type Course struct {
	ID          string    `json:"id" yaml:"id"`
	Title       string    `json:"title" yaml:"title"`
	Description string    `json:"description" yaml:"description"`
	Semester    string    `json:"semester" yaml:"semester"`
	Progress    int       `json:"progress" yaml:"progress"`
	Lectures    []Lecture `json:"lectures" yaml:"lectures"`
}

type LectureSummary struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}
