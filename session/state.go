package session

import "smartstudy/models"

type Kind string

const (
	KindQuiz         Kind = "quiz"
	KindExam         Kind = "exam"
	KindPresentation Kind = "presentation"
	KindGuide        Kind = "guide"
	KindCodeTool     Kind = "code-tool"
)

// State is one of Library, Loading, Active or Failed.
type State interface {
	isState()
}

// Library is the browse state. It holds nothing.
type Library struct{}

type Loading struct {
	Kind Kind
}

type Active struct {
	Artifact Artifact
}

// Failed keeps the error until Reset.
type Failed struct {
	Kind Kind
	Err  error
}

func (Library) isState() {}
func (Loading) isState() {}
func (Active) isState()  {}
func (Failed) isState()  {}

func (f Failed) Message() string {
	if f.Err == nil {
		return "Something went wrong generating the content."
	}
	return f.Err.Error()
}

// Artifact is the single piece of generated content a session shows.
type Artifact interface {
	Kind() Kind
}

type QuizArtifact struct {
	Mode      models.StudyMode
	Questions []models.QuizQuestion
}

func (a *QuizArtifact) Kind() Kind {
	if a.Mode.IsExam() {
		return KindExam
	}
	return KindQuiz
}

type DeckArtifact struct {
	FirstLecture int
	LastLecture  int
	Slides       []models.Slide
}

func (*DeckArtifact) Kind() Kind { return KindPresentation }

type GuideArtifact struct {
	Mode     models.StudyMode
	Markdown string
}

func (*GuideArtifact) Kind() Kind { return KindGuide }

// CodeToolArtifact needs no generation; the code interpreter runner does its own requests.
type CodeToolArtifact struct{}

func (*CodeToolArtifact) Kind() Kind { return KindCodeTool }
