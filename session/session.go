// Package session drives what one course view shows: the library, a loading request,
// one active artifact or an error. Every request is tagged with a generation number and
// a result that arrives after Reset (or after a newer request) is dropped.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"smartstudy/catalog"
	"smartstudy/logger"
	"smartstudy/models"

	"github.com/samber/lo"
)

var (
	// ErrBusy is returned when a request is started while another is loading.
	ErrBusy = errors.New("a request is already in flight")
	// ErrNotInLibrary is returned when an artifact is started without resetting first.
	ErrNotInLibrary = errors.New("reset the session before starting a new activity")
	// ErrStale is returned when a result arrives for a request the session no longer wants.
	ErrStale = errors.New("result discarded: session moved on")
	ErrUnknownLecture = errors.New("unknown lecture")
)

const pdfMimeType = "application/pdf"

// API is the part of the client a session needs.
type API interface {
	GenerateQuiz(ctx context.Context, mode models.StudyMode, textInput string, files []models.Attachment, courseTitle string) ([]models.QuizQuestion, error)
	GeneratePresentation(ctx context.Context, lectures []models.LectureSummary) ([]models.Slide, error)
	GenerateStudyGuide(ctx context.Context, mode models.StudyMode, textInput string, files []models.Attachment) (string, error)
}

type Session struct {
	api    API
	course *catalog.Course
	assets AssetLoader
	log    *logger.Logger

	mu         sync.Mutex
	state      State
	generation uint64
}

func New(api API, course *catalog.Course, assets AssetLoader, log *logger.Logger) *Session {
	return &Session{
		api:    api,
		course: course,
		assets: assets,
		log:    log.With("course", course.ID),
		state:  Library{},
	}
}

func (s *Session) Course() *catalog.Course {
	return s.course
}

func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Reset returns to Library from any state. Any in-flight result is discarded when it lands.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.state.(Library); ok {
		return
	}
	s.generation++
	s.state = Library{}
}

func (s *Session) begin(kind Kind) (uint64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	switch s.state.(type) {
	case Loading:
		return 0, ErrBusy
	case Library:
	default:
		return 0, ErrNotInLibrary
	}
	s.generation++
	s.state = Loading{Kind: kind}
	return s.generation, nil
}

// finish applies a result only if the request is still the current one.
func (s *Session) finish(gen uint64, kind Kind, artifact Artifact, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.generation {
		s.log.Info("Discarding stale result", "kind", kind)
		return ErrStale
	}
	if err != nil {
		s.log.Error("Activity failed", "kind", kind, "error", err)
		s.state = Failed{Kind: kind, Err: err}
		return err
	}
	s.state = Active{Artifact: artifact}
	return nil
}

// StartLectureQuiz generates a REVIEW, PREVIEW or QUIZ set for one lecture, attaching its
// document when it loads.
func (s *Session) StartLectureQuiz(ctx context.Context, number int, mode models.StudyMode) (*QuizArtifact, error) {
	if mode.IsExam() || !mode.Valid() {
		return nil, fmt.Errorf("%s is not a lecture quiz mode", mode)
	}
	lecture, ok := s.course.Lecture(number)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownLecture, number)
	}

	gen, err := s.begin(KindQuiz)
	if err != nil {
		return nil, err
	}

	files := s.loadDocuments(ctx, []models.Lecture{lecture})
	questions, err := s.api.GenerateQuiz(ctx, mode, lecture.Content, files, s.course.Title)
	var artifact *QuizArtifact
	if err == nil {
		artifact = &QuizArtifact{Mode: mode, Questions: questions}
	}
	if err := s.finish(gen, KindQuiz, artifact, err); err != nil {
		return nil, err
	}
	return artifact, nil
}

// StartExam generates a MIDTERM or FINAL from every lecture document the exam covers. When
// none of them loads, the lectures' text is sent instead.
func (s *Session) StartExam(ctx context.Context, mode models.StudyMode) (*QuizArtifact, error) {
	if !mode.IsExam() {
		return nil, fmt.Errorf("%s is not an exam mode", mode)
	}

	gen, err := s.begin(KindExam)
	if err != nil {
		return nil, err
	}

	lectures := s.course.ExamLectures(mode)
	files := s.loadDocuments(ctx, lectures)
	text := ""
	if len(files) == 0 {
		s.log.Warn("No lecture documents loaded, using lecture text", "mode", mode, "lectures", len(lectures))
		text = lectureText(lectures)
	}
	questions, err := s.api.GenerateQuiz(ctx, mode, text, files, s.course.Title)
	var artifact *QuizArtifact
	if err == nil {
		if s.course.IsRobotics() {
			attachDiagramPlaceholders(mode, questions)
		}
		artifact = &QuizArtifact{Mode: mode, Questions: questions}
	}
	if err := s.finish(gen, KindExam, artifact, err); err != nil {
		return nil, err
	}
	return artifact, nil
}

// StartPresentation builds a deck from lectures first..last inclusive.
func (s *Session) StartPresentation(ctx context.Context, first, last int) (*DeckArtifact, error) {
	lectures := s.course.LecturesBetween(first, last)
	if len(lectures) == 0 {
		return nil, fmt.Errorf("%w: no lectures between %d and %d", ErrUnknownLecture, first, last)
	}

	gen, err := s.begin(KindPresentation)
	if err != nil {
		return nil, err
	}

	summaries := lo.Map(lectures, func(l models.Lecture, _ int) models.LectureSummary { return l.Summary() })
	slides, err := s.api.GeneratePresentation(ctx, summaries)
	var artifact *DeckArtifact
	if err == nil {
		artifact = &DeckArtifact{FirstLecture: first, LastLecture: last, Slides: slides}
	}
	if err := s.finish(gen, KindPresentation, artifact, err); err != nil {
		return nil, err
	}
	return artifact, nil
}

// StartStudyGuide writes a REVIEW or PREVIEW guide for one lecture.
func (s *Session) StartStudyGuide(ctx context.Context, number int, mode models.StudyMode) (*GuideArtifact, error) {
	lecture, ok := s.course.Lecture(number)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownLecture, number)
	}

	gen, err := s.begin(KindGuide)
	if err != nil {
		return nil, err
	}

	files := s.loadDocuments(ctx, []models.Lecture{lecture})
	markdown, err := s.api.GenerateStudyGuide(ctx, mode, lecture.Content, files)
	var artifact *GuideArtifact
	if err == nil {
		artifact = &GuideArtifact{Mode: mode, Markdown: markdown}
	}
	if err := s.finish(gen, KindGuide, artifact, err); err != nil {
		return nil, err
	}
	return artifact, nil
}

// OpenCodeTool activates the code interpreter. Nothing is fetched up front.
func (s *Session) OpenCodeTool() (*CodeToolArtifact, error) {
	gen, err := s.begin(KindCodeTool)
	if err != nil {
		return nil, err
	}
	artifact := &CodeToolArtifact{}
	if err := s.finish(gen, KindCodeTool, artifact, nil); err != nil {
		return nil, err
	}
	return artifact, nil
}

// loadDocuments skips lectures whose document is missing or fails to load.
func (s *Session) loadDocuments(ctx context.Context, lectures []models.Lecture) []models.Attachment {
	files := []models.Attachment{}
	if s.assets == nil {
		return files
	}
	for _, l := range lectures {
		if l.Document == "" {
			continue
		}
		data, err := s.assets.Load(ctx, l.Document)
		if err != nil {
			s.log.Warn("Failed to load lecture document", "lecture", l.Number, "error", err)
			continue
		}
		files = append(files, models.Attachment{MimeType: pdfMimeType, Base64: data})
	}
	return files
}

// lectureText is the exam material used when no document could be attached.
func lectureText(lectures []models.Lecture) string {
	var b strings.Builder
	for _, l := range lectures {
		fmt.Fprintf(&b, "Lecture %d: %s\n%s\n\n", l.Number, l.Title, l.Content)
	}
	return strings.TrimSpace(b.String())
}

// attachDiagramPlaceholders marks OPEN robotics problems whose diagram is still to be drawn.
func attachDiagramPlaceholders(mode models.StudyMode, questions []models.QuizQuestion) {
	for i := range questions {
		q := &questions[i]
		if q.Type == models.QuestionOpen && q.DiagramPrompt != "" {
			q.DiagramURL = fmt.Sprintf("pending_generation_robot_diagram_%s_q%d", strings.ToLower(string(mode)), i+1)
		}
	}
}
