// Package runner holds the interactive state of an artifact that has already been
// generated: a quiz, a slide deck or the code interpreter.
package runner

import (
	"context"
	"errors"
	"strings"
	"sync"

	"smartstudy/logger"
	"smartstudy/models"
	"smartstudy/services/prompt"
)

var (
	ErrNoQuestions   = errors.New("quiz has no questions")
	ErrSubmitted     = errors.New("question already submitted")
	ErrNotClosedForm = errors.New("question has no options")
	ErrNotOpenEnded  = errors.New("question takes a selected option, not text")
	ErrOptionRange   = errors.New("option out of range")
	ErrNoSelection   = errors.New("select an option before submitting")
	ErrEmptyAnswer   = errors.New("write an answer before submitting")
	ErrFinished      = errors.New("quiz is finished")
)

type QuestionState int

const (
	Unanswered QuestionState = iota
	Selected
	Submitted
)

func (s QuestionState) String() string {
	switch s {
	case Selected:
		return "selected"
	case Submitted:
		return "submitted"
	}
	return "unanswered"
}

type Reporter interface {
	GeneratePerformanceReport(ctx context.Context, questions []models.QuizQuestion, answers []models.AnswerRecord) (string, error)
}

type QuizAPI interface {
	Tutor
	Reporter
}

type reportState int

const (
	reportIdle reportState = iota
	reportLoading
	reportDone
)

// QuizRunner walks an immutable question list. Answers are kept in a slice aligned with
// the questions and survive navigation for the life of the runner.
type QuizRunner struct {
	questions []models.QuizQuestion
	api       Reporter
	log       *logger.Logger
	chat      chatThread

	mu       sync.Mutex
	answers  []models.AnswerRecord
	index    int
	finished bool

	report      string
	reportErr   error
	reportState reportState
	reportDone  chan struct{}
}

func NewQuizRunner(questions []models.QuizQuestion, api QuizAPI, log *logger.Logger) (*QuizRunner, error) {
	if len(questions) == 0 {
		return nil, ErrNoQuestions
	}
	return &QuizRunner{
		questions:  questions,
		api:        api,
		log:        log,
		chat:       chatThread{tutor: api},
		answers:    make([]models.AnswerRecord, len(questions)),
		reportDone: make(chan struct{}),
	}, nil
}

func (r *QuizRunner) Len() int { return len(r.questions) }

// Current returns the index and question on screen.
func (r *QuizRunner) Current() (int, models.QuizQuestion) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.index, r.questions[r.index]
}

func (r *QuizRunner) Answer(i int) models.AnswerRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.answers[i]
}

// Answers returns a copy of every answer record, aligned with the questions.
func (r *QuizRunner) Answers() []models.AnswerRecord {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]models.AnswerRecord(nil), r.answers...)
}

func (r *QuizRunner) State(i int) QuestionState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return stateOf(r.answers[i])
}

func stateOf(a models.AnswerRecord) QuestionState {
	switch {
	case a.Submitted:
		return Submitted
	case a.SelectedOption != nil:
		return Selected
	}
	return Unanswered
}

// Select picks an option on the current closed-form question. It can change until submit.
func (r *QuizRunner) Select(option int) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finished {
		return ErrFinished
	}
	q, a := r.questions[r.index], &r.answers[r.index]
	if a.Submitted {
		return ErrSubmitted
	}
	if !q.IsClosedForm() {
		return ErrNotClosedForm
	}
	if option < 0 || option >= len(q.Options) {
		return ErrOptionRange
	}
	a.SelectedOption = &option
	return nil
}

// SetText records the draft answer of the current open-ended question.
func (r *QuizRunner) SetText(text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finished {
		return ErrFinished
	}
	q, a := r.questions[r.index], &r.answers[r.index]
	if a.Submitted {
		return ErrSubmitted
	}
	if q.IsClosedForm() {
		return ErrNotOpenEnded
	}
	a.TextAnswer = text
	return nil
}

// Submit locks the current answer.
func (r *QuizRunner) Submit() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finished {
		return ErrFinished
	}
	q, a := r.questions[r.index], &r.answers[r.index]
	if a.Submitted {
		return ErrSubmitted
	}
	if q.IsClosedForm() && a.SelectedOption == nil {
		return ErrNoSelection
	}
	if !q.IsClosedForm() && strings.TrimSpace(a.TextAnswer) == "" {
		return ErrEmptyAnswer
	}
	a.Submitted = true
	return nil
}

// IsCorrect reports whether question i was submitted with the correct option. ok is false
// for open-ended or unsubmitted questions.
func (r *QuizRunner) IsCorrect(i int) (correct, ok bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	want, closed := r.questions[i].CorrectIndex()
	a := r.answers[i]
	if !closed || !a.Submitted || a.SelectedOption == nil {
		return false, false
	}
	return *a.SelectedOption == want, true
}

func (r *QuizRunner) Score() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return models.Score(r.questions, r.answers)
}

// ClosedFormCount is the maximum score.
func (r *QuizRunner) ClosedFormCount() int {
	n := 0
	for _, q := range r.questions {
		if q.IsClosedForm() {
			n++
		}
	}
	return n
}

// Next moves forward. On the last question it finishes the quiz, submitted or not, and
// starts the one performance report request.
func (r *QuizRunner) Next(ctx context.Context) {
	r.mu.Lock()
	if r.finished {
		r.mu.Unlock()
		return
	}
	if r.index < len(r.questions)-1 {
		r.index++
		r.chat.reset()
		r.mu.Unlock()
		return
	}
	r.finished = true
	r.chat.reset()
	r.mu.Unlock()

	r.startReport(ctx)
}

func (r *QuizRunner) Previous() {
	r.mu.Lock()
	if r.finished || r.index == 0 {
		r.mu.Unlock()
		return
	}
	r.index--
	r.chat.reset()
	r.mu.Unlock()
}

func (r *QuizRunner) Finished() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.finished
}

// startReport issues the report request at most once. With nothing missed it uses the
// canned message and sends nothing.
func (r *QuizRunner) startReport(ctx context.Context) {
	r.mu.Lock()
	if r.reportState != reportIdle {
		r.mu.Unlock()
		return
	}
	answers := append([]models.AnswerRecord(nil), r.answers...)
	if len(models.MissedQuestions(r.questions, answers)) == 0 {
		r.report = models.PerfectReportMessage
		r.reportState = reportDone
		close(r.reportDone)
		r.mu.Unlock()
		return
	}
	r.reportState = reportLoading
	r.mu.Unlock()

	go func() {
		report, err := r.api.GeneratePerformanceReport(ctx, r.questions, answers)
		if err != nil {
			r.log.Warn("Performance report failed", "error", err)
		}

		r.mu.Lock()
		r.report, r.reportErr = report, err
		r.reportState = reportDone
		r.mu.Unlock()
		close(r.reportDone)
	}()
}

// Report returns the report once ready; loading is true while the request is in flight.
func (r *QuizRunner) Report() (report string, loading bool, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.report, r.reportState == reportLoading, r.reportErr
}

// WaitReport blocks until the report is ready or ctx ends. It must follow the final Next.
func (r *QuizRunner) WaitReport(ctx context.Context) (string, error) {
	if !r.Finished() {
		return "", errors.New("quiz is not finished")
	}
	select {
	case <-r.reportDone:
	case <-ctx.Done():
		return "", ctx.Err()
	}
	report, _, err := r.Report()
	return report, err
}

// Chat asks the tutor about the current question.
func (r *QuizRunner) Chat(ctx context.Context, message string) (string, error) {
	message = strings.TrimSpace(message)

	r.mu.Lock()
	chatContext := prompt.QuestionChatContext(r.questions[r.index])
	prior, gen, err := r.chat.start(message)
	r.mu.Unlock()
	if err != nil {
		return "", err
	}
	return r.chat.finish(ctx, gen, chatContext, message, prior)
}

func (r *QuizRunner) ChatHistory() []models.ChatMessage {
	return r.chat.history()
}

// ChatLoading reports whether a tutor reply for the current question is still pending.
func (r *QuizRunner) ChatLoading() bool {
	return r.chat.isLoading()
}
