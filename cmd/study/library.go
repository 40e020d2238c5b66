package main

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"smartstudy/catalog"
	"smartstudy/client"
	"smartstudy/models"
	"smartstudy/session"
)

const libraryHelp = `Commands:
  quiz <lecture> [review|preview|quiz]   lecture quiz
  guide <lecture> [review|preview]       study guide
  exam midterm|final                     course exam
  slides <first> <last>                  slide deck for a lecture range
  find <term>                            search lectures
  code                                   code interpreter
  logout | quit`

func (a *app) library(ctx context.Context, courseID string) error {
	course, err := a.pickCourse(ctx, courseID)
	if err != nil || course == nil {
		return err
	}
	s := session.New(a.api, course, a.assets, a.log)

	fmt.Println(headerStyle.Render(course.Title))
	printLectures(course.Lectures)
	fmt.Println(mutedStyle.Render(libraryHelp))

	for {
		line, ok := a.readLine(">")
		if !ok {
			return nil
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}

		err := a.dispatch(ctx, s, course, fields)
		s.Reset()
		switch {
		case errors.Is(err, errQuit):
			return nil
		case errors.Is(err, errLogout):
			if err := a.api.Logout(); err != nil {
				a.log.Warn("Failed to clear token", "error", err)
			}
			return errLogout
		case errors.Is(err, client.ErrUnauthorized):
			return err
		case err != nil:
			fmt.Println(errorStyle.Render(err.Error()))
		}
	}
}

var errQuit = errors.New("quit")

func (a *app) dispatch(ctx context.Context, s *session.Session, course *catalog.Course, fields []string) error {
	switch strings.ToLower(fields[0]) {
	case "quiz":
		n, err := lectureArg(fields)
		if err != nil {
			return err
		}
		fmt.Println(mutedStyle.Render("Generating quiz..."))
		quiz, err := s.StartLectureQuiz(ctx, n, modeArg(fields, 2, models.ModeQuiz))
		if err != nil {
			return failure(s, err)
		}
		return a.runQuiz(ctx, quiz)

	case "guide":
		n, err := lectureArg(fields)
		if err != nil {
			return err
		}
		fmt.Println(mutedStyle.Render("Writing study guide..."))
		guide, err := s.StartStudyGuide(ctx, n, modeArg(fields, 2, models.ModeReview))
		if err != nil {
			return failure(s, err)
		}
		fmt.Println(panelStyle.Render(guide.Markdown))
		return nil

	case "exam":
		mode := modeArg(fields, 1, models.ModeMidterm)
		fmt.Println(mutedStyle.Render(fmt.Sprintf("Generating %s exam...", strings.ToLower(string(mode)))))
		exam, err := s.StartExam(ctx, mode)
		if err != nil {
			return failure(s, err)
		}
		return a.runQuiz(ctx, exam)

	case "slides":
		if len(fields) < 3 {
			return errors.New("usage: slides <first> <last>")
		}
		first, err1 := strconv.Atoi(fields[1])
		last, err2 := strconv.Atoi(fields[2])
		if err := errors.Join(err1, err2); err != nil {
			return fmt.Errorf("lecture numbers: %w", err)
		}
		fmt.Println(mutedStyle.Render("Building slides..."))
		deck, err := s.StartPresentation(ctx, first, last)
		if err != nil {
			return failure(s, err)
		}
		return a.runSlides(ctx, deck)

	case "find":
		printLectures(course.SearchLectures(strings.Join(fields[1:], " ")))
		return nil

	case "code":
		if _, err := s.OpenCodeTool(); err != nil {
			return err
		}
		return a.runCodeTool(ctx)

	case "logout":
		return errLogout
	case "quit", "exit":
		return errQuit
	}
	fmt.Println(mutedStyle.Render(libraryHelp))
	return nil
}

// failure prefers the session's Failed message, which is what the user saw while loading.
func failure(s *session.Session, err error) error {
	if errors.Is(err, client.ErrUnauthorized) {
		return err
	}
	if f, ok := s.State().(session.Failed); ok {
		return errors.New(f.Message())
	}
	return err
}

func lectureArg(fields []string) (int, error) {
	if len(fields) < 2 {
		return 0, fmt.Errorf("usage: %s <lecture> [mode]", fields[0])
	}
	n, err := strconv.Atoi(fields[1])
	if err != nil {
		return 0, fmt.Errorf("lecture number: %w", err)
	}
	return n, nil
}

func modeArg(fields []string, i int, fallback models.StudyMode) models.StudyMode {
	if len(fields) <= i {
		return fallback
	}
	return models.StudyMode(strings.ToUpper(fields[i]))
}

func printLectures(lectures []models.Lecture) {
	for _, l := range lectures {
		doc := ""
		if l.Document != "" {
			doc = mutedStyle.Render(" [pdf]")
		}
		fmt.Printf("  %s %s%s\n", accentStyle.Render(fmt.Sprintf("%2d", l.Number)), l.Title, doc)
	}
}
