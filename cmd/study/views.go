package main

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"smartstudy/client"
	"smartstudy/models"
	"smartstudy/runner"
	"smartstudy/session"
)

const quizHelp = "<n> select option | answer <text> | submit | next | prev | ask <question> | leave"

func (a *app) runQuiz(ctx context.Context, quiz *session.QuizArtifact) error {
	r, err := runner.NewQuizRunner(quiz.Questions, a.api, a.log)
	if err != nil {
		return err
	}
	fmt.Println(mutedStyle.Render(quizHelp))

	for !r.Finished() {
		i, q := r.Current()
		printQuestion(r, i, q)

		line, ok := a.readLine(fmt.Sprintf("Q%d>", i+1))
		if !ok {
			return errQuit
		}
		cmd, rest, _ := strings.Cut(line, " ")

		switch strings.ToLower(cmd) {
		case "next", "n", "":
			r.Next(ctx)
		case "prev", "p":
			r.Previous()
		case "submit", "s":
			err = r.Submit()
		case "answer":
			err = r.SetText(rest)
		case "ask":
			if r.ChatLoading() {
				err = runner.ErrChatBusy
				break
			}
			err = a.ask(ctx, r.Chat, rest)
		case "leave":
			return nil
		default:
			n, convErr := strconv.Atoi(cmd)
			if convErr != nil {
				fmt.Println(mutedStyle.Render(quizHelp))
				continue
			}
			err = r.Select(n - 1)
		}
		if errors.Is(err, client.ErrUnauthorized) {
			return err
		}
		if err != nil {
			fmt.Println(errorStyle.Render(err.Error()))
			err = nil
		}
	}

	if quiz.Mode.IsExam() {
		printExamSolutions(quiz.Questions)
	}
	fmt.Println(headerStyle.Render(fmt.Sprintf("Score: %d / %d", r.Score(), r.ClosedFormCount())))
	fmt.Println(mutedStyle.Render("Analyzing your results..."))
	report, err := r.WaitReport(ctx)
	if err != nil {
		return err
	}
	fmt.Println(panelStyle.Render(report))
	return nil
}

func printQuestion(r *runner.QuizRunner, i int, q models.QuizQuestion) {
	fmt.Println()
	fmt.Println(headerStyle.Render(fmt.Sprintf("Question %d of %d  [%s]", i+1, r.Len(), q.Type)))
	fmt.Println(q.Question)
	if q.CodeSnippet != "" {
		fmt.Println(panelStyle.Render(q.CodeSnippet))
	}
	if q.DiagramURL != "" {
		fmt.Println(mutedStyle.Render("Diagram: " + q.DiagramPrompt))
	}

	answer := r.Answer(i)
	for j, opt := range q.Options {
		marker := " "
		if answer.SelectedOption != nil && *answer.SelectedOption == j {
			marker = ">"
		}
		fmt.Printf(" %s %s %s\n", marker, accentStyle.Render(strconv.Itoa(j+1)+"."), opt)
	}
	if !q.IsClosedForm() && answer.TextAnswer != "" {
		fmt.Println(mutedStyle.Render("Your answer: " + truncate(answer.TextAnswer, 120)))
	}

	if r.State(i) != runner.Submitted {
		return
	}
	if correct, ok := r.IsCorrect(i); ok {
		if correct {
			fmt.Println(successStyle.Render("Correct"))
		} else {
			fmt.Println(errorStyle.Render("Incorrect. Answer: " + q.CorrectOption()))
		}
		if answer.SelectedOption != nil && *answer.SelectedOption < len(q.OptionExplanations) {
			fmt.Println(q.OptionExplanations[*answer.SelectedOption])
		}
	}
	fmt.Println(panelStyle.Render(q.Explanation))
}

func printExamSolutions(questions []models.QuizQuestion) {
	fmt.Println(headerStyle.Render("Solutions"))
	for i, q := range questions {
		if q.IsClosedForm() {
			continue
		}
		fmt.Printf("%s %s\n", accentStyle.Render(fmt.Sprintf("Q%d.", i+1)), truncate(q.Question, 100))
		fmt.Println(panelStyle.Render(q.Explanation))
	}
}

// ask prints the tutor reply. A failed request still shows the fallback reply.
func (a *app) ask(ctx context.Context, chat func(context.Context, string) (string, error), message string) error {
	reply, err := chat(ctx, message)
	if reply != "" {
		fmt.Println(tutorStyle.Render("Tutor: ") + reply)
	}
	if err != nil && reply != "" && !errors.Is(err, client.ErrUnauthorized) {
		a.log.Warn("Tutor request failed", "error", err)
		return nil
	}
	return err
}

const slidesHelp = "next | prev | view | ask <question> | leave"

func (a *app) runSlides(ctx context.Context, deck *session.DeckArtifact) error {
	p, err := runner.NewPresentationRunner(deck.Slides, a.api)
	if err != nil {
		return err
	}
	fmt.Println(mutedStyle.Render(slidesHelp))

	for {
		i, slide := p.Current()
		fmt.Println()
		fmt.Println(headerStyle.Render(fmt.Sprintf("%d/%d  %s", i+1, p.Len(), slide.Title)))
		for _, b := range slide.BulletPoints {
			fmt.Println("  • " + b)
		}
		if p.View() == runner.ViewSplit {
			fmt.Println(panelStyle.Render(slide.Explanation))
		}

		line, ok := a.readLine("slide>")
		if !ok {
			return errQuit
		}
		cmd, rest, _ := strings.Cut(line, " ")
		switch strings.ToLower(cmd) {
		case "next", "n", "":
			if !p.Next() {
				fmt.Println(mutedStyle.Render("Last slide."))
			}
		case "prev", "p":
			p.Previous()
		case "view", "v":
			p.ToggleView()
		case "ask":
			err = a.ask(ctx, p.Chat, rest)
		case "leave":
			return nil
		default:
			fmt.Println(mutedStyle.Render(slidesHelp))
		}
		if errors.Is(err, client.ErrUnauthorized) {
			return err
		}
		if err != nil {
			fmt.Println(errorStyle.Render(err.Error()))
			err = nil
		}
	}
}

const codeHelp = "paste code and finish with a line containing only END, or: file <path> | leave"

func (a *app) runCodeTool(ctx context.Context) error {
	c := runner.NewCodeInterpreter(a.api)
	fmt.Println(mutedStyle.Render(codeHelp))

	for {
		line, ok := a.readLine("code>")
		if !ok {
			return errQuit
		}
		cmd, rest, _ := strings.Cut(line, " ")
		switch strings.ToLower(cmd) {
		case "leave":
			return nil
		case "file":
			data, err := os.ReadFile(rest)
			if err != nil {
				fmt.Println(errorStyle.Render(err.Error()))
				continue
			}
			c.LoadFile(filepath.Base(rest), mime.TypeByExtension(filepath.Ext(rest)), data)
		default:
			c.SetCode(a.readBlock(line))
		}

		fmt.Println(mutedStyle.Render("Explaining " + truncate(c.Input(), 60)))
		explanation, err := c.Explain(ctx)
		if errors.Is(err, client.ErrUnauthorized) {
			return err
		}
		if err != nil {
			fmt.Println(errorStyle.Render(err.Error()))
			continue
		}
		fmt.Println(panelStyle.Render(explanation))
	}
}

// readBlock collects lines after first until a line reading END.
func (a *app) readBlock(first string) string {
	lines := []string{first}
	for a.in.Scan() {
		if strings.TrimSpace(a.in.Text()) == "END" {
			break
		}
		lines = append(lines, a.in.Text())
	}
	return strings.Join(lines, "\n")
}
