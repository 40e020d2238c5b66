// Command study is the terminal front end: log in, pick a course and work through quizzes,
// exams, slide decks, study guides and the code interpreter.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"smartstudy/catalog"
	"smartstudy/client"
	"smartstudy/config"
	"smartstudy/logger"
	"smartstudy/session"
)

// errLogout unwinds every view back to the login prompt.
var errLogout = errors.New("logged out")

type app struct {
	cfg    *config.Config
	log    *logger.Logger
	api    *client.Client
	assets session.Assets
	in     *bufio.Scanner
}

func main() {
	cfg := config.Load()
	courseID := flag.String("course", "", "course id to open after login")
	flag.Parse()

	log, err := logger.New(cfg.LogMode)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	api, err := client.New(cfg.APIBaseURL,
		client.WithTokenStore(client.FileTokenStore{Path: cfg.TokenPath}),
		client.WithLogger(log),
		client.WithUnauthorizedHandler(func() {
			fmt.Println(errorStyle.Render(client.ErrUnauthorized.Error()))
		}),
	)
	if err != nil {
		log.Fatal("Failed to create API client", "error", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a := &app{
		cfg:    cfg,
		log:    log,
		api:    api,
		assets: session.Assets{Dir: cfg.LectureAssetsDir},
		in:     bufio.NewScanner(os.Stdin),
	}
	a.in.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	fmt.Println(titleStyle.Render("SmartStudy"))
	if err := a.run(ctx, *courseID); err != nil && !errors.Is(err, context.Canceled) {
		log.Error("Study session ended", "error", err)
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, courseID string) error {
	for {
		if !a.api.IsAuthenticated() {
			ok, err := a.login(ctx)
			if err != nil || !ok {
				return err
			}
		}

		err := a.library(ctx, courseID)
		switch {
		case errors.Is(err, errLogout), errors.Is(err, client.ErrUnauthorized):
			courseID = ""
			continue
		case err != nil:
			return err
		}
		return nil
	}
}

// readLine prints the prompt and returns the trimmed input. ok is false at end of input.
func (a *app) readLine(prompt string) (string, bool) {
	fmt.Print(promptStyle.Render(prompt) + " ")
	if !a.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(a.in.Text()), true
}

func (a *app) login(ctx context.Context) (bool, error) {
	for {
		username, ok := a.readLine("Username:")
		if !ok {
			return false, nil
		}
		password, ok := a.readLine("Password:")
		if !ok {
			return false, nil
		}

		resp, err := a.api.Login(ctx, username, password)
		if err != nil {
			fmt.Println(errorStyle.Render(err.Error()))
			continue
		}
		if !resp.Success {
			fmt.Println(errorStyle.Render(resp.Message))
			continue
		}
		fmt.Println(successStyle.Render("Welcome, " + username))
		return true, nil
	}
}

func (a *app) pickCourse(ctx context.Context, id string) (*catalog.Course, error) {
	if id == "" {
		courses, err := a.api.Courses(ctx)
		if err != nil {
			return nil, err
		}
		for i, c := range courses {
			fmt.Printf("  %s %s %s\n", accentStyle.Render(fmt.Sprintf("[%d]", i+1)), c.Title, mutedStyle.Render(c.Semester))
		}
		for id == "" {
			line, ok := a.readLine("Course:")
			if !ok {
				return nil, nil
			}
			var n int
			if _, err := fmt.Sscanf(line, "%d", &n); err == nil && n >= 1 && n <= len(courses) {
				id = courses[n-1].ID
			}
		}
	}

	course, err := a.api.Course(ctx, id)
	if err != nil {
		return nil, err
	}
	return &catalog.Course{Course: *course}, nil
}
