// Package cli is the terminal rendering layer. It reads commands, hands
// them to the session controller and redraws the view the controller
// settled on. No session state lives here.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/prepdeck/prepdeck/internal/application"
	"github.com/prepdeck/prepdeck/internal/domain/entity"
)

type App struct {
	controller *application.SessionController
	in         *bufio.Scanner
	out        io.Writer
}

func NewApp(controller *application.SessionController, in io.Reader, out io.Writer) *App {
	return &App{
		controller: controller,
		in:         bufio.NewScanner(in),
		out:        out,
	}
}

// Run drives the interactive loop until the user quits or input ends.
func (a *App) Run(ctx context.Context) error {
	a.controller.Start(ctx)

	for {
		a.render()
		quit, err := a.dispatch(ctx)
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}

func (a *App) render() {
	s := a.controller.Session()
	fmt.Fprintln(a.out)
	if s.Alert != "" {
		fmt.Fprintf(a.out, "! %s\n\n", s.Alert)
	}

	switch s.View {
	case entity.ViewLogin:
		fmt.Fprintln(a.out, "=== Sign in ===")
		fmt.Fprintln(a.out, "[1] sign in  [2] create an account  [q] quit")
	case entity.ViewRegister:
		fmt.Fprintln(a.out, "=== Create an account ===")
		fmt.Fprintln(a.out, "[1] register  [2] back to sign in  [q] quit")
	case entity.ViewDashboard:
		fmt.Fprintln(a.out, "=== Dashboard ===")
		if s.User != nil {
			fmt.Fprintf(a.out, "Signed in as %s\n", s.User.Name)
		}
		if s.ResumeUploaded {
			fmt.Fprintln(a.out, "Resume on file.")
		}
		fmt.Fprintln(a.out, "[1] upload resume  [2] start interview  [3] history  [4] log out  [q] quit")
	case entity.ViewInterview:
		current, total := s.Progress()
		q, _ := s.CurrentQuestion()
		fmt.Fprintf(a.out, "=== Interview: question %d/%d (%s) ===\n", current, total, q.Type)
		fmt.Fprintln(a.out, q.Question)
	case entity.ViewFeedback:
		fmt.Fprintln(a.out, "=== Feedback ===")
		fmt.Fprintln(a.out, s.Feedback)
		fmt.Fprintln(a.out, "[1] back to dashboard  [2] practice again  [3] log out  [q] quit")
	}
}

func (a *App) dispatch(ctx context.Context) (quit bool, err error) {
	s := a.controller.Session()
	switch s.View {
	case entity.ViewLogin:
		return a.loginView(ctx)
	case entity.ViewRegister:
		return a.registerView(ctx)
	case entity.ViewDashboard:
		return a.dashboardView(ctx)
	case entity.ViewInterview:
		return a.interviewView(ctx)
	case entity.ViewFeedback:
		return a.feedbackView()
	}
	return true, fmt.Errorf("unknown view %q", s.View)
}

func (a *App) loginView(ctx context.Context) (bool, error) {
	choice, ok := a.prompt("> ")
	if !ok {
		return true, nil
	}
	switch choice {
	case "1":
		email, ok := a.prompt("email: ")
		if !ok {
			return true, nil
		}
		password, ok := a.prompt("password: ")
		if !ok {
			return true, nil
		}
		_ = a.controller.Login(ctx, email, password)
	case "2":
		_ = a.controller.ShowRegister()
	case "q":
		return true, nil
	}
	return false, nil
}

func (a *App) registerView(ctx context.Context) (bool, error) {
	choice, ok := a.prompt("> ")
	if !ok {
		return true, nil
	}
	switch choice {
	case "1":
		name, ok := a.prompt("name: ")
		if !ok {
			return true, nil
		}
		email, ok := a.prompt("email: ")
		if !ok {
			return true, nil
		}
		password, ok := a.prompt("password: ")
		if !ok {
			return true, nil
		}
		_ = a.controller.Register(ctx, name, email, password)
	case "2":
		_ = a.controller.ShowLogin()
	case "q":
		return true, nil
	}
	return false, nil
}

func (a *App) dashboardView(ctx context.Context) (bool, error) {
	choice, ok := a.prompt("> ")
	if !ok {
		return true, nil
	}
	switch choice {
	case "1":
		path, ok := a.prompt("path to resume PDF: ")
		if !ok {
			return true, nil
		}
		if err := a.controller.SelectResume(path); err == nil {
			_ = a.controller.UploadResume(ctx)
		}
	case "2":
		setup, ok := a.promptSetup()
		if !ok {
			return true, nil
		}
		_ = a.controller.StartInterview(ctx, setup)
	case "3":
		if err := a.controller.LoadHistory(ctx); err == nil {
			a.renderHistory()
		}
	case "4":
		_ = a.controller.Logout()
	case "q":
		return true, nil
	}
	return false, nil
}

func (a *App) promptSetup() (entity.InterviewSetup, bool) {
	setup := entity.DefaultSetup()
	role, ok := a.prompt("job role: ")
	if !ok {
		return setup, false
	}
	setup.JobRole = role

	level, ok := a.prompt("experience level (entry/mid/senior) [mid]: ")
	if !ok {
		return setup, false
	}
	if level != "" {
		setup.ExperienceLevel = entity.ExperienceLevel(level)
	}

	kind, ok := a.prompt("interview type (text/voice) [text]: ")
	if !ok {
		return setup, false
	}
	if kind != "" {
		setup.InterviewType = entity.InterviewType(kind)
	}
	return setup, true
}

func (a *App) renderHistory() {
	history := a.controller.Session().History
	if len(history) == 0 {
		fmt.Fprintln(a.out, "No past interviews yet.")
		return
	}
	for _, rec := range history {
		fmt.Fprintf(a.out, "%s  %-10s %s (%s)\n",
			rec.CreatedAt.Format("2006-01-02 15:04"), rec.Status, rec.JobRole, rec.ExperienceLevel)
	}
}

func (a *App) interviewView(ctx context.Context) (bool, error) {
	answer, ok := a.prompt("your answer (or /quit to exit): ")
	if !ok || answer == "/quit" {
		return true, nil
	}
	if err := a.controller.SetAnswer(answer); err != nil {
		return false, nil
	}
	_ = a.controller.SubmitAnswer(ctx)
	return false, nil
}

func (a *App) feedbackView() (bool, error) {
	choice, ok := a.prompt("> ")
	if !ok {
		return true, nil
	}
	switch choice {
	case "1":
		_ = a.controller.FinishReview()
	case "2":
		_ = a.controller.PracticeAgain()
	case "3":
		_ = a.controller.Logout()
	case "q":
		return true, nil
	}
	return false, nil
}

// prompt prints the label and reads one line. ok is false when input is
// exhausted.
func (a *App) prompt(label string) (line string, ok bool) {
	fmt.Fprint(a.out, label)
	if !a.in.Scan() {
		return "", false
	}
	return strings.TrimSpace(a.in.Text()), true
}
