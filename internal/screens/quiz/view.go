package quiz

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/deimos993/qprep/internal/quiz"
	"github.com/deimos993/qprep/internal/ui/components"
	"github.com/deimos993/qprep/internal/ui/theme"
)

// lowTimeSeconds is the threshold below which the timer renders in red.
const lowTimeSeconds = 5 * 60

func (s *QuizScreen) View(width, height int) string {
	switch {
	case s.errMsg != "":
		return centerBlock(width, height,
			theme.Incorrect.Render("Could not start the quiz")+"\n\n"+
				theme.Body.Render(s.errMsg))
	case s.pending != nil:
		return s.renderResumePrompt(width, height)
	case s.confirming:
		return s.renderSubmitConfirm(width, height)
	case s.quitConfirm:
		return centerBlock(width, height,
			theme.Warning.Render("Leave the quiz?")+"\n\n"+
				theme.Body.Render("Your progress was saved and can be resumed later."))
	case s.ctrl.Status() == quiz.StatusNotStarted:
		return centerBlock(width, height, theme.Hint.Render("Loading..."))
	}
	return s.renderQuestion(width, height)
}

func (s *QuizScreen) renderResumePrompt(width, height int) string {
	answered := len(s.pending.Answers)
	total := len(s.pending.Questions)

	body := theme.Title.Render("Saved attempt found") + "\n\n" +
		theme.Body.Render(fmt.Sprintf(
			"%d of %d questions answered, %s remaining.",
			answered, total, formatClock(s.pending.RemainingSeconds))) + "\n\n" +
		theme.Hint.Render("Resume where you left off, or start over?")

	return centerBlock(width, height, body)
}

func (s *QuizScreen) renderSubmitConfirm(width, height int) string {
	a := s.ctrl.Attempt()
	answered := s.ctrl.AnsweredCount()
	total := 0
	if a != nil {
		total = len(a.Questions)
	}

	body := theme.Title.Render("Submit your answers?") + "\n\n" +
		theme.Body.Render(fmt.Sprintf("%d of %d questions answered.", answered, total))
	if answered < total {
		body += "\n" + theme.Warning.Render(
			fmt.Sprintf("%d unanswered questions will be marked incorrect.", total-answered))
	}

	return centerBlock(width, height, body)
}

func (s *QuizScreen) renderQuestion(width, height int) string {
	q, index, total, ok := s.ctrl.Current()
	if !ok {
		return centerBlock(width, height, theme.Hint.Render("Loading..."))
	}

	a := s.ctrl.Attempt()
	remaining := 0
	if a != nil {
		remaining = a.RemainingSeconds
	}

	var b strings.Builder

	// Timer bar across the top.
	bar := components.ProgressBar{
		Percent: float64(remaining) / float64(s.cfg.TimeLimitSeconds),
		Low:     remaining < lowTimeSeconds,
		Width:   width - 4,
	}
	b.WriteString("  " + bar.View() + "\n\n")

	header := fmt.Sprintf("Question %d of %d", index+1, total)
	if q.Number > 0 {
		header += theme.Hint.Render(fmt.Sprintf("  (bank #%d)", q.Number))
	}
	if s.ctrl.AnsweredCount() > 0 {
		header += theme.Hint.Render(fmt.Sprintf("   %d answered", s.ctrl.AnsweredCount()))
	}
	b.WriteString("  " + theme.Subtitle.Align(lipgloss.Left).Render(header) + "\n\n")

	if s.jumping {
		b.WriteString("  " + theme.Body.Render("Go to: ") + s.jumpInput.View() + "\n\n")
	}

	questionStyle := lipgloss.NewStyle().
		Foreground(theme.Text).
		Bold(true).
		Width(width - 4)
	b.WriteString("  " + questionStyle.Render(q.Text) + "\n")

	if q.ImageRef != "" {
		b.WriteString("  " + theme.Hint.Render("(see figure: "+q.ImageRef+")") + "\n")
	}
	if q.IsMultiAnswer() {
		b.WriteString("  " + theme.Warning.Render(
			fmt.Sprintf("Select %d answers.", len(q.CorrectKeys))) + "\n")
	}
	b.WriteString("\n")

	b.WriteString(indent(s.options.View(), "  "))

	return b.String()
}

func centerBlock(width, height int, content string) string {
	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		Align(lipgloss.Center).
		AlignVertical(lipgloss.Center).
		Render(content)
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, line := range lines {
		lines[i] = prefix + line
	}
	return strings.Join(lines, "\n") + "\n"
}
