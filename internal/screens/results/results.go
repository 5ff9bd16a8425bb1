package results

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/deimos993/qprep/internal/grading"
	"github.com/deimos993/qprep/internal/screen"
	"github.com/deimos993/qprep/internal/ui/layout"
	"github.com/deimos993/qprep/internal/ui/theme"
)

// ResultsScreen shows the graded attempt: score, objective breakdown, and a
// scrollable per-question review.
type ResultsScreen struct {
	bankName string
	result   *grading.Result
	offset   int
}

var _ screen.Screen = (*ResultsScreen)(nil)
var _ screen.KeyHintProvider = (*ResultsScreen)(nil)

// New creates a results screen for a graded attempt.
func New(bankName string, res *grading.Result) *ResultsScreen {
	return &ResultsScreen{
		bankName: bankName,
		result:   res,
	}
}

func (r *ResultsScreen) Init() tea.Cmd {
	return nil
}

func (r *ResultsScreen) Title() string {
	return "Results"
}

func (r *ResultsScreen) KeyHints() []layout.KeyHint {
	return []layout.KeyHint{
		{Key: "↑↓", Description: "Scroll"},
		{Key: "Esc", Description: "Home"},
		{Key: "Ctrl+C", Description: "Quit"},
	}
}

func (r *ResultsScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return r, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if r.offset > 0 {
			r.offset--
		}
	case "down", "j":
		r.offset++
	case "pgup":
		r.offset -= 10
		if r.offset < 0 {
			r.offset = 0
		}
	case "pgdown":
		r.offset += 10
	case "home", "g":
		r.offset = 0
	}

	return r, nil
}

func (r *ResultsScreen) View(width, height int) string {
	lines := strings.Split(r.renderAll(width), "\n")

	maxOffset := len(lines) - height
	if maxOffset < 0 {
		maxOffset = 0
	}
	if r.offset > maxOffset {
		r.offset = maxOffset
	}

	end := r.offset + height
	if end > len(lines) {
		end = len(lines)
	}

	return strings.Join(lines[r.offset:end], "\n")
}

func (r *ResultsScreen) renderAll(width int) string {
	var b strings.Builder

	b.WriteString(r.renderVerdict(width))
	b.WriteString("\n")
	b.WriteString(r.renderObjectives())
	b.WriteString("\n")
	b.WriteString(r.renderReview(width))

	return b.String()
}

func (r *ResultsScreen) renderVerdict(width int) string {
	res := r.result

	verdict := theme.Incorrect.Render("FAILED")
	if res.Passed {
		verdict = theme.Correct.Render("PASSED")
	}

	block := theme.Title.Render(r.bankName) + "\n\n" +
		theme.Body.Render(fmt.Sprintf("Score: %d / %d", res.Score, res.Total)) +
		"    " + verdict + "\n"

	return lipgloss.NewStyle().
		Width(width).
		Align(lipgloss.Center).
		Render(block) + "\n"
}

// renderObjectives prints the chapter rollup, then each objective under it.
func (r *ResultsScreen) renderObjectives() string {
	if len(r.result.ObjectiveStats) == 0 {
		return ""
	}

	var b strings.Builder
	b.WriteString("  " + theme.Selected.Render("By learning objective") + "\n\n")

	chapters := grading.RollupChapters(r.result.ObjectiveStats)
	for _, ch := range grading.SortedCodes(chapters) {
		stat := chapters[ch]
		b.WriteString(fmt.Sprintf("  %s%s\n",
			theme.Body.Render(padRight(ch, 12)),
			scoreCell(stat)))

		for _, code := range grading.SortedCodes(r.result.ObjectiveStats) {
			obj, err := grading.ParseObjective(code)
			if err != nil || obj.ChapterCode() != ch {
				continue
			}
			stat := r.result.ObjectiveStats[code]
			b.WriteString(fmt.Sprintf("    %s%s\n",
				theme.Hint.Render(padRight(code, 12)),
				scoreCell(stat)))
		}
	}

	return b.String()
}

func (r *ResultsScreen) renderReview(width int) string {
	var b strings.Builder
	b.WriteString("  " + theme.Selected.Render("Review") + "\n\n")

	textWidth := width - 6
	if textWidth < 20 {
		textWidth = 20
	}

	for _, qr := range r.result.PerQuestion {
		mark := theme.Incorrect.Render("✗")
		if qr.Correct {
			mark = theme.Correct.Render("✓")
		}

		b.WriteString(fmt.Sprintf("  %s %s\n", mark,
			lipgloss.NewStyle().Foreground(theme.Text).Bold(true).Width(textWidth).
				Render(fmt.Sprintf("%d. %s", qr.Index+1, qr.Text))))

		b.WriteString("      " + theme.Hint.Render("Your answer: ") +
			theme.Body.Render(qr.UserAnswer) + "\n")
		if !qr.Correct {
			b.WriteString("      " + theme.Hint.Render("Correct:     ") +
				theme.Correct.Render(qr.CorrectAnswer) + "\n")
		}

		for _, key := range qr.CorrectKeys {
			if expl, ok := qr.Explanations[key]; ok && expl != "" {
				b.WriteString("      " + lipgloss.NewStyle().
					Foreground(theme.TextDim).
					Width(textWidth).
					Render(expl) + "\n")
				break
			}
		}

		b.WriteString("\n")
	}

	return b.String()
}

func scoreCell(stat grading.ObjectiveStat) string {
	style := theme.Correct
	if stat.Incorrect > 0 {
		style = theme.Warning
	}
	if stat.Correct == 0 && stat.Total > 0 {
		style = theme.Incorrect
	}
	return style.Render(fmt.Sprintf("%d/%d", stat.Correct, stat.Total))
}

func padRight(s string, n int) string {
	if len(s) >= n {
		return s + " "
	}
	return s + strings.Repeat(" ", n-len(s))
}
