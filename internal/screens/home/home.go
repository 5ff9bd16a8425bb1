package home

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/deimos993/qprep/internal/bank"
	"github.com/deimos993/qprep/internal/config"
	"github.com/deimos993/qprep/internal/router"
	"github.com/deimos993/qprep/internal/screen"
	quizscreen "github.com/deimos993/qprep/internal/screens/quiz"
	"github.com/deimos993/qprep/internal/store"
	"github.com/deimos993/qprep/internal/ui/components"
	"github.com/deimos993/qprep/internal/ui/theme"
)

// HomeScreen lists the loaded question banks and launches attempts.
type HomeScreen struct {
	menu        components.Menu
	library     *bank.Library
	diagnostics []string
}

var _ screen.Screen = (*HomeScreen)(nil)

// New creates the home screen from the loaded library.
func New(lib *bank.Library, st *store.Store, cfg config.Config) *HomeScreen {
	items := make([]components.MenuItem, 0, len(lib.Banks)+1)
	for _, b := range lib.Banks {
		b := b
		items = append(items, components.MenuItem{
			Label:  b.Name,
			Detail: fmt.Sprintf("%d questions", len(b.Questions)),
			Action: func() tea.Cmd {
				return func() tea.Msg {
					return router.PushScreenMsg{
						Screen: quizscreen.New(b, st, cfg),
					}
				}
			},
		})
	}
	items = append(items, components.MenuItem{
		Label: "EXIT",
		Action: func() tea.Cmd {
			return tea.Quit
		},
	})

	return &HomeScreen{
		menu:        components.NewMenu(items),
		library:     lib,
		diagnostics: lib.Diagnostics,
	}
}

func (h *HomeScreen) Init() tea.Cmd {
	return nil
}

func (h *HomeScreen) Update(msg tea.Msg) (screen.Screen, tea.Cmd) {
	var cmd tea.Cmd
	h.menu, cmd = h.menu.Update(msg)
	return h, cmd
}

func (h *HomeScreen) View(width, height int) string {
	var sections []string

	sections = append(sections, theme.Title.Width(width).Render("qprep"))
	sections = append(sections, theme.Subtitle.Width(width).Render("exam practice in your terminal"))

	if len(h.library.Banks) == 0 {
		sections = append(sections, "")
		sections = append(sections, lipgloss.NewStyle().
			Foreground(theme.Error).
			Width(width).
			Align(lipgloss.Center).
			Render("No quizzes available."))
		sections = append(sections, theme.Hint.Width(width).
			Align(lipgloss.Center).
			Render("Place question-bank JSON files in the banks directory and restart."))
	} else {
		sections = append(sections, "")
		sections = append(sections, h.menu.View())
	}

	if n := len(h.diagnostics); n > 0 {
		sections = append(sections, theme.Hint.Render(
			fmt.Sprintf("  %d question(s) skipped during loading; run `qprep validate` for details", n)))
	}

	content := strings.Join(sections, "\n")

	return lipgloss.NewStyle().
		Width(width).
		Height(height).
		AlignVertical(lipgloss.Center).
		Render(content)
}

func (h *HomeScreen) Title() string {
	return "Home"
}
