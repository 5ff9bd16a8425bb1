package components

import (
	"fmt"
	"sort"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/deimos993/qprep/internal/ui/theme"
)

// OptionItem is a single answer option with its key label.
type OptionItem struct {
	Key  string
	Text string
}

// OptionList is an answer selector. In single mode choosing an option
// replaces the previous choice; in multi mode options toggle independently.
type OptionList struct {
	Items  []OptionItem
	Multi  bool
	Cursor int
	chosen map[string]bool
}

// NewOptionList creates an option list with nothing chosen.
func NewOptionList(items []OptionItem, multi bool) OptionList {
	return OptionList{
		Items:  items,
		Multi:  multi,
		chosen: make(map[string]bool),
	}
}

// SetChosen marks the given keys as chosen, replacing any prior choice.
func (o *OptionList) SetChosen(keys []string) {
	o.chosen = make(map[string]bool, len(keys))
	for _, k := range keys {
		o.chosen[k] = true
	}
}

// Chosen returns the chosen keys in sorted order.
func (o OptionList) Chosen() []string {
	keys := make([]string, 0, len(o.chosen))
	for k := range o.chosen {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Init returns nil.
func (o OptionList) Init() tea.Cmd {
	return nil
}

// Update handles cursor movement and selection toggling.
func (o OptionList) Update(msg tea.Msg) (OptionList, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return o, nil
	}

	switch kmsg.String() {
	case "up", "k":
		if o.Cursor > 0 {
			o.Cursor--
		}
	case "down", "j":
		if o.Cursor < len(o.Items)-1 {
			o.Cursor++
		}
	case "space", " ":
		if o.Cursor >= 0 && o.Cursor < len(o.Items) {
			o.toggle(o.Items[o.Cursor].Key)
		}
	}

	return o, nil
}

func (o *OptionList) toggle(key string) {
	if o.chosen == nil {
		o.chosen = make(map[string]bool)
	}
	if o.Multi {
		if o.chosen[key] {
			delete(o.chosen, key)
		} else {
			o.chosen[key] = true
		}
		return
	}
	if o.chosen[key] {
		delete(o.chosen, key)
	} else {
		o.chosen = map[string]bool{key: true}
	}
}

// View renders the option list.
func (o OptionList) View() string {
	var s string
	for i, item := range o.Items {
		prefix := "  "
		if i == o.Cursor {
			prefix = "▸ "
		}

		mark := "( )"
		if o.Multi {
			mark = "[ ]"
		}
		if o.chosen[item.Key] {
			if o.Multi {
				mark = "[x]"
			} else {
				mark = "(•)"
			}
		}

		line := fmt.Sprintf("%s%s %s)  %s", prefix, mark, item.Key, item.Text)

		style := lipgloss.NewStyle().Foreground(theme.Text)
		if o.chosen[item.Key] {
			style = lipgloss.NewStyle().Foreground(theme.Secondary).Bold(true)
		}
		if i == o.Cursor {
			style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
		}

		s += style.Render(line) + "\n"
	}
	return s
}
