package grading

import (
	"sort"
	"strings"

	"github.com/deimos993/qprep/internal/bank"
)

// PassingScore is the number of correct answers required to pass, regardless
// of how many questions the bank holds. Certification-style fixed mark:
// a 20-question bank and a 65-question bank both require 26.
const PassingScore = 26

// Q is the view of a prepared question the engine needs. The option order is
// whatever the attempt presented; grading only ever compares canonical keys.
type Q struct {
	Text         string
	Options      []bank.Option
	CorrectKeys  []string
	Explanations map[string]string
	Objective    string
}

// QuestionResult is the graded outcome of one question, including the
// display-ready answer strings the review screen renders.
type QuestionResult struct {
	Index         int               `json:"index"`
	Text          string            `json:"text"`
	Answered      bool              `json:"answered"`
	Correct       bool              `json:"correct"`
	UserKeys      []string          `json:"userKeys,omitempty"`
	CorrectKeys   []string          `json:"correctKeys"`
	UserAnswer    string            `json:"userAnswer"`
	CorrectAnswer string            `json:"correctAnswer"`
	Explanations  map[string]string `json:"explanations,omitempty"`
	Objective     string            `json:"objective,omitempty"`
}

// ObjectiveStat aggregates results for one learning-objective code.
type ObjectiveStat struct {
	Correct   int `json:"correct"`
	Incorrect int `json:"incorrect"`
	Total     int `json:"total"`
}

// Result is the outcome of grading one attempt.
type Result struct {
	Score          int                      `json:"score"`
	Total          int                      `json:"total"`
	Passed         bool                     `json:"passed"`
	PerQuestion    []QuestionResult         `json:"perQuestion"`
	ObjectiveStats map[string]ObjectiveStat `json:"objectiveStats"`
}

// Engine grades attempts. The pass mark defaults to PassingScore and is
// fixed for the engine's lifetime.
type Engine struct {
	passMark int
}

// NewEngine returns an engine with the standard pass mark.
func NewEngine() *Engine {
	return &Engine{passMark: PassingScore}
}

// NewEngineWithPassMark returns an engine with a custom pass mark. The mark
// stays an absolute count, never a fraction of the total.
func NewEngineWithPassMark(mark int) *Engine {
	if mark <= 0 {
		mark = PassingScore
	}
	return &Engine{passMark: mark}
}

// PassMark returns the engine's absolute pass mark.
func (e *Engine) PassMark() int {
	return e.passMark
}

// Grade compares every submitted answer to its question's correct key set.
// Unanswered questions are counted incorrect, never rejected. The result is
// purely a function of the inputs: grading twice yields identical results.
func (e *Engine) Grade(questions []Q, answers map[int][]string) Result {
	res := Result{
		Total:          len(questions),
		PerQuestion:    make([]QuestionResult, 0, len(questions)),
		ObjectiveStats: make(map[string]ObjectiveStat),
	}

	for i, q := range questions {
		userKeys := normalizeKeys(answers[i])
		correct := isCorrect(q.CorrectKeys, userKeys)

		qr := QuestionResult{
			Index:         i,
			Text:          q.Text,
			Answered:      len(userKeys) > 0,
			Correct:       correct,
			UserKeys:      userKeys,
			CorrectKeys:   append([]string(nil), q.CorrectKeys...),
			UserAnswer:    displayAnswer(q, userKeys),
			CorrectAnswer: displayAnswer(q, q.CorrectKeys),
			Explanations:  q.Explanations,
			Objective:     q.Objective,
		}
		res.PerQuestion = append(res.PerQuestion, qr)

		if correct {
			res.Score++
		}

		// Untagged questions stay out of the objective map entirely.
		if q.Objective != "" {
			stat := res.ObjectiveStats[q.Objective]
			stat.Total++
			if correct {
				stat.Correct++
			} else {
				stat.Incorrect++
			}
			res.ObjectiveStats[q.Objective] = stat
		}
	}

	res.Passed = res.Score >= e.passMark
	return res
}

// isCorrect applies the matching policy: single-answer questions need the one
// matching key, multi-answer questions need the exact set. No partial credit:
// one missing or one extra selection marks the question wrong.
func isCorrect(correctKeys, userKeys []string) bool {
	if len(userKeys) == 0 {
		return false
	}
	if len(correctKeys) == 1 {
		return len(userKeys) == 1 && userKeys[0] == correctKeys[0]
	}
	if len(userKeys) != len(correctKeys) {
		return false
	}
	want := make(map[string]bool, len(correctKeys))
	for _, k := range correctKeys {
		want[k] = true
	}
	for _, k := range userKeys {
		if !want[k] {
			return false
		}
	}
	return true
}

// normalizeKeys upper-cases, dedupes and sorts submitted keys. Empty and
// blank submissions normalize to nil, which grades as unanswered.
func normalizeKeys(keys []string) []string {
	if len(keys) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		k = strings.ToUpper(strings.TrimSpace(k))
		if k == "" || seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return out
}

// displayAnswer renders a key set as "B) text" lines for the review screen.
func displayAnswer(q Q, keys []string) string {
	if len(keys) == 0 {
		return "Not answered"
	}
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if text := optionText(q.Options, k); text != "" {
			parts = append(parts, k+") "+text)
		} else {
			parts = append(parts, k)
		}
	}
	return strings.Join(parts, "\n")
}

func optionText(options []bank.Option, key string) string {
	for _, o := range options {
		if o.Key == key {
			return o.Text
		}
	}
	return ""
}
