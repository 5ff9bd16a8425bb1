package grading

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/deimos993/qprep/internal/bank"
)

func singleQ(correct string, objective string) Q {
	return Q{
		Text: "q",
		Options: []bank.Option{
			{Key: "A", Text: "first"},
			{Key: "B", Text: "second"},
			{Key: "C", Text: "third"},
			{Key: "D", Text: "fourth"},
		},
		CorrectKeys: []string{correct},
		Objective:   objective,
	}
}

func multiQ(correct ...string) Q {
	q := singleQ("A", "")
	q.CorrectKeys = correct
	return q
}

func TestGradeMixedScenario(t *testing.T) {
	questions := []Q{
		singleQ("A", ""),
		singleQ("B", ""),
		singleQ("C", ""),
		multiQ("B", "D"),
	}
	answers := map[int][]string{
		0: {"A"},        // correct
		1: {"C"},        // wrong
		3: {"D", "B"},   // correct, order must not matter
	}

	res := NewEngine().Grade(questions, answers)

	if res.Score != 2 || res.Total != 4 {
		t.Errorf("score/total = %d/%d, want 2/4", res.Score, res.Total)
	}
	if res.Passed {
		t.Error("4-question attempt cannot reach the pass mark")
	}
	if res.PerQuestion[2].Answered {
		t.Error("question 3 was never answered")
	}
	if res.PerQuestion[2].UserAnswer != "Not answered" {
		t.Errorf("user answer = %q", res.PerQuestion[2].UserAnswer)
	}
	if !res.PerQuestion[3].Correct {
		t.Error("exact multi-answer set must grade correct regardless of order")
	}
}

func TestGradeMultiAnswerStrictness(t *testing.T) {
	questions := []Q{multiQ("A", "C")}

	tests := []struct {
		name    string
		submit  []string
		correct bool
	}{
		{"missing one", []string{"A"}, false},
		{"one extra", []string{"A", "C", "D"}, false},
		{"exact set", []string{"A", "C"}, true},
		{"exact set reordered", []string{"C", "A"}, true},
		{"lower case", []string{"c", "a"}, true},
		{"empty", nil, false},
	}

	e := NewEngine()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := e.Grade(questions, map[int][]string{0: tt.submit})
			if res.PerQuestion[0].Correct != tt.correct {
				t.Errorf("submit %v: correct = %v, want %v", tt.submit, res.PerQuestion[0].Correct, tt.correct)
			}
		})
	}
}

func TestGradePassMarkIsFixed(t *testing.T) {
	e := NewEngine()

	tests := []struct {
		total  int
		score  int
		passed bool
	}{
		{20, 20, false}, // even a perfect short attempt cannot reach 26
		{40, 26, true},
		{40, 25, false},
		{65, 25, false},
		{65, 26, true},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d_of_%d", tt.score, tt.total), func(t *testing.T) {
			questions := make([]Q, tt.total)
			answers := make(map[int][]string)
			for i := range questions {
				questions[i] = singleQ("A", "")
				if i < tt.score {
					answers[i] = []string{"A"}
				} else {
					answers[i] = []string{"B"}
				}
			}
			res := e.Grade(questions, answers)
			if res.Score != tt.score {
				t.Fatalf("score = %d, want %d", res.Score, tt.score)
			}
			if res.Passed != tt.passed {
				t.Errorf("passed = %v, want %v", res.Passed, tt.passed)
			}
		})
	}
}

func TestGradeCaseInsensitiveSingle(t *testing.T) {
	res := NewEngine().Grade([]Q{singleQ("B", "")}, map[int][]string{0: {"b"}})
	if res.Score != 1 {
		t.Error("lower-case submission must match")
	}
}

func TestGradeObjectiveStats(t *testing.T) {
	questions := []Q{
		singleQ("A", "FL-1.1.1"),
		singleQ("A", "FL-1.1.1"),
		singleQ("A", "FL-2.3.1"),
		singleQ("A", ""), // untagged, excluded from the map
	}
	answers := map[int][]string{
		0: {"A"},
		1: {"B"},
		2: {"A"},
		3: {"A"},
	}

	res := NewEngine().Grade(questions, answers)

	want := map[string]ObjectiveStat{
		"FL-1.1.1": {Correct: 1, Incorrect: 1, Total: 2},
		"FL-2.3.1": {Correct: 1, Incorrect: 0, Total: 1},
	}
	if !reflect.DeepEqual(res.ObjectiveStats, want) {
		t.Errorf("objective stats = %v, want %v", res.ObjectiveStats, want)
	}
}

func TestGradeIsIdempotent(t *testing.T) {
	questions := []Q{singleQ("A", "FL-1.1.1"), multiQ("B", "C")}
	answers := map[int][]string{0: {"A"}, 1: {"B"}}

	e := NewEngine()
	first := e.Grade(questions, answers)
	second := e.Grade(questions, answers)
	if !reflect.DeepEqual(first, second) {
		t.Error("grading the same attempt twice must yield identical results")
	}
}

func TestGradeDisplayAnswers(t *testing.T) {
	res := NewEngine().Grade([]Q{singleQ("B", "")}, map[int][]string{0: {"a"}})
	qr := res.PerQuestion[0]
	if qr.UserAnswer != "A) first" {
		t.Errorf("user answer = %q", qr.UserAnswer)
	}
	if qr.CorrectAnswer != "B) second" {
		t.Errorf("correct answer = %q", qr.CorrectAnswer)
	}
}

func TestCustomPassMark(t *testing.T) {
	e := NewEngineWithPassMark(1)
	res := e.Grade([]Q{singleQ("A", "")}, map[int][]string{0: {"A"}})
	if !res.Passed {
		t.Error("custom pass mark not applied")
	}
	if NewEngineWithPassMark(0).PassMark() != PassingScore {
		t.Error("non-positive mark must fall back to the default")
	}
}
