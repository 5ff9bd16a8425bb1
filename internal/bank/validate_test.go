package bank

import (
	"encoding/json"
	"reflect"
	"strings"
	"testing"
)

func parse(t *testing.T, doc string) any {
	t.Helper()
	var v any
	if err := json.Unmarshal([]byte(doc), &v); err != nil {
		t.Fatalf("parse test document: %v", err)
	}
	return v
}

func TestValidateRejectsNonArray(t *testing.T) {
	rep := Validate(parse(t, `{"question_text": "q"}`), "bad.json")
	if len(rep.Questions) != 0 {
		t.Fatalf("got %d questions, want 0", len(rep.Questions))
	}
	if len(rep.Diagnostics) != 1 {
		t.Fatalf("got %d diagnostics, want 1: %v", len(rep.Diagnostics), rep.Diagnostics)
	}
	if !strings.Contains(rep.Diagnostics[0], "not an array") {
		t.Errorf("unexpected diagnostic: %s", rep.Diagnostics[0])
	}
}

func TestValidateRejectsEmptyArray(t *testing.T) {
	rep := Validate(parse(t, `[]`), "empty.json")
	if len(rep.Questions) != 0 || len(rep.Diagnostics) != 1 {
		t.Fatalf("got %d questions / %d diagnostics, want 0 / 1", len(rep.Questions), len(rep.Diagnostics))
	}
}

func TestValidatePartialAcceptance(t *testing.T) {
	doc := `[
		{
			"question_text": "What is static testing?",
			"question_option": [
				{"option": "a", "option_text": "Testing without execution"},
				{"option": "b", "option_text": "Testing with execution"}
			],
			"answer_option": "a",
			"answer_option_text": "Static testing reviews work products without executing them."
		},
		{"question_text": ""},
		{
			"question_text": "Which is a test level?",
			"question_option": [
				{"option": "a", "option_text": "System testing"},
				{"option": "b", "option_text": "Boundary analysis"}
			],
			"answer_option": "a"
		}
	]`

	rep := Validate(parse(t, doc), "src.json")
	if len(rep.Questions) != 2 {
		t.Fatalf("got %d questions, want 2 (diagnostics: %v)", len(rep.Questions), rep.Diagnostics)
	}
	if len(rep.Diagnostics) == 0 {
		t.Fatal("want diagnostics for the malformed question")
	}
	for _, d := range rep.Diagnostics {
		if !strings.HasPrefix(d, "src.json: question 2") {
			t.Errorf("diagnostic missing source/number prefix: %s", d)
		}
	}

	q := rep.Questions[0]
	if q.Text != "What is static testing?" {
		t.Errorf("text = %q", q.Text)
	}
	if !reflect.DeepEqual(q.CorrectKeys, []string{"A"}) {
		t.Errorf("correct keys = %v, want [A]", q.CorrectKeys)
	}
	if q.IsMultiAnswer() {
		t.Error("single-answer question reported as multi-answer")
	}
	if q.Explanations["A"] == "" {
		t.Error("missing explanation for correct key")
	}
}

func TestValidateLegacyMapOptions(t *testing.T) {
	doc := `[{
		"question_text": "Pick one.",
		"question_option": {"b": "second", "a": "first", "c": "third"},
		"answer_option": "b"
	}]`

	rep := Validate(parse(t, doc), "legacy.json")
	if len(rep.Questions) != 1 {
		t.Fatalf("got %d questions, want 1 (diagnostics: %v)", len(rep.Questions), rep.Diagnostics)
	}

	q := rep.Questions[0]
	want := []Option{{Key: "A", Text: "first"}, {Key: "B", Text: "second"}, {Key: "C", Text: "third"}}
	if !reflect.DeepEqual(q.Options, want) {
		t.Errorf("options = %v, want %v", q.Options, want)
	}
	if !reflect.DeepEqual(q.CorrectKeys, []string{"B"}) {
		t.Errorf("correct keys = %v, want [B]", q.CorrectKeys)
	}
}

func TestValidateMultiAnswerDetection(t *testing.T) {
	doc := `[{
		"question_text": "Select TWO options.",
		"question_option": [
			{"option": "a", "option_text": "one"},
			{"option": "b", "option_text": "two"},
			{"option": "c", "option_text": "three"},
			{"option": "d", "option_text": "four"}
		],
		"answer_option": "b",
		"answer_option_text": {"b": "because b", "d": "because d"},
		"no_answer_option_text": {"a": "not a", "c": "not c"}
	}]`

	rep := Validate(parse(t, doc), "multi.json")
	if len(rep.Questions) != 1 {
		t.Fatalf("got %d questions, want 1 (diagnostics: %v)", len(rep.Questions), rep.Diagnostics)
	}

	q := rep.Questions[0]
	if !q.IsMultiAnswer() {
		t.Fatal("want multi-answer question")
	}
	if !reflect.DeepEqual(q.CorrectKeys, []string{"B", "D"}) {
		t.Errorf("correct keys = %v, want [B D]", q.CorrectKeys)
	}
	for _, key := range []string{"A", "B", "C", "D"} {
		if q.Explanations[key] == "" {
			t.Errorf("missing merged explanation for %s", key)
		}
	}
}

func TestValidateSingleEntryExplanationObjectStaysSingle(t *testing.T) {
	doc := `[{
		"question_text": "Pick one.",
		"question_option": [
			{"option": "a", "option_text": "one"},
			{"option": "b", "option_text": "two"}
		],
		"answer_option": "a",
		"answer_option_text": {"a": "only entry"}
	}]`

	rep := Validate(parse(t, doc), "one.json")
	if len(rep.Questions) != 1 {
		t.Fatalf("got %d questions, want 1 (diagnostics: %v)", len(rep.Questions), rep.Diagnostics)
	}
	q := rep.Questions[0]
	if q.IsMultiAnswer() {
		t.Error("one-entry explanation object must not flip the question to multi-answer")
	}
	if q.Explanations["A"] != "only entry" {
		t.Errorf("explanation = %q", q.Explanations["A"])
	}
}

func TestValidateCorrectKeyMustBeAnOption(t *testing.T) {
	doc := `[{
		"question_text": "Broken key.",
		"question_option": [
			{"option": "a", "option_text": "one"},
			{"option": "b", "option_text": "two"}
		],
		"answer_option": "e"
	}]`

	rep := Validate(parse(t, doc), "broken.json")
	if len(rep.Questions) != 0 {
		t.Fatalf("got %d questions, want 0", len(rep.Questions))
	}
	if len(rep.Diagnostics) != 1 || !strings.Contains(rep.Diagnostics[0], `"E"`) {
		t.Errorf("diagnostics = %v", rep.Diagnostics)
	}
}

func TestValidateCarriesMetadata(t *testing.T) {
	doc := `[{
		"question_number": "17",
		"question_text": "Tagged question.",
		"question_image": "images/q17.png",
		"question_option": [
			{"option": "a", "option_text": "one"},
			{"option": "b", "option_text": "two"}
		],
		"answer_option": "a",
		"learning_objective": "FL-2.1.1"
	}]`

	rep := Validate(parse(t, doc), "meta.json")
	if len(rep.Questions) != 1 {
		t.Fatalf("got %d questions, want 1 (diagnostics: %v)", len(rep.Questions), rep.Diagnostics)
	}
	q := rep.Questions[0]
	if q.Number != 17 {
		t.Errorf("number = %d, want 17", q.Number)
	}
	if q.Objective != "FL-2.1.1" {
		t.Errorf("objective = %q", q.Objective)
	}
	if q.ImageRef != "images/q17.png" {
		t.Errorf("image ref = %q", q.ImageRef)
	}
}
