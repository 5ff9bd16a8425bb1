package bank

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Report holds the outcome of validating one source document. Diagnostics are
// plain strings so callers can surface them together across sources; a
// failing question never aborts the batch.
type Report struct {
	Questions   []Question
	Diagnostics []string
}

// Validate checks a parsed source document and converts every acceptable
// element into a canonical Question. Each element is validated independently:
// a malformed question contributes diagnostics and is excluded, the rest of
// the document is still accepted.
func Validate(raw any, source string) Report {
	var rep Report

	elements, ok := raw.([]any)
	if !ok {
		rep.Diagnostics = append(rep.Diagnostics,
			fmt.Sprintf("%s: document is not an array of questions", source))
		return rep
	}
	if len(elements) == 0 {
		rep.Diagnostics = append(rep.Diagnostics,
			fmt.Sprintf("%s: document contains no questions", source))
		return rep
	}

	for i, el := range elements {
		prefix := fmt.Sprintf("%s: question %d", source, i+1)

		if msgs := schemaDiagnostics(el); len(msgs) > 0 {
			for _, m := range msgs {
				rep.Diagnostics = append(rep.Diagnostics, prefix+": "+m)
			}
			continue
		}

		q, diags := convertQuestion(el)
		if len(diags) > 0 {
			for _, d := range diags {
				rep.Diagnostics = append(rep.Diagnostics, prefix+": "+d)
			}
			continue
		}
		rep.Questions = append(rep.Questions, q)
	}

	return rep
}

// convertQuestion turns one schema-valid element into a canonical Question.
// Returns conversion diagnostics instead of a question when the element
// breaks an invariant the schema cannot express.
func convertQuestion(el any) (Question, []string) {
	b, err := json.Marshal(el)
	if err != nil {
		return Question{}, []string{fmt.Sprintf("re-encode element: %v", err)}
	}
	var raw rawQuestion
	if err := json.Unmarshal(b, &raw); err != nil {
		return Question{}, []string{fmt.Sprintf("decode element: %v", err)}
	}

	options, err := decodeOptions(raw.QuestionOption)
	if err != nil {
		return Question{}, []string{err.Error()}
	}

	correctKeys, explanations := decodeAnswers(raw)

	q := Question{
		Number:       decodeNumber(raw.QuestionNumber),
		Text:         strings.TrimSpace(raw.QuestionText),
		Options:      options,
		CorrectKeys:  correctKeys,
		Explanations: explanations,
		Objective:    strings.TrimSpace(raw.LearningObjective),
		ImageRef:     strings.TrimSpace(raw.QuestionImage),
	}

	var diags []string
	known := make(map[string]bool, len(options))
	for _, o := range options {
		if known[o.Key] {
			diags = append(diags, fmt.Sprintf("duplicate option key %q", o.Key))
		}
		known[o.Key] = true
	}
	for _, k := range correctKeys {
		if !known[k] {
			diags = append(diags, fmt.Sprintf("correct key %q is not among the option keys", k))
		}
	}
	if len(diags) > 0 {
		return Question{}, diags
	}
	return q, nil
}

// decodeOptions resolves both question_option encodings into the canonical
// option sequence. Legacy map-shaped options have no inherent order, so their
// keys are sorted for a stable canonical order.
func decodeOptions(raw json.RawMessage) ([]Option, error) {
	var arr []rawOption
	if err := json.Unmarshal(raw, &arr); err == nil {
		options := make([]Option, len(arr))
		for i, o := range arr {
			options[i] = Option{Key: canonicalKey(o.Option), Text: o.OptionText}
		}
		return options, nil
	}

	var m map[string]string
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, fmt.Errorf("question_option has an unsupported shape")
	}
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	options := make([]Option, len(keys))
	for i, k := range keys {
		options[i] = Option{Key: canonicalKey(k), Text: m[k]}
	}
	return options, nil
}

// decodeAnswers derives the correct key set and the merged explanation map.
// A question is multi-answer exactly when answer_option_text is object-shaped
// with more than one entry; its keys are then the correct set. Otherwise the
// single correct key comes from answer_option.
func decodeAnswers(raw rawQuestion) ([]string, map[string]string) {
	explanations := make(map[string]string)

	var correct []string
	var perKey map[string]string
	if len(raw.AnswerOptionText) > 0 && json.Unmarshal(raw.AnswerOptionText, &perKey) == nil && len(perKey) > 1 {
		for k, v := range perKey {
			key := canonicalKey(k)
			correct = append(correct, key)
			explanations[key] = v
		}
		sort.Strings(correct)
	} else {
		key := canonicalKey(raw.AnswerOption)
		correct = []string{key}

		var text string
		if len(raw.AnswerOptionText) > 0 && json.Unmarshal(raw.AnswerOptionText, &text) == nil && text != "" {
			explanations[key] = text
		} else if perKey != nil {
			// Object-shaped with a single entry: still a single-answer
			// question, keep the entry as that key's explanation.
			for k, v := range perKey {
				explanations[canonicalKey(k)] = v
			}
		}
	}

	var wrong map[string]string
	if len(raw.NoAnswerOptionText) > 0 && json.Unmarshal(raw.NoAnswerOptionText, &wrong) == nil {
		for k, v := range wrong {
			key := canonicalKey(k)
			if _, exists := explanations[key]; !exists {
				explanations[key] = v
			}
		}
	}

	if len(explanations) == 0 {
		explanations = nil
	}
	return correct, explanations
}

// decodeNumber accepts question_number as a JSON number or numeric string.
func decodeNumber(raw json.RawMessage) int {
	if len(raw) == 0 {
		return 0
	}
	var n int
	if err := json.Unmarshal(raw, &n); err == nil {
		return n
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		if n, err := strconv.Atoi(strings.TrimSpace(s)); err == nil {
			return n
		}
	}
	return 0
}

// canonicalKey normalizes an option key label: trimmed and upper-cased.
func canonicalKey(k string) string {
	return strings.ToUpper(strings.TrimSpace(k))
}
