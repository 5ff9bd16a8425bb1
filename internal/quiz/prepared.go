package quiz

import (
	"math/rand/v2"

	"github.com/deimos993/qprep/internal/bank"
)

// PreparedQuestion is the per-attempt projection of a bank question: same
// content, freshly shuffled option order. The canonical option order is kept
// so grading and audits can always map back to the source.
type PreparedQuestion struct {
	Number       int               `json:"number,omitempty"`
	Text         string            `json:"text"`
	Options      []bank.Option     `json:"options"`
	OriginalKeys []string          `json:"originalKeys"`
	CorrectKeys  []string          `json:"correctKeys"`
	Explanations map[string]string `json:"explanations,omitempty"`
	Objective    string            `json:"objective,omitempty"`
	ImageRef     string            `json:"imageRef,omitempty"`
}

// IsMultiAnswer reports whether an exact selection set is required.
func (q PreparedQuestion) IsMultiAnswer() bool {
	return len(q.CorrectKeys) > 1
}

// Prepare projects one question for an attempt, shuffling its options with
// the given source. rand.Shuffle is a uniform Fisher-Yates, so every option
// permutation is equally likely.
func Prepare(q bank.Question, rng *rand.Rand) PreparedQuestion {
	options := make([]bank.Option, len(q.Options))
	copy(options, q.Options)
	rng.Shuffle(len(options), func(i, j int) {
		options[i], options[j] = options[j], options[i]
	})

	return PreparedQuestion{
		Number:       q.Number,
		Text:         q.Text,
		Options:      options,
		OriginalKeys: q.OptionKeys(),
		CorrectKeys:  append([]string(nil), q.CorrectKeys...),
		Explanations: q.Explanations,
		Objective:    q.Objective,
		ImageRef:     q.ImageRef,
	}
}

// PrepareAll projects a whole bank for an attempt: the question order is a
// fresh uniform permutation, and each question's options are shuffled
// independently.
func PrepareAll(questions []bank.Question, rng *rand.Rand) []PreparedQuestion {
	prepared := make([]PreparedQuestion, 0, len(questions))
	for _, i := range rng.Perm(len(questions)) {
		prepared = append(prepared, Prepare(questions[i], rng))
	}
	return prepared
}
