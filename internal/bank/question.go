package bank

// Option is one answer choice with its canonical upper-cased key.
type Option struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// Question is a fully validated question in canonical form. Both source
// encodings (array-shaped and legacy map-shaped options) resolve into this
// one shape at ingestion; nothing downstream branches on the source encoding.
type Question struct {
	// Number is the source question number when present, 0 otherwise.
	Number int `json:"number,omitempty"`

	Text string `json:"text"`

	// Options preserves the source order. Keys are unique within a question.
	Options []Option `json:"options"`

	// CorrectKeys holds one key for single-answer questions and two or more
	// for multi-answer questions. Every key appears in Options.
	CorrectKeys []string `json:"correctKeys"`

	// Explanations maps option keys to explanation text, merging the
	// correct-option explanations with the why-wrong notes when the source
	// carries them. Empty when the source has neither.
	Explanations map[string]string `json:"explanations,omitempty"`

	// Objective is a dotted learning-objective code such as "FL-1.2.3",
	// empty when the question is untagged.
	Objective string `json:"objective,omitempty"`

	// ImageRef is a source-relative image reference, empty when absent.
	ImageRef string `json:"imageRef,omitempty"`
}

// IsMultiAnswer reports whether the question requires an exact set of
// selections rather than a single one. Always derived from CorrectKeys so the
// two can never disagree.
func (q Question) IsMultiAnswer() bool {
	return len(q.CorrectKeys) > 1
}

// OptionKeys returns the option keys in presentation order.
func (q Question) OptionKeys() []string {
	keys := make([]string, len(q.Options))
	for i, o := range q.Options {
		keys[i] = o.Key
	}
	return keys
}

// OptionText returns the text for an option key, or "" if the key is unknown.
func (q Question) OptionText(key string) string {
	for _, o := range q.Options {
		if o.Key == key {
			return o.Text
		}
	}
	return ""
}

// Bank is one named, non-empty collection of validated questions loaded from
// a single source document.
type Bank struct {
	// ID identifies the bank across restarts; derived from the source file
	// name, stable as long as the file keeps its name.
	ID string `json:"id"`

	Name   string `json:"name"`
	Source string `json:"source"`

	Questions []Question `json:"questions"`
}
