package bank

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// questionSchema is the structural contract one raw question must satisfy
// before conversion to the canonical form is attempted. question_option
// accepts both supported encodings: the array shape and the legacy
// key-to-text map shape.
const questionSchema = `{
	"type": "object",
	"required": ["question_text", "question_option", "answer_option"],
	"properties": {
		"question_text": {"type": "string", "minLength": 1},
		"question_option": {
			"anyOf": [
				{
					"type": "array",
					"minItems": 2,
					"items": {
						"type": "object",
						"required": ["option", "option_text"],
						"properties": {
							"option": {"type": "string", "minLength": 1},
							"option_text": {"type": "string"}
						}
					}
				},
				{"type": "object", "minProperties": 2}
			]
		},
		"answer_option": {"type": "string", "minLength": 1}
	}
}`

var (
	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

// compiledQuestionSchema compiles the question schema once per process.
func compiledQuestionSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(strings.NewReader(questionSchema))
		if err != nil {
			schemaErr = fmt.Errorf("parse question schema: %w", err)
			return
		}

		c := jsonschema.NewCompiler()
		if err := c.AddResource("schema://question.json", doc); err != nil {
			schemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile("schema://question.json")
	})
	return compiledSchema, schemaErr
}

var diagPrinter = message.NewPrinter(language.English)

// schemaDiagnostics validates one raw question element and returns one
// human-readable message per failed leaf check, empty when the element passes.
func schemaDiagnostics(element any) []string {
	sch, err := compiledQuestionSchema()
	if err != nil {
		return []string{err.Error()}
	}

	err = sch.Validate(element)
	if err == nil {
		return nil
	}

	ve, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return []string{err.Error()}
	}

	var msgs []string
	for _, leaf := range leafCauses(ve) {
		loc := "/" + strings.Join(leaf.InstanceLocation, "/")
		msgs = append(msgs, fmt.Sprintf("at %q: %s", loc, leaf.ErrorKind.LocalizedString(diagPrinter)))
	}
	return msgs
}

// leafCauses flattens a validation error tree into its leaf failures.
func leafCauses(ve *jsonschema.ValidationError) []*jsonschema.ValidationError {
	if len(ve.Causes) == 0 {
		return []*jsonschema.ValidationError{ve}
	}
	var leaves []*jsonschema.ValidationError
	for _, c := range ve.Causes {
		leaves = append(leaves, leafCauses(c)...)
	}
	return leaves
}

// rawQuestion mirrors the source document fields of one question. Fields with
// more than one accepted shape stay json.RawMessage and are resolved during
// conversion.
type rawQuestion struct {
	QuestionNumber     json.RawMessage `json:"question_number"`
	QuestionText       string          `json:"question_text"`
	QuestionImage      string          `json:"question_image"`
	QuestionOption     json.RawMessage `json:"question_option"`
	AnswerOption       string          `json:"answer_option"`
	AnswerOptionText   json.RawMessage `json:"answer_option_text"`
	NoAnswerOptionText json.RawMessage `json:"no_answer_option_text"`
	LearningObjective  string          `json:"learning_objective"`
}

// rawOption is one entry of the array-shaped question_option encoding.
type rawOption struct {
	Option     string `json:"option"`
	OptionText string `json:"option_text"`
}
