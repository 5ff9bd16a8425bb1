package bank

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrNoBanks is returned when no source yields a single valid question.
var ErrNoBanks = errors.New("no quizzes available")

// Library is the set of banks that survived validation, plus every
// diagnostic accumulated across all sources.
type Library struct {
	Banks       []Bank
	Diagnostics []string
}

// Bank returns the bank with the given id, or false when unknown.
func (l *Library) Bank(id string) (Bank, bool) {
	for _, b := range l.Banks {
		if b.ID == id {
			return b, true
		}
	}
	return Bank{}, false
}

// Counts returns the landing listing: bank name to question count.
func (l *Library) Counts() map[string]int {
	counts := make(map[string]int, len(l.Banks))
	for _, b := range l.Banks {
		counts[b.Name] = len(b.Questions)
	}
	return counts
}

// LoadDir reads every .json document under dir (non-recursive) and builds a
// Library. A source contributing zero valid questions is excluded entirely.
// Returns ErrNoBanks when nothing survives; diagnostics are still populated
// on the returned Library in that case.
func LoadDir(dir string) (*Library, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return &Library{}, ErrNoBanks
		}
		return nil, fmt.Errorf("read banks dir: %w", err)
	}

	lib := &Library{}
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".json") {
			continue
		}

		data, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			lib.Diagnostics = append(lib.Diagnostics,
				fmt.Sprintf("%s: read failed: %v", e.Name(), err))
			continue
		}

		b, rep := Load(data, e.Name())
		lib.Diagnostics = append(lib.Diagnostics, rep.Diagnostics...)
		if b != nil {
			lib.Banks = append(lib.Banks, *b)
		}
	}

	sort.Slice(lib.Banks, func(i, j int) bool { return lib.Banks[i].Name < lib.Banks[j].Name })

	if len(lib.Banks) == 0 {
		return lib, ErrNoBanks
	}
	return lib, nil
}

// Load parses and validates one source document. Returns nil and a report
// when the source contributes no valid questions.
func Load(data []byte, source string) (*Bank, Report) {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, Report{Diagnostics: []string{
			fmt.Sprintf("%s: invalid JSON: %v", source, err),
		}}
	}

	rep := Validate(raw, source)
	if len(rep.Questions) == 0 {
		return nil, rep
	}

	return &Bank{
		ID:        bankID(source),
		Name:      bankName(source),
		Source:    source,
		Questions: rep.Questions,
	}, rep
}

// bankID derives a stable identifier from the source file name.
func bankID(source string) string {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	return strings.ToLower(strings.ReplaceAll(base, " ", "-"))
}

// bankName derives the display name from the source file name.
func bankName(source string) string {
	base := strings.TrimSuffix(filepath.Base(source), filepath.Ext(source))
	return strings.ReplaceAll(strings.ReplaceAll(base, "_", " "), "-", " ")
}
