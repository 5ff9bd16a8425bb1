package grading

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
)

// Objective is a parsed learning-objective code of the form
// "<track>-<chapter>.<section>.<leaf>", e.g. "FL-1.2.3".
type Objective struct {
	Track   string
	Chapter int
	Section int
	Leaf    int
}

var objectivePattern = regexp.MustCompile(`^([A-Za-z]+)-(\d+)\.(\d+)\.(\d+)$`)

// ParseObjective parses a dotted objective code.
func ParseObjective(code string) (Objective, error) {
	m := objectivePattern.FindStringSubmatch(code)
	if m == nil {
		return Objective{}, fmt.Errorf("malformed objective code %q", code)
	}
	chapter, _ := strconv.Atoi(m[2])
	section, _ := strconv.Atoi(m[3])
	leaf, _ := strconv.Atoi(m[4])
	return Objective{Track: m[1], Chapter: chapter, Section: section, Leaf: leaf}, nil
}

// Code returns the full dotted code.
func (o Objective) Code() string {
	return fmt.Sprintf("%s-%d.%d.%d", o.Track, o.Chapter, o.Section, o.Leaf)
}

// ChapterCode returns the chapter-level prefix, e.g. "FL-1".
func (o Objective) ChapterCode() string {
	return fmt.Sprintf("%s-%d", o.Track, o.Chapter)
}

// RollupChapters aggregates full-code stats at chapter level. Codes that do
// not parse keep their own bucket unchanged.
func RollupChapters(stats map[string]ObjectiveStat) map[string]ObjectiveStat {
	out := make(map[string]ObjectiveStat, len(stats))
	for code, stat := range stats {
		key := code
		if obj, err := ParseObjective(code); err == nil {
			key = obj.ChapterCode()
		}
		agg := out[key]
		agg.Correct += stat.Correct
		agg.Incorrect += stat.Incorrect
		agg.Total += stat.Total
		out[key] = agg
	}
	return out
}

// SortedCodes returns stat keys in stable display order: parseable codes by
// chapter/section/leaf, then the rest alphabetically.
func SortedCodes(stats map[string]ObjectiveStat) []string {
	codes := make([]string, 0, len(stats))
	for code := range stats {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool {
		oi, erri := ParseObjective(codes[i])
		oj, errj := ParseObjective(codes[j])
		switch {
		case erri == nil && errj == nil:
			if oi.Chapter != oj.Chapter {
				return oi.Chapter < oj.Chapter
			}
			if oi.Section != oj.Section {
				return oi.Section < oj.Section
			}
			return oi.Leaf < oj.Leaf
		case erri == nil:
			return true
		case errj == nil:
			return false
		default:
			return codes[i] < codes[j]
		}
	})
	return codes
}
