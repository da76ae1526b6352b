package questiongen

import (
	"fmt"
	"regexp"
	"slices"
	"strings"
)

var answerSeparator = regexp.MustCompile(`\s+and\s+|,\s*`)

// NormalizeAnswer turns the raw text after "Correct Answer:" into the
// canonical answer set. Sentinel phrases collapse to a single sentinel;
// anything else is split on commas and the word "and", trimmed and
// upper-cased. Order is kept and duplicates are not removed. Labels are
// not checked against any schema; see CheckAnswers for that.
func NormalizeAnswer(raw string) []string {
	s := strings.TrimSpace(raw)

	switch strings.ToLower(s) {
	case "all of the above", "all of above":
		return []string{AllOfTheAbove}
	case "none of the above", "none of above":
		return []string{NoneOfTheAbove}
	}

	parts := answerSeparator.Split(s, -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		out = append(out, strings.ToUpper(p))
	}
	return out
}

// CheckAnswers compares a multiple-choice record's answers with its schema
// and returns human-readable findings. An empty result means the answers
// use only known labels or sentinels and agree with the requested count.
// The findings are advisory: parsing stays lenient.
func CheckAnswers(r Record, s Schema) []string {
	if s.IsBinary() {
		return nil
	}

	known := make(map[string]bool, len(s.Vocabulary())+2)
	for _, l := range s.Vocabulary() {
		known[l] = true
	}
	known[AllOfTheAbove] = true
	known[NoneOfTheAbove] = true

	var findings []string
	for _, a := range r.Answers {
		if !known[a] {
			findings = append(findings, fmt.Sprintf("unknown answer label %q", a))
		}
	}

	k := s.RequiredAnswerCount
	switch {
	case k == 0:
		if !slices.Equal(r.Answers, []string{NoneOfTheAbove}) {
			findings = append(findings, fmt.Sprintf("expected %q", NoneOfTheAbove))
		}
	case k == s.ChoiceCount:
		if !slices.Equal(r.Answers, []string{AllOfTheAbove}) {
			findings = append(findings, fmt.Sprintf("expected %q", AllOfTheAbove))
		}
	case len(r.Answers) == 1 && (r.Answers[0] == AllOfTheAbove || r.Answers[0] == NoneOfTheAbove):
		// A sentinel stands in for the whole set.
	case len(r.Answers) != k:
		findings = append(findings, fmt.Sprintf("%d answers given, %d expected", len(r.Answers), k))
	}
	return findings
}
