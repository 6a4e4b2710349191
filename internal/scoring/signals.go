// Package scoring implements the rule-based task evaluator.
//
// Three independent scorers grade the document, repository and narrative
// signals of a composite description. Their points are summed into a 0-100
// score, classified into a readiness band, and broken down into a
// three-axis analysis. Identical input always yields identical output.
package scoring

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/spf13/cast"
)

// Maximum points per signal. They sum to 100.
const (
	DocumentMax   = 40
	RepositoryMax = 40
	NarrativeMax  = 20
)

// SubScore is the bounded contribution of one signal.
type SubScore struct {
	Points  int
	Max     int
	Reasons []string
}

// Normalized scales the points to 0-100 relative to Max.
func (s SubScore) Normalized() int {
	if s.Points <= 0 || s.Max <= 0 {
		return 0
	}
	return s.Points * 100 / s.Max
}

var objectiveKeywords = []string{"objective", "goal", "purpose", "requirement"}

// ScoreDocument grades extracted document text (40 points max).
func ScoreDocument(text string) SubScore {
	s := SubScore{Max: DocumentMax}
	if text == "" {
		s.Reasons = append(s.Reasons, "No document content provided.")
		return s
	}

	// Word count (30 pts)
	words := len(strings.Fields(text))
	switch {
	case words >= 500:
		s.Points += 30
	case words >= 100:
		s.Points += 20
	case words >= 20:
		s.Points += 10
	default:
		s.Reasons = append(s.Reasons, "Document content too brief.")
	}

	// Structured headings (10 pts)
	if hasHeadings(text) {
		s.Points += 10
	} else {
		s.Reasons = append(s.Reasons, "Missing structured headings in document.")
	}

	return s
}

// hasHeadings reports whether any line is a markdown heading or an
// all-caps line longer than five characters.
func hasHeadings(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "#") {
			return true
		}
		if utf8.RuneCountInString(line) > 5 && isUpper(line) {
			return true
		}
	}
	return false
}

// isUpper reports whether s has at least one cased letter and no lower-case ones.
func isUpper(s string) bool {
	cased := false
	for _, r := range s {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsUpper(r) || unicode.IsTitle(r) {
			cased = true
		}
	}
	return cased
}

// ScoreRepository grades repository metrics (40 points max).
func ScoreRepository(metrics map[string]any) SubScore {
	s := SubScore{Max: RepositoryMax}
	if len(metrics) == 0 {
		s.Reasons = append(s.Reasons, "No repository metrics provided.")
		return s
	}

	if cast.ToBool(metrics["has_readme"]) {
		s.Points += 10
	} else {
		s.Reasons = append(s.Reasons, "Missing README file.")
	}

	if cast.ToBool(metrics["has_tests"]) {
		s.Points += 10
	} else {
		s.Reasons = append(s.Reasons, "Missing tests directory.")
	}

	if cast.ToFloat64(metrics["commit_count"]) > 10 {
		s.Points += 10
	} else {
		s.Reasons = append(s.Reasons, "Low commit history (10 or fewer commits).")
	}

	if cast.ToFloat64(metrics["file_count"]) > 15 {
		s.Points += 10
	} else {
		s.Reasons = append(s.Reasons, "Sparse repository structure.")
	}

	return s
}

// ScoreNarrative grades the free-text description (20 points max).
func ScoreNarrative(text string) SubScore {
	s := SubScore{Max: NarrativeMax}
	if text == "" {
		s.Reasons = append(s.Reasons, "No description provided.")
		return s
	}

	n := utf8.RuneCountInString(text)
	if n < 10 {
		s.Reasons = append(s.Reasons, "Description too short.")
		return s
	}

	// Length (10 pts)
	switch {
	case n >= 200:
		s.Points += 10
	case n >= 50:
		s.Points += 5
	default:
		s.Reasons = append(s.Reasons, "Description needs more detail.")
	}

	// Objective keywords (10 pts)
	lower := strings.ToLower(text)
	found := false
	for _, kw := range objectiveKeywords {
		if strings.Contains(lower, kw) {
			found = true
			break
		}
	}
	if found {
		s.Points += 10
	} else {
		s.Reasons = append(s.Reasons, "Missing clear objectives/requirements.")
	}

	return s
}
