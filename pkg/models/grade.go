package models

import "fmt"

// ReviewGrade is the user's assessment of recall quality, ordered by
// strength of recall.
type ReviewGrade int

const (
	GradeAgain ReviewGrade = iota + 1 // failed to recall
	GradeHard                         // recalled with significant effort
	GradeGood                         // recalled with some effort
	GradeEasy                         // recalled effortlessly
)

var gradeNames = map[ReviewGrade]string{
	GradeAgain: "again",
	GradeHard:  "hard",
	GradeGood:  "good",
	GradeEasy:  "easy",
}

// IsValid reports whether g is one of the four defined grades.
func (g ReviewGrade) IsValid() bool {
	return g >= GradeAgain && g <= GradeEasy
}

// String returns the lowercase grade name, or "grade(n)" for invalid values.
func (g ReviewGrade) String() string {
	if name, ok := gradeNames[g]; ok {
		return name
	}
	return fmt.Sprintf("grade(%d)", int(g))
}

// MarshalText implements encoding.TextMarshaler.
func (g ReviewGrade) MarshalText() ([]byte, error) {
	if !g.IsValid() {
		return nil, fmt.Errorf("invalid review grade: %d", int(g))
	}
	return []byte(gradeNames[g]), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (g *ReviewGrade) UnmarshalText(text []byte) error {
	v, err := ParseReviewGrade(string(text))
	if err != nil {
		return err
	}
	*g = v
	return nil
}

// ParseReviewGrade converts a grade name to its ReviewGrade value.
func ParseReviewGrade(s string) (ReviewGrade, error) {
	for g, name := range gradeNames {
		if name == s {
			return g, nil
		}
	}
	return 0, fmt.Errorf("invalid review grade: %q", s)
}
