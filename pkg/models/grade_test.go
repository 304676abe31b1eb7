package models

import (
	"testing"
	"time"
)

func TestReviewGradeRoundTrip(t *testing.T) {
	for _, g := range []ReviewGrade{GradeAgain, GradeHard, GradeGood, GradeEasy} {
		text, err := g.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%v): %v", g, err)
		}
		var parsed ReviewGrade
		if err := parsed.UnmarshalText(text); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", text, err)
		}
		if parsed != g {
			t.Errorf("round trip changed %v to %v", g, parsed)
		}
	}
}

func TestReviewGradeInvalid(t *testing.T) {
	if ReviewGrade(0).IsValid() || ReviewGrade(5).IsValid() {
		t.Error("out-of-range grades must be invalid")
	}
	if _, err := ReviewGrade(7).MarshalText(); err == nil {
		t.Error("marshalling an invalid grade should fail")
	}
	if _, err := ParseReviewGrade("perfect"); err == nil {
		t.Error("parsing an unknown grade should fail")
	}
}

func TestNewMemoryStateDefaults(t *testing.T) {
	s := NewMemoryState("u1", "n1", time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC))
	if s.Energy != 0 || s.ReviewCount != 0 {
		t.Errorf("fresh state should start empty, got %+v", s)
	}
	if s.Stability <= 0 {
		t.Errorf("fresh state needs a positive stability seed, got %f", s.Stability)
	}
	if s.Due.Before(s.LastReviewed) {
		t.Errorf("due %v before last reviewed %v", s.Due, s.LastReviewed)
	}
}
