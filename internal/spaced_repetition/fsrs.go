package spaced_repetition

import (
	"math"
	"time"

	"github.com/iqrahapp/iqrah-mobile-sub001/pkg/models"
)

// Retrievability decay curve constants (FSRS-4.5 family):
// R(t, S) = (1 + factor*t/S)^decay, so R(S, S) = 0.9.
const (
	decay  = -0.5
	factor = 19.0 / 81.0
)

// FSRS implements the FSRS-family spaced repetition update rule.
// ApplyReview is a pure function of (state, grade, now): no sampling,
// no interval fuzz, so the same inputs always produce the same schedule.
type FSRS struct {
	// Weights are the 17 model parameters: w[0..3] initial stability per
	// grade, w[4..7] difficulty, w[8..10] recall stability, w[11..14]
	// forget stability, w[15..16] hard penalty / easy bonus.
	Weights [17]float64
	// DesiredRetention is the recall probability targeted when the next
	// interval is computed.
	DesiredRetention float64
	// MaxIntervalDays caps the computed interval.
	MaxIntervalDays int
}

// DefaultWeights are the published FSRS-4.5 defaults.
var DefaultWeights = [17]float64{
	0.4872, 1.4003, 3.7145, 13.8206,
	5.1618, 1.2298, 0.8975, 0.031,
	1.6474, 0.1367, 1.0461,
	2.1072, 0.0793, 0.3246, 1.587,
	0.2272, 2.8755,
}

// Per-grade energy update: the new energy moves from the old value toward
// the grade's target at the grade's approach rate, then clamps to [0, 1].
// Again pulls toward 0 and Easy toward 1, so their delta signs are fixed.
var (
	energyTargets = map[models.ReviewGrade]float64{
		models.GradeAgain: 0.0,
		models.GradeHard:  0.55,
		models.GradeGood:  0.85,
		models.GradeEasy:  1.0,
	}
	energyRates = map[models.ReviewGrade]float64{
		models.GradeAgain: 0.5,
		models.GradeHard:  0.3,
		models.GradeGood:  0.4,
		models.GradeEasy:  0.5,
	}
)

// NewFSRS returns a scheduler with default weights, 90% desired retention
// and a one-year interval cap.
func NewFSRS() *FSRS {
	return &FSRS{
		Weights:          DefaultWeights,
		DesiredRetention: 0.9,
		MaxIntervalDays:  365,
	}
}

// ApplyReview grades a memory state at the given time and returns the
// updated state together with the energy delta it produced.
//
// The caller guarantees a valid grade. A `now` before the last review is
// treated as zero elapsed time rather than an error, to stay tolerant of
// device clock skew.
func (f *FSRS) ApplyReview(state models.MemoryState, grade models.ReviewGrade, now time.Time) (models.MemoryState, float64) {
	next := state

	if state.ReviewCount == 0 {
		next.Stability = f.initStability(grade)
		next.Difficulty = f.initDifficulty(grade)
	} else {
		elapsed := now.Sub(state.LastReviewed).Hours() / 24.0
		if elapsed < 0 {
			elapsed = 0
		}
		r := Retrievability(elapsed, state.Stability)
		next.Stability = f.nextStability(state.Difficulty, state.Stability, r, grade)
		next.Difficulty = f.nextDifficulty(state.Difficulty, grade)
	}

	next.Energy = f.nextEnergy(state.Energy, grade)
	next.LastReviewed = now
	next.Due = now.Add(time.Duration(f.intervalDays(next.Stability)) * 24 * time.Hour)
	next.ReviewCount = state.ReviewCount + 1

	return next, next.Energy - state.Energy
}

// Retrievability estimates the probability of successful recall after
// elapsedDays given the current stability. Monotonically decreasing in
// elapsed time, asymptotically approaching zero.
func Retrievability(elapsedDays, stability float64) float64 {
	if stability <= 0 {
		stability = models.MinStability
	}
	return math.Pow(1+factor*elapsedDays/stability, decay)
}

// intervalDays converts stability into the next whole-day review interval.
func (f *FSRS) intervalDays(stability float64) int {
	ivl := stability / factor * (math.Pow(f.DesiredRetention, 1.0/decay) - 1)
	days := int(math.Round(ivl))
	if days < 1 {
		days = 1
	}
	if days > f.MaxIntervalDays {
		days = f.MaxIntervalDays
	}
	return days
}

// initStability is S0(G) = w[G-1].
func (f *FSRS) initStability(grade models.ReviewGrade) float64 {
	return clampStability(f.Weights[grade-1])
}

// initDifficulty is D0(G) = w[4] - e^(w[5]*(G-1)) + 1.
func (f *FSRS) initDifficulty(grade models.ReviewGrade) float64 {
	return clampDifficulty(f.Weights[4] - math.Exp(f.Weights[5]*float64(grade-1)) + 1)
}

// nextDifficulty applies the graded delta with linear damping and mean
// reversion toward D0(Easy). Again/Hard push difficulty up, Easy down.
func (f *FSRS) nextDifficulty(d float64, grade models.ReviewGrade) float64 {
	deltaD := -f.Weights[6] * (float64(grade) - 3)
	dPrime := d + deltaD*(10-d)/9
	d0Easy := f.Weights[4] - math.Exp(f.Weights[5]*3) + 1
	return clampDifficulty(f.Weights[7]*d0Easy + (1-f.Weights[7])*dPrime)
}

// nextStability grows stability on a successful recall and shrinks it
// substantially on Again. Lower retrievability at review time produces a
// larger increase (desirable difficulty).
func (f *FSRS) nextStability(d, s, r float64, grade models.ReviewGrade) float64 {
	if grade == models.GradeAgain {
		forget := f.Weights[11] *
			math.Pow(d, -f.Weights[12]) *
			(math.Pow(s+1, f.Weights[13]) - 1) *
			math.Exp((1-r)*f.Weights[14])
		return clampStability(math.Min(forget, s))
	}
	hardPenalty := 1.0
	if grade == models.GradeHard {
		hardPenalty = f.Weights[15]
	}
	easyBonus := 1.0
	if grade == models.GradeEasy {
		easyBonus = f.Weights[16]
	}
	grow := 1 + math.Exp(f.Weights[8])*
		(11-d)*
		math.Pow(s, -f.Weights[9])*
		(math.Exp((1-r)*f.Weights[10])-1)*
		hardPenalty*easyBonus
	return clampStability(s * grow)
}

func (f *FSRS) nextEnergy(energy float64, grade models.ReviewGrade) float64 {
	target := energyTargets[grade]
	rate := energyRates[grade]
	return models.ClampEnergy(energy + rate*(target-energy))
}

func clampStability(s float64) float64 {
	return math.Max(s, models.MinStability)
}

func clampDifficulty(d float64) float64 {
	return math.Min(math.Max(d, models.MinDifficulty), models.MaxDifficulty)
}
