package grading

import (
	"errors"
	"math"
)

// ErrCardinality is returned when a submitted order and the correct order differ in
// length. Callers gate submission until every item is placed, so this signals a bug
// in the caller rather than a bad answer.
var ErrCardinality = errors.New("grading: submitted and correct sequences differ in length")

// Score is the outcome of one scored submission.
type Score struct {
	Percent   int  `json:"score"`
	Correct   int  `json:"correct"`
	Total     int  `json:"total"`
	IsCorrect bool `json:"isCorrect"`
}

// NewScore builds a Score from a correct/total tally.
func NewScore(correct, total int) Score {
	p := Percent(correct, total)
	return Score{Percent: p, Correct: correct, Total: total, IsCorrect: total > 0 && p == 100}
}

// Percent returns round(100*correct/total), rounding halves away from zero. A zero
// total scores 0.
func Percent(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(100 * float64(correct) / float64(total)))
}

// ScoreSequence compares two id sequences position by position.
func ScoreSequence(user, correct []string) (Score, error) {
	if len(user) != len(correct) {
		return Score{}, ErrCardinality
	}
	n := 0
	for i := range correct {
		if user[i] == correct[i] {
			n++
		}
	}
	return NewScore(n, len(correct)), nil
}

// ScoreConfig counts fields of submitted equal (exact string match) to correct. The
// field set is the keys of correct; extra submitted keys are ignored.
func ScoreConfig(submitted, correct map[string]string) Score {
	n := 0
	for k, want := range correct {
		if got, ok := submitted[k]; ok && got == want {
			n++
		}
	}
	return NewScore(n, len(correct))
}

// Selection modes.
const (
	ModeSingle = "single"
	ModeMulti  = "multi"
)

// Q is the view of a selection question needed for grading.
type Q struct {
	ID        string
	Mode      string
	AnswerKey []int
}

// Strategy decides whether one selection answers a question.
type Strategy interface {
	Correct(q Q, selected []int) bool
}

// Grader routes by question mode to the matching Strategy.
type Grader struct {
	strategies map[string]Strategy
}

type Option func(*Grader)

// WithStrategy registers (or replaces) the strategy for a mode.
func WithStrategy(mode string, s Strategy) Option {
	return func(g *Grader) { g.strategies[mode] = s }
}

// NewDefaultGrader installs the built-in single and exact-set multi strategies.
func NewDefaultGrader(opts ...Option) *Grader {
	g := &Grader{
		strategies: map[string]Strategy{
			ModeSingle: singleStrategy{},
			ModeMulti:  exactSetStrategy{},
		},
	}
	for _, o := range opts {
		o(g)
	}
	return g
}

// Correct grades one question. Unknown modes and unanswered questions are wrong.
func (g *Grader) Correct(q Q, selected []int) bool {
	if len(selected) == 0 {
		return false
	}
	s, ok := g.strategies[q.Mode]
	if !ok {
		return false
	}
	return s.Correct(q, selected)
}

// ScoreSelections scores independent questions; answers maps question id to the
// selected option indexes.
func (g *Grader) ScoreSelections(qs []Q, answers map[string][]int) Score {
	n := 0
	for _, q := range qs {
		if g.Correct(q, answers[q.ID]) {
			n++
		}
	}
	return NewScore(n, len(qs))
}

// --- Strategies ---

type singleStrategy struct{}

func (singleStrategy) Correct(q Q, selected []int) bool {
	return len(selected) == 1 && len(q.AnswerKey) > 0 && selected[0] == q.AnswerKey[0]
}

// exactSetStrategy requires the selection to equal the key as a set. Partial credit
// is not awarded.
type exactSetStrategy struct{}

func (exactSetStrategy) Correct(q Q, selected []int) bool {
	return setEqual(toSet(q.AnswerKey), toSet(selected))
}

// helpers

func toSet(arr []int) map[int]struct{} {
	m := make(map[int]struct{}, len(arr))
	for _, v := range arr {
		m[v] = struct{}{}
	}
	return m
}

func setEqual(a, b map[int]struct{}) bool {
	if len(a) != len(b) {
		return false
	}
	for k := range a {
		if _, ok := b[k]; !ok {
			return false
		}
	}
	return true
}
