package exam

import (
	"math/rand"

	"github.com/mind-engage/certprep/internal/bank"
	"github.com/mind-engage/certprep/internal/grading"
)

// AcronymOptions is the number of choices per drill item.
const AcronymOptions = 4

// Acronym drill phases.
const (
	PhaseAnswering = "answering"
	PhaseFeedback  = "feedback"
	PhaseDone      = "done"
)

// AcronymItem is one drill question: pick the expansion of Acronym.
type AcronymItem struct {
	Acronym bank.Acronym `json:"acronym"`
	Options []string     `json:"options"`
	Answer  int          `json:"answer"`
}

// Feedback is shown after each answer, before Advance.
type Feedback struct {
	Correct  bool   `json:"correct"`
	Expected string `json:"expected"`
}

// AcronymQuiz is strictly linear: each item is answered once, feedback is
// shown, and Advance moves on. It starts immediately and cannot go back.
type AcronymQuiz struct {
	items    []AcronymItem
	cur      int
	phase    string
	correct  int
	last     Feedback
	maxEdit  int
	onFinish func(grading.Score)
}

type AcronymOption func(*AcronymQuiz)

// WithTypoTolerance sets the edit distance accepted by AnswerText.
func WithTypoTolerance(n int) AcronymOption { return func(q *AcronymQuiz) { q.maxEdit = n } }

func WithOnFinish(fn func(grading.Score)) AcronymOption {
	return func(q *AcronymQuiz) { q.onFinish = fn }
}

// NewAcronymQuiz samples n acronyms and builds four-option items whose
// distractors are expansions of other acronyms in pool.
func NewAcronymQuiz(rng *rand.Rand, pool []bank.Acronym, n int, opts ...AcronymOption) *AcronymQuiz {
	return NewAcronymQuizFromItems(DrawAcronymItems(rng, pool, n), opts...)
}

// DrawAcronymItems samples n acronyms from pool and builds their items.
func DrawAcronymItems(rng *rand.Rand, pool []bank.Acronym, n int) []AcronymItem {
	picked := Sample(rng, pool, n)
	items := make([]AcronymItem, 0, len(picked))
	for _, a := range picked {
		items = append(items, buildAcronymItem(rng, a, pool))
	}
	return items
}

func NewAcronymQuizFromItems(items []AcronymItem, opts ...AcronymOption) *AcronymQuiz {
	q := &AcronymQuiz{items: items, phase: PhaseAnswering, maxEdit: 1}
	if len(items) == 0 {
		q.phase = PhaseDone
	}
	for _, o := range opts {
		o(q)
	}
	return q
}

func buildAcronymItem(rng *rand.Rand, a bank.Acronym, pool []bank.Acronym) AcronymItem {
	seen := map[string]bool{a.Expansion: true}
	var others []string
	for _, o := range pool {
		if o.ID == a.ID || seen[o.Expansion] {
			continue
		}
		seen[o.Expansion] = true
		others = append(others, o.Expansion)
	}
	opts := append([]string{a.Expansion}, Sample(rng, others, AcronymOptions-1)...)
	rng.Shuffle(len(opts), func(i, j int) { opts[i], opts[j] = opts[j], opts[i] })
	answer := 0
	for i, o := range opts {
		if o == a.Expansion {
			answer = i
		}
	}
	return AcronymItem{Acronym: a, Options: opts, Answer: answer}
}

func (q *AcronymQuiz) Phase() string { return q.phase }

func (q *AcronymQuiz) Len() int { return len(q.items) }

func (q *AcronymQuiz) Index() int { return q.cur }

// Current is the item being answered or reviewed.
func (q *AcronymQuiz) Current() (AcronymItem, bool) {
	if q.phase == PhaseDone {
		return AcronymItem{}, false
	}
	return q.items[q.cur], true
}

// Answer grades a choice index for the current item and enters feedback.
func (q *AcronymQuiz) Answer(option int) (Feedback, error) {
	if q.phase != PhaseAnswering {
		return Feedback{}, ErrWrongPhase
	}
	it := q.items[q.cur]
	if option < 0 || option >= len(it.Options) {
		return Feedback{}, ErrInvalidOption
	}
	return q.settle(option == it.Answer), nil
}

// AnswerText grades a typed expansion for the current item.
func (q *AcronymQuiz) AnswerText(text string) (Feedback, error) {
	if q.phase != PhaseAnswering {
		return Feedback{}, ErrWrongPhase
	}
	it := q.items[q.cur]
	return q.settle(grading.MatchAcronym(text, it.Acronym.Expansion, q.maxEdit)), nil
}

func (q *AcronymQuiz) settle(ok bool) Feedback {
	if ok {
		q.correct++
	}
	q.last = Feedback{Correct: ok, Expected: q.items[q.cur].Acronym.Expansion}
	q.phase = PhaseFeedback
	return q.last
}

// Advance leaves feedback for the next item, or finishes after the last one.
func (q *AcronymQuiz) Advance() error {
	if q.phase != PhaseFeedback {
		return ErrWrongPhase
	}
	q.cur++
	if q.cur < len(q.items) {
		q.phase = PhaseAnswering
		return nil
	}
	q.phase = PhaseDone
	if q.onFinish != nil {
		q.onFinish(q.Score())
	}
	return nil
}

// Score counts correct answers so far against the quiz length.
func (q *AcronymQuiz) Score() grading.Score {
	return grading.NewScore(q.correct, len(q.items))
}
