package exam

import (
	"encoding/json"

	"github.com/mind-engage/certprep/internal/attempt"
	"github.com/mind-engage/certprep/internal/bank"
	"github.com/mind-engage/certprep/internal/grading"
	"github.com/mind-engage/certprep/internal/ordering"
)

// SequencingExercise drives one sequencing PBQ: the learner places every item,
// submits, and the placed order is scored against the correct order.
type SequencingExercise struct {
	pbq      bank.SequencingPBQ
	engine   *ordering.Engine
	order    []string
	notifier Notifier
	status   Status
	score    grading.Score
}

func NewSequencingExercise(pbq bank.SequencingPBQ, n Notifier) *SequencingExercise {
	if n == nil {
		n = discard{}
	}
	x := &SequencingExercise{pbq: pbq, notifier: n}
	x.Restart()
	return x
}

// Restart discards all progress and builds a fresh engine with every item in the pool.
// The previous engine is disabled, and anything it still emits is ignored.
func (x *SequencingExercise) Restart() {
	if x.engine != nil {
		x.engine.SetDisabled(true)
	}
	var e *ordering.Engine
	e = ordering.New(x.pbq.Items, ordering.WithOnOrderChange(func(ids []string) {
		if x.engine == e {
			x.order = ids
		}
	}))
	x.engine = e
	x.order = e.PlacementIDs()
	x.status = StatusInProgress
	x.score = grading.Score{}
}

func (x *SequencingExercise) PBQ() bank.SequencingPBQ { return x.pbq }

// Engine exposes the ordering engine for drag/drop operations. It is disabled
// once the exercise is submitted.
func (x *SequencingExercise) Engine() *ordering.Engine { return x.engine }

// Order is the placed order as last reported by the engine.
func (x *SequencingExercise) Order() []string { return append([]string(nil), x.order...) }

func (x *SequencingExercise) Status() Status { return x.status }

func (x *SequencingExercise) CanSubmit() bool {
	return x.status == StatusInProgress && x.engine.Complete()
}

// Submit scores the placed order, locks the engine and hands the attempt to the
// notifier without waiting on it.
func (x *SequencingExercise) Submit() (grading.Score, error) {
	if x.status == StatusSubmitted {
		return grading.Score{}, ErrSubmitted
	}
	if !x.engine.Complete() {
		return grading.Score{}, ErrIncomplete
	}
	score, err := grading.ScoreSequence(x.order, x.pbq.CorrectOrder)
	if err != nil {
		return grading.Score{}, err
	}
	x.engine.SetDisabled(true)
	x.status = StatusSubmitted
	x.score = score

	answer, _ := json.Marshal(x.order)
	correct := score.IsCorrect
	x.notifier.Notify(attempt.Submission{
		PBQNumber:  x.pbq.Number,
		PBQType:    x.pbq.Type,
		UserAnswer: answer,
		Score:      score.Percent,
		IsCorrect:  &correct,
	})
	return score, nil
}

func (x *SequencingExercise) Score() (grading.Score, bool) {
	return x.score, x.status == StatusSubmitted
}
