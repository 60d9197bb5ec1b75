package exam

import (
	"encoding/json"
	"slices"

	"github.com/mind-engage/certprep/internal/attempt"
	"github.com/mind-engage/certprep/internal/bank"
	"github.com/mind-engage/certprep/internal/grading"
)

// keyedExercise is a set of keys, each taking one value from its own allowed
// list. Matching and configuration PBQs are both this shape.
type keyedExercise struct {
	number   int
	pbqType  string
	keys     []string
	allowed  map[string][]string
	correct  map[string]string
	chosen   map[string]string
	notifier Notifier
	status   Status
	score    grading.Score
}

func newKeyed(number int, typ string, n Notifier, correct map[string]string) keyedExercise {
	if n == nil {
		n = discard{}
	}
	return keyedExercise{
		number:   number,
		pbqType:  typ,
		allowed:  map[string][]string{},
		correct:  correct,
		chosen:   map[string]string{},
		notifier: n,
		status:   StatusInProgress,
	}
}

func (k *keyedExercise) add(key string, values []string) {
	k.keys = append(k.keys, key)
	k.allowed[key] = values
}

// Set chooses value for key. Unknown keys, disallowed values and submitted
// exercises are no-ops reported as false.
func (k *keyedExercise) Set(key, value string) bool {
	if k.status != StatusInProgress || !slices.Contains(k.allowed[key], value) {
		return false
	}
	if k.chosen[key] == value {
		return false
	}
	k.chosen[key] = value
	return true
}

func (k *keyedExercise) Clear(key string) bool {
	if k.status != StatusInProgress {
		return false
	}
	if _, ok := k.chosen[key]; !ok {
		return false
	}
	delete(k.chosen, key)
	return true
}

// Choices returns a copy of the current selection.
func (k *keyedExercise) Choices() map[string]string {
	out := make(map[string]string, len(k.chosen))
	for key, v := range k.chosen {
		out[key] = v
	}
	return out
}

func (k *keyedExercise) Status() Status { return k.status }

func (k *keyedExercise) CanSubmit() bool {
	return k.status == StatusInProgress && len(k.chosen) == len(k.keys)
}

func (k *keyedExercise) Submit() (grading.Score, error) {
	if k.status == StatusSubmitted {
		return grading.Score{}, ErrSubmitted
	}
	if len(k.chosen) != len(k.keys) {
		return grading.Score{}, ErrIncomplete
	}
	score := grading.ScoreConfig(k.chosen, k.correct)
	k.status = StatusSubmitted
	k.score = score

	answer, _ := json.Marshal(k.chosen)
	correct := score.IsCorrect
	k.notifier.Notify(attempt.Submission{
		PBQNumber:  k.number,
		PBQType:    k.pbqType,
		UserAnswer: answer,
		Score:      score.Percent,
		IsCorrect:  &correct,
	})
	return score, nil
}

func (k *keyedExercise) Restart() {
	k.chosen = map[string]string{}
	k.status = StatusInProgress
	k.score = grading.Score{}
}

// MatchingExercise assigns one choice label to each prompt.
type MatchingExercise struct {
	keyedExercise
	pbq bank.MatchingPBQ
}

func NewMatchingExercise(pbq bank.MatchingPBQ, n Notifier) *MatchingExercise {
	x := &MatchingExercise{keyedExercise: newKeyed(pbq.Number, pbq.Type, n, pbq.Key()), pbq: pbq}
	for _, p := range pbq.Prompts {
		x.add(p.ID, pbq.Choices)
	}
	return x
}

func (x *MatchingExercise) PBQ() bank.MatchingPBQ { return x.pbq }

// Assign is Set under the matching vocabulary.
func (x *MatchingExercise) Assign(promptID, choice string) bool { return x.Set(promptID, choice) }

// ConfigExercise picks one option per configuration field.
type ConfigExercise struct {
	keyedExercise
	pbq bank.ConfigPBQ
}

func NewConfigExercise(pbq bank.ConfigPBQ, n Notifier) *ConfigExercise {
	x := &ConfigExercise{keyedExercise: newKeyed(pbq.Number, pbq.Type, n, pbq.Correct), pbq: pbq}
	for _, f := range pbq.Fields {
		x.add(f.Name, f.Options)
	}
	return x
}

func (x *ConfigExercise) PBQ() bank.ConfigPBQ { return x.pbq }
