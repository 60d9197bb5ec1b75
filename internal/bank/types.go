package bank

import (
	"github.com/mind-engage/certprep/internal/grading"
	"github.com/mind-engage/certprep/internal/ordering"
)

// Question is a multiple-choice item. Single-select questions carry CorrectAnswer;
// multi-select ones set MultiSelect and CorrectAnswers.
type Question struct {
	ID                 string   `json:"id"`
	Prompt             string   `json:"prompt"`
	Options            []string `json:"options"`
	CorrectAnswer      *int     `json:"correctAnswer,omitempty"`
	CorrectAnswers     []int    `json:"correctAnswers,omitempty"`
	MultiSelect        bool     `json:"multiSelect,omitempty"`
	RequiredSelections int      `json:"requiredSelections,omitempty"`
	Explanation        string   `json:"explanation,omitempty"`
	Domain             string   `json:"domain,omitempty"`
}

// GradingQ is the grading view of the question.
func (q Question) GradingQ() grading.Q {
	if q.MultiSelect {
		return grading.Q{ID: q.ID, Mode: grading.ModeMulti, AnswerKey: q.CorrectAnswers}
	}
	var key []int
	if q.CorrectAnswer != nil {
		key = []int{*q.CorrectAnswer}
	}
	return grading.Q{ID: q.ID, Mode: grading.ModeSingle, AnswerKey: key}
}

// Selections is how many options a complete answer selects.
func (q Question) Selections() int {
	if !q.MultiSelect {
		return 1
	}
	if q.RequiredSelections > 0 {
		return q.RequiredSelections
	}
	return len(q.CorrectAnswers)
}

// Track is the multiple-choice bank of one certification.
type Track struct {
	Key       string     `json:"key"`     // e.g. "security-plus"
	Title     string     `json:"title"`
	Profile   string     `json:"profile"` // formats profile key
	Questions []Question `json:"questions"`
}

type Acronym struct {
	ID        string `json:"id"`
	Acronym   string `json:"acronym"`
	Expansion string `json:"expansion"`
	Category  string `json:"category,omitempty"`
}

// PBQ kinds.
const (
	KindSequencing = "sequencing"
	KindMatching   = "matching"
	KindConfig     = "config"
)

// SequencingPBQ asks the learner to place Items into CorrectOrder.
type SequencingPBQ struct {
	ID           string          `json:"id"`
	Number       int             `json:"number"`
	Type         string          `json:"type"` // e.g. "firewall", "incident-response"
	Title        string          `json:"title"`
	Scenario     string          `json:"scenario"`
	Items        []ordering.Item `json:"items"`
	CorrectOrder []string        `json:"correctOrder,omitempty"`
}

type MatchPrompt struct {
	ID     string `json:"id"`
	Text   string `json:"text"`
	Answer string `json:"answer,omitempty"`
}

// MatchingPBQ pairs each prompt with one of Choices.
type MatchingPBQ struct {
	ID       string        `json:"id"`
	Number   int           `json:"number"`
	Type     string        `json:"type"`
	Title    string        `json:"title"`
	Scenario string        `json:"scenario"`
	Prompts  []MatchPrompt `json:"prompts"`
	Choices  []string      `json:"choices"`
}

// Key is the prompt id -> correct choice map.
func (m MatchingPBQ) Key() map[string]string {
	out := make(map[string]string, len(m.Prompts))
	for _, p := range m.Prompts {
		out[p.ID] = p.Answer
	}
	return out
}

type ConfigField struct {
	Name    string   `json:"name"`
	Label   string   `json:"label"`
	Options []string `json:"options"`
}

// ConfigPBQ asks for one option per field; Correct holds the expected value per field name.
type ConfigPBQ struct {
	ID       string            `json:"id"`
	Number   int               `json:"number"`
	Type     string            `json:"type"`
	Title    string            `json:"title"`
	Scenario string            `json:"scenario"`
	Fields   []ConfigField     `json:"fields"`
	Correct  map[string]string `json:"correct,omitempty"`
}

// Pack is one bank document as stored on disk or in the blob store.
type Pack struct {
	Tracks     []Track         `json:"tracks,omitempty"`
	Acronyms   []Acronym       `json:"acronyms,omitempty"`
	Sequencing []SequencingPBQ `json:"sequencing,omitempty"`
	Matching   []MatchingPBQ   `json:"matching,omitempty"`
	Config     []ConfigPBQ     `json:"config,omitempty"`
}

// PBQSummary is the list view of any PBQ.
type PBQSummary struct {
	ID     string `json:"id"`
	Kind   string `json:"kind"`
	Number int    `json:"number"`
	Type   string `json:"type"`
	Title  string `json:"title"`
}
