package bank

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schema.json
var packSchemaJSON []byte

var (
	ErrInvalidPack = errors.New("bank: invalid pack")

	schemaOnce     sync.Once
	compiledSchema *jsonschema.Schema
	schemaErr      error
)

func packSchema() (*jsonschema.Schema, error) {
	schemaOnce.Do(func() {
		doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(packSchemaJSON))
		if err != nil {
			schemaErr = fmt.Errorf("parse pack schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		const url = "schema://certprep/pack.json"
		if err := c.AddResource(url, doc); err != nil {
			schemaErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiledSchema, schemaErr = c.Compile(url)
	})
	return compiledSchema, schemaErr
}

// DecodePack validates raw against the pack schema and the semantic rules, then
// decodes it.
func DecodePack(raw []byte) (Pack, error) {
	sch, err := packSchema()
	if err != nil {
		return Pack{}, err
	}
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return Pack{}, fmt.Errorf("%w: %v", ErrInvalidPack, err)
	}
	if err := sch.Validate(doc); err != nil {
		return Pack{}, fmt.Errorf("%w: %v", ErrInvalidPack, err)
	}
	var p Pack
	if err := json.Unmarshal(raw, &p); err != nil {
		return Pack{}, fmt.Errorf("%w: %v", ErrInvalidPack, err)
	}
	if err := p.Validate(); err != nil {
		return Pack{}, fmt.Errorf("%w: %v", ErrInvalidPack, err)
	}
	return p, nil
}

// Validate enforces the rules the schema cannot express: answer indexes in range,
// correct orders that are permutations of the items, answers drawn from choices.
func (p Pack) Validate() error {
	for _, t := range p.Tracks {
		seen := map[string]bool{}
		for _, q := range t.Questions {
			if seen[q.ID] {
				return fmt.Errorf("track %s: duplicate question id %s", t.Key, q.ID)
			}
			seen[q.ID] = true
			if err := validateQuestion(q); err != nil {
				return fmt.Errorf("track %s: %w", t.Key, err)
			}
		}
	}
	for _, s := range p.Sequencing {
		ids := map[string]bool{}
		for _, it := range s.Items {
			if ids[it.ID] {
				return fmt.Errorf("sequencing %s: duplicate item id %s", s.ID, it.ID)
			}
			ids[it.ID] = true
		}
		if len(s.CorrectOrder) != len(s.Items) {
			return fmt.Errorf("sequencing %s: correctOrder has %d ids for %d items", s.ID, len(s.CorrectOrder), len(s.Items))
		}
		for _, id := range s.CorrectOrder {
			if !ids[id] {
				return fmt.Errorf("sequencing %s: correctOrder references unknown id %s", s.ID, id)
			}
		}
	}
	for _, m := range p.Matching {
		choices := map[string]bool{}
		for _, c := range m.Choices {
			choices[c] = true
		}
		prompts := map[string]bool{}
		for _, pr := range m.Prompts {
			if prompts[pr.ID] {
				return fmt.Errorf("matching %s: duplicate prompt id %s", m.ID, pr.ID)
			}
			prompts[pr.ID] = true
			if !choices[pr.Answer] {
				return fmt.Errorf("matching %s: prompt %s answer %q is not a choice", m.ID, pr.ID, pr.Answer)
			}
		}
	}
	for _, c := range p.Config {
		names := map[string]bool{}
		for _, f := range c.Fields {
			if names[f.Name] {
				return fmt.Errorf("config %s: duplicate field %s", c.ID, f.Name)
			}
			names[f.Name] = true
		}
		if len(c.Correct) != len(c.Fields) {
			return fmt.Errorf("config %s: %d correct values for %d fields", c.ID, len(c.Correct), len(c.Fields))
		}
		for _, f := range c.Fields {
			want, ok := c.Correct[f.Name]
			if !ok || !contains(f.Options, want) {
				return fmt.Errorf("config %s: field %s has no valid correct value", c.ID, f.Name)
			}
		}
	}
	return nil
}

func validateQuestion(q Question) error {
	n := len(q.Options)
	if q.MultiSelect {
		if len(q.CorrectAnswers) == 0 {
			return fmt.Errorf("question %s: multi-select without correctAnswers", q.ID)
		}
		for _, i := range q.CorrectAnswers {
			if i < 0 || i >= n {
				return fmt.Errorf("question %s: answer index %d out of range", q.ID, i)
			}
		}
		if q.RequiredSelections > 0 && q.RequiredSelections != len(q.CorrectAnswers) {
			return fmt.Errorf("question %s: requiredSelections %d != %d correct answers", q.ID, q.RequiredSelections, len(q.CorrectAnswers))
		}
		return nil
	}
	if q.CorrectAnswer == nil || *q.CorrectAnswer < 0 || *q.CorrectAnswer >= n {
		return fmt.Errorf("question %s: correctAnswer missing or out of range", q.ID)
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
