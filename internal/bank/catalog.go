// Package bank holds the static question content: multiple-choice tracks, acronym
// items and PBQ scenarios. Content ships as embedded JSON packs and can be extended
// or overridden by packs uploaded to the blob store.
package bank

import (
	"errors"
	"sort"
)

var ErrNotFound = errors.New("bank: not found")

// Catalog is an immutable, merged view of one or more packs.
type Catalog struct {
	tracks     map[string]Track
	acronyms   map[string]Acronym
	sequencing map[string]SequencingPBQ
	matching   map[string]MatchingPBQ
	config     map[string]ConfigPBQ
}

func NewCatalog() *Catalog {
	return &Catalog{
		tracks:     map[string]Track{},
		acronyms:   map[string]Acronym{},
		sequencing: map[string]SequencingPBQ{},
		matching:   map[string]MatchingPBQ{},
		config:     map[string]ConfigPBQ{},
	}
}

// With returns a new catalog with p merged over c. Entries with an existing key or
// id replace the earlier ones.
func (c *Catalog) With(p Pack) *Catalog {
	n := NewCatalog()
	for k, v := range c.tracks {
		n.tracks[k] = v
	}
	for k, v := range c.acronyms {
		n.acronyms[k] = v
	}
	for k, v := range c.sequencing {
		n.sequencing[k] = v
	}
	for k, v := range c.matching {
		n.matching[k] = v
	}
	for k, v := range c.config {
		n.config[k] = v
	}
	for _, t := range p.Tracks {
		n.tracks[t.Key] = t
	}
	for _, a := range p.Acronyms {
		n.acronyms[a.ID] = a
	}
	for _, s := range p.Sequencing {
		n.sequencing[s.ID] = s
	}
	for _, m := range p.Matching {
		n.matching[m.ID] = m
	}
	for _, cf := range p.Config {
		n.config[cf.ID] = cf
	}
	return n
}

func (c *Catalog) Track(key string) (Track, error) {
	t, ok := c.tracks[key]
	if !ok {
		return Track{}, ErrNotFound
	}
	return t, nil
}

// Tracks lists tracks sorted by key.
func (c *Catalog) Tracks() []Track {
	out := make([]Track, 0, len(c.tracks))
	for _, t := range c.tracks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

// Acronyms lists acronym items sorted by acronym.
func (c *Catalog) Acronyms() []Acronym {
	out := make([]Acronym, 0, len(c.acronyms))
	for _, a := range c.acronyms {
		out = append(out, a)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Acronym == out[j].Acronym {
			return out[i].ID < out[j].ID
		}
		return out[i].Acronym < out[j].Acronym
	})
	return out
}

func (c *Catalog) Sequencing(id string) (SequencingPBQ, error) {
	s, ok := c.sequencing[id]
	if !ok {
		return SequencingPBQ{}, ErrNotFound
	}
	return s, nil
}

func (c *Catalog) Matching(id string) (MatchingPBQ, error) {
	m, ok := c.matching[id]
	if !ok {
		return MatchingPBQ{}, ErrNotFound
	}
	return m, nil
}

func (c *Catalog) Config(id string) (ConfigPBQ, error) {
	cf, ok := c.config[id]
	if !ok {
		return ConfigPBQ{}, ErrNotFound
	}
	return cf, nil
}

// PBQs lists every PBQ ordered by number, then id.
func (c *Catalog) PBQs() []PBQSummary {
	out := make([]PBQSummary, 0, len(c.sequencing)+len(c.matching)+len(c.config))
	for _, s := range c.sequencing {
		out = append(out, PBQSummary{ID: s.ID, Kind: KindSequencing, Number: s.Number, Type: s.Type, Title: s.Title})
	}
	for _, m := range c.matching {
		out = append(out, PBQSummary{ID: m.ID, Kind: KindMatching, Number: m.Number, Type: m.Type, Title: m.Title})
	}
	for _, cf := range c.config {
		out = append(out, PBQSummary{ID: cf.ID, Kind: KindConfig, Number: cf.Number, Type: cf.Type, Title: cf.Title})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Number == out[j].Number {
			return out[i].ID < out[j].ID
		}
		return out[i].Number < out[j].Number
	})
	return out
}
