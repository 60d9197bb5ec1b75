package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mind-engage/certprep/internal/bank"
	"github.com/mind-engage/certprep/internal/exam"
	"github.com/mind-engage/certprep/internal/formats"
	"github.com/mind-engage/certprep/internal/grading"
)

const (
	defaultPracticeSize = 10
	defaultAcronymSize  = 10
)

// CatalogSource yields the current question bank.
type CatalogSource interface {
	Catalog() *bank.Catalog
}

type trackSummary struct {
	Key       string           `json:"key"`
	Title     string           `json:"title"`
	Questions int              `json:"questions"`
	Profile   *formats.Profile `json:"profile,omitempty"`
}

// GET /api/tracks
func ListTracksHandler(src CatalogSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tracks := src.Catalog().Tracks()
		out := make([]trackSummary, 0, len(tracks))
		for _, t := range tracks {
			s := trackSummary{Key: t.Key, Title: t.Title, Questions: len(t.Questions)}
			if p, ok := formats.Lookup(t.Profile); ok {
				s.Profile = &p
			}
			out = append(out, s)
		}
		respondJSON(w, http.StatusOK, out)
	}
}

// GET /api/tracks/{track}/questions?n=10
//
// Practice quizzes are scored in the client, so answer keys are included.
func SampleQuestionsHandler(src CatalogSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, ok := trackOr404(w, r, src)
		if !ok {
			return
		}
		n := parseIntDefault(r.URL.Query().Get("n"), defaultPracticeSize)
		if n <= 0 {
			respondError(w, http.StatusBadRequest, "n must be positive")
			return
		}
		respondJSON(w, http.StatusOK, exam.Sample(newRand(), t.Questions, n))
	}
}

// GET /api/tracks/{track}/exam
func DrawExamHandler(src CatalogSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		t, ok := trackOr404(w, r, src)
		if !ok {
			return
		}
		p, ok := formats.Lookup(t.Profile)
		if !ok {
			respondError(w, http.StatusNotFound, "no exam profile for track "+t.Key)
			return
		}
		s := exam.DrawExam(newRand(), t, p)
		lo, hi := formats.Bounds(p.ScaleKey)
		respondJSON(w, http.StatusOK, map[string]any{
			"track":     t.Key,
			"profile":   p,
			"scale":     []int{lo, hi},
			"questions": s.Questions(),
		})
	}
}

func trackOr404(w http.ResponseWriter, r *http.Request, src CatalogSource) (bank.Track, bool) {
	t, err := src.Catalog().Track(chi.URLParam(r, "track"))
	if err != nil {
		respondError(w, http.StatusNotFound, err.Error())
		return bank.Track{}, false
	}
	return t, true
}

// GET /api/acronyms/quiz?n=10
func AcronymQuizHandler(src CatalogSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n := parseIntDefault(r.URL.Query().Get("n"), defaultAcronymSize)
		if n <= 0 {
			respondError(w, http.StatusBadRequest, "n must be positive")
			return
		}
		respondJSON(w, http.StatusOK, exam.DrawAcronymItems(newRand(), src.Catalog().Acronyms(), n))
	}
}

// GET /api/pbqs
func ListPBQsHandler(src CatalogSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, src.Catalog().PBQs())
	}
}

// GET /api/pbqs/{kind}/{id}
//
// The learner view: correct orders and answers are withheld; use the grade
// endpoint for feedback.
func GetPBQHandler(src CatalogSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		c := src.Catalog()
		id := chi.URLParam(r, "id")
		switch chi.URLParam(r, "kind") {
		case bank.KindSequencing:
			p, err := c.Sequencing(id)
			if err != nil {
				respondError(w, http.StatusNotFound, err.Error())
				return
			}
			p.CorrectOrder = nil
			respondJSON(w, http.StatusOK, p)
		case bank.KindMatching:
			p, err := c.Matching(id)
			if err != nil {
				respondError(w, http.StatusNotFound, err.Error())
				return
			}
			prompts := make([]bank.MatchPrompt, len(p.Prompts))
			for i, pr := range p.Prompts {
				prompts[i] = bank.MatchPrompt{ID: pr.ID, Text: pr.Text}
			}
			p.Prompts = prompts
			respondJSON(w, http.StatusOK, p)
		case bank.KindConfig:
			p, err := c.Config(id)
			if err != nil {
				respondError(w, http.StatusNotFound, err.Error())
				return
			}
			p.Correct = nil
			respondJSON(w, http.StatusOK, p)
		default:
			respondError(w, http.StatusNotFound, "unknown pbq kind")
		}
	}
}

type gradeRequest struct {
	Order   []string          `json:"order"`
	Answers map[string]string `json:"answers"`
}

type gradeResponse struct {
	grading.Score
	Expected any `json:"expected"`
}

// POST /api/pbqs/{kind}/{id}/grade
//
// Sequencing takes {"order": [...]} with every item placed; matching and config
// take {"answers": {key: value}} with every key answered. Grading does not record
// an attempt.
func GradePBQHandler(src CatalogSource) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req gradeRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondError(w, http.StatusBadRequest, "bad json")
			return
		}
		c := src.Catalog()
		id := chi.URLParam(r, "id")

		var (
			score    grading.Score
			expected any
			err      error
		)
		switch chi.URLParam(r, "kind") {
		case bank.KindSequencing:
			var p bank.SequencingPBQ
			if p, err = c.Sequencing(id); err == nil {
				x := exam.NewSequencingExercise(p, nil)
				for _, itemID := range req.Order {
					x.Engine().AppendToPlacement(itemID)
				}
				score, err = x.Submit()
				expected = p.CorrectOrder
			}
		case bank.KindMatching:
			var p bank.MatchingPBQ
			if p, err = c.Matching(id); err == nil {
				x := exam.NewMatchingExercise(p, nil)
				for k, v := range req.Answers {
					x.Assign(k, v)
				}
				score, err = x.Submit()
				expected = p.Key()
			}
		case bank.KindConfig:
			var p bank.ConfigPBQ
			if p, err = c.Config(id); err == nil {
				x := exam.NewConfigExercise(p, nil)
				for k, v := range req.Answers {
					x.Set(k, v)
				}
				score, err = x.Submit()
				expected = p.Correct
			}
		default:
			err = bank.ErrNotFound
		}

		switch {
		case errors.Is(err, bank.ErrNotFound):
			respondError(w, http.StatusNotFound, err.Error())
		case errors.Is(err, exam.ErrIncomplete):
			respondError(w, http.StatusBadRequest, "answer incomplete")
		case err != nil:
			respondError(w, http.StatusInternalServerError, err.Error())
		default:
			respondJSON(w, http.StatusOK, gradeResponse{Score: score, Expected: expected})
		}
	}
}
