// Package drill is the line-oriented terminal front end for the flow
// controllers. Each Run* method reads commands from the input until the
// exercise is submitted or the learner quits.
package drill

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/mind-engage/certprep/internal/exam"
	"github.com/mind-engage/certprep/internal/grading"
	"github.com/mind-engage/certprep/internal/ordering"
)

// ErrQuit is returned when the learner leaves before submitting.
var ErrQuit = errors.New("drill: quit")

type Runner struct {
	in   *bufio.Scanner
	out  io.Writer
	name string
	now  func() time.Time
}

func New(in io.Reader, out io.Writer, displayName string) *Runner {
	return &Runner{in: bufio.NewScanner(in), out: out, name: displayName, now: time.Now}
}

func (r *Runner) printf(format string, args ...any) { fmt.Fprintf(r.out, format, args...) }

// next returns the next non-empty line split into fields.
func (r *Runner) next(prompt string) ([]string, error) {
	for {
		r.printf("%s> ", prompt)
		if !r.in.Scan() {
			if err := r.in.Err(); err != nil {
				return nil, err
			}
			return nil, ErrQuit
		}
		if f := strings.Fields(r.in.Text()); len(f) > 0 {
			if f[0] == "quit" || f[0] == "q" {
				return nil, ErrQuit
			}
			return f, nil
		}
	}
}

func (r *Runner) result(s grading.Score) {
	verdict := "not quite"
	if s.IsCorrect {
		verdict = "perfect"
	}
	r.printf("%s, you scored %d%% (%d/%d), %s.\n", r.name, s.Percent, s.Correct, s.Total, verdict)
}

// RunSequencing drives a sequencing PBQ.
//
//	place <id> [pos]   move from the pool (or within the order) to pos, 1-based; default end
//	pool <id>          send a placed item back to the pool
//	reset | show | submit | quit
func (r *Runner) RunSequencing(x *exam.SequencingExercise) (grading.Score, error) {
	p := x.PBQ()
	r.printf("#%d %s\n%s\n", p.Number, p.Title, p.Scenario)
	for {
		r.showSequence(x.Engine())
		f, err := r.next("seq")
		if err != nil {
			return grading.Score{}, err
		}
		e := x.Engine()
		switch f[0] {
		case "place":
			if len(f) < 2 {
				r.printf("usage: place <id> [pos]\n")
				continue
			}
			pos := -1
			if len(f) > 2 {
				if n, err := strconv.Atoi(f[2]); err == nil {
					pos = n - 1
				}
			}
			if !e.MoveToPlacement(f[1], pos) {
				r.printf("nothing to do for %q\n", f[1])
			}
		case "pool":
			if len(f) < 2 || !e.MoveToPool(f[1]) {
				r.printf("usage: pool <placed id>\n")
			}
		case "reset":
			e.Reset()
		case "show":
		case "submit":
			s, err := x.Submit()
			if errors.Is(err, exam.ErrIncomplete) {
				r.printf("place every item before submitting\n")
				continue
			}
			if err != nil {
				return grading.Score{}, err
			}
			r.result(s)
			r.printf("correct order: %s\n", strings.Join(p.CorrectOrder, ", "))
			return s, nil
		default:
			r.printf("commands: place, pool, reset, show, submit, quit\n")
		}
	}
}

func (r *Runner) showSequence(e *ordering.Engine) {
	r.printf("pool:\n")
	for _, it := range e.Pool() {
		r.printf("  - %s  %s\n", it.ID, describe(it))
	}
	r.printf("order:\n")
	for i, it := range e.Placement() {
		r.printf("  %d. %s  %s\n", i+1, it.ID, describe(it))
	}
}

// describe renders the payload's description (or label) when it has one.
func describe(it ordering.Item) string {
	var p struct {
		Description string `json:"description"`
		Label       string `json:"label"`
	}
	if json.Unmarshal(it.Payload, &p) != nil {
		return ""
	}
	if p.Description != "" {
		return p.Description
	}
	return p.Label
}

// keyed is the shared surface of matching and config exercises.
type keyed interface {
	Set(key, value string) bool
	Choices() map[string]string
	Submit() (grading.Score, error)
}

type keyedField struct {
	key, label string
	options    []string
}

// RunMatching drives a matching PBQ: "set <prompt#> <choice#>", submit, quit.
func (r *Runner) RunMatching(x *exam.MatchingExercise) (grading.Score, error) {
	p := x.PBQ()
	r.printf("#%d %s\n%s\n", p.Number, p.Title, p.Scenario)
	fields := make([]keyedField, len(p.Prompts))
	for i, pr := range p.Prompts {
		fields[i] = keyedField{key: pr.ID, label: pr.Text, options: p.Choices}
	}
	return r.runKeyed(x, fields, p.Key())
}

// RunConfig drives a configuration PBQ: "set <field#> <option#>", submit, quit.
func (r *Runner) RunConfig(x *exam.ConfigExercise) (grading.Score, error) {
	p := x.PBQ()
	r.printf("#%d %s\n%s\n", p.Number, p.Title, p.Scenario)
	fields := make([]keyedField, len(p.Fields))
	for i, f := range p.Fields {
		label := f.Label
		if label == "" {
			label = f.Name
		}
		fields[i] = keyedField{key: f.Name, label: label, options: f.Options}
	}
	return r.runKeyed(x, fields, p.Correct)
}

func (r *Runner) runKeyed(x keyed, fields []keyedField, key map[string]string) (grading.Score, error) {
	for {
		chosen := x.Choices()
		for i, f := range fields {
			r.printf("%d. %s: %s\n", i+1, f.label, orDash(chosen[f.key]))
			for j, o := range f.options {
				r.printf("     %d) %s\n", j+1, o)
			}
		}
		cmd, err := r.next("set")
		if err != nil {
			return grading.Score{}, err
		}
		switch cmd[0] {
		case "set":
			fi, oi, ok := twoIndexes(cmd)
			if !ok || fi >= len(fields) || oi >= len(fields[fi].options) {
				r.printf("usage: set <item#> <option#>\n")
				continue
			}
			x.Set(fields[fi].key, fields[fi].options[oi])
		case "submit":
			s, err := x.Submit()
			if errors.Is(err, exam.ErrIncomplete) {
				r.printf("answer every item before submitting\n")
				continue
			}
			if err != nil {
				return grading.Score{}, err
			}
			r.result(s)
			keys := make([]string, 0, len(key))
			for k := range key {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			for _, k := range keys {
				r.printf("  %s = %s\n", k, key[k])
			}
			return s, nil
		default:
			r.printf("commands: set, submit, quit\n")
		}
	}
}

func twoIndexes(f []string) (int, int, bool) {
	if len(f) < 3 {
		return 0, 0, false
	}
	a, err1 := strconv.Atoi(f[1])
	b, err2 := strconv.Atoi(f[2])
	if err1 != nil || err2 != nil || a < 1 || b < 1 {
		return 0, 0, false
	}
	return a - 1, b - 1, true
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// RunSession drives a practice quiz or exam simulation.
//
//	<n>[,<n>...]   select option numbers for the current question
//	next | prev | goto <n> | submit | quit
func (r *Runner) RunSession(s *exam.Session) (exam.Result, error) {
	if err := s.Start(r.now()); err != nil {
		return exam.Result{}, err
	}
	for {
		if res, done := s.Tick(r.now()); done {
			r.printf("time is up\n")
			r.sessionResult(res)
			return res, nil
		}
		q, _ := s.Current()
		r.printf("\n[%d/%d] %s\n", s.Index()+1, s.Len(), q.Prompt)
		if left, timed := s.Remaining(r.now()); timed {
			r.printf("(%s left)\n", left.Truncate(time.Second))
		}
		picked := map[int]bool{}
		for _, o := range s.Answers()[q.ID] {
			picked[o] = true
		}
		for i, o := range q.Options {
			mark := " "
			if picked[i] {
				mark = "*"
			}
			r.printf(" %s%d) %s\n", mark, i+1, o)
		}
		if q.MultiSelect {
			r.printf("(select %d)\n", q.Selections())
		}

		f, err := r.next("quiz")
		if err != nil {
			return exam.Result{}, err
		}
		switch f[0] {
		case "next", "n":
			s.Next()
		case "prev", "p":
			if !s.Prev() {
				r.printf("cannot go back\n")
			}
		case "goto":
			if len(f) > 1 {
				if n, err := strconv.Atoi(f[1]); err == nil {
					s.GoTo(n - 1)
				}
			}
		case "submit":
			res, err := s.Submit(r.now())
			if errors.Is(err, exam.ErrIncomplete) {
				r.printf("unanswered: %s\n", strings.Join(s.Unanswered(), ", "))
				continue
			}
			if err != nil {
				return exam.Result{}, err
			}
			r.sessionResult(res)
			return res, nil
		default:
			sel, ok := parseSelection(f[0], len(q.Options))
			if !ok {
				r.printf("enter option numbers like 2 or 1,3\n")
				continue
			}
			if err := s.Answer(q.ID, sel); err != nil {
				r.printf("%v\n", err)
				continue
			}
			if q.Selections() == len(sel) {
				s.Next()
			}
		}
	}
}

func parseSelection(tok string, n int) ([]int, bool) {
	var out []int
	for _, p := range strings.Split(tok, ",") {
		i, err := strconv.Atoi(strings.TrimSpace(p))
		if err != nil || i < 1 || i > n {
			return nil, false
		}
		out = append(out, i-1)
	}
	return out, len(out) > 0
}

func (r *Runner) sessionResult(res exam.Result) {
	r.result(res.Score)
	if res.Scaled != res.Score.Percent {
		verdict := "FAIL"
		if res.Passed {
			verdict = "PASS"
		}
		r.printf("scaled score %d: %s\n", res.Scaled, verdict)
	}
	domains := make([]string, 0, len(res.Domains))
	for d := range res.Domains {
		domains = append(domains, d)
	}
	sort.Strings(domains)
	for _, d := range domains {
		ds := res.Domains[d]
		r.printf("  %-45s %3d%% (%d/%d)\n", d, ds.Percent, ds.Correct, ds.Total)
	}
}

// RunAcronyms drives the acronym drill. Answer with an option number or type
// the expansion.
func (r *Runner) RunAcronyms(q *exam.AcronymQuiz) (grading.Score, error) {
	for q.Phase() != exam.PhaseDone {
		it, _ := q.Current()
		r.printf("\n[%d/%d] %s\n", q.Index()+1, q.Len(), it.Acronym.Acronym)
		for i, o := range it.Options {
			r.printf("  %d) %s\n", i+1, o)
		}
		r.printf("acr> ")
		if !r.in.Scan() {
			return grading.Score{}, ErrQuit
		}
		line := strings.TrimSpace(r.in.Text())
		if line == "quit" || line == "q" {
			return grading.Score{}, ErrQuit
		}
		if line == "" {
			continue
		}
		var (
			fb  exam.Feedback
			err error
		)
		if n, convErr := strconv.Atoi(line); convErr == nil {
			fb, err = q.Answer(n - 1)
		} else {
			fb, err = q.AnswerText(line)
		}
		if err != nil {
			r.printf("%v\n", err)
			continue
		}
		if fb.Correct {
			r.printf("correct\n")
		} else {
			r.printf("no, it is %s\n", fb.Expected)
		}
		if err := q.Advance(); err != nil {
			return grading.Score{}, err
		}
	}
	s := q.Score()
	r.result(s)
	return s, nil
}
