package exam

import (
	"math/rand"
	"time"

	"github.com/mind-engage/certprep/internal/bank"
	"github.com/mind-engage/certprep/internal/formats"
	"github.com/mind-engage/certprep/internal/grading"
)

// Result is the frozen outcome of a submitted Session.
type Result struct {
	Score         grading.Score            `json:"score"`
	Scaled        int                      `json:"scaled"`
	Passed        bool                     `json:"passed"`
	AutoSubmitted bool                     `json:"auto_submitted"`
	Elapsed       time.Duration            `json:"elapsed"`
	Domains       map[string]grading.Score `json:"domains,omitempty"`
}

type SessionOption func(*Session)

// WithProfile scales results with the profile's mapper and adopts its time
// limit and navigation rule.
func WithProfile(p formats.Profile) SessionOption {
	return func(s *Session) {
		s.profile = p
		s.hasProfile = true
		s.limit = time.Duration(p.TimeLimitSec) * time.Second
		s.allowBack = p.AllowBack
	}
}

// WithTimeLimit overrides the time limit; zero means untimed.
func WithTimeLimit(d time.Duration) SessionOption { return func(s *Session) { s.limit = d } }

func WithAllowBack(v bool) SessionOption { return func(s *Session) { s.allowBack = v } }

// WithRequireAll blocks manual submission until every question is answered.
func WithRequireAll() SessionOption { return func(s *Session) { s.requireAll = true } }

func WithGrader(g *grading.Grader) SessionOption { return func(s *Session) { s.grader = g } }

// WithOnSubmit is called once with the result, whether submission was manual or
// triggered by the countdown.
func WithOnSubmit(fn func(Result)) SessionOption { return func(s *Session) { s.onSubmit = fn } }

// Session is the exam simulator and practice quiz controller: a fixed question
// list, free navigation (when allowed), answers kept across navigation and an
// optional countdown that submits on expiry.
type Session struct {
	questions  []bank.Question
	byID       map[string]int
	answers    map[string][]int
	cur        int
	status     Status
	profile    formats.Profile
	hasProfile bool
	limit      time.Duration
	allowBack  bool
	requireAll bool
	countdown  *Countdown
	grader     *grading.Grader
	onSubmit   func(Result)
	result     Result
}

func NewSession(questions []bank.Question, opts ...SessionOption) *Session {
	s := &Session{
		questions: append([]bank.Question(nil), questions...),
		byID:      make(map[string]int, len(questions)),
		answers:   map[string][]int{},
		status:    StatusNotStarted,
		allowBack: true,
	}
	for i, q := range s.questions {
		s.byID[q.ID] = i
	}
	for _, o := range opts {
		o(s)
	}
	if s.grader == nil {
		s.grader = grading.NewDefaultGrader()
	}
	return s
}

// DrawExam samples a full simulation for track under profile: profile.Questions
// items (or the whole bank when smaller) in random order.
func DrawExam(rng *rand.Rand, track bank.Track, p formats.Profile, opts ...SessionOption) *Session {
	qs := Sample(rng, track.Questions, p.Questions)
	return NewSession(qs, append([]SessionOption{WithProfile(p), WithRequireAll()}, opts...)...)
}

func (s *Session) Start(now time.Time) error {
	switch s.status {
	case StatusInProgress:
		return ErrStarted
	case StatusSubmitted:
		return ErrSubmitted
	}
	s.status = StatusInProgress
	if s.limit > 0 {
		s.countdown = NewCountdown(now, s.limit)
	}
	return nil
}

func (s *Session) Status() Status { return s.status }

func (s *Session) Len() int { return len(s.questions) }

func (s *Session) Index() int { return s.cur }

func (s *Session) Questions() []bank.Question { return append([]bank.Question(nil), s.questions...) }

// Current returns the question under the cursor.
func (s *Session) Current() (bank.Question, bool) {
	if s.cur < 0 || s.cur >= len(s.questions) {
		return bank.Question{}, false
	}
	return s.questions[s.cur], true
}

// Answer records the selected option indexes for a question. An empty selection
// clears the answer.
func (s *Session) Answer(questionID string, selected []int) error {
	if err := s.mutable(); err != nil {
		return err
	}
	i, ok := s.byID[questionID]
	if !ok {
		return ErrUnknownQuestion
	}
	q := s.questions[i]
	if len(selected) == 0 {
		delete(s.answers, questionID)
		return nil
	}
	if len(selected) > q.Selections() {
		return ErrInvalidOption
	}
	seen := map[int]bool{}
	for _, o := range selected {
		if o < 0 || o >= len(q.Options) || seen[o] {
			return ErrInvalidOption
		}
		seen[o] = true
	}
	s.answers[questionID] = append([]int(nil), selected...)
	return nil
}

// Answers returns a copy of the answers so far.
func (s *Session) Answers() map[string][]int {
	out := make(map[string][]int, len(s.answers))
	for k, v := range s.answers {
		out[k] = append([]int(nil), v...)
	}
	return out
}

// Unanswered lists ids of questions without a complete answer, in exam order.
func (s *Session) Unanswered() []string {
	var out []string
	for _, q := range s.questions {
		if len(s.answers[q.ID]) != q.Selections() {
			out = append(out, q.ID)
		}
	}
	return out
}

func (s *Session) Next() bool { return s.GoTo(s.cur + 1) }

func (s *Session) Prev() bool {
	if !s.allowBack {
		return false
	}
	return s.GoTo(s.cur - 1)
}

// GoTo moves the cursor. Backward moves are refused when navigation back is off.
func (s *Session) GoTo(i int) bool {
	if s.status != StatusInProgress || i < 0 || i >= len(s.questions) || i == s.cur {
		return false
	}
	if i < s.cur && !s.allowBack {
		return false
	}
	s.cur = i
	return true
}

// Remaining is the countdown's remaining time; untimed sessions report 0, false.
func (s *Session) Remaining(now time.Time) (time.Duration, bool) {
	if s.countdown == nil {
		return 0, false
	}
	return s.countdown.Remaining(now), true
}

// Tick submits the session when its countdown has run out. It reports whether
// this call did so.
func (s *Session) Tick(now time.Time) (Result, bool) {
	if s.status != StatusInProgress || s.countdown == nil || !s.countdown.Expired(now) {
		return Result{}, false
	}
	return s.finish(now, true), true
}

func (s *Session) CanSubmit() bool {
	if s.status != StatusInProgress {
		return false
	}
	return !s.requireAll || len(s.Unanswered()) == 0
}

func (s *Session) Submit(now time.Time) (Result, error) {
	if err := s.mutable(); err != nil {
		return Result{}, err
	}
	if s.countdown != nil && s.countdown.Expired(now) {
		return s.finish(now, true), nil
	}
	if !s.CanSubmit() {
		return Result{}, ErrIncomplete
	}
	return s.finish(now, false), nil
}

// Result returns the submitted result.
func (s *Session) Result() (Result, bool) {
	return s.result, s.status == StatusSubmitted
}

func (s *Session) mutable() error {
	switch s.status {
	case StatusNotStarted:
		return ErrNotStarted
	case StatusSubmitted:
		return ErrSubmitted
	}
	return nil
}

func (s *Session) finish(now time.Time, auto bool) Result {
	qs := make([]grading.Q, len(s.questions))
	byDomain := map[string][]grading.Q{}
	for i, q := range s.questions {
		qs[i] = q.GradingQ()
		if q.Domain != "" {
			byDomain[q.Domain] = append(byDomain[q.Domain], qs[i])
		}
	}
	r := Result{Score: s.grader.ScoreSelections(qs, s.answers), AutoSubmitted: auto}
	r.Scaled = r.Score.Percent
	if s.hasProfile {
		r.Scaled = formats.ApplyScaling(s.profile.ScaleKey, r.Score.Percent)
		r.Passed = s.profile.Passed(r.Scaled)
	} else {
		r.Passed = r.Score.IsCorrect
	}
	if len(byDomain) > 0 {
		r.Domains = make(map[string]grading.Score, len(byDomain))
		for d, dq := range byDomain {
			r.Domains[d] = s.grader.ScoreSelections(dq, s.answers)
		}
	}
	if s.countdown != nil {
		r.Elapsed = s.countdown.Elapsed(now)
	}
	s.status = StatusSubmitted
	s.result = r
	if s.onSubmit != nil {
		s.onSubmit(r)
	}
	return r
}
