package drill

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mind-engage/certprep/internal/attempt"
	"github.com/mind-engage/certprep/internal/bank"
	"github.com/mind-engage/certprep/internal/exam"
)

func catalog(t *testing.T) *bank.Catalog {
	t.Helper()
	c, err := bank.Builtin()
	require.NoError(t, err)
	return c
}

func TestRunSequencing(t *testing.T) {
	p, err := catalog(t).Sequencing("pbq-firewall")
	require.NoError(t, err)

	var in strings.Builder
	in.WriteString("submit\n")
	for _, id := range p.CorrectOrder {
		in.WriteString("place " + id + "\n")
	}
	in.WriteString("pool " + p.CorrectOrder[0] + "\n")
	in.WriteString("place " + p.CorrectOrder[0] + " 1\n")
	in.WriteString("submit\n")

	var got []attempt.Submission
	x := exam.NewSequencingExercise(p, exam.NotifierFunc(func(s attempt.Submission) { got = append(got, s) }))
	var out bytes.Buffer
	s, err := New(strings.NewReader(in.String()), &out, "Ada").RunSequencing(x)
	require.NoError(t, err)
	assert.Equal(t, 100, s.Percent)
	assert.Contains(t, out.String(), "place every item before submitting")
	assert.Contains(t, out.String(), "Ada, you scored 100%")
	require.Len(t, got, 1)
}

func TestRunConfigQuit(t *testing.T) {
	p, err := catalog(t).Config("pbq-vpn-config")
	require.NoError(t, err)
	x := exam.NewConfigExercise(p, nil)
	_, err = New(strings.NewReader("set 1 4\nquit\n"), &bytes.Buffer{}, "Ada").RunConfig(x)
	assert.ErrorIs(t, err, ErrQuit)
	assert.Equal(t, "AES-256", x.Choices()["encryption"])
}

func TestRunConfigSubmit(t *testing.T) {
	p, err := catalog(t).Config("pbq-vpn-config")
	require.NoError(t, err)
	x := exam.NewConfigExercise(p, nil)
	// encryption AES-256, hashing MD5, dhGroup Group 14, authentication Certificates
	in := "set 1 4\nset 2 1\nset 3 4\nset 9 1\nset 4 2\nsubmit\n"
	var out bytes.Buffer
	s, err := New(strings.NewReader(in), &out, "Ada").RunConfig(x)
	require.NoError(t, err)
	assert.Equal(t, 75, s.Percent)
	assert.Contains(t, out.String(), "usage: set")
}

func TestRunSession(t *testing.T) {
	one, zero := 1, 0
	qs := []bank.Question{
		{ID: "a", Prompt: "first", Options: []string{"x", "y"}, CorrectAnswer: &one},
		{ID: "b", Prompt: "second", Options: []string{"x", "y", "z"}, MultiSelect: true, CorrectAnswers: []int{0, 2}},
		{ID: "c", Prompt: "third", Options: []string{"x", "y"}, CorrectAnswer: &zero},
	}
	s := exam.NewSession(qs, exam.WithRequireAll())
	in := "2\n9\n1,3\nsubmit\n2\nsubmit\n"
	var out bytes.Buffer
	res, err := New(strings.NewReader(in), &out, "Ada").RunSession(s)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Score.Correct)
	assert.Equal(t, 67, res.Score.Percent)
	assert.Contains(t, out.String(), "unanswered: c")
	assert.Contains(t, out.String(), "enter option numbers")
}

func TestRunAcronyms(t *testing.T) {
	items := []exam.AcronymItem{
		{Acronym: bank.Acronym{Acronym: "AES", Expansion: "Advanced Encryption Standard"}, Options: []string{"Advanced Encryption Standard", "b", "c", "d"}, Answer: 0},
		{Acronym: bank.Acronym{Acronym: "MFA", Expansion: "Multifactor Authentication"}, Options: []string{"a", "b", "c", "Multifactor Authentication"}, Answer: 3},
	}
	var out bytes.Buffer
	s, err := New(strings.NewReader("1\nmulti-factor authentication\n"), &out, "Ada").
		RunAcronyms(exam.NewAcronymQuizFromItems(items))
	require.NoError(t, err)
	assert.Equal(t, 2, s.Correct)
}
