package main

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/mind-engage/certprep/internal/attempt"
	"github.com/mind-engage/certprep/internal/bank"
	"github.com/mind-engage/certprep/internal/drill"
	"github.com/mind-engage/certprep/internal/exam"
	"github.com/mind-engage/certprep/internal/formats"
)

var drillCmd = &cobra.Command{
	Use:   "drill",
	Short: "Practice in the terminal",
}

// drillEnv bundles what every drill needs. Close waits for pending recorder posts.
type drillEnv struct {
	runner   *drill.Runner
	catalog  *bank.Catalog
	notifier exam.Notifier
	rec      *attempt.HTTPRecorder
	rng      *rand.Rand
}

func (e *drillEnv) Close() {
	if e.rec != nil {
		e.rec.Wait()
	}
}

func newDrillEnv(cmd *cobra.Command) (*drillEnv, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	p, err := openPrefs(cfg)
	if err != nil {
		return nil, err
	}
	c, err := bank.Builtin()
	if err != nil {
		return nil, err
	}
	env := &drillEnv{
		runner:   drill.New(cmd.InOrStdin(), cmd.OutOrStdout(), p.DisplayName()),
		catalog:  c,
		notifier: exam.NotifierFunc(func(attempt.Submission) {}),
		rng:      rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	if offline, _ := cmd.Flags().GetBool("offline"); !offline {
		env.rec = attempt.NewHTTPRecorder(cfg.RecorderURL, attempt.WithRecorderLogger(newLogger(cfg)))
		env.notifier = env.rec
	}
	return env, nil
}

func quitOK(err error) error {
	if errors.Is(err, drill.ErrQuit) {
		return nil
	}
	return err
}

var drillPBQCmd = &cobra.Command{
	Use:   "pbq <id>",
	Short: "Work a performance-based question",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newDrillEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		id := args[0]
		if p, err := env.catalog.Sequencing(id); err == nil {
			_, err = env.runner.RunSequencing(exam.NewSequencingExercise(p, env.notifier))
			return quitOK(err)
		}
		if p, err := env.catalog.Matching(id); err == nil {
			_, err = env.runner.RunMatching(exam.NewMatchingExercise(p, env.notifier))
			return quitOK(err)
		}
		if p, err := env.catalog.Config(id); err == nil {
			_, err = env.runner.RunConfig(exam.NewConfigExercise(p, env.notifier))
			return quitOK(err)
		}
		return fmt.Errorf("pbq %q: %w", id, bank.ErrNotFound)
	},
}

var drillQuizCmd = &cobra.Command{
	Use:   "quiz <track>",
	Short: "Practice quiz, or a timed exam simulation with --exam",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newDrillEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()

		t, err := env.catalog.Track(args[0])
		if err != nil {
			return fmt.Errorf("track %q: %w", args[0], err)
		}
		var s *exam.Session
		if full, _ := cmd.Flags().GetBool("exam"); full {
			p, ok := formats.Lookup(t.Profile)
			if !ok {
				return fmt.Errorf("track %q has no exam profile", t.Key)
			}
			s = exam.DrawExam(env.rng, t, p)
		} else {
			n, _ := cmd.Flags().GetInt("n")
			s = exam.NewSession(exam.Sample(env.rng, t.Questions, n))
		}
		_, err = env.runner.RunSession(s)
		return quitOK(err)
	},
}

var drillAcronymsCmd = &cobra.Command{
	Use:   "acronyms",
	Short: "Acronym drill",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := newDrillEnv(cmd)
		if err != nil {
			return err
		}
		defer env.Close()
		n, _ := cmd.Flags().GetInt("n")
		_, err = env.runner.RunAcronyms(exam.NewAcronymQuiz(env.rng, env.catalog.Acronyms(), n))
		return quitOK(err)
	},
}

func init() {
	drillCmd.PersistentFlags().Bool("offline", false, "Do not report attempts to the recorder")
	drillQuizCmd.Flags().Int("n", 10, "Number of questions")
	drillQuizCmd.Flags().Bool("exam", false, "Full timed simulation using the track's exam profile")
	drillAcronymsCmd.Flags().Int("n", 10, "Number of acronyms")

	drillCmd.AddCommand(drillPBQCmd, drillQuizCmd, drillAcronymsCmd)
}
