package screen

import (
	"bufio"
	"context"
	"errors"
	"io"
	"slices"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"trivia-app/internal/history"
	"trivia-app/internal/trivia"
)

const defaultHistoryLimit = 10

// Journal receives every checked answer. history.Store implements it.
type Journal interface {
	Record(ctx context.Context, entry history.Entry) error
	Recent(ctx context.Context, limit int) ([]history.Entry, error)
}

type Config struct {
	// Prompt prints "> " before reading each command.
	Prompt       bool
	HistoryLimit int
}

// Screen is the interactive question screen. It reads questions straight from
// the store and changes guesses only through Question.SetGuess.
type Screen struct {
	store   *trivia.Store
	journal Journal
	log     *zap.Logger
	cfg     Config

	outMu sync.Mutex
	out   io.Writer

	refreshing atomic.Bool
	inflight   sync.WaitGroup
}

func New(store *trivia.Store, journal Journal, log *zap.Logger, out io.Writer, cfg Config) *Screen {
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.HistoryLimit <= 0 {
		cfg.HistoryLimit = defaultHistoryLimit
	}
	return &Screen{
		store:   store,
		journal: journal,
		log:     log,
		cfg:     cfg,
		out:     out,
	}
}

// Run loads the first question set, then serves commands until exit or EOF.
// A background refresh still running at that point is waited for.
func (s *Screen) Run(ctx context.Context, in io.Reader) error {
	unsubscribe := s.store.Subscribe(func(change trivia.Change) {
		s.log.Debug("question store changed",
			zap.Stringer("event", change.Event),
			zap.Uint64("version", change.Version),
			zap.String("question_id", change.QuestionID),
		)
	})
	defer unsubscribe()
	defer s.inflight.Wait()

	s.println("Trivia")
	if kind, ok := s.Refresh(ctx); ok {
		s.reportRefresh(kind)
	}
	s.printHelp()

	reader := bufio.NewReader(in)
	for {
		if s.cfg.Prompt {
			s.print("\n> ")
		}
		line, err := reader.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}

		line = strings.TrimSpace(line)
		if line != "" {
			if quit := s.handle(ctx, line); quit {
				return nil
			}
		}
		if errors.Is(err, io.EOF) {
			return nil
		}
	}
}

// Refresh refreshes the store unless a refresh started from this screen is
// still in flight, in which case it returns false without doing anything.
func (s *Screen) Refresh(ctx context.Context) (trivia.Kind, bool) {
	if !s.refreshing.CompareAndSwap(false, true) {
		return "", false
	}
	defer s.refreshing.Store(false)
	return s.store.Refresh(ctx), true
}

// Refreshing reports whether a refresh is in flight.
func (s *Screen) Refreshing() bool {
	return s.refreshing.Load()
}

func (s *Screen) startRefresh(ctx context.Context) bool {
	if !s.refreshing.CompareAndSwap(false, true) {
		return false
	}

	s.inflight.Add(1)
	go func() {
		defer s.inflight.Done()
		kind := s.store.Refresh(ctx)
		s.refreshing.Store(false)
		s.reportRefresh(kind)
	}()
	return true
}

func (s *Screen) handle(ctx context.Context, line string) bool {
	args := strings.Fields(line)
	command := strings.ToLower(args[0])

	switch command {
	case "help":
		s.printHelp()
	case "exit", "quit":
		return true
	case "refresh":
		if s.startRefresh(ctx) {
			s.println("Refreshing questions...")
		} else {
			s.println("Already refreshing, please wait.")
		}
	case "list":
		s.renderList()
	case "show":
		question, number, ok := s.questionArg(args, "usage: show <n>")
		if !ok {
			return false
		}
		s.renderQuestion(number, question)
	case "guess":
		if len(args) < 3 {
			s.println("usage: guess <n> <answer number or text>")
			return false
		}
		question, number, ok := s.questionArg(args, "usage: guess <n> <answer number or text>")
		if !ok {
			return false
		}
		answer := resolveAnswer(question, guessText(line))
		question.SetGuess(answer)
		s.printf("Question %d: guessed %s\n", number, decode(answer))
	case "check":
		question, _, ok := s.questionArg(args, "usage: check <n>")
		if !ok {
			return false
		}
		s.checkAnswer(ctx, question)
	case "score":
		score := s.store.Score()
		s.printf("Score: %d/%d correct (%d answered)\n", score.Correct, score.Total, score.Guessed)
	case "history":
		s.renderHistory(ctx)
	default:
		s.println("unknown command. type 'help' for usage.")
	}
	return false
}

func (s *Screen) reportRefresh(kind trivia.Kind) {
	if kind == trivia.KindOK {
		s.printf("Loaded %d questions.\n", s.store.Len())
		return
	}
	if s.store.Len() == 0 {
		s.printf("Could not load questions (%s).\n", kind)
		return
	}
	s.printf("Could not load questions (%s). Keeping the current %d.\n", kind, s.store.Len())
}

func (s *Screen) checkAnswer(ctx context.Context, question *trivia.Question) {
	correct := question.IsCorrect()
	if correct {
		s.println("That is correct!")
	} else {
		s.printf("Wrong! The correct answer is: %s\n", decode(question.CorrectAnswer))
	}

	if s.journal == nil {
		return
	}
	err := s.journal.Record(ctx, history.Entry{
		QuestionID:    question.ID,
		Question:      question.Text,
		Guess:         question.Guess(),
		CorrectAnswer: question.CorrectAnswer,
		Correct:       correct,
	})
	if err != nil {
		s.log.Warn("failed to record answer check", zap.String("question_id", question.ID), zap.Error(err))
	}
}

// questionArg resolves the 1-based question number in args[1].
func (s *Screen) questionArg(args []string, usage string) (*trivia.Question, int, bool) {
	if len(args) < 2 {
		s.println(usage)
		return nil, 0, false
	}

	number, err := strconv.Atoi(args[1])
	if err != nil {
		s.println(usage)
		return nil, 0, false
	}

	question, ok := s.store.At(number - 1)
	if !ok {
		if s.store.Len() == 0 {
			s.println("No questions loaded. Try 'refresh'.")
		} else {
			s.printf("No question %d. Pick 1-%d.\n", number, s.store.Len())
		}
		return nil, 0, false
	}
	return question, number, true
}

// guessText returns everything after "guess <n>" with inner spacing intact.
func guessText(line string) string {
	rest := strings.TrimSpace(line)
	for i := 0; i < 2; i++ {
		idx := strings.IndexFunc(rest, isSpace)
		if idx < 0 {
			return ""
		}
		rest = strings.TrimSpace(rest[idx:])
	}
	return rest
}

func isSpace(r rune) bool {
	return r == ' ' || r == '\t'
}

// resolveAnswer maps a choice to an answer. A choice that spells out one of
// the answers is taken as is, so numeric answers are never read as positions.
// Otherwise an answer number selects by position and anything else is a
// free-text guess.
func resolveAnswer(question *trivia.Question, choice string) string {
	answers := question.AllAnswers()
	if slices.Contains(answers, choice) {
		return choice
	}
	if idx, err := strconv.Atoi(choice); err == nil && idx >= 1 && idx <= len(answers) {
		return answers[idx-1]
	}
	return choice
}
