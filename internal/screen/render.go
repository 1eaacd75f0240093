package screen

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/net/html"

	"trivia-app/internal/trivia"
)

// decode turns the HTML entities OpenTDB embeds into plain text.
func decode(text string) string {
	return html.UnescapeString(text)
}

func (s *Screen) renderList() {
	questions := s.store.Questions()
	if len(questions) == 0 {
		s.println("No questions loaded. Try 'refresh'.")
		return
	}

	var b strings.Builder
	for idx, question := range questions {
		fmt.Fprintf(&b, "%d. %s", idx+1, decode(question.Text))
		if meta := metadata(question); meta != "" {
			fmt.Fprintf(&b, " [%s]", meta)
		}
		if question.Guessed() {
			fmt.Fprintf(&b, " (guess: %s)", decode(question.Guess()))
		}
		b.WriteString("\n")
	}
	s.print(b.String())
}

func (s *Screen) renderQuestion(number int, question *trivia.Question) {
	var b strings.Builder
	fmt.Fprintf(&b, "\nQ%d: %s\n", number, decode(question.Text))
	if meta := metadata(question); meta != "" {
		fmt.Fprintf(&b, "%s\n", meta)
	}
	b.WriteString("\n")

	guess := question.Guess()
	for idx, answer := range question.AllAnswers() {
		marker := " "
		if question.Guessed() && answer == guess {
			marker = "x"
		}
		fmt.Fprintf(&b, "  [%s] %d. • %s\n", marker, idx+1, decode(answer))
	}
	s.print(b.String())
}

func (s *Screen) renderHistory(ctx context.Context) {
	if s.journal == nil {
		s.println("History is disabled. Set history.path to enable it.")
		return
	}

	entries, err := s.journal.Recent(ctx, s.cfg.HistoryLimit)
	if err != nil {
		s.log.Warn("failed to read answer history", zap.Error(err))
		s.println("Could not read history.")
		return
	}
	if len(entries) == 0 {
		s.println("No answers checked yet.")
		return
	}

	var b strings.Builder
	for _, entry := range entries {
		verdict := "wrong"
		if entry.Correct {
			verdict = "correct"
		}
		fmt.Fprintf(&b, "%s  %-7s  %s -> %s\n",
			entry.CheckedAt.Local().Format(time.DateTime),
			verdict,
			decode(entry.Question),
			decode(entry.Guess),
		)
	}
	s.print(b.String())
}

func metadata(question *trivia.Question) string {
	parts := make([]string, 0, 2)
	if question.Category != "" {
		parts = append(parts, decode(question.Category))
	}
	if question.Difficulty != "" {
		parts = append(parts, question.Difficulty)
	}
	return strings.Join(parts, ", ")
}

func (s *Screen) printHelp() {
	s.print(`Commands:
  refresh                 fetch a new set of questions
  list                    list the current questions
  show <n>                show question n with its answers
  guess <n> <answer>      type an answer, or pick one by number
  check <n>               check the answer for question n
  score                   show how many answers are correct
  history                 show recently checked answers
  help
  exit
`)
}

func (s *Screen) print(text string) {
	s.outMu.Lock()
	defer s.outMu.Unlock()
	fmt.Fprint(s.out, text)
}

func (s *Screen) println(text string) {
	s.print(text + "\n")
}

func (s *Screen) printf(format string, args ...any) {
	s.print(fmt.Sprintf(format, args...))
}
