package trivia

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"
)

// Event identifies what changed in the store.
type Event int

const (
	EventReplaced Event = iota + 1
	EventGuessed
)

func (e Event) String() string {
	switch e {
	case EventReplaced:
		return "replaced"
	case EventGuessed:
		return "guessed"
	default:
		return "unknown"
	}
}

// Change is delivered to subscribers after every observable mutation.
type Change struct {
	Event      Event
	Version    uint64
	QuestionID string
}

// Score summarises the guesses in the current collection.
type Score struct {
	Total   int
	Guessed int
	Correct int
}

type collection struct {
	questions []*Question
}

// state pairs a collection with the version it was published under so both
// are read and written in one atomic operation.
type state struct {
	set     *collection
	version uint64
}

// Store owns the current question collection. The collection is replaced as a
// whole on every successful refresh; questions never survive a replacement.
type Store struct {
	source  Source
	log     *zap.Logger
	shuffle ShuffleFunc

	current atomic.Pointer[state]

	subMu       sync.Mutex
	subscribers map[int]func(Change)
	nextSubID   int
}

type Option func(*Store)

// WithShuffle sets the function used to order answers when a question is
// built. Passing nil keeps the correct answer first.
func WithShuffle(shuffle ShuffleFunc) Option {
	return func(s *Store) {
		s.shuffle = shuffle
	}
}

// WithLogger sets the sink refresh failures are reported to.
func WithLogger(log *zap.Logger) Option {
	return func(s *Store) {
		if log != nil {
			s.log = log
		}
	}
}

func NewStore(source Source, opts ...Option) *Store {
	s := &Store{
		source:      source,
		log:         zap.NewNop(),
		shuffle:     rand.Shuffle,
		subscribers: make(map[int]func(Change)),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.current.Store(&state{set: &collection{}})
	return s
}

// Questions returns the current collection in server order. The slice is a
// copy; the questions themselves are shared with the store.
func (s *Store) Questions() []*Question {
	questions, _ := s.Snapshot()
	return questions
}

// Snapshot returns the current collection together with the version it was
// observed at. Both values always belong to the same state.
func (s *Store) Snapshot() ([]*Question, uint64) {
	cur := s.current.Load()
	questions := make([]*Question, len(cur.set.questions))
	copy(questions, cur.set.questions)
	return questions, cur.version
}

func (s *Store) Len() int {
	return len(s.current.Load().set.questions)
}

// At returns the question at position idx of the current collection.
func (s *Store) At(idx int) (*Question, bool) {
	current := s.current.Load().set.questions
	if idx < 0 || idx >= len(current) {
		return nil, false
	}
	return current[idx], true
}

// Version increases on every replacement and every guess.
func (s *Store) Version() uint64 {
	return s.current.Load().version
}

func (s *Store) Score() Score {
	current := s.current.Load().set.questions
	score := Score{Total: len(current)}
	for _, question := range current {
		if !question.Guessed() {
			continue
		}
		score.Guessed++
		if question.IsCorrect() {
			score.Correct++
		}
	}
	return score
}

// ReplaceAll discards the current collection and installs one question per
// record, preserving record order. Records are not validated here.
func (s *Store) ReplaceAll(records []QuestionRecord) {
	next := &collection{questions: make([]*Question, 0, len(records))}
	for _, record := range records {
		question := NewQuestion(record, s.shuffle)
		question.onGuess = func(q *Question) {
			version, ok := s.bump(next)
			// Guesses on questions from a replaced collection are not events.
			if !ok {
				return
			}
			s.publish(Change{
				Event:      EventGuessed,
				Version:    version,
				QuestionID: q.ID,
			})
		}
		next.questions = append(next.questions, question)
	}

	var version uint64
	for {
		cur := s.current.Load()
		version = cur.version + 1
		if s.current.CompareAndSwap(cur, &state{set: next, version: version}) {
			break
		}
	}
	s.publish(Change{
		Event:   EventReplaced,
		Version: version,
	})
}

// bump advances the version while set is still the current collection.
func (s *Store) bump(set *collection) (uint64, bool) {
	for {
		cur := s.current.Load()
		if cur.set != set {
			return 0, false
		}
		next := &state{set: set, version: cur.version + 1}
		if s.current.CompareAndSwap(cur, next) {
			return next.version, true
		}
	}
}

// Refresh fetches questions from the source and replaces the collection on
// success. Failures leave the collection untouched and are only logged; the
// returned kind is informational. Overlapping calls are not serialized, so the
// last result to arrive wins.
func (s *Store) Refresh(ctx context.Context) (kind Kind) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("question refresh panicked", zap.String("panic", fmt.Sprint(r)))
			kind = KindUnknown
		}
	}()

	if s.source == nil {
		s.log.Warn("question refresh failed", zap.String("kind", string(KindUnknown)), zap.String("reason", "no source configured"))
		return KindUnknown
	}

	result := s.source.GetQuestions(ctx)
	if !result.OK() {
		kind = result.Kind
		if kind == "" {
			kind = KindUnknown
		}
		fields := []zap.Field{zap.String("kind", string(kind))}
		if result.Err != nil {
			fields = append(fields, zap.Error(result.Err))
		}
		s.log.Warn("question refresh failed", fields...)
		return kind
	}

	s.ReplaceAll(result.Questions)
	s.log.Debug("questions refreshed", zap.Int("count", len(result.Questions)), zap.Uint64("version", s.Version()))
	return KindOK
}

// Subscribe registers fn for every change. The returned function removes it.
// Callbacks run synchronously on the goroutine that made the change.
func (s *Store) Subscribe(fn func(Change)) func() {
	s.subMu.Lock()
	defer s.subMu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn

	return func() {
		s.subMu.Lock()
		defer s.subMu.Unlock()
		delete(s.subscribers, id)
	}
}

func (s *Store) publish(change Change) {
	s.subMu.Lock()
	handlers := make([]func(Change), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		handlers = append(handlers, fn)
	}
	s.subMu.Unlock()

	for _, fn := range handlers {
		s.notify(fn, change)
	}
}

// notify runs one subscriber. A panicking subscriber is logged and does not
// affect the change that was already applied or the remaining subscribers.
func (s *Store) notify(fn func(Change), change Change) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("store subscriber panicked",
				zap.Stringer("event", change.Event),
				zap.Uint64("version", change.Version),
				zap.String("panic", fmt.Sprint(r)),
			)
		}
	}()
	fn(change)
}
