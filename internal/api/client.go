package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"trivia-app/internal/opentdb"
	"trivia-app/internal/trivia"
)

const (
	SourceOpenTDB = "opentdb"
	SourceFeed    = "feed"

	defaultAmount  = 10
	defaultTimeout = 10 * time.Second
)

var (
	ErrUnknownSource = errors.New("unknown question source")
	ErrBadData       = errors.New("malformed question data")
)

type Config struct {
	Source      string
	BaseURL     string
	Amount      int
	Timeout     time.Duration
	MinInterval time.Duration
}

type fetcher interface {
	fetch(ctx context.Context, amount int) ([]trivia.QuestionRecord, error)
}

// Client is the question source used by the store. It never fails loudly:
// every outcome is folded into a trivia.Result.
type Client struct {
	source  string
	amount  int
	fetcher fetcher
}

func New(cfg Config, httpClient *http.Client) (*Client, error) {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}
	amount := cfg.Amount
	if amount <= 0 {
		amount = defaultAmount
	}

	source := strings.ToLower(strings.TrimSpace(cfg.Source))
	if source == "" {
		source = SourceOpenTDB
	}

	var f fetcher
	switch source {
	case SourceOpenTDB:
		f = &openTDBFetcher{
			client: opentdb.NewClient(httpClient,
				opentdb.WithBaseURL(cfg.BaseURL),
				opentdb.WithMinInterval(cfg.MinInterval),
			),
		}
	case SourceFeed:
		f = newFeedFetcher(cfg.BaseURL, httpClient)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, cfg.Source)
	}

	return &Client{source: source, amount: amount, fetcher: f}, nil
}

func (c *Client) Source() string {
	return c.source
}

func (c *Client) GetQuestions(ctx context.Context) trivia.Result {
	records, err := c.fetcher.fetch(ctx, c.amount)
	if err == nil {
		err = validateRecords(records)
	}
	if err != nil {
		return trivia.Result{Kind: KindFromError(err), Err: err}
	}
	return trivia.Result{Kind: trivia.KindOK, Questions: records}
}

func validateRecords(records []trivia.QuestionRecord) error {
	seen := make(map[string]struct{}, len(records))
	for idx, record := range records {
		if strings.TrimSpace(record.ID) == "" {
			return fmt.Errorf("%w: question %d has no id", ErrBadData, idx)
		}
		if _, dup := seen[record.ID]; dup {
			return fmt.Errorf("%w: duplicate id %q", ErrBadData, record.ID)
		}
		seen[record.ID] = struct{}{}

		if strings.TrimSpace(record.Question) == "" {
			return fmt.Errorf("%w: question %q has no text", ErrBadData, record.ID)
		}
		if record.CorrectAnswer == "" {
			return fmt.Errorf("%w: question %q has no correct answer", ErrBadData, record.ID)
		}
	}
	return nil
}
