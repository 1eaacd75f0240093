package httpapi

import (
	"context"

	"go.uber.org/zap"

	"trivia-app/internal/opentdb"
)

const (
	defaultQuestionCount = 10
	maxQuestionCount     = 50
)

// QuestionsFetcher loads raw questions from upstream. opentdb.Client.FetchQuestions fits.
type QuestionsFetcher func(ctx context.Context, amount int) ([]opentdb.RawQuestion, error)

type API struct {
	fetch QuestionsFetcher
	log   *zap.Logger
}

func NewAPI(fetch QuestionsFetcher, log *zap.Logger) *API {
	if log == nil {
		log = zap.NewNop()
	}
	return &API{fetch: fetch, log: log}
}
