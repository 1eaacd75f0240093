package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"trivia-app/internal/api"
	"trivia-app/internal/opentdb"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func serve(t *testing.T, router http.Handler, target string) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestHealth(t *testing.T) {
	rec := serve(t, NewRouter(nil, nil), "/healthz")

	require.Equal(t, http.StatusOK, rec.Code)
	require.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestQuestionsReturnsRecords(t *testing.T) {
	var seenAmount int
	fetch := func(_ context.Context, amount int) ([]opentdb.RawQuestion, error) {
		seenAmount = amount
		return []opentdb.RawQuestion{{
			Category:         "Math",
			Difficulty:       "easy",
			Type:             "multiple",
			Question:         "2+2?",
			CorrectAnswer:    "4",
			IncorrectAnswers: []string{"3", "5", "22"},
		}}, nil
	}

	rec := serve(t, NewRouter(fetch, nil), "/api/questions?amount=1")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, 1, seenAmount)

	var payload api.QuestionsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &payload))
	require.Len(t, payload.Questions, 1)
	require.NotEmpty(t, payload.Questions[0].ID)
	require.Equal(t, "4", payload.Questions[0].CorrectAnswer)
	require.Equal(t, []string{"3", "5", "22"}, payload.Questions[0].IncorrectAnswers)
}

func TestQuestionsDefaultAmount(t *testing.T) {
	var seenAmount int
	fetch := func(_ context.Context, amount int) ([]opentdb.RawQuestion, error) {
		seenAmount = amount
		return nil, nil
	}

	rec := serve(t, NewRouter(fetch, nil), "/api/questions")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, defaultQuestionCount, seenAmount)
	require.JSONEq(t, `{"questions":[]}`, rec.Body.String())
}

func TestQuestionsRejectsBadAmount(t *testing.T) {
	for _, amount := range []string{"0", "-3", "abc", "51"} {
		rec := serve(t, NewRouter(func(context.Context, int) ([]opentdb.RawQuestion, error) {
			t.Fatalf("fetch must not be called for amount %q", amount)
			return nil, nil
		}, nil), "/api/questions?amount="+amount)

		require.Equal(t, http.StatusBadRequest, rec.Code, "amount=%s", amount)
	}
}

func TestQuestionsUpstreamErrors(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)

	rateLimited := func(context.Context, int) ([]opentdb.RawQuestion, error) {
		return nil, &opentdb.ResponseCodeError{Code: opentdb.CodeRateLimit}
	}
	rec := serve(t, NewRouter(rateLimited, zap.New(core)), "/api/questions")
	require.Equal(t, http.StatusTooManyRequests, rec.Code)

	broken := func(context.Context, int) ([]opentdb.RawQuestion, error) {
		return nil, errors.New("connection reset")
	}
	rec = serve(t, NewRouter(broken, zap.New(core)), "/api/questions")
	require.Equal(t, http.StatusBadGateway, rec.Code)
	require.JSONEq(t, `{"error":"failed to fetch questions"}`, rec.Body.String())

	require.Equal(t, 2, logs.FilterMessage("upstream fetch failed").Len())
}

func TestQuestionsWithoutFetcher(t *testing.T) {
	rec := serve(t, NewRouter(nil, nil), "/api/questions")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestFeedRoundTripThroughAPIClient(t *testing.T) {
	fetch := func(context.Context, int) ([]opentdb.RawQuestion, error) {
		return []opentdb.RawQuestion{{Question: "2+2?", CorrectAnswer: "4", IncorrectAnswers: []string{"3"}}}, nil
	}
	server := httptest.NewServer(NewRouter(fetch, nil))
	defer server.Close()

	client, err := api.New(api.Config{Source: api.SourceFeed, BaseURL: server.URL, Amount: 1}, server.Client())
	require.NoError(t, err)

	result := client.GetQuestions(context.Background())
	require.True(t, result.OK())
	require.Len(t, result.Questions, 1)
	require.Equal(t, "2+2?", result.Questions[0].Question)
}
