package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trivia-app/internal/opentdb"
	"trivia-app/internal/trivia"
)

func newServer(t *testing.T, handler http.HandlerFunc) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return server
}

func TestNewRejectsUnknownSource(t *testing.T) {
	_, err := New(Config{Source: "carrier-pigeon"}, nil)
	require.ErrorIs(t, err, ErrUnknownSource)
}

func TestNewDefaultsToOpenTDB(t *testing.T) {
	client, err := New(Config{}, nil)
	require.NoError(t, err)
	require.Equal(t, SourceOpenTDB, client.Source())
}

func TestGetQuestionsFromOpenTDB(t *testing.T) {
	var seenAmount string
	server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		seenAmount = r.URL.Query().Get("amount")
		fmt.Fprint(w, `{"response_code":0,"results":[
			{"type":"multiple","difficulty":"easy","category":"Math","question":"2 &amp; 2?",
			 "correct_answer":"4","incorrect_answers":["3","5","22"]}]}`)
	})

	client, err := New(Config{Source: SourceOpenTDB, BaseURL: server.URL, Amount: 1}, server.Client())
	require.NoError(t, err)

	result := client.GetQuestions(context.Background())
	require.Equal(t, trivia.KindOK, result.Kind)
	require.NoError(t, result.Err)
	require.Equal(t, "1", seenAmount)
	require.Len(t, result.Questions, 1)

	record := result.Questions[0]
	require.Equal(t, "2 &amp; 2?", record.Question)
	require.Equal(t, "4", record.CorrectAnswer)
	require.Equal(t, []string{"3", "5", "22"}, record.IncorrectAnswers)
	require.Equal(t, "Math", record.Category)
	_, err = uuid.Parse(record.ID)
	require.NoError(t, err)
}

func TestGetQuestionsFromFeed(t *testing.T) {
	server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/questions", r.URL.Path)
		assert.Equal(t, "3", r.URL.Query().Get("amount"))
		fmt.Fprint(w, `{"questions":[{"id":"1","question":"2+2?","correct_answer":"4","incorrect_answers":["3","5","22"]}]}`)
	})

	client, err := New(Config{Source: SourceFeed, BaseURL: server.URL + "/", Amount: 3}, server.Client())
	require.NoError(t, err)

	result := client.GetQuestions(context.Background())
	require.Equal(t, trivia.KindOK, result.Kind)
	require.Equal(t, []trivia.QuestionRecord{{
		ID:               "1",
		Question:         "2+2?",
		CorrectAnswer:    "4",
		IncorrectAnswers: []string{"3", "5", "22"},
	}}, result.Questions)
}

func TestGetQuestionsMapsFailuresToKinds(t *testing.T) {
	tests := []struct {
		name   string
		source string
		status int
		body   string
		want   trivia.Kind
	}{
		{name: "feed unauthorized", source: SourceFeed, status: http.StatusUnauthorized, body: `{"error":"nope"}`, want: trivia.KindUnauthorized},
		{name: "feed forbidden", source: SourceFeed, status: http.StatusForbidden, want: trivia.KindForbidden},
		{name: "feed not found", source: SourceFeed, status: http.StatusNotFound, want: trivia.KindNotFound},
		{name: "feed bad request", source: SourceFeed, status: http.StatusBadRequest, want: trivia.KindRejected},
		{name: "feed server error", source: SourceFeed, status: http.StatusBadGateway, want: trivia.KindServer},
		{name: "feed garbage", source: SourceFeed, status: http.StatusOK, body: "not-json", want: trivia.KindBadData},
		{name: "feed missing id", source: SourceFeed, status: http.StatusOK, body: `{"questions":[{"question":"q","correct_answer":"a"}]}`, want: trivia.KindBadData},
		{name: "feed duplicate id", source: SourceFeed, status: http.StatusOK, body: `{"questions":[{"id":"1","question":"q","correct_answer":"a"},{"id":"1","question":"r","correct_answer":"b"}]}`, want: trivia.KindBadData},
		{name: "opentdb server error", source: SourceOpenTDB, status: http.StatusInternalServerError, want: trivia.KindServer},
		{name: "opentdb rate limited", source: SourceOpenTDB, status: http.StatusOK, body: `{"response_code":5,"results":[]}`, want: trivia.KindRejected},
		{name: "opentdb garbage", source: SourceOpenTDB, status: http.StatusOK, body: "<html>", want: trivia.KindBadData},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
				fmt.Fprint(w, tc.body)
			})

			client, err := New(Config{Source: tc.source, BaseURL: server.URL}, server.Client())
			require.NoError(t, err)

			result := client.GetQuestions(context.Background())
			require.Equal(t, tc.want, result.Kind)
			require.Error(t, result.Err)
			require.Empty(t, result.Questions)
		})
	}
}

func TestGetQuestionsCannotConnect(t *testing.T) {
	server := httptest.NewServer(http.NotFoundHandler())
	baseURL := server.URL
	server.Close()

	client, err := New(Config{Source: SourceFeed, BaseURL: baseURL}, nil)
	require.NoError(t, err)

	result := client.GetQuestions(context.Background())
	require.Equal(t, trivia.KindCannotConnect, result.Kind)
}

func TestGetQuestionsTimeout(t *testing.T) {
	release := make(chan struct{})
	server := newServer(t, func(w http.ResponseWriter, r *http.Request) {
		<-release
	})
	defer close(release)

	client, err := New(Config{Source: SourceFeed, BaseURL: server.URL, Timeout: 20 * time.Millisecond}, nil)
	require.NoError(t, err)

	result := client.GetQuestions(context.Background())
	require.Equal(t, trivia.KindTimeout, result.Kind)
}

func TestRecordsFromOpenTDBAssignsStableUniqueIDs(t *testing.T) {
	raw := []opentdb.RawQuestion{
		{Question: "Q", CorrectAnswer: "A", IncorrectAnswers: []string{"B"}},
		{Question: "Q", CorrectAnswer: "A", IncorrectAnswers: []string{"B"}},
		{Question: "Other", CorrectAnswer: "A", IncorrectAnswers: []string{"B"}},
	}

	first := RecordsFromOpenTDB(raw)
	second := RecordsFromOpenTDB(raw)

	require.Equal(t, first, second)
	require.NotEqual(t, first[0].ID, first[1].ID)
	require.NotEqual(t, first[0].ID, first[2].ID)
	require.NoError(t, validateRecords(first))
}

func TestKindFromError(t *testing.T) {
	require.Equal(t, trivia.KindOK, KindFromError(nil))
	require.Equal(t, trivia.KindTimeout, KindFromError(context.DeadlineExceeded))
	require.Equal(t, trivia.KindServer, KindFromError(&opentdb.StatusError{StatusCode: http.StatusServiceUnavailable}))
	require.Equal(t, trivia.KindRejected, KindFromError(&opentdb.ResponseCodeError{Code: opentdb.CodeNoResults}))
	require.Equal(t, trivia.KindUnknown, KindFromError(fmt.Errorf("mystery")))
	require.Equal(t, trivia.KindUnknown, KindFromError(&APIError{StatusCode: http.StatusFound}))
}
