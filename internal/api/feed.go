package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"trivia-app/internal/trivia"
)

const defaultFeedURL = "http://127.0.0.1:8080"

var ErrServiceUnavailable = errors.New("trivia feed unavailable")

// APIError is a non-2xx answer from the trivia feed.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if strings.TrimSpace(e.Message) == "" {
		return fmt.Sprintf("request failed with status %d", e.StatusCode)
	}
	return e.Message
}

// QuestionsResponse is the body of GET /api/questions on the trivia feed.
type QuestionsResponse struct {
	Questions []trivia.QuestionRecord `json:"questions"`
}

// ErrorResponse is the body the trivia feed sends with non-2xx statuses.
type ErrorResponse struct {
	Error string `json:"error"`
}

type feedFetcher struct {
	baseURL    string
	httpClient *http.Client
}

func newFeedFetcher(baseURL string, httpClient *http.Client) *feedFetcher {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		baseURL = defaultFeedURL
	}
	return &feedFetcher{baseURL: baseURL, httpClient: httpClient}
}

func (f *feedFetcher) fetch(ctx context.Context, amount int) ([]trivia.QuestionRecord, error) {
	query := url.Values{}
	query.Set("amount", strconv.Itoa(amount))

	request, err := http.NewRequestWithContext(ctx, http.MethodGet, f.baseURL+"/api/questions?"+query.Encode(), nil)
	if err != nil {
		return nil, err
	}
	request.Header.Set("Accept", "application/json")

	response, err := f.httpClient.Do(request)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrServiceUnavailable, err)
	}
	defer response.Body.Close()

	if response.StatusCode < http.StatusOK || response.StatusCode >= http.StatusMultipleChoices {
		apiErr := APIError{StatusCode: response.StatusCode}
		var payload ErrorResponse
		if err := json.NewDecoder(response.Body).Decode(&payload); err == nil && strings.TrimSpace(payload.Error) != "" {
			apiErr.Message = payload.Error
		}
		if apiErr.Message == "" {
			apiErr.Message = response.Status
		}
		return nil, &apiErr
	}

	var payload QuestionsResponse
	if err := json.NewDecoder(response.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBadData, err)
	}
	return payload.Questions, nil
}
