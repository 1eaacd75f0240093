package api

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/url"

	"trivia-app/internal/opentdb"
	"trivia-app/internal/trivia"
)

// KindFromError classifies a fetch error into one of the result kinds.
func KindFromError(err error) trivia.Kind {
	if err == nil {
		return trivia.KindOK
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return trivia.KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return trivia.KindTimeout
	}

	var statusErr *opentdb.StatusError
	if errors.As(err, &statusErr) {
		return kindFromStatus(statusErr.StatusCode)
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return kindFromStatus(apiErr.StatusCode)
	}

	var codeErr *opentdb.ResponseCodeError
	if errors.As(err, &codeErr) {
		return trivia.KindRejected
	}

	var decodeErr *opentdb.DecodeError
	if errors.As(err, &decodeErr) || errors.Is(err, ErrBadData) {
		return trivia.KindBadData
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) || errors.Is(err, ErrServiceUnavailable) {
		return trivia.KindCannotConnect
	}

	return trivia.KindUnknown
}

func kindFromStatus(status int) trivia.Kind {
	switch {
	case status == http.StatusUnauthorized:
		return trivia.KindUnauthorized
	case status == http.StatusForbidden:
		return trivia.KindForbidden
	case status == http.StatusNotFound:
		return trivia.KindNotFound
	case status >= 400 && status < 500:
		return trivia.KindRejected
	case status >= 500 && status < 600:
		return trivia.KindServer
	default:
		return trivia.KindUnknown
	}
}
