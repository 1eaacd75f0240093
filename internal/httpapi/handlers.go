package httpapi

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"trivia-app/internal/api"
	"trivia-app/internal/opentdb"
)

func (a *API) HandleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// HandleQuestions serves GET /api/questions?amount=N as question records.
func (a *API) HandleQuestions(c *gin.Context) {
	if a.fetch == nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: "question source unavailable"})
		return
	}

	amount, err := parseAmount(c.Query("amount"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		return
	}

	raw, err := a.fetch(c.Request.Context(), amount)
	if err != nil {
		a.log.Warn("upstream fetch failed", zap.Int("amount", amount), zap.Error(err))
		writeUpstreamError(c, err)
		return
	}

	c.JSON(http.StatusOK, api.QuestionsResponse{Questions: api.RecordsFromOpenTDB(raw)})
}

func parseAmount(value string) (int, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return defaultQuestionCount, nil
	}

	parsed, err := strconv.Atoi(value)
	if err != nil || parsed <= 0 || parsed > maxQuestionCount {
		return 0, errors.New("amount must be an integer between 1 and 50")
	}
	return parsed, nil
}

func writeUpstreamError(c *gin.Context, err error) {
	var codeErr *opentdb.ResponseCodeError
	if errors.As(err, &codeErr) && codeErr.Code == opentdb.CodeRateLimit {
		c.JSON(http.StatusTooManyRequests, api.ErrorResponse{Error: "upstream rate limit, try again shortly"})
		return
	}
	c.JSON(http.StatusBadGateway, api.ErrorResponse{Error: "failed to fetch questions"})
}
