package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func NewRouter(fetch QuestionsFetcher, log *zap.Logger) *gin.Engine {
	a := NewAPI(fetch, log)

	router := gin.New()
	router.Use(gin.Recovery(), requestLogger(a.log), cors.Default())

	router.GET("/healthz", a.HandleHealth)
	router.GET("/api/questions", a.HandleQuestions)

	return router
}

func requestLogger(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		log.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Int("bytes", c.Writer.Size()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
