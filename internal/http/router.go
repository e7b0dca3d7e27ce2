package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ggd-contact/internal/service"
)

// NewRouter configura el router de Gin con middlewares y rutas.
func NewRouter(
	logger *zap.Logger,
	tokens *service.TokenService,
	staff StaffLookup,
	classificationH *ClassificationHandler,
	authH *AuthHandler,
	caseH *CaseHandler,
	indexH *IndexHandler,
) *gin.Engine {
	r := gin.New()

	r.Use(zapLoggerMiddleware(logger), gin.Recovery(), jsonContentTypeMiddleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.POST("/classifications", classificationH.Classify)
	r.GET("/classifications/:category/risks", classificationH.RisksForCategory)

	r.POST("/auth/login", authH.Login)
	r.POST("/pairings", indexH.Pair)

	cases := r.Group("/cases", StaffAuthMiddleware(tokens, staff))
	cases.POST("", caseH.CreateCase)
	cases.GET("/:caseID", caseH.GetCase)
	cases.POST("/:caseID/pairing-code", caseH.RegenerateCode)
	cases.PUT("/:caseID/tasks/:taskID/category", caseH.ApplyCategory)
	cases.POST("/:caseID/tasks/:taskID/inform", caseH.InformContact)

	own := r.Group("/case", CaseAuthMiddleware(tokens))
	own.GET("", indexH.GetCase)
	own.PUT("/tasks/:taskID", indexH.UpsertTask)

	return r
}

// zapLoggerMiddleware crea un middleware simple de logging con zap.
func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.FullPath()),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
			zap.String("client_ip", c.ClientIP()),
		)
	}
}

// jsonContentTypeMiddleware fuerza Content-Type: application/json en responses.
func jsonContentTypeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Writer.Header().Set("Content-Type", "application/json")
		c.Next()
	}
}
