package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ggd-contact/internal/domain"
	"ggd-contact/internal/service"
)

// ClassificationHandler expone el motor de clasificación sin estado.
type ClassificationHandler struct {
	logger     *zap.Logger
	classifier service.ClassificationService
}

func NewClassificationHandler(logger *zap.Logger, classifier service.ClassificationService) *ClassificationHandler {
	return &ClassificationHandler{logger: logger, classifier: classifier}
}

// Classify maneja POST /classifications.
func (h *ClassificationHandler) Classify(c *gin.Context) {
	var req struct {
		Risks domain.Risks `json:"risks"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid classification request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	ev := h.classifier.Evaluate(req.Risks)
	c.JSON(http.StatusOK, gin.H{
		"result":        ev.Result,
		"visible_risks": ev.VisibleRisks,
	})
}

// RisksForCategory maneja GET /classifications/:category/risks.
func (h *ClassificationHandler) RisksForCategory(c *gin.Context) {
	category, err := domain.ParseCategory(c.Param("category"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown category"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"risks": h.classifier.RisksForCategory(category)})
}
