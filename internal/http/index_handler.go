package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ggd-contact/internal/domain"
	"ggd-contact/internal/service"
)

// IndexHandler atiende a la app del caso índice: emparejamiento y carga de contactos.
type IndexHandler struct {
	logger *zap.Logger
	cases  *service.CaseService
	tasks  *service.TaskService
	tokens *service.TokenService
}

func NewIndexHandler(
	logger *zap.Logger,
	cases *service.CaseService,
	tasks *service.TaskService,
	tokens *service.TokenService,
) *IndexHandler {
	return &IndexHandler{logger: logger, cases: cases, tasks: tasks, tokens: tokens}
}

// Pair maneja POST /pairings.
func (h *IndexHandler) Pair(c *gin.Context) {
	var req struct {
		Code string `json:"code" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	paired, token, err := h.cases.PairAndIssue(c.Request.Context(), c.ClientIP(), req.Code, h.tokens.IssueCaseToken)
	if err != nil {
		writeServiceError(c, h.logger, "pair", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"case_id": paired.ID, "token": token})
}

// GetCase maneja GET /case.
func (h *IndexHandler) GetCase(c *gin.Context) {
	claims, ok := GetCaseClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}
	found, tasks, err := h.cases.GetCase(c.Request.Context(), claims.Subject)
	if err != nil {
		writeServiceError(c, h.logger, "fetch case", err)
		return
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	c.JSON(http.StatusOK, gin.H{"case": found, "tasks": tasks})
}

type upsertTaskRequest struct {
	Label              string               `json:"label"`
	Context            string               `json:"context"`
	Communication      domain.Communication `json:"communication"`
	Contact            domain.Contact       `json:"contact"`
	DateOfLastExposure string               `json:"date_of_last_exposure"`
	Risks              domain.Risks         `json:"risks"`
}

// UpsertTask maneja PUT /case/tasks/:taskID. Reclasifica la tarea en cada llamada.
func (h *IndexHandler) UpsertTask(c *gin.Context) {
	claims, ok := GetCaseClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	var req upsertTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid upsert task request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	lastExposure, err := parseDate(req.DateOfLastExposure)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date_of_last_exposure"})
		return
	}

	task, ev, err := h.tasks.UpsertTask(c.Request.Context(), claims.Subject, c.Param("taskID"), service.UpsertTaskInput{
		Label:              req.Label,
		Context:            req.Context,
		Source:             domain.TaskSourceApp,
		Communication:      req.Communication,
		Contact:            req.Contact,
		DateOfLastExposure: lastExposure,
		Risks:              req.Risks,
	})
	if err != nil {
		writeServiceError(c, h.logger, "upsert task", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task, "evaluation": ev})
}
