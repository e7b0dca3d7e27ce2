package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"ggd-contact/internal/domain"
	"ggd-contact/internal/service"
)

// CaseHandler agrupa los endpoints del portal para personal de la GGD.
type CaseHandler struct {
	logger *zap.Logger
	cases  *service.CaseService
	tasks  *service.TaskService
}

func NewCaseHandler(logger *zap.Logger, cases *service.CaseService, tasks *service.TaskService) *CaseHandler {
	return &CaseHandler{logger: logger, cases: cases, tasks: tasks}
}

// CreateCase maneja POST /cases.
func (h *CaseHandler) CreateCase(c *gin.Context) {
	claims, ok := GetStaffClaims(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
		return
	}

	var req struct {
		Reference          string `json:"reference" binding:"required"`
		DateOfSymptomOnset string `json:"date_of_symptom_onset"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid create case request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	onset, err := parseDate(req.DateOfSymptomOnset)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date_of_symptom_onset"})
		return
	}

	created, code, err := h.cases.CreateCase(c.Request.Context(), claims.Subject, service.CreateCaseInput{
		Reference:          req.Reference,
		DateOfSymptomOnset: onset,
	})
	if err != nil {
		writeServiceError(c, h.logger, "create case", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"case":         created,
		"pairing_code": code.Code,
		"expires_at":   code.ExpiresAt,
	})
}

// GetCase maneja GET /cases/:caseID.
func (h *CaseHandler) GetCase(c *gin.Context) {
	found, tasks, err := h.cases.GetCase(c.Request.Context(), c.Param("caseID"))
	if err != nil {
		writeServiceError(c, h.logger, "fetch case", err)
		return
	}
	if tasks == nil {
		tasks = []domain.Task{}
	}
	c.JSON(http.StatusOK, gin.H{"case": found, "tasks": tasks})
}

// RegenerateCode maneja POST /cases/:caseID/pairing-code.
func (h *CaseHandler) RegenerateCode(c *gin.Context) {
	code, err := h.cases.RegenerateCode(c.Request.Context(), c.Param("caseID"))
	if err != nil {
		writeServiceError(c, h.logger, "regenerate pairing code", err)
		return
	}
	c.JSON(http.StatusOK, code)
}

// ApplyCategory maneja PUT /cases/:caseID/tasks/:taskID/category.
func (h *CaseHandler) ApplyCategory(c *gin.Context) {
	var req struct {
		Category domain.Category `json:"category" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid category"})
		return
	}

	task, err := h.tasks.ApplyCategory(c.Request.Context(), c.Param("caseID"), c.Param("taskID"), req.Category)
	if err != nil {
		writeServiceError(c, h.logger, "apply category", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"task": task})
}

// InformContact maneja POST /cases/:caseID/tasks/:taskID/inform.
func (h *CaseHandler) InformContact(c *gin.Context) {
	task, err := h.tasks.InformContact(c.Request.Context(), c.Param("caseID"), c.Param("taskID"))
	if err != nil {
		writeServiceError(c, h.logger, "inform contact", err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"task": task})
}
