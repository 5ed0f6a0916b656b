package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"exam-service/internal/exam"
	"exam-service/internal/models"
	"exam-service/internal/selection"
	"exam-service/internal/service"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	Service       *service.SessionService
	AnswerService *service.AnswerService
}

func NewSessionHandler(s *service.SessionService, as *service.AnswerService) *SessionHandler {
	return &SessionHandler{Service: s, AnswerService: as}
}

// statusForEngineError maps engine errors onto HTTP statuses: state
// violations are conflicts, unknown sessions are 404s, pool insufficiency is
// an unprocessable request.
func statusForEngineError(err error) int {
	var poolErr *selection.InsufficientPoolError
	switch {
	case errors.Is(err, service.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.As(err, &poolErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, exam.ErrAlreadyAnswered),
		errors.Is(err, exam.ErrAlreadyFinalized),
		errors.Is(err, exam.ErrOutOfRange),
		errors.Is(err, exam.ErrNotInSession):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// CreateSession starts a new exam for the authenticated user. Composition
// and time budget fall back to the configured defaults when omitted.
func (h *SessionHandler) CreateSession(c *gin.Context) {
	var req struct {
		GATCount          int `json:"gat_count" binding:"omitempty,min=0"`
		SubjectCount      int `json:"subject_count" binding:"omitempty,min=0"`
		TimeBudgetMinutes int `json:"time_budget_minutes" binding:"omitempty,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format", "details": err.Error()})
		return
	}

	userID := c.GetHeader("X-User-ID")
	comp := models.Composition{}
	if req.GATCount > 0 {
		comp[models.CategoryGAT] = req.GATCount
	}
	if req.SubjectCount > 0 {
		comp[models.CategorySubject] = req.SubjectCount
	}

	session, err := h.Service.CreateSession(c.Request.Context(), userID, comp, time.Duration(req.TimeBudgetMinutes)*time.Minute)
	if err != nil {
		c.JSON(statusForEngineError(err), gin.H{"error": "Failed to create session", "details": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, session)
}

// CurrentQuestion returns the question at the session's current position,
// without its answer key.
func (h *SessionHandler) CurrentQuestion(c *gin.Context) {
	id := c.Param("id")
	question, position, err := h.Service.CurrentQuestion(id)
	if err != nil {
		c.JSON(statusForEngineError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"position": position,
		"question": gin.H{
			"id":           question.ID,
			"category":     question.Category,
			"sub_category": question.SubCategory,
			"text":         question.Text,
			"options":      question.Options,
		},
	})
}

// SubmitAnswer records a choice for one question; a null/omitted choice is
// an explicit skip.
func (h *SessionHandler) SubmitAnswer(c *gin.Context) {
	sessionID := c.Param("id")

	var req struct {
		QuestionID       string `json:"question_id" binding:"required"`
		ChosenOptionIdx  *int   `json:"chosen_option_idx"`
		TimeSpentSeconds int    `json:"time_spent_seconds" binding:"omitempty,min=0"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid answer format", "details": err.Error()})
		return
	}

	result, err := h.Service.SubmitAnswer(c.Request.Context(), sessionID, req.QuestionID, req.ChosenOptionIdx, req.TimeSpentSeconds)
	if err != nil {
		c.JSON(statusForEngineError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

// Navigate moves the current position forward or backward; an answered
// question can be reviewed but not re-answered.
func (h *SessionHandler) Navigate(c *gin.Context) {
	sessionID := c.Param("id")

	var req struct {
		Direction string `json:"direction" binding:"required,oneof=forward backward"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid direction", "details": err.Error()})
		return
	}

	position, err := h.Service.Navigate(sessionID, exam.Direction(req.Direction))
	if err != nil {
		c.JSON(statusForEngineError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"position": position})
}

// Finalize completes the exam and returns the scored summary.
func (h *SessionHandler) Finalize(c *gin.Context) {
	summary, err := h.Service.Finalize(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusForEngineError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Abandon terminates the exam without a verdict.
func (h *SessionHandler) Abandon(c *gin.Context) {
	summary, err := h.Service.Abandon(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusForEngineError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// Summary reports the running or final standing.
func (h *SessionHandler) Summary(c *gin.Context) {
	summary, err := h.Service.Summary(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(statusForEngineError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// RemainingTime tells the caller how much of the budget is left so it can
// auto-finalize at zero.
func (h *SessionHandler) RemainingTime(c *gin.Context) {
	remaining, err := h.Service.RemainingTime(c.Param("id"), time.Now().UTC())
	if err != nil {
		c.JSON(statusForEngineError(err), gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"remaining_seconds": int(remaining.Seconds())})
}

// GetSession returns the persisted session record.
func (h *SessionHandler) GetSession(c *gin.Context) {
	session, err := h.Service.GetSession(context.Background(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Session not found"})
		return
	}
	c.JSON(http.StatusOK, session)
}

// GetSessionAnswers lists the persisted answer records of a session.
func (h *SessionHandler) GetSessionAnswers(c *gin.Context) {
	answers, err := h.AnswerService.GetAnswersBySession(context.Background(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, answers)
}
