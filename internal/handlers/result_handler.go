package handlers

import (
	"context"
	"net/http"
	"strconv"

	"exam-service/internal/service"

	"github.com/gin-gonic/gin"
)

type ResultHandler struct {
	Service *service.ResultService
}

func NewResultHandler(s *service.ResultService) *ResultHandler {
	return &ResultHandler{Service: s}
}

// GetSessionsByUser lists a user's exam history, most recent first.
func (h *ResultHandler) GetSessionsByUser(c *gin.Context) {
	limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)
	sessions, err := h.Service.GetSessionsByUser(context.Background(), c.Param("id"), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sessions)
}

// GetWeakAreas returns the lag analysis across the user's finished sessions.
func (h *ResultHandler) GetWeakAreas(c *gin.Context) {
	report, err := h.Service.WeakAreas(context.Background(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}
