package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/JEGHTNER/Zooting/internal/pkg/meeting/application/usecase"
	repository "github.com/JEGHTNER/Zooting/internal/pkg/meeting/persistence/repository/port"
)

// RecordSelectionController handles pushing a post-session selection
type RecordSelectionController struct {
	UC *usecase.RecordSelectionUseCase
}

func NewRecordSelectionController(selections repository.SelectionRepository) *RecordSelectionController {
	return &RecordSelectionController{UC: usecase.NewRecordSelectionUseCase(selections)}
}

type recordSelectionRequest struct {
	Selector string `json:"selector" binding:"required"`
	Selected string `json:"selected" binding:"required"`
}

func (h *RecordSelectionController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Param("sessionId")
		if sessionID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "sessionId is required"})
			return
		}

		var req recordSelectionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		err := h.UC.Execute(ctx, usecase.RecordSelectionInput{
			SessionID: sessionID,
			Selector:  req.Selector,
			Selected:  req.Selected,
		})
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, usecase.ErrPersistence) {
				status = http.StatusInternalServerError
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		c.Status(http.StatusCreated)
	}
}
