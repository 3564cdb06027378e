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

// ListSelectionsController handles reading a session's selections
type ListSelectionsController struct {
	UC *usecase.ListSelectionsUseCase
}

func NewListSelectionsController(selections repository.SelectionRepository) *ListSelectionsController {
	return &ListSelectionsController{UC: usecase.NewListSelectionsUseCase(selections)}
}

func (h *ListSelectionsController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Param("sessionId")
		if sessionID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "sessionId is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		selections, err := h.UC.Execute(ctx, usecase.ListSelectionsInput{SessionID: sessionID})
		if err != nil {
			status := http.StatusBadRequest
			if errors.Is(err, usecase.ErrPersistence) {
				status = http.StatusInternalServerError
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, gin.H{"selections": selections})
	}
}
