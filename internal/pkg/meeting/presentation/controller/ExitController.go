package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	meeting "github.com/JEGHTNER/Zooting/internal/pkg/meeting/application/domain"
	"github.com/JEGHTNER/Zooting/internal/pkg/meeting/application/usecase"
	repository "github.com/JEGHTNER/Zooting/internal/pkg/meeting/persistence/repository/port"
)

// ExitController handles leaving a waiting room
type ExitController struct {
	UC *usecase.ExitWaitingRoomUseCase
}

func NewExitController(rooms repository.WaitingRoomRepository, watcher usecase.RoomWatcher) *ExitController {
	return &ExitController{UC: usecase.NewExitWaitingRoomUseCase(rooms, watcher)}
}

type exitRequest struct {
	Identity string `json:"identity" binding:"required"`
}

func (h *ExitController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID := c.Param("roomId")
		if roomID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "roomId is required"})
			return
		}

		var req exitRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		err := h.UC.Execute(ctx, usecase.ExitWaitingRoomInput{Identity: req.Identity, RoomID: roomID})
		if err != nil {
			status := http.StatusBadRequest
			switch {
			case errors.Is(err, meeting.ErrRoomNotFound):
				status = http.StatusNotFound
			case errors.Is(err, meeting.ErrRaceLost), errors.Is(err, meeting.ErrRoomClosed):
				status = http.StatusConflict
			case errors.Is(err, usecase.ErrPersistence):
				status = http.StatusInternalServerError
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		c.Status(http.StatusNoContent)
	}
}
