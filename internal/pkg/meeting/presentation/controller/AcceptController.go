package controller

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	busport "github.com/JEGHTNER/Zooting/internal/infrastructure/bus/port"
	meeting "github.com/JEGHTNER/Zooting/internal/pkg/meeting/application/domain"
	"github.com/JEGHTNER/Zooting/internal/pkg/meeting/application/usecase"
	repository "github.com/JEGHTNER/Zooting/internal/pkg/meeting/persistence/repository/port"
)

// AcceptController handles the handshake acceptance endpoint
type AcceptController struct {
	UC *usecase.AcceptMatchUseCase
}

func NewAcceptController(rooms repository.WaitingRoomRepository, bus busport.Bus) *AcceptController {
	return &AcceptController{UC: usecase.NewAcceptMatchUseCase(rooms, bus)}
}

func (h *AcceptController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		roomID := c.Param("roomId")
		if roomID == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "roomId is required"})
			return
		}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		err := h.UC.Execute(ctx, usecase.AcceptMatchInput{RoomID: roomID})
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
