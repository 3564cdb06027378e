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

// RegisterController handles the waiting-room registration endpoint
// (one controller per endpoint)
type RegisterController struct {
	UC *usecase.RegisterToWaitingRoomUseCase
}

func NewRegisterController(rooms repository.WaitingRoomRepository, bus busport.Bus, watcher usecase.RoomWatcher, policy usecase.RoomPolicy) *RegisterController {
	return &RegisterController{UC: usecase.NewRegisterToWaitingRoomUseCase(rooms, bus, watcher, policy)}
}

// registerRequest is the DTO for the HTTP request body
type registerRequest struct {
	Identity       string `json:"identity" binding:"required"`
	Nickname       string `json:"nickname"`
	Classification string `json:"classification"`
	Gender         string `json:"gender"`
}

func (h *RegisterController) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		in := usecase.RegisterToWaitingRoomInput{Participant: meeting.Participant{
			Identity:       req.Identity,
			Nickname:       req.Nickname,
			Classification: req.Classification,
			Gender:         req.Gender,
		}}

		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()
		roomID, err := h.UC.Execute(ctx, in)
		if err != nil {
			status := http.StatusBadRequest
			switch {
			case errors.Is(err, meeting.ErrRaceLost), errors.Is(err, meeting.ErrRoomFull):
				status = http.StatusConflict
			case errors.Is(err, usecase.ErrPersistence):
				status = http.StatusInternalServerError
			}
			c.JSON(status, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusCreated, gin.H{"room_id": roomID})
	}
}
