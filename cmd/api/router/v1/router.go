package v1

import (
	"github.com/gin-gonic/gin"

	httpHandler "github.com/JEGHTNER/Zooting/internal/pkg/meeting/presentation/http"
)

// RegisterRoutes mounts all version 1 API routes under /api/v1
func RegisterRoutes(r *gin.Engine, deps httpHandler.Deps) {
	v1 := r.Group("/api/v1")
	// Pass the shared backends down to the HTTP layer
	httpHandler.RegisterRoutes(v1, deps)
}
