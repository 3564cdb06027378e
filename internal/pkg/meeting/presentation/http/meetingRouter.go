package http

import (
	"github.com/gin-gonic/gin"

	busport "github.com/JEGHTNER/Zooting/internal/infrastructure/bus/port"
	"github.com/JEGHTNER/Zooting/internal/infrastructure/realtime"
	"github.com/JEGHTNER/Zooting/internal/pkg/meeting/application/usecase"
	"github.com/JEGHTNER/Zooting/internal/pkg/meeting/presentation/controller"
	repository "github.com/JEGHTNER/Zooting/internal/pkg/meeting/persistence/repository/port"
)

// Deps bundles the shared collaborators the meeting endpoints are built on.
type Deps struct {
	Rooms      repository.WaitingRoomRepository
	Selections repository.SelectionRepository
	Bus        busport.Bus
	Watcher    usecase.RoomWatcher
	Hub        *realtime.Hub
	Policy     usecase.RoomPolicy // nil selects the default first-under-capacity rule
}

// RegisterRoutes registers meeting-related HTTP endpoints under the given
// router group. It constructs per-endpoint controllers and binds them
// directly to routes.
func RegisterRoutes(g *gin.RouterGroup, deps Deps) {
	registerCtl := controller.NewRegisterController(deps.Rooms, deps.Bus, deps.Watcher, deps.Policy)
	exitCtl := controller.NewExitController(deps.Rooms, deps.Watcher)
	acceptCtl := controller.NewAcceptController(deps.Rooms, deps.Bus)
	recordCtl := controller.NewRecordSelectionController(deps.Selections)
	listCtl := controller.NewListSelectionsController(deps.Selections)
	socketCtl := controller.NewMeetingSocketController(deps.Hub)

	// POST /api/v1/meeting/waiting-room -> register into a waiting room
	g.POST("/meeting/waiting-room", registerCtl.Handle())

	// DELETE /api/v1/meeting/waiting-room/:roomId -> leave a waiting room
	g.DELETE("/meeting/waiting-room/:roomId", exitCtl.Handle())

	// POST /api/v1/meeting/waiting-room/:roomId/accept -> accept the handshake
	g.POST("/meeting/waiting-room/:roomId/accept", acceptCtl.Handle())

	// POST /api/v1/meeting/session/:sessionId/selection -> record a post-call choice
	g.POST("/meeting/session/:sessionId/selection", recordCtl.Handle())

	// GET /api/v1/meeting/session/:sessionId/selection -> read post-call choices
	g.GET("/meeting/session/:sessionId/selection", listCtl.Handle())

	// GET /api/v1/sub/:identity -> websocket push channel per participant
	g.GET("/sub/:identity", socketCtl.Handle())
}
