package http

import (
	"io"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gin-gonic/gin"

	"github.com/vovakirdan/disk-solitaire/internal/api/ws"
	"github.com/vovakirdan/disk-solitaire/internal/config"
	"github.com/vovakirdan/disk-solitaire/internal/session"
	"github.com/vovakirdan/disk-solitaire/internal/storage"
)

// NewRouter wires the hint service. store may be nil, in which case
// solutions are not cached and level stats are empty.
func NewRouter(sm *session.Manager, store *storage.Store, hub *ws.Hub, cfg config.Config, logger *log.Logger) *gin.Engine {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	reg := sm.Levels()

	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(logger))

	// WebSocket for live session updates
	r.GET("/ws", hub.HandleWS)

	// --- LEVEL ENDPOINTS ---
	r.GET("/levels", ListLevelsHandler(reg))
	r.GET("/levels/:id", GetLevelHandler(reg))
	r.GET("/levels/:id/solution", LevelSolutionHandler(reg, store, cfg))
	r.GET("/levels/:id/stats", LevelStatsHandler(reg, store))

	// --- SESSION ENDPOINTS ---
	r.POST("/sessions", CreateSessionHandler(sm))
	r.GET("/sessions/:id", GetSessionHandler(sm))
	r.DELETE("/sessions/:id", DeleteSessionHandler(sm))

	// --- GAME ENDPOINTS ---
	r.GET("/sessions/:id/destinations", DestinationsHandler(sm))
	r.POST("/sessions/:id/moves", MoveHandler(sm))
	r.POST("/sessions/:id/undo", UndoHandler(sm))
	r.POST("/sessions/:id/redo", RedoHandler(sm))
	r.POST("/sessions/:id/reset", ResetHandler(sm))
	r.GET("/sessions/:id/hint", HintHandler(sm, cfg))

	// --- SOLVER ENDPOINTS ---
	r.POST("/solve", SolveHandler(cfg))

	return r
}

// requestLogger logs one line per request.
func requestLogger(logger *log.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("request",
			"method", c.Request.Method,
			"path", c.FullPath(),
			"status", c.Writer.Status(),
			"elapsed", time.Since(start),
		)
	}
}
