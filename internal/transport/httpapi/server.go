// Package httpapi implements the table's HTTP + WebSocket transport, per
// spec.md §6 "Wire protocol": REST endpoints for lobby operations (create,
// join, list) and a per-connection WebSocket for in-hand actions and state
// broadcasts.
package httpapi

import (
	"net/http"

	"github.com/decred/slog"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/jdstemmler/pokerd/internal/coordinator"
	"github.com/jdstemmler/pokerd/internal/registry"
	"github.com/jdstemmler/pokerd/internal/store"
)

// Server wires the coordinator, store, and connection registry to gin
// routes and the websocket upgrader.
type Server struct {
	coord         *coordinator.Coordinator
	store         store.Store
	registry      *registry.Registry
	log           slog.Logger
	upgrader      websocket.Upgrader
	adminPassword string

	engine *gin.Engine
}

// New constructs a Server with its routes registered. adminPassword gates
// the /admin/stats diagnostics endpoint (spec.md §6's ADMIN_PASSWORD); an
// empty adminPassword disables the endpoint entirely.
func New(coord *coordinator.Coordinator, st store.Store, conns *registry.Registry, log slog.Logger, adminPassword string) *Server {
	s := &Server{
		coord:         coord,
		store:         st,
		registry:      conns,
		log:           log,
		adminPassword: adminPassword,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(cors.Default())

	api := r.Group("/api")
	{
		api.POST("/games", s.handleCreateGame)
		api.GET("/games", s.handleListGames)
		api.GET("/games/:code", s.handleGetGame)
		api.POST("/games/:code/join", s.handleJoinGame)
		api.GET("/games/:code/state/:player_id", s.handlePlayerState)
		api.POST("/games/:code/ready", s.handleReady)
		api.POST("/games/:code/start", s.handleStart)
		api.POST("/games/:code/leave", s.handleLeaveGame)
		api.POST("/games/:code/action", s.handleAction)
		api.POST("/games/:code/deal", s.handleDeal)
		api.POST("/games/:code/rebuy", s.handleRebuy)
		api.POST("/games/:code/cancel_rebuy", s.handleCancelRebuy)
		api.POST("/games/:code/show_cards", s.handleShowCards)
		api.POST("/games/:code/pause", s.handlePause)
	}
	r.GET("/ws/:code/:player_id", s.handleWebSocket)
	r.GET("/admin/stats", s.handleAdminStats)

	s.engine = r
	return s
}

// Handler returns the http.Handler to mount.
func (s *Server) Handler() http.Handler {
	return s.engine
}
