package httpapi

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/jdstemmler/pokerd/internal/engine"
	"github.com/jdstemmler/pokerd/internal/registry"
	"github.com/jdstemmler/pokerd/internal/view"
)

// wsMessage is the envelope for every inbound websocket frame, per spec.md
// §6 "WebSocket message shapes".
type wsMessage struct {
	Type     string `json:"type"`
	PlayerID string `json:"player_id"`
	Action   string `json:"action"`
	Amount   int64  `json:"amount"`
}

func (s *Server) handleWebSocket(c *gin.Context) {
	code := c.Param("code")
	playerID := c.Param("player_id")
	if playerID == "" {
		playerID = view.Spectator
	}

	ctx := c.Request.Context()
	blob, err := s.store.LoadEngine(ctx, code)
	if err != nil {
		socket, upErr := s.upgrader.Upgrade(c.Writer, c.Request, nil)
		if upErr == nil {
			_ = socket.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(4004, "game not found"), time.Now().Add(time.Second))
			socket.Close()
		}
		return
	}
	eng, err := engine.FromBlob(blob, nil)
	if err != nil {
		s.log.Errorf("corrupt engine blob for %s: %v", code, err)
		return
	}

	socket, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		s.log.Warnf("websocket upgrade for %s: %v", code, err)
		return
	}
	defer socket.Close()

	conn := &registry.Conn{PlayerID: playerID, Socket: socket}
	conn.TouchPong(time.Now())
	s.registry.Add(code, conn)
	defer s.registry.Remove(code, conn)

	_ = conn.Send(view.Project(eng, eng.BuildState(""), playerID))
	s.broadcastConnectionInfo(code)
	defer s.broadcastConnectionInfo(code)

	done := make(chan struct{})
	defer close(done)
	go func() {
		ticker := time.NewTicker(registry.HeartbeatTimeout / 3)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case t := <-ticker.C:
				if err := conn.Send(map[string]interface{}{"type": "ping", "ts": t.Unix()}); err != nil {
					return
				}
			}
		}
	}()

	for {
		_, data, err := socket.ReadMessage()
		if err != nil {
			return
		}
		var msg wsMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			continue
		}
		if msg.PlayerID == "" {
			msg.PlayerID = playerID
		}
		if msg.Type == "pong" {
			conn.TouchPong(time.Now())
			continue
		}
		s.dispatch(ctx, code, msg)
	}
}

// broadcastConnectionInfo sends every connection on code the current
// connected-players/spectator-count snapshot, per spec.md §6's
// "connection_info" message.
func (s *Server) broadcastConnectionInfo(code string) {
	players, spectators := s.registry.ConnectedPlayers(code)
	msg := map[string]interface{}{
		"type":              "connection_info",
		"connected_players": players,
		"spectator_count":   spectators,
	}
	for _, conn := range s.registry.Connections(code) {
		_ = conn.Send(msg)
	}
}

// dispatch applies one inbound websocket message against code's engine via
// the coordinator, then sends msg.PlayerID an error frame on failure (the
// success broadcast already happened inside coordinator.Mutate).
func (s *Server) dispatch(ctx context.Context, code string, msg wsMessage) {
	_, err := s.coord.Mutate(ctx, code, func(eng *engine.Engine) (*engine.Snapshot, error) {
		switch msg.Type {
		case "start_hand":
			return eng.DealNextHand(msg.PlayerID)
		case "ready":
			return eng.ToggleReady(msg.PlayerID)
		case "start_game":
			return eng.StartGame(msg.PlayerID)
		case "leave":
			return eng.LeaveGame(msg.PlayerID)
		case "action":
			return eng.ProcessAction(msg.PlayerID, engine.Action(msg.Action), msg.Amount)
		case "rebuy":
			return eng.Rebuy(msg.PlayerID)
		case "cancel_rebuy":
			return eng.CancelRebuy(msg.PlayerID)
		case "pause":
			return eng.Pause()
		case "unpause":
			return eng.Unpause()
		case "show_cards":
			return eng.ShowCards(msg.PlayerID)
		default:
			return nil, engine.ErrUnknownAction
		}
	})
	if err != nil {
		for _, conn := range s.registry.Connections(code) {
			if conn.PlayerID == msg.PlayerID {
				_ = conn.Send(map[string]string{"type": "error", "detail": err.Error()})
			}
		}
	}
}
