package httpapi

import (
	"crypto/rand"
	"encoding/base32"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jdstemmler/pokerd/internal/auth"
	"github.com/jdstemmler/pokerd/internal/engine"
	"github.com/jdstemmler/pokerd/internal/store"
	"github.com/jdstemmler/pokerd/internal/view"
)

type createGameRequest struct {
	CreatorName               string `json:"creator_name" binding:"required"`
	CreatorPin                string `json:"creator_pin" binding:"required"`
	StartingChips             int64  `json:"starting_chips" binding:"required"`
	SmallBlind                int64  `json:"small_blind"`
	BigBlind                  int64  `json:"big_blind"`
	MaxSeats                  int    `json:"max_seats"`
	AllowRebuys               bool   `json:"allow_rebuys"`
	MaxRebuys                 int    `json:"max_rebuys"`
	RebuyCutoffMinutes        int    `json:"rebuy_cutoff_minutes"`
	TurnTimeoutSeconds        int    `json:"turn_timeout_seconds"`
	BlindLevelDurationMinutes int    `json:"blind_level_duration_minutes"`
	TargetGameTimeMinutes     int    `json:"target_game_time_minutes"`
}

type createGameResponse struct {
	Code     string          `json:"code"`
	PlayerID string          `json:"player_id"`
	Game     *engine.Snapshot `json:"game"`
}

func newGameCode() string {
	b := make([]byte, 5)
	_, _ = rand.Read(b)
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(b)[:8]
}

func newPlayerID() string {
	b := make([]byte, 9)
	_, _ = rand.Read(b)
	return base32.StdEncoding.WithPadding(base32.NoPadding).EncodeToString(b)
}

func badRequest(c *gin.Context, detail string) {
	c.JSON(http.StatusBadRequest, gin.H{"detail": detail})
}

func (s *Server) handleCreateGame(c *gin.Context) {
	var req createGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if !auth.PinPattern.MatchString(req.CreatorPin) {
		badRequest(c, "pin must be exactly 4 digits")
		return
	}

	code := newGameCode()
	playerID := newPlayerID()

	cfg := engine.Config{
		Code:                      code,
		StartingChips:             req.StartingChips,
		SmallBlind:                req.SmallBlind,
		BigBlind:                  req.BigBlind,
		MaxSeats:                  req.MaxSeats,
		AllowRebuys:               req.AllowRebuys,
		MaxRebuys:                 req.MaxRebuys,
		RebuyCutoffMinutes:        req.RebuyCutoffMinutes,
		TurnTimeoutSeconds:        req.TurnTimeoutSeconds,
		BlindLevelDurationMinutes: req.BlindLevelDurationMinutes,
		TargetGameTimeMinutes:     req.TargetGameTimeMinutes,
	}
	if cfg.SmallBlind == 0 && cfg.BigBlind == 0 {
		cfg.BigBlind = 20
		cfg.SmallBlind = 10
	}

	eng := engine.NewEngine(cfg, nil)
	snap, err := eng.SeatPlayer(playerID, req.CreatorName)
	if err != nil {
		badRequest(c, err.Error())
		return
	}

	blob, err := eng.ToBlob()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	ctx := c.Request.Context()
	if err := s.store.SaveEngine(ctx, code, blob); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	maxSeats := req.MaxSeats
	if maxSeats == 0 {
		maxSeats = 9
	}
	if err := s.store.SaveMeta(ctx, store.Meta{
		Code:      code,
		HostName:  req.CreatorName,
		MaxSeats:  maxSeats,
		CreatedAt: time.Now(),
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	if err := s.store.SavePlayer(ctx, code, store.PlayerRecord{
		PlayerID: playerID,
		Name:     req.CreatorName,
		PinHash:  auth.HashPin(req.CreatorPin),
	}); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, createGameResponse{Code: code, PlayerID: playerID, Game: snap})
}

func (s *Server) handleListGames(c *gin.Context) {
	ctx := c.Request.Context()
	codes, err := s.store.ActiveCodes(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	out := make([]store.Meta, 0, len(codes))
	for _, code := range codes {
		meta, err := s.store.LoadMeta(ctx, code)
		if err != nil {
			continue
		}
		out = append(out, meta)
	}
	c.JSON(http.StatusOK, out)
}

// handleGetGame returns the public lobby state, per spec.md §6 "GET
// /api/games/{code}": no recipient-specific filtering (no my_cards, no
// valid_actions; hole cards and last_hand_result appear exactly as
// BuildState("") produces them) — use GET .../state/{player_id} for a
// per-player view.
func (s *Server) handleGetGame(c *gin.Context) {
	code := c.Param("code")
	ctx := c.Request.Context()

	blob, err := s.store.LoadEngine(ctx, code)
	if err == store.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"detail": "game not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	eng, err := engine.FromBlob(blob, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, eng.BuildState(""))
}

type joinGameRequest struct {
	PlayerName string `json:"player_name" binding:"required"`
	PlayerPin  string `json:"player_pin" binding:"required"`
}

type joinGameResponse struct {
	PlayerID string           `json:"player_id"`
	Game     *engine.Snapshot `json:"game"`
}

// handleJoinGame seats a new player, or reconnects an existing one whose
// name matches and whose pin matches the stored hash, per spec.md §6 "join
// lobby or reconnect (pin match)".
func (s *Server) handleJoinGame(c *gin.Context) {
	code := c.Param("code")
	var req joinGameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	if !auth.PinPattern.MatchString(req.PlayerPin) {
		badRequest(c, "pin must be exactly 4 digits")
		return
	}

	ctx := c.Request.Context()

	records, err := s.store.ListPlayers(ctx, code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	var playerID string
	for _, rec := range records {
		if rec.Name == req.PlayerName {
			if !auth.VerifyPin(req.PlayerPin, rec.PinHash) {
				badRequest(c, engine.ErrInvalidPin.Error())
				return
			}
			playerID = rec.PlayerID
			break
		}
	}
	if playerID == "" {
		playerID = newPlayerID()
		if err := s.store.SavePlayer(ctx, code, store.PlayerRecord{
			PlayerID: playerID,
			Name:     req.PlayerName,
			PinHash:  auth.HashPin(req.PlayerPin),
		}); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
			return
		}
	}

	snap, err := s.coord.Mutate(ctx, code, func(eng *engine.Engine) (*engine.Snapshot, error) {
		return eng.SeatPlayer(playerID, req.PlayerName)
	})
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, joinGameResponse{PlayerID: playerID, Game: snap})
}

// authRequest is the common (player_id, pin) envelope spec.md §6 specifies
// for every other mutating lobby/game endpoint.
type authRequest struct {
	PlayerID string `json:"player_id" binding:"required"`
	Pin      string `json:"pin" binding:"required"`
	Action   string `json:"action"`
	Amount   int64  `json:"amount"`
}

// authenticate verifies req's (player_id, pin) against the stored player
// record, per spec.md §4.5. Writes the HTTP error response itself on
// failure and returns ok=false.
func (s *Server) authenticate(c *gin.Context, code string, req authRequest) bool {
	rec, err := s.store.LoadPlayer(c.Request.Context(), code, req.PlayerID)
	if err == store.ErrNotFound {
		badRequest(c, engine.ErrPlayerNotFound.Error())
		return false
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return false
	}
	if !auth.VerifyPin(req.Pin, rec.PinHash) {
		badRequest(c, engine.ErrInvalidPin.Error())
		return false
	}
	return true
}

func (s *Server) bindAuthRequest(c *gin.Context) (authRequest, bool) {
	var req authRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return authRequest{}, false
	}
	if !s.authenticate(c, c.Param("code"), req) {
		return authRequest{}, false
	}
	return req, true
}

// mutate runs fn under the coordinator's lock for code and writes either
// the resulting snapshot or a 400 {detail} error envelope.
func (s *Server) mutate(c *gin.Context, code string, fn func(*engine.Engine) (*engine.Snapshot, error)) {
	snap, err := s.coord.Mutate(c.Request.Context(), code, fn)
	if err != nil {
		badRequest(c, err.Error())
		return
	}
	c.JSON(http.StatusOK, snap)
}

func (s *Server) handleLeaveGame(c *gin.Context) {
	req, ok := s.bindAuthRequest(c)
	if !ok {
		return
	}
	code := c.Param("code")
	s.mutate(c, code, func(eng *engine.Engine) (*engine.Snapshot, error) {
		return eng.LeaveGame(req.PlayerID)
	})
}

func (s *Server) handleReady(c *gin.Context) {
	req, ok := s.bindAuthRequest(c)
	if !ok {
		return
	}
	code := c.Param("code")
	s.mutate(c, code, func(eng *engine.Engine) (*engine.Snapshot, error) {
		return eng.ToggleReady(req.PlayerID)
	})
}

func (s *Server) handleStart(c *gin.Context) {
	req, ok := s.bindAuthRequest(c)
	if !ok {
		return
	}
	code := c.Param("code")
	s.mutate(c, code, func(eng *engine.Engine) (*engine.Snapshot, error) {
		return eng.StartGame(req.PlayerID)
	})
}

func (s *Server) handleAction(c *gin.Context) {
	req, ok := s.bindAuthRequest(c)
	if !ok {
		return
	}
	code := c.Param("code")
	s.mutate(c, code, func(eng *engine.Engine) (*engine.Snapshot, error) {
		return eng.ProcessAction(req.PlayerID, engine.Action(req.Action), req.Amount)
	})
}

func (s *Server) handleDeal(c *gin.Context) {
	req, ok := s.bindAuthRequest(c)
	if !ok {
		return
	}
	code := c.Param("code")
	s.mutate(c, code, func(eng *engine.Engine) (*engine.Snapshot, error) {
		return eng.DealNextHand(req.PlayerID)
	})
}

func (s *Server) handleRebuy(c *gin.Context) {
	req, ok := s.bindAuthRequest(c)
	if !ok {
		return
	}
	code := c.Param("code")
	s.mutate(c, code, func(eng *engine.Engine) (*engine.Snapshot, error) {
		return eng.Rebuy(req.PlayerID)
	})
}

func (s *Server) handleCancelRebuy(c *gin.Context) {
	req, ok := s.bindAuthRequest(c)
	if !ok {
		return
	}
	code := c.Param("code")
	s.mutate(c, code, func(eng *engine.Engine) (*engine.Snapshot, error) {
		return eng.CancelRebuy(req.PlayerID)
	})
}

func (s *Server) handleShowCards(c *gin.Context) {
	req, ok := s.bindAuthRequest(c)
	if !ok {
		return
	}
	code := c.Param("code")
	s.mutate(c, code, func(eng *engine.Engine) (*engine.Snapshot, error) {
		return eng.ShowCards(req.PlayerID)
	})
}

// handlePause toggles pause per spec.md §6 "pause (creator)": pauses if
// currently unpaused, unpauses otherwise. Only the creator may toggle; any
// other player gets ErrNotYourTurn, as with StartGame.
func (s *Server) handlePause(c *gin.Context) {
	req, ok := s.bindAuthRequest(c)
	if !ok {
		return
	}
	code := c.Param("code")
	s.mutate(c, code, func(eng *engine.Engine) (*engine.Snapshot, error) {
		if req.PlayerID != eng.CreatorID {
			return nil, engine.ErrNotYourTurn
		}
		if eng.Paused {
			return eng.Unpause()
		}
		return eng.Pause()
	})
}

// handlePlayerState returns the per-player engine view, per spec.md §6 "GET
// /api/games/{code}/state/{player_id}".
func (s *Server) handlePlayerState(c *gin.Context) {
	code := c.Param("code")
	playerID := c.Param("player_id")
	ctx := c.Request.Context()

	blob, err := s.store.LoadEngine(ctx, code)
	if err == store.ErrNotFound {
		c.JSON(http.StatusNotFound, gin.H{"detail": "game not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	eng, err := engine.FromBlob(blob, nil)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
		return
	}
	c.JSON(http.StatusOK, view.Project(eng, eng.BuildState(""), playerID))
}
