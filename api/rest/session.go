package rest

import (
	"net/http"

	"github.com/Sephirode/realDesia/game/battle"
	"github.com/Sephirode/realDesia/game/player"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// sessionView is the JSON form of a player session.
type sessionView struct {
	ID        string            `json:"id"`
	Name      string            `json:"name"`
	Class     string            `json:"class"`
	Level     int               `json:"level"`
	Exp       int64             `json:"exp"`
	ExpToNext int               `json:"exp_to_next"`
	HP        int               `json:"hp"`
	MaxHP     int               `json:"max_hp"`
	MP        int               `json:"mp"`
	MaxMP     int               `json:"max_mp"`
	Shield    int               `json:"shield"`
	Gold      int64             `json:"gold"`
	Stats     battle.Stats      `json:"stats"`
	Equipment map[string]string `json:"equipment"`
	Inventory map[string]int    `json:"inventory"`
	Skills    []string          `json:"skills"`
	Tags      []string          `json:"tags,omitempty"`
}

func viewOf(s *player.Session) sessionView {
	return sessionView{
		ID:        s.ID(),
		Name:      s.Name(),
		Class:     s.ClassName(),
		Level:     s.Level(),
		Exp:       s.Exp(),
		ExpToNext: s.ExpToNextLevel(),
		HP:        s.HP(),
		MaxHP:     s.MaxHP(),
		MP:        s.MP(),
		MaxMP:     s.MaxMP(),
		Shield:    s.Shield(),
		Gold:      s.Gold(),
		Stats:     s.Stats(),
		Equipment: s.EquippedMap(),
		Inventory: s.Inventory(),
		Skills:    s.KnownSkills(),
		Tags:      s.SpecialTags(),
	}
}

type createSessionRequest struct {
	Class string `json:"class" binding:"required"`
	Name  string `json:"name"  binding:"max=32"`
}

// CreateSession handles POST /api/sessions.
func (h *Handler) CreateSession(c *gin.Context) {
	var req createSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s, err := player.NewSession(h.catalog, req.Class, req.Name)
	if err != nil {
		abortWithError(c, err)
		return
	}
	s.AddGold(int64(h.game.StartGold))
	for _, st := range h.game.StartItems {
		if _, err := h.catalog.Consumable(st.Name); err != nil && !h.catalog.IsEquipment(st.Name) {
			h.logger.Warn("skipping unknown start item", zap.String("item", st.Name))
			continue
		}
		s.AddItem(st.Name, st.Count)
	}
	h.sessions.Register(s)

	c.JSON(http.StatusCreated, viewOf(s))
}

// GetSession handles GET /api/sessions/:id.
func (h *Handler) GetSession(c *gin.Context) {
	var view sessionView
	err := h.sessions.With(c.Param("id"), func(s *player.Session) error {
		view = viewOf(s)
		return nil
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

// SaveSession handles POST /api/sessions/:id/save.
func (h *Handler) SaveSession(c *gin.Context) {
	err := h.sessions.With(c.Param("id"), func(s *player.Session) error {
		return h.store.Save(c.Request.Context(), s)
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"saved": true})
}

// LoadSession handles POST /api/sessions/:id/load. It restores a saved
// character into the live registry; a session that is already live is
// returned as-is.
func (h *Handler) LoadSession(c *gin.Context) {
	id := c.Param("id")
	if s := h.sessions.Get(id); s != nil {
		h.GetSession(c)
		return
	}
	s, err := h.store.Load(c.Request.Context(), id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	h.sessions.Register(s)
	c.JSON(http.StatusOK, viewOf(s))
}

// CloseSession handles DELETE /api/sessions/:id. The session is saved
// before it leaves the registry.
func (h *Handler) CloseSession(c *gin.Context) {
	id := c.Param("id")
	err := h.sessions.With(id, func(s *player.Session) error {
		return h.store.Save(c.Request.Context(), s)
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	h.sessions.Unregister(id)
	c.Status(http.StatusNoContent)
}
