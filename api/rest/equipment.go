package rest

import (
	"fmt"
	"net/http"

	"github.com/Sephirode/realDesia/game/item"
	"github.com/Sephirode/realDesia/game/player"
	"github.com/gin-gonic/gin"
)

type equipRequest struct {
	Item string `json:"item" binding:"required"`
	Slot string `json:"slot"` // empty = pick automatically
}

type unequipRequest struct {
	Slot string `json:"slot" binding:"required"`
}

func parseSlot(name string) (player.Slot, error) {
	slot, ok := player.ParseSlot(name)
	if !ok {
		return 0, fmt.Errorf("%w: unknown slot %q", item.ErrWrongSlot, name)
	}
	return slot, nil
}

// Equip handles POST /api/sessions/:id/equip.
func (h *Handler) Equip(c *gin.Context) {
	var req equipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	choice := item.AutoSlot
	if req.Slot != "" {
		slot, err := parseSlot(req.Slot)
		if err != nil {
			abortWithError(c, err)
			return
		}
		choice = slot
	}

	var (
		res  item.EquipResult
		view sessionView
	)
	err := h.sessions.With(c.Param("id"), func(s *player.Session) error {
		var err error
		if res, err = h.equip.Equip(s, req.Item, choice); err != nil {
			return err
		}
		view = viewOf(s)
		return nil
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"slot": res.Slot, "returned": res.Returned, "session": view})
}

// Unequip handles POST /api/sessions/:id/unequip.
func (h *Handler) Unequip(c *gin.Context) {
	var req unequipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	slot, err := parseSlot(req.Slot)
	if err != nil {
		abortWithError(c, err)
		return
	}

	var (
		removed string
		view    sessionView
	)
	err = h.sessions.With(c.Param("id"), func(s *player.Session) error {
		var err error
		if removed, err = h.equip.Unequip(s, slot); err != nil {
			return err
		}
		view = viewOf(s)
		return nil
	})
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"removed": removed, "session": view})
}
