package rest

import (
	"errors"
	"net/http"

	"github.com/Sephirode/realDesia/game/item"
	"github.com/Sephirode/realDesia/game/player"
	"github.com/gin-gonic/gin"
)

type useItemRequest struct {
	Item string `json:"item" binding:"required"`
}

// UseItem handles POST /api/sessions/:id/items/use (outside battle).
func (h *Handler) UseItem(c *gin.Context) {
	var req useItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var (
		res  item.Result
		view sessionView
	)
	err := h.sessions.With(c.Param("id"), func(s *player.Session) error {
		var err error
		res, err = h.items.UseOutOfBattle(s, req.Item)
		view = viewOf(s)
		return err
	})
	switch {
	case errors.Is(err, item.ErrUseFailed):
		c.JSON(statusFor(err), gin.H{"error": err.Error(), "logs": res.Logs})
		return
	case err != nil:
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"result": res, "session": view})
}
