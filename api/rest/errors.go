package rest

import (
	"errors"
	"net/http"

	"github.com/Sephirode/realDesia/game/battle"
	"github.com/Sephirode/realDesia/game/item"
	"github.com/Sephirode/realDesia/game/player"
	"github.com/Sephirode/realDesia/resource"
	"github.com/gin-gonic/gin"
)

var errDefeated = errors.New("session has no HP left")

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, player.ErrNotFound),
		errors.Is(err, resource.ErrUnknownClass),
		errors.Is(err, resource.ErrUnknownEnemy),
		errors.Is(err, resource.ErrUnknownSkill),
		errors.Is(err, resource.ErrUnknownEquipment),
		errors.Is(err, resource.ErrUnknownConsumable):
		return http.StatusNotFound
	case errors.Is(err, item.ErrNotOwned),
		errors.Is(err, item.ErrNotUsable),
		errors.Is(err, item.ErrWrongSlot),
		errors.Is(err, item.ErrSlotEmpty):
		return http.StatusBadRequest
	case errors.Is(err, item.ErrUseFailed),
		errors.Is(err, item.ErrTwoHandEquipped),
		errors.Is(err, item.ErrSlotChoiceRequired),
		errors.Is(err, errDefeated):
		return http.StatusConflict
	case errors.Is(err, battle.ErrTooManyPrompts):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// abortWithError writes err as JSON with the mapped status. Internal
// errors are recorded on the context for the request logger and hidden
// from the client.
func abortWithError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}
