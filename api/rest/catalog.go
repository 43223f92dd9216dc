package rest

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Catalog handles GET /api/catalog and lists every definition name.
func (h *Handler) Catalog(c *gin.Context) {
	sets := h.catalog.Sets()
	setNames := make([]string, 0, len(sets))
	for _, s := range sets {
		setNames = append(setNames, s.Name)
	}
	c.JSON(http.StatusOK, gin.H{
		"classes":     h.catalog.ClassNames(),
		"enemies":     h.catalog.EnemyNames(),
		"skills":      h.catalog.SkillNames(),
		"equipment":   h.catalog.EquipmentNames(),
		"sets":        setNames,
		"consumables": h.catalog.ConsumableNames(),
	})
}
