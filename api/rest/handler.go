package rest

import (
	"github.com/Sephirode/realDesia/audit"
	"github.com/Sephirode/realDesia/cache"
	"github.com/Sephirode/realDesia/config"
	"github.com/Sephirode/realDesia/game/item"
	"github.com/Sephirode/realDesia/game/player"
	"github.com/Sephirode/realDesia/resource"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Deps are the services the REST handlers work against.
type Deps struct {
	Catalog  *resource.Catalog
	Sessions *player.SessionManager
	Store    *player.Store
	Items    *item.Engine
	Equip    *item.EquipService
	Audit    *audit.Service // nil disables battle logs
	Cache    cache.Cache
	PubSub   cache.PubSub
	Battle   config.BattleConfig
	Game     config.GameConfig
	Logger   *zap.Logger
}

// Handler serves the session, equipment, item, battle and catalog endpoints.
type Handler struct {
	catalog  *resource.Catalog
	sessions *player.SessionManager
	store    *player.Store
	items    *item.Engine
	equip    *item.EquipService
	audit    *audit.Service
	cache    cache.Cache
	pubsub   cache.PubSub
	battle   config.BattleConfig
	game     config.GameConfig
	logger   *zap.Logger
}

// NewHandler creates a Handler.
func NewHandler(d Deps) *Handler {
	if d.Logger == nil {
		d.Logger = zap.NewNop()
	}
	if d.Items == nil {
		d.Items = item.NewEngine(d.Logger)
	}
	if d.Equip == nil {
		d.Equip = item.NewEquipService(d.Logger)
	}
	return &Handler{
		catalog:  d.Catalog,
		sessions: d.Sessions,
		store:    d.Store,
		items:    d.Items,
		equip:    d.Equip,
		audit:    d.Audit,
		cache:    d.Cache,
		pubsub:   d.PubSub,
		battle:   d.Battle,
		game:     d.Game,
		logger:   d.Logger,
	}
}

// Register mounts all routes under api.
func (h *Handler) Register(api gin.IRouter) {
	api.GET("/catalog", h.Catalog)

	sessions := api.Group("/sessions")
	sessions.POST("", h.CreateSession)
	sessions.GET("/:id", h.GetSession)
	sessions.DELETE("/:id", h.CloseSession)
	sessions.POST("/:id/save", h.SaveSession)
	sessions.POST("/:id/load", h.LoadSession)
	sessions.POST("/:id/equip", h.Equip)
	sessions.POST("/:id/unequip", h.Unequip)
	sessions.POST("/:id/items/use", h.UseItem)
	sessions.POST("/:id/battles", h.StartBattle)

	api.GET("/battles/:battle_id", h.GetBattle)
}
