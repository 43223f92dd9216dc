package model

import (
	"time"

	"gorm.io/datatypes"
)

// BattleLog records one finished battle.
type BattleLog struct {
	ID         int64          `gorm:"primaryKey;autoIncrement" json:"id"`
	BattleID   string         `gorm:"uniqueIndex;size:36;not null" json:"battle_id"`
	SessionID  string         `gorm:"index:idx_battle_session;size:36" json:"session_id"`
	Enemy      string         `gorm:"size:64;not null" json:"enemy"`
	EnemyLevel int            `json:"enemy_level"`
	Boss       bool           `json:"boss"`
	Outcome    string         `gorm:"size:16;not null" json:"outcome"`
	Rounds     int            `json:"rounds"`
	Exp        int            `json:"exp"`
	Gold       int            `json:"gold"`
	Lines      datatypes.JSON `json:"lines"`
	CreatedAt  time.Time      `gorm:"index:idx_battle_created;autoCreateTime:milli" json:"created_at"`
}
