package model

import (
	"time"

	"gorm.io/datatypes"
)

// Character is the persisted snapshot of a player session.
type Character struct {
	ID          string         `gorm:"primaryKey;size:36" json:"id"`
	Name        string         `gorm:"size:32;not null" json:"name"`
	Class       string         `gorm:"size:64;not null" json:"class"`
	Level       int            `gorm:"default:1" json:"level"`
	Exp         int64          `gorm:"default:0" json:"exp"`
	HP          int            `gorm:"not null" json:"hp"`
	MP          int            `gorm:"not null" json:"mp"`
	Shield      int            `gorm:"default:0" json:"shield"`
	Gold        int64          `gorm:"default:0" json:"gold"`
	Permanent   datatypes.JSON `json:"permanent"`    // resource.StatLine
	Equipped    datatypes.JSON `json:"equipped"`     // slot name -> equipment name
	Inventory   datatypes.JSON `json:"inventory"`    // item name -> count
	KnownSkills datatypes.JSON `json:"known_skills"` // ordered skill names
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}
