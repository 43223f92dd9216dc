package model_test

import (
	"testing"

	"github.com/Sephirode/realDesia/model"
	"github.com/Sephirode/realDesia/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func TestAutoMigrate_InsertAndQuery(t *testing.T) {
	db := testutil.SetupTestDB(t)

	char := &model.Character{
		ID:        "0b6c1a52-7d0e-4a3c-9a51-0e1f3f3d8a10",
		Name:      "Hero",
		Class:     "Warrior",
		Level:     3,
		HP:        120,
		MP:        30,
		Inventory: datatypes.JSON(`{"Potion":2}`),
	}
	require.NoError(t, db.Create(char).Error)

	var found model.Character
	require.NoError(t, db.First(&found, "id = ?", char.ID).Error)
	assert.Equal(t, "Warrior", found.Class)
	assert.Equal(t, 3, found.Level)
	assert.JSONEq(t, `{"Potion":2}`, string(found.Inventory))
	assert.False(t, found.CreatedAt.IsZero())

	bl := &model.BattleLog{
		BattleID:  "5f2f1f66-0c5b-4d43-a2f1-54b0f0f7c0d1",
		SessionID: char.ID,
		Enemy:     "Slime",
		Outcome:   "win",
		Rounds:    4,
		Exp:       30,
		Gold:      25,
		Lines:     datatypes.JSON(`["Hero attacks"]`),
	}
	require.NoError(t, db.Create(bl).Error)
	assert.Positive(t, bl.ID)

	var logs []model.BattleLog
	require.NoError(t, db.Where("session_id = ?", char.ID).Find(&logs).Error)
	require.Len(t, logs, 1)
	assert.Equal(t, "Slime", logs[0].Enemy)
}

func TestAutoMigrate_Idempotent(t *testing.T) {
	db := testutil.SetupTestDB(t)
	require.NoError(t, model.AutoMigrate(db))
}
