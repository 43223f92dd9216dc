package integration

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/Sephirode/realDesia/model"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealth(t *testing.T) {
	ts := NewTestServer(t)
	code, body := ts.Do(t, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, "ok", body["status"])
}

func TestBattleStreamAndPersistence(t *testing.T) {
	ts := NewTestServer(t)
	id := ts.CreateSession(t, "Warrior", "Aria")

	battleID := uuid.NewString()
	stream := ts.OpenBattleStream(t, battleID)
	defer stream.Close()

	code, body := ts.Do(t, http.MethodPost, "/api/sessions/"+id+"/battles", map[string]any{
		"enemy":     "Slime",
		"actions":   []string{"skill:Power Strike"},
		"seed":      3,
		"battle_id": battleID,
	})
	require.Equal(t, http.StatusOK, code, "battle: %v", body)
	assert.Equal(t, "win", body["outcome"])
	assert.Equal(t, battleID, body["battle_id"])

	events := stream.All()
	require.NotEmpty(t, events)
	assert.Equal(t, "battle_start", events[0].Name)
	last := events[len(events)-1]
	assert.Equal(t, "battle_end", last.Name)
	var end map[string]any
	require.NoError(t, json.Unmarshal([]byte(last.Data), &end))
	assert.Equal(t, "win", end["result"])
	assert.EqualValues(t, 30, end["exp"])

	// A late subscriber gets the stored result.
	late := ts.OpenLateStream(t, battleID)
	assert.Equal(t, "result", late.Name)

	// The battle log is batch-written shortly after.
	assert.Eventually(t, func() bool {
		var logs []model.BattleLog
		if err := ts.DB.Where("battle_id = ?", battleID).Find(&logs).Error; err != nil {
			return false
		}
		return len(logs) == 1 && logs[0].Outcome == "win"
	}, 2*time.Second, 20*time.Millisecond)

	// Autosave picks the session up without an explicit save.
	assert.Eventually(t, func() bool {
		s, err := ts.Store.Load(context.Background(), id)
		return err == nil && s.Exp() == 30 && s.Gold() == 225
	}, 2*time.Second, 20*time.Millisecond)
}

func TestProgressionAcrossBattles(t *testing.T) {
	ts := NewTestServer(t)
	id := ts.CreateSession(t, "Mage", "Lyra")

	var levelUps int
	for i := 0; i < 4; i++ {
		code, body := ts.Do(t, http.MethodPost, "/api/sessions/"+id+"/battles", map[string]any{
			"enemy":   "Slime",
			"actions": []string{"skill:Fireball", "skill:Fireball"},
			"seed":    int64(100 + i),
		})
		require.Equal(t, http.StatusOK, code, "battle %d: %v", i, body)
		require.Equal(t, "win", body["outcome"], "battle %d", i)
		if ups, ok := body["level_ups"].([]any); ok {
			levelUps += len(ups)
		}
		// Top up between fights.
		ts.Do(t, http.MethodPost, "/api/sessions/"+id+"/items/use", map[string]string{"item": "Potion"})
	}

	// 4 wins * 30 exp = 120 >= 100 needed for level 2.
	code, body := ts.Do(t, http.MethodGet, "/api/sessions/"+id, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, 1, levelUps)
	assert.EqualValues(t, 2, body["level"])
	assert.EqualValues(t, 20, body["exp"])
	assert.Contains(t, body["skills"], "Mana Shield")
}

func TestShippedDefinitionsLoad(t *testing.T) {
	ts := NewTestServerWithResources(t, "../data")
	assert.Contains(t, ts.Catalog.ClassNames(), "Cleric")

	id := ts.CreateSession(t, "Cleric", "Mira")
	code, body := ts.Do(t, http.MethodGet, "/api/sessions/"+id, nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, []any{"Mend", "Renew Mind"}, body["skills"])

	code, body = ts.Do(t, http.MethodPost, "/api/sessions/"+id+"/battles", map[string]any{
		"enemy":   "Dragon",
		"actions": []string{"escape"},
		"seed":    9,
	})
	require.Equal(t, http.StatusOK, code, "%v", body)
	assert.True(t, body["enemy"].(map[string]any)["boss"].(bool))
	assert.EqualValues(t, 10, body["enemy"].(map[string]any)["level"])
}
