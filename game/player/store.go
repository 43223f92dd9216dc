package player

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"

	"github.com/Sephirode/realDesia/model"
	"github.com/Sephirode/realDesia/resource"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ErrNotFound is returned by Store.Load for an unknown session id.
var ErrNotFound = errors.New("player: session not found")

// Snapshot converts the session into its persisted form.
func (s *Session) Snapshot() (*model.Character, error) {
	perm, err := json.Marshal(s.permanent)
	if err != nil {
		return nil, err
	}
	eq, err := json.Marshal(s.EquippedMap())
	if err != nil {
		return nil, err
	}
	inv, err := json.Marshal(s.inventory)
	if err != nil {
		return nil, err
	}
	known, err := json.Marshal(s.known)
	if err != nil {
		return nil, err
	}
	return &model.Character{
		ID:          s.id,
		Name:        s.name,
		Class:       s.class.Name,
		Level:       s.level,
		Exp:         s.exp,
		HP:          s.hp,
		MP:          s.mp,
		Shield:      s.Shield(),
		Gold:        s.gold,
		Permanent:   datatypes.JSON(perm),
		Equipped:    datatypes.JSON(eq),
		Inventory:   datatypes.JSON(inv),
		KnownSkills: datatypes.JSON(known),
	}, nil
}

// Restore rebuilds a session from its persisted form. Equipment names or
// slots that no longer exist in the catalog are dropped.
func Restore(catalog *resource.Catalog, c *model.Character) (*Session, error) {
	cl, err := catalog.Class(c.Class)
	if err != nil {
		return nil, err
	}
	s := &Session{
		id:        c.ID,
		name:      c.Name,
		class:     cl,
		catalog:   catalog,
		level:     max(1, c.Level),
		exp:       max(0, c.Exp),
		gold:      max(0, c.Gold),
		inventory: make(map[string]int),
	}
	if err := unmarshalField(c.Permanent, &s.permanent); err != nil {
		return nil, fmt.Errorf("player: restore permanent: %w", err)
	}
	var inv map[string]int
	if err := unmarshalField(c.Inventory, &inv); err != nil {
		return nil, fmt.Errorf("player: restore inventory: %w", err)
	}
	for name, n := range inv {
		s.AddItem(name, n)
	}
	var eq map[string]string
	if err := unmarshalField(c.Equipped, &eq); err != nil {
		return nil, fmt.Errorf("player: restore equipped: %w", err)
	}
	for key, name := range eq {
		slot, ok := ParseSlot(key)
		if !ok || !catalog.IsEquipment(name) {
			continue
		}
		s.equipped[slot] = name
	}

	s.refreshKnownSkills()
	var known []string
	if err := unmarshalField(c.KnownSkills, &known); err != nil {
		return nil, fmt.Errorf("player: restore known skills: %w", err)
	}
	for _, name := range known {
		if _, err := catalog.Skill(name); err == nil && !slices.Contains(s.known, name) {
			s.known = append(s.known, name)
		}
	}

	s.recalcEquipment()
	s.SetHP(float64(c.HP))
	s.SetMP(float64(c.MP))
	s.SetShield(float64(c.Shield))
	return s, nil
}

func unmarshalField(raw datatypes.JSON, v any) error {
	if len(raw) == 0 || string(raw) == "null" {
		return nil
	}
	return json.Unmarshal(raw, v)
}

// Store persists sessions as model.Character rows.
type Store struct {
	db      *gorm.DB
	catalog *resource.Catalog
}

// NewStore creates a Store.
func NewStore(db *gorm.DB, catalog *resource.Catalog) *Store {
	return &Store{db: db, catalog: catalog}
}

// Save upserts the session snapshot.
func (st *Store) Save(ctx context.Context, s *Session) error {
	c, err := s.Snapshot()
	if err != nil {
		return err
	}
	return st.db.WithContext(ctx).Save(c).Error
}

// Load restores the session with the given id.
func (st *Store) Load(ctx context.Context, id string) (*Session, error) {
	var c model.Character
	err := st.db.WithContext(ctx).Where("id = ?", id).First(&c).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return Restore(st.catalog, &c)
}
