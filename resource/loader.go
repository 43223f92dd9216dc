package resource

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Table file base names inside the data directory. Each table may be
// written as .json, .yaml or .yml; the first one found wins.
const (
	FileClasses     = "classes"
	FileEnemies     = "enemies"
	FileSkills      = "skills"
	FileEquipment   = "equipment"
	FileSets        = "equipment_sets"
	FileConsumables = "consumables"
)

var tableExts = []string{".json", ".yaml", ".yml"}

// Loader reads the definition tables from a directory.
type Loader struct {
	DataPath string
}

// NewLoader creates a Loader for the given data directory.
func NewLoader(dataPath string) *Loader {
	return &Loader{DataPath: dataPath}
}

// Load reads every table and builds the catalog. Missing tables are
// empty; malformed ones fail the load.
func (l *Loader) Load() (*Catalog, error) {
	var t Tables
	steps := []func() error{
		func() error { return loadTable(l.DataPath, FileClasses, &t.Classes) },
		func() error { return loadTable(l.DataPath, FileEnemies, &t.Enemies) },
		func() error { return loadTable(l.DataPath, FileSkills, &t.Skills) },
		func() error { return loadTable(l.DataPath, FileEquipment, &t.Equipment) },
		func() error { return loadTable(l.DataPath, FileSets, &t.Sets) },
		func() error { return loadTable(l.DataPath, FileConsumables, &t.Consumables) },
	}
	for _, fn := range steps {
		if err := fn(); err != nil {
			return nil, err
		}
	}
	return NewCatalog(t)
}

func loadTable[T any](dir, base string, out *map[string]T) error {
	for _, ext := range tableExts {
		path := filepath.Join(dir, base+ext)
		data, err := os.ReadFile(path)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("resource: read %s: %w", path, err)
		}
		if ext == ".json" {
			err = json.Unmarshal(data, out)
		} else {
			err = yaml.Unmarshal(data, out)
		}
		if err != nil {
			return fmt.Errorf("resource: parse %s: %w", path, err)
		}
		return nil
	}
	return nil
}
