package content

import (
	"embed"
	"fmt"
	"io/fs"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/user/fairy-farm/internal/buff"
)

//go:embed data/*.yaml
var embedded embed.FS

// DataLoader handles loading content tables from YAML documents
type DataLoader struct {
	fsys     fs.FS
	validate *validator.Validate
}

// NewDataLoader creates a loader reading from fsys
func NewDataLoader(fsys fs.FS) *DataLoader {
	return &DataLoader{
		fsys:     fsys,
		validate: validator.New(),
	}
}

// NewDirLoader creates a loader reading from a directory on disk
func NewDirLoader(dir string) *DataLoader {
	return NewDataLoader(os.DirFS(dir))
}

// EmbeddedLoader creates a loader over the tables compiled into the binary
func EmbeddedLoader() *DataLoader {
	sub, err := fs.Sub(embedded, "data")
	if err != nil {
		// the embed pattern guarantees the directory
		panic(err)
	}
	return NewDataLoader(sub)
}

// Default loads the embedded tables
func Default() (*Tables, error) {
	return EmbeddedLoader().Load()
}

// Load reads every document and builds the tables
func (dl *DataLoader) Load() (*Tables, error) {
	items, err := dl.LoadItems()
	if err != nil {
		return nil, err
	}
	buffs, err := dl.LoadBuffs()
	if err != nil {
		return nil, err
	}
	recipes, err := dl.LoadRecipes()
	if err != nil {
		return nil, err
	}
	chapters, err := dl.LoadChapters()
	if err != nil {
		return nil, err
	}
	npcs, err := dl.LoadNPCs()
	if err != nil {
		return nil, err
	}
	plots, err := dl.LoadPlots()
	if err != nil {
		return nil, err
	}

	tables, err := NewTables(items, buffs, recipes, chapters, npcs, plots)
	if err != nil {
		return nil, fmt.Errorf("invalid content tables: %w", err)
	}
	return tables, nil
}

// LoadItems loads item definitions
func (dl *DataLoader) LoadItems() ([]Item, error) {
	var items []Item
	if err := dl.decode("items.yaml", &items); err != nil {
		return nil, err
	}
	return items, validateAll(dl, "items", items)
}

// LoadBuffs loads the buff catalogue entries
func (dl *DataLoader) LoadBuffs() ([]buff.Buff, error) {
	var buffs []buff.Buff
	if err := dl.decode("buffs.yaml", &buffs); err != nil {
		return nil, err
	}
	return buffs, nil
}

// LoadRecipes loads the cooking recipes
func (dl *DataLoader) LoadRecipes() ([]Recipe, error) {
	var recipes []Recipe
	if err := dl.decode("recipes.yaml", &recipes); err != nil {
		return nil, err
	}
	return recipes, validateAll(dl, "recipes", recipes)
}

// LoadChapters loads story chapters
func (dl *DataLoader) LoadChapters() ([]Chapter, error) {
	var chapters []Chapter
	if err := dl.decode("chapters.yaml", &chapters); err != nil {
		return nil, err
	}
	return chapters, validateAll(dl, "chapters", chapters)
}

// LoadNPCs loads NPC definitions
func (dl *DataLoader) LoadNPCs() ([]NPC, error) {
	var npcs []NPC
	if err := dl.decode("npcs.yaml", &npcs); err != nil {
		return nil, err
	}
	return npcs, validateAll(dl, "npcs", npcs)
}

// LoadPlots loads plot unlock rules
func (dl *DataLoader) LoadPlots() ([]PlotRule, error) {
	var plots []PlotRule
	if err := dl.decode("plots.yaml", &plots); err != nil {
		return nil, err
	}
	return plots, validateAll(dl, "plots", plots)
}

func (dl *DataLoader) decode(name string, into any) error {
	data, err := fs.ReadFile(dl.fsys, name)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", name, err)
	}
	if err := yaml.Unmarshal(data, into); err != nil {
		return fmt.Errorf("failed to parse %s: %w", name, err)
	}
	return nil
}

func validateAll[T any](dl *DataLoader, table string, rows []T) error {
	for i := range rows {
		if err := dl.validate.Struct(rows[i]); err != nil {
			return fmt.Errorf("%s[%d]: %w", table, i, err)
		}
	}
	return nil
}
