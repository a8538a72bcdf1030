package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"sort"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
	"gopkg.in/yaml.v3"
)

const (
	gameFile   = "game.json"
	schemaFile = "game.schema.json"
)

// Bundle holds everything a session needs to boot.
type Bundle struct {
	Game  *GameConfig
	Level *LevelConfig
}

// Loader loads configuration files using fs.FS interface
type Loader struct {
	fsys     fs.FS
	basePath string
}

// NewLoader creates a new config loader from filesystem path
func NewLoader(basePath string) *Loader {
	return &Loader{
		fsys:     os.DirFS(basePath),
		basePath: basePath,
	}
}

// NewFSLoader creates a new config loader from fs.FS
func NewFSLoader(fsys fs.FS, basePath string) *Loader {
	return &Loader{
		fsys:     fsys,
		basePath: basePath,
	}
}

// LoadGame loads game.json and validates it against game.schema.json
func (l *Loader) LoadGame() (*GameConfig, error) {
	data, err := fs.ReadFile(l.fsys, gameFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", gameFile, err)
	}
	if err := l.validate(data); err != nil {
		return nil, err
	}

	var cfg GameConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", gameFile, err)
	}
	return &cfg, nil
}

func (l *Loader) validate(data []byte) error {
	schemaData, err := fs.ReadFile(l.fsys, schemaFile)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", schemaFile, err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaFile, bytes.NewReader(schemaData)); err != nil {
		return fmt.Errorf("failed to add schema: %w", err)
	}
	schema, err := compiler.Compile(schemaFile)
	if err != nil {
		return fmt.Errorf("failed to compile schema: %w", err)
	}

	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", gameFile, err)
	}
	if err := schema.Validate(v); err != nil {
		return fmt.Errorf("invalid %s: %w", gameFile, err)
	}
	return nil
}

// LoadLevel loads levels/<name>.yaml
func (l *Loader) LoadLevel(name string) (*LevelConfig, error) {
	var cfg LevelConfig
	if err := l.readYAML(path.Join("levels", name+".yaml"), &cfg); err != nil {
		return nil, fmt.Errorf("failed to load level %s: %w", name, err)
	}
	if cfg.Name == "" {
		cfg.Name = name
	}
	return &cfg, nil
}

// LoadBot loads bots/<name>.yaml
func (l *Loader) LoadBot(name string) (*BotConfig, error) {
	var cfg BotConfig
	if err := l.readYAML(path.Join("bots", name+".yaml"), &cfg); err != nil {
		return nil, fmt.Errorf("failed to load bot %s: %w", name, err)
	}
	if cfg.Name == "" {
		cfg.Name = name
	}
	return &cfg, nil
}

// Bots lists the bot script names, sorted.
func (l *Loader) Bots() ([]string, error) {
	entries, err := fs.ReadDir(l.fsys, "bots")
	if err != nil {
		return nil, fmt.Errorf("failed to list bots: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		names = append(names, strings.TrimSuffix(e.Name(), ".yaml"))
	}
	sort.Strings(names)
	return names, nil
}

func (l *Loader) readYAML(p string, out any) error {
	data, err := fs.ReadFile(l.fsys, p)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, out)
}

// LoadAll loads game.json and the level it names. An empty level argument
// falls back to the game default.
func (l *Loader) LoadAll(level string) (*Bundle, error) {
	game, err := l.LoadGame()
	if err != nil {
		return nil, err
	}

	if level == "" {
		level = game.Level
	}
	lvl, err := l.LoadLevel(level)
	if err != nil {
		return nil, err
	}

	return &Bundle{Game: game, Level: lvl}, nil
}
