package platformer

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed scenes/*.yaml
var sceneFS embed.FS

// Point is a cell position in scene files.
type Point struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
}

// Platform is a one-cell-high surface that can be landed on from above.
type Platform struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	W int `yaml:"w"`
}

// Scene describes one level.
type Scene struct {
	Name      string     `yaml:"name"`
	Title     string     `yaml:"title"`
	Order     int        `yaml:"order"`
	Width     int        `yaml:"width"`
	Height    int        `yaml:"height"`
	Spawn     Point      `yaml:"spawn"`
	Platforms []Platform `yaml:"platforms"`
	Zombies   []Point    `yaml:"zombies"`
}

// Validate checks that the scene is playable.
func (s *Scene) Validate() error {
	if s.Name == "" {
		return errors.New("platformer: scene has no name")
	}
	if s.Width <= 0 || s.Height <= 0 {
		return fmt.Errorf("platformer: scene %s: invalid size %dx%d", s.Name, s.Width, s.Height)
	}
	if !s.inside(s.Spawn) {
		return fmt.Errorf("platformer: scene %s: spawn %v outside the world", s.Name, s.Spawn)
	}
	for i, p := range s.Platforms {
		if p.W <= 0 || p.Y < 0 || p.Y >= s.Height {
			return fmt.Errorf("platformer: scene %s: platform %d is invalid", s.Name, i)
		}
	}
	for i, z := range s.Zombies {
		if !s.inside(z) {
			return fmt.Errorf("platformer: scene %s: zombie %d outside the world", s.Name, i)
		}
	}
	return nil
}

func (s *Scene) inside(p Point) bool {
	return p.X >= 0 && p.X < s.Width && p.Y >= 0 && p.Y < s.Height
}

// SceneLoader resolves scenes by name.
type SceneLoader interface {
	Scene(name string) (*Scene, error)
}

// Catalog holds parsed scenes in play order.
type Catalog struct {
	scenes []*Scene
	byName map[string]*Scene
}

// LoadCatalog parses every *.yaml file in dir of fsys.
func LoadCatalog(fsys fs.FS, dir string) (*Catalog, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("platformer: cannot read scenes: %w", err)
	}

	c := &Catalog{byName: make(map[string]*Scene)}
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".yaml") {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, e.Name()))
		if err != nil {
			return nil, fmt.Errorf("platformer: cannot read scene %s: %w", e.Name(), err)
		}
		s, err := ParseScene(data)
		if err != nil {
			return nil, fmt.Errorf("%w (file %s)", err, e.Name())
		}
		if _, dup := c.byName[s.Name]; dup {
			return nil, fmt.Errorf("platformer: duplicate scene %q", s.Name)
		}
		c.byName[s.Name] = s
		c.scenes = append(c.scenes, s)
	}

	sort.SliceStable(c.scenes, func(i, j int) bool {
		return c.scenes[i].Order < c.scenes[j].Order
	})
	return c, nil
}

// BuiltinCatalog returns the scenes shipped with the game.
func BuiltinCatalog() (*Catalog, error) {
	return LoadCatalog(sceneFS, "scenes")
}

// ParseScene decodes and validates a scene file.
func ParseScene(data []byte) (*Scene, error) {
	var s Scene
	if err := yaml.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("platformer: cannot parse scene: %w", err)
	}
	if s.Title == "" {
		s.Title = s.Name
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Scene returns the scene registered under name.
func (c *Catalog) Scene(name string) (*Scene, error) {
	s, ok := c.byName[name]
	if !ok {
		return nil, fmt.Errorf("platformer: unknown scene %q", name)
	}
	return s, nil
}

// Scenes returns all scenes in play order.
func (c *Catalog) Scenes() []*Scene {
	return c.scenes
}
