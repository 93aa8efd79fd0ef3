// Package roadmap loads the static learning-path content.
package roadmap

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/mmcdole/waypoint/internal/domain"
	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var builtinCatalog []byte

// Catalog is a validated, read-only set of learning paths.
type Catalog struct {
	paths []domain.Path
	index map[string]int
}

type catalogFile struct {
	Paths []domain.Path `yaml:"paths"`
}

// Default returns the built-in catalog.
func Default() (*Catalog, error) {
	return Parse(builtinCatalog)
}

// LoadFile reads a catalog from a YAML file.
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}
	cat, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return cat, nil
}

// Parse decodes and validates catalog YAML.
func Parse(data []byte) (*Catalog, error) {
	var file catalogFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidCatalog, err)
	}
	return New(file.Paths)
}

// New validates paths and builds a catalog from them.
func New(paths []domain.Path) (*Catalog, error) {
	if err := validate(paths); err != nil {
		return nil, err
	}
	c := &Catalog{
		paths: paths,
		index: make(map[string]int, len(paths)),
	}
	for i, p := range paths {
		c.index[p.ID] = i
	}
	return c, nil
}

func validate(paths []domain.Path) error {
	if len(paths) == 0 {
		return fmt.Errorf("%w: no paths defined", domain.ErrInvalidCatalog)
	}

	seenPaths := make(map[string]bool, len(paths))
	for _, p := range paths {
		if p.ID == "" {
			return fmt.Errorf("%w: path %q has no id", domain.ErrInvalidCatalog, p.Title)
		}
		if seenPaths[p.ID] {
			return fmt.Errorf("%w: duplicate path id %q", domain.ErrInvalidCatalog, p.ID)
		}
		seenPaths[p.ID] = true

		seenLevels := make(map[string]bool, len(p.Levels))
		for _, l := range p.Levels {
			if l.ID == "" {
				return fmt.Errorf("%w: level %q in %s has no id", domain.ErrInvalidCatalog, l.Title, p.ID)
			}
			if seenLevels[l.ID] {
				return fmt.Errorf("%w: duplicate level id %q in %s", domain.ErrInvalidCatalog, l.ID, p.ID)
			}
			seenLevels[l.ID] = true

			if err := validateLevel(p.ID, l); err != nil {
				return err
			}
		}
	}
	return nil
}

func validateLevel(pathID string, l domain.Level) error {
	where := pathID + "/" + l.ID

	topics := make(map[string]bool, len(l.Topics))
	for _, t := range l.Topics {
		if t.ID == "" {
			return fmt.Errorf("%w: topic %q in %s has no id", domain.ErrInvalidCatalog, t.Name, where)
		}
		if topics[t.ID] {
			return fmt.Errorf("%w: duplicate topic id %q in %s", domain.ErrInvalidCatalog, t.ID, where)
		}
		topics[t.ID] = true
	}

	resources := make(map[string]bool, len(l.Resources))
	for _, r := range l.Resources {
		if r.ID == "" {
			return fmt.Errorf("%w: resource %q in %s has no id", domain.ErrInvalidCatalog, r.Name, where)
		}
		if resources[r.ID] {
			return fmt.Errorf("%w: duplicate resource id %q in %s", domain.ErrInvalidCatalog, r.ID, where)
		}
		if !r.Type.Valid() {
			return fmt.Errorf("%w: resource %q in %s has unknown type %q", domain.ErrInvalidCatalog, r.ID, where, r.Type)
		}
		resources[r.ID] = true
	}
	return nil
}

// Paths returns every path in catalog order.
func (c *Catalog) Paths() []domain.Path {
	return c.paths
}

// Path looks up a path by ID.
func (c *Catalog) Path(id string) (domain.Path, error) {
	i, ok := c.index[id]
	if !ok {
		return domain.Path{}, fmt.Errorf("%w: %s", domain.ErrPathNotFound, id)
	}
	return c.paths[i], nil
}

// Level looks up a level within a path.
func (c *Catalog) Level(pathID, levelID string) (domain.Level, error) {
	p, err := c.Path(pathID)
	if err != nil {
		return domain.Level{}, err
	}
	for _, l := range p.Levels {
		if l.ID == levelID {
			return l, nil
		}
	}
	return domain.Level{}, fmt.Errorf("%w: %s/%s", domain.ErrLevelNotFound, pathID, levelID)
}

// Topic looks up a topic within a level.
func (c *Catalog) Topic(pathID, levelID, topicID string) (domain.Topic, error) {
	l, err := c.Level(pathID, levelID)
	if err != nil {
		return domain.Topic{}, err
	}
	for _, t := range l.Topics {
		if t.ID == topicID {
			return t, nil
		}
	}
	return domain.Topic{}, fmt.Errorf("%w: %s/%s/%s", domain.ErrTopicNotFound, pathID, levelID, topicID)
}

// Resource looks up a resource within a level.
func (c *Catalog) Resource(pathID, levelID, resourceID string) (domain.Resource, error) {
	l, err := c.Level(pathID, levelID)
	if err != nil {
		return domain.Resource{}, err
	}
	for _, r := range l.Resources {
		if r.ID == resourceID {
			return r, nil
		}
	}
	return domain.Resource{}, fmt.Errorf("%w: %s/%s/%s", domain.ErrResourceNotFound, pathID, levelID, resourceID)
}
