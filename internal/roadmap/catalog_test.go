package roadmap

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/waypoint/internal/domain"
)

func TestDefault(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)

	paths := cat.Paths()
	require.Len(t, paths, 3)
	assert.Equal(t, "web-development", paths[0].ID)
	assert.Equal(t, "python-ai-ml", paths[1].ID)
	assert.Equal(t, "data-structures", paths[2].ID)

	for _, p := range paths {
		assert.NotEmpty(t, p.Title, p.ID)
		assert.NotEmpty(t, p.Levels, p.ID)
		assert.Positive(t, p.TopicCount(), p.ID)
		for _, l := range p.Levels {
			for _, r := range l.Resources {
				assert.NotEmpty(t, r.URL, "%s/%s/%s", p.ID, l.ID, r.ID)
			}
		}
	}

	topic, err := cat.Topic("web-development", "foundations", "how-the-web-works")
	require.NoError(t, err)
	assert.Equal(t, "How the Web Works (HTTP, DNS, Browsers)", topic.Name)

	res, err := cat.Resource("web-development", "foundations", "mdn-learn")
	require.NoError(t, err)
	assert.Equal(t, domain.ResourceTypeDocs, res.Type)
}

func TestLookups_NotFound(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)

	_, err = cat.Path("cooking")
	assert.ErrorIs(t, err, domain.ErrPathNotFound)

	_, err = cat.Level("web-development", "nope")
	assert.ErrorIs(t, err, domain.ErrLevelNotFound)

	_, err = cat.Level("cooking", "nope")
	assert.ErrorIs(t, err, domain.ErrPathNotFound)

	_, err = cat.Topic("web-development", "foundations", "nope")
	assert.ErrorIs(t, err, domain.ErrTopicNotFound)

	_, err = cat.Resource("web-development", "foundations", "nope")
	assert.ErrorIs(t, err, domain.ErrResourceNotFound)
}

func TestParse_Validation(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"empty", `paths: []`},
		{"malformed", `paths: [`},
		{"missing path id", `
paths:
  - title: Untitled
`},
		{"duplicate path", `
paths:
  - id: a
  - id: a
`},
		{"duplicate level", `
paths:
  - id: a
    levels:
      - id: l
      - id: l
`},
		{"duplicate topic", `
paths:
  - id: a
    levels:
      - id: l
        topics:
          - { id: t, name: one }
          - { id: t, name: two }
`},
		{"unknown resource type", `
paths:
  - id: a
    levels:
      - id: l
        resources:
          - { id: r, name: Pod, url: "https://example.com", type: podcast }
`},
		{"missing resource id", `
paths:
  - id: a
    levels:
      - id: l
        resources:
          - { name: Pod, url: "https://example.com", type: docs }
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.yaml))
			assert.ErrorIs(t, err, domain.ErrInvalidCatalog)
		})
	}
}

func TestParse_LevelWithoutTopicsIsValid(t *testing.T) {
	cat, err := Parse([]byte(`
paths:
  - id: a
    title: A
    levels:
      - id: intro
        title: Intro
`))
	require.NoError(t, err)

	lvl, err := cat.Level("a", "intro")
	require.NoError(t, err)
	assert.Empty(t, lvl.Topics)
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "catalog.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
paths:
  - id: go
    title: Go
    levels:
      - id: basics
        topics:
          - { id: slices, name: Slices }
`), 0644))

	cat, err := LoadFile(path)
	require.NoError(t, err)
	p, err := cat.Path("go")
	require.NoError(t, err)
	assert.Equal(t, 1, p.TopicCount())

	_, err = LoadFile(filepath.Join(dir, "missing.yaml"))
	assert.Error(t, err)
}
