package search

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/waypoint/internal/domain"
)

func testPaths() []domain.Path {
	return []domain.Path{{
		ID:    "algorithms",
		Title: "Algorithms",
		Levels: []domain.Level{{
			ID:    "basics",
			Title: "Basics",
			Topics: []domain.Topic{
				{ID: "recursion", Name: "Recursion"},
				{ID: "binary-search", Name: "Binary Search"},
			},
			Resources: []domain.Resource{
				{ID: "froggy", Name: "Flexbox Froggy", URL: "https://flexboxfroggy.com/", Type: domain.ResourceTypeCourse},
			},
		}},
	}}
}

func TestNewIndex_IndexesEveryItem(t *testing.T) {
	idx := NewIndex(testPaths())
	require.Equal(t, 4, idx.Len())
	assert.Equal(t, "basics", idx.String(0))
	assert.Equal(t, "flexbox froggy", idx.String(3))
}

func TestFind_Subsequence(t *testing.T) {
	idx := NewIndex(testPaths())

	results := idx.Find("bin", 0)
	require.NotEmpty(t, results)

	top := results[0]
	assert.Equal(t, KindTopic, top.Kind)
	assert.Equal(t, "binary-search", top.ID)
	assert.Equal(t, "Algorithms > Basics", top.Breadcrumb())
	assert.Len(t, top.MatchedIndexes, 3)
}

func TestFind_CaseInsensitive(t *testing.T) {
	idx := NewIndex(testPaths())

	results := idx.Find("FROGGY", 0)
	require.Len(t, results, 1)
	assert.Equal(t, KindResource, results[0].Kind)
	assert.Equal(t, "https://flexboxfroggy.com/", results[0].URL)
	assert.Equal(t, "basics", results[0].LevelID)
}

func TestFind_TypoFallback(t *testing.T) {
	idx := NewIndex(testPaths())

	results := idx.Find("recurison", 0)
	require.Len(t, results, 1)
	assert.Equal(t, "recursion", results[0].ID)
	assert.Empty(t, results[0].MatchedIndexes)
}

func TestFind_ShortQueriesAreNotTypoMatched(t *testing.T) {
	idx := NewIndex(testPaths())
	assert.Empty(t, idx.Find("zzz", 0))
}

func TestFind_Limit(t *testing.T) {
	idx := NewIndex(testPaths())

	all := idx.Find("s", 0)
	require.Greater(t, len(all), 1)

	limited := idx.Find("s", 1)
	require.Len(t, limited, 1)
	assert.Equal(t, all[0].ID, limited[0].ID)
}

func TestFind_EmptyQuery(t *testing.T) {
	idx := NewIndex(testPaths())
	assert.Nil(t, idx.Find("   ", 10))
	assert.Nil(t, NewIndex(nil).Find("anything", 10))
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "level", KindLevel.String())
	assert.Equal(t, "topic", KindTopic.String())
	assert.Equal(t, "resource", KindResource.String())
	assert.Equal(t, "unknown", Kind(42).String())
}
