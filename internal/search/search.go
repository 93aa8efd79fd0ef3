// Package search provides fuzzy lookup of topics, resources and levels
// across every learning path.
package search

import (
	"sort"
	"strings"
	"unicode"

	fuzzysearch "github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/sahilm/fuzzy"

	"github.com/mmcdole/waypoint/internal/domain"
)

// Kind identifies what an entry points at.
type Kind int

const (
	KindLevel Kind = iota
	KindTopic
	KindResource
)

// String returns a short label for the kind.
func (k Kind) String() string {
	switch k {
	case KindLevel:
		return "level"
	case KindTopic:
		return "topic"
	case KindResource:
		return "resource"
	default:
		return "unknown"
	}
}

// Entry is one searchable item along with where it lives.
type Entry struct {
	Kind       Kind
	PathID     string
	PathTitle  string
	LevelID    string
	LevelTitle string
	ID         string // topic or resource ID; the level ID for KindLevel
	Title      string
	URL        string
}

// Breadcrumb renders "Path > Level" for display.
func (e Entry) Breadcrumb() string {
	return e.PathTitle + " > " + e.LevelTitle
}

// Result is a ranked match.
type Result struct {
	Entry
	MatchedIndexes []int // byte offsets into Title
	Score          int   // higher is better
}

// Index implements fuzzy.Source over pre-lowercased titles.
type Index struct {
	entries []Entry
	lower   []string
}

// String returns the lowercase title at index i (implements fuzzy.Source)
func (idx *Index) String(i int) string { return idx.lower[i] }

// Len returns the number of entries (implements fuzzy.Source)
func (idx *Index) Len() int { return len(idx.entries) }

// NewIndex builds an index over every level, topic and resource.
func NewIndex(paths []domain.Path) *Index {
	idx := &Index{}
	for _, p := range paths {
		for _, l := range p.Levels {
			base := Entry{
				PathID:     p.ID,
				PathTitle:  p.Title,
				LevelID:    l.ID,
				LevelTitle: l.Title,
			}

			lvl := base
			lvl.Kind = KindLevel
			lvl.ID = l.ID
			lvl.Title = l.Title
			idx.add(lvl)

			for _, t := range l.Topics {
				e := base
				e.Kind = KindTopic
				e.ID = t.ID
				e.Title = t.Name
				idx.add(e)
			}
			for _, r := range l.Resources {
				e := base
				e.Kind = KindResource
				e.ID = r.ID
				e.Title = r.Name
				e.URL = r.URL
				idx.add(e)
			}
		}
	}
	return idx
}

func (idx *Index) add(e Entry) {
	idx.entries = append(idx.entries, e)
	idx.lower = append(idx.lower, strings.ToLower(e.Title))
}

// Find ranks entries against query. Subsequence matches come first; when
// there are none, titles containing a word within a small edit distance of
// the query are returned instead. limit <= 0 means no limit.
func (idx *Index) Find(query string, limit int) []Result {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" || idx.Len() == 0 {
		return nil
	}

	results := idx.subsequence(query)
	if len(results) == 0 {
		results = idx.typoTolerant(query)
	}

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}
	return results
}

func (idx *Index) subsequence(query string) []Result {
	matches := fuzzy.FindFrom(query, idx)
	results := make([]Result, 0, len(matches))
	for _, m := range matches {
		results = append(results, Result{
			Entry:          idx.entries[m.Index],
			MatchedIndexes: m.MatchedIndexes,
			Score:          m.Score,
		})
	}
	return results
}

// typoTolerant matches queries like "flexbx" or "recurison".
func (idx *Index) typoTolerant(query string) []Result {
	maxDist := maxEdits(query)
	if maxDist == 0 {
		return nil
	}

	var results []Result
	for i, title := range idx.lower {
		best := -1
		for _, word := range words(title) {
			d := fuzzysearch.LevenshteinDistance(query, word)
			if best < 0 || d < best {
				best = d
			}
		}
		if best >= 0 && best <= maxDist {
			results = append(results, Result{
				Entry: idx.entries[i],
				Score: -best,
			})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}

// maxEdits scales typo tolerance with query length.
func maxEdits(query string) int {
	n := len([]rune(query))
	switch {
	case n < 4:
		return 0
	case n < 8:
		return 1
	default:
		return 2
	}
}

func words(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
