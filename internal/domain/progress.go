// Package domain holds the roadmap and progress types shared by every layer.
package domain

// ProgressDocumentKey identifies the persisted progress document.
// Bump the version suffix for incompatible schema changes; documents stored
// under older keys are left orphaned.
const ProgressDocumentKey = "learning-path-progress-v2"

// TopicProgress maps topic IDs to their completed flag.
type TopicProgress map[string]bool

// ResourceProgress maps resource IDs to their viewed flag.
type ResourceProgress map[string]bool

// LevelProgress is the stored state of a single level.
// Completed is a manual flag and is never derived from Topics.
type LevelProgress struct {
	Topics    TopicProgress    `json:"topics"`
	Resources ResourceProgress `json:"resources"`
	Completed bool             `json:"completed"`
}

// DomainProgress maps level IDs to level state.
type DomainProgress map[string]LevelProgress

// ProgressState maps path (domain) IDs to their progress. It is the whole
// persisted document.
type ProgressState map[string]DomainProgress

// EmptyLevelProgress returns the zero level state with non-nil maps.
func EmptyLevelProgress() LevelProgress {
	return LevelProgress{
		Topics:    TopicProgress{},
		Resources: ResourceProgress{},
	}
}

// Domain returns the progress for a path, or an empty map if absent.
func (s ProgressState) Domain(id string) DomainProgress {
	if d, ok := s[id]; ok && d != nil {
		return d
	}
	return DomainProgress{}
}

// Level returns the stored level state, or the zero value if absent. The
// maps are shared with d; use Clone before handing them to other code.
func (d DomainProgress) Level(id string) LevelProgress {
	lp, ok := d[id]
	if !ok {
		return EmptyLevelProgress()
	}
	return lp.normalized()
}

// Level is shorthand for s.Domain(domain).Level(level).
func (s ProgressState) Level(domain, level string) LevelProgress {
	return s.Domain(domain).Level(level)
}

// TopicCompleted reports whether a topic is checked. Absent keys read false.
func (s ProgressState) TopicCompleted(domain, level, topic string) bool {
	return s.Level(domain, level).Topic(topic)
}

// ResourceViewed reports whether a resource is marked viewed.
func (s ProgressState) ResourceViewed(domain, level, resource string) bool {
	return s.Level(domain, level).Resource(resource)
}

// Topic returns the stored topic flag.
func (lp LevelProgress) Topic(id string) bool {
	return lp.Topics[id]
}

// Resource returns the stored resource flag.
func (lp LevelProgress) Resource(id string) bool {
	return lp.Resources[id]
}

// CompletedTopicCount counts every topic flag set to true.
func (lp LevelProgress) CompletedTopicCount() int {
	n := 0
	for _, done := range lp.Topics {
		if done {
			n++
		}
	}
	return n
}

// Clone returns a copy whose maps share nothing with lp.
func (lp LevelProgress) Clone() LevelProgress {
	out := LevelProgress{
		Topics:    make(TopicProgress, len(lp.Topics)),
		Resources: make(ResourceProgress, len(lp.Resources)),
		Completed: lp.Completed,
	}
	for id, done := range lp.Topics {
		out.Topics[id] = done
	}
	for id, viewed := range lp.Resources {
		out.Resources[id] = viewed
	}
	return out
}

// normalized replaces nil maps (e.g. from a document with missing fields).
func (lp LevelProgress) normalized() LevelProgress {
	if lp.Topics == nil {
		lp.Topics = TopicProgress{}
	}
	if lp.Resources == nil {
		lp.Resources = ResourceProgress{}
	}
	return lp
}
