package domain

// ResourceType classifies an external learning resource.
type ResourceType string

const (
	ResourceTypeYouTube ResourceType = "youtube"
	ResourceTypeDocs    ResourceType = "docs"
	ResourceTypeCourse  ResourceType = "course"
)

// Valid reports whether t is a known resource type.
func (t ResourceType) Valid() bool {
	switch t {
	case ResourceTypeYouTube, ResourceTypeDocs, ResourceTypeCourse:
		return true
	default:
		return false
	}
}

// Label returns a short display label for the resource type.
func (t ResourceType) Label() string {
	switch t {
	case ResourceTypeYouTube:
		return "Video"
	case ResourceTypeDocs:
		return "Docs"
	case ResourceTypeCourse:
		return "Course"
	default:
		return string(t)
	}
}

// Path is a top-level learning path (a "domain" in progress terms).
type Path struct {
	ID          string  `yaml:"id"`
	Title       string  `yaml:"title"`
	Description string  `yaml:"description"`
	Icon        string  `yaml:"icon"`
	Levels      []Level `yaml:"levels"`
}

// TopicCount returns the number of topics across all levels.
func (p Path) TopicCount() int {
	n := 0
	for _, l := range p.Levels {
		n += len(l.Topics)
	}
	return n
}

// Level is an ordered stage within a path.
type Level struct {
	ID          string     `yaml:"id"`
	Title       string     `yaml:"title"`
	Description string     `yaml:"description"`
	Duration    string     `yaml:"duration"`
	Topics      []Topic    `yaml:"topics"`
	Resources   []Resource `yaml:"resources"`
}

// Topic is an individually checkable concept within a level.
type Topic struct {
	ID   string `yaml:"id"`
	Name string `yaml:"name"`
}

// Resource is an external link attached to a level.
type Resource struct {
	ID   string       `yaml:"id"`
	Name string       `yaml:"name"`
	URL  string       `yaml:"url"`
	Type ResourceType `yaml:"type"`
}
