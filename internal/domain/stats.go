package domain

// DomainStats summarizes completion for one path.
type DomainStats struct {
	CompletedLevels int     `json:"completedLevels"`
	TotalLevels     int     `json:"totalLevels"`
	TotalTopics     int     `json:"totalTopics"`
	CompletedTopics int     `json:"completedTopics"`
	ProgressPercent float64 `json:"progressPercent"`
}

// LevelStats summarizes topic completion within one level.
type LevelStats struct {
	TotalTopics     int
	CompletedTopics int
	ProgressPercent float64
	Completed       bool
}
