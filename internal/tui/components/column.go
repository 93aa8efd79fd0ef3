package components

// ColumnType identifies the type of content in a column
type ColumnType int

const (
	ColumnTypePaths  ColumnType = iota
	ColumnTypeLevels            // levels of one path
	ColumnTypeItems             // topics then resources of one level
)
