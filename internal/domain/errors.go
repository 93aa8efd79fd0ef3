package domain

import "errors"

// Sentinel errors for catalog lookups and validation
var (
	// ErrPathNotFound indicates the requested learning path does not exist
	ErrPathNotFound = errors.New("learning path not found")

	// ErrLevelNotFound indicates the level does not exist in the path
	ErrLevelNotFound = errors.New("level not found")

	// ErrTopicNotFound indicates the topic does not exist in the level
	ErrTopicNotFound = errors.New("topic not found")

	// ErrResourceNotFound indicates the resource does not exist in the level
	ErrResourceNotFound = errors.New("resource not found")

	// ErrInvalidCatalog indicates roadmap content failed validation
	ErrInvalidCatalog = errors.New("invalid roadmap catalog")
)
