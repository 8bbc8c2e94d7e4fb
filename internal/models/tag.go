package models

import "time"

// Tag is a free-form label attached to problems through the problem_tags
// association table. UsageCount tracks how many problems currently link
// to the tag.
type Tag struct {
	ID         int       `json:"id"`
	Name       string    `json:"name"`
	Slug       string    `json:"slug"`
	UsageCount int       `json:"usageCount"`
	CreatedAt  time.Time `json:"createdAt"`
}

// TagRef is the lightweight tag shape attached to problem responses.
type TagRef struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}
