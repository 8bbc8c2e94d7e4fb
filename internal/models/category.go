package models

import "time"

// Category groups problems by support area (hardware, network, printer
// and so on). ProblemCount is a denormalized counter maintained by the
// problem store's transactional mutations, not recomputed on read.
type Category struct {
	ID           int       `json:"id"`
	Name         string    `json:"name"`
	Slug         string    `json:"slug"`
	Icon         string    `json:"icon"`
	Color        string    `json:"color"`
	Description  *string   `json:"description"`
	ProblemCount int       `json:"problemCount"`
	CreatedAt    time.Time `json:"createdAt"`
}

// CategoryRef is the category summary embedded in problem responses.
// Icon is only populated on single-problem fetches; list rows omit it.
type CategoryRef struct {
	Name  string `json:"name"`
	Slug  string `json:"slug"`
	Color string `json:"color"`
	Icon  string `json:"icon,omitempty"`
}
