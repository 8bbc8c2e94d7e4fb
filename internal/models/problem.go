package models

import "time"

// Problem is a single troubleshooting article: what the user sees
// (symptoms), why it happens (causes), and how to fix it (solution).
// The body fields hold Markdown-ish text written by admins, usually in Thai.
type Problem struct {
	ID              int       `json:"id"`
	Title           string    `json:"title"`
	Slug            string    `json:"slug"`
	Symptoms        string    `json:"symptoms"`
	Causes          string    `json:"causes"`
	Solution        string    `json:"solution"`
	CategoryID      *int      `json:"categoryId"`
	ViewCount       int       `json:"viewCount"`
	HelpfulCount    int       `json:"helpfulCount"`
	NotHelpfulCount int       `json:"notHelpfulCount"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`

	// Resolved associations. Category is null in JSON when the problem
	// has no category; Tags is always present, possibly empty.
	Category *CategoryRef `json:"category"`
	Tags     []TagRef     `json:"tags"`
}

// RatingCounts is the pair of vote counters returned by the rate operation.
type RatingCounts struct {
	HelpfulCount    int `json:"helpfulCount"`
	NotHelpfulCount int `json:"notHelpfulCount"`
}

// Rating values accepted by the rate operation. Anything else is rejected.
const (
	RatingHelpful    = "helpful"
	RatingNotHelpful = "not_helpful"
)

// Sort keys understood by the problem listing. Unknown values fall back
// to SortLatest.
const (
	SortLatest  = "latest"
	SortViews   = "views"
	SortHelpful = "helpful"
)
