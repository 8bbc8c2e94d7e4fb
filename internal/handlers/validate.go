package handlers

import (
	"strings"
	"unicode/utf8"
)

// Validation limits for problem and taxonomy fields, matching the column
// sizes in the schema.
const (
	maxTitleLen    = 300
	maxBodyLen     = 100_000
	maxNameLen     = 100
	maxTagNameLen  = 50
	maxColorLen    = 20
	maxIconLen     = 50
)

// validateProblem checks the required problem fields and returns the
// first error found, or "" when the input is valid.
func validateProblem(title, symptoms, causes, solution string) string {
	if strings.TrimSpace(title) == "" {
		return "title is required"
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return "title is too long (max 300 characters)"
	}
	if strings.TrimSpace(symptoms) == "" {
		return "symptoms is required"
	}
	if strings.TrimSpace(causes) == "" {
		return "causes is required"
	}
	if strings.TrimSpace(solution) == "" {
		return "solution is required"
	}
	for _, body := range []string{symptoms, causes, solution} {
		if utf8.RuneCountInString(body) > maxBodyLen {
			return "content is too long (max 100,000 characters)"
		}
	}
	return ""
}

// validateCategory checks category creation input.
func validateCategory(name, icon, color string) string {
	if strings.TrimSpace(name) == "" {
		return "name is required"
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return "name is too long (max 100 characters)"
	}
	if utf8.RuneCountInString(icon) > maxIconLen {
		return "icon is too long (max 50 characters)"
	}
	if utf8.RuneCountInString(color) > maxColorLen {
		return "color is too long (max 20 characters)"
	}
	return ""
}

// validateTag checks tag creation input.
func validateTag(name string) string {
	if strings.TrimSpace(name) == "" {
		return "name is required"
	}
	if utf8.RuneCountInString(name) > maxTagNameLen {
		return "name is too long (max 50 characters)"
	}
	return ""
}
