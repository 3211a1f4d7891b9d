// Package validate checks a configuration snapshot against a declarative rule table
// and reports every problem in one Result.
package validate

import (
	"fmt"
	"strings"
)

// Snapshot exposes raw configuration values by key. An empty string means absent.
type Snapshot interface {
	Lookup(key string) string
}

// Rule describes how one configuration key is checked.
type Rule struct {
	Key          string
	Required     bool
	Validator    func(value string) bool // optional
	Description  string
	ErrorMessage string
}

func (r Rule) missing() string {
	return fmt.Sprintf("%s: %s", r.Key, r.Description)
}

func (r Rule) invalid() string {
	if r.ErrorMessage != "" {
		return r.ErrorMessage
	}
	return fmt.Sprintf("invalid value for %s", r.Key)
}

// Check is a cross-field predicate over the typed snapshot.
type Check[S any] struct {
	Message string
	OK      func(snap S) bool
}

// Result aggregates the outcome of one validation run.
// Success is true exactly when Errors and MissingRequired are both empty.
type Result struct {
	Success         bool     `json:"success"`
	Errors          []string `json:"errors"`
	Warnings        []string `json:"warnings"`
	MissingRequired []string `json:"missing_required"`
	MissingOptional []string `json:"missing_optional"`
}

func newResult() Result {
	return Result{
		Success:         true,
		Errors:          []string{},
		Warnings:        []string{},
		MissingRequired: []string{},
		MissingOptional: []string{},
	}
}

// MissingRequiredKeys returns the key names of MissingRequired entries.
func (r Result) MissingRequiredKeys() []string {
	keys := make([]string, 0, len(r.MissingRequired))
	for _, m := range r.MissingRequired {
		key, _, _ := strings.Cut(m, ":")
		keys = append(keys, key)
	}
	return keys
}

// Report renders the result for an operator.
func (r Result) Report() string {
	var b strings.Builder
	section := func(title string, items []string) {
		if len(items) == 0 {
			return
		}
		b.WriteString(title)
		b.WriteString(":\n")
		for _, item := range items {
			b.WriteString("  - ")
			b.WriteString(item)
			b.WriteString("\n")
		}
	}

	section("Missing required environment variables", r.MissingRequired)
	section("Errors", r.Errors)
	section("Missing optional environment variables", r.MissingOptional)
	section("Warnings", r.Warnings)

	if r.Success {
		b.WriteString("Environment validation completed successfully\n")
	} else {
		b.WriteString("Environment validation failed\n")
	}
	return b.String()
}
