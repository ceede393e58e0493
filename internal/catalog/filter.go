package catalog

import (
	"strings"

	"github.com/Acode-Foundation/acode-site/internal/models"
)

// Price categories for the catalog filter.
const (
	CategoryAll  = "all"
	CategoryFree = "free"
	CategoryPaid = "paid"
)

// Filter is the client-side search applied over already-loaded pages.
// Filter changes are instantaneous but scoped to what is loaded.
type Filter struct {
	Query    string
	Category string
}

// Active reports whether a text search is in progress. Feed paging is
// suspended while it is.
func (f Filter) Active() bool { return strings.TrimSpace(f.Query) != "" }

// Apply returns the plugins matching the filter, preserving order.
func (f Filter) Apply(plugins []models.Plugin) []models.Plugin {
	matched := make([]models.Plugin, 0, len(plugins))
	for _, p := range plugins {
		if f.matches(p) {
			matched = append(matched, p)
		}
	}
	return matched
}

func (f Filter) matches(p models.Plugin) bool {
	switch f.Category {
	case CategoryFree:
		if !p.IsFree() {
			return false
		}
	case CategoryPaid:
		if p.IsFree() {
			return false
		}
	}

	q := strings.ToLower(strings.TrimSpace(f.Query))
	if q == "" {
		return true
	}
	if strings.Contains(strings.ToLower(p.Name), q) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Author), q) {
		return true
	}
	for _, kw := range p.KeywordList() {
		if strings.Contains(strings.ToLower(kw), q) {
			return true
		}
	}
	return false
}
