package models

import (
	"encoding/json"

	"golang.org/x/mod/semver"
)

// Plugin statuses for the developer's-own view.
const (
	PluginPending  = "pending"
	PluginApproved = "approved"
	PluginRejected = "rejected"
)

// Plugin is a marketplace catalog entry.
type Plugin struct {
	ID             string  `json:"id"`
	SKU            string  `json:"sku"`
	Icon           string  `json:"icon"`
	Name           string  `json:"name"`
	Price          float64 `json:"price"`
	Author         string  `json:"author"`
	UserID         string  `json:"user_id"`
	Version        string  `json:"version"`
	Keywords       string  `json:"keywords"`
	License        string  `json:"license"`
	VotesUp        int     `json:"votes_up"`
	VotesDown      int     `json:"votes_down"`
	Downloads      int     `json:"downloads"`
	Repository     string  `json:"repository"`
	CommentCount   int     `json:"comment_count"`
	AuthorVerified IntBool `json:"author_verified"`
	MinVersionCode int     `json:"min_version_code"`
	Status         string  `json:"status,omitempty"`
}

// IsFree reports whether the plugin is installable without purchase.
func (p Plugin) IsFree() bool { return p.Price == 0 }

// KeywordList decodes the JSON-encoded keywords column. A missing or
// malformed value yields no keywords rather than an error; keyword search
// should not break a listing.
func (p Plugin) KeywordList() []string {
	if p.Keywords == "" {
		return nil
	}
	var kw []string
	if err := json.Unmarshal([]byte(p.Keywords), &kw); err != nil {
		return nil
	}
	return kw
}

// SupportsClient reports whether the plugin runs on the given editor
// version code. A zero MinVersionCode means no constraint is declared.
func (p Plugin) SupportsClient(versionCode int) bool {
	return p.MinVersionCode == 0 || versionCode >= p.MinVersionCode
}

// CompareVersions orders two plugin version strings using semver rules.
// Versions are stored without the "v" prefix upstream.
func CompareVersions(a, b string) int {
	return semver.Compare("v"+a, "v"+b)
}
