package models

// AdminStats is the admin dashboard summary.
type AdminStats struct {
	Users          int     `json:"users"`
	Plugins        int     `json:"plugins"`
	Downloads      int     `json:"downloads"`
	PendingPlugins int     `json:"pending_plugins"`
	UnpaidEarnings float64 `json:"unpaid_earnings"`
}

// Report is a moderation report filed against a plugin or review.
type Report struct {
	ID         string `json:"id"`
	PluginID   string `json:"plugin_id"`
	ReporterID string `json:"reporter_id"`
	Reason     string `json:"reason"`
	CreatedAt  string `json:"created_at"`
}
