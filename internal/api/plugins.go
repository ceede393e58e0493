package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/Acode-Foundation/acode-site/internal/models"
)

// Catalog orderings accepted by GET /api/plugins.
const (
	ExploreRandom    = "random"
	OrderByDownloads = "downloads"
	OrderByNewest    = "newest"
)

// ListParams selects which plugin listing to fetch. Zero fields are
// omitted from the query string.
type ListParams struct {
	Explore string
	OrderBy string
	Status  string
	UserID  string
}

func (p ListParams) values(page, limit int) url.Values {
	q := url.Values{}
	if p.Explore != "" {
		q.Set("explore", p.Explore)
	}
	if p.OrderBy != "" {
		q.Set("orderBy", p.OrderBy)
	}
	if p.Status != "" {
		q.Set("status", p.Status)
	}
	if p.UserID != "" {
		q.Set("user", p.UserID)
	}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return q
}

// Key returns a stable cache-key fragment for the listing.
func (p ListParams) Key() string {
	return p.Explore + "|" + p.OrderBy + "|" + p.Status + "|" + p.UserID
}

// Plugins fetches one page of a plugin listing via GET /api/plugins.
func (c *Client) Plugins(ctx context.Context, p ListParams, page, limit int) ([]models.Plugin, error) {
	var plugins []models.Plugin
	err := c.do(ctx, http.MethodGet, "/api/plugins", p.values(page, limit), nil, &plugins)
	return plugins, err
}

// Plugin fetches a single catalog entry via GET /api/plugin/{id}.
func (c *Client) Plugin(ctx context.Context, id string) (models.Plugin, error) {
	var p models.Plugin
	err := c.do(ctx, http.MethodGet, "/api/plugin/"+url.PathEscape(id), nil, nil, &p)
	return p, err
}

// PluginSubmission is the POST /api/plugin body for a new plugin.
type PluginSubmission struct {
	Name           string   `json:"name" validate:"required"`
	SKU            string   `json:"sku" validate:"required"`
	Price          float64  `json:"price" validate:"gte=0"`
	Version        string   `json:"version" validate:"required"`
	License        string   `json:"license,omitempty"`
	Repository     string   `json:"repository,omitempty"`
	Keywords       []string `json:"keywords,omitempty"`
	MinVersionCode int      `json:"min_version_code,omitempty"`
}

// SubmitPlugin creates a plugin in pending status via POST /api/plugin.
func (c *Client) SubmitPlugin(ctx context.Context, sub PluginSubmission) (models.Plugin, error) {
	var p models.Plugin
	err := c.do(ctx, http.MethodPost, "/api/plugin", nil, sub, &p)
	return p, err
}

// PluginPatch is a partial update for PATCH /api/plugin/{id}. Nil fields
// stay untouched upstream.
type PluginPatch struct {
	Name           *string  `json:"name,omitempty"`
	Price          *float64 `json:"price,omitempty"`
	Version        *string  `json:"version,omitempty"`
	License        *string  `json:"license,omitempty"`
	Repository     *string  `json:"repository,omitempty"`
	Keywords       []string `json:"keywords,omitempty"`
	MinVersionCode *int     `json:"min_version_code,omitempty"`
	Status         *string  `json:"status,omitempty"`
}

// UpdatePlugin applies a partial update via PATCH /api/plugin/{id}.
func (c *Client) UpdatePlugin(ctx context.Context, id string, patch PluginPatch) (models.Plugin, error) {
	var p models.Plugin
	err := c.do(ctx, http.MethodPatch, "/api/plugin/"+url.PathEscape(id), nil, patch, &p)
	return p, err
}

// DeletePlugin removes a plugin via DELETE /api/plugin/{id}.
func (c *Client) DeletePlugin(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/plugin/"+url.PathEscape(id), nil, nil, nil)
}

// decodeJSON decodes a response body, mapping parse failures to the
// shared malformed-response contract.
func decodeJSON(resp *http.Response, out any) error {
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
