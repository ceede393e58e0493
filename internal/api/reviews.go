package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/Acode-Foundation/acode-site/internal/models"
)

// Comments lists reviews for a plugin via GET /api/comment/{pluginId}.
func (c *Client) Comments(ctx context.Context, pluginID string) ([]models.Review, error) {
	var reviews []models.Review
	err := c.do(ctx, http.MethodGet, "/api/comment/"+url.PathEscape(pluginID), nil, nil, &reviews)
	return reviews, err
}

// CommentRequest is the body for posting or editing a review. The server
// enforces one review per user per plugin.
type CommentRequest struct {
	Comment string `json:"comment" validate:"required"`
	Vote    int    `json:"vote" validate:"oneof=-1 0 1"`
}

// PostComment creates the caller's review via POST /api/comment/{pluginId}.
func (c *Client) PostComment(ctx context.Context, pluginID string, req CommentRequest) (models.Review, error) {
	var review models.Review
	err := c.do(ctx, http.MethodPost, "/api/comment/"+url.PathEscape(pluginID), nil, req, &review)
	return review, err
}

// UpdateComment edits the caller's review via PATCH /api/comment/{pluginId}.
func (c *Client) UpdateComment(ctx context.Context, pluginID string, req CommentRequest) (models.Review, error) {
	var review models.Review
	err := c.do(ctx, http.MethodPatch, "/api/comment/"+url.PathEscape(pluginID), nil, req, &review)
	return review, err
}

// DeleteComment removes a review via DELETE /api/comment/{id}.
func (c *Client) DeleteComment(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/comment/"+url.PathEscape(id), nil, nil, nil)
}

// ReplyComment sets the author-only reply via PATCH /api/comment/{id}/reply.
func (c *Client) ReplyComment(ctx context.Context, id, reply string) error {
	body := map[string]string{"reply": reply}
	return c.do(ctx, http.MethodPatch, "/api/comment/"+url.PathEscape(id)+"/reply", nil, body, nil)
}

// ToggleCommentFlag flips the author's moderation flag via
// PATCH /api/comment/{id}/flag.
func (c *Client) ToggleCommentFlag(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodPatch, "/api/comment/"+url.PathEscape(id)+"/flag", nil, nil, nil)
}
