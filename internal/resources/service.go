package resources

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"strconv"

	"github.com/Acode-Foundation/acode-site/internal/api"
	"github.com/Acode-Foundation/acode-site/internal/models"
	"github.com/Acode-Foundation/acode-site/internal/query"
)

// Service is the typed read/write surface over the cache and the remote
// API. Handlers talk to this, never to the API client directly, so every
// read shares the caching policy and every write shares the
// invalidation contract.
type Service struct {
	api    *api.Client
	cache  *query.Client
	runner Runner
}

// New builds the service.
func New(apiClient *api.Client, cache *query.Client, notifier Notifier, log *slog.Logger) *Service {
	return &Service{
		api:   apiClient,
		cache: cache,
		runner: Runner{
			Cache:    cache,
			Notifier: notifier,
			Log:      log,
		},
	}
}

// sessionID derives a cache-key discriminator from the session cookie.
// Hashing keeps the raw credential out of store keys.
func sessionID(ctx context.Context) string {
	session, ok := api.SessionFromContext(ctx)
	if !ok {
		return ""
	}
	sum := sha256.Sum256([]byte(session))
	return hex.EncodeToString(sum[:8])
}

// --- reads ---

// Developer returns the session's user record.
func (s *Service) Developer(ctx context.Context) (models.User, error) {
	sid := sessionID(ctx)
	return Get(ctx, s.cache, Query[models.User]{
		Family:   FamilyDeveloper,
		Params:   []string{sid},
		Requires: []string{sid},
		Windows:  WindowsVolatile,
		Fetch:    s.api.CurrentUser,
	})
}

// UserPlugins lists the developer's own plugins, optionally filtered by
// moderation status.
func (s *Service) UserPlugins(ctx context.Context, userID, status string, page int) ([]models.Plugin, error) {
	return Get(ctx, s.cache, Query[[]models.Plugin]{
		Family:   FamilyUserPlugins,
		Params:   []string{userID, status, strconv.Itoa(page)},
		Requires: []string{userID},
		Windows:  WindowsDefault,
		Fetch: func(ctx context.Context) ([]models.Plugin, error) {
			return s.api.Plugins(ctx, api.ListParams{UserID: userID, Status: status}, page, PageSize)
		},
	})
}

// PluginDetail returns one catalog entry.
func (s *Service) PluginDetail(ctx context.Context, id string) (models.Plugin, error) {
	return Get(ctx, s.cache, Query[models.Plugin]{
		Family:   FamilyPlugin,
		Params:   []string{id},
		Requires: []string{id},
		Windows:  WindowsDefault,
		Fetch: func(ctx context.Context) (models.Plugin, error) {
			return s.api.Plugin(ctx, id)
		},
	})
}

// Comments lists the reviews on a plugin.
func (s *Service) Comments(ctx context.Context, pluginID string) ([]models.Review, error) {
	return Get(ctx, s.cache, Query[[]models.Review]{
		Family:   FamilyComments,
		Params:   []string{pluginID},
		Requires: []string{pluginID},
		Windows:  WindowsDefault,
		Fetch: func(ctx context.Context) ([]models.Review, error) {
			return s.api.Comments(ctx, pluginID)
		},
	})
}

// Earnings returns one month of the developer's earnings.
func (s *Service) Earnings(ctx context.Context, userID string, year, month int) (models.EarningsReport, error) {
	return Get(ctx, s.cache, Query[models.EarningsReport]{
		Family:   FamilyEarnings,
		Params:   []string{userID, strconv.Itoa(year), strconv.Itoa(month)},
		Requires: []string{userID},
		Windows:  WindowsVolatile,
		Fetch: func(ctx context.Context) (models.EarningsReport, error) {
			return s.api.Earnings(ctx, year, month)
		},
	})
}

// Payments returns the developer's payout history; year 0 means all.
func (s *Service) Payments(ctx context.Context, userID string, year int) ([]models.Payment, error) {
	return Get(ctx, s.cache, Query[[]models.Payment]{
		Family:   FamilyPayments,
		Params:   []string{userID, strconv.Itoa(year)},
		Requires: []string{userID},
		Windows:  WindowsVolatile,
		Fetch: func(ctx context.Context) ([]models.Payment, error) {
			return s.api.Payments(ctx, year)
		},
	})
}

// PaymentMethods lists the developer's payout destinations.
func (s *Service) PaymentMethods(ctx context.Context, userID string) ([]models.PaymentMethod, error) {
	return Get(ctx, s.cache, Query[[]models.PaymentMethod]{
		Family:   FamilyPaymentMethods,
		Params:   []string{userID},
		Requires: []string{userID},
		Windows:  WindowsVolatile,
		Fetch:    s.api.PaymentMethods,
	})
}

// Receipt returns a single purchase receipt.
func (s *Service) Receipt(ctx context.Context, userID, id string) (models.Receipt, error) {
	return Get(ctx, s.cache, Query[models.Receipt]{
		Family:   FamilyReceipts,
		Params:   []string{userID, id},
		Requires: []string{userID, id},
		Windows:  WindowsStatic,
		Fetch: func(ctx context.Context) (models.Receipt, error) {
			return s.api.Receipt(ctx, id)
		},
	})
}

// AdminStats returns the admin dashboard summary.
func (s *Service) AdminStats(ctx context.Context) (models.AdminStats, error) {
	return Get(ctx, s.cache, Query[models.AdminStats]{
		Family:  FamilyAdminStats,
		Windows: WindowsStatic,
		Fetch:   s.api.AdminStats,
	})
}

// AdminUsers lists registered users, one fixed-size page at a time.
func (s *Service) AdminUsers(ctx context.Context, page int) ([]models.User, error) {
	return Get(ctx, s.cache, Query[[]models.User]{
		Family:  FamilyAdminUsers,
		Params:  []string{strconv.Itoa(page)},
		Windows: WindowsVolatile,
		Fetch: func(ctx context.Context) ([]models.User, error) {
			return s.api.AdminUsers(ctx, page, PageSize)
		},
	})
}

// AdminPayments lists payouts filtered by status.
func (s *Service) AdminPayments(ctx context.Context, status string, page int) ([]models.Payment, error) {
	return Get(ctx, s.cache, Query[[]models.Payment]{
		Family:  FamilyAdminPayments,
		Params:  []string{status, strconv.Itoa(page)},
		Windows: WindowsVolatile,
		Fetch: func(ctx context.Context) ([]models.Payment, error) {
			return s.api.AdminPayments(ctx, status, page, PageSize)
		},
	})
}

// AdminUserPaymentMethod returns a user's default payout destination.
func (s *Service) AdminUserPaymentMethod(ctx context.Context, userID string) (models.PaymentMethod, error) {
	return Get(ctx, s.cache, Query[models.PaymentMethod]{
		Family:   FamilyPaymentMethods,
		Params:   []string{"admin", userID},
		Requires: []string{userID},
		Windows:  WindowsVolatile,
		Fetch: func(ctx context.Context) (models.PaymentMethod, error) {
			return s.api.AdminUserPaymentMethod(ctx, userID)
		},
	})
}

// AdminReports lists moderation reports.
func (s *Service) AdminReports(ctx context.Context) ([]models.Report, error) {
	return Get(ctx, s.cache, Query[[]models.Report]{
		Family:  FamilyAdminReports,
		Windows: WindowsVolatile,
		Fetch:   s.api.AdminReports,
	})
}

// --- mutations ---

// UpdateThreshold sets the payout threshold and refreshes the developer
// record.
func (s *Service) UpdateThreshold(ctx context.Context, threshold int) error {
	_, err := Run(ctx, s.runner, Mutation[int, struct{}]{
		Name:        "updateThreshold",
		Invalidates: []string{FamilyDeveloper},
		Do: func(ctx context.Context, v int) (struct{}, error) {
			return struct{}{}, s.api.UpdateThreshold(ctx, v)
		},
	}, threshold)
	return err
}

// AddPaymentMethod registers a payout destination.
func (s *Service) AddPaymentMethod(ctx context.Context, m api.NewPaymentMethod) (models.PaymentMethod, error) {
	return Run(ctx, s.runner, Mutation[api.NewPaymentMethod, models.PaymentMethod]{
		Name:        "addPaymentMethod",
		Invalidates: []string{FamilyPaymentMethods},
		Do:          s.api.AddPaymentMethod,
	}, m)
}

// DeletePaymentMethod removes a payout destination.
func (s *Service) DeletePaymentMethod(ctx context.Context, id string) error {
	_, err := Run(ctx, s.runner, Mutation[string, struct{}]{
		Name:        "deletePaymentMethod",
		Invalidates: []string{FamilyPaymentMethods},
		Do: func(ctx context.Context, id string) (struct{}, error) {
			return struct{}{}, s.api.DeletePaymentMethod(ctx, id)
		},
	}, id)
	return err
}

// SetDefaultPaymentMethod triggers the server-side default transition
// and refetches the list so the change is reflected.
func (s *Service) SetDefaultPaymentMethod(ctx context.Context, id string) error {
	_, err := Run(ctx, s.runner, Mutation[string, struct{}]{
		Name:        "setDefaultPaymentMethod",
		Invalidates: []string{FamilyPaymentMethods},
		Do: func(ctx context.Context, id string) (struct{}, error) {
			return struct{}{}, s.api.SetDefaultPaymentMethod(ctx, id)
		},
	}, id)
	return err
}

// SubmitPlugin creates a plugin in pending status.
func (s *Service) SubmitPlugin(ctx context.Context, sub api.PluginSubmission) (models.Plugin, error) {
	return Run(ctx, s.runner, Mutation[api.PluginSubmission, models.Plugin]{
		Name:        "submitPlugin",
		Invalidates: []string{FamilyUserPlugins, FamilyPlugins},
		Do:          s.api.SubmitPlugin,
	}, sub)
}

type pluginPatchReq struct {
	id    string
	patch api.PluginPatch
}

// UpdatePlugin applies a partial update to a plugin.
func (s *Service) UpdatePlugin(ctx context.Context, id string, patch api.PluginPatch) (models.Plugin, error) {
	return Run(ctx, s.runner, Mutation[pluginPatchReq, models.Plugin]{
		Name:        "updatePlugin",
		Invalidates: []string{FamilyUserPlugins, FamilyPlugins, FamilyPlugin},
		Do: func(ctx context.Context, req pluginPatchReq) (models.Plugin, error) {
			return s.api.UpdatePlugin(ctx, req.id, req.patch)
		},
	}, pluginPatchReq{id: id, patch: patch})
}

// DeletePlugin removes a plugin.
func (s *Service) DeletePlugin(ctx context.Context, id string) error {
	_, err := Run(ctx, s.runner, Mutation[string, struct{}]{
		Name:        "deletePlugin",
		Invalidates: []string{FamilyUserPlugins, FamilyPlugins},
		Do: func(ctx context.Context, id string) (struct{}, error) {
			return struct{}{}, s.api.DeletePlugin(ctx, id)
		},
	}, id)
	return err
}

type commentReq struct {
	pluginID string
	body     api.CommentRequest
}

// PostComment creates the caller's review on a plugin.
func (s *Service) PostComment(ctx context.Context, pluginID string, body api.CommentRequest) (models.Review, error) {
	return Run(ctx, s.runner, Mutation[commentReq, models.Review]{
		Name:        "postComment",
		Invalidates: []string{FamilyComments, FamilyPlugin},
		Do: func(ctx context.Context, req commentReq) (models.Review, error) {
			return s.api.PostComment(ctx, req.pluginID, req.body)
		},
	}, commentReq{pluginID: pluginID, body: body})
}

// UpdateComment edits the caller's review.
func (s *Service) UpdateComment(ctx context.Context, pluginID string, body api.CommentRequest) (models.Review, error) {
	return Run(ctx, s.runner, Mutation[commentReq, models.Review]{
		Name:        "updateComment",
		Invalidates: []string{FamilyComments, FamilyPlugin},
		Do: func(ctx context.Context, req commentReq) (models.Review, error) {
			return s.api.UpdateComment(ctx, req.pluginID, req.body)
		},
	}, commentReq{pluginID: pluginID, body: body})
}

// DeleteComment removes a review.
func (s *Service) DeleteComment(ctx context.Context, id string) error {
	_, err := Run(ctx, s.runner, Mutation[string, struct{}]{
		Name:        "deleteComment",
		Invalidates: []string{FamilyComments, FamilyPlugin},
		Do: func(ctx context.Context, id string) (struct{}, error) {
			return struct{}{}, s.api.DeleteComment(ctx, id)
		},
	}, id)
	return err
}

type replyReq struct {
	id    string
	reply string
}

// ReplyComment sets the author-only reply on a review.
func (s *Service) ReplyComment(ctx context.Context, id, reply string) error {
	_, err := Run(ctx, s.runner, Mutation[replyReq, struct{}]{
		Name:        "replyComment",
		Invalidates: []string{FamilyComments},
		Do: func(ctx context.Context, req replyReq) (struct{}, error) {
			return struct{}{}, s.api.ReplyComment(ctx, req.id, req.reply)
		},
	}, replyReq{id: id, reply: reply})
	return err
}

// ToggleCommentFlag flips the author's moderation flag on a review.
func (s *Service) ToggleCommentFlag(ctx context.Context, id string) error {
	_, err := Run(ctx, s.runner, Mutation[string, struct{}]{
		Name:        "toggleCommentFlag",
		Invalidates: []string{FamilyComments},
		Do: func(ctx context.Context, id string) (struct{}, error) {
			return struct{}{}, s.api.ToggleCommentFlag(ctx, id)
		},
	}, id)
	return err
}

type verifyReq struct {
	id       string
	verified bool
}

// AdminSetUserVerified toggles a developer's verified bit.
func (s *Service) AdminSetUserVerified(ctx context.Context, id string, verified bool) error {
	_, err := Run(ctx, s.runner, Mutation[verifyReq, struct{}]{
		Name:        "adminSetUserVerified",
		Invalidates: []string{FamilyDeveloper, FamilyAdminUsers},
		Do: func(ctx context.Context, req verifyReq) (struct{}, error) {
			return struct{}{}, s.api.AdminSetUserVerified(ctx, req.id, req.verified)
		},
	}, verifyReq{id: id, verified: verified})
	return err
}

type paymentStatusReq struct {
	id     string
	status string
}

// AdminUpdatePaymentStatus advances a payout's status.
func (s *Service) AdminUpdatePaymentStatus(ctx context.Context, id, status string) (models.Payment, error) {
	return Run(ctx, s.runner, Mutation[paymentStatusReq, models.Payment]{
		Name:        "adminUpdatePaymentStatus",
		Invalidates: []string{FamilyAdminPayments, FamilyPayments},
		Do: func(ctx context.Context, req paymentStatusReq) (models.Payment, error) {
			return s.api.AdminUpdatePaymentStatus(ctx, req.id, req.status)
		},
	}, paymentStatusReq{id: id, status: status})
}

// Logout destroys the upstream session and drops the session's cached
// records.
func (s *Service) Logout(ctx context.Context) error {
	_, err := Run(ctx, s.runner, Mutation[struct{}, struct{}]{
		Name:        "logout",
		Invalidates: []string{FamilyDeveloper, FamilyUserPlugins, FamilyPayments, FamilyPaymentMethods, FamilyEarnings},
		Do: func(ctx context.Context, _ struct{}) (struct{}, error) {
			return struct{}{}, s.api.Logout(ctx)
		},
	}, struct{}{})
	return err
}
