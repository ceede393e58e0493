// Package resources defines the per-resource read descriptors and write
// descriptors the gateway uses: which cache family a read belongs to,
// its staleness and GC windows, which identifiers gate it, and which
// families a write invalidates on success.
package resources

// Cache key families. A mutation invalidates whole families; reads
// within a family share its staleness policy.
const (
	FamilyDeveloper      = "developer"
	FamilyUserPlugins    = "userPlugins"
	FamilyPlugin         = "plugin"
	FamilyPlugins        = "plugins"
	FamilyComments       = "comments"
	FamilyEarnings       = "earnings"
	FamilyPayments       = "payments"
	FamilyPaymentMethods = "paymentMethods"
	FamilyReceipts       = "receipts"
	FamilyAdminStats     = "adminStats"
	FamilyAdminUsers     = "adminUsers"
	FamilyAdminPayments  = "adminPayments"
	FamilyAdminReports   = "adminReports"
)

// PageSize is the fixed page length for status-filtered listings.
const PageSize = 20
