package models

// Payment statuses. Transitions run forward only in the admin UI; the
// server owns enforcement.
const (
	PaymentNone      = "none"
	PaymentInitiated = "initiated"
	PaymentPaid      = "paid"
)

// Payment is one row of a developer's payout history.
type Payment struct {
	ID              string  `json:"id"`
	UserID          string  `json:"user_id"`
	Amount          float64 `json:"amount"`
	DateFrom        string  `json:"date_from"`
	DateTo          string  `json:"date_to"`
	Status          string  `json:"status"`
	PaymentMethodID string  `json:"payment_method_id"`
}

// Payment method kinds, derived from which variant fields are present.
const (
	MethodPaypal = "paypal"
	MethodBank   = "bank"
	MethodWallet = "wallet"
)

// PaymentMethod is a payout destination. Exactly one method per user may
// be the default; the server enforces the transition.
type PaymentMethod struct {
	ID     string `json:"id"`
	UserID string `json:"user_id"`

	PaypalEmail string `json:"paypal_email,omitempty"`

	BankName          string `json:"bank_name,omitempty"`
	BankAccountNumber string `json:"bank_account_number,omitempty"`
	BankAccountHolder string `json:"bank_account_holder,omitempty"`
	BankSwiftCode     string `json:"bank_swift_code,omitempty"`

	WalletAddress string `json:"wallet_address,omitempty"`
	WalletType    string `json:"wallet_type,omitempty"`

	IsDefault IntBool `json:"is_default"`
	IsDeleted IntBool `json:"is_deleted"`
}

// Kind reports which payout variant the method carries.
func (m PaymentMethod) Kind() string {
	switch {
	case m.PaypalEmail != "":
		return MethodPaypal
	case m.WalletAddress != "":
		return MethodWallet
	default:
		return MethodBank
	}
}

// EarningsReport is a developer's earnings for one month.
type EarningsReport struct {
	UserID   string  `json:"user_id"`
	Year     int     `json:"year"`
	Month    int     `json:"month"`
	Amount   float64 `json:"amount"`
	Orders   int     `json:"orders"`
	Currency string  `json:"currency"`
}

// Receipt is a single purchase receipt.
type Receipt struct {
	ID       string  `json:"id"`
	PluginID string  `json:"plugin_id"`
	Amount   float64 `json:"amount"`
	Date     string  `json:"date"`
	Buyer    string  `json:"buyer"`
}
