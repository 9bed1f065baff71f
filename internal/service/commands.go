package service

import "github.com/prepkit/payment-service/internal/model"

type CustomerDetails struct {
	FirstName string
	Email     string
	Phone     string
}

type CreatePaymentCommand struct {
	UserID    string
	PackageID string
	Customer  CustomerDetails
}

type CreatePaymentResult struct {
	OrderID     string `json:"order_id"`
	SnapToken   string `json:"snap_token"`
	RedirectURL string `json:"redirect_url"`
	PackageID   string `json:"package_type"`
	TokenAmount int64  `json:"token_amount"`
	Price       int64  `json:"price"`
}

// ReconcileCommand is a provider-confirmed status report for one order,
// regardless of the channel it arrived through.
type ReconcileCommand struct {
	OrderID string
	Status  model.PaymentStatus
	Meta    model.GatewayMeta
}

// CompleteCreditCommand is the sweep work item replayed through the queue.
type CompleteCreditCommand struct {
	OrderID string `json:"order_id"`
}

type NotificationResult struct {
	OrderID string
	Known   bool
	Status  model.PaymentStatus
}

type PaymentHistoryResult struct {
	Payments   []model.Payment `json:"payments"`
	Total      int             `json:"total"`
	Page       int             `json:"page"`
	TotalPages int             `json:"total_pages"`
}
