package midtrans

type SnapResponse struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

// StatusResponse is the Core API transaction status payload. The same shape
// arrives in webhook notifications, but only a provider-confirmed copy may be
// trusted.
type StatusResponse struct {
	OrderID           string `json:"order_id"`
	TransactionID     string `json:"transaction_id"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status"`
	PaymentType       string `json:"payment_type"`
	StatusCode        string `json:"status_code"`
	GrossAmount       string `json:"gross_amount"`
	SignatureKey      string `json:"signature_key"`
	TransactionTime   string `json:"transaction_time"`

	// Raw holds the exact bytes the provider returned, retained for audit.
	Raw []byte `json:"-"`
}
