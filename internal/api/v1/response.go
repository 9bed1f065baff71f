package v1

import "github.com/prepkit/payment-service/internal/model"

type PaymentResponse struct {
	OrderID       string `json:"order_id"`
	Status        string `json:"status"`
	PackageType   string `json:"package_type"`
	TokenAmount   int64  `json:"token_amount"`
	Price         int64  `json:"price"`
	PaymentMethod string `json:"payment_method,omitempty"`
	CreatedAt     string `json:"created_at"`
	CreditedAt    string `json:"credited_at,omitempty"`
}

type PaymentHistoryResponse struct {
	Payments   []PaymentResponse `json:"payments"`
	Total      int               `json:"total"`
	Page       int               `json:"page"`
	TotalPages int               `json:"total_pages"`
}

type BalanceResponse struct {
	UserID       string `json:"user_id"`
	TokenBalance int64  `json:"token_balance"`
}

func toPaymentResponse(p model.Payment) PaymentResponse {
	resp := PaymentResponse{
		OrderID:     p.OrderID,
		Status:      string(p.Status),
		PackageType: p.PackageID,
		TokenAmount: p.TokenAmount,
		Price:       p.Price,
		CreatedAt:   p.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}

	if p.PaymentMethod != nil {
		resp.PaymentMethod = *p.PaymentMethod
	}
	if p.CreditedAt != nil {
		resp.CreditedAt = p.CreditedAt.Format("2006-01-02T15:04:05Z07:00")
	}

	return resp
}
