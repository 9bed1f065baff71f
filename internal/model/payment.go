package model

import "time"

type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusSuccess PaymentStatus = "success"
	PaymentStatusFailed  PaymentStatus = "failed"
	PaymentStatusExpired PaymentStatus = "expired"
)

// Terminal reports whether the status permits no further transition.
func (s PaymentStatus) Terminal() bool {
	return s == PaymentStatusSuccess || s == PaymentStatusFailed || s == PaymentStatusExpired
}

type Payment struct {
	ID                   int64         `gorm:"primaryKey;autoIncrement;column:id;<-:create"`
	OrderID              string        `gorm:"column:order_id;type:varchar(96);uniqueIndex;not null;<-:create"`
	UserID               string        `gorm:"column:user_id;type:varchar(64);index;not null;<-:create"`
	PackageID            string        `gorm:"column:package_id;type:varchar(50);not null;<-:create"`
	TokenAmount          int64         `gorm:"column:token_amount;not null;<-:create"`
	Price                int64         `gorm:"column:price;not null;<-:create"`
	Status               PaymentStatus `gorm:"column:status;type:enum('pending','success','failed','expired');default:'pending';not null"`
	SnapToken            *string       `gorm:"column:snap_token;type:varchar(255)"`
	RedirectURL          *string       `gorm:"column:redirect_url;type:varchar(512)"`
	GatewayTransactionID *string       `gorm:"column:gateway_transaction_id;type:varchar(64)"`
	PaymentMethod        *string       `gorm:"column:payment_method;type:varchar(50)"`
	GatewayResponse      *string       `gorm:"column:gateway_response;type:text"`
	CreditedAt           *time.Time    `gorm:"column:credited_at;type:timestamp;null"`
	CreatedAt            time.Time     `gorm:"column:created_at;type:timestamp;default:CURRENT_TIMESTAMP"`
	UpdatedAt            time.Time     `gorm:"column:updated_at;type:timestamp;default:CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP"`
}

// GatewayMeta carries the correlation fields a gateway status report may attach
// to a payment row. Empty fields are left untouched.
type GatewayMeta struct {
	TransactionID string
	PaymentMethod string
	RawResponse   string
}
