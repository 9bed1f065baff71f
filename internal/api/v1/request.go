package v1

type CreatePaymentRequest struct {
	UserID      string          `json:"user_id" validate:"required,max=64"`
	PackageType string          `json:"package_type" validate:"required,max=50"`
	Customer    CustomerRequest `json:"customer" validate:"required"`
}

type CustomerRequest struct {
	FirstName string `json:"first_name" validate:"required,max=100"`
	Email     string `json:"email" validate:"required,email"`
	Phone     string `json:"phone" validate:"omitempty,max=20"`
}
