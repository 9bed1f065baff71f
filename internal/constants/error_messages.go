package constants

const (
	ErrCodeUnknownPackage          = "UNKNOWN_PACKAGE"
	ErrCodeUserNotFound            = "USER_NOT_FOUND"
	ErrCodePaymentNotFound         = "PAYMENT_NOT_FOUND"
	ErrCodeDuplicateOrderID        = "DUPLICATE_ORDER_ID"
	ErrCodeGatewayUnavailable      = "GATEWAY_UNAVAILABLE"
	ErrCodeGatewayInvalidRequest   = "GATEWAY_INVALID_REQUEST"
	ErrCodeInvalidWebhookSignature = "INVALID_WEBHOOK_SIGNATURE"
	ErrCodeValidationFailed        = "VALIDATION_FAILED"
	ErrCodeInvalidRequestBody      = "INVALID_REQUEST_BODY"
	ErrCodeDatabase                = "DATABASE_ERROR"
	ErrCodeInternalError           = "INTERNAL_ERROR"
)

const (
	ErrMsgUnknownPackage          = "unknown token package"
	ErrMsgUserNotFound            = "user not found"
	ErrMsgPaymentNotFound         = "payment not found"
	ErrMsgDuplicateOrderID        = "order id already exists"
	ErrMsgGatewayUnavailable      = "payment gateway unavailable"
	ErrMsgGatewayInvalidRequest   = "payment gateway rejected the request"
	ErrMsgInvalidWebhookSignature = "webhook notification could not be verified"
	ErrMsgValidationFailed        = "request validation failed"
	ErrMsgInvalidRequestBody      = "failed to parse request body"
	ErrMsgDatabase                = "database operation failed"
	ErrMsgInternalError           = "internal server error"
)

const MessageErrorFormat = "field %s is invalid"

var errorMessages = map[string]string{
	ErrCodeUnknownPackage:          ErrMsgUnknownPackage,
	ErrCodeUserNotFound:            ErrMsgUserNotFound,
	ErrCodePaymentNotFound:         ErrMsgPaymentNotFound,
	ErrCodeDuplicateOrderID:        ErrMsgDuplicateOrderID,
	ErrCodeGatewayUnavailable:      ErrMsgGatewayUnavailable,
	ErrCodeGatewayInvalidRequest:   ErrMsgGatewayInvalidRequest,
	ErrCodeInvalidWebhookSignature: ErrMsgInvalidWebhookSignature,
	ErrCodeValidationFailed:        ErrMsgValidationFailed,
	ErrCodeInvalidRequestBody:      ErrMsgInvalidRequestBody,
	ErrCodeDatabase:                ErrMsgDatabase,
	ErrCodeInternalError:           ErrMsgInternalError,
}

func GetErrorMessage(code string) string {
	if msg, exists := errorMessages[code]; exists {
		return msg
	}
	return ErrMsgInternalError
}

func GetHTTPStatus(code string) int {
	switch code {
	case ErrCodeUnknownPackage, ErrCodeInvalidRequestBody, ErrCodeGatewayInvalidRequest:
		return 400
	case ErrCodeInvalidWebhookSignature:
		return 401
	case ErrCodeUserNotFound, ErrCodePaymentNotFound:
		return 404
	case ErrCodeDuplicateOrderID:
		return 409
	case ErrCodeValidationFailed:
		return 422
	case ErrCodeGatewayUnavailable:
		return 503
	case ErrCodeDatabase, ErrCodeInternalError:
		return 500
	default:
		return 500
	}
}
