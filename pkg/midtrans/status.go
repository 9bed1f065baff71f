package midtrans

// CanonicalStatus is the internal four-valued payment state, independent of
// the provider's vocabulary.
type CanonicalStatus string

const (
	StatusPending CanonicalStatus = "pending"
	StatusSuccess CanonicalStatus = "success"
	StatusFailed  CanonicalStatus = "failed"
	StatusExpired CanonicalStatus = "expired"
)

const (
	TransactionStatusCapture    = "capture"
	TransactionStatusSettlement = "settlement"
	TransactionStatusPending    = "pending"
	TransactionStatusDeny       = "deny"
	TransactionStatusCancel     = "cancel"
	TransactionStatusExpire     = "expire"

	FraudStatusAccept    = "accept"
	FraudStatusChallenge = "challenge"
)

// MapStatus folds the provider's transaction_status/fraud_status pair into a
// canonical status. A captured card payment counts as paid only once fraud
// screening accepted it; anything unrecognized stays pending so a later,
// clearer report can settle it.
func MapStatus(transactionStatus, fraudStatus string) CanonicalStatus {
	switch transactionStatus {
	case TransactionStatusSettlement:
		return StatusSuccess
	case TransactionStatusCapture:
		if fraudStatus == FraudStatusAccept {
			return StatusSuccess
		}
		return StatusPending
	case TransactionStatusPending:
		return StatusPending
	case TransactionStatusDeny, TransactionStatusCancel:
		return StatusFailed
	case TransactionStatusExpire:
		return StatusExpired
	default:
		return StatusPending
	}
}
