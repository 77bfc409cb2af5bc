package checkout

import "errors"

var (
	ErrCheckoutInProgress = errors.New("a checkout is already in progress")
	ErrIllegalTransition  = errors.New("illegal transition of checkout state")
)

type FailureKind string

const (
	FailureValidation      FailureKind = "ValidationError"
	FailureGateway         FailureKind = "GatewayError"
	FailureInvalidResponse FailureKind = "InvalidResponse"
	FailureVerification    FailureKind = "VerificationFailed"
	FailureCancelled       FailureKind = "Cancelled"
)

const (
	ReasonInvalidAmount      = "cart is empty or invalid amount"
	ReasonCreateOrderFailed  = "failed to create order"
	ReasonCancelled          = "cancelled"
	ReasonInvalidResponse    = "invalid payment response"
	ReasonVerificationFailed = "payment verification failed"
)

// Failure is handed to the failure callback. Reason is meant for the buyer.
type Failure struct {
	Kind   FailureKind `json:"kind"`
	Reason string      `json:"reason"`
}

func (f Failure) Error() string {
	return string(f.Kind) + ": " + f.Reason
}

func fail(kind FailureKind, reason string) *Failure {
	return &Failure{Kind: kind, Reason: reason}
}
