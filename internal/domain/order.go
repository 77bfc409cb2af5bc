package domain

// Order is the gateway's answer to an order creation request. Amount is in minor
// currency units.
type Order struct {
	ID       string            `json:"id"`
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt,omitempty"`
	Notes    map[string]string `json:"notes,omitempty"`
	Status   string            `json:"status,omitempty"`
}

// OrderRequest is what the engine sends to create an order.
type OrderRequest struct {
	Amount   int64             `json:"amount"`
	Currency string            `json:"currency"`
	Receipt  string            `json:"receipt"`
	Notes    map[string]string `json:"notes"`
}

// PaymentAttempt carries the correlation fields returned by the capture step.
type PaymentAttempt struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

// Complete reports whether all three correlation fields are present.
func (p PaymentAttempt) Complete() bool {
	return p.OrderID != "" && p.PaymentID != "" && p.Signature != ""
}

type VerificationStatus string

const (
	VerificationSuccess VerificationStatus = "success"
	VerificationFailure VerificationStatus = "failure"
)

type VerificationResult struct {
	Status VerificationStatus `json:"status"`
}

// Payment is a payment recorded by the gateway against an order.
type Payment struct {
	ID       string `json:"id"`
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	Status   string `json:"status"`
	Method   string `json:"method,omitempty"`
}
