// Package capture models the external, user-facing payment capture step as an
// injectable capability.
package capture

import (
	"context"
	"errors"

	"github.com/RakeshAlgot-Hub/jewellery-inventory/internal/domain"
)

const (
	DefaultMerchantName = "JewelleryInventory"
	DefaultDescription  = "Jewelry Purchase"
)

// ErrDismissed is returned by Open when the buyer closes the capture step.
var ErrDismissed = errors.New("capture dismissed")

type Prefill struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Contact string `json:"contact"`
}

// Session is everything the capture widget needs to collect a payment for one order.
type Session struct {
	MerchantKey string  `json:"key"`
	Amount      int64   `json:"amount"`
	Currency    string  `json:"currency"`
	OrderID     string  `json:"order_id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Prefill     Prefill `json:"prefill"`
}

// Response is what the capture widget hands back on success. Nothing in it is trusted
// until the gateway has verified it.
type Response struct {
	OrderID   string `json:"razorpay_order_id"`
	PaymentID string `json:"razorpay_payment_id"`
	Signature string `json:"razorpay_signature"`
}

func (r Response) Attempt() domain.PaymentAttempt {
	return domain.PaymentAttempt{
		OrderID:   r.OrderID,
		PaymentID: r.PaymentID,
		Signature: r.Signature,
	}
}

// Provider opens a capture session and blocks until the buyer either completes it or
// dismisses it. A dismissal yields ErrDismissed.
type Provider interface {
	Open(ctx context.Context, session Session) (Response, error)
}

// PrefillFor builds the identity shown pre-filled in the capture widget.
func PrefillFor(buyer domain.Buyer) Prefill {
	if buyer.Anonymous() {
		return Prefill{}
	}
	return Prefill{
		Name:    buyer.FullName(),
		Email:   buyer.Email,
		Contact: buyer.Contact,
	}
}
