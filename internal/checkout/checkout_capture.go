package checkout

import (
	"context"
	"errors"

	"github.com/RakeshAlgot-Hub/jewellery-inventory/internal/capture"
	"github.com/RakeshAlgot-Hub/jewellery-inventory/internal/domain"
	"go.uber.org/zap"
)

// awaitCapture blocks until the buyer completes or dismisses the capture step. There
// is no timeout here; cancelling ctx counts as a dismissal.
func (o *Orchestrator) awaitCapture(ctx context.Context, order domain.Order, buyer domain.Buyer) (domain.PaymentAttempt, *Failure) {
	started := o.now()
	defer func() { o.metrics.observeStep(StateAwaitingCapture, started, o.now()) }()

	session := capture.Session{
		MerchantKey: o.cfg.MerchantKey,
		Amount:      order.Amount,
		Currency:    order.Currency,
		OrderID:     order.ID,
		Name:        o.cfg.MerchantName,
		Description: o.cfg.Description,
		Prefill:     capture.PrefillFor(buyer),
	}

	resp, err := o.provider.Open(ctx, session)
	if err != nil {
		if errors.Is(err, capture.ErrDismissed) || ctx.Err() != nil {
			o.logger.Info("capture dismissed", zap.String("order_id", order.ID))
			return domain.PaymentAttempt{}, fail(FailureCancelled, ReasonCancelled)
		}
		o.logger.Warn("capture failed", zap.String("order_id", order.ID), zap.Error(err))
		return domain.PaymentAttempt{}, fail(FailureInvalidResponse, ReasonInvalidResponse)
	}

	attempt := resp.Attempt()
	if !attempt.Complete() {
		o.logger.Warn("capture response is missing correlation fields",
			zap.String("order_id", order.ID),
			zap.Bool("has_order_id", attempt.OrderID != ""),
			zap.Bool("has_payment_id", attempt.PaymentID != ""),
			zap.Bool("has_signature", attempt.Signature != ""))
		return attempt, fail(FailureInvalidResponse, ReasonInvalidResponse)
	}
	if attempt.OrderID != order.ID {
		o.logger.Warn("capture response is for another order",
			zap.String("order_id", order.ID),
			zap.String("response_order_id", attempt.OrderID))
		return attempt, fail(FailureInvalidResponse, ReasonInvalidResponse)
	}
	return attempt, nil
}
