package checkout

import (
	"context"
	"time"

	"github.com/RakeshAlgot-Hub/jewellery-inventory/internal/domain"
	"github.com/RakeshAlgot-Hub/jewellery-inventory/internal/events"
	"go.uber.org/zap"
)

// settle ends an attempt: the cart is cleared only when failure is nil, exactly one
// callback fires, and the orchestrator is Idle again on return. The settlement event
// is published in the background; Wait blocks until it is out.
func (o *Orchestrator) settle(ctx context.Context, buyer domain.Buyer, order domain.Order, failure *Failure, cb Callbacks) {
	o.mu.Lock()
	o.state = StateSettled
	o.mu.Unlock()

	// the attempt is over; a caller that went away must not stop the cart from clearing
	ctx = context.WithoutCancel(ctx)

	if failure == nil {
		o.cart.ClearCart(ctx)
		o.logger.Info("checkout settled", zap.String("order_id", order.ID))
	} else {
		o.logger.Info("checkout failed",
			zap.String("order_id", order.ID),
			zap.String("kind", string(failure.Kind)),
			zap.String("reason", failure.Reason))
	}
	o.metrics.countOutcome(failure)

	if failure == nil {
		if cb.OnSuccess != nil {
			cb.OnSuccess()
		}
	} else if cb.OnFailure != nil {
		cb.OnFailure(*failure)
	}

	settledAt := o.now()
	o.mu.Lock()
	o.state = StateIdle
	o.orderID = ""
	o.last = &Outcome{
		Succeeded: failure == nil,
		OrderID:   order.ID,
		Failure:   failure,
		SettledAt: settledAt,
	}
	o.mu.Unlock()

	// published off the checkout path; a stuck broker must not hold the state machine
	o.publishing.Add(1)
	go func() {
		defer o.publishing.Done()
		pubCtx, cancel := context.WithTimeout(ctx, o.publishTimeout)
		defer cancel()
		o.publish(pubCtx, buyer, order, failure, settledAt)
	}()
}

func (o *Orchestrator) publish(ctx context.Context, buyer domain.Buyer, order domain.Order, failure *Failure, settledAt time.Time) {
	event := events.SettlementEvent{
		OrderID:   order.ID,
		Amount:    order.Amount,
		Currency:  order.Currency,
		Outcome:   events.OutcomeSucceeded,
		UserID:    buyerNotes(buyer)["userId"],
		SettledAt: settledAt,
	}
	if failure != nil {
		event.Outcome = events.OutcomeFailed
		event.Kind = string(failure.Kind)
		event.Reason = failure.Reason
	}
	if err := o.publisher.PublishSettlement(ctx, event); err != nil {
		o.logger.Warn("failed to publish settlement event",
			zap.String("order_id", order.ID),
			zap.Error(err))
	}
}
