package checkout

import (
	"context"
	"fmt"

	"github.com/RakeshAlgot-Hub/jewellery-inventory/internal/domain"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const guestUserID = "guest"

func (o *Orchestrator) createOrder(ctx context.Context, buyer domain.Buyer) (domain.Order, *Failure) {
	started := o.now()
	defer func() { o.metrics.observeStep(StateCreatingOrder, started, o.now()) }()

	amount := toMinorUnits(o.cart.TotalPrice(), o.cfg.MinorUnits)
	pending := domain.Order{Amount: amount, Currency: o.cfg.Currency}
	if amount <= 0 {
		return pending, fail(FailureValidation, ReasonInvalidAmount)
	}

	req := domain.OrderRequest{
		Amount:   amount,
		Currency: o.cfg.Currency,
		Receipt:  fmt.Sprintf("receipt_%d", started.UnixMilli()),
		Notes:    buyerNotes(buyer),
	}
	order, err := o.gateway.CreateOrder(ctx, req)
	if err != nil {
		o.logger.Warn("order creation failed",
			zap.Int64("amount", amount),
			zap.String("receipt", req.Receipt),
			zap.Error(err))
		return pending, fail(FailureGateway, ReasonCreateOrderFailed)
	}
	if order.ID == "" {
		o.logger.Warn("order creation returned no order id", zap.String("receipt", req.Receipt))
		return pending, fail(FailureGateway, ReasonCreateOrderFailed)
	}

	if order.Amount <= 0 {
		order.Amount = amount
	}
	if order.Currency == "" {
		order.Currency = o.cfg.Currency
	}
	o.logger.Info("order created",
		zap.String("order_id", order.ID),
		zap.Int64("amount", order.Amount),
		zap.String("currency", order.Currency))
	return order, nil
}

// toMinorUnits rounds half-up to a whole number of minor units.
func toMinorUnits(total decimal.Decimal, minorUnits int32) int64 {
	return total.Shift(minorUnits).Round(0).IntPart()
}

func buyerNotes(buyer domain.Buyer) map[string]string {
	userID := buyer.UserID
	if buyer.Anonymous() {
		userID = guestUserID
	}
	return map[string]string{
		"userId":    userID,
		"userEmail": buyer.Email,
	}
}
