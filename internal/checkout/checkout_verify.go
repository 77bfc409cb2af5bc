package checkout

import (
	"context"

	"github.com/RakeshAlgot-Hub/jewellery-inventory/internal/domain"
	"go.uber.org/zap"
)

func (o *Orchestrator) verify(ctx context.Context, attempt domain.PaymentAttempt) *Failure {
	started := o.now()
	defer func() { o.metrics.observeStep(StateVerifying, started, o.now()) }()

	result, err := o.gateway.VerifyPayment(ctx, attempt)
	if err != nil {
		o.logger.Warn("payment verification call failed",
			zap.String("order_id", attempt.OrderID),
			zap.String("payment_id", attempt.PaymentID),
			zap.Error(err))
		return fail(FailureGateway, ReasonVerificationFailed)
	}
	if result.Status != domain.VerificationSuccess {
		o.logger.Warn("payment not verified",
			zap.String("order_id", attempt.OrderID),
			zap.String("payment_id", attempt.PaymentID),
			zap.String("status", string(result.Status)))
		return fail(FailureVerification, ReasonVerificationFailed)
	}
	return nil
}
