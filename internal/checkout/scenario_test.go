package checkout

import (
	"context"
	"fmt"
	"testing"

	"github.com/RakeshAlgot-Hub/jewellery-inventory/internal/capture"
	"github.com/RakeshAlgot-Hub/jewellery-inventory/internal/domain"
	"github.com/RakeshAlgot-Hub/jewellery-inventory/internal/persistence"
	"github.com/RakeshAlgot-Hub/jewellery-inventory/internal/store"
	"github.com/cucumber/godog"
	"github.com/shopspring/decimal"
)

type scenarioContext struct {
	cart     *store.CartStore
	products map[string]domain.Product
	gateway  *MockGateway
	provider *MockProvider
	rec      *recorder
	current  *Orchestrator
}

func (s *scenarioContext) reset() {
	s.cart = store.NewCartStore(context.Background(), persistence.NewMemoryStore(), nil)
	s.products = map[string]domain.Product{}
	s.gateway = &MockGateway{}
	s.provider = &MockProvider{}
	s.rec = &recorder{}
	s.current = nil
}

func (s *scenarioContext) orchestrator() *Orchestrator {
	return NewOrchestrator(s.cart, s.gateway, s.provider, Config{MerchantKey: "rzp_test_key", Currency: "INR", MinorUnits: 2})
}

func (s *scenarioContext) anEmptyCart() error {
	if s.cart.ItemCount() != 0 {
		return fmt.Errorf("expected an empty cart, got %d items", s.cart.ItemCount())
	}
	return nil
}

func (s *scenarioContext) aProductPriced(id string, price int) error {
	s.products[id] = domain.Product{ID: id, Name: id, Price: decimal.NewFromInt(int64(price))}
	return nil
}

func (s *scenarioContext) iAdd(quantity int, id string) error {
	p, ok := s.products[id]
	if !ok {
		return fmt.Errorf("unknown product %q", id)
	}
	s.cart.AddItem(context.Background(), p, quantity)
	return nil
}

func (s *scenarioContext) iRemove(id string) error {
	s.cart.RemoveItem(context.Background(), id)
	return nil
}

func (s *scenarioContext) theCartHoldsLinesWithQuantity(lines, quantity int) error {
	items := s.cart.Items()
	if len(items) != lines {
		return fmt.Errorf("expected %d lines, got %d", lines, len(items))
	}
	for _, item := range items {
		if item.Quantity != quantity {
			return fmt.Errorf("expected quantity %d, got %d", quantity, item.Quantity)
		}
	}
	return nil
}

func (s *scenarioContext) theCartTotalIs(total int) error {
	if got := s.cart.TotalPrice(); !got.Equal(decimal.NewFromInt(int64(total))) {
		return fmt.Errorf("expected total %d, got %s", total, got)
	}
	return nil
}

func (s *scenarioContext) theCartItemCountIs(count int) error {
	if got := s.cart.ItemCount(); got != count {
		return fmt.Errorf("expected item count %d, got %d", count, got)
	}
	return nil
}

func (s *scenarioContext) theGatewayCreatesOrder(id string, amount int, currency string) error {
	s.gateway.Order = domain.Order{ID: id, Amount: int64(amount), Currency: currency}
	return nil
}

func (s *scenarioContext) captureWithoutSignature() error {
	s.provider.Response = capture.Response{OrderID: s.gateway.Order.ID, PaymentID: "pay_1"}
	return nil
}

func (s *scenarioContext) captureComplete() error {
	s.provider.Response = fullResponse(s.gateway.Order.ID)
	return nil
}

func (s *scenarioContext) buyerDismisses() error {
	s.provider.Err = capture.ErrDismissed
	return nil
}

func (s *scenarioContext) theGatewayVerifiesWith(status string) error {
	s.gateway.Result = domain.VerificationResult{Status: domain.VerificationStatus(status)}
	return nil
}

func (s *scenarioContext) iCheckOut() error {
	return s.orchestratorOnce().Checkout(context.Background(), domain.Buyer{}, s.rec.callbacks())
}

// orchestratorOnce keeps one orchestrator per scenario so idle checks see the same
// instance that ran the checkout.
func (s *scenarioContext) orchestratorOnce() *Orchestrator {
	if s.current == nil {
		s.current = s.orchestrator()
	}
	return s.current
}

func (s *scenarioContext) checkoutFailsWith(kind string) error {
	if len(s.rec.failures) != 1 {
		return fmt.Errorf("expected one failure, got %d", len(s.rec.failures))
	}
	if got := s.rec.failures[0].Kind; string(got) != kind {
		return fmt.Errorf("expected failure kind %s, got %s", kind, got)
	}
	return nil
}

func (s *scenarioContext) verificationNeverRequested() error {
	if n := len(s.gateway.VerifyCalls); n != 0 {
		return fmt.Errorf("expected no verification calls, got %d", n)
	}
	return nil
}

func (s *scenarioContext) successFiredOnce() error {
	if s.rec.successes != 1 || len(s.rec.failures) != 0 {
		return fmt.Errorf("expected one success and no failures, got %d and %d", s.rec.successes, len(s.rec.failures))
	}
	return nil
}

func (s *scenarioContext) failureFiredOnceWith(reason string) error {
	if len(s.rec.failures) != 1 || s.rec.successes != 0 {
		return fmt.Errorf("expected one failure and no successes, got %d and %d", len(s.rec.failures), s.rec.successes)
	}
	if got := s.rec.failures[0].Reason; got != reason {
		return fmt.Errorf("expected reason %q, got %q", reason, got)
	}
	return nil
}

func (s *scenarioContext) theOrchestratorIsIdle() error {
	if state := s.orchestratorOnce().Status().State; state != StateIdle {
		return fmt.Errorf("expected %s, got %s", StateIdle, state)
	}
	return nil
}

func (s *scenarioContext) anotherCheckoutIsAccepted() error {
	before := len(s.gateway.CreateCalls)
	if err := s.iCheckOut(); err != nil {
		return err
	}
	if len(s.gateway.CreateCalls) != before+1 {
		return fmt.Errorf("expected a new order to be requested")
	}
	return nil
}

func initializeScenario(ctx *godog.ScenarioContext) {
	sc := &scenarioContext{}

	ctx.Before(func(ctx context.Context, _ *godog.Scenario) (context.Context, error) {
		sc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^an empty cart$`, sc.anEmptyCart)
	ctx.Step(`^a product "([^"]*)" priced (\d+)$`, sc.aProductPriced)
	ctx.Step(`^the gateway creates order "([^"]*)" for (\d+) "([^"]*)"$`, sc.theGatewayCreatesOrder)
	ctx.Step(`^the capture step returns a response without a signature$`, sc.captureWithoutSignature)
	ctx.Step(`^the capture step returns a complete response$`, sc.captureComplete)
	ctx.Step(`^the buyer dismisses the capture step$`, sc.buyerDismisses)
	ctx.Step(`^the gateway verifies payments with status "([^"]*)"$`, sc.theGatewayVerifiesWith)

	// When steps
	ctx.Step(`^I add (\d+) of "([^"]*)"$`, sc.iAdd)
	ctx.Step(`^I remove "([^"]*)"$`, sc.iRemove)
	ctx.Step(`^I check out$`, sc.iCheckOut)

	// Then steps
	ctx.Step(`^the cart holds (\d+) lines? with quantity (\d+)$`, sc.theCartHoldsLinesWithQuantity)
	ctx.Step(`^the cart total is (\d+)$`, sc.theCartTotalIs)
	ctx.Step(`^the cart item count is (\d+)$`, sc.theCartItemCountIs)
	ctx.Step(`^checkout fails with "([^"]*)"$`, sc.checkoutFailsWith)
	ctx.Step(`^payment verification was never requested$`, sc.verificationNeverRequested)
	ctx.Step(`^the success callback fired exactly once$`, sc.successFiredOnce)
	ctx.Step(`^the failure callback fired exactly once with reason "([^"]*)"$`, sc.failureFiredOnceWith)
	ctx.Step(`^the orchestrator is idle$`, sc.theOrchestratorIsIdle)
	ctx.Step(`^another checkout is accepted$`, sc.anotherCheckoutIsAccepted)
}

func TestFeatures(t *testing.T) {
	suite := godog.TestSuite{
		ScenarioInitializer: initializeScenario,
		Options: &godog.Options{
			Format:   "pretty",
			Paths:    []string{"testdata/checkout.feature"},
			TestingT: t,
		},
	}

	if suite.Run() != 0 {
		t.Fatal("non-zero status returned, failed to run feature tests")
	}
}
