package checkout

import (
	"context"
	"sync"
	"time"

	"github.com/RakeshAlgot-Hub/jewellery-inventory/internal/capture"
	"github.com/RakeshAlgot-Hub/jewellery-inventory/internal/domain"
	"github.com/RakeshAlgot-Hub/jewellery-inventory/internal/events"
)

// MockGateway implements OrderGateway for testing
type MockGateway struct {
	mu sync.Mutex

	Order       domain.Order
	CreateErr   error
	Result      domain.VerificationResult
	VerifyErr   error
	CreateCalls []domain.OrderRequest // Captures every order request
	VerifyCalls []domain.PaymentAttempt
}

func (m *MockGateway) CreateOrder(_ context.Context, req domain.OrderRequest) (domain.Order, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreateCalls = append(m.CreateCalls, req)
	return m.Order, m.CreateErr
}

func (m *MockGateway) VerifyPayment(_ context.Context, attempt domain.PaymentAttempt) (domain.VerificationResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.VerifyCalls = append(m.VerifyCalls, attempt)
	return m.Result, m.VerifyErr
}

// MockProvider answers every capture session with a fixed response or error
type MockProvider struct {
	Response capture.Response
	Err      error
	Sessions []capture.Session
	// Block, when set, makes Open wait until it is closed or ctx is done
	Block chan struct{}
}

func (m *MockProvider) Open(ctx context.Context, session capture.Session) (capture.Response, error) {
	m.Sessions = append(m.Sessions, session)
	if m.Block != nil {
		select {
		case <-m.Block:
		case <-ctx.Done():
			return capture.Response{}, ctx.Err()
		}
	}
	return m.Response, m.Err
}

// MockPublisher records settlement events. A non-nil Block holds every publish until
// it is closed or the context ends.
type MockPublisher struct {
	mu        sync.Mutex
	published []events.SettlementEvent
	Err       error
	Block     chan struct{}
}

func (m *MockPublisher) PublishSettlement(ctx context.Context, event events.SettlementEvent) error {
	if m.Block != nil {
		select {
		case <-m.Block:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.published = append(m.published, event)
	return m.Err
}

func (m *MockPublisher) Events() []events.SettlementEvent {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]events.SettlementEvent(nil), m.published...)
}

// recorder counts callback invocations
type recorder struct {
	successes int
	failures  []Failure
}

func (r *recorder) callbacks() Callbacks {
	return Callbacks{
		OnSuccess: func() { r.successes++ },
		OnFailure: func(f Failure) { r.failures = append(r.failures, f) },
	}
}

func fixedClock() func() time.Time {
	at := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func fullResponse(orderID string) capture.Response {
	return capture.Response{OrderID: orderID, PaymentID: "pay_1", Signature: "sig_1"}
}
