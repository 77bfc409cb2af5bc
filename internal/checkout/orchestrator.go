// Package checkout drives a single purchase from order creation through payment
// capture to server-side verification.
package checkout

import (
	"context"
	"sync"
	"time"

	"github.com/RakeshAlgot-Hub/jewellery-inventory/internal/capture"
	"github.com/RakeshAlgot-Hub/jewellery-inventory/internal/domain"
	"github.com/RakeshAlgot-Hub/jewellery-inventory/internal/events"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Cart is the part of the cart store checkout needs.
type Cart interface {
	TotalPrice() decimal.Decimal
	ClearCart(ctx context.Context)
}

type OrderGateway interface {
	CreateOrder(ctx context.Context, req domain.OrderRequest) (domain.Order, error)
	VerifyPayment(ctx context.Context, attempt domain.PaymentAttempt) (domain.VerificationResult, error)
}

// Callbacks receive the end of a checkout. Exactly one of them is called per accepted
// checkout; either may be nil.
type Callbacks struct {
	OnSuccess func()
	OnFailure func(Failure)
}

type Config struct {
	MerchantKey  string
	Currency     string
	MinorUnits   int32
	MerchantName string
	Description  string
}

// Status is a point-in-time view of the orchestrator for display.
type Status struct {
	State   State    `json:"state"`
	OrderID string   `json:"orderId,omitempty"`
	Last    *Outcome `json:"last,omitempty"`
}

// Outcome is how the most recent checkout ended.
type Outcome struct {
	Succeeded bool      `json:"succeeded"`
	OrderID   string    `json:"orderId,omitempty"`
	Failure   *Failure  `json:"failure,omitempty"`
	SettledAt time.Time `json:"settledAt"`
}

type Orchestrator struct {
	mu      sync.Mutex
	state   State
	orderID string
	last    *Outcome

	cart      Cart
	gateway   OrderGateway
	provider  capture.Provider
	publisher events.Publisher
	metrics   *Metrics
	cfg       Config
	now       func() time.Time
	logger    *zap.Logger

	publishTimeout time.Duration
	publishing     sync.WaitGroup
}

const defaultPublishTimeout = 10 * time.Second

type Option func(*Orchestrator)

func WithPublisher(p events.Publisher) Option {
	return func(o *Orchestrator) { o.publisher = p }
}

func WithMetrics(m *Metrics) Option {
	return func(o *Orchestrator) { o.metrics = m }
}

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

func WithLogger(l *zap.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithPublishTimeout bounds how long one settlement event may take to publish.
func WithPublishTimeout(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.publishTimeout = d
		}
	}
}

func NewOrchestrator(cart Cart, gateway OrderGateway, provider capture.Provider, cfg Config, opts ...Option) *Orchestrator {
	if cfg.Currency == "" {
		cfg.Currency = "INR"
	}
	if cfg.MerchantName == "" {
		cfg.MerchantName = capture.DefaultMerchantName
	}
	if cfg.Description == "" {
		cfg.Description = capture.DefaultDescription
	}
	o := &Orchestrator{
		state:     StateIdle,
		cart:      cart,
		gateway:   gateway,
		provider:  provider,
		publisher: events.Nop{},
		cfg:       cfg,
		now:       time.Now,
		logger:    zap.NewNop(),

		publishTimeout: defaultPublishTimeout,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Orchestrator) Status() Status {
	o.mu.Lock()
	defer o.mu.Unlock()
	s := Status{State: o.state, OrderID: o.orderID}
	if o.last != nil {
		last := *o.last
		s.Last = &last
	}
	return s
}

// Checkout runs one purchase to completion and blocks until it is settled. Failures
// are reported through cb, never returned; the only error is ErrCheckoutInProgress,
// in which case nothing else happens.
func (o *Orchestrator) Checkout(ctx context.Context, buyer domain.Buyer, cb Callbacks) error {
	o.mu.Lock()
	if o.state != StateIdle {
		o.mu.Unlock()
		return ErrCheckoutInProgress
	}
	o.state = StateCreatingOrder
	o.orderID = ""
	o.mu.Unlock()

	order, failure := o.run(ctx, buyer)
	o.settle(ctx, buyer, order, failure, cb)
	return nil
}

// Wait blocks until every settlement event handed to the publisher has been
// published or dropped.
func (o *Orchestrator) Wait() {
	o.publishing.Wait()
}

func (o *Orchestrator) run(ctx context.Context, buyer domain.Buyer) (domain.Order, *Failure) {
	order, failure := o.createOrder(ctx, buyer)
	if failure != nil {
		return order, failure
	}
	if err := o.transition(StateCreatingOrder, StateAwaitingCapture, order.ID); err != nil {
		return order, fail(FailureGateway, ReasonCreateOrderFailed)
	}

	attempt, failure := o.awaitCapture(ctx, order, buyer)
	if failure != nil {
		return order, failure
	}
	if err := o.transition(StateAwaitingCapture, StateVerifying, order.ID); err != nil {
		return order, fail(FailureInvalidResponse, ReasonInvalidResponse)
	}

	return order, o.verify(ctx, attempt)
}

func (o *Orchestrator) transition(from, to State, orderID string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.state != from || !CanTransitionTo(from, to) {
		return ErrIllegalTransition
	}
	o.state = to
	o.orderID = orderID
	return nil
}
