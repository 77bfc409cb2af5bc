package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/RakeshAlgot-Hub/jewellery-inventory/internal/capture"
	"github.com/RakeshAlgot-Hub/jewellery-inventory/internal/checkout"
	"github.com/RakeshAlgot-Hub/jewellery-inventory/internal/domain"
	"go.uber.org/zap"
)

type Orchestrator interface {
	Checkout(ctx context.Context, buyer domain.Buyer, cb checkout.Callbacks) error
	Status() checkout.Status
}

// CaptureRelay is the HTTP-facing side of capture.Relay.
type CaptureRelay interface {
	Pending() (capture.Session, bool)
	Opened() <-chan struct{}
	Capture(resp capture.Response) error
	Dismiss() error
}

// CheckoutHandler runs checkouts in the background. A checkout outlives the request
// that started it: it ends only on capture, dismissal or server shutdown.
type CheckoutHandler struct {
	orchestrator Orchestrator
	relay        CaptureRelay
	baseCtx      context.Context
	timeout      time.Duration
	logger       *zap.Logger

	mu       sync.Mutex
	inflight *attempt
}

type attempt struct {
	done    chan struct{}
	failure *checkout.Failure
	err     error
}

func NewCheckoutHandler(baseCtx context.Context, orchestrator Orchestrator, relay CaptureRelay, timeout time.Duration, logger *zap.Logger) *CheckoutHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutHandler{
		orchestrator: orchestrator,
		relay:        relay,
		baseCtx:      baseCtx,
		timeout:      timeout,
		logger:       logger,
	}
}

type CheckoutResponseDTO struct {
	State   checkout.State    `json:"state"`
	OrderID string            `json:"orderId,omitempty"`
	Session *capture.Session  `json:"session,omitempty"`
	Last    *checkout.Outcome `json:"last,omitempty"`
}

// POST /api/v1/checkout
// Answers 202 with the capture session once the order exists, or with the failure if
// the attempt settles before reaching capture.
func (h *CheckoutHandler) InitiateCheckout(w http.ResponseWriter, r *http.Request) {
	if h.orchestrator.Status().State != checkout.StateIdle {
		respondError(w, http.StatusConflict, "checkout_in_progress", checkout.ErrCheckoutInProgress.Error())
		return
	}

	a, ok := h.start(getBuyer(r.Context()))
	if !ok {
		respondError(w, http.StatusConflict, "checkout_in_progress", checkout.ErrCheckoutInProgress.Error())
		return
	}

	timer := time.NewTimer(h.timeout)
	defer timer.Stop()
	for {
		select {
		case <-a.done:
			h.respondSettled(w, a)
			return
		case <-h.relay.Opened():
			if session, ok := h.relay.Pending(); ok {
				respondJSON(w, http.StatusAccepted, h.response(&session))
				return
			}
		case <-timer.C:
			respondJSON(w, http.StatusAccepted, h.response(nil))
			return
		case <-r.Context().Done():
			return
		}
	}
}

// GET /api/v1/checkout
func (h *CheckoutHandler) GetCheckout(w http.ResponseWriter, r *http.Request) {
	var session *capture.Session
	if s, ok := h.relay.Pending(); ok {
		session = &s
	}
	respondJSON(w, http.StatusOK, h.response(session))
}

// POST /api/v1/checkout/capture
// Feeds the capture widget's response to the waiting checkout and reports how it
// settled, or 202 if verification is still running when the request times out.
func (h *CheckoutHandler) Capture(w http.ResponseWriter, r *http.Request) {
	var resp capture.Response
	if err := json.NewDecoder(r.Body).Decode(&resp); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	h.resolve(w, r, func() error { return h.relay.Capture(resp) })
}

// POST /api/v1/checkout/dismiss
func (h *CheckoutHandler) Dismiss(w http.ResponseWriter, r *http.Request) {
	h.resolve(w, r, h.relay.Dismiss)
}

func (h *CheckoutHandler) resolve(w http.ResponseWriter, r *http.Request, deliver func() error) {
	a := h.current()
	if err := deliver(); err != nil {
		if errors.Is(err, capture.ErrNoPendingCapture) {
			respondError(w, http.StatusConflict, "no_pending_capture", err.Error())
			return
		}
		respondError(w, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}
	if a == nil {
		respondJSON(w, http.StatusAccepted, h.response(nil))
		return
	}

	timer := time.NewTimer(h.timeout)
	defer timer.Stop()
	select {
	case <-a.done:
		h.respondSettled(w, a)
	case <-timer.C:
		respondJSON(w, http.StatusAccepted, h.response(nil))
	case <-r.Context().Done():
	}
}

// start reports false if a checkout started by this handler has not settled yet.
func (h *CheckoutHandler) start(buyer domain.Buyer) (*attempt, bool) {
	h.mu.Lock()
	if h.inflight != nil && !h.inflight.settled() {
		h.mu.Unlock()
		return nil, false
	}
	a := &attempt{done: make(chan struct{})}
	h.inflight = a
	h.mu.Unlock()

	go func() {
		defer close(a.done)
		a.err = h.orchestrator.Checkout(h.baseCtx, buyer, checkout.Callbacks{
			OnFailure: func(f checkout.Failure) { a.failure = &f },
		})
		if a.err != nil {
			h.logger.Warn("checkout rejected", zap.Error(a.err))
		}
	}()
	return a, true
}

func (a *attempt) settled() bool {
	select {
	case <-a.done:
		return true
	default:
		return false
	}
}

func (h *CheckoutHandler) current() *attempt {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.inflight
}

func (h *CheckoutHandler) respondSettled(w http.ResponseWriter, a *attempt) {
	switch {
	case errors.Is(a.err, checkout.ErrCheckoutInProgress):
		respondError(w, http.StatusConflict, "checkout_in_progress", a.err.Error())
	case a.err != nil:
		respondError(w, http.StatusInternalServerError, "internal_error", a.err.Error())
	case a.failure != nil && a.failure.Kind == checkout.FailureCancelled:
		respondJSON(w, http.StatusOK, h.response(nil))
	case a.failure != nil:
		respondError(w, failureStatus(a.failure.Kind), string(a.failure.Kind), a.failure.Reason)
	default:
		respondJSON(w, http.StatusOK, h.response(nil))
	}
}

func (h *CheckoutHandler) response(session *capture.Session) CheckoutResponseDTO {
	status := h.orchestrator.Status()
	return CheckoutResponseDTO{
		State:   status.State,
		OrderID: status.OrderID,
		Session: session,
		Last:    status.Last,
	}
}

func failureStatus(kind checkout.FailureKind) int {
	switch kind {
	case checkout.FailureValidation:
		return http.StatusUnprocessableEntity
	case checkout.FailureGateway:
		return http.StatusBadGateway
	default:
		return http.StatusPaymentRequired
	}
}
