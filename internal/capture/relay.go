package capture

import (
	"context"
	"errors"
	"sync"
)

var (
	ErrNoPendingCapture = errors.New("no capture session is pending")
	ErrCaptureBusy      = errors.New("a capture session is already open")
)

type outcome struct {
	resp Response
	err  error
}

type pendingCapture struct {
	session Session
	result  chan outcome
}

// Relay is a Provider driven by events from outside the process: Open publishes the
// session and waits, and whoever renders the widget reports back through Capture or
// Dismiss. At most one session is open at a time.
type Relay struct {
	mu      sync.Mutex
	pending *pendingCapture
	opened  chan struct{}
}

func NewRelay() *Relay {
	return &Relay{opened: make(chan struct{}, 1)}
}

func (r *Relay) Open(ctx context.Context, session Session) (Response, error) {
	r.mu.Lock()
	if r.pending != nil {
		r.mu.Unlock()
		return Response{}, ErrCaptureBusy
	}
	p := &pendingCapture{session: session, result: make(chan outcome, 1)}
	r.pending = p
	r.mu.Unlock()

	select {
	case r.opened <- struct{}{}:
	default:
	}

	defer r.release(p)

	select {
	case o := <-p.result:
		return o.resp, o.err
	case <-ctx.Done():
		return Response{}, ctx.Err()
	}
}

// Pending returns the session currently waiting for the buyer, if any.
func (r *Relay) Pending() (Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.pending == nil {
		return Session{}, false
	}
	return r.pending.session, true
}

// Opened fires (at most once per wake-up) after a session becomes pending.
func (r *Relay) Opened() <-chan struct{} {
	return r.opened
}

// Capture resolves the pending session with the widget's response.
func (r *Relay) Capture(resp Response) error {
	return r.resolve(outcome{resp: resp})
}

// Dismiss resolves the pending session as closed by the buyer.
func (r *Relay) Dismiss() error {
	return r.resolve(outcome{err: ErrDismissed})
}

func (r *Relay) resolve(o outcome) error {
	r.mu.Lock()
	p := r.pending
	r.pending = nil
	r.mu.Unlock()

	if p == nil {
		return ErrNoPendingCapture
	}
	p.result <- o
	return nil
}

func (r *Relay) release(p *pendingCapture) {
	r.mu.Lock()
	if r.pending == p {
		r.pending = nil
	}
	r.mu.Unlock()
}
