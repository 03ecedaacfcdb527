// Package notifier wakes long-poll requests when a new best block is observed.
package notifier

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/benbjohnson/clock"
)

// DefaultMaxWaiters bounds concurrent long-poll subscribers.
const DefaultMaxWaiters = 1000

var (
	// ErrTimeout is returned by Await when no block is published in time.
	ErrTimeout = errors.New("no new block")
	// ErrTooManyWaiters is returned by Await when the subscriber limit is reached.
	ErrTooManyWaiters = errors.New("too many waiters for a new block")
)

// Await outcomes reported to the Observer.
const (
	OutcomeNotified = "notified"
	OutcomeTimeout  = "timeout"
	OutcomeCanceled = "canceled"
	OutcomeRejected = "rejected"
)

// Observer receives notifier events.
type Observer interface {
	Waiters(n int)
	Published(delivered int)
	Completed(outcome string)
}

// Notifier is a one-shot broadcast point. Every Await registers a subscriber
// that receives at most one published hash and is removed on every exit path.
type Notifier struct {
	mu          sync.Mutex
	subscribers map[uint64]chan string
	nextID      uint64

	maxWaiters int
	clock      clock.Clock
	observer   Observer
}

// New creates a Notifier. A non-positive maxWaiters falls back to DefaultMaxWaiters.
func New(maxWaiters int, clk clock.Clock, observer Observer) *Notifier {
	if maxWaiters <= 0 {
		maxWaiters = DefaultMaxWaiters
	}
	if clk == nil {
		clk = clock.New()
	}
	if observer == nil {
		observer = nopObserver{}
	}
	return &Notifier{
		subscribers: make(map[uint64]chan string),
		maxWaiters:  maxWaiters,
		clock:       clk,
		observer:    observer,
	}
}

// Await blocks until the next Publish, the timeout elapses or ctx is done.
func (n *Notifier) Await(ctx context.Context, timeout time.Duration) (string, error) {
	timer := n.clock.Timer(timeout)
	defer timer.Stop()

	id, ch, err := n.subscribe()
	if err != nil {
		n.observer.Completed(OutcomeRejected)
		return "", err
	}
	defer n.unsubscribe(id)

	select {
	case hash := <-ch:
		n.observer.Completed(OutcomeNotified)
		return hash, nil
	case <-timer.C:
		n.observer.Completed(OutcomeTimeout)
		return "", ErrTimeout
	case <-ctx.Done():
		n.observer.Completed(OutcomeCanceled)
		return "", ctx.Err()
	}
}

// Publish delivers hash to every current subscriber and returns how many were
// notified. It never blocks on a subscriber.
func (n *Notifier) Publish(hash string) int {
	n.mu.Lock()
	detached := n.subscribers
	n.subscribers = make(map[uint64]chan string)
	n.observer.Waiters(0)
	n.mu.Unlock()

	for _, ch := range detached {
		select {
		case ch <- hash:
		default:
		}
	}
	n.observer.Published(len(detached))
	return len(detached)
}

// Len returns the number of registered subscribers.
func (n *Notifier) Len() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.subscribers)
}

func (n *Notifier) subscribe() (uint64, chan string, error) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if len(n.subscribers) >= n.maxWaiters {
		return 0, nil, ErrTooManyWaiters
	}
	n.nextID++
	ch := make(chan string, 1)
	n.subscribers[n.nextID] = ch
	n.observer.Waiters(len(n.subscribers))
	return n.nextID, ch, nil
}

// unsubscribe is a no-op for subscribers already detached by Publish.
func (n *Notifier) unsubscribe(id uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if _, ok := n.subscribers[id]; !ok {
		return
	}
	delete(n.subscribers, id)
	n.observer.Waiters(len(n.subscribers))
}

type nopObserver struct{}

func (nopObserver) Waiters(int)      {}
func (nopObserver) Published(int)    {}
func (nopObserver) Completed(string) {}
