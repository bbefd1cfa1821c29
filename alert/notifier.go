// Package alert holds the single transient user-facing message.
package alert

import (
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// DefaultDuration is how long an alert stays visible.
const DefaultDuration = 5 * time.Second

// User-facing messages raised by the selection engine.
const (
	MsgAlreadyAdded = "Wybrana treść została już dodana."
	MsgAllUsed      = "Wszystkie dostępne treści zostały już użyte."
)

// State is what a renderer needs to draw the alert.
type State struct {
	Message string
	Visible bool
}

// Notifier keeps at most one active message. A new message replaces the old one
// and restarts the visibility window.
type Notifier struct {
	mu       sync.Mutex
	state    State
	duration time.Duration
	timer    *time.Timer
	// gen identifies the current alert; a timer only hides the alert it was armed for.
	gen    uint64
	subs   map[int]func(State)
	nextID int
	closed bool
}

// NewNotifier creates a notifier; a non-positive duration means DefaultDuration.
func NewNotifier(duration time.Duration) *Notifier {
	if duration <= 0 {
		duration = DefaultDuration
	}
	return &Notifier{duration: duration, subs: make(map[int]func(State))}
}

// Display shows message and arms the hide timer, cancelling any earlier one.
func (n *Notifier) Display(message string) {
	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	n.stopTimerLocked()
	n.gen++
	gen := n.gen
	n.state = State{Message: message, Visible: true}
	n.timer = time.AfterFunc(n.duration, func() { n.expire(gen) })
	st, subs := n.state, n.subscribersLocked()
	n.mu.Unlock()

	log.Debug().Str("message", message).Dur("window", n.duration).Msg("Alert displayed")
	notify(subs, st)
}

// Clear hides the alert at once.
func (n *Notifier) Clear() {
	n.mu.Lock()
	n.stopTimerLocked()
	n.gen++
	changed := n.state != (State{})
	n.state = State{}
	st, subs := n.state, n.subscribersLocked()
	n.mu.Unlock()

	if changed {
		notify(subs, st)
	}
}

// State returns the current alert.
func (n *Notifier) State() State {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.state
}

// Subscribe registers fn to be called after every change. The returned function unregisters it.
func (n *Notifier) Subscribe(fn func(State)) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	id := n.nextID
	n.nextID++
	n.subs[id] = fn
	return func() {
		n.mu.Lock()
		delete(n.subs, id)
		n.mu.Unlock()
	}
}

// Close cancels the pending timer; later Display calls are ignored.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.stopTimerLocked()
	n.closed = true
}

func (n *Notifier) expire(gen uint64) {
	n.mu.Lock()
	if gen != n.gen || !n.state.Visible {
		n.mu.Unlock()
		return
	}
	n.state.Visible = false
	n.timer = nil
	st, subs := n.state, n.subscribersLocked()
	n.mu.Unlock()

	log.Debug().Msg("Alert expired")
	notify(subs, st)
}

func (n *Notifier) stopTimerLocked() {
	if n.timer != nil {
		n.timer.Stop()
		n.timer = nil
	}
}

func (n *Notifier) subscribersLocked() []func(State) {
	subs := make([]func(State), 0, len(n.subs))
	for _, fn := range n.subs {
		subs = append(subs, fn)
	}
	return subs
}

func notify(subs []func(State), st State) {
	for _, fn := range subs {
		fn(st)
	}
}
