// Package reset carries the "return to the initial state" signal between the
// component that triggers it and the components that react to it.
package reset

import (
	"sync"

	"github.com/rs/zerolog/log"
)

// Handler receives every published value.
type Handler func(value bool)

// Channel remembers the last published value and fans each publish out to the
// current subscribers. Subscribing does not replay the last value.
type Channel struct {
	mu     sync.Mutex
	value  bool
	subs   map[int]Handler
	order  []int
	nextID int
}

// NewChannel returns a channel whose value starts out false.
func NewChannel() *Channel {
	return &Channel{subs: make(map[int]Handler)}
}

// Publish stores value and calls every subscriber with it, in subscription order.
// Handlers run on the caller's goroutine after the channel's lock is released,
// so a handler may publish or subscribe again.
func (c *Channel) Publish(value bool) {
	c.mu.Lock()
	c.value = value
	handlers := make([]Handler, 0, len(c.order))
	for _, id := range c.order {
		handlers = append(handlers, c.subs[id])
	}
	c.mu.Unlock()

	log.Debug().Bool("value", value).Int("subscribers", len(handlers)).Msg("Reset signal published")
	for _, h := range handlers {
		h(value)
	}
}

// Subscribe registers h for future publishes and returns a function that unregisters it.
func (c *Channel) Subscribe(h Handler) (unsubscribe func()) {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextID
	c.nextID++
	c.subs[id] = h
	c.order = append(c.order, id)

	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			defer c.mu.Unlock()
			delete(c.subs, id)
			for i, v := range c.order {
				if v == id {
					c.order = append(c.order[:i], c.order[i+1:]...)
					break
				}
			}
		})
	}
}

// Value returns the last published value.
func (c *Channel) Value() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.value
}
