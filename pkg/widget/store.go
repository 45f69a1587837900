package widget

import (
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/go-go-golems/marionette/pkg/bus"
)

// Store holds one piece of widget state behind a paired read/write
// capability. Exactly one live instance of each store exists per mounted
// Root; writes never touch any other store.
//
// When constructed with a bus topic, every write publishes the new value so
// subscribed observers (the web layer, tests) see it on the next cycle.
type Store[T any] struct {
	mu    sync.RWMutex
	value T

	topic string
	bus   *bus.Bus
}

// NewStore builds an unpublished store.
func NewStore[T any](initial T) *Store[T] {
	return &Store[T]{value: initial}
}

// NewPublishedStore builds a store that announces writes on b under topic.
func NewPublishedStore[T any](initial T, b *bus.Bus, topic string) *Store[T] {
	return &Store[T]{value: initial, bus: b, topic: topic}
}

// Get returns the current value.
func (s *Store[T]) Get() T {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.value
}

// Set replaces the value and publishes the change when the store is wired to
// a bus.
func (s *Store[T]) Set(value T) {
	s.mu.Lock()
	s.value = value
	s.mu.Unlock()
	s.publish(value)
}

// Update applies fn to the current value under the write lock and publishes
// the result.
func (s *Store[T]) Update(fn func(T) T) {
	if fn == nil {
		return
	}
	s.mu.Lock()
	s.value = fn(s.value)
	value := s.value
	s.mu.Unlock()
	s.publish(value)
}

func (s *Store[T]) publish(value T) {
	if s.bus == nil || s.topic == "" {
		return
	}
	if err := s.bus.PublishJSON(s.topic, value); err != nil {
		log.Warn().Err(err).
			Str("component", "widget").
			Str("topic", s.topic).
			Msg("store publish failed")
	}
}
