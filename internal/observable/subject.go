// Package observable provides a single-slot, replay-latest notification
// list.
package observable

import "sync"

// Subject remembers the last published value and notifies listeners
// synchronously, in registration order, on every Publish. A new listener
// receives the current value immediately on Subscribe.
//
// Listeners run on the publishing goroutine and must not block. They may
// subscribe or unsubscribe from inside a callback; the change applies from the
// next Publish.
type Subject[T any] struct {
	mu        sync.Mutex
	value     T
	nextID    int
	listeners []listener[T]
}

type listener[T any] struct {
	id int
	fn func(T)
}

// NewSubject returns a Subject holding initial.
func NewSubject[T any](initial T) *Subject[T] {
	return &Subject[T]{value: initial}
}

// Value returns the last published value.
func (s *Subject[T]) Value() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Publish stores v and calls every registered listener with it before
// returning.
func (s *Subject[T]) Publish(v T) {
	s.mu.Lock()
	s.value = v
	ls := make([]listener[T], len(s.listeners))
	copy(ls, s.listeners)
	s.mu.Unlock()

	for _, l := range ls {
		l.fn(v)
	}
}

// Subscribe registers fn, calls it with the current value, and returns a
// func that removes it. The returned func is safe to call more than once.
func (s *Subject[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, listener[T]{id: id, fn: fn})
	current := s.value
	s.mu.Unlock()

	fn(current)

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

// Len reports the number of registered listeners.
func (s *Subject[T]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}
