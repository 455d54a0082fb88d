// Package notify holds the listener lists the sheet engine uses to publish
// events. A List is owned by a single goroutine, like the rest of the engine.
package notify

// List is an ordered set of listeners for one event category.
// Listeners run in subscription order.
type List[T any] struct {
	seq  uint64
	subs []subscriber[T]
}

type subscriber[T any] struct {
	id uint64
	fn func(T)
}

// Subscribe adds fn to the list and returns a func that removes it.
// Calling the returned func more than once is harmless.
func (l *List[T]) Subscribe(fn func(T)) (unsubscribe func()) {
	if fn == nil {
		return func() {}
	}
	l.seq++
	id := l.seq
	l.subs = append(l.subs, subscriber[T]{id: id, fn: fn})
	return func() { l.remove(id) }
}

func (l *List[T]) remove(id uint64) {
	for i, s := range l.subs {
		if s.id == id {
			l.subs = append(l.subs[:i:i], l.subs[i+1:]...)
			return
		}
	}
}

// Emit calls every listener with v. Listeners added or removed during Emit
// take effect on the next call.
func (l *List[T]) Emit(v T) {
	if len(l.subs) == 0 {
		return
	}
	snapshot := make([]subscriber[T], len(l.subs))
	copy(snapshot, l.subs)
	for _, s := range snapshot {
		s.fn(v)
	}
}

// Len returns the number of subscribed listeners.
func (l *List[T]) Len() int { return len(l.subs) }
