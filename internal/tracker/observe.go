// ABOUTME: Ordered observer list shared by the stores and the notification center.
// ABOUTME: Observers run synchronously in subscription order.
package tracker

import "sync"

type observer[T any] struct {
	id int
	fn func(T)
}

type observers[T any] struct {
	mu   sync.Mutex
	next int
	list []observer[T]
}

// add registers fn and returns a function that removes it.
func (o *observers[T]) add(fn func(T)) func() {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.next++
	id := o.next
	o.list = append(o.list, observer[T]{id: id, fn: fn})

	return func() {
		o.mu.Lock()
		defer o.mu.Unlock()
		for i, ob := range o.list {
			if ob.id == id {
				o.list = append(o.list[:i:i], o.list[i+1:]...)
				return
			}
		}
	}
}

func (o *observers[T]) notify(v T) {
	o.mu.Lock()
	list := make([]observer[T], len(o.list))
	copy(list, o.list)
	o.mu.Unlock()

	for _, ob := range list {
		ob.fn(v)
	}
}
