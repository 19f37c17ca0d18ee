package cache

import (
	"context"
	"sync"
)

// hub fans row snapshots out to subscribers. Every subscriber channel is
// buffered one deep and holds the latest snapshot only, so a slow reader
// never blocks a writer; it just skips intermediate states.
type hub[T any] struct {
	mu   sync.Mutex
	subs map[int]chan T
	next int
}

func newHub[T any]() *hub[T] {
	return &hub[T]{subs: make(map[int]chan T)}
}

// add registers a subscriber primed with initial. The channel is closed and
// forgotten once ctx is cancelled.
func (h *hub[T]) add(ctx context.Context, initial T) chan T {
	h.mu.Lock()
	defer h.mu.Unlock()

	ch := make(chan T, 1)
	ch <- initial
	id := h.next
	h.next++
	h.subs[id] = ch

	go func() {
		<-ctx.Done()
		h.remove(id)
	}()

	return ch
}

func (h *hub[T]) remove(id int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if ch, ok := h.subs[id]; ok {
		delete(h.subs, id)
		close(ch)
	}
}

// broadcast replaces any pending snapshot with v on every subscriber.
func (h *hub[T]) broadcast(v T) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for _, ch := range h.subs {
		select {
		case ch <- v:
		default:
			// Full buffer: evict the stale snapshot. Only the hub sends on
			// subscriber channels, so the retry cannot block.
			select {
			case <-ch:
			default:
			}
			ch <- v
		}
	}
}
