// Package realtime fans newly inserted chat messages out to in-process subscribers
// and provides the folds screens use to merge them into what they already hold.
package realtime

import (
	"log/slog"
	"sync"

	"carelink-backend/internal/models"
)

const subscriptionBuffer = 64

// Scope selects which inserts a subscription receives.
type Scope struct {
	roomID int64
}

// AllRooms receives every insert. Used by conversation lists.
func AllRooms() Scope { return Scope{} }

// Room receives inserts for one room. Used by an open chat.
func Room(id int64) Scope { return Scope{roomID: id} }

func (s Scope) matches(m models.Message) bool {
	return s.roomID == 0 || s.roomID == m.RoomID
}

type Hub struct {
	mu   sync.RWMutex
	subs map[*Subscription]struct{}
}

func NewHub() *Hub {
	return &Hub{subs: make(map[*Subscription]struct{})}
}

// Subscribe registers a subscription. The caller must Close it.
func (h *Hub) Subscribe(scope Scope) *Subscription {
	sub := &Subscription{
		hub:   h,
		scope: scope,
		ch:    make(chan models.Message, subscriptionBuffer),
	}
	h.mu.Lock()
	h.subs[sub] = struct{}{}
	h.mu.Unlock()
	return sub
}

// Publish delivers m to every matching subscription without blocking.
// A subscriber whose buffer is full misses the event.
func (h *Hub) Publish(m models.Message) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs {
		if !sub.scope.matches(m) {
			continue
		}
		select {
		case sub.ch <- m:
		default:
			slog.Warn("realtime: Dropping event for slow subscriber", "room_id", m.RoomID, "message_id", m.ID)
		}
	}
}

// Len reports the number of open subscriptions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs)
}

func (h *Hub) remove(sub *Subscription) {
	h.mu.Lock()
	delete(h.subs, sub)
	close(sub.ch)
	h.mu.Unlock()
}

type Subscription struct {
	hub   *Hub
	scope Scope
	ch    chan models.Message
	once  sync.Once
}

// C yields matching inserts until Close is called, then it is closed.
func (s *Subscription) C() <-chan models.Message { return s.ch }

// Close detaches the subscription. Safe to call more than once.
func (s *Subscription) Close() {
	s.once.Do(func() { s.hub.remove(s) })
}
