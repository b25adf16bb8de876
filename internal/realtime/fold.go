package realtime

import (
	"sort"

	"carelink-backend/internal/models"
)

// Thread is the ordered message sequence of one open room.
type Thread struct {
	RoomID   int64
	messages []models.Message
	ids      map[int64]bool
}

func NewThread(roomID int64, history []models.Message) *Thread {
	t := &Thread{RoomID: roomID, ids: make(map[int64]bool, len(history))}
	for _, m := range history {
		t.Append(m)
	}
	return t
}

// Append adds m in (created_at, id) order. Messages from other rooms and ids already
// held are ignored. Returns whether m was added.
func (t *Thread) Append(m models.Message) bool {
	if m.RoomID != t.RoomID || t.ids[m.ID] {
		return false
	}
	t.ids[m.ID] = true

	n := len(t.messages)
	if n == 0 || m.Newer(t.messages[n-1]) {
		t.messages = append(t.messages, m)
		return true
	}
	i := sort.Search(n, func(i int) bool { return t.messages[i].Newer(m) })
	t.messages = append(t.messages, models.Message{})
	copy(t.messages[i+1:], t.messages[i:])
	t.messages[i] = m
	return true
}

func (t *Thread) Messages() []models.Message {
	out := make([]models.Message, len(t.messages))
	copy(out, t.messages)
	return out
}

// LatestIndex holds the newest message per room for a conversation list.
type LatestIndex struct {
	latest map[int64]models.Message
}

func NewLatestIndex(initial map[int64]models.Message) *LatestIndex {
	idx := &LatestIndex{latest: make(map[int64]models.Message, len(initial))}
	for id, m := range initial {
		idx.latest[id] = m
	}
	return idx
}

// Apply replaces the room's latest only when m is strictly newer.
// Duplicates, replays and late arrivals leave the index unchanged.
func (idx *LatestIndex) Apply(m models.Message) bool {
	prev, ok := idx.latest[m.RoomID]
	if ok && !m.Newer(prev) {
		return false
	}
	idx.latest[m.RoomID] = m
	return true
}

func (idx *LatestIndex) Get(roomID int64) (models.Message, bool) {
	m, ok := idx.latest[roomID]
	return m, ok
}
