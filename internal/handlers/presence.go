package handlers

import (
	"sync"

	"carelink-backend/internal/models"
)

const (
	StatusOnline  = "online"
	StatusOffline = "offline"
)

// Presence tracks which users hold at least one open websocket connection.
type Presence struct {
	mu sync.RWMutex
	// connID -> metadata
	connMeta map[string]ConnMeta
}

type ConnMeta struct {
	UserID int64
	Name   string
}

func NewPresence() *Presence {
	return &Presence{connMeta: make(map[string]ConnMeta)}
}

// RegisterConnection stores metadata for a new websocket connection
// Returns true if this is the first connection for this user (user just came online)
func (p *Presence) RegisterConnection(connID string, userID int64, name string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	wasOnline := p.countLocked(userID) > 0
	p.connMeta[connID] = ConnMeta{UserID: userID, Name: name}
	return !wasOnline
}

// UnregisterConnection returns true if this was the user's last connection
func (p *Presence) UnregisterConnection(connID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	meta, exists := p.connMeta[connID]
	if !exists {
		return false
	}
	delete(p.connMeta, connID)
	return p.countLocked(meta.UserID) == 0
}

func (p *Presence) IsUserOnline(userID int64) bool {
	return p.CountUserConnections(userID) > 0
}

func (p *Presence) CountUserConnections(userID int64) int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.countLocked(userID)
}

func (p *Presence) countLocked(userID int64) int {
	count := 0
	for _, meta := range p.connMeta {
		if meta.UserID == userID {
			count++
		}
	}
	return count
}

// Status is the counterpart status shown in conversation lists.
func (p *Presence) Status(userID *int64) string {
	if userID != nil && p.IsUserOnline(*userID) {
		return StatusOnline
	}
	return StatusOffline
}

// FillStatus sets CounterpartStatus on every summary.
func (p *Presence) FillStatus(summaries []models.ConversationSummary) {
	for i := range summaries {
		summaries[i].CounterpartStatus = p.Status(summaries[i].CounterpartID)
	}
}
