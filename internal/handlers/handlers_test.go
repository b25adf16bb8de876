package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"carelink-backend/internal/models"
	"carelink-backend/internal/services"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{&services.ValidationError{Field: "text", Reason: "empty"}, http.StatusUnprocessableEntity},
		{fmt.Errorf("room 3: %w", services.ErrNotFound), http.StatusNotFound},
		{fmt.Errorf("latest: %w", services.ErrNotConfigured), http.StatusServiceUnavailable},
		{services.ErrAuth, http.StatusUnauthorized},
		{services.ErrInvalidToken, http.StatusUnauthorized},
		{services.ErrForbidden, http.StatusForbidden},
		{services.ErrUnsupportedRoom, http.StatusBadRequest},
		{services.ErrConflict, http.StatusConflict},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		if got := statusFor(tt.err); got != tt.want {
			t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
		}
	}
}

func TestPresence(t *testing.T) {
	p := NewPresence()
	if !p.RegisterConnection("a", 7, "Kim") {
		t.Fatal("first connection should bring the user online")
	}
	if p.RegisterConnection("b", 7, "Kim") {
		t.Fatal("second connection is not a transition")
	}
	if p.CountUserConnections(7) != 2 {
		t.Fatalf("connections = %d", p.CountUserConnections(7))
	}
	if p.UnregisterConnection("a") {
		t.Fatal("user still has a connection")
	}
	if !p.UnregisterConnection("b") {
		t.Fatal("last connection should take the user offline")
	}
	if p.UnregisterConnection("b") {
		t.Fatal("unknown connection is not a transition")
	}

	p.RegisterConnection("c", 8, "Lee")
	eight, nine := int64(8), int64(9)
	rows := []models.ConversationSummary{{CounterpartID: &eight}, {CounterpartID: &nine}, {}}
	p.FillStatus(rows)
	if rows[0].CounterpartStatus != StatusOnline || rows[1].CounterpartStatus != StatusOffline || rows[2].CounterpartStatus != StatusOffline {
		t.Fatalf("statuses = %q %q %q", rows[0].CounterpartStatus, rows[1].CounterpartStatus, rows[2].CounterpartStatus)
	}
}

func TestListState(t *testing.T) {
	t0 := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	last := models.Message{ID: 4, RoomID: 1, CreatedAt: t0.Add(5 * time.Second)}
	rows := []models.ConversationSummary{{RoomID: 1, LastMessage: &last}, {RoomID: 2}}

	summaries, index := listState(rows)
	if len(summaries) != 2 {
		t.Fatalf("summaries = %d", len(summaries))
	}
	if index.Apply(models.Message{ID: 3, RoomID: 1, CreatedAt: t0.Add(3 * time.Second)}) {
		t.Fatal("older message must not replace the latest")
	}
	if !index.Apply(models.Message{ID: 9, RoomID: 2, CreatedAt: t0}) {
		t.Fatal("first message of an empty room must apply")
	}
}
