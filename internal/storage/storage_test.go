package storage

import (
	"context"
	"errors"
	"testing"
	"time"

	"carelink-backend/internal/models"
	"carelink-backend/internal/realtime"
	"carelink-backend/internal/services"
)

var t0 = time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)

func newTestStorage(t *testing.T) *Storage {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func mustRoom(t *testing.T, s *Storage, a, b int64) *models.Room {
	t.Helper()
	room, _, err := s.UpsertRoom(context.Background(), models.Room{
		Type:         models.RoomTypeDirect,
		RoomKey:      services.RoomKey(a, b),
		Participants: []int64{min(a, b), max(a, b)},
		CreatedAt:    t0,
	})
	if err != nil {
		t.Fatal(err)
	}
	return room
}

func TestResolveDirectRoomOnSQLite(t *testing.T) {
	ctx := context.Background()
	chat := services.NewChatService(newTestStorage(t))

	first, err := chat.ResolveDirectRoom(ctx, 10, 20)
	if err != nil {
		t.Fatal(err)
	}
	if !first.IsNew || first.RoomKey != "10:20" {
		t.Fatalf("first = %+v", first)
	}
	second, err := chat.ResolveDirectRoom(ctx, 20, 10)
	if err != nil {
		t.Fatal(err)
	}
	if second.IsNew || second.RoomID != first.RoomID {
		t.Fatalf("second = %+v, want existing room %d", second, first.RoomID)
	}
}

func TestUpsertRoomConflictReturnsExisting(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	first := mustRoom(t, s, 20, 10)

	again, created, err := s.UpsertRoom(ctx, models.Room{
		Type:         models.RoomTypeDirect,
		RoomKey:      "10:20",
		Participants: []int64{10, 20},
		CreatedAt:    t0.Add(time.Hour),
	})
	if err != nil {
		t.Fatal(err)
	}
	if created {
		t.Fatal("second upsert must not create")
	}
	if again.ID != first.ID || len(again.Participants) != 2 || again.Participants[0] != 10 || again.Participants[1] != 20 {
		t.Fatalf("again = %+v, want room %d with [10 20]", again, first.ID)
	}

	rooms, err := s.RoomsForUser(ctx, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(rooms) != 1 {
		t.Fatalf("rooms = %d, want 1", len(rooms))
	}
	if _, err := s.FindRoomByKey(ctx, "1:2"); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("unknown key: err = %v, want ErrNotFound", err)
	}
}

func TestMessagesOrderAndLatest(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	roomA := mustRoom(t, s, 1, 2)
	roomB := mustRoom(t, s, 1, 3)
	roomC := mustRoom(t, s, 1, 4)

	insert := func(room *models.Room, sender int64, text string, at time.Time) models.Message {
		m := models.Message{RoomID: room.ID, SenderID: sender, Content: text, CreatedAt: at}
		if err := s.InsertMessage(ctx, &m); err != nil {
			t.Fatal(err)
		}
		return m
	}
	insert(roomA, 1, "second", t0.Add(2*time.Second))
	insert(roomA, 2, "first", t0.Add(time.Second))
	tieLow := insert(roomB, 1, "tie low", t0.Add(3*time.Second))
	tieHigh := insert(roomB, 3, "tie high", t0.Add(3*time.Second))

	msgs, err := s.MessagesByRoom(ctx, roomA.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(msgs) != 2 || msgs[0].Content != "first" || msgs[1].Content != "second" {
		t.Fatalf("history = %+v, want first then second", msgs)
	}

	latest, err := s.LatestMessages(ctx, []int64{roomA.ID, roomB.ID, roomC.ID})
	if err != nil {
		t.Fatal(err)
	}
	if latest[roomA.ID].Content != "second" {
		t.Fatalf("room A latest = %+v", latest[roomA.ID])
	}
	if tieHigh.ID < tieLow.ID || latest[roomB.ID].ID != tieHigh.ID {
		t.Fatalf("room B latest = %+v, want id %d", latest[roomB.ID], tieHigh.ID)
	}
	if _, ok := latest[roomC.ID]; ok {
		t.Fatal("room without messages must be absent")
	}
}

func TestConversationListOnSQLite(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	chat := services.NewChatService(s)
	conv := services.NewConversationService(s, chat)

	me, err := s.UpsertUserByIdentity(ctx, models.Identity{Provider: models.ProviderKakao, ExternalID: "me", Name: "Me"})
	if err != nil {
		t.Fatal(err)
	}
	var others []*models.User
	for _, ext := range []string{"a", "b", "c"} {
		u, err := s.UpsertUserByIdentity(ctx, models.Identity{Provider: models.ProviderKakao, ExternalID: ext, Name: "user " + ext})
		if err != nil {
			t.Fatal(err)
		}
		others = append(others, u)
	}

	var rooms []int64
	for _, o := range others {
		r, err := chat.ResolveDirectRoom(ctx, me.ID, o.ID)
		if err != nil {
			t.Fatal(err)
		}
		rooms = append(rooms, r.RoomID)
	}
	for i, at := range map[int]time.Time{0: t0.Add(5 * time.Second), 1: t0.Add(2 * time.Second)} {
		m := models.Message{RoomID: rooms[i], SenderID: me.ID, Content: "hi", CreatedAt: at}
		if err := s.InsertMessage(ctx, &m); err != nil {
			t.Fatal(err)
		}
	}

	list, err := conv.List(ctx, me.ID)
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 3 {
		t.Fatalf("list = %d rows, want 3", len(list))
	}
	want := []int64{rooms[0], rooms[1], rooms[2]}
	for i, row := range list {
		if row.RoomID != want[i] {
			t.Fatalf("row %d room = %d, want %d", i, row.RoomID, want[i])
		}
	}
	if list[0].Counterpart == nil || list[0].Counterpart.Name != "user a" {
		t.Fatalf("counterpart = %+v", list[0].Counterpart)
	}
	if list[2].LastMessage != nil {
		t.Fatal("room without messages should have no last message")
	}
}

func TestOnMessagePublishesCommittedInserts(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	hub := realtime.NewHub()
	if err := s.OnMessage(hub); err != nil {
		t.Fatal(err)
	}
	room := mustRoom(t, s, 1, 2)
	sub := hub.Subscribe(realtime.Room(room.ID))
	defer sub.Close()

	m := models.Message{RoomID: room.ID, SenderID: 1, Content: "hello", CreatedAt: t0}
	if err := s.InsertMessage(ctx, &m); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-sub.C():
		if got.ID != m.ID || got.Content != "hello" {
			t.Fatalf("published %+v, want %+v", got, m)
		}
	case <-time.After(time.Second):
		t.Fatal("insert was not published")
	}
}

func TestMissingTableIsNotConfigured(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	if err := s.db.Migrator().DropTable(&messageRow{}); err != nil {
		t.Fatal(err)
	}
	_, err := s.LatestMessages(ctx, []int64{1})
	if !errors.Is(err, services.ErrNotConfigured) {
		t.Fatalf("err = %v, want ErrNotConfigured", err)
	}
}

func TestUserUpsertKeepsEmail(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	email := "kim@example.com"

	first, err := s.UpsertUserByIdentity(ctx, models.Identity{Provider: "kakao", ExternalID: "42", Name: "Kim", Email: &email})
	if err != nil {
		t.Fatal(err)
	}
	second, err := s.UpsertUserByIdentity(ctx, models.Identity{Provider: "kakao", ExternalID: "42", Name: "Kim Minsu"})
	if err != nil {
		t.Fatal(err)
	}
	if second.ID != first.ID || second.Name != "Kim Minsu" {
		t.Fatalf("second = %+v", second)
	}
	if second.Email == nil || *second.Email != email {
		t.Fatalf("email lost: %v", second.Email)
	}

	if err := s.UpdateRole(ctx, first.ID, models.RoleHelper); err != nil {
		t.Fatal(err)
	}
	u, err := s.GetUser(ctx, first.ID)
	if err != nil {
		t.Fatal(err)
	}
	if u.Role == nil || *u.Role != models.RoleHelper {
		t.Fatalf("role = %v", u.Role)
	}
	if err := s.UpdateRole(ctx, 999, models.RoleHelper); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("unknown user: err = %v", err)
	}
}

func TestHelperProfilesOnMap(t *testing.T) {
	ctx := context.Background()
	s := newTestStorage(t)
	avatar := "https://img.example.com/a.png"
	owner, err := s.UpsertUserByIdentity(ctx, models.Identity{Provider: "kakao", ExternalID: "h", Name: "Helper", AvatarURL: &avatar})
	if err != nil {
		t.Fatal(err)
	}
	lat, lng := 37.56, 126.97

	located := &models.HelperProfile{UserID: owner.ID, Name: "Lee", Age: 45, Categories: []string{"clean"},
		Introduction: "hi", Status: models.StatusPublished, Lat: &lat, Lng: &lng, CreatedAt: t0, UpdatedAt: t0}
	unlocated := &models.HelperProfile{UserID: owner.ID, Name: "Lee", Age: 45, Categories: []string{"errands"},
		Introduction: "hi", Status: models.StatusPending, CreatedAt: t0.Add(time.Second), UpdatedAt: t0}
	for _, p := range []*models.HelperProfile{located, unlocated} {
		if err := s.CreateHelperProfile(ctx, p); err != nil {
			t.Fatal(err)
		}
	}

	onMap, err := s.ListHelperProfiles(ctx, "", true)
	if err != nil {
		t.Fatal(err)
	}
	if len(onMap) != 1 || onMap[0].ID != located.ID {
		t.Fatalf("map = %+v, want only %d", onMap, located.ID)
	}
	if onMap[0].AvatarURL == nil || *onMap[0].AvatarURL != avatar {
		t.Fatalf("avatar = %v", onMap[0].AvatarURL)
	}
	if len(onMap[0].Categories) != 1 || onMap[0].Categories[0] != "clean" {
		t.Fatalf("categories = %v", onMap[0].Categories)
	}

	latest, err := s.LatestHelperProfileByUser(ctx, owner.ID)
	if err != nil {
		t.Fatal(err)
	}
	if latest.ID != unlocated.ID {
		t.Fatalf("latest = %d, want %d", latest.ID, unlocated.ID)
	}

	unlocated.Status = models.StatusPublished
	unlocated.Introduction = "updated"
	if err := s.UpdateHelperProfile(ctx, unlocated); err != nil {
		t.Fatal(err)
	}
	published, err := s.ListHelperProfiles(ctx, models.StatusPublished, false)
	if err != nil {
		t.Fatal(err)
	}
	if len(published) != 2 {
		t.Fatalf("published = %d, want 2", len(published))
	}

	if err := s.DeleteHelperProfile(ctx, located.ID); err != nil {
		t.Fatal(err)
	}
	if err := s.DeleteHelperProfile(ctx, located.ID); !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("second delete: err = %v", err)
	}
}
