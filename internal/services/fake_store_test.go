package services

import (
	"context"
	"sort"
	"sync"

	"carelink-backend/internal/models"
)

type fakeStore struct {
	mu sync.Mutex

	roomsMissing bool
	nextID       int64

	rooms    map[int64]*models.Room
	messages []models.Message
	users    map[int64]*models.User
	requests map[int64]*models.HelpRequest
	helpers  map[int64]*models.HelperProfile

	upserts int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		rooms:    make(map[int64]*models.Room),
		users:    make(map[int64]*models.User),
		requests: make(map[int64]*models.HelpRequest),
		helpers:  make(map[int64]*models.HelperProfile),
	}
}

func (f *fakeStore) id() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) FindRoomByKey(_ context.Context, key string) (*models.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.roomsMissing {
		return nil, ErrNotConfigured
	}
	for _, r := range f.rooms {
		if r.RoomKey == key {
			cp := *r
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

func (f *fakeStore) UpsertRoom(_ context.Context, room models.Room) (*models.Room, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.roomsMissing {
		return nil, false, ErrNotConfigured
	}
	f.upserts++
	for _, r := range f.rooms {
		if r.RoomKey == room.RoomKey {
			cp := *r
			return &cp, false, nil
		}
	}
	room.ID = f.id()
	f.rooms[room.ID] = &room
	cp := room
	return &cp, true, nil
}

func (f *fakeStore) GetRoom(_ context.Context, id int64) (*models.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.rooms[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeStore) RoomsForUser(_ context.Context, userID int64) ([]models.Room, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Room
	for _, r := range f.rooms {
		for _, p := range r.Participants {
			if p == userID {
				out = append(out, *r)
				break
			}
		}
	}
	return out, nil
}

func (f *fakeStore) InsertMessage(_ context.Context, msg *models.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	msg.ID = f.id()
	f.messages = append(f.messages, *msg)
	return nil
}

func (f *fakeStore) MessagesByRoom(_ context.Context, roomID int64) ([]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.Message
	for _, m := range f.messages {
		if m.RoomID == roomID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[j].Newer(out[i]) })
	return out, nil
}

func (f *fakeStore) LatestMessages(_ context.Context, roomIDs []int64) (map[int64]models.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	want := make(map[int64]bool)
	for _, id := range roomIDs {
		want[id] = true
	}
	var msgs []models.Message
	for _, m := range f.messages {
		if want[m.RoomID] {
			msgs = append(msgs, m)
		}
	}
	return LatestPerRoom(msgs), nil
}

func (f *fakeStore) UpsertUserByIdentity(_ context.Context, identity models.Identity) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Provider == identity.Provider && u.ExternalID == identity.ExternalID {
			u.Name, u.Email, u.AvatarURL = identity.Name, identity.Email, identity.AvatarURL
			cp := *u
			return &cp, nil
		}
	}
	u := &models.User{
		ID:         f.id(),
		Provider:   identity.Provider,
		ExternalID: identity.ExternalID,
		Name:       identity.Name,
		Email:      identity.Email,
		AvatarURL:  identity.AvatarURL,
	}
	f.users[u.ID] = u
	cp := *u
	return &cp, nil
}

func (f *fakeStore) addUser(name string) *models.User {
	f.mu.Lock()
	defer f.mu.Unlock()
	u := &models.User{ID: f.id(), Name: name}
	f.users[u.ID] = u
	return u
}

func (f *fakeStore) GetUser(_ context.Context, id int64) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeStore) UsersByIDs(_ context.Context, ids []int64) (map[int64]models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(map[int64]models.User)
	for _, id := range ids {
		if u, ok := f.users[id]; ok {
			out[id] = *u
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateRole(_ context.Context, id int64, role string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return ErrNotFound
	}
	u.Role = &role
	return nil
}

func (f *fakeStore) SetRefreshTokenHash(_ context.Context, id int64, hash *string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return ErrNotFound
	}
	u.RefreshTokenHash = hash
	return nil
}

func (f *fakeStore) CreateHelpRequest(_ context.Context, req *models.HelpRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	req.ID = f.id()
	cp := *req
	f.requests[req.ID] = &cp
	return nil
}

func (f *fakeStore) GetHelpRequest(_ context.Context, id int64) (*models.HelpRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	r, ok := f.requests[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (f *fakeStore) LatestHelpRequestByUser(_ context.Context, userID int64) (*models.HelpRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var best *models.HelpRequest
	for _, r := range f.requests {
		if r.UserID == userID && (best == nil || r.CreatedAt.After(best.CreatedAt) ||
			(r.CreatedAt.Equal(best.CreatedAt) && r.ID > best.ID)) {
			best = r
		}
	}
	if best == nil {
		return nil, ErrNotFound
	}
	cp := *best
	return &cp, nil
}

func (f *fakeStore) ListHelpRequests(_ context.Context, status string) ([]models.HelpRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.HelpRequest
	for _, r := range f.requests {
		if status == "" || r.Status == status {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeStore) UpdateHelpRequest(_ context.Context, req *models.HelpRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.requests[req.ID]; !ok {
		return ErrNotFound
	}
	cp := *req
	f.requests[req.ID] = &cp
	return nil
}

func (f *fakeStore) DeleteHelpRequest(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.requests, id)
	return nil
}

func (f *fakeStore) CreateHelperProfile(_ context.Context, p *models.HelperProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = f.id()
	cp := *p
	f.helpers[p.ID] = &cp
	return nil
}

func (f *fakeStore) GetHelperProfile(_ context.Context, id int64) (*models.HelperProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.helpers[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (f *fakeStore) LatestHelperProfileByUser(_ context.Context, userID int64) (*models.HelperProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var best *models.HelperProfile
	for _, p := range f.helpers {
		if p.UserID == userID && (best == nil || p.ID > best.ID) {
			best = p
		}
	}
	if best == nil {
		return nil, ErrNotFound
	}
	cp := *best
	return &cp, nil
}

func (f *fakeStore) ListHelperProfiles(_ context.Context, status string, withLocation bool) ([]models.HelperProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []models.HelperProfile
	for _, p := range f.helpers {
		if status != "" && p.Status != status {
			continue
		}
		if withLocation && (p.Lat == nil || p.Lng == nil) {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakeStore) UpdateHelperProfile(_ context.Context, p *models.HelperProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.helpers[p.ID]; !ok {
		return ErrNotFound
	}
	cp := *p
	f.helpers[p.ID] = &cp
	return nil
}

func (f *fakeStore) DeleteHelperProfile(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.helpers, id)
	return nil
}
