package services

import (
	"strconv"
	"strings"
)

// RoomKey returns the canonical key for the unordered pair {u1, u2}: "min:max".
func RoomKey(u1, u2 int64) string {
	a, b := min(u1, u2), max(u1, u2)
	return strconv.FormatInt(a, 10) + ":" + strconv.FormatInt(b, 10)
}

// ParseRoomKey splits a key produced by RoomKey.
func ParseRoomKey(key string) (a, b int64, ok bool) {
	left, right, found := strings.Cut(key, ":")
	if !found {
		return 0, 0, false
	}
	a, errA := strconv.ParseInt(left, 10, 64)
	b, errB := strconv.ParseInt(right, 10, 64)
	if errA != nil || errB != nil {
		return 0, 0, false
	}
	return a, b, true
}

// Counterpart returns the participant of room that is not self.
// The room key is preferred, then the participants list. ok is false when neither
// names anyone else; ErrUnsupportedRoom is returned for rooms with more than two people.
func Counterpart(roomKey string, participants []int64, self int64) (int64, bool, error) {
	if len(participants) > 2 {
		return 0, false, ErrUnsupportedRoom
	}
	if a, b, ok := ParseRoomKey(roomKey); ok {
		if a == self && b != self {
			return b, true, nil
		}
		if b == self && a != self {
			return a, true, nil
		}
	}
	for _, id := range participants {
		if id != self {
			return id, true, nil
		}
	}
	return 0, false, nil
}
