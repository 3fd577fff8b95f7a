package chat

import "errors"

var (
	// ErrRoomNotFound is returned when a room id does not resolve in the cache.
	ErrRoomNotFound = errors.New("room not found")

	// ErrRoomFull is returned when a room is at capacity and no
	// same-name alternative has space.
	ErrRoomFull = errors.New("room is full and no alternatives available")
)
