package game

import "errors"

var (
	// ErrRoomNotFound means the operation referenced an unknown room code.
	ErrRoomNotFound = errors.New("room not found")

	// ErrNameTaken means the requested name was already reserved in the room,
	// compared case-insensitively, possibly by a player who has since left.
	ErrNameTaken = errors.New("name already taken in this room")

	// ErrContentNotFound means room creation referenced a missing or empty
	// question set.
	ErrContentNotFound = errors.New("question set not found")

	// ErrCodeExhausted means code generation kept colliding with live rooms.
	ErrCodeExhausted = errors.New("could not generate a unique room code")
)
