package ecs

import "github.com/rotisserie/eris"

var (
	ErrNegativeCount         = eris.New("negative entity count")
	ErrCapacityOverflow      = eris.New("archetype capacity overflow")
	ErrLengthBackwards       = eris.New("archetype length cannot move backwards")
	ErrLengthExceedsCapacity = eris.New("archetype length exceeds capacity")
	ErrUnwrittenSlots        = eris.New("column slots committed without being written")
)
