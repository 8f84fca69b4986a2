package directory

import "errors"

var (
	ErrNotFound      = errors.New("record not found")
	ErrDuplicateID   = errors.New("employee id already taken")
	ErrDuplicateName = errors.New("designation name already exists")
	ErrInUse         = errors.New("designation is referenced by employees")
	ErrUnknownSlot   = errors.New("unknown document slot")
)
