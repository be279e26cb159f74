package model

import "errors"

var (
	// ErrModelFinalized is returned when Build is called more than once.
	ErrModelFinalized = errors.New("model already finalized")

	// ErrUnknownProperty is returned when configuration names a field the entity type does not have.
	ErrUnknownProperty = errors.New("unknown property")
)
