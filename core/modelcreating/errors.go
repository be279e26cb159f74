package modelcreating

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// ErrDuplicateRegistration is returned when a type is registered twice in a Table.
var ErrDuplicateRegistration = errors.New("model creating callback already registered")

// MisboundCapabilityError reports an entity type whose OnModelCreating takes
// a builder scoped to a different type.
type MisboundCapabilityError struct {
	// Entity is the declaring entity type.
	Entity reflect.Type

	// Invalid lists the offending declarations.
	Invalid []Declaration
}

func (e *MisboundCapabilityError) Error() string {
	decls := make([]string, len(e.Invalid))
	for i, d := range e.Invalid {
		decls[i] = d.String()
	}
	return fmt.Sprintf("entity type %s must only implement %s: declares %s",
		e.Entity, CapabilityName(e.Entity), strings.Join(decls, ", "))
}

// InvalidModelCreatingError aggregates every misbound entity type found in a pass.
type InvalidModelCreatingError struct {
	Entities []*MisboundCapabilityError
}

func (e *InvalidModelCreatingError) Error() string {
	if len(e.Entities) == 1 {
		return e.Entities[0].Error()
	}

	msgs := make([]string, len(e.Entities))
	for i, m := range e.Entities {
		msgs[i] = m.Error()
	}
	return fmt.Sprintf("%d entity types implement %s incorrectly:\n  - %s",
		len(e.Entities), capabilityBase, strings.Join(msgs, "\n  - "))
}

// Unwrap exposes each entity error to errors.As.
func (e *InvalidModelCreatingError) Unwrap() []error {
	errs := make([]error, len(e.Entities))
	for i, m := range e.Entities {
		errs[i] = m
	}
	return errs
}

// CallbackError reports a panic raised by an entity type's OnModelCreating.
type CallbackError struct {
	Entity reflect.Type
	Value  any
}

func (e *CallbackError) Error() string {
	return fmt.Sprintf("%s for entity type %s panicked: %v", MethodName, e.Entity, e.Value)
}

// Unwrap returns the panic value when it is an error.
func (e *CallbackError) Unwrap() error {
	err, _ := e.Value.(error)
	return err
}
