package modelcreating

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/artpar/onmodelcreating/core/model"
)

// MethodName is the method an entity type declares to configure itself.
const MethodName = "OnModelCreating"

const capabilityBase = "modelcreating.ModelCreating"

// ModelCreating is implemented by entity types that configure their own
// mapping. T must be the implementing type itself.
type ModelCreating[T any] interface {
	OnModelCreating(b *model.EntityTypeBuilder[T])
}

// CapabilityName renders the capability bound to t, e.g. "modelcreating.ModelCreating[catalog.Product]".
func CapabilityName(t reflect.Type) string {
	return fmt.Sprintf("%s[%s]", capabilityBase, t)
}

// Kind classifies an entity type.
type Kind int

const (
	// NoCapability means the type does not participate.
	NoCapability Kind = iota
	// ValidCapability means the type declares the capability for itself.
	ValidCapability
	// InvalidCapability means a declaration is bound to another type.
	InvalidCapability
)

func (k Kind) String() string {
	switch k {
	case NoCapability:
		return "none"
	case ValidCapability:
		return "valid"
	case InvalidCapability:
		return "invalid"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Declaration is one way an entity type declares the capability.
type Declaration struct {
	// Receiver is the type the method is declared on (E or *E).
	Receiver reflect.Type

	// Target is the type the builder parameter is scoped to.
	Target reflect.Type

	// Registered is true for a Table registration rather than a discovered method.
	Registered bool
}

func (d Declaration) String() string {
	if d.Registered {
		return fmt.Sprintf("registered %s", CapabilityName(d.Target))
	}
	return fmt.Sprintf("(%s).%s(*model.EntityTypeBuilder[%s])", d.Receiver, MethodName, d.Target)
}

// Result is the classification of one entity type.
type Result struct {
	Kind   Kind
	Entity *model.EntityType

	// Declarations are all matched declarations.
	Declarations []Declaration

	// Invalid are the declarations whose Target differs from the entity type.
	Invalid []Declaration

	// Reason explains a NoCapability result when a method named
	// OnModelCreating exists but has the wrong shape.
	Reason string
}

// Err returns the misbound error for an InvalidCapability result, else nil.
func (r Result) Err() *MisboundCapabilityError {
	if r.Kind != InvalidCapability {
		return nil
	}
	return &MisboundCapabilityError{Entity: r.Entity.Type(), Invalid: r.Invalid}
}

var (
	scopedBuilderType = reflect.TypeOf((*model.ScopedBuilder)(nil)).Elem()
	builderPkgPath    = scopedBuilderType.PkgPath()
)

// Classify inspects the method set of an entity type.
// It has no side effects.
func Classify(et *model.EntityType) Result {
	return settle(collect(et))
}

// collect gathers the discovered declarations of et without deriving Kind.
func collect(et *model.EntityType) Result {
	r := Result{Entity: et}

	decl, reason, ok := discover(et.Type())
	if ok {
		r.Declarations = append(r.Declarations, decl)
	}
	r.Reason = reason

	return r
}

// discover finds an OnModelCreating method on t or *t and extracts the type
// its builder parameter is scoped to.
func discover(t reflect.Type) (Declaration, string, bool) {
	ptr := reflect.PointerTo(t)

	m, ok := ptr.MethodByName(MethodName)
	if !ok {
		return Declaration{}, "", false
	}

	// Value receiver methods are in both method sets; report them once, on t.
	receiver := ptr
	if _, onValue := t.MethodByName(MethodName); onValue {
		receiver = t
	}

	// m.Type includes the receiver as the first parameter.
	mt := m.Type
	if mt.NumIn() != 2 || mt.NumOut() != 0 || mt.IsVariadic() {
		return Declaration{}, fmt.Sprintf("%s has signature %s", MethodName, mt), false
	}

	param := mt.In(1)
	if !isEntityTypeBuilder(param) {
		return Declaration{}, fmt.Sprintf("%s parameter %s is not an entity type builder", MethodName, param), false
	}

	target := reflect.Zero(param).Interface().(model.ScopedBuilder).ScopedType()

	return Declaration{Receiver: receiver, Target: target}, "", true
}

// isEntityTypeBuilder reports whether t is *model.EntityTypeBuilder[X] for
// some X. Only those are safe to ask for ScopedType on a nil receiver.
func isEntityTypeBuilder(t reflect.Type) bool {
	if t.Kind() != reflect.Pointer || !t.Implements(scopedBuilderType) {
		return false
	}
	elem := t.Elem()
	return elem.PkgPath() == builderPkgPath && strings.HasPrefix(elem.Name(), "EntityTypeBuilder[")
}

// settle derives Kind from the collected declarations.
func settle(r Result) Result {
	self := r.Entity.Type()

	r.Invalid = nil
	for _, d := range r.Declarations {
		if d.Target != self {
			r.Invalid = append(r.Invalid, d)
		}
	}

	switch {
	case len(r.Declarations) == 0:
		r.Kind = NoCapability
	case len(r.Invalid) > 0:
		r.Kind = InvalidCapability
	default:
		// More than one self-bound declaration (registered and discovered)
		// is a re-confirmation of the same capability.
		r.Kind = ValidCapability
		r.Reason = ""
	}

	return r
}
