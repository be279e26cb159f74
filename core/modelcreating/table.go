package modelcreating

import (
	"fmt"
	"reflect"
	"sync"

	"github.com/artpar/onmodelcreating/core/model"
)

// thunk invokes one entity type's OnModelCreating with its builder.
type thunk func(b model.ScopedBuilder)

// Table maps entity types to their bound callbacks.
type Table struct {
	mu sync.RWMutex

	// registered entries, bound at compile time
	registered map[reflect.Type]thunk

	// entries bound through reflection for discovered methods
	bound map[reflect.Type]thunk
}

// Default is the table used by Dispatch and Install unless WithTable is given.
var Default = NewTable()

// NewTable creates an empty table.
func NewTable() *Table {
	return &Table{
		registered: make(map[reflect.Type]thunk),
		bound:      make(map[reflect.Type]thunk),
	}
}

// Register adds T's value-receiver OnModelCreating to the table.
func Register[T ModelCreating[T]](t *Table) error {
	return t.add(reflect.TypeOf((*T)(nil)).Elem(), func(b model.ScopedBuilder) {
		var entity T
		entity.OnModelCreating(b.(*model.EntityTypeBuilder[T]))
	})
}

// RegisterPtr adds T's pointer-receiver OnModelCreating to the table.
// Call it as RegisterPtr[T](t); PT is inferred.
func RegisterPtr[T any, PT interface {
	*T
	ModelCreating[T]
}](t *Table) error {
	return t.add(reflect.TypeOf((*T)(nil)).Elem(), func(b model.ScopedBuilder) {
		PT(new(T)).OnModelCreating(b.(*model.EntityTypeBuilder[T]))
	})
}

// MustRegister is like Register but panics on error.
func MustRegister[T ModelCreating[T]](t *Table) {
	if err := Register[T](t); err != nil {
		panic(err)
	}
}

// MustRegisterPtr is like RegisterPtr but panics on error.
func MustRegisterPtr[T any, PT interface {
	*T
	ModelCreating[T]
}](t *Table) {
	if err := RegisterPtr[T, PT](t); err != nil {
		panic(err)
	}
}

func (t *Table) add(typ reflect.Type, fn thunk) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.registered[typ]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateRegistration, typ)
	}
	t.registered[typ] = fn
	return nil
}

// Registered reports whether typ has a compile-time bound callback.
func (t *Table) Registered(typ reflect.Type) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	_, ok := t.registered[typ]
	return ok
}

// Len returns the number of registered types.
func (t *Table) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.registered)
}

// Classify is like the package-level Classify but also counts a
// registration in the table as a declaration.
func (t *Table) Classify(et *model.EntityType) Result {
	r := collect(et)

	if t.Registered(et.Type()) {
		r.Declarations = append(r.Declarations, Declaration{
			Receiver:   et.Type(),
			Target:     et.Type(),
			Registered: true,
		})
	}

	return settle(r)
}

// thunkFor returns the callback for a ValidCapability result, binding and
// caching one through reflection when the type was not registered.
func (t *Table) thunkFor(r Result) thunk {
	typ := r.Entity.Type()

	t.mu.RLock()
	fn, ok := t.registered[typ]
	if !ok {
		fn, ok = t.bound[typ]
	}
	t.mu.RUnlock()
	if ok {
		return fn
	}

	var decl Declaration
	for _, d := range r.Declarations {
		if !d.Registered {
			decl = d
			break
		}
	}

	fn = bindMethod(typ, decl.Receiver)

	t.mu.Lock()
	t.bound[typ] = fn
	t.mu.Unlock()

	return fn
}

// bindMethod builds a thunk that calls OnModelCreating on a zero value of typ.
func bindMethod(typ, receiver reflect.Type) thunk {
	return func(b model.ScopedBuilder) {
		recv := reflect.New(typ)
		if receiver == typ {
			recv = recv.Elem()
		}
		recv.MethodByName(MethodName).Call([]reflect.Value{reflect.ValueOf(b)})
	}
}
