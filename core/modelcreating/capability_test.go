package modelcreating

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/artpar/onmodelcreating/core/model"
)

func entityTypeOf[T any](t *testing.T) *model.EntityType {
	t.Helper()
	mb := model.NewBuilder()
	return model.Entity[T](mb).Metadata()
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		et       *model.EntityType
		kind     Kind
		receiver reflect.Type
		target   reflect.Type
	}{
		{
			name:     "value receiver",
			et:       entityTypeOf[foo](t),
			kind:     ValidCapability,
			receiver: reflect.TypeOf((*foo)(nil)).Elem(),
			target:   reflect.TypeOf((*foo)(nil)).Elem(),
		},
		{
			name:     "pointer receiver",
			et:       entityTypeOf[bar](t),
			kind:     ValidCapability,
			receiver: reflect.TypeOf((**bar)(nil)).Elem(),
			target:   reflect.TypeOf((*bar)(nil)).Elem(),
		},
		{
			name:     "bound to other type",
			et:       entityTypeOf[bad](t),
			kind:     InvalidCapability,
			receiver: reflect.TypeOf((*bad)(nil)).Elem(),
			target:   reflect.TypeOf((*other)(nil)).Elem(),
		},
		{
			name:     "bound to pointer of self",
			et:       entityTypeOf[alsoBad](t),
			kind:     InvalidCapability,
			receiver: reflect.TypeOf((**alsoBad)(nil)).Elem(),
			target:   reflect.TypeOf((**alsoBad)(nil)).Elem(),
		},
		{
			name: "no method",
			et:   entityTypeOf[plain](t),
			kind: NoCapability,
		},
		{
			name: "wrong shape",
			et:   entityTypeOf[wrongShape](t),
			kind: NoCapability,
		},
		{
			name: "wrong arity",
			et:   entityTypeOf[wrongArity](t),
			kind: NoCapability,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Classify(tt.et)

			if r.Kind != tt.kind {
				t.Fatalf("Kind = %v, want %v", r.Kind, tt.kind)
			}
			if r.Entity != tt.et {
				t.Error("Entity should be the classified entity type")
			}

			if tt.kind == NoCapability {
				if len(r.Declarations) != 0 {
					t.Errorf("Declarations = %v, want none", r.Declarations)
				}
				return
			}

			if len(r.Declarations) != 1 {
				t.Fatalf("len(Declarations) = %d, want 1", len(r.Declarations))
			}
			d := r.Declarations[0]
			if d.Receiver != tt.receiver {
				t.Errorf("Receiver = %v, want %v", d.Receiver, tt.receiver)
			}
			if d.Target != tt.target {
				t.Errorf("Target = %v, want %v", d.Target, tt.target)
			}

			if tt.kind == InvalidCapability {
				if len(r.Invalid) != 1 {
					t.Errorf("len(Invalid) = %d, want 1", len(r.Invalid))
				}
				if r.Err() == nil {
					t.Error("Err() should be set for an invalid result")
				}
			} else if r.Err() != nil {
				t.Errorf("Err() = %v, want nil", r.Err())
			}
		})
	}
}

func TestClassify_WrongShapeReason(t *testing.T) {
	r := Classify(entityTypeOf[wrongShape](t))
	if r.Reason == "" {
		t.Error("Reason should explain why OnModelCreating was ignored")
	}

	if r := Classify(entityTypeOf[plain](t)); r.Reason != "" {
		t.Errorf("Reason = %q, want empty for a type without the method", r.Reason)
	}
}

func TestTableClassify_Registration(t *testing.T) {
	table := NewTable()
	MustRegister[foo](table)

	r := table.Classify(entityTypeOf[foo](t))
	if r.Kind != ValidCapability {
		t.Fatalf("Kind = %v, want valid", r.Kind)
	}
	if len(r.Declarations) != 2 || !r.Declarations[1].Registered {
		t.Errorf("Declarations = %v, want discovered then registered", r.Declarations)
	}

	// Registration does not hide a misbound method on another type.
	if r := table.Classify(entityTypeOf[bad](t)); r.Kind != InvalidCapability {
		t.Errorf("bad Kind = %v, want invalid", r.Kind)
	}
}

func TestTableClassify_MisboundListedOnce(t *testing.T) {
	r := NewTable().Classify(entityTypeOf[bad](t))
	if r.Kind != InvalidCapability {
		t.Fatalf("Kind = %v, want invalid", r.Kind)
	}
	if len(r.Invalid) != 1 {
		t.Fatalf("len(Invalid) = %d, want 1", len(r.Invalid))
	}

	msg := r.Err().Error()
	decl := r.Invalid[0].String()
	if n := strings.Count(msg, decl); n != 1 {
		t.Errorf("error %q lists %s %d times, want once", msg, decl, n)
	}
}

func TestClassify_ForeignBuilderNotCalled(t *testing.T) {
	r := Classify(entityTypeOf[impostor](t))
	if r.Kind != NoCapability {
		t.Errorf("Kind = %v, want none", r.Kind)
	}
	if !strings.Contains(r.Reason, "not an entity type builder") {
		t.Errorf("Reason = %q, want builder reason", r.Reason)
	}
}

func TestRegister_Duplicate(t *testing.T) {
	table := NewTable()

	if err := Register[foo](table); err != nil {
		t.Fatalf("first Register() error = %v", err)
	}
	err := Register[foo](table)
	if !errors.Is(err, ErrDuplicateRegistration) {
		t.Errorf("second Register() error = %v, want ErrDuplicateRegistration", err)
	}
	if table.Len() != 1 {
		t.Errorf("Len() = %d, want 1", table.Len())
	}

	if err := RegisterPtr[bar](table); err != nil {
		t.Fatalf("RegisterPtr() error = %v", err)
	}
	if !table.Registered(reflect.TypeOf((*bar)(nil)).Elem()) {
		t.Error("bar should be registered")
	}
}

func TestMustRegister_PanicsOnDuplicate(t *testing.T) {
	table := NewTable()
	MustRegister[foo](table)

	defer func() {
		if recover() == nil {
			t.Error("MustRegister() should panic on duplicate")
		}
	}()
	MustRegister[foo](table)
}

func TestKindString(t *testing.T) {
	if NoCapability.String() != "none" || ValidCapability.String() != "valid" || InvalidCapability.String() != "invalid" {
		t.Error("unexpected Kind strings")
	}
	if Kind(9).String() != "Kind(9)" {
		t.Errorf("Kind(9).String() = %q", Kind(9).String())
	}
}

func TestDeclarationString(t *testing.T) {
	d := Declaration{Receiver: reflect.TypeOf((*bad)(nil)).Elem(), Target: reflect.TypeOf((*other)(nil)).Elem()}
	want := "(modelcreating.bad).OnModelCreating(*model.EntityTypeBuilder[modelcreating.other])"
	if d.String() != want {
		t.Errorf("String() = %q, want %q", d.String(), want)
	}

	reg := Declaration{Receiver: reflect.TypeOf((*foo)(nil)).Elem(), Target: reflect.TypeOf((*foo)(nil)).Elem(), Registered: true}
	if reg.String() != "registered modelcreating.ModelCreating[modelcreating.foo]" {
		t.Errorf("String() = %q", reg.String())
	}
}
