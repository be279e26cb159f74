package model

import (
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/artpar/onmodelcreating/core/convention"
)

// ScopedBuilder is implemented by every EntityTypeBuilder.
// ScopedType must not dereference its receiver, so it can be called on a
// nil *EntityTypeBuilder[T] to learn T.
type ScopedBuilder interface {
	ScopedType() reflect.Type
}

// EntityType is a registered entity type and its mutable configuration.
type EntityType struct {
	typ     reflect.Type
	builder ScopedBuilder

	table      string
	key        []string
	properties []*property
	byField    map[string]*property
	indexes    []*index
	errs       []error
}

type property struct {
	field     string
	column    string
	goType    reflect.Type
	sqlType   string
	required  bool
	maxLength int
	def       string
	ignored   bool
}

type index struct {
	name   string
	fields []string
	unique bool
}

var timeType = reflect.TypeOf((*time.Time)(nil)).Elem()

func newEntityType(t reflect.Type) *EntityType {
	et := &EntityType{
		typ:     t,
		table:   convention.TableName(t.Name()),
		byField: make(map[string]*property),
	}

	et.collectFields(t)

	if _, ok := et.byField["ID"]; ok {
		et.key = []string{"ID"}
	}

	return et
}

// collectFields adds a property per exported field, flattening embedded structs.
func (et *EntityType) collectFields(t reflect.Type) {
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)

		tag := f.Tag.Get("db")
		if tag == "-" {
			continue
		}

		if f.Anonymous && f.Type.Kind() == reflect.Struct && f.Type != timeType {
			et.collectFields(f.Type)
			continue
		}

		if !f.IsExported() {
			continue
		}
		if _, dup := et.byField[f.Name]; dup {
			continue
		}

		column := tag
		if column == "" {
			column = convention.ColumnName(f.Name)
		}

		p := &property{
			field:   f.Name,
			column:  column,
			goType:  f.Type,
			sqlType: sqlTypeOf(f.Type),
		}
		et.properties = append(et.properties, p)
		et.byField[f.Name] = p
	}
}

// sqlTypeOf maps a Go field type to a SQLite column type.
func sqlTypeOf(t reflect.Type) string {
	if t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == timeType {
		return "TEXT"
	}

	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Bool:
		return "INTEGER"
	case reflect.Float32, reflect.Float64:
		return "REAL"
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return "BLOB"
		}
		return "TEXT" // Stored as JSON
	default:
		return "TEXT"
	}
}

// Type returns the Go type of the entity. It is the entity's identity.
func (et *EntityType) Type() reflect.Type {
	return et.typ
}

// Name returns the package-qualified type name, e.g. "catalog.Product".
func (et *EntityType) Name() string {
	return et.typ.String()
}

// Builder returns the *EntityTypeBuilder[T] for this entity type.
func (et *EntityType) Builder() ScopedBuilder {
	return et.builder
}

// Table returns the currently configured table name.
func (et *EntityType) Table() string {
	return et.table
}

func (et *EntityType) lookup(field string) (*property, bool) {
	p, ok := et.byField[field]
	if !ok {
		et.errs = append(et.errs, fmt.Errorf("entity type %s: %w %q", et.Name(), ErrUnknownProperty, field))
	}
	return p, ok
}

// EntityTypeBuilder configures the entity type T.
type EntityTypeBuilder[T any] struct {
	et *EntityType
}

// ScopedType returns the type the builder configures.
func (b *EntityTypeBuilder[T]) ScopedType() reflect.Type {
	return reflect.TypeOf((*T)(nil)).Elem()
}

// Metadata returns the entity type being configured.
func (b *EntityTypeBuilder[T]) Metadata() *EntityType {
	return b.et
}

// ToTable sets the table name.
func (b *EntityTypeBuilder[T]) ToTable(name string) *EntityTypeBuilder[T] {
	b.et.table = name
	return b
}

// HasKey sets the primary key to the given fields, replacing any previous key.
func (b *EntityTypeBuilder[T]) HasKey(fields ...string) *EntityTypeBuilder[T] {
	key := make([]string, 0, len(fields))
	for _, f := range fields {
		if _, ok := b.et.lookup(f); ok {
			key = append(key, f)
		}
	}
	b.et.key = key
	return b
}

// Ignore excludes a field from the model.
func (b *EntityTypeBuilder[T]) Ignore(field string) *EntityTypeBuilder[T] {
	if p, ok := b.et.lookup(field); ok {
		p.ignored = true
	}
	return b
}

// Property returns a builder for the named field.
// Configuring an unknown field is reported by Build.
func (b *EntityTypeBuilder[T]) Property(field string) *PropertyBuilder {
	p, ok := b.et.lookup(field)
	if !ok {
		// Detached so chained calls stay valid; the error is already recorded.
		p = &property{field: field}
	}
	return &PropertyBuilder{p: p}
}

// HasIndex adds an index over the given fields.
func (b *EntityTypeBuilder[T]) HasIndex(fields ...string) *IndexBuilder {
	idx := &index{}
	for _, f := range fields {
		if _, ok := b.et.lookup(f); ok {
			idx.fields = append(idx.fields, f)
		}
	}
	b.et.indexes = append(b.et.indexes, idx)
	return &IndexBuilder{idx: idx}
}

// PropertyBuilder configures one property.
type PropertyBuilder struct {
	p *property
}

// IsRequired marks the column NOT NULL.
func (pb *PropertyBuilder) IsRequired() *PropertyBuilder {
	pb.p.required = true
	return pb
}

// HasMaxLength adds a length CHECK constraint.
func (pb *PropertyBuilder) HasMaxLength(n int) *PropertyBuilder {
	pb.p.maxLength = n
	return pb
}

// HasColumnName overrides the column name.
func (pb *PropertyBuilder) HasColumnName(name string) *PropertyBuilder {
	pb.p.column = name
	return pb
}

// HasColumnType overrides the SQL column type.
func (pb *PropertyBuilder) HasColumnType(sqlType string) *PropertyBuilder {
	pb.p.sqlType = strings.ToUpper(sqlType)
	return pb
}

// HasDefaultSQL sets a raw SQL default expression, e.g. "CURRENT_TIMESTAMP".
func (pb *PropertyBuilder) HasDefaultSQL(expr string) *PropertyBuilder {
	pb.p.def = expr
	return pb
}

// IndexBuilder configures one index.
type IndexBuilder struct {
	idx *index
}

// IsUnique makes the index unique.
func (ib *IndexBuilder) IsUnique() *IndexBuilder {
	ib.idx.unique = true
	return ib
}

// HasName overrides the generated index name.
func (ib *IndexBuilder) HasName(name string) *IndexBuilder {
	ib.idx.name = name
	return ib
}
