package model

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// Model is the finalized, read-only persistence model.
type Model struct {
	entities []*EntityMapping
	byType   map[reflect.Type]*EntityMapping
}

// EntityMapping is a finalized entity type.
type EntityMapping struct {
	// Type is the Go type of the entity.
	Type reflect.Type

	// Name is the package-qualified type name.
	Name string

	// Table is the table name.
	Table string

	// Columns in struct field order, ignored fields excluded.
	Columns []Column

	// Key lists the primary key column names.
	Key []string

	// Indexes declared on the entity.
	Indexes []Index
}

// Column is a finalized property.
type Column struct {
	// Field is the Go struct field name.
	Field string

	// Name is the column name.
	Name string

	// SQLType is the SQLite column type.
	SQLType string

	// Required indicates a NOT NULL column.
	Required bool

	// PrimaryKey indicates the column is part of the key.
	PrimaryKey bool

	// MaxLength is the maximum length (0 = unlimited).
	MaxLength int

	// Default is a raw SQL default expression.
	Default string
}

// Index is a finalized index.
type Index struct {
	Name    string
	Columns []string
	Unique  bool
}

// Entities returns the entities in registration order.
func (m *Model) Entities() []*EntityMapping {
	out := make([]*EntityMapping, len(m.entities))
	copy(out, m.entities)
	return out
}

// Entity returns the entity for the given Go type.
func (m *Model) Entity(t reflect.Type) (*EntityMapping, bool) {
	e, ok := m.byType[t]
	return e, ok
}

// Column returns the column mapped from the given struct field.
func (e *EntityMapping) Column(field string) (Column, bool) {
	for _, c := range e.Columns {
		if c.Field == field {
			return c, true
		}
	}
	return Column{}, false
}

// finalize validates the configured entity types and freezes them.
// All validation errors are reported together.
func finalize(types []*EntityType) (*Model, error) {
	m := &Model{
		entities: make([]*EntityMapping, 0, len(types)),
		byType:   make(map[reflect.Type]*EntityMapping, len(types)),
	}

	var errs []error
	tables := make(map[string]string, len(types))

	for _, et := range types {
		errs = append(errs, et.errs...)

		if existing, ok := tables[et.table]; ok {
			errs = append(errs, fmt.Errorf("table %q already claimed by entity type %s", et.table, existing))
		} else {
			tables[et.table] = et.Name()
		}

		e, err := freeze(et)
		if err != nil {
			errs = append(errs, err)
			continue
		}

		m.entities = append(m.entities, e)
		m.byType[e.Type] = e
	}

	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	return m, nil
}

func freeze(et *EntityType) (*EntityMapping, error) {
	e := &EntityMapping{
		Type:  et.typ,
		Name:  et.Name(),
		Table: et.table,
	}

	inKey := make(map[string]bool, len(et.key))
	for _, f := range et.key {
		if et.byField[f].ignored {
			return nil, fmt.Errorf("entity type %s: key property %q is ignored", et.Name(), f)
		}
		inKey[f] = true
	}

	for _, p := range et.properties {
		if p.ignored {
			continue
		}
		e.Columns = append(e.Columns, Column{
			Field:      p.field,
			Name:       p.column,
			SQLType:    p.sqlType,
			Required:   p.required || inKey[p.field],
			PrimaryKey: inKey[p.field],
			MaxLength:  p.maxLength,
			Default:    p.def,
		})
	}

	for _, f := range et.key {
		e.Key = append(e.Key, et.byField[f].column)
	}

	for _, idx := range et.indexes {
		if len(idx.fields) == 0 {
			continue
		}

		cols := make([]string, 0, len(idx.fields))
		for _, f := range idx.fields {
			p := et.byField[f]
			if p.ignored {
				return nil, fmt.Errorf("entity type %s: index property %q is ignored", et.Name(), f)
			}
			cols = append(cols, p.column)
		}

		name := idx.name
		if name == "" {
			name = fmt.Sprintf("idx_%s_%s", et.table, strings.Join(cols, "_"))
		}

		e.Indexes = append(e.Indexes, Index{Name: name, Columns: cols, Unique: idx.unique})
	}

	return e, nil
}
