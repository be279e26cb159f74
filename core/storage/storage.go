// Package storage turns a finalized model into SQLite schema.
// It creates tables and indexes; it does not migrate existing ones.
package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/artpar/onmodelcreating/core/model"
)

// Schema applies a model to a database.
type Schema interface {
	// EnsureSchema creates every table and index in the model that does not exist yet.
	EnsureSchema(ctx context.Context, m *model.Model) error

	// Close closes the storage connection.
	Close() error
}

// BuildCreateTableSQL generates CREATE TABLE SQL for an entity.
func BuildCreateTableSQL(e *model.EntityMapping) string {
	var columns []string
	var constraints []string

	// A single-column key is declared inline; composite keys need a table constraint.
	inlineKey := len(e.Key) == 1

	for _, c := range e.Columns {
		columns = append(columns, buildColumnDef(c, inlineKey))

		if c.MaxLength > 0 {
			constraints = append(constraints, fmt.Sprintf("CHECK(LENGTH(%s) <= %d)", c.Name, c.MaxLength))
		}
	}

	if len(e.Key) > 1 {
		constraints = append([]string{fmt.Sprintf("PRIMARY KEY(%s)", strings.Join(e.Key, ", "))}, constraints...)
	}

	sql := fmt.Sprintf(
		"CREATE TABLE IF NOT EXISTS %s (\n  %s",
		e.Table,
		strings.Join(columns, ",\n  "),
	)

	if len(constraints) > 0 {
		sql += ",\n  " + strings.Join(constraints, ",\n  ")
	}

	sql += "\n)"

	return sql
}

// buildColumnDef builds a column definition.
func buildColumnDef(c model.Column, inlineKey bool) string {
	parts := []string{c.Name, c.SQLType}

	if c.PrimaryKey && inlineKey {
		parts = append(parts, "PRIMARY KEY")
	}

	if c.Required {
		parts = append(parts, "NOT NULL")
	}

	if c.Default != "" {
		parts = append(parts, "DEFAULT "+formatDefault(c.Default))
	}

	return strings.Join(parts, " ")
}

// formatDefault wraps expressions that SQLite only accepts in parentheses.
func formatDefault(expr string) string {
	switch {
	case strings.HasPrefix(expr, "'"), strings.HasPrefix(expr, "("):
		return expr
	case isKeywordDefault(expr), isNumeric(expr):
		return expr
	default:
		return "(" + expr + ")"
	}
}

func isKeywordDefault(expr string) bool {
	switch strings.ToUpper(expr) {
	case "NULL", "TRUE", "FALSE", "CURRENT_TIMESTAMP", "CURRENT_DATE", "CURRENT_TIME":
		return true
	default:
		return false
	}
}

func isNumeric(expr string) bool {
	if expr == "" {
		return false
	}
	dot := false
	for i, r := range expr {
		switch {
		case r >= '0' && r <= '9':
		case r == '-' && i == 0 && len(expr) > 1:
		case r == '.' && !dot:
			dot = true
		default:
			return false
		}
	}
	return true
}

// BuildIndexSQL generates CREATE INDEX statements for an entity.
func BuildIndexSQL(e *model.EntityMapping) []string {
	indexes := make([]string, 0, len(e.Indexes))

	for _, idx := range e.Indexes {
		kind := "INDEX"
		if idx.Unique {
			kind = "UNIQUE INDEX"
		}
		indexes = append(indexes, fmt.Sprintf(
			"CREATE %s IF NOT EXISTS %s ON %s(%s)",
			kind, idx.Name, e.Table, strings.Join(idx.Columns, ", "),
		))
	}

	return indexes
}

// BuildSchemaSQL returns every statement needed to create the model, in entity order.
func BuildSchemaSQL(m *model.Model) []string {
	var stmts []string
	for _, e := range m.Entities() {
		stmts = append(stmts, BuildCreateTableSQL(e))
		stmts = append(stmts, BuildIndexSQL(e)...)
	}
	return stmts
}
