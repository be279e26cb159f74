package storage

import (
	"strings"
	"testing"

	"github.com/artpar/onmodelcreating/core/model"
)

type product struct {
	ID    string
	Name  string
	SKU   string
	Price float64
	Stock int
}

type orderLine struct {
	OrderID  string
	LineNo   int
	Quantity int
}

func buildModel(t *testing.T, configure func(*model.Builder)) *model.Model {
	t.Helper()

	mb := model.NewBuilder()
	configure(mb)

	m, err := mb.Build()
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	return m
}

func TestBuildCreateTableSQL(t *testing.T) {
	m := buildModel(t, func(mb *model.Builder) {
		b := model.Entity[product](mb)
		b.Property("Name").IsRequired().HasMaxLength(80)
		b.Property("Stock").HasDefaultSQL("0")
	})

	sql := BuildCreateTableSQL(m.Entities()[0])

	wants := []string{
		"CREATE TABLE IF NOT EXISTS products",
		"id TEXT PRIMARY KEY NOT NULL",
		"name TEXT NOT NULL",
		"sku TEXT",
		"price REAL",
		"stock INTEGER DEFAULT 0",
		"CHECK(LENGTH(name) <= 80)",
	}
	for _, want := range wants {
		if !strings.Contains(sql, want) {
			t.Errorf("SQL should contain %q:\n%s", want, sql)
		}
	}
}

func TestBuildCreateTableSQL_CompositeKey(t *testing.T) {
	m := buildModel(t, func(mb *model.Builder) {
		model.Entity[orderLine](mb).HasKey("OrderID", "LineNo")
	})

	sql := BuildCreateTableSQL(m.Entities()[0])

	if !strings.Contains(sql, "PRIMARY KEY(order_id, line_no)") {
		t.Errorf("SQL should declare a composite key:\n%s", sql)
	}
	if strings.Contains(sql, "order_id TEXT PRIMARY KEY") {
		t.Errorf("composite key columns should not be inline keys:\n%s", sql)
	}
	if !strings.Contains(sql, "order_id TEXT NOT NULL") {
		t.Errorf("key columns should be NOT NULL:\n%s", sql)
	}
}

func TestBuildIndexSQL(t *testing.T) {
	m := buildModel(t, func(mb *model.Builder) {
		b := model.Entity[product](mb)
		b.HasIndex("SKU").IsUnique()
		b.HasIndex("Name", "Price")
	})

	indexes := BuildIndexSQL(m.Entities()[0])

	want := []string{
		"CREATE UNIQUE INDEX IF NOT EXISTS idx_products_sku ON products(sku)",
		"CREATE INDEX IF NOT EXISTS idx_products_name_price ON products(name, price)",
	}
	if len(indexes) != len(want) {
		t.Fatalf("len(indexes) = %d, want %d", len(indexes), len(want))
	}
	for i := range want {
		if indexes[i] != want[i] {
			t.Errorf("indexes[%d] = %q, want %q", i, indexes[i], want[i])
		}
	}
}

func TestFormatDefault(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0", "0"},
		{"-1.5", "-1.5"},
		{"'pending'", "'pending'"},
		{"CURRENT_TIMESTAMP", "CURRENT_TIMESTAMP"},
		{"null", "null"},
		{"datetime('now')", "(datetime('now'))"},
		{"(1 + 1)", "(1 + 1)"},
		{"-", "(-)"},
	}

	for _, tt := range tests {
		if got := formatDefault(tt.in); got != tt.want {
			t.Errorf("formatDefault(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBuildSchemaSQL(t *testing.T) {
	m := buildModel(t, func(mb *model.Builder) {
		model.Entity[product](mb).HasIndex("SKU")
		model.Entity[orderLine](mb)
	})

	stmts := BuildSchemaSQL(m)
	if len(stmts) != 3 {
		t.Fatalf("len(stmts) = %d, want 3", len(stmts))
	}
	if !strings.HasPrefix(stmts[1], "CREATE INDEX") {
		t.Errorf("stmts[1] = %q, want the products index after its table", stmts[1])
	}
	if !strings.Contains(stmts[2], "order_lines") {
		t.Errorf("stmts[2] = %q, want order_lines table", stmts[2])
	}
}
