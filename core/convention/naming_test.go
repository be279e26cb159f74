package convention

import "testing"

func TestSnake(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"ID", "id"},
		{"Name", "name"},
		{"UserID", "user_id"},
		{"HTTPServer", "http_server"},
		{"AuditEntry", "audit_entry"},
		{"createdAt", "created_at"},
		{"Line2Address", "line2_address"},
		{"already_snake", "already_snake"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := Snake(tt.in); got != tt.want {
				t.Errorf("Snake(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestTableName(t *testing.T) {
	tests := []struct {
		typeName string
		want     string
	}{
		{"Product", "products"},
		{"Category", "categories"},
		{"AuditEntry", "audit_entries"},
		{"Person", "people"},
		{"OrderStatus", "order_statuses"},
		{"Box", "boxes"},
	}

	for _, tt := range tests {
		t.Run(tt.typeName, func(t *testing.T) {
			if got := TableName(tt.typeName); got != tt.want {
				t.Errorf("TableName(%q) = %q, want %q", tt.typeName, got, tt.want)
			}
		})
	}
}

func TestColumnName(t *testing.T) {
	if got := ColumnName("SupplierID"); got != "supplier_id" {
		t.Errorf("ColumnName(SupplierID) = %q, want supplier_id", got)
	}
}
