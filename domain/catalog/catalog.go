// Package catalog defines the product catalog entity types.
// Each type that needs more than the default mapping configures itself
// through OnModelCreating.
package catalog

import (
	"time"

	"github.com/artpar/onmodelcreating/core/model"
	"github.com/artpar/onmodelcreating/core/modelcreating"
)

func init() {
	modelcreating.MustRegister[Product](modelcreating.Default)
	modelcreating.MustRegister[Supplier](modelcreating.Default)
	modelcreating.MustRegisterPtr[Category](modelcreating.Default)
}

// Register adds every catalog entity type to mb.
func Register(mb *model.Builder) {
	model.Entity[Category](mb)
	model.Entity[Supplier](mb)
	model.Entity[Product](mb)
	model.Entity[AuditEntry](mb)
	model.Entity[Tag](mb)
}

// Category groups products. Categories nest through ParentID.
type Category struct {
	ID       string
	Slug     string
	Name     string
	ParentID *string
}

// OnModelCreating requires slug and name and indexes the category tree.
func (*Category) OnModelCreating(b *model.EntityTypeBuilder[Category]) {
	b.Property("Slug").IsRequired().HasMaxLength(64)
	b.Property("Name").IsRequired().HasMaxLength(120)
	b.HasIndex("Slug").IsUnique()
	b.HasIndex("ParentID")
}

// Supplier provides products.
type Supplier struct {
	ID           string
	Name         string
	ContactEmail string `db:"email"`
	Active       bool
}

// OnModelCreating makes the contact email unique.
func (Supplier) OnModelCreating(b *model.EntityTypeBuilder[Supplier]) {
	b.Property("Name").IsRequired()
	b.Property("Active").IsRequired().HasDefaultSQL("1")
	b.HasIndex("ContactEmail").IsUnique()
}

// Product is a sellable item.
type Product struct {
	ID           string
	SKU          string
	Name         string
	Description  *string
	PriceCents   int64
	CategoryID   string
	SupplierID   *string
	Discontinued bool
	CreatedAt    time.Time

	// Computed by the pricing service, never stored.
	DisplayPrice string
}

// OnModelCreating drops computed fields and indexes the SKU.
func (Product) OnModelCreating(b *model.EntityTypeBuilder[Product]) {
	b.Ignore("DisplayPrice")

	b.Property("SKU").IsRequired().HasMaxLength(32)
	b.Property("Name").IsRequired().HasMaxLength(200)
	b.Property("PriceCents").IsRequired().HasDefaultSQL("0")
	b.Property("Discontinued").IsRequired().HasDefaultSQL("0")
	b.Property("CreatedAt").HasDefaultSQL("CURRENT_TIMESTAMP")

	b.HasIndex("SKU").IsUnique()
	b.HasIndex("CategoryID")
}

// AuditEntry records a change to a catalog row. It is not registered in
// the default table; its callback is found by method discovery.
type AuditEntry struct {
	Entity   string
	EntityID string
	Seq      int64
	Action   string
	Payload  []byte
	At       time.Time
}

// OnModelCreating maps the audit log to its keyed table.
func (AuditEntry) OnModelCreating(b *model.EntityTypeBuilder[AuditEntry]) {
	b.ToTable("catalog_audit_log")
	b.HasKey("Entity", "EntityID", "Seq")
	b.Property("Action").IsRequired()
	b.Property("At").IsRequired().HasColumnName("recorded_at").HasDefaultSQL("CURRENT_TIMESTAMP")
}

// Tag is a free-form label. It uses the default mapping.
type Tag struct {
	ID    string
	Label string
}
