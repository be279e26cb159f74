/*
Package model builds the persistence model for a set of Go entity types.

Entity types are registered on a Builder with the generic Entity function,
which returns an EntityTypeBuilder scoped to that type. Builders are mutable
until Build runs the registered build hooks and finalizes an immutable Model:

	mb := model.NewBuilder()
	model.Entity[Product](mb).
		ToTable("catalog_products").
		HasIndex("SKU").IsUnique()

	m, err := mb.Build()

# Conventions

Without configuration an entity type maps to:

  - table: snake_case plural of the type name (Product → products)
  - columns: one per exported struct field, snake_case, or the `db` tag value
  - key: the field named ID, if present

Fields tagged `db:"-"` are skipped, and embedded structs are flattened.

# Build hooks

OnBuild registers functions run by Build before finalization. The
modelcreating package installs its dispatch pass this way so entity types
can configure themselves.
*/
package model
