/*
Package modelcreating lets entity types configure their own persistence
mapping.

An entity type opts in by implementing ModelCreating for itself:

	type Product struct {
		ID  string
		SKU string
	}

	func (Product) OnModelCreating(b *model.EntityTypeBuilder[Product]) {
		b.HasIndex("SKU").IsUnique()
	}

Installing the convention on a model builder runs a dispatch pass during
Build. The pass finds every registered entity type that declares
OnModelCreating and calls it exactly once with that type's builder:

	mb := model.NewBuilder()
	model.Entity[Product](mb)
	modelcreating.Install(mb)
	m, err := mb.Build()

# Self-reference

The builder parameter must be scoped to the declaring type. A declaration
such as

	func (Invoice) OnModelCreating(b *model.EntityTypeBuilder[Order])

is rejected with a *MisboundCapabilityError and the whole pass fails
before any callback runs.

# Registration

Types can register a compile-time bound callback in a Table, usually from
init. The type constraint makes a misbound registration fail to compile:

	func init() {
		modelcreating.MustRegister[Product](modelcreating.Default)
	}

Types that declare the method without registering are bound once through
reflection when first dispatched.
*/
package modelcreating
