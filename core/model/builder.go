package model

import (
	"fmt"
	"reflect"

	"github.com/rs/zerolog"
)

// BuildHook runs during Build, after all entity types are registered and
// before the model is finalized. A hook error aborts the build.
type BuildHook func(*Builder) error

// Builder collects entity types and their configuration.
// It is not safe for concurrent use.
type Builder struct {
	entities []*EntityType
	byType   map[reflect.Type]*EntityType
	hooks    []BuildHook
	logger   zerolog.Logger

	finalized bool
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the builder's logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(b *Builder) {
		b.logger = logger
	}
}

// NewBuilder creates an empty model builder.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{
		byType: make(map[reflect.Type]*EntityType),
		logger: zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Entity registers T as an entity type and returns its builder.
// Calling it again for the same T returns the same builder.
// It panics if T is not a struct type or the builder is already finalized.
func Entity[T any](b *Builder) *EntityTypeBuilder[T] {
	t := reflect.TypeOf((*T)(nil)).Elem()

	if et, ok := b.byType[t]; ok {
		return et.builder.(*EntityTypeBuilder[T])
	}

	if b.finalized {
		panic(fmt.Sprintf("model: cannot add entity type %s: %v", t, ErrModelFinalized))
	}
	if t.Kind() != reflect.Struct {
		panic(fmt.Sprintf("model: entity type %s must be a struct, got %s", t, t.Kind()))
	}

	et := newEntityType(t)
	eb := &EntityTypeBuilder[T]{et: et}
	et.builder = eb

	b.entities = append(b.entities, et)
	b.byType[t] = et

	b.logger.Debug().
		Str("entity", et.Name()).
		Str("table", et.table).
		Int("properties", len(et.properties)).
		Msg("entity type registered")

	return eb
}

// EntityTypes returns the registered entity types in registration order.
func (b *Builder) EntityTypes() []*EntityType {
	out := make([]*EntityType, len(b.entities))
	copy(out, b.entities)
	return out
}

// FindEntityType returns the registered entity type for t.
func (b *Builder) FindEntityType(t reflect.Type) (*EntityType, bool) {
	et, ok := b.byType[t]
	return et, ok
}

// OnBuild adds a hook run by Build. Hooks run in the order they were added.
func (b *Builder) OnBuild(hook BuildHook) {
	b.hooks = append(b.hooks, hook)
}

// Finalized reports whether Build has been called.
func (b *Builder) Finalized() bool {
	return b.finalized
}

// Build runs the build hooks and finalizes the model.
// A builder can be built once; a failed build cannot be retried.
func (b *Builder) Build() (*Model, error) {
	if b.finalized {
		return nil, ErrModelFinalized
	}
	b.finalized = true

	for _, hook := range b.hooks {
		if err := hook(b); err != nil {
			b.logger.Error().Err(err).Msg("model build failed")
			return nil, fmt.Errorf("model build: %w", err)
		}
	}

	m, err := finalize(b.entities)
	if err != nil {
		b.logger.Error().Err(err).Msg("model validation failed")
		return nil, fmt.Errorf("model build: %w", err)
	}

	b.logger.Info().Int("entities", len(m.entities)).Msg("model built")
	return m, nil
}
