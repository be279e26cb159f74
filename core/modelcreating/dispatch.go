package modelcreating

import (
	"reflect"
	"time"

	"github.com/artpar/onmodelcreating/core/model"
	"github.com/artpar/onmodelcreating/ports"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// State is the terminal state of one entity type in a pass.
type State int

const (
	StateUnclassified State = iota
	StateSkipped
	StateFailed
	StateInvoked
)

func (s State) String() string {
	switch s {
	case StateSkipped:
		return "skipped"
	case StateFailed:
		return "failed"
	case StateInvoked:
		return "invoked"
	default:
		return "unclassified"
	}
}

// Outcome records what a pass did with one entity type.
type Outcome struct {
	Entity string
	Type   reflect.Type
	State  State
	Result Result

	// Note is a short explanation for skipped types.
	Note string
}

// Report summarizes one dispatch pass.
type Report struct {
	PassID   string
	Outcomes []Outcome

	Invoked int
	Skipped int
	Failed  int
}

// Observer is notified when a pass completes.
type Observer interface {
	ObservePass(report *Report, err error, elapsed time.Duration)
}

type options struct {
	table    *Table
	logger   zerolog.Logger
	observer Observer
	ids      ports.IDGenerator
	failFast bool
}

// Option configures a dispatch pass.
type Option func(*options)

// WithTable sets the callback table. Defaults to Default.
func WithTable(t *Table) Option {
	return func(o *options) {
		o.table = t
	}
}

// WithLogger sets the pass logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithObserver sets an observer notified after each pass.
func WithObserver(obs Observer) Option {
	return func(o *options) {
		o.observer = obs
	}
}

// WithIDGenerator sets the pass ID source. Defaults to random UUIDs.
func WithIDGenerator(ids ports.IDGenerator) Option {
	return func(o *options) {
		if ids != nil {
			o.ids = ids
		}
	}
}

type randomIDs struct{}

func (randomIDs) New() string {
	return uuid.NewString()
}

// WithFailFast stops classification at the first misbound entity type
// instead of reporting all of them.
func WithFailFast() Option {
	return func(o *options) {
		o.failFast = true
	}
}

// Install registers a dispatch pass as a build hook on mb.
func Install(mb *model.Builder, opts ...Option) {
	mb.OnBuild(func(b *model.Builder) error {
		_, err := Dispatch(b, opts...)
		return err
	})
}

// Dispatch runs one pass over the entity types registered on mb. Every
// type is classified before any callback runs; if any type is misbound the
// pass returns an *InvalidModelCreatingError and invokes nothing. Otherwise
// each participating type's OnModelCreating is called once with its builder.
func Dispatch(mb *model.Builder, opts ...Option) (*Report, error) {
	o := options{
		table:  Default,
		logger: zerolog.Nop(),
		ids:    randomIDs{},
	}
	for _, opt := range opts {
		opt(&o)
	}

	start := time.Now()
	report := &Report{PassID: o.ids.New()}
	logger := o.logger.With().Str("pass_id", report.PassID).Logger()

	err := run(mb.EntityTypes(), o.table, logger, o.failFast, report)

	if o.observer != nil {
		o.observer.ObservePass(report, err, time.Since(start))
	}

	if err != nil {
		logger.Error().Err(err).Int("failed", report.Failed).Msg("model creating dispatch failed")
		return report, err
	}

	logger.Info().
		Int("invoked", report.Invoked).
		Int("skipped", report.Skipped).
		Dur("elapsed", time.Since(start)).
		Msg("model creating dispatch completed")
	return report, nil
}

func run(types []*model.EntityType, table *Table, logger zerolog.Logger, failFast bool, report *Report) error {
	report.Outcomes = make([]Outcome, 0, len(types))

	var invalid []*MisboundCapabilityError
	for _, et := range types {
		r := table.Classify(et)
		out := Outcome{Entity: et.Name(), Type: et.Type(), Result: r}

		switch r.Kind {
		case NoCapability:
			out.State = StateSkipped
			out.Note = "no capability"
			if r.Reason != "" {
				out.Note = r.Reason
				logger.Debug().Str("entity", et.Name()).Str("reason", r.Reason).Msg("method ignored")
			}
		case InvalidCapability:
			out.State = StateFailed
			invalid = append(invalid, r.Err())
		}

		report.Outcomes = append(report.Outcomes, out)

		if failFast && len(invalid) > 0 {
			break
		}
	}

	if len(invalid) > 0 {
		report.abort()
		return &InvalidModelCreatingError{Entities: invalid}
	}

	for i := range report.Outcomes {
		out := &report.Outcomes[i]
		if out.Result.Kind != ValidCapability {
			continue
		}

		if err := invoke(table.thunkFor(out.Result), out.Result.Entity); err != nil {
			out.State = StateFailed
			report.abort()
			return err
		}

		out.State = StateInvoked
		logger.Debug().Str("entity", out.Entity).Msg("model creating invoked")
	}

	report.tally()
	return nil
}

// invoke calls fn with the entity type's builder, converting a panic into a *CallbackError.
func invoke(fn thunk, et *model.EntityType) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = &CallbackError{Entity: et.Type(), Value: v}
		}
	}()

	fn(et.Builder())
	return nil
}

// abort marks every valid type not yet invoked as skipped and recounts.
func (r *Report) abort() {
	for i := range r.Outcomes {
		out := &r.Outcomes[i]
		if out.State == StateUnclassified && out.Result.Kind == ValidCapability {
			out.State = StateSkipped
			out.Note = "pass aborted"
		}
	}
	r.tally()
}

func (r *Report) tally() {
	r.Invoked, r.Skipped, r.Failed = 0, 0, 0
	for _, out := range r.Outcomes {
		switch out.State {
		case StateInvoked:
			r.Invoked++
		case StateSkipped:
			r.Skipped++
		case StateFailed:
			r.Failed++
		}
	}
}

// Outcome returns the outcome for the entity type t.
func (r *Report) Outcome(t reflect.Type) (Outcome, bool) {
	for _, out := range r.Outcomes {
		if out.Type == t {
			return out, true
		}
	}
	return Outcome{}, false
}
