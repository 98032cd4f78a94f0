package footprint

import (
	"github.com/rshade/footprint/internal/refdata"
)

// Engine runs the calculation pipeline against one reference store. It
// holds no mutable state and is safe for concurrent use.
type Engine struct {
	store      *refdata.Store
	normalizer *Normalizer
	mode       PercentMode
}

// Option configures an Engine.
type Option func(*Engine)

// WithPercentMode selects how category percentages are expressed. The
// default is PercentDeviation.
func WithPercentMode(m PercentMode) Option {
	return func(e *Engine) { e.mode = m }
}

// NewEngine validates store and returns an Engine that calculates against
// it. An invalid store is reported as a *CalculationError.
func NewEngine(store *refdata.Store, opts ...Option) (*Engine, error) {
	if store == nil {
		return nil, &CalculationError{Op: "init", Err: ErrNilStore}
	}
	if err := store.Validate(); err != nil {
		return nil, &CalculationError{Op: "init", Err: err}
	}

	e := &Engine{
		store:      store,
		normalizer: NewNormalizer(store),
		mode:       PercentDeviation,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

// Store returns the reference data the engine calculates against.
func (e *Engine) Store() *refdata.Store { return e.store }

// Mode returns the configured percentage mode.
func (e *Engine) Mode() PercentMode { return e.mode }

// Normalize decodes and resolves every answer, in order. Answers that fail
// decoding or resolution are reported as diagnostics and skipped.
func (e *Engine) Normalize(raws []RawAnswer) ([]Contribution, []Diagnostic) {
	contribs := make([]Contribution, 0, len(raws))
	var diags []Diagnostic

	for i, raw := range raws {
		answer, err := Decode(raw)
		if err != nil {
			diags = append(diags, decodeDiagnostic(i, raw, err))
			continue
		}
		c, ds, ok := e.normalizer.Normalize(i, answer)
		diags = append(diags, ds...)
		if ok {
			contribs = append(contribs, c)
		}
	}
	return contribs, diags
}

// Calculate runs the full pipeline and returns ranked per-category results.
// Individual bad answers never cause an error; only reference data that
// makes a comparison impossible does.
func (e *Engine) Calculate(raws []RawAnswer) (*ResultSet, error) {
	contribs, diags := e.Normalize(raws)
	totals := Aggregate(contribs, e.store)

	cmp, err := Compare(totals, e.store, e.mode)
	if err != nil {
		return nil, err
	}
	return Assemble(Rank(cmp), totals, e.store, contribs, diags), nil
}

// Summarize returns the compact summary of a set of answers. Category
// percentages use the engine's PercentMode.
func (e *Engine) Summarize(raws []RawAnswer) (*Summary, error) {
	contribs, diags := e.Normalize(raws)
	totals := Aggregate(contribs, e.store)
	return Summarize(totals, e.store, e.mode, contribs, diags)
}
