// Package footprint is the emission-calculation and categorization engine.
//
// It turns quiz answers into an annual CO2 estimate per category and in
// total, compares the estimate against category baselines, ranks the
// categories by how far they deviate, and attaches tips and products. The
// pipeline is:
//
//	RawAnswer -> Decode -> Normalizer -> Aggregate -> Compare/Rank -> Assemble
//
// Everything in this package is synchronous, deterministic and free of I/O.
// Bad individual answers never fail a calculation: they are skipped or
// approximated and reported as Diagnostics. Only a broken reference dataset
// produces an error, always as a *CalculationError.
package footprint
