// Package batch scores many answer sets in fixed-size batches.
//
// Processor splits a slice into batches and runs a callback over each one,
// sequentially or with bounded concurrency, reporting Progress after every
// batch. Score builds on it to run the calculation engine over a bulk
// input such as a JSON Lines file of respondents. A failing respondent
// produces an Outcome carrying its error; it never stops the run.
package batch
