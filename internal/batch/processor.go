package batch

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Default batch processing configuration.
const (
	DefaultBatchSize = 100
	MinBatchSize     = 1
	MaxBatchSize     = 1000
)

// Common batch processing errors.
var (
	ErrInvalidBatchSize = errors.New("batch size must be between 1 and 1000")
	ErrNilCallback      = errors.New("batch callback cannot be nil")
	ErrEmptyItems       = errors.New("items slice cannot be empty")
)

// Callback processes one batch. offset is the index of batch[0] in the
// full item slice.
type Callback[T any] func(ctx context.Context, batch []T, offset int) error

// ProgressCallback is invoked after each batch completes.
type ProgressCallback func(snapshot ProgressSnapshot)

// Processor splits items into fixed-size batches.
type Processor[T any] struct {
	batchSize  int
	onProgress ProgressCallback
}

// NewProcessor creates a processor with the given batch size.
func NewProcessor[T any](batchSize int) (*Processor[T], error) {
	if batchSize < MinBatchSize || batchSize > MaxBatchSize {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidBatchSize, batchSize)
	}
	return &Processor[T]{batchSize: batchSize}, nil
}

// NewProcessorWithDefaults creates a processor with DefaultBatchSize.
func NewProcessorWithDefaults[T any]() *Processor[T] {
	return &Processor[T]{batchSize: DefaultBatchSize}
}

// WithProgressCallback sets a progress callback for the processor.
func (p *Processor[T]) WithProgressCallback(callback ProgressCallback) *Processor[T] {
	p.onProgress = callback
	return p
}

// BatchSize returns the configured batch size.
func (p *Processor[T]) BatchSize() int {
	return p.batchSize
}

// Process runs callback over each batch in order and stops on the first
// error.
func (p *Processor[T]) Process(ctx context.Context, items []T, callback Callback[T]) error {
	return p.ProcessConcurrent(ctx, items, callback, 1)
}

// ProcessConcurrent runs at most maxConcurrency batches at a time. Every
// batch runs even if another fails; the failures are joined.
func (p *Processor[T]) ProcessConcurrent(
	ctx context.Context,
	items []T,
	callback Callback[T],
	maxConcurrency int,
) error {
	if len(items) == 0 {
		return ErrEmptyItems
	}
	if callback == nil {
		return ErrNilCallback
	}
	if maxConcurrency < 1 {
		maxConcurrency = 1
	}

	bounds := p.Batches(len(items))
	progress := NewProgress(len(items), len(bounds), p.batchSize)

	var (
		g    errgroup.Group
		mu   sync.Mutex
		errs []error
	)
	g.SetLimit(maxConcurrency)

	for i, b := range bounds {
		if err := ctx.Err(); err != nil {
			_ = g.Wait()
			return err
		}

		g.Go(func() error {
			if err := callback(ctx, items[b[0]:b[1]], b[0]); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("batch %d failed: %w", i, err))
				mu.Unlock()
				return nil
			}
			progress.AddProcessed(b[1] - b[0])
			if p.onProgress != nil {
				p.onProgress(progress.Snapshot())
			}
			return nil
		})

		// Sequential runs stop at the first failure.
		if maxConcurrency == 1 {
			_ = g.Wait()
			if len(errs) > 0 {
				return errs[0]
			}
		}
	}

	_ = g.Wait()
	return errors.Join(errs...)
}

// Batches returns the [start, end) bounds of each batch for totalItems.
func (p *Processor[T]) Batches(totalItems int) [][2]int {
	n := totalItems / p.batchSize
	if totalItems%p.batchSize > 0 {
		n++
	}

	out := make([][2]int, n)
	for i := range n {
		start := i * p.batchSize
		out[i] = [2]int{start, min(start+p.batchSize, totalItems)}
	}
	return out
}
