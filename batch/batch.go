package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"sort"
	"sync"
	"time"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/hashicorp/go-multierror"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/hupe1980/docupdate/document"
	"github.com/hupe1980/docupdate/fieldpath"
	"github.com/hupe1980/docupdate/update"
)

// ErrDuplicateDocument is returned when the same document appears twice in
// one batch.
var ErrDuplicateDocument = errors.New("document appears more than once in batch")

// Options configures an Applier.
type Options struct {
	// Concurrency is the maximum number of documents updated at once.
	// If 0, defaults to GOMAXPROCS.
	Concurrency int

	// RateLimit caps the number of documents started per second.
	// If 0, unlimited.
	RateLimit float64

	// Burst is the limiter burst size. If 0, defaults to Concurrency.
	Burst int

	// Predicates compiles where-clauses.
	Predicates update.PredicateCompiler

	// Logger receives per-batch summaries.
	Logger *slog.Logger
}

// DefaultOptions contains the default Applier options.
var DefaultOptions = Options{}

// DocumentError reports the failure of one document in a batch.
type DocumentError struct {
	Index int
	ID    string
	Err   error
}

func (e *DocumentError) Error() string {
	return fmt.Sprintf("document %d (%s): %v", e.Index, e.ID, e.Err)
}

func (e *DocumentError) Unwrap() error { return e.Err }

// Result holds the per-document outcome of a batch. Bitmaps contain
// indices into the document slice.
type Result struct {
	Modified  *roaring.Bitmap
	Unchanged *roaring.Bitmap
	Failed    *roaring.Bitmap
	// Partial is the subset of Failed that was changed before the update
	// failed. Changes are not rolled back.
	Partial *roaring.Bitmap
	// Err aggregates the DocumentErrors of failed documents in index
	// order. It is nil if no document failed.
	Err      error
	Duration time.Duration
}

// Processed returns the number of documents with an outcome.
func (r *Result) Processed() uint64 {
	return r.Modified.GetCardinality() + r.Unchanged.GetCardinality() + r.Failed.GetCardinality()
}

// Applier applies one update to many documents concurrently. Every
// document is owned by exactly one goroutine while it is updated.
type Applier struct {
	opts    Options
	limiter *rate.Limiter
	logger  *slog.Logger
}

// NewApplier creates an Applier.
func NewApplier(optFns ...func(o *Options)) *Applier {
	opts := DefaultOptions
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = runtime.GOMAXPROCS(0)
	}
	if opts.Burst <= 0 {
		opts.Burst = opts.Concurrency
	}

	a := &Applier{opts: opts, logger: opts.Logger}
	if a.logger == nil {
		a.logger = slog.New(slog.DiscardHandler)
	}
	if opts.RateLimit > 0 {
		a.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), opts.Burst)
	}
	return a
}

// Apply applies u to every document. Failures of single documents are
// collected in Result.Err and do not stop the batch. The returned error is
// non-nil only if the batch itself could not run to completion, e.g. because
// ctx was cancelled; documents not reached are in no bitmap.
func (a *Applier) Apply(ctx context.Context, docs []*document.Document, u update.PathUpdate) (*Result, error) {
	seen := make(map[*document.Document]int, len(docs))
	for i, d := range docs {
		if j, ok := seen[d]; ok {
			return nil, fmt.Errorf("%w: indices %d and %d", ErrDuplicateDocument, j, i)
		}
		seen[d] = i
	}

	start := time.Now()
	res := &Result{
		Modified:  roaring.New(),
		Unchanged: roaring.New(),
		Failed:    roaring.New(),
		Partial:   roaring.New(),
	}

	var (
		mu   sync.Mutex
		errs []*DocumentError
	)
	record := func(i int, status fieldpath.ModificationStatus, err error) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case err != nil:
			res.Failed.Add(uint32(i)) //nolint:gosec // slice index
			if status.Changed() {
				res.Partial.Add(uint32(i)) //nolint:gosec // slice index
			}
			errs = append(errs, &DocumentError{Index: i, ID: docs[i].ID(), Err: err})
		case status.Changed():
			res.Modified.Add(uint32(i)) //nolint:gosec // slice index
		default:
			res.Unchanged.Add(uint32(i)) //nolint:gosec // slice index
		}
	}

	applyOpts := []func(*update.ApplyOptions){update.WithPredicateCompiler(a.opts.Predicates)}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.opts.Concurrency)
	for i, doc := range docs {
		if gctx.Err() != nil {
			break
		}
		if a.limiter != nil {
			if err := a.limiter.Wait(gctx); err != nil {
				break
			}
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			status, err := update.Apply(doc, u, applyOpts...)
			record(i, status, err)
			return nil
		})
	}
	waitErr := g.Wait()
	if waitErr == nil {
		waitErr = ctx.Err()
	}

	sort.Slice(errs, func(x, y int) bool { return errs[x].Index < errs[y].Index })
	var merr *multierror.Error
	for _, e := range errs {
		merr = multierror.Append(merr, e)
	}
	res.Err = merr.ErrorOrNil()
	res.Duration = time.Since(start)

	a.logger.Debug("batch applied",
		"update", u.String(),
		"documents", len(docs),
		"modified", res.Modified.GetCardinality(),
		"unchanged", res.Unchanged.GetCardinality(),
		"failed", res.Failed.GetCardinality(),
		"duration", res.Duration,
	)
	return res, waitErr
}
