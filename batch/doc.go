// Package batch applies one update to many documents concurrently.
//
// Documents are fanned out to a bounded worker group, optionally throttled
// by a token bucket. The outcome of every document is recorded in one of
// three roaring bitmaps (modified, unchanged, failed), and per-document
// failures are aggregated into a single multierror:
//
//	a := batch.NewApplier(func(o *batch.Options) {
//		o.Concurrency = 8
//		o.Predicates = where.NewCompiler()
//	})
//	res, err := a.Apply(ctx, docs, u)
//	if err != nil {
//		return err // cancelled
//	}
//	if res.Err != nil {
//		log.Printf("%d documents failed: %v", res.Failed.GetCardinality(), res.Err)
//	}
package batch
