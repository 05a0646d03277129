package docupdate

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/docupdate/batch"
	"github.com/hupe1980/docupdate/document"
	"github.com/hupe1980/docupdate/fieldpath"
	"github.com/hupe1980/docupdate/journal"
	"github.com/hupe1980/docupdate/schema"
	"github.com/hupe1980/docupdate/update"
	"github.com/hupe1980/docupdate/where"
)

// Updater applies, encodes and journals path updates for the document
// types of one schema repository. An Updater is safe for concurrent use as
// long as each document is updated by one goroutine at a time.
type Updater struct {
	repo    schema.Repository
	opts    options
	applier *batch.Applier
}

// New creates an Updater for repo.
func New(repo schema.Repository, optFns ...Option) *Updater {
	opts := applyOptions(optFns)
	if opts.predicates == nil {
		opts.predicates = where.NewCompiler()
	}

	batchOpts := append([]func(*batch.Options){func(o *batch.Options) {
		o.Predicates = opts.predicates
		o.Logger = opts.logger.Logger
	}}, opts.batchOptions...)

	return &Updater{
		repo:    repo,
		opts:    opts,
		applier: batch.NewApplier(batchOpts...),
	}
}

// Repository returns the schema repository.
func (u *Updater) Repository() schema.Repository { return u.repo }

// Add builds an Add update against the repository.
func (u *Updater) Add(docType, path, where string, values document.Collection) (*update.Add, error) {
	return update.NewAdd(u.repo, docType, path, where, values)
}

// Assign builds an Assign update against the repository.
func (u *Updater) Assign(docType, path, where string, value document.Value, optFns ...func(*update.AssignOptions)) (*update.Assign, error) {
	return update.NewAssign(u.repo, docType, path, where, value, optFns...)
}

// Remove builds a Remove update against the repository.
func (u *Updater) Remove(docType, path, where string) (*update.Remove, error) {
	return update.NewRemove(u.repo, docType, path, where)
}

// Apply applies pu to doc. If a journal is configured, updates that change
// the document are appended to it, also when they fail after a partial
// change: replaying them reproduces the same partial state.
func (u *Updater) Apply(ctx context.Context, doc *document.Document, pu update.PathUpdate) (fieldpath.ModificationStatus, error) {
	status, err := u.apply(ctx, doc, pu)
	if !status.Changed() || u.opts.journal == nil {
		return status, err
	}
	if _, jerr := u.opts.journal.AppendUpdate(ctx, doc.ID(), pu); jerr != nil {
		return status, errors.Join(err, fmt.Errorf("journal update: %w", jerr))
	}
	return status, err
}

func (u *Updater) apply(ctx context.Context, doc *document.Document, pu update.PathUpdate) (fieldpath.ModificationStatus, error) {
	start := time.Now()
	status, err := update.Apply(doc, pu, update.WithPredicateCompiler(u.opts.predicates))
	u.opts.metricsCollector.RecordApply(status, time.Since(start), err)
	u.opts.logger.LogApply(ctx, doc.ID(), pu, status, err)
	return status, err
}

// ApplyAll applies pu to every document concurrently. See batch.Applier.
// Modified and partially modified documents are journaled in index order.
func (u *Updater) ApplyAll(ctx context.Context, docs []*document.Document, pu update.PathUpdate) (*batch.Result, error) {
	res, err := u.applier.Apply(ctx, docs, pu)
	if res == nil {
		return nil, err
	}
	u.opts.metricsCollector.RecordBatch(len(docs), int(res.Failed.GetCardinality()), res.Duration)
	u.opts.logger.LogBatch(ctx, len(docs), int(res.Failed.GetCardinality()))

	if u.opts.journal != nil {
		it := roaring.Or(res.Modified, res.Partial).Iterator()
		for it.HasNext() {
			doc := docs[it.Next()]
			if _, jerr := u.opts.journal.AppendUpdate(ctx, doc.ID(), pu); jerr != nil {
				return res, errors.Join(err, fmt.Errorf("journal update: %w", jerr))
			}
		}
	}
	return res, err
}

// Encode encodes pu in the configured format version.
func (u *Updater) Encode(pu update.PathUpdate) ([]byte, error) {
	start := time.Now()
	data, err := update.Encode(pu, u.opts.version)
	u.opts.metricsCollector.RecordEncode(len(data), time.Since(start), err)
	return data, err
}

// Decode decodes an update record for docType.
func (u *Updater) Decode(docType string, data []byte, v update.Version) (update.PathUpdate, error) {
	start := time.Now()
	pu, err := update.Decode(u.repo, docType, data, v)
	u.opts.metricsCollector.RecordDecode(len(data), time.Since(start), err)
	return pu, err
}

// Describe renders pu with the configured codec.
func (u *Updater) Describe(pu update.PathUpdate) ([]byte, error) {
	return u.opts.codec.Marshal(pu)
}

// Flush writes buffered journal entries.
func (u *Updater) Flush(ctx context.Context) error {
	if u.opts.journal == nil {
		return ErrNoJournal
	}
	return u.opts.journal.Flush(ctx)
}

// LookupFunc returns the document a journal entry refers to. It returns
// an error matching ErrDocumentNotFound for documents that no longer exist.
type LookupFunc func(ctx context.Context, docType, id string) (*document.Document, error)

// Replay re-applies journaled updates with a sequence number of at least
// from to the documents returned by lookup. Replayed updates are not
// journaled again. It returns the number of updates applied, counting
// updates that again fail after a partial change.
func (u *Updater) Replay(ctx context.Context, from uint64, lookup LookupFunc) (int, error) {
	if u.opts.journal == nil {
		return 0, ErrNoJournal
	}

	replayed := 0
	err := u.opts.journal.Replay(ctx, from, func(e journal.Entry) error {
		doc, err := lookup(ctx, e.DocumentType, e.DocumentID)
		if errors.Is(err, ErrDocumentNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		start := time.Now()
		pu, err := e.Decode(u.repo)
		u.opts.metricsCollector.RecordDecode(len(e.Update), time.Since(start), err)
		if err != nil {
			return err
		}
		// An update journaled after a partial change fails the same way
		// again; only a failure without any change is an error.
		if status, err := u.apply(ctx, doc, pu); err != nil && !status.Changed() {
			return err
		}
		replayed++
		return nil
	})
	u.opts.logger.LogReplay(ctx, replayed, err)
	return replayed, err
}
