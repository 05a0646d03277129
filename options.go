package docupdate

import (
	"log/slog"

	"github.com/hupe1980/docupdate/batch"
	"github.com/hupe1980/docupdate/codec"
	"github.com/hupe1980/docupdate/journal"
	"github.com/hupe1980/docupdate/update"
)

type options struct {
	codec            codec.Codec
	metricsCollector MetricsCollector
	logger           *Logger
	predicates       update.PredicateCompiler
	journal          *journal.Journal
	version          update.Version
	batchOptions     []func(*batch.Options)
}

// Option configures an Updater.
type Option func(*options)

// WithCodec configures the codec used by Describe.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithPredicateCompiler replaces the where-clause compiler. The default is
// a where.Compiler with default options.
func WithPredicateCompiler(pc update.PredicateCompiler) Option {
	return func(o *options) {
		o.predicates = pc
	}
}

// WithJournal records every update that modifies a document in j.
//
// Example:
//
//	j, _ := journal.Open(ctx, blobstore.NewLocalStore("./journal"))
//	u := docupdate.New(repo, docupdate.WithJournal(j))
func WithJournal(j *journal.Journal) Option {
	return func(o *options) {
		o.journal = j
	}
}

// WithFormatVersion sets the format version used by Encode.
func WithFormatVersion(v update.Version) Option {
	return func(o *options) {
		o.version = v
	}
}

// WithBatchOptions configures the applier used by ApplyAll.
//
// Example:
//
//	docupdate.WithBatchOptions(func(o *batch.Options) {
//	    o.Concurrency = 8
//	    o.RateLimit = 500 // documents per second
//	})
func WithBatchOptions(optFns ...func(*batch.Options)) Option {
	return func(o *options) {
		o.batchOptions = append(o.batchOptions, optFns...)
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
// Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &docupdate.BasicMetricsCollector{}
//	u := docupdate.New(repo, docupdate.WithMetricsCollector(metrics))
//	// ... use u ...
//	stats := metrics.GetStats()
//	fmt.Printf("Applied: %d, Avg latency: %dns\n", stats.ApplyCount, stats.ApplyAvgNanos)
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithLogger configures structured logging for operations.
// Pass nil to disable logging.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		if logger == nil {
			logger = NoopLogger()
		}
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		codec:            codec.Default,
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		version:          update.CurrentVersion,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
