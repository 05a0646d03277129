package docupdate

import (
	"sync/atomic"
	"time"

	"github.com/hupe1980/docupdate/fieldpath"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like Prometheus.
type MetricsCollector interface {
	// RecordApply is called after an update was applied to one document.
	RecordApply(status fieldpath.ModificationStatus, duration time.Duration, err error)

	// RecordEncode is called after an update was encoded. size is the
	// length of the record in bytes.
	RecordEncode(size int, duration time.Duration, err error)

	// RecordDecode is called after an update record was decoded.
	RecordDecode(size int, duration time.Duration, err error)

	// RecordBatch is called after a batch. count is the number of
	// documents, failed the number that failed.
	RecordBatch(count, failed int, duration time.Duration)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordApply(fieldpath.ModificationStatus, time.Duration, error) {}
func (NoopMetricsCollector) RecordEncode(int, time.Duration, error)                       {}
func (NoopMetricsCollector) RecordDecode(int, time.Duration, error)                       {}
func (NoopMetricsCollector) RecordBatch(int, int, time.Duration)                          {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	ApplyCount      atomic.Int64
	ApplyModified   atomic.Int64
	ApplyRemoved    atomic.Int64
	ApplyErrors     atomic.Int64
	ApplyTotalNanos atomic.Int64
	EncodeCount     atomic.Int64
	EncodeBytes     atomic.Int64
	EncodeErrors    atomic.Int64
	DecodeCount     atomic.Int64
	DecodeBytes     atomic.Int64
	DecodeErrors    atomic.Int64
	BatchCount      atomic.Int64
	BatchDocuments  atomic.Int64
	BatchFailed     atomic.Int64
}

// RecordApply implements MetricsCollector.
func (b *BasicMetricsCollector) RecordApply(status fieldpath.ModificationStatus, duration time.Duration, err error) {
	b.ApplyCount.Add(1)
	b.ApplyTotalNanos.Add(duration.Nanoseconds())
	switch {
	case err != nil:
		b.ApplyErrors.Add(1)
	case status == fieldpath.Modified:
		b.ApplyModified.Add(1)
	case status == fieldpath.Removed:
		b.ApplyRemoved.Add(1)
	}
}

// RecordEncode implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEncode(size int, _ time.Duration, err error) {
	b.EncodeCount.Add(1)
	if err != nil {
		b.EncodeErrors.Add(1)
		return
	}
	b.EncodeBytes.Add(int64(size))
}

// RecordDecode implements MetricsCollector.
func (b *BasicMetricsCollector) RecordDecode(size int, _ time.Duration, err error) {
	b.DecodeCount.Add(1)
	b.DecodeBytes.Add(int64(size))
	if err != nil {
		b.DecodeErrors.Add(1)
	}
}

// RecordBatch implements MetricsCollector.
func (b *BasicMetricsCollector) RecordBatch(count, failed int, _ time.Duration) {
	b.BatchCount.Add(1)
	b.BatchDocuments.Add(int64(count))
	b.BatchFailed.Add(int64(failed))
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	s := BasicMetricsStats{
		ApplyCount:     b.ApplyCount.Load(),
		ApplyModified:  b.ApplyModified.Load(),
		ApplyRemoved:   b.ApplyRemoved.Load(),
		ApplyErrors:    b.ApplyErrors.Load(),
		EncodeCount:    b.EncodeCount.Load(),
		EncodeBytes:    b.EncodeBytes.Load(),
		EncodeErrors:   b.EncodeErrors.Load(),
		DecodeCount:    b.DecodeCount.Load(),
		DecodeBytes:    b.DecodeBytes.Load(),
		DecodeErrors:   b.DecodeErrors.Load(),
		BatchCount:     b.BatchCount.Load(),
		BatchDocuments: b.BatchDocuments.Load(),
		BatchFailed:    b.BatchFailed.Load(),
	}
	if s.ApplyCount > 0 {
		s.ApplyAvgNanos = b.ApplyTotalNanos.Load() / s.ApplyCount
	}
	return s
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	ApplyCount     int64
	ApplyModified  int64
	ApplyRemoved   int64
	ApplyErrors    int64
	ApplyAvgNanos  int64
	EncodeCount    int64
	EncodeBytes    int64
	EncodeErrors   int64
	DecodeCount    int64
	DecodeBytes    int64
	DecodeErrors   int64
	BatchCount     int64
	BatchDocuments int64
	BatchFailed    int64
}
