package recorder

import "github.com/uzairmukadam/Trend-Sage/internal/pipeline"

// Recorder persists run history for later inspection.
type Recorder interface {
	RecordRun(summary *pipeline.RunSummary) error
	Close() error
}

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordRun(_ *pipeline.RunSummary) error { return nil }
func (n *NoopRecorder) Close() error                           { return nil }
