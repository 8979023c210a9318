package application

import (
	"sync"

	"github.com/layerlint/layerlint/internal/domain"
)

// Collector is the in-memory DiagnosticSink used by a lint run. Concurrent
// analyses emit into it; Report assembles a deterministic result.
type Collector struct {
	mu       sync.Mutex
	files    []domain.FileReport
	excluded int
	failed   int
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Emit records the report of an analyzed file.
func (c *Collector) Emit(report domain.FileReport) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.files = append(c.files, report)
}

// Exclude counts a file skipped by path classification.
func (c *Collector) Exclude() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.excluded++
}

// Fail counts a file that could not be parsed.
func (c *Collector) Fail() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.failed++
}

// Report builds the final report, sorted by path.
func (c *Collector) Report(root string) *domain.Report {
	c.mu.Lock()
	defer c.mu.Unlock()

	files := make([]domain.FileReport, len(c.files))
	copy(files, c.files)
	r := &domain.Report{
		Root:  root,
		Files: files,
		Summary: domain.Summary{
			FilesExcluded: c.excluded,
			FilesFailed:   c.failed,
		},
	}
	r.Finalize()
	return r
}
