package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Baseline is the set of accepted diagnostics for a project. Diagnostics
// whose fingerprint is in the baseline are suppressed on later runs.
type Baseline struct {
	CreatedAt    time.Time       `json:"created_at"`
	Fingerprints map[string]bool `json:"fingerprints"`
}

// Fingerprint identifies a diagnostic independent of its line, so edits above
// it do not resurrect baselined findings.
func Fingerprint(d Diagnostic) string {
	h := sha256.New()
	h.Write([]byte(d.RuleID))
	h.Write([]byte{0})
	h.Write([]byte(d.Location.File))
	h.Write([]byte{0})
	h.Write([]byte(d.Problem))
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// NewBaseline captures every diagnostic of a report.
func NewBaseline(r *Report, now time.Time) *Baseline {
	b := &Baseline{CreatedAt: now, Fingerprints: make(map[string]bool)}
	for _, d := range r.Diagnostics() {
		b.Fingerprints[Fingerprint(d)] = true
	}
	return b
}

// Contains reports whether the diagnostic is accepted by the baseline.
func (b *Baseline) Contains(d Diagnostic) bool {
	return b != nil && b.Fingerprints[Fingerprint(d)]
}

// Filter removes baselined diagnostics from the report in place and returns
// the number suppressed.
func (b *Baseline) Filter(r *Report) int {
	if b == nil {
		return 0
	}
	suppressed := 0
	for i := range r.Files {
		kept := r.Files[i].Diagnostics[:0]
		for _, d := range r.Files[i].Diagnostics {
			if b.Contains(d) {
				suppressed++
				continue
			}
			kept = append(kept, d)
		}
		r.Files[i].Diagnostics = kept
	}
	return suppressed
}

// RunEntry is one recorded analysis run.
type RunEntry struct {
	RunID      string    `json:"run_id"`
	Timestamp  time.Time `json:"timestamp"`
	CommitHash string    `json:"commit_hash,omitempty"`
	Files      int       `json:"files"`
	Errors     int       `json:"errors"`
	Warnings   int       `json:"warnings"`
	Infos      int       `json:"infos"`
}
