package store

import (
	"context"
	"fmt"
	"sort"
)

// RunSummary describes one recorded run.
type RunSummary struct {
	RunID    string         `json:"run_id"`
	Label    string         `json:"label"`
	SpecHash string         `json:"spec_hash"`
	Count    int            `json:"count"`
	LastSeq  int64          `json:"last_seq"`
	Failures int            `json:"failures"` // Records carrying an error
	ByStep   map[string]int `json:"by_step"`  // Successful records per step
	Gaps     []int64        `json:"gaps,omitempty"`
}

// GetRunSummary aggregates the resolutions of a run.
//
// Gaps lists seq values missing between 1 and LastSeq. A traced resolver
// draws one seq per top-level operation, so a gap means a record failed to
// reach the store.
func (s *Store) GetRunSummary(ctx context.Context, runID string) (RunSummary, error) {
	summary := RunSummary{RunID: runID, ByStep: map[string]int{}}

	err := s.db.QueryRowContext(ctx, `
		SELECT label, spec_hash FROM runs WHERE id = ?
	`, runID).Scan(&summary.Label, &summary.SpecHash)
	if err != nil {
		return summary, fmt.Errorf("get run summary: %w", err)
	}

	recs, err := s.ReadResolutions(ctx, runID)
	if err != nil {
		return summary, fmt.Errorf("get run summary: %w", err)
	}

	seen := make(map[int64]bool, len(recs))
	for _, rec := range recs {
		summary.Count++
		seen[rec.Seq] = true
		if rec.Seq > summary.LastSeq {
			summary.LastSeq = rec.Seq
		}
		if rec.Error != "" {
			summary.Failures++
			continue
		}
		summary.ByStep[rec.Step]++
	}

	for seq := int64(1); seq <= summary.LastSeq; seq++ {
		if !seen[seq] {
			summary.Gaps = append(summary.Gaps, seq)
		}
	}
	return summary, nil
}

// Steps returns the summary's step names in sorted order.
func (r RunSummary) Steps() []string {
	steps := make([]string, 0, len(r.ByStep))
	for step := range r.ByStep {
		steps = append(steps, step)
	}
	sort.Strings(steps)
	return steps
}
