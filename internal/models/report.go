package models

import "time"

// ItemStatus classifies what happened to one item inside a batch run
type ItemStatus string

const (
	ItemProcessed ItemStatus = "processed"
	ItemSkipped   ItemStatus = "skipped"
	ItemFailed    ItemStatus = "failed"
)

// ItemResult records the fate of a single item in a batch run
type ItemResult struct {
	Item   string     `json:"item"`
	Status ItemStatus `json:"status"`
	Reason string     `json:"reason,omitempty"`
}

// RunReport summarizes a batch run: what was attempted, what was skipped
// and why. A run with skips is still a successful run; only a top-level
// failure (upstream fetch, invariant violation) aborts one.
type RunReport struct {
	Action     string        `json:"action"`
	StartedAt  time.Time     `json:"started_at"`
	Duration   time.Duration `json:"duration"`
	Total      int           `json:"total"`
	Processed  int           `json:"processed"`
	Skipped    int           `json:"skipped"`
	Failed     int           `json:"failed"`
	Items      []ItemResult  `json:"items,omitempty"`
	SkipCounts map[string]int `json:"skip_counts,omitempty"`
}

// NewRunReport starts a report for the named action
func NewRunReport(action string) *RunReport {
	return &RunReport{
		Action:     action,
		StartedAt:  time.Now().UTC(),
		SkipCounts: make(map[string]int),
	}
}

// RecordProcessed marks one item as successfully handled
func (r *RunReport) RecordProcessed(item string) {
	r.Total++
	r.Processed++
	r.Items = append(r.Items, ItemResult{Item: item, Status: ItemProcessed})
}

// RecordSkipped marks one item as skipped with a reason
func (r *RunReport) RecordSkipped(item, reason string) {
	r.Total++
	r.Skipped++
	r.SkipCounts[reason]++
	r.Items = append(r.Items, ItemResult{Item: item, Status: ItemSkipped, Reason: reason})
}

// RecordFailed marks one item as failed with a reason
func (r *RunReport) RecordFailed(item, reason string) {
	r.Total++
	r.Failed++
	r.Items = append(r.Items, ItemResult{Item: item, Status: ItemFailed, Reason: reason})
}

// Finish stamps the report duration
func (r *RunReport) Finish() {
	r.Duration = time.Since(r.StartedAt)
}
