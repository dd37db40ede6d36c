package domain

import "time"

// CheckFrequency is how often a document's source is polled for changes
type CheckFrequency string

const (
	CheckDaily   CheckFrequency = "daily"
	CheckWeekly  CheckFrequency = "weekly"
	CheckMonthly CheckFrequency = "monthly"
)

// Valid reports whether the frequency is a known value.
func (f CheckFrequency) Valid() bool {
	switch f {
	case CheckDaily, CheckWeekly, CheckMonthly:
		return true
	}
	return false
}

// ChangeDetection is the polling state of one document
type ChangeDetection struct {
	DocumentID      string         `json:"documentId"`
	LastCheckDate   time.Time      `json:"lastCheckDate"`
	NextCheckDate   time.Time      `json:"nextCheckDate"`
	CheckFrequency  CheckFrequency `json:"checkFrequency"`
	ChangesDetected bool           `json:"changesDetected"`
	LastError       string         `json:"lastError,omitempty"`
}

// IsDue reports whether the next check time has arrived.
func (c *ChangeDetection) IsDue(now time.Time) bool {
	return !now.Before(c.NextCheckDate)
}

// CheckRunSummary reports one pass of the change monitor over due records
type CheckRunSummary struct {
	Checked int `json:"checked"`
	Changed int `json:"changed"`
	Failed  int `json:"failed"`
	// Refreshed counts documents whose new edition was recorded or queued
	Refreshed int `json:"refreshed"`
}
