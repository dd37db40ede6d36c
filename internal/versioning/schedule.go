package versioning

import (
	"context"
	"time"

	"github.com/custodia-labs/lexcore/internal/core/domain"
)

// Checker reports whether a document's source changed since it was last
// ingested.
type Checker interface {
	HasChanged(ctx context.Context, documentID string) (bool, error)
}

// CheckerFunc adapts a function to Checker.
type CheckerFunc func(ctx context.Context, documentID string) (bool, error)

// HasChanged calls f.
func (f CheckerFunc) HasChanged(ctx context.Context, documentID string) (bool, error) {
	return f(ctx, documentID)
}

// NextCheckDate is last plus one day, seven days or one calendar month.
// An unknown frequency is treated as daily.
func NextCheckDate(last time.Time, freq domain.CheckFrequency) time.Time {
	switch freq {
	case domain.CheckWeekly:
		return last.AddDate(0, 0, 7)
	case domain.CheckMonthly:
		return last.AddDate(0, 1, 0)
	default:
		return last.AddDate(0, 0, 1)
	}
}

// RunCheck performs the change check for a due record and reschedules it
// from now. A record that is not yet due is returned unchanged without
// calling checker, so calling early is a no-op. When the check fails the
// record is still rescheduled and the error is kept in LastError.
func RunCheck(ctx context.Context, record domain.ChangeDetection, checker Checker, now time.Time) (domain.ChangeDetection, error) {
	if !record.IsDue(now) {
		return record, nil
	}

	changed, err := checker.HasChanged(ctx, record.DocumentID)

	updated := record
	updated.LastCheckDate = now
	updated.NextCheckDate = NextCheckDate(now, record.CheckFrequency)
	if err != nil {
		updated.LastError = err.Error()
		return updated, err
	}
	updated.ChangesDetected = changed
	updated.LastError = ""
	return updated, nil
}

// NewChangeDetection schedules the first check of a document one period
// after now.
func NewChangeDetection(documentID string, freq domain.CheckFrequency, now time.Time) domain.ChangeDetection {
	if !freq.Valid() {
		freq = domain.CheckWeekly
	}
	return domain.ChangeDetection{
		DocumentID:     documentID,
		LastCheckDate:  now,
		NextCheckDate:  NextCheckDate(now, freq),
		CheckFrequency: freq,
	}
}
