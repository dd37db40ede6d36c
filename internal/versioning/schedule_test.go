package versioning

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexcore/internal/core/domain"
)

var checkNow = time.Date(2026, time.January, 31, 9, 0, 0, 0, time.UTC)

func TestNextCheckDate(t *testing.T) {
	tests := []struct {
		freq domain.CheckFrequency
		want time.Time
	}{
		{domain.CheckDaily, time.Date(2026, time.February, 1, 9, 0, 0, 0, time.UTC)},
		{domain.CheckWeekly, time.Date(2026, time.February, 7, 9, 0, 0, 0, time.UTC)},
		// AddDate normalises Feb 31 to Mar 3
		{domain.CheckMonthly, time.Date(2026, time.March, 3, 9, 0, 0, 0, time.UTC)},
		{"hourly", time.Date(2026, time.February, 1, 9, 0, 0, 0, time.UTC)},
	}
	for _, tt := range tests {
		t.Run(string(tt.freq), func(t *testing.T) {
			assert.Equal(t, tt.want, NextCheckDate(checkNow, tt.freq))
		})
	}
}

func TestRunCheck_NotDueIsNoop(t *testing.T) {
	record := domain.ChangeDetection{
		DocumentID:     "lft",
		NextCheckDate:  checkNow.Add(time.Hour),
		CheckFrequency: domain.CheckDaily,
	}
	called := false
	checker := CheckerFunc(func(context.Context, string) (bool, error) {
		called = true
		return true, nil
	})

	got, err := RunCheck(context.Background(), record, checker, checkNow)
	require.NoError(t, err)
	assert.False(t, called)
	assert.Equal(t, record, got)
}

func TestRunCheck_DueRecordIsRescheduled(t *testing.T) {
	record := domain.ChangeDetection{
		DocumentID:     "lft",
		NextCheckDate:  checkNow,
		CheckFrequency: domain.CheckWeekly,
		LastError:      "previous failure",
	}
	var seen string
	checker := CheckerFunc(func(_ context.Context, id string) (bool, error) {
		seen = id
		return true, nil
	})

	got, err := RunCheck(context.Background(), record, checker, checkNow)
	require.NoError(t, err)
	assert.Equal(t, "lft", seen)
	assert.True(t, got.ChangesDetected)
	assert.Empty(t, got.LastError)
	assert.Equal(t, checkNow, got.LastCheckDate)
	assert.Equal(t, checkNow.AddDate(0, 0, 7), got.NextCheckDate)

	// a second call right away is not due any more
	again, err := RunCheck(context.Background(), got, checker, checkNow)
	require.NoError(t, err)
	assert.Equal(t, got, again)
}

func TestRunCheck_FailureKeepsError(t *testing.T) {
	record := NewChangeDetection("cpeum", domain.CheckDaily, checkNow.AddDate(0, 0, -1))
	boom := errors.New("source unreachable")

	got, err := RunCheck(context.Background(), record, CheckerFunc(func(context.Context, string) (bool, error) {
		return false, boom
	}), checkNow)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, "source unreachable", got.LastError)
	assert.Equal(t, checkNow.AddDate(0, 0, 1), got.NextCheckDate)
	assert.False(t, got.ChangesDetected)
}

func TestNewChangeDetection(t *testing.T) {
	c := NewChangeDetection("cpeum", domain.CheckMonthly, checkNow)
	assert.Equal(t, domain.CheckMonthly, c.CheckFrequency)
	assert.Equal(t, checkNow, c.LastCheckDate)
	assert.False(t, c.IsDue(checkNow))

	fallback := NewChangeDetection("cpeum", "", checkNow)
	assert.Equal(t, domain.CheckWeekly, fallback.CheckFrequency)
}
