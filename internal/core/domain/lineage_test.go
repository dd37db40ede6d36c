package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDocumentLineage_Current(t *testing.T) {
	l := &DocumentLineage{
		DocumentID:     "cpeum",
		CurrentVersion: "v2",
		Versions: []LegalVersion{
			{VersionID: "v1", VersionNumber: 1, NextVersionID: "v2"},
			{VersionID: "v2", VersionNumber: 2, PreviousVersionID: "v1", IsCurrentVersion: true},
		},
	}

	current := l.Current()
	if assert.NotNil(t, current) {
		assert.Equal(t, "v2", current.VersionID)
	}
	assert.NotNil(t, l.Version("v1"))
	assert.Nil(t, l.Version("v9"))
	assert.NoError(t, l.Validate())
}

func TestDocumentLineage_Validate(t *testing.T) {
	none := &DocumentLineage{Versions: []LegalVersion{{VersionID: "v1"}, {VersionID: "v2"}}}
	assert.ErrorIs(t, none.Validate(), ErrInvalidInput)

	two := &DocumentLineage{Versions: []LegalVersion{
		{VersionID: "v1", IsCurrentVersion: true},
		{VersionID: "v2", IsCurrentVersion: true},
	}}
	assert.ErrorIs(t, two.Validate(), ErrInvalidInput)

	mismatch := &DocumentLineage{CurrentVersion: "v1", Versions: []LegalVersion{
		{VersionID: "v1"},
		{VersionID: "v2", IsCurrentVersion: true},
	}}
	assert.ErrorIs(t, mismatch.Validate(), ErrInvalidInput)

	empty := &DocumentLineage{}
	assert.NoError(t, empty.Validate())
}

func TestSourceValidation_IsValid(t *testing.T) {
	assert.True(t, SourceValidation{TrustScore: 1}.IsValid())
	assert.False(t, SourceValidation{Errors: []string{"invalid source URL"}}.IsValid())
}

func TestChangeDetection_IsDue(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	rec := &ChangeDetection{NextCheckDate: now}
	assert.True(t, rec.IsDue(now))
	assert.True(t, rec.IsDue(now.Add(time.Minute)))
	assert.False(t, rec.IsDue(now.Add(-time.Minute)))
}

func TestCheckFrequency_Valid(t *testing.T) {
	assert.True(t, CheckDaily.Valid())
	assert.True(t, CheckWeekly.Valid())
	assert.True(t, CheckMonthly.Valid())
	assert.False(t, CheckFrequency("hourly").Valid())
}
