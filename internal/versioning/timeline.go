package versioning

import (
	"sort"

	"github.com/custodia-labs/lexcore/internal/core/domain"
)

// BuildTimeline emits a publication event per version and, when the
// version took effect on a different day, an effective event. Events are
// sorted chronologically; same-day events keep version order.
func BuildTimeline(versions []domain.LegalVersion) []domain.TimelineEvent {
	events := make([]domain.TimelineEvent, 0, 2*len(versions))
	for _, v := range versions {
		if !v.PublicationDate.IsZero() {
			events = append(events, event(v, domain.TimelineEventPublication, v.PublicationDate))
		}
		if !v.EffectiveDate.IsZero() && !v.EffectiveDate.Equal(v.PublicationDate) {
			events = append(events, event(v, domain.TimelineEventEffective, v.EffectiveDate))
		}
	}

	sort.SliceStable(events, func(i, j int) bool {
		return events[i].Date.Before(events[j].Date)
	})
	return events
}

func event(v domain.LegalVersion, t domain.TimelineEventType, d domain.Date) domain.TimelineEvent {
	return domain.TimelineEvent{
		Date:          d.Time,
		Type:          t,
		VersionID:     v.VersionID,
		VersionNumber: v.VersionNumber,
		ReformType:    v.ReformType,
		Description:   v.Description,
	}
}
