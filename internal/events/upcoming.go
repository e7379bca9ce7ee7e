package events

import (
	"sort"
	"time"

	"github.com/nosa-terra/comparsa-client/internal/models"
)

// Upcoming derives the sidebar list: events still running or ahead of now
// (end date after now), ascending by start date, truncated to limit. This is
// pure client-side derivation; the server has no equivalent endpoint.
func Upcoming(list []models.Event, now time.Time, limit int) []models.Event {
	out := make([]models.Event, 0, len(list))
	for _, ev := range list {
		if ev.EndDate.After(now) {
			out = append(out, ev)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].StartDate.Before(out[j].StartDate)
	})
	if limit >= 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
