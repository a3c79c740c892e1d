package domain

import "time"

// Review is one user review. The pipeline only filters on playtime and
// creation date; everything else is passed through to the summarizer opaquely.
type Review struct {
	PlaytimeMinutes int    `json:"playtimeMinutes"`
	CreatedAt       int64  `json:"createdAt"`
	VotedUp         bool   `json:"votedUp"`
	Text            string `json:"text"`
}

// CreatedTime converts the epoch timestamp into UTC time.
func (r Review) CreatedTime() time.Time {
	return time.Unix(r.CreatedAt, 0).UTC()
}

// ReviewFilter bounds reviews by author playtime (hours, inclusive) and by
// creation date (calendar days, inclusive; the end bound covers its whole day).
type ReviewFilter struct {
	MinPlaytimeHours float64
	MaxPlaytimeHours float64
	StartDate        time.Time
	EndDate          time.Time
}

// Matches reports whether the review falls inside every bound.
func (f ReviewFilter) Matches(r Review) bool {
	hours := float64(r.PlaytimeMinutes) / 60
	if hours < f.MinPlaytimeHours || hours > f.MaxPlaytimeHours {
		return false
	}

	created := r.CreatedTime()
	if created.Before(f.StartDate) {
		return false
	}

	endOfDay := f.EndDate.Add(24*time.Hour - time.Nanosecond)
	return !created.After(endOfDay)
}
