package appointments

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// DisplayLayout renders a slot the way US clients expect:
// "Monday, March 10 at 10:00 AM".
const DisplayLayout = "Monday, January 2 at 3:04 PM"

var (
	errNoStartTime = errors.New("startTime missing or not a string")

	offsetLayouts = []string{
		time.RFC3339Nano,
		"2006-01-02T15:04Z07:00",
		"2006-01-02 15:04:05Z07:00",
	}
	localLayouts = []string{
		"2006-01-02T15:04:05",
		"2006-01-02T15:04",
		"2006-01-02 15:04:05",
		"2006-01-02 15:04",
	}
)

// ParseStartTime accepts the ISO 8601 shapes models emit. Timestamps with an
// offset keep it; naive datetimes are read in loc; a bare date is UTC midnight.
func ParseStartTime(raw string, loc *time.Location) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if loc == nil {
		loc = time.UTC
	}
	for _, layout := range offsetLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t, nil
		}
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return t, nil
		}
	}
	if t, err := time.Parse("2006-01-02", raw); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("cannot parse start time %q", raw)
}

// DisplayLocation returns the location for a timezone name, UTC when empty or unknown.
func DisplayLocation(name string) *time.Location {
	if strings.TrimSpace(name) == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Enricher adds displayTime to candidates.
type Enricher struct {
	loc *time.Location
}

func NewEnricher(loc *time.Location) *Enricher {
	if loc == nil {
		loc = time.UTC
	}
	return &Enricher{loc: loc}
}

// Enrich maps candidates one-to-one, in order. A candidate that cannot be
// rendered comes back unchanged with Failure set.
func (e *Enricher) Enrich(candidates []Candidate) []Appointment {
	out := make([]Appointment, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, e.enrichOne(c))
	}
	return out
}

func (e *Enricher) enrichOne(c Candidate) Appointment {
	raw, ok := c.StartTime()
	if !ok {
		return Appointment{Candidate: c, Failure: errNoStartTime}
	}
	start, err := ParseStartTime(raw, e.loc)
	if err != nil {
		return Appointment{Candidate: c, Failure: err}
	}
	return Appointment{
		Candidate:   c,
		Start:       start,
		DisplayTime: start.In(e.loc).Format(DisplayLayout),
	}
}
