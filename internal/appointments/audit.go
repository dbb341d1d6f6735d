package appointments

import (
	"time"
)

// Rules the prompt asks the model to follow. Violations are reported, never
// used to drop or rewrite a slot.
const (
	RuleWeekday   = "weekday"
	RuleHours     = "business_hours"
	RuleHalfHour  = "half_hour_mark"
	RuleFuture    = "future"
	RuleDuplicate = "duplicate"
)

// Violation is one broken scheduling rule for the slot at Index.
type Violation struct {
	Index int
	Rule  string
	Start time.Time
}

// AuditSlot checks a single start time against the prompt's rules, in loc.
func AuditSlot(start, now time.Time, loc *time.Location) []string {
	if loc == nil {
		loc = time.UTC
	}
	local := start.In(loc)
	var rules []string

	if wd := local.Weekday(); wd == time.Saturday || wd == time.Sunday {
		rules = append(rules, RuleWeekday)
	}
	minutes := local.Hour()*60 + local.Minute()
	if minutes < OpeningHour*60 || minutes > ClosingHour*60 {
		rules = append(rules, RuleHours)
	}
	if (local.Minute() != 0 && local.Minute() != 30) || local.Second() != 0 || local.Nanosecond() != 0 {
		rules = append(rules, RuleHalfHour)
	}
	if !start.After(now) {
		rules = append(rules, RuleFuture)
	}
	return rules
}

// AuditAppointments checks every parsed slot, plus duplicates across the list.
// Slots without a parsed start time are skipped.
func AuditAppointments(appts []Appointment, now time.Time, loc *time.Location) []Violation {
	var out []Violation
	seen := make(map[int64]bool, len(appts))
	for i, a := range appts {
		if a.Start.IsZero() {
			continue
		}
		for _, rule := range AuditSlot(a.Start, now, loc) {
			out = append(out, Violation{Index: i, Rule: rule, Start: a.Start})
		}
		key := a.Start.UnixNano()
		if seen[key] {
			out = append(out, Violation{Index: i, Rule: RuleDuplicate, Start: a.Start})
		}
		seen[key] = true
	}
	return out
}
