package appointments

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAuditSlot(t *testing.T) {
	now := time.Date(2025, 3, 7, 12, 0, 0, 0, time.UTC) // Friday
	tests := []struct {
		name  string
		start time.Time
		want  []string
	}{
		{"valid monday morning", time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC), nil},
		{"closing hour is allowed", time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC), nil},
		{"saturday", time.Date(2025, 3, 8, 11, 0, 0, 0, time.UTC), []string{RuleWeekday}},
		{"too early", time.Date(2025, 3, 10, 9, 30, 0, 0, time.UTC), []string{RuleHours}},
		{"after closing", time.Date(2025, 3, 10, 20, 30, 0, 0, time.UTC), []string{RuleHours}},
		{"quarter hour", time.Date(2025, 3, 10, 11, 15, 0, 0, time.UTC), []string{RuleHalfHour}},
		{"past", time.Date(2025, 3, 6, 11, 0, 0, 0, time.UTC), []string{RuleFuture}},
		{"now is not future", now, []string{RuleFuture}},
		{"everything wrong", time.Date(2025, 3, 2, 7, 45, 0, 0, time.UTC), []string{RuleWeekday, RuleHours, RuleHalfHour, RuleFuture}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AuditSlot(tt.start, now, time.UTC))
		})
	}
}

func TestAuditAppointments_FlagsDuplicatesAndSkipsUnparsed(t *testing.T) {
	now := time.Date(2025, 3, 7, 12, 0, 0, 0, time.UTC)
	candidates := mustExtract(t, `{"availableAppointments":[
		{"startTime":"2025-03-10T10:00:00Z"},
		{"startTime":"not-a-date"},
		{"startTime":"2025-03-10T05:00:00-05:00"}
	]}`)
	appts := NewEnricher(time.UTC).Enrich(candidates)

	violations := AuditAppointments(appts, now, time.UTC)
	assert.Equal(t, []Violation{{Index: 2, Rule: RuleDuplicate, Start: appts[2].Start}}, violations)
	assert.Len(t, appts, 3, "audit must not drop slots")
}
