package appointments

import (
	"fmt"
	"time"
)

const (
	// SlotCount is how many candidates the model is asked for.
	SlotCount = 3
	// OpeningHour and ClosingHour bound slot start times, inclusive.
	OpeningHour = 10
	ClosingHour = 20

	referenceDateLayout = "January 2, 2006"
)

// PromptPair is the system/user instruction pair sent to the completion provider.
type PromptPair struct {
	System string
	User   string
}

// BuildPrompt renders the slot generation rules for the given reference date.
// The date is formatted in ref's location, so callers pick the location.
func BuildPrompt(preferences string, ref time.Time) PromptPair {
	today := ref.Format(referenceDateLayout)

	system := fmt.Sprintf(`You are an appointment booking assistant.
Given a user's preferences, return a JSON object with %[1]d available future appointment slots.
- Appointments must be Monday to Friday, between %[2]s and %[3]s, starting on the hour or half hour only (:00 or :30).
- Only suggest appointments AFTER today's date (%[4]s). DO NOT SUGGEST APPOINTMENTS IN THE PAST.
- The output JSON must be exactly:
{
  "availableAppointments": [
    { "startTime": "<ISO8601>" }
  ]
}
  with exactly %[1]d objects in "availableAppointments", each "startTime" an ISO 8601 timestamp.
- Pick different times on each run, and reflect the user's preferred days or times of day if they mention any.
- Ensure no two appointments share the same date and time.
- Return nothing but the JSON object. No explanations and no markdown code fences.`,
		SlotCount, hourLabel(OpeningHour), hourLabel(ClosingHour), today)

	user := fmt.Sprintf(`User preferences for appointments: %q. Generate the %d appointment slots using the defined rules.`,
		preferences, SlotCount)

	return PromptPair{System: system, User: user}
}

func hourLabel(hour int) string {
	return time.Date(2000, 1, 1, hour, 0, 0, 0, time.UTC).Format("3pm")
}
