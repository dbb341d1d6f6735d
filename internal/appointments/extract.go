package appointments

import (
	"encoding/json"
	"strings"
)

var fenceReplacer = strings.NewReplacer("```json", "", "```", "")

// StripCodeFences removes every ```json and ``` marker and trims the result.
// Text without fences only loses surrounding whitespace.
func StripCodeFences(raw string) string {
	return strings.TrimSpace(fenceReplacer.Replace(raw))
}

// Extract parses the provider text into candidates, in provider order.
//
// Text that is not a single JSON value is a *MalformedResponseError. Valid
// JSON of the wrong shape (no availableAppointments key, or a non-array value)
// yields no candidates and no error.
func Extract(raw string) ([]Candidate, error) {
	cleaned := StripCodeFences(raw)

	var top json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &top); err != nil {
		return nil, &MalformedResponseError{Raw: raw, Err: err}
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(top, &envelope); err != nil {
		return []Candidate{}, nil
	}
	list, ok := envelope["availableAppointments"]
	if !ok {
		return []Candidate{}, nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(list, &items); err != nil || items == nil {
		return []Candidate{}, nil
	}

	candidates := make([]Candidate, 0, len(items))
	for _, item := range items {
		candidates = append(candidates, newCandidate(item))
	}
	return candidates, nil
}
