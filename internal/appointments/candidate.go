package appointments

import (
	"bytes"
	"encoding/json"
	"time"
)

const (
	startTimeKey   = "startTime"
	displayTimeKey = "displayTime"
)

// Candidate is one slot as emitted by the provider. The raw JSON is kept so
// provider-supplied fields pass through untouched.
type Candidate struct {
	raw    json.RawMessage
	fields map[string]any
}

func newCandidate(raw json.RawMessage) Candidate {
	c := Candidate{raw: raw}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var fields map[string]any
	if err := dec.Decode(&fields); err == nil && fields != nil {
		c.fields = fields
	}
	return c
}

// StartTime returns the startTime field when present and a string.
func (c Candidate) StartTime() (string, bool) {
	if c.fields == nil {
		return "", false
	}
	s, ok := c.fields[startTimeKey].(string)
	return s, ok
}

// Field returns a decoded field. Numbers are json.Number.
func (c Candidate) Field(name string) (any, bool) {
	v, ok := c.fields[name]
	return v, ok
}

// IsObject reports whether the provider emitted a JSON object for this slot.
func (c Candidate) IsObject() bool { return c.fields != nil }

func (c Candidate) MarshalJSON() ([]byte, error) {
	if len(c.raw) == 0 {
		return []byte("null"), nil
	}
	return c.raw, nil
}

// Appointment is a Candidate after enrichment. When enrichment failed it
// marshals exactly like the Candidate.
type Appointment struct {
	Candidate
	DisplayTime string
	// Start is the parsed startTime; zero when parsing failed.
	Start time.Time
	// Failure explains why DisplayTime is empty.
	Failure error
}

// Enriched reports whether a display time was added.
func (a Appointment) Enriched() bool {
	return a.Failure == nil && a.DisplayTime != ""
}

func (a Appointment) MarshalJSON() ([]byte, error) {
	if !a.Enriched() || a.fields == nil {
		return a.Candidate.MarshalJSON()
	}

	display, err := json.Marshal(a.DisplayTime)
	if err != nil {
		return nil, err
	}

	if _, exists := a.fields[displayTimeKey]; exists {
		merged := make(map[string]any, len(a.fields))
		for k, v := range a.fields {
			merged[k] = v
		}
		merged[displayTimeKey] = a.DisplayTime
		return json.Marshal(merged)
	}

	// Splice the key in before the closing brace to keep field order and
	// number formatting exactly as the provider sent them.
	body := bytes.TrimSpace(a.raw)
	body = bytes.TrimSuffix(body, []byte("}"))
	var buf bytes.Buffer
	buf.Grow(len(body) + len(display) + 20)
	buf.Write(body)
	if !bytes.Equal(bytes.TrimSpace(body), []byte("{")) {
		buf.WriteByte(',')
	}
	buf.WriteString(`"` + displayTimeKey + `":`)
	buf.Write(display)
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
