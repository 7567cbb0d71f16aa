package model

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"
)

// DateLayout is the ISO-8601 layout used for Submission.Date (UTC, millisecond precision).
const DateLayout = "2006-01-02T15:04:05.000Z07:00"

// Submission represents one contact form entry as stored in the submissions file.
// Optional fields keep the JSON value exactly as submitted (string, number, ...).
type Submission struct {
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Message     string          `json:"message"`
	Subject     string          `json:"subject,omitempty"`
	Company     json.RawMessage `json:"company,omitempty"`
	Phone       json.RawMessage `json:"phone,omitempty"`
	ProjectType json.RawMessage `json:"projectType,omitempty"`
	Budget      json.RawMessage `json:"budget,omitempty"`
	Timeline    json.RawMessage `json:"timeline,omitempty"`
	Date        string          `json:"date,omitempty"` // server-assigned at write time
}

// Stamp sets Date to t in UTC.
func (s *Submission) Stamp(t time.Time) {
	s.Date = t.UTC().Format(DateLayout)
}

// Validate reports every empty required field.
// name, email, message and subject are required.
func (s *Submission) Validate() error {
	var missing []string
	if s.Name == "" {
		missing = append(missing, "name")
	}
	if s.Email == "" {
		missing = append(missing, "email")
	}
	if s.Message == "" {
		missing = append(missing, "message")
	}
	if s.Subject == "" {
		missing = append(missing, "subject")
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// Text renders the plain-text notification sent to administrators.
// Optional fields appear only when present; the line order is fixed.
func (s *Submission) Text() string {
	var b strings.Builder
	b.WriteString("New Contact Request:\n")
	b.WriteString("Name: " + s.Name + "\n")
	writeField(&b, "Company", s.Company)
	writeField(&b, "Phone", s.Phone)
	b.WriteString("Email: " + s.Email + "\n")
	b.WriteString("Subject: " + s.Subject + "\n")
	writeField(&b, "Project Type", s.ProjectType)
	writeField(&b, "Budget", s.Budget)
	writeField(&b, "Timeline", s.Timeline)
	b.WriteString("Message: " + s.Message)
	return b.String()
}

func writeField(b *strings.Builder, label string, raw json.RawMessage) {
	if v, ok := FieldText(raw); ok {
		b.WriteString(label + ": " + v + "\n")
	}
}

// FieldText renders an optional field for display. Strings are unquoted,
// other values use their compact JSON form. Absent, null, "", 0 and false
// report ok=false.
func FieldText(raw json.RawMessage) (text string, ok bool) {
	var v any
	if len(raw) == 0 || json.Unmarshal(raw, &v) != nil {
		return "", false
	}
	switch x := v.(type) {
	case nil:
		return "", false
	case string:
		return x, x != ""
	case bool:
		if !x {
			return "", false
		}
	case float64:
		if x == 0 {
			return "", false
		}
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return "", false
	}
	return buf.String(), true
}

// StringField encodes s as an optional field value; "" yields an absent field.
func StringField(s string) json.RawMessage {
	if s == "" {
		return nil
	}
	raw, _ := json.Marshal(s)
	return raw
}

// ValidationError is returned when a submission lacks required fields.
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "missing required fields: " + strings.Join(e.Missing, ", ")
}

// ChatCommand carries the identifiers the messaging platform hands to a command handler.
type ChatCommand struct {
	SenderID string
	ChatID   string
}
