// Package audit records every state-changing controller action to a
// JSON-lines trail that can be queried after the fact.
package audit

import (
	"fmt"
	"time"
)

// Event is one audited controller action.
type Event struct {
	ID        string        `json:"id"`
	Timestamp time.Time     `json:"timestamp"`
	Action    string        `json:"action"`
	Site      string        `json:"site,omitempty"`
	MAC       string        `json:"mac,omitempty"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
	Message   string        `json:"message,omitempty"`
	Duration  time.Duration `json:"duration"`
}

// Filter defines criteria for querying audit events
type Filter struct {
	Action      string
	Site        string
	MAC         string
	StartTime   time.Time
	EndTime     time.Time
	SuccessOnly bool
	FailureOnly bool
	Limit       int
	Offset      int
}

// NewEvent creates a new audit event
func NewEvent(action, site, mac string) *Event {
	return &Event{
		ID:        generateID(),
		Timestamp: time.Now(),
		Action:    action,
		Site:      site,
		MAC:       mac,
	}
}

// WithSuccess marks the event as successful
func (e *Event) WithSuccess(message string) *Event {
	e.Success = true
	e.Message = message
	return e
}

// WithError marks the event as failed
func (e *Event) WithError(msg string) *Event {
	e.Success = false
	e.Error = msg
	return e
}

// WithDuration sets the action duration
func (e *Event) WithDuration(d time.Duration) *Event {
	e.Duration = d
	return e
}

func generateID() string {
	return fmt.Sprintf("%d", time.Now().UnixNano())
}
