package events

import "time"

const AttendanceMarkedTopic = "attendly.attendance.marked.v1"

type AttendanceMarkedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	EmployeeID string    `json:"employee_id"`
	Date       string    `json:"date"`
	Action     string    `json:"action"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurred_at"`
}
