package events

import "time"

const EmployeeCreatedTopic = "attendly.employee.lifecycle.v1"

type EmployeeCreatedEvent struct {
	EventType  string    `json:"event_type"`
	RequestID  string    `json:"request_id,omitempty"`
	EmployeeID string    `json:"employee_id"`
	Email      string    `json:"email"`
	Department string    `json:"department"`
	OccurredAt time.Time `json:"occurred_at"`
}
