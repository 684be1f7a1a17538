package events

import "time"

const (
	EmployeeLifecycleTopic = "garage.employee.lifecycle.v1"

	EventTypeEmployeeProvisioned = "employee_provisioned"
)

type EmployeeProvisionedEvent struct {
	EventType     string    `json:"event_type"`
	RequestID     string    `json:"request_id,omitempty"`
	UserUID       string    `json:"user_uid"`
	ParentUserUID string    `json:"parent_user_uid"`
	GarageUID     string    `json:"garage_uid"`
	LoginID       string    `json:"login_id"`
	UserRole      string    `json:"user_role"`
	OccurredAt    time.Time `json:"occurred_at"`
}
