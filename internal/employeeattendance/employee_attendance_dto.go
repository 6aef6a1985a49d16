package employeeattendance

const (
	ActionCheckIn  = "check_in"
	ActionCheckOut = "check_out"
)

type MarkRequest struct {
	EmployeeID string `json:"employee_id" binding:"required"`
	Status     string `json:"status"`
	Action     string `json:"action"`
	CheckIn    string `json:"check_in"`
	CheckOut   string `json:"check_out"`
}

type MarkResponse struct {
	EmployeeID string `json:"employee_id"`
	Date       string `json:"date"`
	Status     string `json:"status"`
}

// RecordResponse normalizes times to HH:MM display granularity; a missing
// check-out is rendered as the "-" sentinel, never null.
type RecordResponse struct {
	ID           string `json:"id"`
	EmployeeID   string `json:"employee_id"`
	EmployeeName string `json:"employee_name"`
	Date         string `json:"date"`
	CheckIn      string `json:"check_in"`
	CheckOut     string `json:"check_out"`
	Status       string `json:"status"`
}
