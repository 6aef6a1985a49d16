package attendance

type CheckInRequest struct {
	Time     string `json:"time"`
	Location string `json:"location"`
}

type CheckOutRequest struct {
	Time string `json:"time"`
}

type CheckInResponse struct {
	CheckInTime string `json:"check_in_time"`
}

type CheckOutResponse struct {
	CheckOutTime string `json:"check_out_time"`
}

type RecordResponse struct {
	Date          string   `json:"date"`
	CheckIn       string   `json:"check_in"`
	CheckOut      string   `json:"check_out"`
	DurationHours *float64 `json:"duration_hours"`
	Status        string   `json:"status"`
	Location      string   `json:"location"`
}

// SummaryResponse covers the calendar month the request lands in.
type SummaryResponse struct {
	PresentDays          int     `json:"present_days"`
	LateDays             int     `json:"late_days"`
	AbsentDays           int     `json:"absent_days"`
	AttendancePercentage float64 `json:"attendance_percentage"`
}
