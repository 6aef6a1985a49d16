package user

type ProfileResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"created_at"`
}

type UserInfoResponse struct {
	ID               string  `json:"id"`
	Name             string  `json:"name"`
	Email            string  `json:"email"`
	EmployeeCode     *string `json:"employee_id"`
	IsAdmin          bool    `json:"is_admin"`
	EmployeeRecordID *string `json:"employee_record_id"`
}
