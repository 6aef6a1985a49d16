package employee

type CreateEmployeeRequest struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Department   string `json:"department" binding:"required"`
	EmployeeCode string `json:"employee_id" binding:"required"`
	Password     string `json:"password"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type EmployeeResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Department string `json:"department"`
	Status     string `json:"status"`
	IsActive   bool   `json:"is_active"`
	CreatedAt  string `json:"created_at"`
	DeletedAt  string `json:"deleted_at,omitempty"`
}

type EmployeeDetailsResponse struct {
	Employee     EmployeeResponse `json:"employee"`
	EmployeeCode *string          `json:"employee_id"`
	Stats        AttendanceStats  `json:"attendance_stats"`
}
