package auth

type SignupRequest struct {
	Name         string `json:"name" binding:"required"`
	Email        string `json:"email" binding:"required,email"`
	Password     string `json:"password" binding:"required"`
	EmployeeCode string `json:"employee_id" binding:"required"`
}

type LoginRequest struct {
	EmployeeCode string `json:"employee_id" binding:"required"`
	Password     string `json:"password" binding:"required"`
}

type ResetPasswordRequest struct {
	EmployeeCode string `json:"employee_id" binding:"required"`
	NewPassword  string `json:"new_password" binding:"required"`
}

type UserSummary struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	EmployeeCode *string `json:"employee_id"`
	IsAdmin      bool    `json:"is_admin"`
}
