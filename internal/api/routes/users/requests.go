package users

type CreateUserRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Username  string `json:"username" validate:"required,alphanum"`
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Password  string `json:"password" validate:"required"`
}

type SetPasswordRequest struct {
	NewPassword     string `json:"new_password" validate:"required"`
	CurrentPassword string `json:"current_password" validate:"required"`
}
