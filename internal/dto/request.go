package dto

type RegisterRequest struct {
	Email          string `json:"email" binding:"required,email"`
	Username       string `json:"username" binding:"required"`
	FirstPassword  string `json:"first_password" binding:"required"`
	SecondPassword string `json:"second_password" binding:"required"`
	Role           string `json:"role"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}
