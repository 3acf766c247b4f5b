package dto

type RegisterDTO struct {
	Username string `json:"username" binding:"required,min=2,max=64"`
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required,min=8,max=128"`
	Role     string `json:"role"     binding:"required"`
}

type LoginDTO struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Legacy clients send the refresh token in the body; newer ones rely on the
// cookie. Both are accepted.
type LogoutDTO struct {
	RefreshToken string `json:"refreshToken"`
}
