package dto

// AdminLoginRequest is the body of POST /api/admin/login
type AdminLoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"admin@edulearn.com"`
	Password string `json:"password" binding:"required" example:"admin123"`
}

// AdminInfo is the admin summary returned on login
type AdminInfo struct {
	ID       int64  `json:"id" example:"1"`
	Username string `json:"username" example:"admin"`
	Email    string `json:"email" example:"admin@edulearn.com"`
	Role     string `json:"role" example:"superadmin"`
}

// AdminLoginResponse is the body returned by a successful admin login
type AdminLoginResponse struct {
	Token string    `json:"token"`
	Admin AdminInfo `json:"admin"`
}

// CreateAdminRequest is the body of POST /api/admin/create
type CreateAdminRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50" example:"editor"`
	Email    string `json:"email" binding:"required,email" example:"editor@edulearn.com"`
	Password string `json:"password" binding:"required,min=6" example:"secret123"`
	Role     string `json:"role" binding:"omitempty,oneof=admin superadmin" example:"admin"`
}

// RegisterRequest is the body of POST /api/auth/register
type RegisterRequest struct {
	Name     string `json:"name" binding:"required,max=100" example:"Jane Doe"`
	Email    string `json:"email" binding:"required,email" example:"jane@example.com"`
	Password string `json:"password" binding:"required,min=6" example:"secret123"`
}

// LoginRequest is the body of POST /api/auth/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email" example:"jane@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
}

// TokenResponse carries a freshly issued user token
type TokenResponse struct {
	Token string `json:"token"`
}
