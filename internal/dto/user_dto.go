package dto

// LoginRequest is the body of POST /users/login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// UserProfile is the signed-in user returned by login
type UserProfile struct {
	ID              string `json:"id" yaml:"id"`
	FirstName       string `json:"firstName" yaml:"first_name"`
	LastName        string `json:"lastName" yaml:"last_name"`
	Email           string `json:"email" yaml:"email"`
	UserName        string `json:"userName" yaml:"user_name"`
	ProfileImageURL string `json:"profileImageUrl,omitempty" yaml:"profile_image_url,omitempty"`
}

// LoginResponse is the payload of a successful login
type LoginResponse struct {
	Token          string      `json:"token"`
	ExpirationTime Time        `json:"expirationTime"`
	User           UserProfile `json:"user"`
}

// RegisterRequest is the body of POST /users/register
type RegisterRequest struct {
	UserName  string `json:"userName" binding:"required,min=3"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=6"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName" binding:"required"`
}
