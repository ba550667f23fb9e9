package auth

// LoginPayload represents the login request body.
type LoginPayload struct {
	Username string `json:"username" mod:"trim" validate:"required,min=3,max=50"`
	Password string `json:"password" validate:"required,min=8"`
}

// SignupPayload represents the signup request body.
type SignupPayload struct {
	Username string `json:"username" mod:"trim" validate:"required,min=3,max=30,username"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// MeResponse represents the current user response.
type MeResponse struct {
	ID        int     `json:"id"`
	Username  string  `json:"username"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatar_url"`
}
