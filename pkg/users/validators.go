package users

// UpdateProfilePayload represents the request body for editing your profile.
type UpdateProfilePayload struct {
	Bio       *string `json:"bio" validate:"omitempty,max=1000"`
	AvatarURL *string `json:"avatar_url" mod:"trim" validate:"omitempty,web_url,max=2000"`
}

// ChangePasswordPayload represents the request body for changing your own
// password.
type ChangePasswordPayload struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=8,max=72"`
}

// ListUsersQuery represents the query parameters for listing users.
type ListUsersQuery struct {
	Search string `query:"search" mod:"trim"`
	Limit  int    `query:"limit" default:"50" validate:"min=1,max=100"`
	Offset int    `query:"offset" validate:"min=0"`
}
