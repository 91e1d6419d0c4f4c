package users

// SearchUsersQuery is the query for searching users by username.
type SearchUsersQuery struct {
	Query string `query:"q" json:"q" mod:"trim" validate:"required,min=1,max=30"`
	Limit int    `query:"limit" json:"limit,omitempty" default:"20" validate:"min=1,max=50"`
}

// UpdateProfilePayload updates the caller's own profile.
type UpdateProfilePayload struct {
	Bio       *string `json:"bio,omitempty" validate:"omitempty,max=1000"`
	AvatarURL *string `json:"avatar_url,omitempty" validate:"omitempty,url,max=500"`
}
