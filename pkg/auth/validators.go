package auth

// SignupPayload is the payload for creating a new account.
type SignupPayload struct {
	Username string  `json:"username" mod:"trim" validate:"required,min=3,max=30"`
	Email    *string `json:"email,omitempty" mod:"trim" validate:"omitempty,email,max=254"`
	Password string  `json:"password" validate:"required,min=8,max=72"`
}

// LoginPayload is the payload for logging in.
type LoginPayload struct {
	Username string `json:"username" mod:"trim" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// MeResponse is the public shape of the authenticated user.
type MeResponse struct {
	ID        int     `json:"id"`
	Username  string  `json:"username"`
	Email     *string `json:"email,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// StatusResponse reports session validity.
type StatusResponse struct {
	Authenticated bool    `json:"authenticated"`
	Username      *string `json:"username,omitempty"`
}
