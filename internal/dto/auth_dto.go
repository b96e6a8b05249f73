package dto

import "github.com/google/uuid"

type SignUpRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
	InviteID string `json:"inviteId,omitempty"`
	Redirect string `json:"redirect,omitempty"`
	PriceID  string `json:"priceId,omitempty"`
}

type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Redirect string `json:"redirect,omitempty"`
	PriceID  string `json:"priceId,omitempty"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type SignOutRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type UserSummary struct {
	ID                uuid.UUID `json:"id"`
	Email             string    `json:"email"`
	Name              string    `json:"name,omitempty"`
	HasLifetimeAccess bool      `json:"has_lifetime_access"`
}

// AuthResponse carries the token pair plus where the client should go next.
// RedirectTo is either a path or, for checkout handoffs, a hosted Stripe URL.
type AuthResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	User         UserSummary `json:"user"`
	RedirectTo   string      `json:"redirectTo"`
}

type UpdateAccountRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type UpdatePasswordRequest struct {
	CurrentPassword string `json:"current_password"`
	NewPassword     string `json:"new_password"`
	ConfirmPassword string `json:"confirm_password"`
}

type DeleteAccountRequest struct {
	Password string `json:"password"`
}
