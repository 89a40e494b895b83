package domain

import "time"

// Client represents a registered shop account.
type Client struct {
	ID           int64     `json:"clientId"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	Address      string    `json:"address,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Region       string    `json:"region,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// PasswordReset is a short-lived verification code mailed to a client.
type PasswordReset struct {
	Code      string
	ClientID  int64
	ExpiresAt time.Time
	CreatedAt time.Time
}
