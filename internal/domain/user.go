package domain

import "time"

// User represents a registered portal member. SessionToken is empty when the
// user has no active session.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	SessionToken string
	Profile      Profile
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Profile holds the mutable, non security-relevant fields of a user.
type Profile struct {
	Name      string
	Username  string
	SRN       string
	Semester  string
	Bio       string
	AvatarURL string
}

// Identity is what the authorization gate hands to protected handlers.
type Identity struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (u *User) Identity() Identity {
	return Identity{ID: u.ID, Name: u.Name, Email: u.Email}
}
