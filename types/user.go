package types

import "time"

// SocialLinks is the fixed set of optional profile URLs a user can publish.
type SocialLinks struct {
	LinkedIn string `json:"linkedin"`
	GitHub   string `json:"github"`
	Twitter  string `json:"twitter"`
}

// User represents a registered identity in the system.
// It contains credentials, public-profile fields, and audit metadata.
type User struct {
	// ID is the unique identifier of the user, assigned at registration.
	ID string `json:"id" db:"id"`

	// Email is the unique address the user registered with.
	Email string `json:"email" db:"email"`

	// PasswordHash stores the bcrypt hash of the user's password.
	// This field is never exposed in API responses.
	PasswordHash string `json:"-" db:"password_hash"`

	// DisplayName is the name shown on the public profile.
	DisplayName string `json:"displayName" db:"display_name"`

	// ProfilePicture is a URL or upload reference to the user's picture.
	ProfilePicture string `json:"profilePicture" db:"profile_picture"`

	// Bio is free-text shown on the public profile.
	Bio string `json:"bio" db:"bio"`

	// SocialLinks holds the user's optional social URLs.
	SocialLinks SocialLinks `json:"socialLinks" db:"social_links"`

	// CreatedAt is the timestamp when the account was created.
	CreatedAt time.Time `json:"createdAt" db:"created_at"`

	// UpdatedAt is the timestamp of the most recent account update.
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
